package window

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// WheelScale converts one GLFW scroll notch into wheel deltaY units. A notch away from
// the user yields -100, so the camera's 0.05 wheel factor zooms in by 5 units.
const WheelScale = 100

// Window provides platform windowing and input event handling for the city view.
// Input is delivered as pointer, wheel, key and resize events in window pixels.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetWheelCallback sets the callback for mouse wheel events.
	//
	// Parameters:
	//   - callback: function receiving deltaY (negative = away from the user)
	SetWheelCallback(callback func(deltaY float32))

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetPointerDownCallback sets the callback for primary button press.
	//
	// Parameters:
	//   - callback: function receiving the cursor position
	SetPointerDownCallback(callback func(x, y float32))

	// SetPointerUpCallback sets the callback for primary button release.
	//
	// Parameters:
	//   - callback: function to call
	SetPointerUpCallback(callback func())

	// SetPointerMoveCallback sets the callback for cursor movement.
	//
	// Parameters:
	//   - callback: function receiving the cursor position
	SetPointerMoveCallback(callback func(x, y float32))

	// ClearCallbacks unregisters every callback.
	ClearCallbacks()

	// SetTitle replaces the title bar text. Must be called from the loop goroutine.
	//
	// Parameters:
	//   - title: the new title
	SetTitle(title string)

	// Title returns the title passed at construction.
	//
	// Returns:
	//   - string: the base title
	Title() string

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// RequestClose asks the message loop to stop after the current iteration.
	// Safe to call from any goroutine.
	RequestClose()

	// Close destroys the window and releases platform resources.
	// Calling it more than once is a no-op.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int

	// CursorBounds returns the window size in the units pointer callbacks report, which
	// differ from framebuffer pixels on high-DPI displays.
	//
	// Returns:
	//   - width, height: the pointer coordinate extent
	CursorBounds() (width, height float32)
}

// callbacks holds the registered event handlers.
type callbacks struct {
	onUpdate      func()
	onResize      func(width, height int)
	onWheel       func(deltaY float32)
	onKeyDown     func(keyCode uint32)
	onPointerDown func(x, y float32)
	onPointerUp   func()
	onPointerMove func(x, y float32)
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	mu *sync.Mutex

	title string

	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int

	width  int
	height int

	cursorWidth  int
	cursorHeight int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	closeRequested bool
	closeOnEscape  bool

	cb callbacks
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order. Must be called from the
// goroutine that will run ProcessMessages.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured window
//   - error: error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		mu:            &sync.Mutex{},
		title:         "Oxy City",
		maxWidth:      3840,
		maxHeight:     2160,
		minWidth:      320,
		minHeight:     240,
		width:         1600,
		height:        900,
		closeOnEscape: true,
	}
	for _, opt := range options {
		opt(w)
	}
	if w.minWidth > w.maxWidth {
		w.minWidth, w.maxWidth = w.maxWidth, w.minWidth
	}
	if w.minHeight > w.maxHeight {
		w.minHeight, w.maxHeight = w.maxHeight, w.minHeight
	}
	w.width = clampInt(w.width, w.minWidth, w.maxWidth)
	w.height = clampInt(w.height, w.minHeight, w.maxHeight)

	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cb.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cb.onResize = callback
}

func (w *engineWindow) SetWheelCallback(callback func(deltaY float32)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cb.onWheel = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cb.onKeyDown = callback
}

func (w *engineWindow) SetPointerDownCallback(callback func(x, y float32)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cb.onPointerDown = callback
}

func (w *engineWindow) SetPointerUpCallback(callback func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cb.onPointerUp = callback
}

func (w *engineWindow) SetPointerMoveCallback(callback func(x, y float32)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cb.onPointerMove = callback
}

func (w *engineWindow) ClearCallbacks() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cb = callbacks{}
}

func (w *engineWindow) handlers() callbacks {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cb
}

func (w *engineWindow) SetTitle(title string) {
	platformSetTitle(w, title)
}

func (w *engineWindow) Title() string {
	return w.title
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	w.mu.Lock()
	requested := w.closeRequested
	w.mu.Unlock()
	return !requested && platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closeRequested = true
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if cb := w.handlers(); cb.onUpdate != nil {
			cb.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width
}

func (w *engineWindow) Height() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.height
}

func (w *engineWindow) CursorBounds() (width, height float32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return float32(w.cursorWidth), float32(w.cursorHeight)
}

func (w *engineWindow) setCursorBounds(width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cursorWidth, w.cursorHeight = width, height
}

func (w *engineWindow) setSize(width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.width, w.height = width, height
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
