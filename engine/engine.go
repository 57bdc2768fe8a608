package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-city/common"
	"github.com/Carmen-Shannon/oxy-city/engine/camera"
	"github.com/Carmen-Shannon/oxy-city/engine/profiler"
	"github.com/Carmen-Shannon/oxy-city/engine/renderer"
	"github.com/Carmen-Shannon/oxy-city/engine/scene"
	"github.com/Carmen-Shannon/oxy-city/engine/window"
)

var (
	// ErrAlreadyRunning is returned when Run is called on an engine that has started.
	ErrAlreadyRunning = errors.New("engine already running")

	// ErrClosed is returned when Run is called after Close.
	ErrClosed = errors.New("engine closed")
)

// RendererFactory acquires the renderer for a window surface.
type RendererFactory func(surface renderer.Surface) (renderer.Renderer, error)

// engine implements the Engine interface.
// Coordinates the tick goroutine, the render loop on the window thread and teardown.
type engine struct {
	mu *sync.Mutex

	tickRateChannel chan time.Duration

	running bool
	closed  bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once
	closeOnce   sync.Once
	closeErr    error

	window   window.Window
	scene    scene.Scene
	camera   camera.Camera
	composer FrameComposer

	newRenderer     RendererFactory
	rendererOptions []renderer.RendererBuilderOption
	renderer        renderer.Renderer

	profiler         *profiler.Profiler
	profilingEnabled bool

	clock            func() time.Time
	engineTickRate   time.Duration
	renderFrameLimit time.Duration
	titleInterval    time.Duration
	lastTitle        time.Time

	panicErr error
}

// Engine is the interactive city view. It owns the window, renderer, scene and camera for
// the lifetime of one Run and tears all of them down exactly once.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Scene returns the scene the engine animates and draws.
	//
	// Returns:
	//   - scene.Scene: the scene
	Scene() scene.Scene

	// Camera returns the view camera.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Renderer returns the renderer acquired by Run, or nil before Run.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets how often the scene is updated, in ticks per second.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run acquires the renderer, registers input callbacks and runs the render loop on
	// the calling goroutine until the window closes, ctx is cancelled or Quit is called.
	// Every exit path unregisters callbacks and releases the renderer and window.
	// A renderer that cannot be acquired is returned as an error without drawing.
	//
	// Parameters:
	//   - ctx: cancels the view
	//
	// Returns:
	//   - error: acquisition failure, a recovered render panic, or nil
	Run(ctx context.Context) error

	// Quit signals the loops to stop. Safe to call multiple times and from any goroutine.
	Quit()

	// Close releases every resource the engine holds. Safe to call multiple times; Run
	// calls it on exit.
	//
	// Returns:
	//   - error: the window close error, if any
	Close() error
}

// NewEngine creates a new Engine. A window is required and NewEngine panics without one;
// the scene, camera and renderer factory fall back to defaults.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:              &sync.Mutex{},
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		profiler:        profiler.NewProfiler(),
		clock:           time.Now,
		engineTickRate:  time.Second / 60,
		titleInterval:   time.Second,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window == nil {
		panic("engine: NewEngine requires a window")
	}
	if e.scene == nil {
		e.scene = scene.NewScene(nil)
	}
	if e.camera == nil {
		e.camera = camera.NewCamera()
	}
	if e.composer == nil {
		e.composer = NewFrameComposer(nil)
	}
	if e.newRenderer == nil {
		opts := e.rendererOptions
		e.newRenderer = func(surface renderer.Surface) (renderer.Renderer, error) {
			return renderer.NewRenderer(renderer.BackendTypeWGPU, surface, opts...)
		}
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Renderer() renderer.Renderer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.renderer
}

func (e *engine) Run(ctx context.Context) error {
	e.mu.Lock()
	switch {
	case e.closed:
		e.mu.Unlock()
		return ErrClosed
	case e.running:
		e.mu.Unlock()
		return ErrAlreadyRunning
	}
	e.running = true
	e.mu.Unlock()

	defer e.Close()

	r, err := e.newRenderer(e.window)
	if err != nil {
		return fmt.Errorf("acquiring renderer: %w", err)
	}
	e.mu.Lock()
	e.renderer = r
	e.mu.Unlock()

	e.camera.SetAspect(r.Aspect())
	e.scene.Update(e.clock())
	e.registerCallbacks()
	log.Printf("[Engine] view started (%s, %s)", r.Backend(), e.scene.Theme())

	e.wg.Add(2)
	go e.handleTicks()
	go e.handleContext(ctx)

	e.window.ProcessMessages()
	e.signalQuit()
	e.wg.Wait()

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.panicErr
}

// Quit signals all engine goroutines to stop.
func (e *engine) Quit() {
	e.signalQuit()
}

func (e *engine) Close() error {
	e.closeOnce.Do(func() {
		e.signalQuit()
		e.window.ClearCallbacks()

		e.mu.Lock()
		e.closed = true
		r := e.renderer
		e.mu.Unlock()

		if r != nil {
			r.Release()
		}
		e.composer.Release()
		if err := e.window.Close(); err != nil {
			e.closeErr = fmt.Errorf("closing window: %w", err)
		}
		log.Printf("[Engine] view closed")
	})
	return e.closeErr
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
		e.window.RequestClose()
	})
}

func (e *engine) quitting() bool {
	select {
	case <-e.quitChannel:
		return true
	default:
		return false
	}
}

// registerCallbacks wires window input to the camera controller, scene and renderer.
func (e *engine) registerCallbacks() {
	ctrl := e.camera.Controller()

	e.window.SetPointerDownCallback(ctrl.OnPointerDown)
	e.window.SetPointerUpCallback(ctrl.OnPointerUp)
	e.window.SetPointerMoveCallback(func(x, y float32) {
		ctrl.OnPointerMove(x, y)
		if !ctrl.Dragging() {
			e.hover(x, y)
		}
	})
	e.window.SetWheelCallback(ctrl.OnWheel)
	e.window.SetKeyDownCallback(e.handleKey)
	e.window.SetResizeCallback(func(width, height int) {
		if r := e.Renderer(); r != nil {
			r.Resize(width, height)
		}
		if width > 0 && height > 0 {
			e.camera.SetAspect(float32(width) / float32(height))
		}
	})
	e.window.SetUpdateCallback(e.renderFrame)
}

// hover highlights the building under the pointer.
func (e *engine) hover(x, y float32) {
	width, height := e.window.CursorBounds()
	origin, dir, ok := e.camera.Ray(x, y, width, height)
	if !ok {
		return
	}
	group, _ := e.scene.Pick(origin, dir)
	e.scene.SetHovered(group)
}

func (e *engine) handleKey(keyCode uint32) {
	switch keyCode {
	case common.KeyT:
		theme := e.scene.ToggleTheme()
		log.Printf("[Engine] theme switched to %s", theme)
		e.lastTitle = time.Time{}
	case common.KeyR:
		e.camera.Controller().Reset()
	case common.KeyEsc:
		e.signalQuit()
	}
}

// handleTicks runs the fixed-rate scene update loop in its own goroutine and listens for
// dynamic rate changes via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleTicks() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.tickRate())
	defer ticker.Stop()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			e.scene.Update(e.clock())
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.mu.Lock()
			e.engineTickRate = newRate
			e.mu.Unlock()
		}
	}
}

func (e *engine) handleContext(ctx context.Context) {
	defer e.wg.Done()
	select {
	case <-ctx.Done():
		log.Printf("[Engine] context done: %v", ctx.Err())
		e.signalQuit()
	case <-e.quitChannel:
	}
}

// renderFrame draws one frame. It runs on the window goroutine once per message loop
// iteration. A panic is recovered, recorded and ends the view.
func (e *engine) renderFrame() {
	if e.quitting() {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[Engine] render loop recovered from panic: %v", rec)
			e.mu.Lock()
			e.panicErr = fmt.Errorf("render loop panic: %v", rec)
			e.mu.Unlock()
			e.signalQuit()
		}
	}()

	start := e.clock()
	if start.Sub(e.lastTitle) >= e.titleInterval {
		e.window.SetTitle(fmt.Sprintf("%s | %s | %s", e.window.Title(), start.Format("15:04:05"), e.scene.Theme()))
		e.lastTitle = start
	}

	r := e.Renderer()
	f := e.composer.Compose(e.scene, e.camera)
	if err := r.Draw(f); err != nil {
		log.Printf("[Engine] frame dropped: %v", err)
		if e.profilingEnabled {
			e.profiler.Drop()
		}
	} else if e.profilingEnabled {
		e.profiler.Tick(f.Static.Triangles() + f.Dynamic.Triangles())
	}

	e.mu.Lock()
	limit := e.renderFrameLimit
	e.mu.Unlock()
	if limit > 0 {
		if remaining := limit - time.Since(start); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) tickRate() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.engineTickRate
}

// SetTickRate sets the scene tick rate. If the engine is running, the change takes
// effect immediately.
func (e *engine) SetTickRate(fps float64) {
	newRate := rateFor(fps)

	e.mu.Lock()
	running := e.running
	if !running {
		e.engineTickRate = newRate
	}
	e.mu.Unlock()
	if !running {
		return
	}

	// Non-blocking send; a pending update is replaced by the newer value.
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderFrameLimit = limitFor(fps)
}

func rateFor(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}

func limitFor(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
