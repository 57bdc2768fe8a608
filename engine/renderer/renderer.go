package renderer

import (
	"fmt"
	"log"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// Surface is a drawable target of known size, usually the application window.
type Surface interface {
	Width() int
	Height() int
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	width, height int
	frames        uint64
	released      bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	msaa                 MSAASampleCount
}

// Renderer draws Frames through one backend and owns its lifetime.
//
// A Renderer is acquired once per view, used from the render loop, and released exactly once
// on teardown; further Release calls are no-ops and further Draw calls return ErrReleased.
type Renderer interface {
	// Backend returns the backend type in use.
	//
	// Returns:
	//   - RendererBackendType: the backend type
	Backend() RendererBackendType

	// Draw renders one frame.
	//
	// Parameters:
	//   - f: the frame to draw
	//
	// Returns:
	//   - error: ErrReleased after Release, or a backend error
	Draw(f Frame) error

	// Resize reconfigures size-dependent resources. Zero sizes, as sent while a window is
	// minimized, are recorded and drawing is skipped until a real size arrives.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// Size returns the current target size.
	//
	// Returns:
	//   - width, height: the size in pixels
	Size() (width, height int)

	// Aspect returns width / height, or 1 while the target has no area.
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Frames returns the number of frames drawn.
	//
	// Returns:
	//   - uint64: the frame count
	Frames() uint64

	// Capture writes the last frame to an image file when the backend supports it.
	//
	// Parameters:
	//   - path: destination file
	//
	// Returns:
	//   - error: ErrCaptureUnsupported or an I/O error
	Capture(path string) error

	// Release frees the backend. Safe to call more than once.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer acquires a backend of the given type. The WGPU backend needs a surface; the
// software backend ignores it and sizes itself from WithSize, falling back to the surface.
// Any acquisition failure is returned so callers can abort startup.
//
// Parameters:
//   - backendType: the backend to acquire
//   - surface: the window surface, may be nil for the software backend
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the ready renderer
//   - error: the reason the backend could not be acquired
func NewRenderer(backendType RendererBackendType, surface Surface, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		presentMode: PresentModeVSync,
		msaa:        MSAA4x,
	}
	if surface != nil {
		r.width, r.height = surface.Width(), surface.Height()
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		if surface == nil || surface.SurfaceDescriptor() == nil {
			return nil, fmt.Errorf("acquiring %s renderer: %w", backendType, ErrNoSurface)
		}
		b, err := newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter, r.msaa, r.presentMode)
		if err != nil {
			return nil, fmt.Errorf("acquiring %s renderer: %w", backendType, err)
		}
		r.backend = b
	case BackendTypeSoftware:
		r.backend = newSoftwareRendererBackend()
	default:
		return nil, fmt.Errorf("unknown renderer backend %d", backendType)
	}

	if err := r.backend.Configure(r.width, r.height); err != nil {
		r.backend.Release()
		return nil, fmt.Errorf("configuring %s renderer: %w", backendType, err)
	}
	log.Printf("[Renderer] acquired %s backend at %dx%d", backendType, r.width, r.height)
	return r, nil
}

func (r *renderer) Backend() RendererBackendType {
	return r.backendType
}

func (r *renderer) Draw(f Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return ErrReleased
	}
	if r.width <= 0 || r.height <= 0 {
		return nil
	}
	if err := r.backend.Draw(f); err != nil {
		return err
	}
	r.frames++
	return nil
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released || (width == r.width && height == r.height) {
		return
	}
	r.width, r.height = width, height
	if width <= 0 || height <= 0 {
		return
	}
	if err := r.backend.Configure(width, height); err != nil {
		log.Printf("[Renderer] resize to %dx%d failed: %v", width, height, err)
	}
}

func (r *renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) Aspect() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.width <= 0 || r.height <= 0 {
		return 1
	}
	return float32(r.width) / float32(r.height)
}

func (r *renderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *renderer) Capture(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return ErrReleased
	}
	return r.backend.Capture(path)
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	r.released = true
	r.backend.Release()
	log.Printf("[Renderer] released %s backend after %d frames", r.backendType, r.frames)
}
