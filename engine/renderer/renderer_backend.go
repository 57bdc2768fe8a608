package renderer

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-city/common"
	"github.com/Carmen-Shannon/oxy-city/engine/light"
	"github.com/Carmen-Shannon/oxy-city/engine/mesh"
)

// RendererBackendType identifies the backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend. It needs a window surface.
	BackendTypeWGPU RendererBackendType = iota

	// BackendTypeSoftware ray-casts frames on the CPU into an in-memory image. It needs no
	// window or GPU and is used for snapshots.
	BackendTypeSoftware
)

func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeWGPU:
		return "wgpu"
	case BackendTypeSoftware:
		return "software"
	}
	return "unknown"
}

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

var (
	// ErrReleased is returned when drawing with a renderer that has been released.
	ErrReleased = errors.New("renderer released")

	// ErrCaptureUnsupported is returned by backends that cannot read back a frame.
	ErrCaptureUnsupported = errors.New("capture not supported by this backend")

	// ErrNoSurface is returned when the WGPU backend is requested without a window surface.
	ErrNoSurface = errors.New("no surface to render to")
)

// Frame is everything a backend needs to draw one image. Geometry is split into a static
// part, re-uploaded only when StaticVersion changes, and a dynamic part uploaded every frame.
type Frame struct {
	Static        mesh.Batch
	StaticVersion uint64
	Dynamic       mesh.Batch

	ViewProjection [16]float32
	Eye            common.Vec3
	Target         common.Vec3
	// Fov is the vertical field of view in radians.
	Fov float32

	Lights light.Rig
	Clear  common.Color
}

// RendererBackend is implemented by each backend.
type RendererBackend interface {
	// Configure (re)creates size-dependent resources.
	Configure(width, height int) error

	// Draw renders f. A zero-sized target draws nothing.
	Draw(f Frame) error

	// Capture writes the last drawn frame to an image file.
	Capture(path string) error

	// Release frees every backend resource. Safe to call more than once.
	Release()
}
