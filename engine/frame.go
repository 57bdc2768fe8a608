package engine

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-city/common"
	"github.com/Carmen-Shannon/oxy-city/engine/camera"
	"github.com/Carmen-Shannon/oxy-city/engine/mesh"
	"github.com/Carmen-Shannon/oxy-city/engine/renderer"
	"github.com/Carmen-Shannon/oxy-city/engine/scene"
)

// FrameComposer turns the scene and camera into a renderer.Frame. Static geometry is
// tessellated once per scene regeneration; dynamic geometry every call.
type FrameComposer interface {
	// Compose snapshots s and cam into a frame ready for drawing.
	//
	// Parameters:
	//   - s: the scene to draw
	//   - cam: the camera to draw it from
	//
	// Returns:
	//   - renderer.Frame: the composed frame
	Compose(s scene.Scene, cam camera.Camera) renderer.Frame

	// Release stops the composer's tessellator.
	Release()
}

type frameComposer struct {
	mu *sync.Mutex

	tess          mesh.Tessellator
	static        mesh.Batch
	staticVersion uint64
}

var _ FrameComposer = &frameComposer{}

// NewFrameComposer creates a FrameComposer that tessellates with tess. A nil tess is
// replaced by a default tessellator.
//
// Parameters:
//   - tess: the tessellator to build geometry with
//
// Returns:
//   - FrameComposer: the composer
func NewFrameComposer(tess mesh.Tessellator) FrameComposer {
	if tess == nil {
		tess = mesh.NewTessellator()
	}
	return &frameComposer{mu: &sync.Mutex{}, tess: tess}
}

func (c *frameComposer) Compose(s scene.Scene, cam camera.Camera) renderer.Frame {
	snap := s.Snapshot()

	c.mu.Lock()
	if c.staticVersion != snap.StaticVersion {
		c.static = c.tess.Tessellate(snap.Static)
		c.staticVersion = snap.StaticVersion
	}
	static := c.static
	c.mu.Unlock()

	cam.Update()
	tx, ty, tz := cam.Controller().Target()
	return renderer.Frame{
		Static:         static,
		StaticVersion:  snap.StaticVersion,
		Dynamic:        c.tess.Tessellate(snap.Dynamic),
		ViewProjection: cam.ViewProjection(),
		Eye:            cam.Eye(),
		Target:         common.V3(tx, ty, tz),
		Fov:            cam.Fov(),
		Lights:         s.Lights(),
		Clear:          s.ClearColor(),
	}
}

func (c *frameComposer) Release() {
	c.tess.Release()
}
