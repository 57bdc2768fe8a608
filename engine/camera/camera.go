package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-city/common"
	"github.com/chewxy/math32"
)

// Perspective defaults for the city view.
const (
	DefaultFov  = 60 * math32.Pi / 180
	DefaultNear = 0.1
	DefaultFar  = 500
)

type cameraImpl struct {
	mu *sync.Mutex

	up common.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32

	eye common.Vec3

	viewMatrix           [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32

	controller CameraController
}

// Camera holds perspective settings and derives view and projection matrices
// from its CameraController each time Update is called.
type Camera interface {
	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// Eye returns the eye position used by the last Update.
	//
	// Returns:
	//   - common.Vec3: the world-space eye
	Eye() common.Vec3

	// ViewMatrix returns the 4x4 view matrix (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the 4x4 projection matrix (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// ViewProjection returns projection × view (column-major).
	//
	// Returns:
	//   - [16]float32: the combined matrix
	ViewProjection() [16]float32

	// Controller returns the attached CameraController.
	//
	// Returns:
	//   - CameraController: the controller
	Controller() CameraController

	// Update reads the eye and target from the controller and recomputes the matrices.
	// Called once per frame.
	Update()

	// SetAspect sets the aspect ratio and recomputes the matrices. Non-positive
	// values are ignored, which happens while a window is minimized.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetFov sets the vertical field of view in radians and recomputes the matrices.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// Ray casts from the near plane through a point of the viewport, for picking.
	//
	// Parameters:
	//   - x, y: the point, origin at the top-left corner
	//   - width, height: the viewport size in the same units as x and y
	//
	// Returns:
	//   - origin: the ray start on the near plane
	//   - dir: the normalized ray direction
	//   - ok: false for an empty viewport or a degenerate view-projection
	Ray(x, y, width, height float32) (origin, dir common.Vec3, ok bool)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a perspective camera. When no controller is supplied a default
// orbit controller is attached.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the new camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		up:     common.V3(0, 1, 0),
		fov:    DefaultFov,
		aspect: 1,
		near:   DefaultNear,
		far:    DefaultFar,
	}
	common.Identity(c.viewMatrix[:])
	common.Identity(c.projectionMatrix[:])
	common.Identity(c.viewProjectionMatrix[:])

	for _, option := range options {
		option(c)
	}
	if c.controller == nil {
		c.controller = NewCameraController()
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Eye() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eye
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjection() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 || math32.IsNaN(aspect) || math32.IsInf(aspect, 0) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

// updateMatrices rebuilds the view, projection and view-projection matrices.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	if c.controller == nil {
		return
	}
	px, py, pz := c.controller.Position()
	tx, ty, tz := c.controller.Target()
	c.eye = common.V3(px, py, pz)

	common.LookAt(c.viewMatrix[:],
		px, py, pz,
		tx, ty, tz,
		c.up.X, c.up.Y, c.up.Z,
	)
	common.Perspective(c.projectionMatrix[:], c.fov, c.aspect, c.near, c.far)
	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
}

func (c *cameraImpl) Ray(x, y, width, height float32) (origin, dir common.Vec3, ok bool) {
	if width <= 0 || height <= 0 {
		return origin, dir, false
	}
	c.mu.Lock()
	vp := c.viewProjectionMatrix
	c.mu.Unlock()

	var inv [16]float32
	if !common.Invert4(inv[:], vp[:]) {
		return origin, dir, false
	}
	ndcX := 2*x/width - 1
	ndcY := 1 - 2*y/height
	near := common.Unproject(inv[:], common.V3(ndcX, ndcY, 0))
	far := common.Unproject(inv[:], common.V3(ndcX, ndcY, 1))
	return near, far.Sub(near).Normalize(), true
}
