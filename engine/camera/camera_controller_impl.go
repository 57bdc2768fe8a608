package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-city/common"
	"github.com/chewxy/math32"
)

// Orbit defaults.
const (
	DefaultSensitivity = 0.005
	DefaultWheelFactor = 0.05
	DefaultMinPolar    = 0.1
	DefaultMaxPolar    = math32.Pi / 2.2
	DefaultMinRadius   = 15
	DefaultMaxRadius   = 80
)

// DefaultTarget is the look-at point, five units above the central intersection.
var DefaultTarget = common.V3(0, 5, 0)

type cameraControllerImpl struct {
	mu *sync.Mutex

	target common.Vec3

	azimuth float32
	polar   float32
	radius  float32

	dragging     bool
	lastX, lastY float32
	// touchID is the contact that started the current touch drag.
	touchID  int
	touching bool

	minPolar, maxPolar   float32
	minRadius, maxRadius float32

	sensitivity float32
	wheelFactor float32

	initial CameraState
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates an orbit controller whose eye starts at (30, 20, 30).
// The starting pose is clamped into the configured bounds.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the new controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:          &sync.Mutex{},
		target:      DefaultTarget,
		minPolar:    DefaultMinPolar,
		maxPolar:    DefaultMaxPolar,
		minRadius:   DefaultMinRadius,
		maxRadius:   DefaultMaxRadius,
		sensitivity: DefaultSensitivity,
		wheelFactor: DefaultWheelFactor,
	}
	cc.setEye(common.V3(30, 20, 30))

	for _, opt := range options {
		opt(cc)
	}

	if cc.minPolar > cc.maxPolar {
		cc.minPolar, cc.maxPolar = cc.maxPolar, cc.minPolar
	}
	if cc.minRadius > cc.maxRadius {
		cc.minRadius, cc.maxRadius = cc.maxRadius, cc.minRadius
	}
	cc.polar = common.Clamp(cc.polar, cc.minPolar, cc.maxPolar)
	cc.radius = common.Clamp(cc.radius, cc.minRadius, cc.maxRadius)
	cc.initial = cc.state()
	return cc
}

// setEye derives spherical coordinates from an eye position about the origin.
func (cc *cameraControllerImpl) setEye(eye common.Vec3) {
	r := eye.Len()
	if r == 0 {
		return
	}
	cc.radius = r
	cc.polar = math32.Acos(common.Clamp(eye.Y/r, -1, 1))
	cc.azimuth = math32.Atan2(eye.Z, eye.X)
}

func (cc *cameraControllerImpl) state() CameraState {
	return CameraState{
		Azimuth:  cc.azimuth,
		Polar:    cc.polar,
		Radius:   cc.radius,
		Dragging: cc.dragging,
		LastX:    cc.lastX,
		LastY:    cc.lastY,
	}
}

func (cc *cameraControllerImpl) OnPointerDown(x, y float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.dragging = true
	cc.lastX, cc.lastY = x, y
}

func (cc *cameraControllerImpl) OnPointerUp() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.dragging = false
}

func (cc *cameraControllerImpl) OnPointerMove(x, y float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.dragging {
		return
	}
	dx := x - cc.lastX
	dy := y - cc.lastY
	cc.azimuth -= dx * cc.sensitivity
	cc.polar = common.Clamp(cc.polar+dy*cc.sensitivity, cc.minPolar, cc.maxPolar)
	cc.lastX, cc.lastY = x, y
}

func (cc *cameraControllerImpl) OnWheel(deltaY float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = common.Clamp(cc.radius+deltaY*cc.wheelFactor, cc.minRadius, cc.maxRadius)
}

func (cc *cameraControllerImpl) OnTouchStart(touches []Touch) {
	if len(touches) == 0 {
		return
	}
	cc.mu.Lock()
	cc.touchID, cc.touching = touches[0].ID, true
	cc.mu.Unlock()
	cc.OnPointerDown(touches[0].X, touches[0].Y)
}

func (cc *cameraControllerImpl) OnTouchMove(touches []Touch) {
	cc.mu.Lock()
	id, touching := cc.touchID, cc.touching
	cc.mu.Unlock()
	if !touching {
		return
	}
	for _, t := range touches {
		if t.ID == id {
			cc.OnPointerMove(t.X, t.Y)
			return
		}
	}
}

func (cc *cameraControllerImpl) OnTouchEnd() {
	cc.mu.Lock()
	cc.touching = false
	cc.mu.Unlock()
	cc.OnPointerUp()
}

func (cc *cameraControllerImpl) Position() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	sp, cp := math32.Sincos(cc.polar)
	sa, ca := math32.Sincos(cc.azimuth)
	return cc.radius * sp * ca, cc.radius * cp, cc.radius * sp * sa
}

func (cc *cameraControllerImpl) Target() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target.X, cc.target.Y, cc.target.Z
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) Polar() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.polar
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) Dragging() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.dragging
}

func (cc *cameraControllerImpl) State() CameraState {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.state()
}

func (cc *cameraControllerImpl) Reset() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth = cc.initial.Azimuth
	cc.polar = cc.initial.Polar
	cc.radius = cc.initial.Radius
	cc.dragging = cc.initial.Dragging
	cc.lastX, cc.lastY = cc.initial.LastX, cc.initial.LastY
	cc.touching = false
}
