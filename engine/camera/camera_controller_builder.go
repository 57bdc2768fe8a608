package camera

import "github.com/Carmen-Shannon/oxy-city/common"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithAzimuth sets the initial horizontal angle.
//
// Parameters:
//   - azimuth: angle in radians from +X toward +Z
//
// Returns:
//   - CameraControllerOption: functional option to set the azimuth
func WithAzimuth(azimuth float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.azimuth = azimuth
	}
}

// WithPolar sets the initial angle from the +Y axis. It is clamped into the polar bounds.
//
// Parameters:
//   - polar: angle in radians
//
// Returns:
//   - CameraControllerOption: functional option to set the polar angle
func WithPolar(polar float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.polar = polar
	}
}

// WithRadius sets the initial distance from the origin. It is clamped into the radius bounds.
//
// Parameters:
//   - radius: the distance
//
// Returns:
//   - CameraControllerOption: functional option to set the radius
func WithRadius(radius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.radius = radius
	}
}

// WithEye derives the initial azimuth, polar angle and radius from an eye position.
//
// Parameters:
//   - x, y, z: the eye position
//
// Returns:
//   - CameraControllerOption: functional option to place the eye
func WithEye(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.setEye(common.V3(x, y, z))
	}
}

// WithTarget sets the look-at point.
//
// Parameters:
//   - x, y, z: the target
//
// Returns:
//   - CameraControllerOption: functional option to set the target
func WithTarget(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = common.V3(x, y, z)
	}
}

// WithPolarBounds sets the allowed polar range.
//
// Parameters:
//   - lo, hi: the bounds in radians
//
// Returns:
//   - CameraControllerOption: functional option to set the polar bounds
func WithPolarBounds(lo, hi float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minPolar, cc.maxPolar = lo, hi
	}
}

// WithRadiusBounds sets the allowed zoom range.
//
// Parameters:
//   - lo, hi: the bounds
//
// Returns:
//   - CameraControllerOption: functional option to set the radius bounds
func WithRadiusBounds(lo, hi float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minRadius, cc.maxRadius = lo, hi
	}
}

// WithSensitivity sets radians of orbit per pixel of drag.
//
// Parameters:
//   - s: the sensitivity
//
// Returns:
//   - CameraControllerOption: functional option to set the drag sensitivity
func WithSensitivity(s float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.sensitivity = s
	}
}

// WithWheelFactor sets units of zoom per unit of wheel delta.
//
// Parameters:
//   - f: the wheel factor
//
// Returns:
//   - CameraControllerOption: functional option to set the wheel factor
func WithWheelFactor(f float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.wheelFactor = f
	}
}
