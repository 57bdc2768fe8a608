package camera

// CameraState is a snapshot of the orbit controller: spherical coordinates plus
// drag bookkeeping. Polar is measured from +Y; azimuth from +X toward +Z.
type CameraState struct {
	Azimuth  float32 `json:"azimuth"`
	Polar    float32 `json:"polar"`
	Radius   float32 `json:"radius"`
	Dragging bool    `json:"dragging"`
	LastX    float32 `json:"lastX"`
	LastY    float32 `json:"lastY"`
}

// Touch is one active contact point of a touch event in client coordinates.
type Touch struct {
	ID   int
	X, Y float32
}

// CameraController turns pointer, touch and wheel input into an orbit eye position.
// Every mutation is O(1), never blocks and never fails: out-of-range results are
// clamped so that Polar stays within the polar bounds and Radius within the radius
// bounds after every call.
type CameraController interface {
	// OnPointerDown starts a drag at client position (x, y).
	//
	// Parameters:
	//   - x, y: pointer position in client coordinates
	OnPointerDown(x, y float32)

	// OnPointerUp ends the current drag.
	OnPointerUp()

	// OnPointerMove orbits by the pointer delta since the last event while dragging.
	// Moving right decreases azimuth; moving down increases polar. No-op when not dragging.
	//
	// Parameters:
	//   - x, y: pointer position in client coordinates
	OnPointerMove(x, y float32)

	// OnWheel zooms by deltaY times the wheel factor. Positive deltaY moves the eye away.
	//
	// Parameters:
	//   - deltaY: the scroll delta
	OnWheel(deltaY float32)

	// OnTouchStart starts a drag at the first touch. Extra touches are ignored.
	//
	// Parameters:
	//   - touches: the active touches; empty is a no-op
	OnTouchStart(touches []Touch)

	// OnTouchMove orbits using the touch that started the drag and ignores moves that do
	// not carry it. Pinch gestures are not interpreted.
	//
	// Parameters:
	//   - touches: the active touches; empty is a no-op
	OnTouchMove(touches []Touch)

	// OnTouchEnd ends the drag.
	OnTouchEnd()

	// Position computes the eye: x = r·sinφ·cosθ, y = r·cosφ, z = r·sinφ·sinθ.
	//
	// Returns:
	//   - x, y, z: the eye position
	Position() (x, y, z float32)

	// Target returns the fixed look-at point, (0, 5, 0) unless configured otherwise.
	//
	// Returns:
	//   - x, y, z: the look-at point
	Target() (x, y, z float32)

	// Azimuth returns θ in radians.
	//
	// Returns:
	//   - float32: the azimuth
	Azimuth() float32

	// Polar returns φ in radians, measured from the +Y axis.
	//
	// Returns:
	//   - float32: the polar angle
	Polar() float32

	// Radius returns the distance of the eye from the origin.
	//
	// Returns:
	//   - float32: the radius
	Radius() float32

	// Dragging reports whether a pointer or touch drag is in progress.
	//
	// Returns:
	//   - bool: true while dragging
	Dragging() bool

	// State returns a snapshot of the controller.
	//
	// Returns:
	//   - CameraState: the current state
	State() CameraState

	// Reset restores the pose the controller was constructed with and ends any drag.
	Reset()
}
