package traffic

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Carmen-Shannon/oxy-city/common"
)

// Route is the boulevard a vehicle drives along.
type Route uint8

const (
	// RouteHorizontal runs along the X axis.
	RouteHorizontal Route = iota
	// RouteVertical runs along the Z axis.
	RouteVertical
)

func (r Route) String() string {
	if r == RouteVertical {
		return "vertical"
	}
	return "horizontal"
}

func (r Route) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Route) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "horizontal":
		*r = RouteHorizontal
	case "vertical":
		*r = RouteVertical
	default:
		return fmt.Errorf("unknown route %q (want horizontal or vertical)", text)
	}
	return nil
}

// Vehicle is a decorative car looping along one boulevard lane.
// Vehicles ignore signals; they exist to give the streets motion.
type Vehicle struct {
	Route Route
	// Lane is the offset from the boulevard centre line.
	Lane float32
	// Start is the distance along the route at t = 0.
	Start float32
	// Speed in units per second; negative drives toward the negative axis.
	Speed float32
	// HalfExtent bounds the loop: positions wrap within [-HalfExtent, HalfExtent).
	HalfExtent float32
}

// At returns the vehicle's ground position and yaw after elapsed time.
// Yaw points the vehicle's local +X axis along its direction of travel.
//
// Parameters:
//   - elapsed: time since the view started
//
// Returns:
//   - common.Vec3: position on the ground plane (y = 0)
//   - float32: rotation about Y in radians
func (v Vehicle) At(elapsed time.Duration) (common.Vec3, float32) {
	s := v.Start + v.Speed*float32(elapsed.Seconds())
	if v.HalfExtent > 0 {
		span := 2 * v.HalfExtent
		s = float32(math.Mod(float64(s+v.HalfExtent), float64(span)))
		if s < 0 {
			s += span
		}
		s -= v.HalfExtent
	}

	if v.Route == RouteVertical {
		yaw := float32(-math.Pi / 2)
		if v.Speed < 0 {
			yaw = math.Pi / 2
		}
		return common.V3(v.Lane, 0, s), yaw
	}

	var yaw float32
	if v.Speed < 0 {
		yaw = math.Pi
	}
	return common.V3(s, 0, v.Lane), yaw
}
