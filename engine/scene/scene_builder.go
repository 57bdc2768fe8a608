package scene

import (
	"time"

	"github.com/Carmen-Shannon/oxy-city/common"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithTheme sets the theme the scene generates first.
//
// Parameters:
//   - theme: day or night
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithTheme(theme common.Theme) SceneBuilderOption {
	return func(s *scene) {
		s.theme = theme
	}
}

// WithSignalPeriod sets how long each traffic-light signal stays lit.
// Non-positive values keep the default of 3000ms.
//
// Parameters:
//   - period: dwell time per signal
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSignalPeriod(period time.Duration) SceneBuilderOption {
	return func(s *scene) {
		if period > 0 {
			s.period = period
		}
	}
}

// WithStagger brings the first change of the i-th traffic light forward by i*stagger
// so that neighbouring lights do not switch together.
//
// Parameters:
//   - stagger: offset between consecutive lights
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithStagger(stagger time.Duration) SceneBuilderOption {
	return func(s *scene) {
		if stagger >= 0 {
			s.stagger = stagger
		}
	}
}
