package traffic

import "time"

// TrafficLightBuilderOption is a functional option for configuring a TrafficLight.
type TrafficLightBuilderOption func(*trafficLight)

// WithID sets the light's identifier.
//
// Parameters:
//   - id: the identifier, typically the index in the descriptor table
//
// Returns:
//   - TrafficLightBuilderOption: functional option to set the id
func WithID(id int) TrafficLightBuilderOption {
	return func(t *trafficLight) {
		t.id = id
	}
}

// WithInitial sets the signal shown when the timer starts.
//
// Parameters:
//   - s: the initial signal
//
// Returns:
//   - TrafficLightBuilderOption: functional option to set the initial signal
func WithInitial(s Signal) TrafficLightBuilderOption {
	return func(t *trafficLight) {
		t.initial = s % SignalCount
	}
}

// WithPeriod sets the same dwell time on every signal. Non-positive values keep DefaultPeriod.
//
// Parameters:
//   - d: dwell time per signal
//
// Returns:
//   - TrafficLightBuilderOption: functional option to set the period
func WithPeriod(d time.Duration) TrafficLightBuilderOption {
	return func(t *trafficLight) {
		t.timings = [SignalCount]time.Duration{d, d, d}
	}
}

// WithTimings sets a separate dwell time per signal.
//
// Parameters:
//   - red, yellow, green: dwell times; non-positive values keep DefaultPeriod
//
// Returns:
//   - TrafficLightBuilderOption: functional option to set the timings
func WithTimings(red, yellow, green time.Duration) TrafficLightBuilderOption {
	return func(t *trafficLight) {
		t.timings = [SignalCount]time.Duration{red, yellow, green}
	}
}

// WithOffset shifts the light's phase so its first advance comes offset earlier.
// Lights built without an offset stay phase-aligned.
//
// Parameters:
//   - offset: phase shift, reduced modulo the first dwell time
//
// Returns:
//   - TrafficLightBuilderOption: functional option to set the phase offset
func WithOffset(offset time.Duration) TrafficLightBuilderOption {
	return func(t *trafficLight) {
		t.offset = offset
	}
}
