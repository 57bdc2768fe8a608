package traffic

import (
	"fmt"
	"sync"
	"time"
)

// DefaultPeriod is how long each signal stays lit before the light advances.
const DefaultPeriod = 3000 * time.Millisecond

// Signal is the lens a traffic light currently shows.
type Signal uint8

const (
	SignalRed Signal = iota
	SignalYellow
	SignalGreen

	// SignalCount is the cycle length.
	SignalCount
)

var signalNames = [SignalCount]string{
	SignalRed:    "red",
	SignalYellow: "yellow",
	SignalGreen:  "green",
}

func (s Signal) String() string {
	if s < SignalCount {
		return signalNames[s]
	}
	return fmt.Sprintf("Signal(%d)", uint8(s))
}

func (s Signal) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Signal) UnmarshalText(text []byte) error {
	for i, n := range signalNames {
		if n == string(text) {
			*s = Signal(i)
			return nil
		}
	}
	return fmt.Errorf("unknown signal %q", text)
}

// Next returns the signal that follows s: red, yellow, green, then red again.
func (s Signal) Next() Signal {
	return (s + 1) % SignalCount
}

// TrafficLight is a three-state signal that advances on its own wall-clock deadline.
// Each instance keeps its own timer and phase; lights are never coordinated.
type TrafficLight interface {
	// ID returns the identifier given at construction.
	//
	// Returns:
	//   - int: the light's id
	ID() int

	// State returns the signal currently lit.
	//
	// Returns:
	//   - Signal: the active signal
	State() Signal

	// Ticks returns how many times the light has advanced since the last Reset.
	// State() always equals the initial signal advanced Ticks() times.
	//
	// Returns:
	//   - uint64: the advance count
	Ticks() uint64

	// Advance moves the light to the next signal immediately.
	//
	// Returns:
	//   - Signal: the new active signal
	Advance() Signal

	// Sync advances the light once for every deadline reached by now. The first call
	// after construction or Reset starts the timer.
	//
	// Parameters:
	//   - now: the current wall-clock time
	//
	// Returns:
	//   - bool: true if the active signal changed
	Sync(now time.Time) bool

	// Reset returns the light to its initial signal and restarts its timer at now.
	//
	// Parameters:
	//   - now: the new timer origin
	Reset(now time.Time)

	// Timing returns how long signal s stays lit.
	//
	// Parameters:
	//   - s: the signal to query
	//
	// Returns:
	//   - time.Duration: the dwell time of s
	Timing(s Signal) time.Duration

	// NextChange returns the time of the next scheduled advance, or the zero time if the
	// timer has not started.
	//
	// Returns:
	//   - time.Time: the next deadline
	NextChange() time.Time
}

type trafficLight struct {
	mu *sync.Mutex

	id       int
	initial  Signal
	state    Signal
	ticks    uint64
	timings  [SignalCount]time.Duration
	offset   time.Duration
	started  bool
	deadline time.Time
}

var _ TrafficLight = &trafficLight{}

// NewTrafficLight creates a light showing red, dwelling DefaultPeriod on every signal.
//
// Parameters:
//   - options: functional options to configure the light
//
// Returns:
//   - TrafficLight: the new light, timer not yet started
func NewTrafficLight(options ...TrafficLightBuilderOption) TrafficLight {
	tl := &trafficLight{
		mu:      &sync.Mutex{},
		initial: SignalRed,
		timings: [SignalCount]time.Duration{DefaultPeriod, DefaultPeriod, DefaultPeriod},
	}
	for _, opt := range options {
		opt(tl)
	}
	for i, d := range tl.timings {
		if d <= 0 {
			tl.timings[i] = DefaultPeriod
		}
	}
	tl.state = tl.initial
	return tl
}

func (t *trafficLight) ID() int {
	return t.id
}

func (t *trafficLight) State() Signal {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *trafficLight) Ticks() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ticks
}

func (t *trafficLight) Advance() Signal {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.advance()
	return t.state
}

func (t *trafficLight) Sync(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		t.reset(now)
		return false
	}

	changed := false
	for !now.Before(t.deadline) {
		t.advance()
		t.deadline = t.deadline.Add(t.timings[t.state])
		changed = true
	}
	return changed
}

func (t *trafficLight) Reset(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reset(now)
}

func (t *trafficLight) Timing(s Signal) time.Duration {
	return t.timings[s%SignalCount]
}

func (t *trafficLight) NextChange() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.started {
		return time.Time{}
	}
	return t.deadline
}

// advance steps the cycle. Caller must hold the mutex.
func (t *trafficLight) advance() {
	t.state = t.state.Next()
	t.ticks++
}

// reset restarts the timer at now, shortening the first dwell by the phase offset.
// Caller must hold the mutex.
func (t *trafficLight) reset(now time.Time) {
	t.state = t.initial
	t.ticks = 0
	t.started = true

	first := t.timings[t.state]
	offset := t.offset % first
	if offset < 0 {
		offset += first
	}
	t.deadline = now.Add(first - offset)
}
