package profiler

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestTickReportsOncePerInterval(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	p := NewProfiler(WithClock(clock.now), WithQuiet(true), WithInterval(time.Second))

	// 40ms divides the interval exactly, so the 25th frame lands on it.
	for i := 0; i < 24; i++ {
		clock.t = clock.t.Add(40 * time.Millisecond)
		require.False(t, p.Tick(1200), "frame %d", i)
	}
	p.Drop()
	clock.t = clock.t.Add(40 * time.Millisecond)
	require.True(t, p.Tick(1500))

	s := p.Last()
	assert.InDelta(t, 25, s.FPS, 0.01)
	assert.Equal(t, 1500, s.Triangles)
	assert.Equal(t, 1, s.DroppedFrame)
	assert.Greater(t, s.SysMB, 0.0)
}

func TestCountersResetAfterSample(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	p := NewProfiler(WithClock(clock.now), WithQuiet(true), WithInterval(100*time.Millisecond))

	p.Drop()
	clock.t = clock.t.Add(100 * time.Millisecond)
	require.True(t, p.Tick(10))

	clock.t = clock.t.Add(200 * time.Millisecond)
	require.True(t, p.Tick(20))
	assert.Equal(t, 0, p.Last().DroppedFrame)
	assert.InDelta(t, 5, p.Last().FPS, 0.01)
}

var allocSink []byte

func TestFirstSampleExcludesEarlierAllocations(t *testing.T) {
	allocSink = make([]byte, 64<<20)
	var before runtime.MemStats
	runtime.ReadMemStats(&before)

	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	p := NewProfiler(WithClock(clock.now), WithQuiet(true))
	assert.GreaterOrEqual(t, p.lastTotalAlloc, before.TotalAlloc)
	assert.GreaterOrEqual(t, p.lastGCCount, before.NumGC)

	clock.t = clock.t.Add(time.Second)
	require.True(t, p.Tick(1))
	assert.Less(t, p.Last().AllocRateMB, 32.0)
	allocSink = nil
}
