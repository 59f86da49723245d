package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTick_ReportsOncePerInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithClock(clock.now))

	for i := 0; i < 9; i++ {
		clock.advance(100 * time.Millisecond)
		_, reported := p.Tick()
		require.False(t, reported, "tick %d", i)
	}

	clock.advance(100 * time.Millisecond)
	stats, reported := p.Tick()
	require.True(t, reported)
	assert.InDelta(t, 10.0, stats.FPS, 1e-9)
	assert.Greater(t, stats.SysMB, 0.0)

	clock.advance(100 * time.Millisecond)
	_, reported = p.Tick()
	assert.False(t, reported)
}

func TestWithInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithClock(clock.now), WithInterval(250*time.Millisecond))

	clock.advance(250 * time.Millisecond)
	stats, reported := p.Tick()

	require.True(t, reported)
	assert.InDelta(t, 4.0, stats.FPS, 1e-9)
}

func TestWithInterval_IgnoresNonPositive(t *testing.T) {
	p := NewProfiler(WithInterval(0), WithInterval(-time.Second))
	assert.Equal(t, time.Second, p.updateInterval)
}

func TestSample_GCPauses(t *testing.T) {
	p := NewProfiler()
	p.frameCount = 30
	p.memStats.NumGC = 3
	p.memStats.PauseNs[0] = 5000
	p.memStats.PauseNs[1] = 9000
	p.memStats.PauseNs[2] = 2000
	p.lastGCCount = 1

	stats := p.sample(time.Second)

	assert.Equal(t, 30.0, stats.FPS)
	assert.Equal(t, uint32(3), stats.GCCount)
	assert.Equal(t, uint64(2), stats.LastPauseUs)
	assert.Equal(t, uint64(9), stats.MaxPauseUs)
}
