package smooth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSmootherSnapsWhenTimeConstantNearZero(t *testing.T) {
	var s Smoother
	got := s.Process(5.0, 0.0005, 1.0/48000)
	assert.Equal(t, float32(5.0), got)
	assert.Equal(t, float32(5.0), s.Value())
}

func TestSmootherConvergesMonotonically(t *testing.T) {
	var s Smoother
	const dt = 1.0 / 1000
	prev := s.Value()
	for i := 0; i < 2000; i++ {
		v := s.Process(1.0, 0.05, dt)
		assert.GreaterOrEqual(t, v, prev, "one-pole response must not overshoot")
		assert.LessOrEqual(t, v, float32(1.0))
		prev = v
	}
	assert.InDelta(t, 1.0, float64(prev), 1e-3, "filter should settle within 2 s")
}

func TestSmootherReset(t *testing.T) {
	var s Smoother
	s.Process(1.0, 0.1, 0.01)
	s.Reset(0.25)
	assert.Equal(t, float32(0.25), s.Value())
}

func TestSlewLimiterAlphaZeroIsImmediate(t *testing.T) {
	var l SlewLimiter
	assert.Equal(t, float32(3.0), l.Process(3.0, 0))
}

func TestSlewLimiterBlends(t *testing.T) {
	var l SlewLimiter
	got := l.Process(1.0, 0.9)
	assert.InDelta(t, 0.1, float64(got), 1e-6)
	got = l.Process(1.0, 0.9)
	assert.InDelta(t, 0.19, float64(got), 1e-6)

	l.Reset(0)
	assert.Equal(t, float32(0), l.Process(0, 0.9))
}

func TestStalenessCrossesThreshold(t *testing.T) {
	tr := NewStalenessTracker(0.5)
	tr.Reset()
	assert.False(t, tr.IsStale())

	for i := 0; i < 6; i++ {
		tr.Tick(0.1)
	}
	assert.True(t, tr.IsStale(), "0.6 s elapsed must exceed the 0.5 s threshold")

	tr.Reset()
	assert.False(t, tr.IsStale())
	assert.Equal(t, float32(0), tr.Elapsed())
}

func TestStalenessStartsStale(t *testing.T) {
	tr := NewStalenessTracker(0.5)
	assert.True(t, tr.IsStale(), "no packet has ever arrived")
}

func TestStalenessReconfigure(t *testing.T) {
	tr := NewStalenessTracker(0.5)
	tr.Reset()
	tr.Tick(0.3)
	assert.False(t, tr.IsStale())

	tr.SetTimeoutSeconds(0.2)
	assert.True(t, tr.IsStale())
}
