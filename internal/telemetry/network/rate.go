package network

import (
	"math"
	"sync/atomic"
	"time"

	"gonum.org/v1/gonum/stat"
)

// ArrivalMonitor maintains a rolling one-second window of accepted packet
// arrivals and publishes frames/sec plus inter-arrival jitter. Record and
// Roll are writer-only (the listener goroutine); the published figures are
// visibility-only atomics readable from any goroutine.
type ArrivalMonitor struct {
	fpsBits    atomic.Uint64
	jitterBits atomic.Uint64

	// Writer-side state, untouched by readers.
	windowStart time.Time
	lastArrival time.Time
	count       int
	intervals   []float64 // seconds between consecutive arrivals
}

// NewArrivalMonitor returns a monitor with an empty window.
func NewArrivalMonitor() *ArrivalMonitor {
	return &ArrivalMonitor{intervals: make([]float64, 0, 256)}
}

// Record notes one accepted packet at time now. Writer goroutine only.
func (m *ArrivalMonitor) Record(now time.Time) {
	if m.windowStart.IsZero() {
		m.windowStart = now
	}
	if !m.lastArrival.IsZero() {
		m.intervals = append(m.intervals, now.Sub(m.lastArrival).Seconds())
	}
	m.lastArrival = now
	m.count++
}

// Roll publishes and resets the window once at least a second has elapsed.
// Writer goroutine only.
func (m *ArrivalMonitor) Roll(now time.Time) {
	if m.windowStart.IsZero() {
		m.windowStart = now
		return
	}
	elapsed := now.Sub(m.windowStart).Seconds()
	if elapsed < 1 {
		return
	}

	m.fpsBits.Store(math.Float64bits(float64(m.count) / elapsed))

	jitter := 0.0
	if len(m.intervals) >= 2 {
		jitter = stat.StdDev(m.intervals, nil) * 1000 // milliseconds
	}
	m.jitterBits.Store(math.Float64bits(jitter))

	m.count = 0
	m.intervals = m.intervals[:0]
	m.windowStart = now
}

// FramesPerSecond returns the most recently published arrival rate.
func (m *ArrivalMonitor) FramesPerSecond() float64 {
	return math.Float64frombits(m.fpsBits.Load())
}

// JitterMillis returns the standard deviation of inter-arrival times in the
// last published window, in milliseconds.
func (m *ArrivalMonitor) JitterMillis() float64 {
	return math.Float64frombits(m.jitterBits.Load())
}
