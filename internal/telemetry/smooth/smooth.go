// Package smooth contains the per-channel shaping applied to network-sourced
// values before they reach a fixed-rate consumer: one-pole low-pass
// smoothing to hide the bursty UDP arrival cadence, and staleness tracking
// so consumers can fall back to a safe default when a source goes quiet.
package smooth

// Smoother is a one-pole low-pass filter parameterized by a time constant.
// It is stateful per channel and must only be used from one goroutine
// (typically the real-time consumer).
type Smoother struct {
	value float32
}

// Process advances the filter toward target and returns the new value.
// smoothTime is the time constant in seconds and dt the caller's fixed time
// step. A smoothTime under one millisecond snaps straight to target, which
// also avoids a near-zero divisor.
func (s *Smoother) Process(target, smoothTime, dt float32) float32 {
	if smoothTime < 0.001 {
		s.value = target
	} else {
		alpha := dt / (smoothTime*0.5 + dt)
		s.value += alpha * (target - s.value)
	}
	return s.value
}

// Reset forces the filter state to v.
func (s *Smoother) Reset(v float32) { s.value = v }

// Value returns the current filter state without advancing it.
func (s *Smoother) Value() float32 { return s.value }

// SlewLimiter is the frame-independent variant: blending is parameterized by
// a dimensionless alpha instead of a time constant.
type SlewLimiter struct {
	current float32
}

// Process blends toward target. alpha 0 means no slew (output = target);
// values approaching 1 move ever more slowly. Typical range 0.85..0.98.
func (l *SlewLimiter) Process(target, alpha float32) float32 {
	l.current = alpha*l.current + (1-alpha)*target
	return l.current
}

// Reset forces the limiter state to v.
func (l *SlewLimiter) Reset(v float32) { l.current = v }

// StalenessTracker accumulates elapsed time since the consumer last observed
// a new buffer version. The consumer calls Reset the instant it sees a
// version change, Tick once per fixed time step, and IsStale to decide
// whether to trust the buffered record.
//
// A new tracker reports stale until the first Reset: no packet has ever
// arrived, so the source is absent by definition.
type StalenessTracker struct {
	elapsed float32
	timeout float32
}

// NewStalenessTracker returns a tracker with the given timeout in seconds.
func NewStalenessTracker(timeoutSeconds float32) *StalenessTracker {
	return &StalenessTracker{elapsed: 999, timeout: timeoutSeconds}
}

// SetTimeoutSeconds reconfigures the staleness threshold.
func (t *StalenessTracker) SetTimeoutSeconds(seconds float32) { t.timeout = seconds }

// Tick accumulates dt seconds of elapsed time.
func (t *StalenessTracker) Tick(dt float32) { t.elapsed += dt }

// Reset zeroes the elapsed time; call when a new buffer version is observed.
func (t *StalenessTracker) Reset() { t.elapsed = 0 }

// IsStale reports whether the elapsed time has crossed the timeout.
func (t *StalenessTracker) IsStale() bool { return t.elapsed > t.timeout }

// Elapsed returns seconds since the last Reset.
func (t *StalenessTracker) Elapsed() float32 { return t.elapsed }
