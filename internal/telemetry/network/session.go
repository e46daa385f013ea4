package network

import (
	"fmt"
	"sync/atomic"

	"github.com/nervelabs/nervebridge/internal/telemetry"
	"github.com/nervelabs/nervebridge/internal/telemetry/latest"
	"github.com/nervelabs/nervebridge/internal/telemetry/wire"
)

// FaceSession owns one listener publishing decoded NERV frames into a
// latest-value buffer. Reconfiguration is stop-then-start: Start must not be
// called while IsRunning reports true, and the port is only read at Start.
type FaceSession struct {
	buf      latest.Buffer[telemetry.FaceFrame]
	listener *Listener
}

// NewFaceSession returns a stopped session with an empty buffer.
func NewFaceSession() *FaceSession {
	return &FaceSession{}
}

// Start binds the port and begins publishing decoded face frames.
func (s *FaceSession) Start(port int) error {
	if s.IsRunning() {
		return fmt.Errorf("face session already running on port %d", s.listener.Port())
	}
	s.listener = NewListener(ListenerConfig{
		Port:        port,
		DatagramMax: 512,
		Handler:     s.handle,
	})
	return s.listener.Start()
}

// Stop halts the listener, joining its goroutine before returning.
func (s *FaceSession) Stop() {
	if s.listener != nil {
		s.listener.Stop()
	}
}

// IsRunning reports whether the listener goroutine is active.
func (s *FaceSession) IsRunning() bool {
	return s.listener != nil && s.listener.IsRunning()
}

// Buffer exposes the latest-value buffer for the real-time consumer.
func (s *FaceSession) Buffer() *latest.Buffer[telemetry.FaceFrame] { return &s.buf }

// FramesPerSecond returns the rolling decode rate, zero when stopped.
func (s *FaceSession) FramesPerSecond() float64 {
	if s.listener == nil {
		return 0
	}
	return s.listener.FramesPerSecond()
}

// JitterMillis returns arrival jitter in milliseconds, zero when stopped.
func (s *FaceSession) JitterMillis() float64 {
	if s.listener == nil {
		return 0
	}
	return s.listener.JitterMillis()
}

// Port returns the configured port, zero before the first Start.
func (s *FaceSession) Port() int {
	if s.listener == nil {
		return 0
	}
	return s.listener.Port()
}

func (s *FaceSession) handle(pkt []byte, recvMicros uint64) bool {
	f, ok := wire.DecodeFace(pkt)
	if !ok {
		return false
	}
	if f.Timestamp == 0 {
		f.Timestamp = recvMicros
	}
	s.buf.Write(f)
	return true
}

// DepthSession owns two independent listeners: depth-field summaries on one
// port and skeleton bodies on another, each with its own buffer. The
// skeleton handler performs a read-modify-write merge of per-body packets
// into the aggregate; that is race-free only because the one skeleton
// listener goroutine is the aggregate buffer's sole writer.
type DepthSession struct {
	depthBuf latest.Buffer[telemetry.DepthFrame]
	skelBuf  latest.Buffer[telemetry.SkeletonFrame]

	depthListener *Listener
	skelListener  *Listener

	// Diagnostics for status display, visibility-only.
	lastBodyCount atomic.Int32
	lastSource    atomic.Uint32
}

// NewDepthSession returns a stopped session with empty buffers.
func NewDepthSession() *DepthSession {
	s := &DepthSession{}
	s.lastSource.Store(uint32(telemetry.SourceUnknown))
	return s
}

// Start binds both ports. If the skeleton port fails to bind, the depth
// listener is stopped again so the session is never half-running.
func (s *DepthSession) Start(depthPort, skelPort int) error {
	if s.IsRunning() {
		return fmt.Errorf("depth session already running")
	}

	// The body-count high-water mark restarts with the session.
	s.skelBuf.Write(telemetry.SkeletonFrame{})

	s.depthListener = NewListener(ListenerConfig{
		Port:        depthPort,
		DatagramMax: 512,
		Handler:     s.handleDepth,
	})
	if err := s.depthListener.Start(); err != nil {
		return err
	}

	s.skelListener = NewListener(ListenerConfig{
		Port:        skelPort,
		DatagramMax: 2048, // 32 joints × 12 bytes + header/footer
		Handler:     s.handleSkeleton,
	})
	if err := s.skelListener.Start(); err != nil {
		s.depthListener.Stop()
		return err
	}
	return nil
}

// Stop halts both listeners, joining each goroutine before returning.
func (s *DepthSession) Stop() {
	if s.depthListener != nil {
		s.depthListener.Stop()
	}
	if s.skelListener != nil {
		s.skelListener.Stop()
	}
}

// IsRunning reports whether either listener goroutine is active.
func (s *DepthSession) IsRunning() bool {
	return (s.depthListener != nil && s.depthListener.IsRunning()) ||
		(s.skelListener != nil && s.skelListener.IsRunning())
}

// DepthBuffer exposes the depth-field buffer for the real-time consumer.
func (s *DepthSession) DepthBuffer() *latest.Buffer[telemetry.DepthFrame] { return &s.depthBuf }

// SkeletonBuffer exposes the skeleton aggregate buffer.
func (s *DepthSession) SkeletonBuffer() *latest.Buffer[telemetry.SkeletonFrame] { return &s.skelBuf }

// FramesPerSecond returns the depth listener's rolling arrival rate.
func (s *DepthSession) FramesPerSecond() float64 {
	if s.depthListener == nil {
		return 0
	}
	return s.depthListener.FramesPerSecond()
}

// LastBodyCount returns the body count from the most recent depth frame.
func (s *DepthSession) LastBodyCount() int { return int(s.lastBodyCount.Load()) }

// LastSource returns the source id from the most recent depth frame.
func (s *DepthSession) LastSource() telemetry.Source {
	return telemetry.Source(s.lastSource.Load())
}

func (s *DepthSession) handleDepth(pkt []byte, recvMicros uint64) bool {
	d, ok := wire.DecodeDepth(pkt)
	if !ok {
		return false
	}
	if d.Timestamp == 0 {
		d.Timestamp = recvMicros
	}
	s.depthBuf.Write(d)
	s.lastBodyCount.Store(int32(d.BodyCount))
	s.lastSource.Store(uint32(d.Source))
	return true
}

func (s *DepthSession) handleSkeleton(pkt []byte, recvMicros uint64) bool {
	body, ok := wire.DecodeSkeleton(pkt)
	if !ok {
		return false
	}
	if body.Timestamp == 0 {
		body.Timestamp = recvMicros
	}

	idx := body.BodyIndex
	if idx >= telemetry.MaxBodies {
		idx = telemetry.MaxBodies - 1
	}

	updated := s.skelBuf.Read()
	updated.Bodies[idx] = body
	if idx+1 > updated.BodyCount {
		updated.BodyCount = idx + 1
	}
	updated.Timestamp = recvMicros
	s.skelBuf.Write(updated)
	return true
}
