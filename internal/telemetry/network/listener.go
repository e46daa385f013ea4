// Package network owns the UDP side of telemetry ingestion: one listener
// goroutine per bound port, plus the per-domain session facades that wire
// listeners to latest-value buffers.
package network

import (
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/nervelabs/nervebridge/internal/monitoring"
)

// DefaultReadTimeout bounds each blocking receive so the loop can notice a
// stop request. Stop therefore completes within roughly this interval.
const DefaultReadTimeout = 100 * time.Millisecond

// Handler decodes one datagram and, on success, publishes it into the
// session's buffer. It returns true when a record was published so the
// listener can count it toward the arrival rate. Handlers run on the
// listener goroutine; malformed packets must be dropped silently.
type Handler func(payload []byte, recvMicros uint64) bool

// ListenerConfig configures a single-port UDP listener.
type ListenerConfig struct {
	Port        int
	DatagramMax int           // receive buffer size; default 2048
	ReadTimeout time.Duration // default DefaultReadTimeout
	Handler     Handler
}

// Listener receives telemetry datagrams on one loopback UDP port and feeds
// them to its Handler. The socket is thread-exclusive: only the listener
// goroutine touches it between Start and Stop.
type Listener struct {
	cfg  ListenerConfig
	conn *net.UDPConn

	running    atomic.Bool
	shouldStop atomic.Bool
	done       chan struct{}

	rate *ArrivalMonitor
}

// NewListener creates a listener; it does not bind until Start.
func NewListener(cfg ListenerConfig) *Listener {
	if cfg.DatagramMax <= 0 {
		cfg.DatagramMax = 2048
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	return &Listener{cfg: cfg, rate: NewArrivalMonitor()}
}

// Start binds the loopback socket and spawns the receive goroutine. A bind
// failure is returned to the caller and leaves the listener not-running; no
// retries are attempted.
func (l *Listener) Start() error {
	if l.running.Load() {
		return fmt.Errorf("listener already running on port %d", l.cfg.Port)
	}

	addr := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: l.cfg.Port}
	conn, err := net.ListenUDP("udp4", addr)
	if err != nil {
		return fmt.Errorf("failed to bind UDP port %d: %w", l.cfg.Port, err)
	}
	l.conn = conn
	l.done = make(chan struct{})
	l.shouldStop.Store(false)
	l.running.Store(true)

	go l.run()
	monitoring.Logf("telemetry listener started on %s", addr)
	return nil
}

// Stop requests shutdown and joins the receive goroutine. It returns only
// after the goroutine has fully exited, so callers may reconfigure and call
// Start again immediately. Safe to call when not running.
func (l *Listener) Stop() {
	if !l.running.Load() {
		return
	}
	l.shouldStop.Store(true)
	<-l.done
	l.conn.Close()
	l.conn = nil
	l.running.Store(false)
	monitoring.Logf("telemetry listener on port %d stopped", l.cfg.Port)
}

// IsRunning reports whether the receive goroutine is active.
func (l *Listener) IsRunning() bool { return l.running.Load() }

// Port returns the configured UDP port.
func (l *Listener) Port() int { return l.cfg.Port }

// FramesPerSecond returns the rolling arrival rate of accepted packets.
func (l *Listener) FramesPerSecond() float64 { return l.rate.FramesPerSecond() }

// JitterMillis returns the standard deviation of inter-arrival times over
// the last window, in milliseconds.
func (l *Listener) JitterMillis() float64 { return l.rate.JitterMillis() }

func (l *Listener) run() {
	defer close(l.done)

	buf := make([]byte, l.cfg.DatagramMax)
	for !l.shouldStop.Load() {
		l.conn.SetReadDeadline(time.Now().Add(l.cfg.ReadTimeout))

		// Timeouts and transient errors are both treated as "no data
		// this tick"; the window still rolls so the reported rate
		// decays when a producer goes quiet.
		n, _, err := l.conn.ReadFromUDP(buf)
		now := time.Now()
		if err == nil && n > 0 {
			if l.cfg.Handler(buf[:n], uint64(now.UnixMicro())) {
				l.rate.Record(now)
			}
		}
		l.rate.Roll(now)
	}
}
