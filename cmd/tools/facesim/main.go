// Command facesim is a simulated capture bridge. It sends synthetic NERV,
// KINT, and SKEL packets to a running daemon at a configurable frame rate,
// animating the channels so downstream smoothing and staleness handling can
// be exercised without camera hardware.
//
// Usage:
//
//	go run ./cmd/tools/facesim [flags]
//
// Flags:
//
//	-host      Target host (default: 127.0.0.1)
//	-face      Face telemetry port (default: 9000; 0 disables)
//	-depth     Depth telemetry port (default: 9005; 0 disables)
//	-skel      Skeleton port (default: 9006; 0 disables)
//	-fps       Frames per second (default: 30)
//	-v2        Send 100-byte v2 face packets (default: true)
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nervelabs/nervebridge/internal/telemetry"
	"github.com/nervelabs/nervebridge/internal/telemetry/wire"
)

func main() {
	host := flag.String("host", "127.0.0.1", "Target host")
	facePort := flag.Int("face", 9000, "Face telemetry port (0 disables)")
	depthPort := flag.Int("depth", 9005, "Depth telemetry port (0 disables)")
	skelPort := flag.Int("skel", 9006, "Skeleton port (0 disables)")
	fps := flag.Float64("fps", 30, "Frames per second")
	useV2 := flag.Bool("v2", true, "Send v2 (100-byte) face packets")
	flag.Parse()

	faceConn := dial(*host, *facePort)
	depthConn := dial(*host, *depthPort)
	skelConn := dial(*host, *skelPort)
	if faceConn == nil && depthConn == nil && skelConn == nil {
		log.Fatal("all targets disabled, nothing to do")
	}

	version := uint16(1)
	if *useV2 {
		version = 2
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Duration(float64(time.Second) / *fps))
	defer ticker.Stop()

	log.Printf("Simulating at %.1f fps (face v%d)", *fps, version)
	start := time.Now()
	for {
		select {
		case <-sigCh:
			log.Print("Stopping simulator")
			return
		case now := <-ticker.C:
			t := now.Sub(start).Seconds()
			micros := uint64(now.UnixMicro())

			if faceConn != nil {
				send(faceConn, wire.EncodeFace(animateFace(t, micros), version))
			}
			if depthConn != nil {
				send(depthConn, wire.EncodeDepth(animateDepth(t, micros)))
			}
			if skelConn != nil {
				// Two bodies breathing out of phase.
				send(skelConn, wire.EncodeSkeleton(animateBody(0, t, micros), telemetry.MaxJoints))
				send(skelConn, wire.EncodeSkeleton(animateBody(1, t+0.5, micros), telemetry.MaxJoints))
			}
		}
	}
}

func dial(host string, port int) *net.UDPConn {
	if port == 0 {
		return nil
	}
	addr, err := net.ResolveUDPAddr("udp4", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		log.Fatalf("bad target %s:%d: %v", host, port, err)
	}
	conn, err := net.DialUDP("udp4", nil, addr)
	if err != nil {
		log.Fatalf("failed to dial %s: %v", addr, err)
	}
	return conn
}

func send(conn *net.UDPConn, pkt []byte) {
	if _, err := conn.Write(pkt); err != nil {
		log.Printf("send error: %v", err)
	}
}

func animateFace(t float64, micros uint64) telemetry.FaceFrame {
	osc := func(hz, lo, hi float64) float32 {
		return float32(lo + (hi-lo)*(0.5+0.5*math.Sin(2*math.Pi*hz*t)))
	}
	blink := float32(0)
	if math.Mod(t, 3) < 0.15 {
		blink = 1
	}
	return telemetry.FaceFrame{
		HeadX:       osc(0.11, -0.6, 0.6),
		HeadY:       osc(0.07, -0.3, 0.3),
		HeadZ:       osc(0.05, -0.2, 0.2),
		HeadDist:    osc(0.03, 0.3, 0.7),
		LeftEye:     osc(0.2, 0.6, 1.0),
		RightEye:    osc(0.21, 0.6, 1.0),
		GazeX:       osc(0.17, -0.8, 0.8),
		GazeY:       osc(0.13, -0.5, 0.5),
		MouthW:      osc(0.4, 0.1, 0.6),
		MouthH:      osc(0.8, 0.0, 0.5),
		Jaw:         osc(0.8, 0.0, 0.4),
		Lips:        osc(0.3, 0.0, 0.3),
		BrowL:       osc(0.09, 0.1, 0.7),
		BrowR:       osc(0.08, 0.1, 0.7),
		BlinkL:      blink,
		BlinkR:      blink,
		Expression:  osc(0.02, 0.2, 0.9),
		Tongue:      osc(0.15, 0.0, 0.2),
		BrowInnerUp: osc(0.06, 0.0, 0.5),
		BrowDownL:   osc(0.05, 0.0, 0.3),
		BrowDownR:   osc(0.04, 0.0, 0.3),
		FaceCount:   1,
		Timestamp:   micros,
	}
}

func animateDepth(t float64, micros uint64) telemetry.DepthFrame {
	osc := func(hz, lo, hi float64) float32 {
		return float32(lo + (hi-lo)*(0.5+0.5*math.Sin(2*math.Pi*hz*t)))
	}
	return telemetry.DepthFrame{
		Dist:      osc(0.05, 0.2, 0.9),
		Motion:    osc(0.5, 0.0, 0.6),
		CntX:      osc(0.08, -0.9, 0.9),
		CntY:      osc(0.06, -0.5, 0.5),
		Area:      osc(0.04, 0.1, 0.5),
		DepthL:    osc(0.07, 0.2, 0.8),
		DepthR:    osc(0.09, 0.2, 0.8),
		Entropy:   osc(0.3, 0.1, 0.7),
		Source:    telemetry.SourceSimulated,
		BodyCount: 1,
		Timestamp: micros,
	}
}

func animateBody(index int, t float64, micros uint64) telemetry.SkeletonBody {
	b := telemetry.SkeletonBody{
		BodyIndex:  index,
		JointCount: telemetry.MaxJoints,
		Timestamp:  micros,
	}
	for j := 0; j < telemetry.MaxJoints; j++ {
		phase := float64(j) * 0.2
		b.Joints[j] = telemetry.Joint{
			X: float32(0.5 * math.Sin(2*math.Pi*0.1*t+phase)),
			Y: float32(-1 + 2*float64(j)/float64(telemetry.MaxJoints-1)),
			Z: float32(0.3 * math.Cos(2*math.Pi*0.1*t+phase)),
		}
	}
	return b
}
