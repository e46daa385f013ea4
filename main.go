// Command nervebridge runs the telemetry ingestion daemon: it binds the
// face, depth, and skeleton UDP ports, publishes decoded frames through
// latest-value buffers, serves JSON diagnostics over HTTP, and optionally
// archives frame arrivals to sqlite.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/nervelabs/nervebridge/internal/api"
	"github.com/nervelabs/nervebridge/internal/config"
	"github.com/nervelabs/nervebridge/internal/telemetry/network"
	"github.com/nervelabs/nervebridge/internal/telemetry/recorder"
	"github.com/nervelabs/nervebridge/internal/telemetry/smooth"
	"github.com/nervelabs/nervebridge/internal/version"
)

var (
	configPath = flag.String("config", "", "Path to JSON settings file (optional)")
	listen     = flag.String("listen", "", "HTTP status listen address (overrides settings)")
	record     = flag.String("record", "", "Frame archive sqlite path (overrides settings)")
)

// pollInterval is how often the daemon's own consumer loop polls the
// buffers. It stands in for the real-time tick of a synthesis engine.
const pollInterval = 10 * time.Millisecond

func main() {
	flag.Parse()
	log.Printf("nervebridge %s (%s)", version.Version, version.GitSHA)

	settings := config.EmptySettings()
	if *configPath != "" {
		var err error
		settings, err = config.LoadSettings(*configPath)
		if err != nil {
			log.Fatalf("Failed to load settings: %v", err)
		}
	}

	listenAddr := settings.GetListenAddr()
	if *listen != "" {
		listenAddr = *listen
	}
	recordPath := settings.GetRecordPath()
	if *record != "" {
		recordPath = *record
	}

	face := network.NewFaceSession()
	if err := face.Start(settings.GetFacePort()); err != nil {
		log.Fatalf("Failed to start face session: %v", err)
	}
	defer face.Stop()

	depth := network.NewDepthSession()
	if err := depth.Start(settings.GetDepthPort(), settings.GetSkeletonPort()); err != nil {
		log.Fatalf("Failed to start depth session: %v", err)
	}
	defer depth.Stop()

	var rec *recorder.Recorder
	if recordPath != "" {
		var err error
		rec, err = recorder.Open(recordPath)
		if err != nil {
			log.Fatalf("Failed to open frame archive: %v", err)
		}
		defer rec.Close()
		log.Printf("Recording frames to %s (run %s)", recordPath, rec.RunID())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	// Consumer-side poll loop: version compare, staleness, recording.
	wg.Add(1)
	go func() {
		defer wg.Done()
		pollLoop(ctx, settings, face, depth, rec)
	}()

	// HTTP status server.
	statusServer := api.NewServer(face, depth)
	httpServer := &http.Server{Addr: listenAddr, Handler: statusServer.ServeMux()}
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("Status server listening on %s", listenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Status server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Print("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Status server shutdown error: %v", err)
	}

	face.Stop()
	depth.Stop()
	wg.Wait()
}

// pollLoop is the daemon's stand-in consumer. It polls each buffer once per
// tick, resets the staleness trackers on version changes, archives fresh
// frames, and periodically logs arrival rates.
func pollLoop(ctx context.Context, settings *config.Settings, face *network.FaceSession, depth *network.DepthSession, rec *recorder.Recorder) {
	timeout := float32(settings.GetTimeoutSeconds())
	faceStale := smooth.NewStalenessTracker(timeout)
	depthStale := smooth.NewStalenessTracker(timeout)

	dt := float32(pollInterval.Seconds())
	var lastFace, lastDepth, lastSkel uint64

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	logTicker := time.NewTicker(5 * time.Second)
	defer logTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			if v := face.Buffer().Version(); v != lastFace {
				lastFace = v
				faceStale.Reset()
				if rec != nil {
					if err := rec.RecordFace(face.Buffer().Read()); err != nil {
						log.Printf("Archive error: %v", err)
					}
				}
			}
			faceStale.Tick(dt)

			if v := depth.DepthBuffer().Version(); v != lastDepth {
				lastDepth = v
				depthStale.Reset()
				if rec != nil {
					if err := rec.RecordDepth(depth.DepthBuffer().Read()); err != nil {
						log.Printf("Archive error: %v", err)
					}
				}
			}
			depthStale.Tick(dt)

			if v := depth.SkeletonBuffer().Version(); v != lastSkel {
				lastSkel = v
				if rec != nil {
					if err := rec.RecordSkeleton(depth.SkeletonBuffer().Read()); err != nil {
						log.Printf("Archive error: %v", err)
					}
				}
			}

		case <-logTicker.C:
			log.Printf("face: %.1f fps (stale=%v) depth: %.1f fps (stale=%v, source=%s, bodies=%d)",
				face.FramesPerSecond(), faceStale.IsStale(),
				depth.FramesPerSecond(), depthStale.IsStale(),
				depth.LastSource(), depth.LastBodyCount())
		}
	}
}
