// Package api serves read-only JSON diagnostics for the bridge daemon: port
// bindings, arrival rates, and last-seen source details. It never mutates
// session state.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/nervelabs/nervebridge/internal/monitoring"
	"github.com/nervelabs/nervebridge/internal/telemetry/network"
	"github.com/nervelabs/nervebridge/internal/version"
)

// Server exposes bridge status over HTTP.
type Server struct {
	face  *network.FaceSession
	depth *network.DepthSession
}

// NewServer creates a status server over the given sessions. Either session
// may be nil when that domain is disabled.
func NewServer(face *network.FaceSession, depth *network.DepthSession) *Server {
	return &Server{face: face, depth: depth}
}

// ServeMux returns the handler mux for the status endpoints.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", s.statusHandler)
	mux.HandleFunc("/healthz", s.healthHandler)
	return mux
}

type sessionStatus struct {
	Running         bool    `json:"running"`
	Port            int     `json:"port,omitempty"`
	FramesPerSecond float64 `json:"frames_per_second"`
	JitterMillis    float64 `json:"jitter_millis,omitempty"`
	Version         uint64  `json:"version"`
}

type depthStatus struct {
	sessionStatus
	SkeletonVersion uint64 `json:"skeleton_version"`
	LastSource      string `json:"last_source"`
	LastBodyCount   int    `json:"last_body_count"`
}

type bridgeStatus struct {
	Version string         `json:"version"`
	Face    *sessionStatus `json:"face,omitempty"`
	Depth   *depthStatus   `json:"depth,omitempty"`
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := bridgeStatus{Version: version.Version}
	if s.face != nil {
		status.Face = &sessionStatus{
			Running:         s.face.IsRunning(),
			Port:            s.face.Port(),
			FramesPerSecond: s.face.FramesPerSecond(),
			JitterMillis:    s.face.JitterMillis(),
			Version:         s.face.Buffer().Version(),
		}
	}
	if s.depth != nil {
		status.Depth = &depthStatus{
			sessionStatus: sessionStatus{
				Running:         s.depth.IsRunning(),
				FramesPerSecond: s.depth.FramesPerSecond(),
				Version:         s.depth.DepthBuffer().Version(),
			},
			SkeletonVersion: s.depth.SkeletonBuffer().Version(),
			LastSource:      s.depth.LastSource().String(),
			LastBodyCount:   s.depth.LastBodyCount(),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		http.Error(w, "Failed to encode status", http.StatusInternalServerError)
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, err := w.Write([]byte("ok")); err != nil {
		monitoring.Logf("health response write failed: %v", err)
	}
}
