// Package config loads the bridge settings file. The schema uses pointer
// fields so a partial JSON file is safe: omitted fields fall back to the
// defaults baked into the Get* accessors.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Default values applied when a field is absent from the settings file.
const (
	DefaultFacePort       = 9000
	DefaultDepthPort      = 9005
	DefaultSkeletonPort   = 9006
	DefaultTimeoutSeconds = 0.5
	DefaultSmoothSeconds  = 0.05
	DefaultListenAddr     = "localhost:8080"
)

// Settings is the persisted bridge configuration: UDP ports, staleness
// timeout, output smoothing, and the optional frame-archive path.
type Settings struct {
	FacePort       *int     `json:"face_port,omitempty"`
	DepthPort      *int     `json:"depth_port,omitempty"`
	SkeletonPort   *int     `json:"skeleton_port,omitempty"`
	TimeoutSeconds *float64 `json:"timeout_seconds,omitempty"`
	SmoothSeconds  *float64 `json:"smooth_seconds,omitempty"`
	ListenAddr     *string  `json:"listen_addr,omitempty"`
	RecordPath     *string  `json:"record_path,omitempty"`
}

// EmptySettings returns a Settings with every field unset.
func EmptySettings() *Settings {
	return &Settings{}
}

// LoadSettings reads and validates a JSON settings file. The file must have
// a .json extension and stay under 1 MB.
func LoadSettings(path string) (*Settings, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("settings file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat settings file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("settings file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	s := EmptySettings()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings JSON: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// Validate checks that every supplied field is usable. Ports must be in the
// unprivileged range and the three ports must not collide.
func (s *Settings) Validate() error {
	ports := map[string]*int{
		"face_port":     s.FacePort,
		"depth_port":    s.DepthPort,
		"skeleton_port": s.SkeletonPort,
	}
	seen := map[int]string{}
	for name, p := range ports {
		if p == nil {
			continue
		}
		if *p < 1024 || *p > 65535 {
			return fmt.Errorf("%s must be in 1024..65535, got %d", name, *p)
		}
		if other, dup := seen[*p]; dup {
			return fmt.Errorf("%s and %s both use port %d", name, other, *p)
		}
		seen[*p] = name
	}
	if s.TimeoutSeconds != nil && *s.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %g", *s.TimeoutSeconds)
	}
	if s.SmoothSeconds != nil && *s.SmoothSeconds < 0 {
		return fmt.Errorf("smooth_seconds must not be negative, got %g", *s.SmoothSeconds)
	}
	return nil
}

// GetFacePort returns the face telemetry port or its default.
func (s *Settings) GetFacePort() int {
	if s.FacePort != nil {
		return *s.FacePort
	}
	return DefaultFacePort
}

// GetDepthPort returns the depth-field port or its default.
func (s *Settings) GetDepthPort() int {
	if s.DepthPort != nil {
		return *s.DepthPort
	}
	return DefaultDepthPort
}

// GetSkeletonPort returns the skeleton port or its default.
func (s *Settings) GetSkeletonPort() int {
	if s.SkeletonPort != nil {
		return *s.SkeletonPort
	}
	return DefaultSkeletonPort
}

// GetTimeoutSeconds returns the staleness timeout or its default.
func (s *Settings) GetTimeoutSeconds() float64 {
	if s.TimeoutSeconds != nil {
		return *s.TimeoutSeconds
	}
	return DefaultTimeoutSeconds
}

// GetSmoothSeconds returns the smoothing time constant or its default.
func (s *Settings) GetSmoothSeconds() float64 {
	if s.SmoothSeconds != nil {
		return *s.SmoothSeconds
	}
	return DefaultSmoothSeconds
}

// GetListenAddr returns the HTTP status address or its default.
func (s *Settings) GetListenAddr() string {
	if s.ListenAddr != nil {
		return *s.ListenAddr
	}
	return DefaultListenAddr
}

// GetRecordPath returns the frame-archive DB path; empty disables recording.
func (s *Settings) GetRecordPath() string {
	if s.RecordPath != nil {
		return *s.RecordPath
	}
	return ""
}
