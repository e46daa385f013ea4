package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestEmptySettingsDefaults(t *testing.T) {
	s := EmptySettings()
	assert.Equal(t, DefaultFacePort, s.GetFacePort())
	assert.Equal(t, DefaultDepthPort, s.GetDepthPort())
	assert.Equal(t, DefaultSkeletonPort, s.GetSkeletonPort())
	assert.Equal(t, DefaultTimeoutSeconds, s.GetTimeoutSeconds())
	assert.Equal(t, DefaultSmoothSeconds, s.GetSmoothSeconds())
	assert.Equal(t, DefaultListenAddr, s.GetListenAddr())
	assert.Empty(t, s.GetRecordPath())
}

func TestLoadSettingsPartial(t *testing.T) {
	path := writeSettings(t, `{"face_port": 9100, "timeout_seconds": 1.5}`)
	s, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, s.GetFacePort())
	assert.Equal(t, 1.5, s.GetTimeoutSeconds())
	// Omitted fields keep their defaults.
	assert.Equal(t, DefaultDepthPort, s.GetDepthPort())
	assert.Equal(t, DefaultSmoothSeconds, s.GetSmoothSeconds())
}

func TestLoadSettingsRejectsBadInput(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"privileged port", `{"face_port": 80}`},
		{"port above range", `{"depth_port": 70000}`},
		{"duplicate ports", `{"depth_port": 9100, "skeleton_port": 9100}`},
		{"zero timeout", `{"timeout_seconds": 0}`},
		{"negative smooth", `{"smooth_seconds": -0.1}`},
		{"not json", `face_port = 9100`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadSettings(writeSettings(t, tc.contents))
			assert.Error(t, err)
		})
	}
}

func TestLoadSettingsRequiresJSONExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))
	_, err := LoadSettings(path)
	assert.Error(t, err)
}

func TestLoadSettingsMissingFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
