// Package version carries build identification, overridden at link time via
// -ldflags "-X github.com/nervelabs/nervebridge/internal/version.Version=...".
package version

var (
	// Version is the current bridge version.
	Version = "dev"
	// GitSHA is the git commit SHA.
	GitSHA = "unknown"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)
