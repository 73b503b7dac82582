package version

import "fmt"

// Version contains the application version information.
// Set via build-time ldflags in release builds:
// go build -ldflags "-X github.com/Konfuzian/claude-code-meta/internal/version.Version=v1.0.0".
var Version = "dev"

// Build metadata, also set via ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String returns the version line printed by --version.
func String() string {
	return fmt.Sprintf("metasite %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
