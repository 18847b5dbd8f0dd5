package app

import "fmt"

// Version, Commit and BuildTime are set via ldflags at build time.
// Example: go build -ldflags "-X github.com/heartmarshall/scolary/internal/app.Version=1.0.0" ./cmd/scolary
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion returns the version string printed by `scolary version`.
func BuildVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime)
}
