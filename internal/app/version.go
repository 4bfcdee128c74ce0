package app

import "fmt"

// AppName tags every log line and the CLI banner.
const AppName = "intellitrip"

// Version, Commit, and BuildTime are set via ldflags at build time.
// Example: go build -ldflags "-X github.com/heartmarshall/intellitrip-backend/internal/app.Version=1.0.0"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion returns a formatted version string for startup logs and the CLI.
func BuildVersion() string {
	return fmt.Sprintf("%s %s (commit: %s, built: %s)", AppName, Version, Commit, BuildTime)
}
