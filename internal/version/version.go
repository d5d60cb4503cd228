package version

import (
	"fmt"
	"runtime"
)

// Name is the program name shown in version output and MCP handshakes
const Name = "copyscn"

// These variables are set via ldflags during build
var (
	// Version is the semantic version (e.g., v0.1.0)
	Version = "dev"

	// Commit is the git commit hash
	Commit = "unknown"

	// Date is the build date
	Date = "unknown"
)

// BuildInfo is the machine-readable form of Info
type BuildInfo struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the build metadata of the running binary
func Get() BuildInfo {
	return BuildInfo{
		Name:      Name,
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Info returns version information as a formatted string
func Info() string {
	b := Get()
	return fmt.Sprintf(
		"%s %s\nCommit: %s\nBuilt: %s\nGo: %s\nOS/Arch: %s",
		b.Name, b.Version, b.Commit, b.Date, b.GoVersion, b.Platform,
	)
}

// Short returns just the version string
func Short() string {
	return Version
}
