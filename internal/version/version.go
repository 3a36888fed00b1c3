package version

import (
	"fmt"
	"runtime"
)

// Name is the executable name reported by Full.
const Name = "firmware-maker"

var (
	// Version is the semantic version of the build. It can be overridden via ldflags.
	Version = "0.1.0"
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Platform names the toolchain and target the binary was built for.
func Platform() string {
	return runtime.Version() + " " + runtime.GOOS + "/" + runtime.GOARCH
}

// Full returns the version line printed by the version subcommand,
// e.g. "firmware-maker 0.1.0 (commit none, built unknown, go1.25.0 linux/amd64)".
func Full() string {
	return fmt.Sprintf("%s %s (commit %s, built %s, %s)", Name, Version, Commit, BuildTime, Platform())
}
