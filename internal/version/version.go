// Package version holds build metadata injected at link time.
package version

import "fmt"

// Version is the release of the mdblock binary. Set it at build time:
// go build -ldflags "-X git.home.luguber.info/inful/mdblock/internal/version.Version=v0.3.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	if GitCommit == "unknown" && BuildTime == "unknown" {
		return Version
	}
	return fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
