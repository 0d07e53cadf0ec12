// Package version holds build metadata stamped into the docent binary by the
// release workflow, via -ldflags "-X .../internal/version.Version=...".
package version

import "fmt"

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the build identifier shown by the version command.
func String() string {
	return fmt.Sprintf("docent %s (commit %s, built %s)", Version, Commit, Date)
}
