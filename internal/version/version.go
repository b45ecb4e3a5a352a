// Package version holds build metadata injected via ldflags.
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the build metadata for humans, e.g. `cinedex v1.2.0 (commit abc123, built 2024-05-01)`.
func String() string {
	return fmt.Sprintf("cinedex %s (commit %s, built %s)", Version, Commit, Date)
}
