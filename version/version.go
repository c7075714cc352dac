// Package version holds build information, set with -ldflags at release time:
//
//	go build -ldflags "-X github.com/jackzampolin/bookindex/version.GitRelease=v0.3.0"
package version

import (
	"fmt"
	"runtime"
)

var (
	GitRelease    = "dev"
	GitCommit     = "unknown"
	GitCommitDate = "unknown"
	GoInfo        = runtime.Version()
)

// String returns a one-line version summary.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s, %s)", GitRelease, GitCommit, GitCommitDate, GoInfo)
}
