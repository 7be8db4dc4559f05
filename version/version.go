// Package version holds build metadata injected at link time.
package version

import "runtime"

// Set via ldflags at build time.
var (
	// GitRelease is the release tag.
	GitRelease = "dev"

	// GitCommit is the commit hash the binary was built from.
	GitCommit = "unknown"

	// GitCommitDate is the commit date.
	GitCommitDate = "unknown"
)

// GoInfo describes the Go toolchain and platform.
var GoInfo = runtime.Version() + " " + runtime.GOOS + "/" + runtime.GOARCH
