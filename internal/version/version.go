// Package version holds the build information of the richdoc binary. The
// variables are set with -ldflags at build time.
package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

var (
	BuildDate    = "unknown"
	BuildVersion = "0.0.0"
	Commit       = "unknown"
)

// BaseVersion returns the major and minor version, like "v1.7". Build
// versions that are not semver yield "unknown".
func BaseVersion() string {
	v, err := semver.NewVersion(BuildVersion)
	if err != nil {
		return "unknown"
	}
	return fmt.Sprintf("v%d.%d", v.Major(), v.Minor())
}

// String describes the build for --version.
func String() string {
	return fmt.Sprintf("richdoc %s (%s) on %s", BuildVersion, Commit, BuildDate)
}

// Generator is the value of the generator meta tag in exported pages.
func Generator() string {
	return "richdoc " + BaseVersion()
}
