// Package version returns the version string of the running binary.
package version

import (
	"fmt"
	"time"
)

// Set through linker options.
var gitCommit = "Local build"
var buildDate = "Moments ago"
var gitTag = "Unknown"

// Version returns the version string of this build.
func Version() string {
	if buildDate == "{DATE}" {
		buildDate = time.Now().Format(time.RFC3339)
	}
	return fmt.Sprintf("%s. Built at: %s", BuildData(), buildDate)
}

// BuildData returns the git tag and commit of the current build.
func BuildData() string {
	return fmt.Sprintf("attpool/%s/%s", gitTag, gitCommit)
}
