package apkpatch

import (
	"golang.org/x/mod/semver"
)

var (
	// Version is set at build time with -ldflags.
	Version = "0.0.0"
	// Prerelease is set at build time with -ldflags.
	Prerelease = ""
)

// SemVer returns the semantic version of apkpatch.
func SemVer() string {
	v := "v" + Version
	if Prerelease != "" {
		v += "-" + Prerelease
	}

	if !semver.IsValid(v) {
		return "v0.0.0-unknown"
	}

	return v
}
