package patchregexp

import "regexp"

var (
	// Translation matches resource qualifier directory names that end with a
	// language, optionally followed by a region, e.g. values-de or
	// values-pt-rBR. Names where another qualifier follows the locale, such
	// as values-de-v21, and names without a language, such as values-rUS or
	// values-v21, do not match.
	Translation = regexp.MustCompile(`-[a-z]{2}(-r[A-Z]{2})?$`)

	APK        = regexp.MustCompile(`(?i)^.+\.apk$`)
	APKToolVer = regexp.MustCompile(`\d+\.\d+\.\d+`)
)
