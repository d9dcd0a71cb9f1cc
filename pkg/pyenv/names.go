package pyenv

import (
	"regexp"
	"strings"
)

var (
	canonicalRE = regexp.MustCompile(`[-_.]+`)
	unsafeRE    = regexp.MustCompile(`[^A-Za-z0-9.]+`)
)

// CanonicalName normalizes a distribution name per PEP 503: lowercase, with
// runs of "-", "_" and "." collapsed to a single "-".
func CanonicalName(name string) string {
	return canonicalRE.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// SafeName converts a distribution name to its project directory form by
// replacing every run of characters other than ASCII letters, digits and
// "." with a single "-". Case is preserved.
func SafeName(name string) string {
	return unsafeRE.ReplaceAllString(name, "-")
}
