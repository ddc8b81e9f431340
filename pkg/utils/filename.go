package utils

import (
	"regexp"
	"strings"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SafeFileName collapses every run of characters outside [A-Za-z0-9._-] to a
// single underscore, trims leading/trailing underscores and falls back to
// "file" when nothing usable remains.
func SafeFileName(name string) string {
	safe := unsafeFileChars.ReplaceAllString(name, "_")
	safe = strings.Trim(safe, "_")
	if safe == "" {
		return "file"
	}
	return safe
}
