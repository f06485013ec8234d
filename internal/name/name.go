// Package name derives asset names from free-text prompts.
package name

import (
	"regexp"
	"strings"
)

const (
	DefaultPrefix = "T_"
	DefaultMaxLen = 48

	fallback = "Generated"
)

var nonAlnum = regexp.MustCompile(`[^0-9A-Za-z]+`)

// Sanitize turns arbitrary text into an asset identifier: every run of
// non-alphanumeric characters collapses to a single underscore, leading and
// trailing underscores are trimmed, prefix is prepended and the whole thing
// is truncated to maxLen. Never returns an empty string.
func Sanitize(s, prefix string, maxLen int) string {
	s = strings.Trim(nonAlnum.ReplaceAllString(s, "_"), "_")
	out := prefix + s
	if len(out) > maxLen {
		out = out[:maxLen]
	}
	if out == "" {
		return prefix + fallback
	}
	return out
}
