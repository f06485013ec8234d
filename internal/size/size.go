// Package size parses user-entered image dimensions.
package size

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	DefaultWidth  int32 = 512
	DefaultHeight int32 = 512
)

var ErrFormat = errors.New("size must look like 512x512 or 1024,1024")

var pattern = regexp.MustCompile(`(?i)^\s*(\d+)\s*[x,]\s*(\d+)\s*$`)

// Parse reads a "WxH" or "W,H" size string. Blank input yields the default
// size; anything that is not two positive integers fails with ErrFormat.
func Parse(s string) (int32, int32, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultWidth, DefaultHeight, nil
	}
	m := pattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrFormat, s)
	}
	w, err := strconv.ParseInt(m[1], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrFormat, s)
	}
	h, err := strconv.ParseInt(m[2], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrFormat, s)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%w: dimensions must be positive", ErrFormat)
	}
	return int32(w), int32(h), nil
}
