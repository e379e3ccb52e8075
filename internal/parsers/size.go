// Package parsers converts the text output of external commands into typed
// records. Every parser here is total: it never panics and never returns an
// error for malformed input, only an explicit "didn't parse" signal the
// caller turns into a dash.
package parsers

import (
	"strings"

	"github.com/dustin/go-humanize"
)

// ParseSize converts a human-readable byte size like "512Mi", "1.5G", or
// "1024Ki" into a byte count, via the same SI/IEC unit table go-humanize
// uses to format byte counts the other direction (internal/dashboard's
// agent panel). The second return
// value is false for any unrecognized unit — callers must treat that as
// a sentinel, never a value to display.
func ParseSize(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	bytes, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, false
	}
	return int64(bytes), true
}
