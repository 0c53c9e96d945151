// ABOUTME: Time parsing utilities for the loose date formats found in the wild
// ABOUTME: Wraps araddon/dateparse with a zero-value-on-failure contract

package timeparse

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Parse attempts to parse a date/time string in any common format.
// Returns the zero time when parsing fails.
func Parse(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ParsePtr is like Parse but returns nil instead of the zero time,
// matching the optional date fields on domain records.
func ParsePtr(s string) *time.Time {
	t := Parse(s)
	if t.IsZero() {
		return nil
	}
	return &t
}
