// Package normalize converts scraped display strings into typed values and
// assembles raw extractions into the final record types.
package normalize

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrNoDigits is returned by Count for input with nothing countable in it.
var ErrNoDigits = errors.New("no digits in count")

var suffixMultipliers = map[byte]int64{
	'K': 1_000,
	'M': 1_000_000,
	'B': 1_000_000_000,
}

// Count parses a human-abbreviated count like "1.2K", "3M", "1,234" or "542"
// into an exact integer. Fractional abbreviations truncate toward zero, so
// "1.5K" is 1500 and "1.23K" is 1230. Empty or digit-free input is an error;
// callers decide whether that means zero or a warning.
func Count(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty count: %w", ErrNoDigits)
	}

	mult := int64(1)
	if m, ok := suffixMultipliers[s[len(s)-1]]; ok {
		mult = m
		s = s[:len(s)-1]
	}

	if !strings.ContainsAny(s, "0123456789") {
		return 0, fmt.Errorf("count %q: %w", s, ErrNoDigits)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse count %q: %w", s, err)
	}
	return int64(math.Trunc(f * float64(mult))), nil
}

var relativeRe = regexp.MustCompile(`^(\d+)([smhd])$`)

// Absolute layouts tried in order. The site renders "Jan 2, 2006" for old
// posts and "Jan 2" for posts from the current year.
var absoluteLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02T15:04:05.000Z",
	time.RFC3339,
	"2006-01-02",
}

var noYearLayouts = []string{
	"Jan 2",
	"January 2",
}

// FlexibleDate parses the timestamp formats the site renders: absolute dates
// with or without a year, relative offsets like "5m" or "3d", and ISO 8601.
// Dates without a year resolve to the most recent occurrence not after ref.
// The second return is false when the input matches no known format.
func FlexibleDate(s string, ref time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if m := relativeRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		var unit time.Duration
		switch m[2] {
		case "s":
			unit = time.Second
		case "m":
			unit = time.Minute
		case "h":
			unit = time.Hour
		case "d":
			unit = 24 * time.Hour
		}
		return ref.Add(-time.Duration(n) * unit), true
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	for _, layout := range noYearLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		// Assume the current year, rolling back when that lands in the
		// future relative to ref.
		t = time.Date(ref.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		if t.After(ref) {
			t = t.AddDate(-1, 0, 0)
		}
		return t, true
	}

	return time.Time{}, false
}

var joinLayouts = []string{
	"January 2006",
	"Jan 2006",
}

// JoinDate parses a profile join date like "Joined March 2009" or "Mar 2009"
// into the first day of that month.
func JoinDate(s string, ref time.Time) (time.Time, bool) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "Joined"))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range joinLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), true
		}
	}
	return FlexibleDate(s, ref)
}
