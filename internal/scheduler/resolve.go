package scheduler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the cache key date format.
const DateLayout = "2006-01-02"

var (
	annotation = regexp.MustCompile(`\s*\(.*\)$`)
	clockTime  = regexp.MustCompile(`^([0-9]{2}):([0-9]{2})$`)
)

// CleanTime strips a trailing parenthetical annotation: "04:32 (WIB)" -> "04:32".
func CleanTime(raw string) string {
	return strings.TrimSpace(annotation.ReplaceAllString(raw, ""))
}

// ParseHHMM parses a 24-hour "HH:MM" time of day. Both fields must be exactly
// two ASCII digits; signs and single digits are rejected.
func ParseHHMM(s string) (hour, minute int, err error) {
	m := clockTime.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	if minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, minute, nil
}

// ResolveInstant turns a zone-local time of day into an absolute instant on the
// zone's current local date. The UTC offset is sampled at now, not at the
// resolved instant, and is recomputed on every call. A time that lies across a
// DST transition from now (same local day) resolves with the pre-transition
// offset.
func ResolveInstant(hhmm string, loc *time.Location, now time.Time) (time.Time, error) {
	h, m, err := ParseHHMM(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	local := now.In(loc)
	_, offset := local.Zone()
	naive := time.Date(local.Year(), local.Month(), local.Day(), h, m, 0, 0, time.UTC)
	return naive.Add(-time.Duration(offset) * time.Second), nil
}

// LocalDate renders the zone-local calendar date of t.
func LocalDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}
