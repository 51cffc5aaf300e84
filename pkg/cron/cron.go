// Package cron implements a minimal, bit-exact 5-field cron expression
// matcher: minute hour day-of-month month day-of-week. Each field accepts
// "*", a literal integer, a comma-separated list, a range ("a-b"), or a
// step ("*/n" or "a-b/n"). Matches never panics; a malformed expression or
// out-of-range field resolves to false rather than an error, since the
// scheduler's tick loop has nowhere useful to report a parse failure to.
package cron

import (
	"strconv"
	"strings"
	"time"
)

// fieldRange bounds the valid values for each of the five fields.
type fieldRange struct {
	min, max int
}

var fieldRanges = [5]fieldRange{
	{0, 59}, // minute
	{0, 23}, // hour
	{1, 31}, // day of month
	{1, 12}, // month
	{0, 6},  // day of week (0 = Sunday)
}

// Matches reports whether t satisfies the 5-field cron expression expr.
func Matches(expr string, t time.Time) bool {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return false
	}

	values := [5]int{
		t.Minute(),
		t.Hour(),
		t.Day(),
		int(t.Month()),
		int(t.Weekday()),
	}

	for i, field := range fields {
		set, ok := parseField(field, fieldRanges[i])
		if !ok {
			return false
		}
		if !set[values[i]] {
			return false
		}
	}
	return true
}

// parseField expands a single cron field into a membership set over
// [rng.min, rng.max]. The returned map is keyed directly by value so
// callers can do set[value] without translation.
func parseField(field string, rng fieldRange) (map[int]bool, bool) {
	set := make(map[int]bool)

	for _, part := range strings.Split(field, ",") {
		if part == "" {
			return nil, false
		}
		if !expandPart(part, rng, set) {
			return nil, false
		}
	}
	return set, true
}

// expandPart handles one comma-separated piece: "*", "*/n", "a-b", "a-b/n",
// or a bare literal.
func expandPart(part string, rng fieldRange, set map[int]bool) bool {
	base, step, hasStep := strings.Cut(part, "/")
	stepN := 1
	if hasStep {
		n, err := strconv.Atoi(step)
		if err != nil || n <= 0 {
			return false
		}
		stepN = n
	}

	var lo, hi int
	switch {
	case base == "*":
		lo, hi = rng.min, rng.max
	case strings.Contains(base, "-"):
		loStr, hiStr, ok := strings.Cut(base, "-")
		if !ok {
			return false
		}
		var err error
		lo, err = strconv.Atoi(loStr)
		if err != nil {
			return false
		}
		hi, err = strconv.Atoi(hiStr)
		if err != nil {
			return false
		}
	default:
		n, err := strconv.Atoi(base)
		if err != nil {
			return false
		}
		lo, hi = n, n
	}

	if lo < rng.min || hi > rng.max || lo > hi {
		return false
	}

	for v := lo; v <= hi; v += stepN {
		set[v] = true
	}
	return true
}
