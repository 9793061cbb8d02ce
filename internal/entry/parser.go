package entry

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

// combinedTimePattern matches combined time duration in XhYm format (e.g., "1h30m", "2h15m")
var combinedTimePattern = regexp.MustCompile(`^(\d+)h(\d+)m$`)

// timePattern matches time duration in Yh (hours) or Ym (minutes) format
var timePattern = regexp.MustCompile(`^(\d+)(h|m)$`)

// literalHoursPattern and literalMinutesPattern are matched independently
// anywhere in an entry body by ParseLiteralDuration.
var (
	literalHoursPattern   = regexp.MustCompile(`(\d+)h`)
	literalMinutesPattern = regexp.MustCompile(`(\d+)m`)
)

// MaxDurationMinutes is the maximum allowed duration for a strict duration value (24 hours)
const MaxDurationMinutes = 24 * 60

// MaxLiteralMinutes is the largest literal duration that fits in a time.Duration
const MaxLiteralMinutes = math.MaxInt64 / int64(time.Minute)

// ParseLiteralDuration scans token for an integer immediately followed by "h"
// and an integer immediately followed by "m" and returns hours*60 + minutes.
// Either component may be absent. ok reports whether a literal was found, so
// an explicit "0m" yields (0, true) while "shower" yields (0, false). Values
// that cannot be represented as a time.Duration are reported as not found.
//
// Examples: "1h30m" (90), "45m" (45), "2h" (120), "0m" (0, true)
func ParseLiteralDuration(token string) (minutes int, ok bool) {
	hm := literalHoursPattern.FindStringSubmatch(token)
	mm := literalMinutesPattern.FindStringSubmatch(token)
	if hm == nil && mm == nil {
		return 0, false
	}

	var hours, mins int64
	var err error
	if hm != nil {
		if hours, err = strconv.ParseInt(hm[1], 10, 64); err != nil || hours > MaxLiteralMinutes/60 {
			return 0, false
		}
	}
	if mm != nil {
		if mins, err = strconv.ParseInt(mm[1], 10, 64); err != nil || mins > MaxLiteralMinutes {
			return 0, false
		}
	}

	total := hours*60 + mins
	if total > MaxLiteralMinutes {
		return 0, false
	}
	return int(total), true
}

// ParseDuration parses a time duration string in Yh, Ym, or XhYm format
// and returns the duration in minutes. Used for values that must be a
// duration and nothing else, such as the minutes column of a synonyms file.
// Valid inputs: "2h" (returns 120), "30m" (returns 30), "1h30m" (returns 90)
// Invalid inputs: "invalid", "0h", "0m", "0h0m", values exceeding 24h
func ParseDuration(input string) (minutes int, err error) {
	// First try combined pattern (e.g., "1h30m")
	combinedMatches := combinedTimePattern.FindStringSubmatch(input)
	if combinedMatches != nil {
		hours, err := strconv.Atoi(combinedMatches[1])
		if err != nil {
			return 0, fmt.Errorf("invalid time format: expected Xh, Xm, or XhYm, got %s", input)
		}

		mins, err := strconv.Atoi(combinedMatches[2])
		if err != nil {
			return 0, fmt.Errorf("invalid time format: expected Xh, Xm, or XhYm, got %s", input)
		}

		minutes = hours*60 + mins
		return checkBounds(minutes)
	}

	// Fall back to simple pattern (e.g., "2h" or "30m")
	matches := timePattern.FindStringSubmatch(input)
	if matches == nil {
		return 0, fmt.Errorf("invalid time format: expected Xh, Xm, or XhYm, got %s", input)
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time format: expected Xh, Xm, or XhYm, got %s", input)
	}

	if matches[2] == "h" {
		minutes = value * 60
	} else {
		minutes = value
	}

	return checkBounds(minutes)
}

func checkBounds(minutes int) (int, error) {
	if minutes == 0 {
		return 0, fmt.Errorf("invalid duration: duration cannot be zero")
	}
	if minutes > MaxDurationMinutes {
		return 0, fmt.Errorf("invalid duration: exceeds maximum of 24 hours (%d minutes)", MaxDurationMinutes)
	}
	return minutes, nil
}
