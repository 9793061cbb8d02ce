package timeutil

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ClockLayout is the layout used for bare times of day ("14:00")
const ClockLayout = "15:04"

// DateTimeLayout is the layout accepted for full start timestamps
const DateTimeLayout = "2006-01-02 15:04"

var clockPattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// StartOfDay returns midnight (00:00:00) of the given day in the same timezone
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseClock parses a time of day in HH:MM format and composes it onto the
// date (year, month and day) of reference, in reference's location.
//
// Valid inputs: "14:00", "9:05", "23:59"
// Invalid inputs: "24:00", "14", "2pm", "14:00:00"
func ParseClock(input string, reference time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("time cannot be empty (use format HH:MM, e.g., 14:00)")
	}
	if !clockPattern.MatchString(input) {
		return time.Time{}, fmt.Errorf("invalid time format '%s' (use HH:MM, e.g., 14:00)", input)
	}

	clock, err := time.Parse(ClockLayout, input)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time '%s': hours must be 0-23 and minutes 0-59", input)
	}

	return time.Date(reference.Year(), reference.Month(), reference.Day(),
		clock.Hour(), clock.Minute(), 0, 0, reference.Location()), nil
}

// ParseStart parses a schedule start given either as a bare time of day
// (composed onto now's date) or as a full "YYYY-MM-DD HH:MM" timestamp in now's location.
func ParseStart(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if clockPattern.MatchString(input) {
		return ParseClock(input, now)
	}

	t, err := time.ParseInLocation(DateTimeLayout, input, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start '%s' (use HH:MM or YYYY-MM-DD HH:MM, e.g., 13:29 or 2024-05-23 13:29)", input)
	}
	return t, nil
}

// FormatClock formats t as HH:MM
func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}
