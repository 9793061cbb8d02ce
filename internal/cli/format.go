// Package cli provides the presentation layer for punctual.
// It renders schedules as text, styled tables, JSON and CSV.
package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/JustNello/punctual/internal/synonym"
)

// FormatDuration formats minutes as a human-readable string
// Examples: "30m", "2h", "1h 30m"
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

// FormatElapsedTime formats a duration rounded to the minute
// Examples: "5m", "1h 23m", "2h"
func FormatElapsedTime(d time.Duration) string {
	return FormatDuration(int(math.Round(d.Minutes())))
}

// FormatExtra formats a signed gap: "+ 34m" for spare time, "- 5m" for an
// overlap and "" when entries are back to back
func FormatExtra(d time.Duration) string {
	switch {
	case d > 0:
		return "+ " + FormatElapsedTime(d)
	case d < 0:
		return "- " + FormatElapsedTime(-d)
	default:
		return ""
	}
}

// FormatSynonymWarning formats a ParseWarning into a human-readable string
func FormatSynonymWarning(warning synonym.ParseWarning) string {
	content := warning.Content
	if len(content) > 50 {
		content = content[:47] + "..."
	}
	return fmt.Sprintf("  Line %d: %s (error: %s)", warning.LineNumber, content, warning.Error)
}

// Pluralize returns the singular or plural form of a word based on count
func Pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	if strings.HasSuffix(word, "y") {
		return strings.TrimSuffix(word, "y") + "ies"
	}
	return word + "s"
}
