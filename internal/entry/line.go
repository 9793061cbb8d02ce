// Package entry implements the grammar of a single schedule entry line:
// "<body>[; HH:MM]", where body is a literal duration, a synonym name or a
// trip "<location A> -> <location B>".
package entry

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JustNello/punctual/internal/timeutil"
)

// ErrInvalidClock is returned when the "; HH:MM" suffix of a line cannot be parsed
var ErrInvalidClock = errors.New("invalid start time")

// Syntax holds the separator tokens of the entry line grammar
type Syntax struct {
	// CommentMarker suppresses a line when it is the first non-blank text
	CommentMarker string
	// TripSeparator splits a trip body into its two locations
	TripSeparator string
	// DetailSeparator introduces the optional fixed start time
	DetailSeparator string
}

// DefaultSyntax returns the standard grammar: "#" comments, " -> " trips and ";" details
func DefaultSyntax() Syntax {
	return Syntax{
		CommentMarker:   "#",
		TripSeparator:   " -> ",
		DetailSeparator: ";",
	}
}

// Line is a raw entry line split into its body and optional fixed start
type Line struct {
	Raw  string
	Body string
	// At is the explicit start time, nil when the line has none
	At *time.Time
}

// Fixed reports whether the line carries an explicit start time
func (l Line) Fixed() bool {
	return l.At != nil
}

// IsComment reports whether raw is a comment line
func (s Syntax) IsComment(raw string) bool {
	return s.CommentMarker != "" && strings.HasPrefix(strings.TrimSpace(raw), s.CommentMarker)
}

// IsTrip reports whether body contains the trip separator
func (s Syntax) IsTrip(body string) bool {
	return strings.Contains(body, s.TripSeparator)
}

// SplitTrip returns the two trimmed locations of a trip body.
// ok is false unless body holds exactly two non-empty locations.
func (s Syntax) SplitTrip(body string) (from, to string, ok bool) {
	parts := strings.Split(body, s.TripSeparator)
	if len(parts) != 2 {
		return "", "", false
	}
	from = strings.TrimSpace(parts[0])
	to = strings.TrimSpace(parts[1])
	if from == "" || to == "" {
		return "", "", false
	}
	return from, to, true
}

// JoinTrip builds a trip body from two locations
func (s Syntax) JoinTrip(from, to string) string {
	return from + s.TripSeparator + to
}

// Parse splits raw into body and optional start time. The start time is
// composed onto the date of reference, so "17:02" on a line following an
// entry that starts on May 23rd means 17:02 on May 23rd.
func (s Syntax) Parse(raw string, reference time.Time) (Line, error) {
	line := Line{Raw: raw}

	body, detail, found := strings.Cut(raw, s.DetailSeparator)
	line.Body = strings.TrimSpace(body)
	if !found || strings.TrimSpace(detail) == "" {
		return line, nil
	}

	at, err := timeutil.ParseClock(detail, reference)
	if err != nil {
		return Line{}, fmt.Errorf("%w in %q: %v", ErrInvalidClock, raw, err)
	}
	line.At = &at
	return line, nil
}
