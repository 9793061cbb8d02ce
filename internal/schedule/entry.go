package schedule

import (
	"time"
	"unicode"
	"unicode/utf8"
)

// Entry is one placed activity. Entries are created by a Schedule and never
// change afterwards; reflow replaces them with new values.
type Entry struct {
	name       string
	start      time.Time
	end        time.Time
	duration   time.Duration
	extra      time.Duration
	fixed      bool
	unresolved bool
}

// Name returns the display name, first letter capitalized
func (e Entry) Name() string { return e.name }

// Start returns the start time
func (e Entry) Start() time.Time { return e.start }

// End returns the end time, always Start() + Duration()
func (e Entry) End() time.Time { return e.end }

// Duration returns the allotted time, contingency included
func (e Entry) Duration() time.Duration { return e.duration }

// Extra returns the gap to the previous entry measured when the entry was
// placed: positive for spare time, negative for an overlap, zero otherwise.
func (e Entry) Extra() time.Duration { return e.extra }

// Fixed reports whether the start time was given explicitly
func (e Entry) Fixed() bool { return e.fixed }

// Unresolved reports whether no duration could be found for the entry
func (e Entry) Unresolved() bool { return e.unresolved }

// Minutes returns the duration in minutes
func (e Entry) Minutes() float64 { return e.duration.Minutes() }

// Option adjusts an entry while it is being placed
type Option func(*Entry)

// MarkUnresolved flags the entry as having no known duration
func MarkUnresolved() Option {
	return func(e *Entry) {
		e.unresolved = true
	}
}

// Gap returns the signed delta between the end of a previous entry and the
// start of the next one: negative when they overlap, positive for spare time.
func Gap(previousEnd, nextStart time.Time) time.Duration {
	return nextStart.Sub(previousEnd)
}

func capitalize(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}
