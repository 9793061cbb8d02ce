// Package schedule places resolved activities on a timeline, keeping them
// sorted by start time and tracking spare time and overlaps between them.
package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Common errors for schedule operations
var (
	ErrEmptySchedule   = errors.New("empty schedule")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Schedule is an ordered sequence of entries, sorted ascending by start time
type Schedule struct {
	entries []Entry
	now     func() time.Time
}

// New creates an empty schedule anchored on the wall clock
func New() *Schedule {
	return NewWithClock(time.Now)
}

// NewWithClock creates an empty schedule whose first unfixed entry starts at now()
func NewWithClock(now func() time.Time) *Schedule {
	return &Schedule{now: now}
}

// Len returns the number of entries
func (s *Schedule) Len() int {
	return len(s.entries)
}

// Empty reports whether the schedule has no entries
func (s *Schedule) Empty() bool {
	return len(s.entries) == 0
}

// Entries returns a copy of the entries in start time order
func (s *Schedule) Entries() []Entry {
	result := make([]Entry, len(s.entries))
	copy(result, s.entries)
	return result
}

// First returns the earliest entry
func (s *Schedule) First() (Entry, error) {
	if s.Empty() {
		return Entry{}, ErrEmptySchedule
	}
	return s.entries[0], nil
}

// Last returns the latest entry
func (s *Schedule) Last() (Entry, error) {
	if s.Empty() {
		return Entry{}, ErrEmptySchedule
	}
	return s.entries[len(s.entries)-1], nil
}

// Start returns the start time of the first entry
func (s *Schedule) Start() (time.Time, error) {
	first, err := s.First()
	if err != nil {
		return time.Time{}, err
	}
	return first.start, nil
}

// End returns the end time of the last entry
func (s *Schedule) End() (time.Time, error) {
	last, err := s.Last()
	if err != nil {
		return time.Time{}, err
	}
	return last.end, nil
}

// Busy returns the sum of all entry durations
func (s *Schedule) Busy() time.Duration {
	var total time.Duration
	for _, e := range s.entries {
		total += e.duration
	}
	return total
}

// Spare returns the sum of all positive gaps between entries
func (s *Schedule) Spare() time.Duration {
	var total time.Duration
	for _, e := range s.entries {
		if e.extra > 0 {
			total += e.extra
		}
	}
	return total
}

// Total returns the time required by the schedule: durations plus spare time
func (s *Schedule) Total() time.Duration {
	return s.Busy() + s.Spare()
}

// Append places a new entry after the current last one. The entry starts at
// at when given, otherwise where the last entry ends (or now() when the
// schedule is empty).
func (s *Schedule) Append(name string, duration time.Duration, at *time.Time, opts ...Option) Entry {
	var previous *Entry
	if !s.Empty() {
		last := s.entries[len(s.entries)-1]
		previous = &last
	}

	e := s.place(previous, name, duration, at, opts...)
	s.entries = append(s.entries, e)
	s.sort()
	return e
}

// Insert places a new entry measured against the entry at index-1 (or as
// the first entry when index is 0), then reflows every entry originally at
// or after index: each is re-appended in order, starting where its new
// predecessor ends unless it is fixed, in which case its start is kept.
func (s *Schedule) Insert(index int, name string, duration time.Duration, at *time.Time, opts ...Option) (Entry, error) {
	if index < 0 || index > len(s.entries) {
		return Entry{}, fmt.Errorf("%w: %d (valid range 0-%d)", ErrIndexOutOfRange, index, len(s.entries))
	}

	var previous *Entry
	if index > 0 {
		p := s.entries[index-1]
		previous = &p
	}

	e := s.place(previous, name, duration, at, opts...)

	suffix := make([]Entry, len(s.entries)-index)
	copy(suffix, s.entries[index:])
	s.entries = append(s.entries[:index], e)

	for _, old := range suffix {
		s.reflow(old)
	}
	s.sort()
	return e, nil
}

func (s *Schedule) reflow(old Entry) {
	var at *time.Time
	if old.fixed {
		start := old.start
		at = &start
	}

	var opts []Option
	if old.unresolved {
		opts = append(opts, MarkUnresolved())
	}
	s.Append(old.name, old.duration, at, opts...)
}

func (s *Schedule) place(previous *Entry, name string, duration time.Duration, at *time.Time, opts ...Option) Entry {
	var start time.Time
	switch {
	case at != nil:
		start = *at
	case previous != nil:
		start = previous.end
	default:
		start = s.now()
	}

	e := Entry{
		name:     capitalize(name),
		start:    start,
		end:      start.Add(duration),
		duration: duration,
		fixed:    at != nil,
	}
	if previous != nil {
		e.extra = Gap(previous.end, start)
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func (s *Schedule) sort() {
	sort.SliceStable(s.entries, func(i, j int) bool {
		return s.entries[i].start.Before(s.entries[j].start)
	})
}
