package schedule

import (
	"errors"
	"testing"
	"time"
)

var anchor = time.Date(2024, 5, 23, 13, 29, 0, 0, time.UTC)

func clock(hour, minute int) time.Time {
	return time.Date(2024, 5, 23, hour, minute, 0, 0, time.UTC)
}

func at(hour, minute int) *time.Time {
	t := clock(hour, minute)
	return &t
}

func fixedClock() func() time.Time {
	return func() time.Time { return anchor }
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}

// scenario builds shower (20+2), "30m; 14:00" (30+2) and snack (10+2) from 13:29
func scenario() *Schedule {
	s := NewWithClock(fixedClock())
	s.Append("shower", minutes(22), nil)
	s.Append("30m", minutes(32), at(14, 0))
	s.Append("snack", minutes(12), nil)
	return s
}

type expectation struct {
	name  string
	start time.Time
	end   time.Time
	extra time.Duration
	fixed bool
}

func assertEntries(t *testing.T, s *Schedule, expected []expectation) {
	t.Helper()
	entries := s.Entries()
	if len(entries) != len(expected) {
		t.Fatalf("schedule has %d entries, expected %d", len(entries), len(expected))
	}
	for i, want := range expected {
		got := entries[i]
		if got.Name() != want.name {
			t.Errorf("entry %d name = %q, expected %q", i, got.Name(), want.name)
		}
		if !got.Start().Equal(want.start) {
			t.Errorf("entry %d (%s) start = %s, expected %s", i, want.name, got.Start().Format("15:04"), want.start.Format("15:04"))
		}
		if !got.End().Equal(want.end) {
			t.Errorf("entry %d (%s) end = %s, expected %s", i, want.name, got.End().Format("15:04"), want.end.Format("15:04"))
		}
		if got.Extra() != want.extra {
			t.Errorf("entry %d (%s) extra = %v, expected %v", i, want.name, got.Extra(), want.extra)
		}
		if got.Fixed() != want.fixed {
			t.Errorf("entry %d (%s) fixed = %v, expected %v", i, want.name, got.Fixed(), want.fixed)
		}
	}
}

func assertInvariants(t *testing.T, s *Schedule) {
	t.Helper()
	entries := s.Entries()
	for i, e := range entries {
		if e.End().Sub(e.Start()) != e.Duration() {
			t.Errorf("entry %d (%s): end - start = %v, duration = %v", i, e.Name(), e.End().Sub(e.Start()), e.Duration())
		}
		if i > 0 && entries[i-1].Start().After(e.Start()) {
			t.Errorf("entries %d and %d are not sorted by start time", i-1, i)
		}
	}
}

func TestSchedule_Scenario(t *testing.T) {
	s := scenario()

	assertEntries(t, s, []expectation{
		{"Shower", clock(13, 29), clock(13, 51), 0, false},
		{"30m", clock(14, 0), clock(14, 32), minutes(9), true},
		{"Snack", clock(14, 32), clock(14, 44), 0, false},
	})
	assertInvariants(t, s)

	if s.Total() != minutes(22+32+12+9) {
		t.Errorf("Total() = %v, expected %v", s.Total(), minutes(75))
	}
	if s.Busy() != minutes(66) {
		t.Errorf("Busy() = %v, expected %v", s.Busy(), minutes(66))
	}
	if s.Spare() != minutes(9) {
		t.Errorf("Spare() = %v, expected %v", s.Spare(), minutes(9))
	}
}

func TestSchedule_FirstFixedEntryAnchors(t *testing.T) {
	s := NewWithClock(fixedClock())
	s.Append("Shower", minutes(22), at(17, 2))
	s.Append("Getting ready to go out", minutes(17), nil)

	assertEntries(t, s, []expectation{
		{"Shower", clock(17, 2), clock(17, 24), 0, true},
		{"Getting ready to go out", clock(17, 24), clock(17, 41), 0, false},
	})

	start, _ := s.Start()
	if !start.Equal(clock(17, 2)) {
		t.Errorf("Start() = %v, expected 17:02", start)
	}
}

func TestSchedule_ExtraSignLaw(t *testing.T) {
	tests := []struct {
		name     string
		start    *time.Time
		expected time.Duration
	}{
		{"overlap", at(13, 40), -minutes(11)},
		{"spare", at(14, 10), minutes(19)},
		{"back to back", at(13, 51), 0},
		{"follows previous", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewWithClock(fixedClock())
			s.Append("shower", minutes(22), nil)
			e := s.Append("next", minutes(5), tt.start)
			if e.Extra() != tt.expected {
				t.Errorf("Extra() = %v, expected %v", e.Extra(), tt.expected)
			}
		})
	}
}

func TestGap(t *testing.T) {
	if got := Gap(clock(14, 0), clock(13, 55)); got != -minutes(5) {
		t.Errorf("Gap(overlap) = %v", got)
	}
	if got := Gap(clock(14, 0), clock(14, 7)); got != minutes(7) {
		t.Errorf("Gap(spare) = %v", got)
	}
	if got := Gap(clock(14, 0), clock(14, 0)); got != 0 {
		t.Errorf("Gap(equal) = %v", got)
	}
}

func TestSchedule_AppendEarlierFixedSorts(t *testing.T) {
	s := NewWithClock(fixedClock())
	s.Append("lunch", minutes(30), at(12, 0))
	s.Append("breakfast", minutes(15), at(8, 0))
	s.Append("coffee", minutes(5), nil)

	assertEntries(t, s, []expectation{
		{"Breakfast", clock(8, 0), clock(8, 15), -minutes(270), true},
		{"Lunch", clock(12, 0), clock(12, 30), 0, true},
		{"Coffee", clock(12, 30), clock(12, 35), 0, false},
	})
	assertInvariants(t, s)
}

func TestSchedule_StableOrderForEqualStarts(t *testing.T) {
	s := NewWithClock(fixedClock())
	s.Append("first", minutes(10), at(9, 0))
	s.Append("second", minutes(10), at(9, 0))
	s.Append("third", minutes(10), at(9, 0))

	entries := s.Entries()
	for i, name := range []string{"First", "Second", "Third"} {
		if entries[i].Name() != name {
			t.Errorf("entry %d = %q, expected %q", i, entries[i].Name(), name)
		}
	}
}

func TestSchedule_InsertReflows(t *testing.T) {
	s := scenario()

	e, err := s.Insert(1, "breakfast", minutes(12), nil)
	if err != nil {
		t.Fatalf("Insert() returned unexpected error: %v", err)
	}
	if !e.Start().Equal(clock(13, 51)) || !e.End().Equal(clock(14, 3)) {
		t.Errorf("inserted entry = %s-%s, expected 13:51-14:03", e.Start().Format("15:04"), e.End().Format("15:04"))
	}

	assertEntries(t, s, []expectation{
		{"Shower", clock(13, 29), clock(13, 51), 0, false},
		{"Breakfast", clock(13, 51), clock(14, 3), 0, false},
		{"30m", clock(14, 0), clock(14, 32), -minutes(3), true},
		{"Snack", clock(14, 32), clock(14, 44), 0, false},
	})
	assertInvariants(t, s)
}

func TestSchedule_InsertShiftsUnfixedSuffix(t *testing.T) {
	s := NewWithClock(fixedClock())
	s.Append("shower", minutes(22), nil)
	s.Append("eating", minutes(12), nil)
	s.Append("walk", minutes(30), nil)

	if _, err := s.Insert(1, "breakfast", minutes(12), nil); err != nil {
		t.Fatalf("Insert() returned unexpected error: %v", err)
	}

	assertEntries(t, s, []expectation{
		{"Shower", clock(13, 29), clock(13, 51), 0, false},
		{"Breakfast", clock(13, 51), clock(14, 3), 0, false},
		{"Eating", clock(14, 3), clock(14, 15), 0, false},
		{"Walk", clock(14, 15), clock(14, 45), 0, false},
	})
}

func TestSchedule_InsertPreservesFixedStarts(t *testing.T) {
	s := NewWithClock(fixedClock())
	s.Append("shower", minutes(22), nil)
	s.Append("meeting", minutes(60), at(15, 0))
	s.Append("call", minutes(15), at(16, 30))
	s.Append("dinner", minutes(40), nil)

	before := map[string]time.Time{}
	for _, e := range s.Entries() {
		if e.Fixed() {
			before[e.Name()] = e.Start()
		}
	}

	if _, err := s.Insert(1, "long nap", minutes(120), nil); err != nil {
		t.Fatalf("Insert() returned unexpected error: %v", err)
	}

	for _, e := range s.Entries() {
		if want, ok := before[e.Name()]; ok && !e.Start().Equal(want) {
			t.Errorf("fixed entry %s moved from %v to %v", e.Name(), want, e.Start())
		}
	}

	assertEntries(t, s, []expectation{
		{"Shower", clock(13, 29), clock(13, 51), 0, false},
		{"Long nap", clock(13, 51), clock(15, 51), 0, false},
		{"Meeting", clock(15, 0), clock(16, 0), -minutes(51), true},
		{"Call", clock(16, 30), clock(16, 45), minutes(30), true},
		{"Dinner", clock(16, 45), clock(17, 25), 0, false},
	})
	assertInvariants(t, s)
}

func TestSchedule_InsertFirstAndLast(t *testing.T) {
	s := NewWithClock(fixedClock())
	s.Append("shower", minutes(22), at(14, 0))

	if _, err := s.Insert(0, "wake up", minutes(10), at(13, 0)); err != nil {
		t.Fatalf("Insert(0) returned unexpected error: %v", err)
	}
	if _, err := s.Insert(s.Len(), "leave", minutes(5), nil); err != nil {
		t.Fatalf("Insert(len) returned unexpected error: %v", err)
	}

	assertEntries(t, s, []expectation{
		{"Wake up", clock(13, 0), clock(13, 10), 0, true},
		{"Shower", clock(14, 0), clock(14, 22), minutes(50), true},
		{"Leave", clock(14, 22), clock(14, 27), 0, false},
	})
}

func TestSchedule_InsertOutOfRange(t *testing.T) {
	s := scenario()
	for _, index := range []int{-1, 4} {
		if _, err := s.Insert(index, "x", minutes(1), nil); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Insert(%d) error = %v, expected ErrIndexOutOfRange", index, err)
		}
	}
	if s.Len() != 3 {
		t.Errorf("failed inserts changed the schedule: %d entries", s.Len())
	}
}

func TestSchedule_InsertKeepsUnresolved(t *testing.T) {
	s := NewWithClock(fixedClock())
	s.Append("mystery", minutes(2), nil, MarkUnresolved())
	if _, err := s.Insert(0, "shower", minutes(22), nil); err != nil {
		t.Fatalf("Insert() returned unexpected error: %v", err)
	}

	last, _ := s.Last()
	if last.Name() != "Mystery" || !last.Unresolved() {
		t.Errorf("reflowed entry lost its unresolved flag: %+v", last)
	}
}

func TestSchedule_Empty(t *testing.T) {
	s := New()
	if !s.Empty() || s.Len() != 0 {
		t.Fatal("new schedule should be empty")
	}

	if _, err := s.First(); !errors.Is(err, ErrEmptySchedule) {
		t.Errorf("First() error = %v", err)
	}
	if _, err := s.Last(); !errors.Is(err, ErrEmptySchedule) {
		t.Errorf("Last() error = %v", err)
	}
	if _, err := s.Start(); !errors.Is(err, ErrEmptySchedule) {
		t.Errorf("Start() error = %v", err)
	}
	if _, err := s.End(); !errors.Is(err, ErrEmptySchedule) {
		t.Errorf("End() error = %v", err)
	}
	if _, err := s.Report(); !errors.Is(err, ErrEmptySchedule) {
		t.Errorf("Report() error = %v", err)
	}

	s.Append("shower", minutes(22), nil)
	if s.Empty() {
		t.Error("schedule should not be empty after append")
	}
}

func TestSchedule_EntriesIsACopy(t *testing.T) {
	s := scenario()
	entries := s.Entries()
	entries[0] = Entry{}

	first, _ := s.First()
	if first.Name() != "Shower" {
		t.Errorf("modifying Entries() result changed the schedule")
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"shower", "Shower"},
		{"Home -> Rome", "Home -> Rome"},
		{"plaza -> Movie Theater", "Plaza -> Movie Theater"},
		{"1h33m", "1h33m"},
		{"éclair", "Éclair"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := capitalize(tt.input); got != tt.expected {
			t.Errorf("capitalize(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}
