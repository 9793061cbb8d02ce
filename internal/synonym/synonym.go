// Package synonym maps activity names and trips to well known durations.
package synonym

import (
	"sort"
	"strings"

	"github.com/JustNello/punctual/internal/entry"
)

// tripKeySeparator joins the two sorted locations of a trip key
const tripKeySeparator = " - "

// Pair is a single synonym definition as supplied by the user
type Pair struct {
	Name    string
	Minutes int
}

// Table maps canonical keys to durations in minutes
type Table struct {
	syntax  entry.Syntax
	entries map[string]int
}

// NewTable creates a table and adds pairs in order; later duplicates
// overwrite earlier ones sharing the same canonical key.
func NewTable(syntax entry.Syntax, pairs ...Pair) *Table {
	t := &Table{
		syntax:  syntax,
		entries: make(map[string]int, len(pairs)),
	}
	for _, p := range pairs {
		t.Add(p.Name, p.Minutes)
	}
	return t
}

// Key returns the canonical key of name: trips use TripKey, anything else is lower-cased
func (t *Table) Key(name string) string {
	if from, to, ok := t.syntax.SplitTrip(name); ok {
		return TripKey(from, to)
	}
	return strings.ToLower(strings.TrimSpace(name))
}

// TripKey returns the canonical key of a trip, so that
// TripKey(a, b) == TripKey(b, a)
func TripKey(from, to string) string {
	locations := []string{
		strings.ToLower(strings.TrimSpace(from)),
		strings.ToLower(strings.TrimSpace(to)),
	}
	sort.Strings(locations)
	return locations[0] + tripKeySeparator + locations[1]
}

// Add sets the duration for name
func (t *Table) Add(name string, minutes int) {
	t.entries[t.Key(name)] = minutes
}

// Lookup returns the duration for name and whether it was found
func (t *Table) Lookup(name string) (minutes int, found bool) {
	minutes, found = t.entries[t.Key(name)]
	return minutes, found
}

// Len returns the number of distinct keys
func (t *Table) Len() int {
	return len(t.entries)
}
