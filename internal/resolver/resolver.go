// Package resolver turns raw entry lines into a name, a duration and an
// optional fixed start time. Resolvers are tried in an explicit priority
// order by a Chain.
package resolver

import (
	"context"
	"time"

	"github.com/JustNello/punctual/internal/entry"
)

// Resolver source names, also used as priority names in the config file
const (
	SourceStandard = "standard"
	SourceTrip     = "trip"
	SourceEstimate = "ai"
)

// Sources lists every known resolver name
var Sources = []string{SourceTrip, SourceStandard, SourceEstimate}

// Resolution is the outcome of resolving a single line
type Resolution struct {
	Name     string
	Duration time.Duration
	// At is the fixed start time, nil when the line has none
	At *time.Time
	// Unresolved is set when no duration could be found for the line
	Unresolved bool
	// Source is the name of the resolver that produced the resolution
	Source string
}

// Resolver resolves entry lines it declares itself able to handle
type Resolver interface {
	Name() string
	CanResolve(line entry.Line) bool
	Resolve(ctx context.Context, line entry.Line) (Resolution, error)
}

// minutes converts n to a duration, clamped to the whole minutes a time.Duration can hold.
func minutes(n int) time.Duration {
	if int64(n) > entry.MaxLiteralMinutes {
		return maxDuration
	}
	return time.Duration(n) * time.Minute
}
