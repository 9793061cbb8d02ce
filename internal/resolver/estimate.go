package resolver

import (
	"context"
	"strings"

	"github.com/JustNello/punctual/internal/entry"
)

// Estimator returns an estimated number of minutes for an activity
type Estimator interface {
	Estimate(ctx context.Context, activity string) (int, error)
}

// Estimate resolves any non-trip activity by asking an Estimator
type Estimate struct {
	estimator Estimator
	syntax    entry.Syntax
}

// NewEstimate creates an Estimate resolver
func NewEstimate(estimator Estimator, syntax entry.Syntax) *Estimate {
	return &Estimate{estimator: estimator, syntax: syntax}
}

// Name returns the resolver name
func (e *Estimate) Name() string { return SourceEstimate }

// CanResolve reports whether the line names an activity rather than a trip
func (e *Estimate) CanResolve(line entry.Line) bool {
	return strings.TrimSpace(line.Body) != "" && !e.syntax.IsTrip(line.Body)
}

// Resolve asks the estimator for the activity duration
func (e *Estimate) Resolve(ctx context.Context, line entry.Line) (Resolution, error) {
	n, err := e.estimator.Estimate(ctx, line.Body)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{
		Name:     line.Body,
		Duration: minutes(n),
		At:       line.At,
		Source:   SourceEstimate,
	}, nil
}
