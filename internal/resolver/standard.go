package resolver

import (
	"context"

	"github.com/JustNello/punctual/internal/entry"
	"github.com/JustNello/punctual/internal/synonym"
)

// Standard resolves literal durations ("1h30m") and synonyms, in that order.
// It can resolve any line and never fails; a miss is reported as Unresolved.
type Standard struct {
	synonyms *synonym.Table
}

// NewStandard creates a Standard resolver backed by synonyms
func NewStandard(synonyms *synonym.Table) *Standard {
	return &Standard{synonyms: synonyms}
}

// Name returns the resolver name
func (s *Standard) Name() string { return SourceStandard }

// CanResolve always returns true
func (s *Standard) CanResolve(entry.Line) bool { return true }

// Resolve returns the literal or synonym duration of the line body
func (s *Standard) Resolve(_ context.Context, line entry.Line) (Resolution, error) {
	res := Resolution{
		Name:   line.Body,
		At:     line.At,
		Source: SourceStandard,
	}

	if n, ok := entry.ParseLiteralDuration(line.Body); ok {
		res.Duration = minutes(n)
		return res, nil
	}

	if s.synonyms != nil {
		if n, found := s.synonyms.Lookup(line.Body); found {
			res.Duration = minutes(n)
			return res, nil
		}
	}

	res.Unresolved = true
	return res, nil
}
