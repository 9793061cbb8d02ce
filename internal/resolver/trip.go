package resolver

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/JustNello/punctual/internal/entry"
	"github.com/JustNello/punctual/internal/geo"
)

// Trip resolves "<A> -> <B>" lines with a geocoder and a directions router.
// The entry is renamed after the places returned by the geocoder.
type Trip struct {
	geocoder geo.Geocoder
	router   geo.Router
	profile  geo.Profile
	syntax   entry.Syntax
}

// NewTrip creates a Trip resolver
func NewTrip(geocoder geo.Geocoder, router geo.Router, profile geo.Profile, syntax entry.Syntax) *Trip {
	return &Trip{
		geocoder: geocoder,
		router:   router,
		profile:  profile,
		syntax:   syntax,
	}
}

// Name returns the resolver name
func (t *Trip) Name() string { return SourceTrip }

// CanResolve reports whether the line body is a two-location trip
func (t *Trip) CanResolve(line entry.Line) bool {
	_, _, ok := t.syntax.SplitTrip(line.Body)
	return ok
}

// Resolve geocodes both ends of the trip concurrently, then asks the router
// for the travel time between them
func (t *Trip) Resolve(ctx context.Context, line entry.Line) (Resolution, error) {
	from, to, ok := t.syntax.SplitTrip(line.Body)
	if !ok {
		return Resolution{}, fmt.Errorf("not a trip: %q", line.Body)
	}

	var origin, destination geo.Place
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		origin, err = t.geocoder.Geocode(gctx, from)
		return err
	})
	g.Go(func() error {
		var err error
		destination, err = t.geocoder.Geocode(gctx, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return Resolution{}, fmt.Errorf("failed to geocode trip: %w", err)
	}

	elapsed, err := t.router.Directions(ctx, []geo.Coordinate{origin.Center, destination.Center}, t.profile)
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to get directions: %w", err)
	}

	return Resolution{
		Name:     t.syntax.JoinTrip(origin.Name, destination.Name),
		Duration: elapsed,
		At:       line.At,
		Source:   SourceTrip,
	}, nil
}
