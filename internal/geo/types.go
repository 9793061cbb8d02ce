// Package geo talks to the Mapbox geocoding and directions APIs to turn a
// trip between two places into a travel time.
package geo

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Coordinate is a longitude/latitude pair, in that order as Mapbox expects
type Coordinate struct {
	Lon float64
	Lat float64
}

// String formats the coordinate as "lon,lat"
func (c Coordinate) String() string {
	return fmt.Sprintf("%g,%g", c.Lon, c.Lat)
}

// Place is the best geocoding match for a free-text location
type Place struct {
	// Name is the full canonical address returned by the geocoder
	Name   string
	Center Coordinate
}

// Profile selects how the trip is travelled
type Profile string

const (
	ProfileTraffic Profile = "driving-traffic"
	ProfileDriving Profile = "driving"
	ProfileWalking Profile = "walking"
	ProfileCycling Profile = "cycling"
)

// Profiles lists every supported routing profile
var Profiles = []Profile{ProfileTraffic, ProfileDriving, ProfileWalking, ProfileCycling}

// ParseProfile validates a routing profile name (case-insensitive)
func ParseProfile(name string) (Profile, error) {
	normalized := Profile(strings.ToLower(strings.TrimSpace(name)))
	for _, p := range Profiles {
		if p == normalized {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown routing profile '%s' (valid: driving-traffic, driving, walking, cycling)", name)
}

// Geocoder resolves free text into a Place
type Geocoder interface {
	Geocode(ctx context.Context, location string) (Place, error)
}

// Router estimates the travel time along a sequence of coordinates
type Router interface {
	Directions(ctx context.Context, locations []Coordinate, profile Profile) (time.Duration, error)
}
