package geo

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// CachedGeocoder memoizes successful lookups of a Geocoder for the lifetime
// of the process. Keys are the lower-cased, trimmed location text; concurrent
// lookups of the same key share one request. Failures are not cached.
type CachedGeocoder struct {
	next   Geocoder
	mu     sync.RWMutex
	places map[string]Place
	group  singleflight.Group
}

// NewCachedGeocoder wraps next with a cache
func NewCachedGeocoder(next Geocoder) *CachedGeocoder {
	return &CachedGeocoder{
		next:   next,
		places: make(map[string]Place),
	}
}

// Geocode returns the cached place for location or asks the wrapped geocoder
func (c *CachedGeocoder) Geocode(ctx context.Context, location string) (Place, error) {
	key := cacheKey(location)

	c.mu.RLock()
	place, ok := c.places[key]
	c.mu.RUnlock()
	if ok {
		return place, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		place, err := c.next.Geocode(ctx, location)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.places[key] = place
		c.mu.Unlock()
		return place, nil
	})
	if err != nil {
		return Place{}, err
	}
	return v.(Place), nil
}

// Len returns the number of cached places
func (c *CachedGeocoder) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.places)
}

func cacheKey(location string) string {
	return strings.ToLower(strings.TrimSpace(location))
}
