package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"googlemaps.github.io/maps"

	"github.com/remontasupport/remontamarketplace-sub005/internal/constants"
	"github.com/remontasupport/remontamarketplace-sub005/internal/utils"
)

// Coordinates is a resolved geographic point.
type Coordinates struct {
	Latitude         float64
	Longitude        float64
	FormattedAddress string
}

// GeocodingProvider resolves a free-text address to coordinates. A
// (nil, nil) return means the provider found no match; a non-nil error
// means the call itself failed. Both are treated as "no coordinates" by
// the service.
type GeocodingProvider interface {
	Geocode(ctx context.Context, address string) (*Coordinates, error)
}

/*──────────────── Google Maps provider ────────────────*/

type googleGeocodingProvider struct {
	client *maps.Client
}

func NewGoogleGeocodingProvider(apiKey string) (GeocodingProvider, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &googleGeocodingProvider{client: client}, nil
}

func (p *googleGeocodingProvider) Geocode(ctx context.Context, address string) (*Coordinates, error) {
	results, err := p.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	loc := results[0].Geometry.Location
	return &Coordinates{
		Latitude:         loc.Lat,
		Longitude:        loc.Lng,
		FormattedAddress: results[0].FormattedAddress,
	}, nil
}

/*──────────────────── cache ────────────────────*/

type geocodeCacheEntry struct {
	coords   Coordinates
	cachedAt time.Time
}

/*
GeocodeCache memoizes provider lookups. Process-local, mutex-guarded,
injected into the service rather than living in a package-level variable
so multiple service instances stay independently correct.

Eviction removes the oldest-INSERTED entry once capacity is exceeded, not
the least-recently-used one. Refreshing an existing key keeps its original
slot in the eviction order. Known simplification; at 1000 entries of a few
dozen bytes it is not worth an LRU list.
*/
type GeocodeCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	entries  map[string]geocodeCacheEntry
	order    []string
	now      func() time.Time
}

func NewGeocodeCache(ttl time.Duration, capacity int) *GeocodeCache {
	return &GeocodeCache{
		ttl:      ttl,
		capacity: capacity,
		entries:  make(map[string]geocodeCacheEntry),
		now:      time.Now,
	}
}

func (c *GeocodeCache) Get(key string) (*Coordinates, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.cachedAt) > c.ttl {
		// Stale entries self-heal: the next Put overwrites in place.
		return nil, false
	}
	coords := e.coords
	return &coords, true
}

func (c *GeocodeCache) Put(key string, coords Coordinates) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		if len(c.order) >= c.capacity {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = geocodeCacheEntry{coords: coords, cachedAt: c.now()}
}

func (c *GeocodeCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

/*──────────────────── service ────────────────────*/

// GeocodingService fronts the provider with the cache. A nil provider
// (no API key configured) simply resolves nothing, which downgrades every
// search to standard mode.
type GeocodingService struct {
	provider GeocodingProvider
	cache    *GeocodeCache
}

func NewGeocodingService(provider GeocodingProvider, cache *GeocodeCache) *GeocodingService {
	return &GeocodingService{provider: provider, cache: cache}
}

/*
Resolve returns coordinates for a free-text address, or (nil, false) when
they cannot be determined. It NEVER returns an error: a provider outage or
an unknown address must degrade the search, not fail it.

Concurrent misses for the same address may each call the provider; the
duplicate spend is accepted rather than serializing lookups.
*/
func (s *GeocodingService) Resolve(ctx context.Context, address string) (*Coordinates, bool) {
	key := NormalizeAddressKey(address)
	if key == "" {
		return nil, false
	}

	if coords, ok := s.cache.Get(key); ok {
		return coords, true
	}

	if s.provider == nil {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, constants.GeocodeRequestTimeout)
	defer cancel()

	coords, err := s.provider.Geocode(ctx, address)
	if err != nil {
		utils.Logger.WithError(err).WithField("address", address).
			Warn("Geocoding provider call failed; continuing without coordinates")
		return nil, false
	}
	if coords == nil {
		utils.Logger.WithField("address", address).
			Debug("Geocoding provider returned no match")
		return nil, false
	}

	s.cache.Put(key, *coords)
	return coords, true
}

// NormalizeAddressKey is the cache key: lowercased, trimmed address.
func NormalizeAddressKey(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
