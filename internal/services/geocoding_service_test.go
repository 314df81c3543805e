package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remontasupport/remontamarketplace-sub005/internal/constants"
)

type fakeProvider struct {
	calls  int
	coords *Coordinates
	err    error
}

func (f *fakeProvider) Geocode(ctx context.Context, address string) (*Coordinates, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.coords, nil
}

func sydney() *Coordinates {
	return &Coordinates{Latitude: -33.8688, Longitude: 151.2093, FormattedAddress: "Sydney NSW, Australia"}
}

func TestResolve_CachesWithinTTL(t *testing.T) {
	provider := &fakeProvider{coords: sydney()}
	cache := NewGeocodeCache(constants.GeocodeCacheTTL, constants.GeocodeCacheCapacity)
	svc := NewGeocodingService(provider, cache)

	first, ok := svc.Resolve(context.Background(), "Sydney NSW")
	require.True(t, ok)

	// Same address modulo case and whitespace: served from cache.
	second, ok := svc.Resolve(context.Background(), "  sydney nsw ")
	require.True(t, ok)

	assert.Equal(t, 1, provider.calls, "provider must be called at most once within the TTL")
	assert.Equal(t, first, second)
}

func TestResolve_TTLExpiryRefetches(t *testing.T) {
	provider := &fakeProvider{coords: sydney()}
	cache := NewGeocodeCache(constants.GeocodeCacheTTL, 10)

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	svc := NewGeocodingService(provider, cache)

	_, ok := svc.Resolve(context.Background(), "Sydney NSW")
	require.True(t, ok)

	now = now.Add(constants.GeocodeCacheTTL + time.Hour)

	_, ok = svc.Resolve(context.Background(), "Sydney NSW")
	require.True(t, ok)
	assert.Equal(t, 2, provider.calls, "stale entry must trigger a fresh provider call")
}

func TestGeocodeCache_EvictsOldestInserted(t *testing.T) {
	cache := NewGeocodeCache(time.Hour, 2)

	cache.Put("a", Coordinates{Latitude: 1})
	cache.Put("b", Coordinates{Latitude: 2})

	// Refreshing "a" keeps its original slot in the eviction order:
	// insertion order, not recency, decides who goes.
	cache.Put("a", Coordinates{Latitude: 10})

	cache.Put("c", Coordinates{Latitude: 3})

	_, okA := cache.Get("a")
	_, okB := cache.Get("b")
	_, okC := cache.Get("c")
	assert.False(t, okA, "oldest-inserted entry should be evicted")
	assert.True(t, okB)
	assert.True(t, okC)
	assert.Equal(t, 2, cache.Len())
}

func TestResolve_ProviderErrorDegrades(t *testing.T) {
	provider := &fakeProvider{err: errors.New("upstream 500")}
	svc := NewGeocodingService(provider, NewGeocodeCache(time.Hour, 10))

	coords, ok := svc.Resolve(context.Background(), "Sydney NSW")
	assert.False(t, ok)
	assert.Nil(t, coords)
	assert.Equal(t, 0, svc.cache.Len(), "failures must not be cached")
}

func TestResolve_NoMatchDegrades(t *testing.T) {
	provider := &fakeProvider{coords: nil}
	svc := NewGeocodingService(provider, NewGeocodeCache(time.Hour, 10))

	coords, ok := svc.Resolve(context.Background(), "asdfghjkl")
	assert.False(t, ok)
	assert.Nil(t, coords)
}

func TestResolve_NilProviderAndBlankAddress(t *testing.T) {
	svc := NewGeocodingService(nil, NewGeocodeCache(time.Hour, 10))

	_, ok := svc.Resolve(context.Background(), "Sydney NSW")
	assert.False(t, ok)

	_, ok = svc.Resolve(context.Background(), "   ")
	assert.False(t, ok)
}
