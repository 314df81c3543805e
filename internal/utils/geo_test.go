package utils

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceKm_KnownPairs(t *testing.T) {
	// Sydney CBD -> Parramatta, roughly 20 km.
	d := DistanceKm(-33.8688, 151.2093, -33.8151, 151.0011)
	assert.InDelta(t, 20.0, d, 2.0)

	// Same point is zero.
	assert.InDelta(t, 0.0, DistanceKm(-33.8688, 151.2093, -33.8688, 151.2093), 0.001)
}

func TestBoxAroundPoint_ContainsCircle(t *testing.T) {
	// Every point within radius must fall inside the box (no false negatives).
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		lat := rng.Float64()*140 - 70 // avoid the poles
		lng := rng.Float64()*360 - 180
		radius := rng.Float64()*200 + 1

		box := BoxAroundPoint(lat, lng, radius)

		// Sample points on and inside the circle.
		for j := 0; j < 20; j++ {
			bearing := rng.Float64() * 2 * math.Pi
			dist := rng.Float64() * radius

			dLat := (dist / 111.32) * math.Cos(bearing)
			dLng := (dist / (111.32 * math.Cos(lat*math.Pi/180))) * math.Sin(bearing)
			pLat := lat + dLat
			pLng := lng + dLng

			if DistanceKm(lat, lng, pLat, pLng) > radius {
				continue // flat-earth sampling overshot the circle; not a box concern
			}
			require.True(t, box.Contains(pLat, pLng),
				"point %.4f,%.4f at %.2fkm escaped box for center %.4f,%.4f r=%.2f",
				pLat, pLng, dist, lat, lng, radius)
		}
	}
}

func TestBoxAroundPoint_OverApproximates(t *testing.T) {
	// Corners of the box are further away than the radius; the exact
	// distance pass is responsible for trimming them.
	box := BoxAroundPoint(-33.8688, 151.2093, 20)
	corner := DistanceKm(-33.8688, 151.2093, box.MaxLat, box.MaxLng)
	assert.Greater(t, corner, 20.0)
}

func TestBoxAroundPoint_SydneyScenario(t *testing.T) {
	box := BoxAroundPoint(-33.8688, 151.2093, 20)

	// ~15 km away: inside the box.
	assert.True(t, box.Contains(-33.70, 151.10))
	// ~100 km away: outside the box.
	assert.False(t, box.Contains(-34.50, 150.00))
}
