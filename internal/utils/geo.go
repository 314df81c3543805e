package utils

import (
	"math"

	"github.com/umahmood/haversine"
)

// One degree of latitude is close enough to constant everywhere on Earth.
const kmPerLatDegree = 111.32

// BoundingBox is a rectangular lat/lng range used to cheaply prune
// search candidates in SQL before exact distance computation.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

/*
BoxAroundPoint returns the bounding box for a circle of radiusKm around
(lat, lng), using a flat-earth approximation with longitude degrees scaled
by cos(latitude).

The box is a strict over-approximation of the circle: every point within
radiusKm falls inside it, and points outside the circle can slip in. The
exact Haversine pass afterwards removes those.
*/
func BoxAroundPoint(lat, lng, radiusKm float64) BoundingBox {
	latDelta := radiusKm / kmPerLatDegree

	lngScale := math.Cos(lat * math.Pi / 180)
	// Near the poles cos(lat) collapses to ~0 and the division blows up;
	// clamp so the box just degrades to the full longitude range instead.
	if lngScale < 0.01 {
		lngScale = 0.01
	}
	lngDelta := radiusKm / (kmPerLatDegree * lngScale)

	return BoundingBox{
		MinLat: lat - latDelta,
		MaxLat: lat + latDelta,
		MinLng: lng - lngDelta,
		MaxLng: lng + lngDelta,
	}
}

// Contains reports whether (lat, lng) falls inside the box.
func (b BoundingBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// DistanceKm returns the exact great-circle (Haversine) distance in km.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	p1 := haversine.Coord{Lat: lat1, Lon: lng1}
	p2 := haversine.Coord{Lat: lat2, Lon: lng2}
	_, km := haversine.Distance(p1, p2)
	return km
}
