package constants

import "time"

const (
	// Pagination clamps. Out-of-range input is clamped, never rejected,
	// so a sloppy client still gets a usable result page.
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// Radius used when a location is supplied but the caller picked
	// "none" for the distance band. 500 km is an application default
	// carried over from the original product decision, not a derived
	// physical limit.
	DefaultRadiusKm = 500.0

	// Geocode cache sizing.
	GeocodeCacheTTL      = 7 * 24 * time.Hour
	GeocodeCacheCapacity = 1000

	GeocodeRequestTimeout = 3 * time.Second
)

// RadiusPresetsKm are the distance bands the search UI offers. "none"
// is handled separately (DefaultRadiusKm).
var RadiusPresetsKm = map[string]float64{
	"5":   5,
	"10":  10,
	"20":  20,
	"50":  50,
	"100": 100,
}

// AgeBucket converts a UI age band into an inclusive [Min, Max] age range.
// Max == 0 means unbounded ("60+").
type AgeBucket struct {
	Min int
	Max int
}

var AgeBuckets = map[string]AgeBucket{
	"18-25": {Min: 18, Max: 25},
	"26-35": {Min: 26, Max: 35},
	"36-45": {Min: 36, Max: 45},
	"46-60": {Min: 46, Max: 60},
	"60+":   {Min: 60, Max: 0},
}
