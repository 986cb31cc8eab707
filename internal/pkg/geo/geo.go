package geo

import (
	"math"
)

const earthRadiusMeters = 6371000

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Fence is a circular geofence around a work site.
type Fence struct {
	Center       Coordinates
	RadiusMeters float64
	Enabled      bool
}

// Decision is the tri-state outcome of a geofence evaluation. Unknown is a
// distinct state, never collapsed into Inside or Outside.
type Decision int

const (
	Unknown Decision = iota
	Inside
	Outside
)

// Result carries the decision and, when coordinates were evaluated, the
// computed great-circle distance.
type Result struct {
	Decision       Decision
	DistanceMeters float64
}

// InsideBool maps the decision to the tri-state stored on clock events:
// true, false, or nil for unknown.
func (r Result) InsideBool() *bool {
	switch r.Decision {
	case Inside:
		v := true
		return &v
	case Outside:
		v := false
		return &v
	default:
		return nil
	}
}

// Distance returns the great-circle distance between two points in meters,
// using the Haversine formula.
func Distance(a, b Coordinates) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	deltaLat := (b.Latitude - a.Latitude) * math.Pi / 180
	deltaLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// Evaluate decides whether subject falls inside the fence. A nil subject
// (no coordinates supplied) or a disabled fence yields Unknown. A point
// exactly on the boundary is inside.
func Evaluate(subject *Coordinates, fence Fence) Result {
	if subject == nil || !fence.Enabled {
		return Result{Decision: Unknown}
	}

	distance := Distance(*subject, fence.Center)
	if distance <= fence.RadiusMeters {
		return Result{Decision: Inside, DistanceMeters: distance}
	}
	return Result{Decision: Outside, DistanceMeters: distance}
}
