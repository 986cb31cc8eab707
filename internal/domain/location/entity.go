package location

import "time"

// Location is a physical work site with an optional circular geofence.
type Location struct {
	ID                string
	OrganizationID    string
	Name              string
	Latitude          float64
	Longitude         float64
	RadiusMeters      float64
	GeofenceEnabled   bool
	AllowClockOutside bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
