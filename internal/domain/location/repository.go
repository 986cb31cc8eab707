package location

import (
	"context"
	"errors"
)

var ErrLocationNotFound = errors.New("location not found")

type Repository interface {
	// GetByID retrieves a location within an organization.
	GetByID(ctx context.Context, id string, organizationID string) (Location, error)

	// GetByUser returns the user's assigned location, or nil when the user has
	// no assignment (geofencing is then skipped entirely).
	GetByUser(ctx context.Context, userID string, organizationID string) (*Location, error)
}
