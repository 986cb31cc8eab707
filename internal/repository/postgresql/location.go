package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/shiftline/shiftline-backend-go/internal/domain/location"
	"github.com/shiftline/shiftline-backend-go/internal/pkg/database"
)

type locationRepository struct {
	db *database.DB
}

func NewLocationRepository(db *database.DB) location.Repository {
	return &locationRepository{db: db}
}

const locationColumns = `
	l.id, l.organization_id, l.name, l.latitude, l.longitude,
	l.radius_meters, l.geofence_enabled, l.allow_clock_outside,
	l.created_at, l.updated_at`

func scanLocation(row pgx.Row) (location.Location, error) {
	var l location.Location
	err := row.Scan(
		&l.ID, &l.OrganizationID, &l.Name, &l.Latitude, &l.Longitude,
		&l.RadiusMeters, &l.GeofenceEnabled, &l.AllowClockOutside,
		&l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

// GetByID implements location.Repository.
func (r *locationRepository) GetByID(ctx context.Context, id string, organizationID string) (location.Location, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT ` + locationColumns + `
		FROM locations l
		WHERE l.id = $1
		  AND l.organization_id = $2
	`

	l, err := scanLocation(q.QueryRow(ctx, query, id, organizationID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return location.Location{}, location.ErrLocationNotFound
		}
		return location.Location{}, fmt.Errorf("failed to get location: %w", err)
	}

	return l, nil
}

// GetByUser implements location.Repository. Unassigned users yield nil.
func (r *locationRepository) GetByUser(ctx context.Context, userID string, organizationID string) (*location.Location, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT ` + locationColumns + `
		FROM locations l
		JOIN users u ON u.location_id = l.id
		WHERE u.id = $1
		  AND u.organization_id = $2
	`

	l, err := scanLocation(q.QueryRow(ctx, query, userID, organizationID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user location: %w", err)
	}

	return &l, nil
}
