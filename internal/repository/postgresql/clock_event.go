package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/shiftline/shiftline-backend-go/internal/domain/timeclock"
	"github.com/shiftline/shiftline-backend-go/internal/pkg/database"
)

type clockEventRepository struct {
	db *database.DB
}

// NewClockEventRepository creates the append-only clock event store.
func NewClockEventRepository(db *database.DB) timeclock.EventRepository {
	return &clockEventRepository{db: db}
}

const clockEventColumns = `
	id, organization_id, user_id, kind, timestamp,
	location_id, latitude, longitude, inside_geofence,
	is_manual, notes, status, approved_by, approved_at, created_at`

func scanClockEvent(row pgx.Row) (timeclock.ClockEvent, error) {
	var e timeclock.ClockEvent
	err := row.Scan(
		&e.ID, &e.OrganizationID, &e.UserID, &e.Kind, &e.Timestamp,
		&e.LocationID, &e.Latitude, &e.Longitude, &e.InsideGeofence,
		&e.IsManual, &e.Notes, &e.Status, &e.ApprovedBy, &e.ApprovedAt, &e.CreatedAt,
	)
	return e, err
}

// Append implements timeclock.EventRepository.
func (r *clockEventRepository) Append(ctx context.Context, event timeclock.ClockEvent) (timeclock.ClockEvent, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		INSERT INTO clock_events (
			organization_id, user_id, kind, timestamp,
			location_id, latitude, longitude, inside_geofence,
			is_manual, notes, status, approved_by, approved_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		event.OrganizationID,
		event.UserID,
		string(event.Kind),
		event.Timestamp,
		event.LocationID,
		event.Latitude,
		event.Longitude,
		event.InsideGeofence,
		event.IsManual,
		event.Notes,
		string(event.Status),
		event.ApprovedBy,
		event.ApprovedAt,
	).Scan(&event.ID, &event.CreatedAt)

	if err != nil {
		return timeclock.ClockEvent{}, fmt.Errorf("failed to append clock event: %w", err)
	}

	return event, nil
}

// GetLastEvent implements timeclock.EventRepository.
func (r *clockEventRepository) GetLastEvent(ctx context.Context, organizationID string, userID string) (*timeclock.ClockEvent, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT ` + clockEventColumns + `
		FROM clock_events
		WHERE organization_id = $1
		  AND user_id = $2
		ORDER BY timestamp DESC, created_at DESC
		LIMIT 1
	`

	e, err := scanClockEvent(q.QueryRow(ctx, query, organizationID, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last clock event: %w", err)
	}

	return &e, nil
}

// GetLastEventBetween implements timeclock.EventRepository.
func (r *clockEventRepository) GetLastEventBetween(ctx context.Context, organizationID string, userID string, from, to time.Time) (*timeclock.ClockEvent, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT ` + clockEventColumns + `
		FROM clock_events
		WHERE organization_id = $1
		  AND user_id = $2
		  AND timestamp >= $3
		  AND timestamp < $4
		ORDER BY timestamp DESC, created_at DESC
		LIMIT 1
	`

	e, err := scanClockEvent(q.QueryRow(ctx, query, organizationID, userID, from, to))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last clock event in range: %w", err)
	}

	return &e, nil
}

// ListByUserAndRange implements timeclock.EventRepository.
func (r *clockEventRepository) ListByUserAndRange(ctx context.Context, organizationID string, userID string, from, to time.Time) ([]timeclock.ClockEvent, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT ` + clockEventColumns + `
		FROM clock_events
		WHERE organization_id = $1
		  AND user_id = $2
		  AND timestamp >= $3
		  AND timestamp < $4
		ORDER BY timestamp ASC, created_at ASC
	`

	rows, err := q.Query(ctx, query, organizationID, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list clock events: %w", err)
	}
	defer rows.Close()

	var events []timeclock.ClockEvent
	for rows.Next() {
		e, err := scanClockEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan clock event: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// GetByID implements timeclock.EventRepository.
func (r *clockEventRepository) GetByID(ctx context.Context, id string, organizationID string) (timeclock.ClockEvent, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT ` + clockEventColumns + `
		FROM clock_events
		WHERE id = $1
		  AND organization_id = $2
	`

	e, err := scanClockEvent(q.QueryRow(ctx, query, id, organizationID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return timeclock.ClockEvent{}, timeclock.ErrEventNotFound
		}
		return timeclock.ClockEvent{}, fmt.Errorf("failed to get clock event: %w", err)
	}

	return e, nil
}

// UpdateReview implements timeclock.EventRepository.
func (r *clockEventRepository) UpdateReview(ctx context.Context, event timeclock.ClockEvent) error {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE clock_events
		SET status = $1, approved_by = $2, approved_at = $3, notes = $4
		WHERE id = $5
		  AND organization_id = $6
		  AND is_manual = TRUE
	`

	tag, err := q.Exec(ctx, query,
		string(event.Status),
		event.ApprovedBy,
		event.ApprovedAt,
		event.Notes,
		event.ID,
		event.OrganizationID,
	)
	if err != nil {
		return fmt.Errorf("failed to update clock event review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timeclock.ErrEventNotFound
	}

	return nil
}

// ListOpenSessions implements timeclock.EventRepository.
func (r *clockEventRepository) ListOpenSessions(ctx context.Context, organizationID string) ([]timeclock.OpenSession, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		WITH last_events AS (
			SELECT DISTINCT ON (user_id) user_id, kind, timestamp
			FROM clock_events
			WHERE organization_id = $1
			ORDER BY user_id, timestamp DESC, created_at DESC
		)
		SELECT le.user_id, le.kind, le.timestamp,
			   (
				   SELECT ci.timestamp
				   FROM clock_events ci
				   WHERE ci.organization_id = $1
					 AND ci.user_id = le.user_id
					 AND ci.kind = 'clock_in'
					 AND ci.timestamp <= le.timestamp
				   ORDER BY ci.timestamp DESC
				   LIMIT 1
			   ) AS clock_in_at
		FROM last_events le
		WHERE le.kind <> 'clock_out'
	`

	rows, err := q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list open sessions: %w", err)
	}
	defer rows.Close()

	var sessions []timeclock.OpenSession
	for rows.Next() {
		s := timeclock.OpenSession{OrganizationID: organizationID}
		var clockInAt *time.Time
		if err := rows.Scan(&s.UserID, &s.LastKind, &s.LastTimestamp, &clockInAt); err != nil {
			return nil, fmt.Errorf("failed to scan open session: %w", err)
		}
		if clockInAt != nil {
			s.ClockInAt = *clockInAt
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

// LockUser implements timeclock.EventRepository. The advisory lock pairs the
// hashed organization and user IDs and lives until the surrounding
// transaction commits or rolls back.
func (r *clockEventRepository) LockUser(ctx context.Context, organizationID string, userID string) error {
	q := database.GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1), hashtext($2))`, organizationID, userID); err != nil {
		return fmt.Errorf("failed to acquire user lock: %w", err)
	}

	return nil
}
