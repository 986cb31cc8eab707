package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/shiftline/shiftline-backend-go/internal/domain/settings"
	"github.com/shiftline/shiftline-backend-go/internal/pkg/database"
)

type settingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) settings.Repository {
	return &settingsRepository{db: db}
}

const settingsColumns = `
	organization_id, timezone, overtime_threshold_hours, notify_on_overtime,
	auto_clock_out_enabled, auto_clock_out_hours,
	allow_manual_time_entry, require_notes_for_manual_entry,
	require_shift_for_clock_in, early_clock_in_window_minutes, late_clock_in_window_minutes`

func scanSettings(row pgx.Row) (settings.OrganizationSettings, error) {
	var s settings.OrganizationSettings
	err := row.Scan(
		&s.OrganizationID, &s.Timezone, &s.OvertimeThresholdHours, &s.NotifyOnOvertime,
		&s.AutoClockOutEnabled, &s.AutoClockOutHours,
		&s.AllowManualTimeEntry, &s.RequireNotesForManualEntry,
		&s.RequireShiftForClockIn, &s.EarlyClockInWindowMinutes, &s.LateClockInWindowMinutes,
	)
	return s, err
}

// GetOrganizationSettings implements settings.Repository. A missing row is
// not an error: the built-in defaults apply.
func (r *settingsRepository) GetOrganizationSettings(ctx context.Context, organizationID string) (settings.OrganizationSettings, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT ` + settingsColumns + `
		FROM organization_timeclock_settings
		WHERE organization_id = $1
	`

	s, err := scanSettings(q.QueryRow(ctx, query, organizationID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return settings.Defaults(organizationID), nil
		}
		return settings.OrganizationSettings{}, fmt.Errorf("failed to get organization settings: %w", err)
	}

	return s, nil
}

// GetUserOverride implements settings.Repository. Users without any override
// fields set yield nil.
func (r *settingsRepository) GetUserOverride(ctx context.Context, organizationID string, userID string) (*settings.UserOverride, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT allow_time_edit, auto_clock_out_enabled, auto_clock_out_time
		FROM users
		WHERE id = $1
		  AND organization_id = $2
	`

	override := settings.UserOverride{UserID: userID}
	err := q.QueryRow(ctx, query, userID, organizationID).Scan(
		&override.AllowTimeEdit,
		&override.AutoClockOutEnabled,
		&override.AutoClockOutTime,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user override: %w", err)
	}

	if override.AllowTimeEdit == nil && override.AutoClockOutEnabled == nil && override.AutoClockOutTime == nil {
		return nil, nil
	}
	return &override, nil
}

// ListAutoClockOutOrganizations implements settings.Repository.
func (r *settingsRepository) ListAutoClockOutOrganizations(ctx context.Context) ([]settings.OrganizationSettings, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT ` + settingsColumns + `
		FROM organization_timeclock_settings
		WHERE auto_clock_out_enabled = TRUE
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list auto clock-out organizations: %w", err)
	}
	defer rows.Close()

	var out []settings.OrganizationSettings
	for rows.Next() {
		s, err := scanSettings(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan organization settings: %w", err)
		}
		out = append(out, s)
	}

	return out, rows.Err()
}
