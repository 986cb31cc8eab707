package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/shiftline/shiftline-backend-go/internal/domain/timesheet"
	"github.com/shiftline/shiftline-backend-go/internal/pkg/database"
)

type timesheetRepository struct {
	db *database.DB
}

func NewTimesheetRepository(db *database.DB) timesheet.Repository {
	return &timesheetRepository{db: db}
}

const timesheetColumns = `
	id, organization_id, user_id, period_start, period_end,
	total_hours, break_hours, overtime_hours, status,
	submitted_at, reviewed_by, reviewed_at, review_comment,
	created_at, updated_at`

func scanTimesheet(row pgx.Row) (timesheet.Timesheet, error) {
	var ts timesheet.Timesheet
	err := row.Scan(
		&ts.ID, &ts.OrganizationID, &ts.UserID, &ts.PeriodStart, &ts.PeriodEnd,
		&ts.TotalHours, &ts.BreakHours, &ts.OvertimeHours, &ts.Status,
		&ts.SubmittedAt, &ts.ReviewedBy, &ts.ReviewedAt, &ts.ReviewComment,
		&ts.CreatedAt, &ts.UpdatedAt,
	)
	return ts, err
}

// Create implements timesheet.Repository. The unique period index turns a
// duplicate into ErrTimesheetAlreadyExists regardless of which caller loses
// the race.
func (r *timesheetRepository) Create(ctx context.Context, ts timesheet.Timesheet) (timesheet.Timesheet, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		INSERT INTO timesheets (
			organization_id, user_id, period_start, period_end,
			total_hours, break_hours, overtime_hours, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		ts.OrganizationID,
		ts.UserID,
		ts.PeriodStart,
		ts.PeriodEnd,
		ts.TotalHours,
		ts.BreakHours,
		ts.OvertimeHours,
		string(ts.Status),
	).Scan(&ts.ID, &ts.CreatedAt, &ts.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return timesheet.Timesheet{}, timesheet.ErrTimesheetAlreadyExists
		}
		return timesheet.Timesheet{}, fmt.Errorf("failed to create timesheet: %w", err)
	}

	return ts, nil
}

// GetByID implements timesheet.Repository.
func (r *timesheetRepository) GetByID(ctx context.Context, id string, organizationID string) (timesheet.Timesheet, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT ` + timesheetColumns + `
		FROM timesheets
		WHERE id = $1
		  AND organization_id = $2
	`

	ts, err := scanTimesheet(q.QueryRow(ctx, query, id, organizationID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return timesheet.Timesheet{}, timesheet.ErrTimesheetNotFound
		}
		return timesheet.Timesheet{}, fmt.Errorf("failed to get timesheet: %w", err)
	}

	return ts, nil
}

// GetByPeriod implements timesheet.Repository.
func (r *timesheetRepository) GetByPeriod(ctx context.Context, organizationID string, userID string, periodStart, periodEnd time.Time) (*timesheet.Timesheet, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT ` + timesheetColumns + `
		FROM timesheets
		WHERE organization_id = $1
		  AND user_id = $2
		  AND period_start = $3
		  AND period_end = $4
	`

	ts, err := scanTimesheet(q.QueryRow(ctx, query, organizationID, userID, periodStart, periodEnd))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get timesheet by period: %w", err)
	}

	return &ts, nil
}

// List implements timesheet.Repository.
func (r *timesheetRepository) List(ctx context.Context, organizationID string, filter timesheet.ListFilter) ([]timesheet.Timesheet, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT ` + timesheetColumns + `
		FROM timesheets
		WHERE organization_id = $1
	`
	args := []interface{}{organizationID}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY period_start DESC, created_at DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list timesheets: %w", err)
	}
	defer rows.Close()

	var sheets []timesheet.Timesheet
	for rows.Next() {
		ts, err := scanTimesheet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timesheet: %w", err)
		}
		sheets = append(sheets, ts)
	}

	return sheets, rows.Err()
}

// Update implements timesheet.Repository.
func (r *timesheetRepository) Update(ctx context.Context, ts timesheet.Timesheet) error {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE timesheets
		SET total_hours = $1, break_hours = $2, overtime_hours = $3,
			status = $4, submitted_at = $5, reviewed_by = $6,
			reviewed_at = $7, review_comment = $8, updated_at = NOW()
		WHERE id = $9
		  AND organization_id = $10
	`

	tag, err := q.Exec(ctx, query,
		ts.TotalHours,
		ts.BreakHours,
		ts.OvertimeHours,
		string(ts.Status),
		ts.SubmittedAt,
		ts.ReviewedBy,
		ts.ReviewedAt,
		ts.ReviewComment,
		ts.ID,
		ts.OrganizationID,
	)
	if err != nil {
		return fmt.Errorf("failed to update timesheet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timesheet.ErrTimesheetNotFound
	}

	return nil
}
