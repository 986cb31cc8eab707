package timesheet

import (
	"context"
	"time"
)

// Repository defines data access for timesheets. The store enforces the
// (organization_id, user_id, period_start, period_end) uniqueness invariant;
// Create returns ErrTimesheetAlreadyExists on a duplicate key.
type Repository interface {
	Create(ctx context.Context, ts Timesheet) (Timesheet, error)

	GetByID(ctx context.Context, id string, organizationID string) (Timesheet, error)

	// GetByPeriod returns the timesheet for an exact identity period, or nil.
	GetByPeriod(ctx context.Context, organizationID string, userID string, periodStart, periodEnd time.Time) (*Timesheet, error)

	List(ctx context.Context, organizationID string, filter ListFilter) ([]Timesheet, error)

	// Update persists workflow transitions (status, submitted/reviewed stamps,
	// review comment, totals).
	Update(ctx context.Context, ts Timesheet) error
}
