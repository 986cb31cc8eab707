package timeclock

import (
	"context"
	"time"
)

// Service is the interactive time clock surface. Identity (organization,
// user, role) is read from the request context claims.
type Service interface {
	ClockIn(ctx context.Context, req ClockActionRequest) (EventResponse, error)
	ClockOut(ctx context.Context, req ClockActionRequest) (EventResponse, error)
	StartBreak(ctx context.Context, req ClockActionRequest) (EventResponse, error)
	EndBreak(ctx context.Context, req ClockActionRequest) (EventResponse, error)

	// Status derives the caller's current attendance snapshot for today.
	Status(ctx context.Context) (StatusResponse, error)

	// Entries replays a date range into per-day and period totals. Reviewers
	// may query other users via the filter.
	Entries(ctx context.Context, filter EntriesFilter) (RangeReportResponse, error)

	// Manual entries (settings-gated) and their review.
	CreateManualEntry(ctx context.Context, req ManualEntryRequest) (EventResponse, error)
	ApproveManualEntry(ctx context.Context, id string) (EventResponse, error)
	RejectManualEntry(ctx context.Context, req RejectEntryRequest) (EventResponse, error)

	// AppendSystemClockOut force-closes a session on behalf of the sweeper.
	// It runs the same transition validation as interactive appends.
	AppendSystemClockOut(ctx context.Context, organizationID string, userID string, at time.Time, reason string) error
}
