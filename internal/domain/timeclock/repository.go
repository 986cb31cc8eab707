package timeclock

import (
	"context"
	"time"
)

// EventRepository is the append-only clock event log. All methods take
// organizationID to keep access tenant-scoped.
//
// The read-validate-append sequence for one user must be serialized; callers
// run it inside a transaction after LockUser.
type EventRepository interface {
	// Append persists a new event and returns it with its generated ID.
	Append(ctx context.Context, event ClockEvent) (ClockEvent, error)

	// GetLastEvent returns the user's most recent event regardless of day,
	// or nil when the user has no events.
	GetLastEvent(ctx context.Context, organizationID string, userID string) (*ClockEvent, error)

	// GetLastEventBetween returns the user's most recent event within
	// [from, to), or nil. Used for day-scoped clock-in validation.
	GetLastEventBetween(ctx context.Context, organizationID string, userID string, from, to time.Time) (*ClockEvent, error)

	// ListByUserAndRange returns the user's events with timestamps in
	// [from, to), ordered by timestamp ascending.
	ListByUserAndRange(ctx context.Context, organizationID string, userID string, from, to time.Time) ([]ClockEvent, error)

	// GetByID retrieves one event.
	GetByID(ctx context.Context, id string, organizationID string) (ClockEvent, error)

	// UpdateReview amends the review fields (status, approver, notes) of a
	// manual entry. All other fields are immutable.
	UpdateReview(ctx context.Context, event ClockEvent) error

	// ListOpenSessions returns one row per user of the organization whose
	// most recent event leaves a session open (clock_in, break_start, or
	// break_end), with the session's opening clock-in timestamp.
	ListOpenSessions(ctx context.Context, organizationID string) ([]OpenSession, error)

	// LockUser takes the per-user advisory lock that serializes the
	// read-validate-append sequence. Only valid inside a transaction; the
	// lock releases on commit or rollback.
	LockUser(ctx context.Context, organizationID string, userID string) error
}
