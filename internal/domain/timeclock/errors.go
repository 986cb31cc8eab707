package timeclock

import (
	"errors"
	"fmt"
)

// Time clock domain errors
var (
	ErrEventNotFound         = errors.New("clock event not found")
	ErrManualEntryNotAllowed = errors.New("manual time entry is not allowed for this user")
	ErrNotesRequired         = errors.New("notes are required for manual time entries")
	ErrNotManualEntry        = errors.New("clock event is not a manual entry")
	ErrEntryAlreadyReviewed  = errors.New("manual entry has already been approved or rejected")
	ErrReviewReasonRequired  = errors.New("a reason is required to reject a manual entry")
	ErrTimestampOutOfOrder   = errors.New("timestamp must be after the latest recorded event")
)

// InvalidTransitionError rejects a clock action that does not follow from the
// user's current state. It carries the derived status so the caller can tell
// "already on break" from "not clocked in".
type InvalidTransitionError struct {
	Current   Status
	Candidate EventKind
}

func (e *InvalidTransitionError) Error() string {
	switch e.Current {
	case StatusClockedIn:
		return fmt.Sprintf("cannot %s: you are already clocked in", e.Candidate)
	case StatusOnBreak:
		return fmt.Sprintf("cannot %s: you are on break", e.Candidate)
	default:
		return fmt.Sprintf("cannot %s: you are not clocked in", e.Candidate)
	}
}

// GeofenceViolationError rejects a clock-in attempted outside an enforced
// geofence. DistanceMeters is the computed great-circle distance.
type GeofenceViolationError struct {
	DistanceMeters float64
	RadiusMeters   float64
}

func (e *GeofenceViolationError) Error() string {
	return fmt.Sprintf("you are outside the allowed clock-in area (%.0fm away, allowed %.0fm)",
		e.DistanceMeters, e.RadiusMeters)
}
