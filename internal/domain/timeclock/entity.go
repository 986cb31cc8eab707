package timeclock

import (
	"time"
)

// EventKind is the kind of a clock event.
type EventKind string

const (
	EventClockIn    EventKind = "clock_in"
	EventClockOut   EventKind = "clock_out"
	EventBreakStart EventKind = "break_start"
	EventBreakEnd   EventKind = "break_end"
)

// AllEventKinds returns every clock event kind.
func AllEventKinds() []EventKind {
	return []EventKind{EventClockIn, EventClockOut, EventBreakStart, EventBreakEnd}
}

// Status is a user's derived attendance status. It is determined solely by the
// kind of the user's last event.
type Status string

const (
	StatusNotClockedIn Status = "NOT_CLOCKED_IN"
	StatusClockedIn    Status = "CLOCKED_IN"
	StatusOnBreak      Status = "ON_BREAK"
)

// StatusAfter maps the last event kind to the derived status.
func StatusAfter(last *EventKind) Status {
	if last == nil {
		return StatusNotClockedIn
	}
	switch *last {
	case EventClockIn, EventBreakEnd:
		return StatusClockedIn
	case EventBreakStart:
		return StatusOnBreak
	default:
		return StatusNotClockedIn
	}
}

// EntryStatus is the review state of a manually-created clock event. It is
// only meaningful when IsManual is true.
type EntryStatus string

const (
	EntryPending  EntryStatus = "pending"
	EntryApproved EntryStatus = "approved"
	EntryRejected EntryStatus = "rejected"
)

// ClockEvent is one immutable attendance fact. Events are never mutated after
// append except for the review fields of manual entries, and never deleted in
// normal operation.
type ClockEvent struct {
	ID             string
	OrganizationID string
	UserID         string
	Kind           EventKind
	Timestamp      time.Time // UTC instant
	LocationID     *string
	Latitude       *float64
	Longitude      *float64
	InsideGeofence *bool // tri-state: true/false/nil(unknown)
	IsManual       bool
	Notes          *string
	Status         EntryStatus
	ApprovedBy     *string
	ApprovedAt     *time.Time
	CreatedAt      time.Time
}

// AttendanceSnapshot is the derived same-day view of a user's attendance.
// It is recomputed on demand and never stored.
type AttendanceSnapshot struct {
	Status        Status
	LastEvent     *ClockEvent
	WorkedMinutes int
	BreakMinutes  int
}

// OpenSession is a user whose most recent event leaves a session open.
type OpenSession struct {
	OrganizationID string
	UserID         string
	LastKind       EventKind
	LastTimestamp  time.Time
	ClockInAt      time.Time // the session's opening clock-in
}
