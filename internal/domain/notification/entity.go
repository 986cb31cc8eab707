package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeTimesheetSubmitted NotificationType = "timesheet_submitted"
	TypeTimesheetApproved  NotificationType = "timesheet_approved"
	TypeTimesheetRejected  NotificationType = "timesheet_rejected"
	TypeOvertimeAlert      NotificationType = "overtime_alert"
	TypeAutoClockOut       NotificationType = "auto_clock_out"
	TypeManualEntryPending NotificationType = "manual_entry_pending"
)

// Notification is a persisted notification intent. Delivery (push, email) is
// an external collaborator's concern; the core only records that one should
// be raised.
type Notification struct {
	ID             string
	OrganizationID string
	RecipientID    string
	SenderID       *string
	Type           NotificationType
	Title          string
	Message        string
	Data           map[string]interface{}
	IsRead         bool
	ReadAt         *time.Time
	CreatedAt      time.Time
}
