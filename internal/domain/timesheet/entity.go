package timesheet

import "time"

// Status is a timesheet's position in the approval workflow.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// Timesheet is a per-period rollup of a user's attendance. Exactly one exists
// per (organization, user, period_start, period_end).
type Timesheet struct {
	ID             string
	OrganizationID string
	UserID         string
	PeriodStart    time.Time // inclusive date
	PeriodEnd      time.Time // inclusive date
	TotalHours     float64
	BreakHours     float64
	OvertimeHours  float64
	Status         Status
	SubmittedAt    *time.Time
	ReviewedBy     *string
	ReviewedAt     *time.Time
	ReviewComment  *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
