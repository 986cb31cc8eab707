package timesheet

import (
	"time"

	"github.com/shiftline/shiftline-backend-go/internal/pkg/validator"
)

// GenerateRequest creates a draft timesheet for a period. Reviewers may
// generate for another user via UserID.
type GenerateRequest struct {
	PeriodStart string  `json:"period_start"` // YYYY-MM-DD, inclusive
	PeriodEnd   string  `json:"period_end"`   // YYYY-MM-DD, inclusive
	UserID      *string `json:"user_id,omitempty"`

	ParsedStart time.Time `json:"-"`
	ParsedEnd   time.Time `json:"-"`
}

func (r *GenerateRequest) Validate() error {
	var errs validator.ValidationErrors

	start, ok := validator.IsValidDate(r.PeriodStart)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "period_start",
			Message: "period_start must be in YYYY-MM-DD format",
		})
	}
	end, ok := validator.IsValidDate(r.PeriodEnd)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "period_end",
			Message: "period_end must be in YYYY-MM-DD format",
		})
	}

	if len(errs) == 0 && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "period_end",
			Message: "period_end must not be before period_start",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	r.ParsedStart = start
	r.ParsedEnd = end
	return nil
}

// ReviewRequest approves or rejects a submitted timesheet. The comment is
// required on rejection.
type ReviewRequest struct {
	ID            string  `json:"-"`
	ReviewComment *string `json:"review_comment,omitempty"`
}

type ListFilter struct {
	UserID *string `json:"user_id,omitempty"`
	Status *string `json:"status,omitempty"`
}

func (f *ListFilter) Validate() error {
	if f.Status != nil {
		validStatuses := []string{
			string(StatusDraft), string(StatusSubmitted),
			string(StatusApproved), string(StatusRejected),
		}
		if !validator.IsInSlice(*f.Status, validStatuses) {
			return validator.ValidationErrors{{
				Field:   "status",
				Message: "status must be one of: draft, submitted, approved, rejected",
			}}
		}
	}
	return nil
}

type TimesheetResponse struct {
	ID            string   `json:"id"`
	UserID        string   `json:"user_id"`
	PeriodStart   string   `json:"period_start"`
	PeriodEnd     string   `json:"period_end"`
	TotalHours    float64  `json:"total_hours"`
	BreakHours    float64  `json:"break_hours"`
	OvertimeHours float64  `json:"overtime_hours"`
	Status        string   `json:"status"`
	SubmittedAt   *string  `json:"submitted_at,omitempty"`
	ReviewedBy    *string  `json:"reviewed_by,omitempty"`
	ReviewedAt    *string  `json:"reviewed_at,omitempty"`
	ReviewComment *string  `json:"review_comment,omitempty"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

// NewTimesheetResponse maps a Timesheet to its wire shape.
func NewTimesheetResponse(t Timesheet) TimesheetResponse {
	resp := TimesheetResponse{
		ID:            t.ID,
		UserID:        t.UserID,
		PeriodStart:   t.PeriodStart.Format("2006-01-02"),
		PeriodEnd:     t.PeriodEnd.Format("2006-01-02"),
		TotalHours:    t.TotalHours,
		BreakHours:    t.BreakHours,
		OvertimeHours: t.OvertimeHours,
		Status:        string(t.Status),
		ReviewedBy:    t.ReviewedBy,
		ReviewComment: t.ReviewComment,
		CreatedAt:     t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     t.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if t.SubmittedAt != nil {
		v := t.SubmittedAt.UTC().Format(time.RFC3339)
		resp.SubmittedAt = &v
	}
	if t.ReviewedAt != nil {
		v := t.ReviewedAt.UTC().Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}

// Calculations summarizes what generation aggregated.
type Calculations struct {
	EntriesProcessed int     `json:"entries_processed"`
	TotalHours       float64 `json:"total_hours"`
	BreakHours       float64 `json:"break_hours"`
	OvertimeHours    float64 `json:"overtime_hours"`
}

type GenerateResponse struct {
	Timesheet    TimesheetResponse `json:"timesheet"`
	Calculations Calculations      `json:"calculations"`
}
