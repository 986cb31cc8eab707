package timesheet

import "context"

// Service is the timesheet lifecycle surface. Identity is read from the
// request context claims.
type Service interface {
	// Generate aggregates the period through the shared aggregator and
	// creates a draft. Idempotent per identity period: a duplicate request
	// fails with ErrTimesheetAlreadyExists.
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)

	Get(ctx context.Context, id string) (TimesheetResponse, error)
	List(ctx context.Context, filter ListFilter) ([]TimesheetResponse, error)

	// Submit moves draft (or rejected, on resubmit) to submitted. Owner only.
	Submit(ctx context.Context, id string) (TimesheetResponse, error)

	// Approve and Reject act on submitted timesheets. Reviewer only; Reject
	// requires a non-empty review comment.
	Approve(ctx context.Context, req ReviewRequest) (TimesheetResponse, error)
	Reject(ctx context.Context, req ReviewRequest) (TimesheetResponse, error)
}
