package timesheet

import "errors"

// Timesheet domain errors
var (
	ErrTimesheetNotFound      = errors.New("timesheet not found")
	ErrTimesheetAlreadyExists = errors.New("a timesheet already exists for this period")
	ErrInvalidTimesheetState  = errors.New("timesheet is not in a valid state for this action")
	ErrReviewCommentRequired  = errors.New("a review comment is required to reject a timesheet")
	ErrNotTimesheetOwner      = errors.New("only the timesheet owner may submit it")
)
