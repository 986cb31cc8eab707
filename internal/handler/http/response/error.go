package response

import (
	"errors"
	"net/http"

	"github.com/shiftline/shiftline-backend-go/internal/domain/location"
	"github.com/shiftline/shiftline-backend-go/internal/domain/timeclock"
	"github.com/shiftline/shiftline-backend-go/internal/domain/timesheet"
	"github.com/shiftline/shiftline-backend-go/internal/domain/user"
	"github.com/shiftline/shiftline-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// State conflicts carry the derived status in the message.
	var transitionErr *timeclock.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		Conflict(w, transitionErr.Error())
		return
	}
	var fenceErr *timeclock.GeofenceViolationError
	if errors.As(err, &fenceErr) {
		Forbidden(w, fenceErr.Error())
		return
	}

	switch {
	// Time clock domain errors
	case errors.Is(err, timeclock.ErrEventNotFound):
		NotFound(w, "Clock event not found")
	case errors.Is(err, timeclock.ErrManualEntryNotAllowed):
		Forbidden(w, "Manual time entry is not allowed for this user")
	case errors.Is(err, timeclock.ErrNotesRequired):
		BadRequest(w, "Notes are required for manual time entries", nil)
	case errors.Is(err, timeclock.ErrNotManualEntry):
		BadRequest(w, "Clock event is not a manual entry", nil)
	case errors.Is(err, timeclock.ErrEntryAlreadyReviewed):
		Conflict(w, "Manual entry has already been reviewed")
	case errors.Is(err, timeclock.ErrReviewReasonRequired):
		BadRequest(w, "A reason is required to reject a manual entry", nil)
	case errors.Is(err, timeclock.ErrTimestampOutOfOrder):
		Conflict(w, "Timestamp must be after the latest recorded event")

	// Timesheet domain errors
	case errors.Is(err, timesheet.ErrTimesheetNotFound):
		NotFound(w, "Timesheet not found")
	case errors.Is(err, timesheet.ErrTimesheetAlreadyExists):
		Conflict(w, "A timesheet already exists for this period")
	case errors.Is(err, timesheet.ErrInvalidTimesheetState):
		Conflict(w, "Timesheet is not in a valid state for this action")
	case errors.Is(err, timesheet.ErrReviewCommentRequired):
		BadRequest(w, "A review comment is required to reject a timesheet", nil)
	case errors.Is(err, timesheet.ErrNotTimesheetOwner):
		Forbidden(w, "Only the timesheet owner may submit it")

	// User and location domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrReviewerAccessRequired):
		Forbidden(w, "Manager, admin, or owner access required")
	case errors.Is(err, location.ErrLocationNotFound):
		NotFound(w, "Location not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
