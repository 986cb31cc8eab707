package timeclock

import (
	"time"

	"github.com/shiftline/shiftline-backend-go/internal/pkg/validator"
)

// ========================================
// CLOCK ACTION DTOs
// ========================================

type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// ClockActionRequest is the shared body of clock-in, clock-out, break-start,
// and break-end.
type ClockActionRequest struct {
	Notes       *string      `json:"notes,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

func (r *ClockActionRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Coordinates != nil {
		if !validator.IsValidLatitude(r.Coordinates.Latitude) {
			errs = append(errs, validator.ValidationError{
				Field:   "coordinates.lat",
				Message: "latitude must be between -90 and 90",
			})
		}
		if !validator.IsValidLongitude(r.Coordinates.Longitude) {
			errs = append(errs, validator.ValidationError{
				Field:   "coordinates.lng",
				Message: "longitude must be between -180 and 180",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ManualEntryRequest creates a clock event by hand (settings-gated).
type ManualEntryRequest struct {
	Kind      EventKind `json:"kind"`
	Timestamp string    `json:"timestamp"` // RFC3339
	Notes     *string   `json:"notes,omitempty"`

	// Parsed by Validate.
	ParsedTimestamp time.Time `json:"-"`
}

func (r *ManualEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	validKinds := []string{
		string(EventClockIn), string(EventClockOut),
		string(EventBreakStart), string(EventBreakEnd),
	}
	if !validator.IsInSlice(string(r.Kind), validKinds) {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be one of: clock_in, clock_out, break_start, break_end",
		})
	}

	if validator.IsEmpty(r.Timestamp) {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "timestamp is required",
		})
	} else {
		parsed, err := time.Parse(time.RFC3339, r.Timestamp)
		if err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "timestamp",
				Message: "timestamp must be an RFC3339 datetime",
			})
		} else {
			r.ParsedTimestamp = parsed.UTC()
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// RejectEntryRequest rejects a pending manual entry.
type RejectEntryRequest struct {
	ID     string `json:"-"`
	Reason string `json:"reason"`
}

func (r *RejectEntryRequest) Validate() error {
	if validator.IsEmpty(r.Reason) {
		return ErrReviewReasonRequired
	}
	return nil
}

// ========================================
// READ DTOs
// ========================================

// EntriesFilter selects a closed date range of a user's events.
type EntriesFilter struct {
	StartDate string  `json:"start_date"` // YYYY-MM-DD, inclusive
	EndDate   string  `json:"end_date"`   // YYYY-MM-DD, inclusive
	UserID    *string `json:"user_id,omitempty"`

	ParsedStart time.Time `json:"-"`
	ParsedEnd   time.Time `json:"-"`
}

func (f *EntriesFilter) Validate() error {
	var errs validator.ValidationErrors

	start, ok := validator.IsValidDate(f.StartDate)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, ok := validator.IsValidDate(f.EndDate)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) == 0 && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	f.ParsedStart = start
	f.ParsedEnd = end
	return nil
}

type EventResponse struct {
	ID             string   `json:"id"`
	UserID         string   `json:"user_id"`
	Kind           string   `json:"kind"`
	Timestamp      string   `json:"timestamp"`
	LocationID     *string  `json:"location_id,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	InsideGeofence *bool    `json:"inside_geofence,omitempty"`
	IsManual       bool     `json:"is_manual"`
	Notes          *string  `json:"notes,omitempty"`
	Status         string   `json:"status,omitempty"`
	ApprovedBy     *string  `json:"approved_by,omitempty"`
	ApprovedAt     *string  `json:"approved_at,omitempty"`
}

// NewEventResponse maps a ClockEvent to its wire shape.
func NewEventResponse(e ClockEvent) EventResponse {
	resp := EventResponse{
		ID:             e.ID,
		UserID:         e.UserID,
		Kind:           string(e.Kind),
		Timestamp:      e.Timestamp.UTC().Format(time.RFC3339),
		LocationID:     e.LocationID,
		Latitude:       e.Latitude,
		Longitude:      e.Longitude,
		InsideGeofence: e.InsideGeofence,
		IsManual:       e.IsManual,
		Notes:          e.Notes,
	}
	if e.IsManual {
		resp.Status = string(e.Status)
		resp.ApprovedBy = e.ApprovedBy
		if e.ApprovedAt != nil {
			formatted := e.ApprovedAt.UTC().Format(time.RFC3339)
			resp.ApprovedAt = &formatted
		}
	}
	return resp
}

type StatusResponse struct {
	Status             string          `json:"status"`
	LastEvent          *EventResponse  `json:"last_event,omitempty"`
	Entries            []EventResponse `json:"entries"`
	TotalWorkedMinutes int             `json:"total_worked_minutes"`
	TotalBreakMinutes  int             `json:"total_break_minutes"`
}

type DayTotalsResponse struct {
	Date          string  `json:"date"`
	WorkedMinutes int     `json:"worked_minutes"`
	BreakMinutes  int     `json:"break_minutes"`
	OvertimeHours float64 `json:"overtime_hours"`
}

type RangeReportResponse struct {
	UserID           string              `json:"user_id"`
	StartDate        string              `json:"start_date"`
	EndDate          string              `json:"end_date"`
	Entries          []EventResponse     `json:"entries"`
	Days             []DayTotalsResponse `json:"days"`
	TotalHours       float64             `json:"total_hours"`
	BreakHours       float64             `json:"break_hours"`
	OvertimeHours    float64             `json:"overtime_hours"`
	EntriesProcessed int                 `json:"entries_processed"`
}
