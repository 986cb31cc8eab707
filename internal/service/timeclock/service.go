package timeclock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/shiftline/shiftline-backend-go/internal/domain/location"
	"github.com/shiftline/shiftline-backend-go/internal/domain/notification"
	"github.com/shiftline/shiftline-backend-go/internal/domain/settings"
	"github.com/shiftline/shiftline-backend-go/internal/domain/timeclock"
	"github.com/shiftline/shiftline-backend-go/internal/domain/user"
	"github.com/shiftline/shiftline-backend-go/internal/pkg/database"
	"github.com/shiftline/shiftline-backend-go/internal/pkg/geo"
	"github.com/shiftline/shiftline-backend-go/internal/pkg/validator"
)

type ServiceImpl struct {
	tx              database.TxManager
	eventRepo       timeclock.EventRepository
	settingsRepo    settings.Repository
	locationRepo    location.Repository
	userRepo        user.Repository
	notificationSvc notification.Service
	aggregator      *Aggregator
	now             func() time.Time
}

func NewTimeclockService(
	tx database.TxManager,
	eventRepo timeclock.EventRepository,
	settingsRepo settings.Repository,
	locationRepo location.Repository,
	userRepo user.Repository,
	notificationSvc notification.Service,
) timeclock.Service {
	return &ServiceImpl{
		tx:              tx,
		eventRepo:       eventRepo,
		settingsRepo:    settingsRepo,
		locationRepo:    locationRepo,
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
		aggregator:      NewAggregator(),
		now:             time.Now,
	}
}

// identityFromContext reads tenancy and role from the verified token claims.
func identityFromContext(ctx context.Context) (organizationID string, userID string, role user.Role, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to read token claims: %w", err)
	}

	organizationID, ok := claims["organization_id"].(string)
	if !ok || organizationID == "" {
		return "", "", "", errors.New("organization_id claim is missing")
	}
	userID, ok = claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", "", errors.New("user_id claim is missing")
	}
	roleStr, _ := claims["role"].(string)

	return organizationID, userID, user.Role(roleStr), nil
}

func (s *ServiceImpl) ClockIn(ctx context.Context, req timeclock.ClockActionRequest) (timeclock.EventResponse, error) {
	return s.appendInteractive(ctx, timeclock.EventClockIn, req)
}

func (s *ServiceImpl) ClockOut(ctx context.Context, req timeclock.ClockActionRequest) (timeclock.EventResponse, error) {
	return s.appendInteractive(ctx, timeclock.EventClockOut, req)
}

func (s *ServiceImpl) StartBreak(ctx context.Context, req timeclock.ClockActionRequest) (timeclock.EventResponse, error) {
	return s.appendInteractive(ctx, timeclock.EventBreakStart, req)
}

func (s *ServiceImpl) EndBreak(ctx context.Context, req timeclock.ClockActionRequest) (timeclock.EventResponse, error) {
	return s.appendInteractive(ctx, timeclock.EventBreakEnd, req)
}

// appendInteractive is the single write path for the four clock actions:
// resolve settings, evaluate the geofence, then validate the transition and
// append under the per-user lock so concurrent taps serialize.
func (s *ServiceImpl) appendInteractive(ctx context.Context, kind timeclock.EventKind, req timeclock.ClockActionRequest) (timeclock.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return timeclock.EventResponse{}, err
	}

	organizationID, userID, _, err := identityFromContext(ctx)
	if err != nil {
		return timeclock.EventResponse{}, err
	}

	orgSettings, err := s.settingsRepo.GetOrganizationSettings(ctx, organizationID)
	if err != nil {
		return timeclock.EventResponse{}, fmt.Errorf("failed to get organization settings: %w", err)
	}

	now := s.now().UTC()

	candidate := timeclock.ClockEvent{
		OrganizationID: organizationID,
		UserID:         userID,
		Kind:           kind,
		Timestamp:      now,
		Notes:          req.Notes,
		Status:         timeclock.EntryApproved,
	}

	if req.Coordinates != nil {
		candidate.Latitude = &req.Coordinates.Latitude
		candidate.Longitude = &req.Coordinates.Longitude
	}

	assigned, err := s.locationRepo.GetByUser(ctx, userID, organizationID)
	if err != nil {
		return timeclock.EventResponse{}, fmt.Errorf("failed to get assigned location: %w", err)
	}
	if assigned != nil {
		candidate.LocationID = &assigned.ID

		var subject *geo.Coordinates
		if req.Coordinates != nil {
			subject = &geo.Coordinates{
				Latitude:  req.Coordinates.Latitude,
				Longitude: req.Coordinates.Longitude,
			}
		}
		result := geo.Evaluate(subject, geo.Fence{
			Center:       geo.Coordinates{Latitude: assigned.Latitude, Longitude: assigned.Longitude},
			RadiusMeters: assigned.RadiusMeters,
			Enabled:      assigned.GeofenceEnabled,
		})
		candidate.InsideGeofence = result.InsideBool()

		// Only clock-in is blocked by an enforced fence. Clock-out, break
		// start, and break end record the verdict but always go through.
		if kind == timeclock.EventClockIn && result.Decision == geo.Outside && !assigned.AllowClockOutside {
			return timeclock.EventResponse{}, &timeclock.GeofenceViolationError{
				DistanceMeters: result.DistanceMeters,
				RadiusMeters:   assigned.RadiusMeters,
			}
		}
	}

	var created timeclock.ClockEvent
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.eventRepo.LockUser(ctx, organizationID, userID); err != nil {
			return fmt.Errorf("failed to lock user clock log: %w", err)
		}

		last, err := s.lastEventForValidation(ctx, organizationID, userID, kind, now, orgSettings.Location())
		if err != nil {
			return err
		}
		var lastKind *timeclock.EventKind
		if last != nil {
			lastKind = &last.Kind
		}
		if err := timeclock.ValidateTransition(lastKind, kind); err != nil {
			return err
		}

		created, err = s.eventRepo.Append(ctx, candidate)
		return err
	})
	if err != nil {
		return timeclock.EventResponse{}, err
	}

	if kind == timeclock.EventClockOut {
		s.evaluateOvertime(ctx, organizationID, userID, orgSettings, now)
	}

	return timeclock.NewEventResponse(created), nil
}

// lastEventForValidation picks the reference event for transition validation.
// Clock-in looks only at the current local day so yesterday's dangling session
// never blocks a fresh morning; everything else follows the latest event.
func (s *ServiceImpl) lastEventForValidation(
	ctx context.Context,
	organizationID, userID string,
	kind timeclock.EventKind,
	at time.Time,
	loc *time.Location,
) (*timeclock.ClockEvent, error) {
	if kind == timeclock.EventClockIn {
		dayStart, dayEnd := dayBounds(at, loc)
		return s.eventRepo.GetLastEventBetween(ctx, organizationID, userID, dayStart, dayEnd)
	}
	return s.eventRepo.GetLastEvent(ctx, organizationID, userID)
}

func dayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

// evaluateOvertime checks the just-closed day against the organization's
// threshold and alerts reviewers. Best-effort: failures are logged, never
// returned, so a notification hiccup cannot fail a clock-out.
func (s *ServiceImpl) evaluateOvertime(ctx context.Context, organizationID, userID string, orgSettings settings.OrganizationSettings, now time.Time) {
	if !orgSettings.NotifyOnOvertime {
		return
	}

	loc := orgSettings.Location()
	dayStart, dayEnd := dayBounds(now, loc)

	events, err := s.eventRepo.ListByUserAndRange(ctx, organizationID, userID, dayStart, dayEnd)
	if err != nil {
		slog.Error("overtime evaluation: failed to list events", "user_id", userID, "error", err)
		return
	}

	localDay := now.In(loc)
	totals := s.aggregator.AggregatePeriod(events, localDay, localDay, loc, orgSettings.OvertimeThresholdHours, now)
	if totals.OvertimeHours <= 0 {
		return
	}
	overtime := math.Round(totals.OvertimeHours*10) / 10

	subject, err := s.userRepo.GetByID(ctx, userID, organizationID)
	if err != nil {
		slog.Error("overtime evaluation: failed to get user", "user_id", userID, "error", err)
		return
	}
	reviewers, err := s.userRepo.ListReviewers(ctx, organizationID)
	if err != nil {
		slog.Error("overtime evaluation: failed to list reviewers", "organization_id", organizationID, "error", err)
		return
	}

	date := localDay.Format("2006-01-02")
	var reqs []notification.CreateNotificationRequest
	for _, reviewer := range reviewers {
		if reviewer.ID == userID {
			continue
		}
		reqs = append(reqs, notification.CreateNotificationRequest{
			OrganizationID: organizationID,
			RecipientID:    reviewer.ID,
			SenderID:       &subject.ID,
			Type:           notification.TypeOvertimeAlert,
			Title:          "Overtime alert",
			Message:        fmt.Sprintf("%s worked %.1f hours of overtime on %s", subject.FullName, overtime, date),
			Data: map[string]interface{}{
				"user_id":        userID,
				"date":           date,
				"overtime_hours": overtime,
			},
		})
	}
	if err := s.notificationSvc.QueueBulkNotification(ctx, reqs); err != nil {
		slog.Error("overtime evaluation: failed to queue notifications", "error", err)
	}
}

func (s *ServiceImpl) Status(ctx context.Context) (timeclock.StatusResponse, error) {
	organizationID, userID, _, err := identityFromContext(ctx)
	if err != nil {
		return timeclock.StatusResponse{}, err
	}

	orgSettings, err := s.settingsRepo.GetOrganizationSettings(ctx, organizationID)
	if err != nil {
		return timeclock.StatusResponse{}, fmt.Errorf("failed to get organization settings: %w", err)
	}

	now := s.now().UTC()
	dayStart, dayEnd := dayBounds(now, orgSettings.Location())

	events, err := s.eventRepo.ListByUserAndRange(ctx, organizationID, userID, dayStart, dayEnd)
	if err != nil {
		return timeclock.StatusResponse{}, fmt.Errorf("failed to list today's events: %w", err)
	}

	snapshot := s.aggregator.Snapshot(events, now)

	entries := make([]timeclock.EventResponse, 0, len(events))
	for _, e := range events {
		entries = append(entries, timeclock.NewEventResponse(e))
	}
	var lastEvent *timeclock.EventResponse
	if snapshot.LastEvent != nil {
		resp := timeclock.NewEventResponse(*snapshot.LastEvent)
		lastEvent = &resp
	}

	return timeclock.StatusResponse{
		Status:             string(snapshot.Status),
		LastEvent:          lastEvent,
		Entries:            entries,
		TotalWorkedMinutes: snapshot.WorkedMinutes,
		TotalBreakMinutes:  snapshot.BreakMinutes,
	}, nil
}

func (s *ServiceImpl) Entries(ctx context.Context, filter timeclock.EntriesFilter) (timeclock.RangeReportResponse, error) {
	if err := filter.Validate(); err != nil {
		return timeclock.RangeReportResponse{}, err
	}

	organizationID, callerID, role, err := identityFromContext(ctx)
	if err != nil {
		return timeclock.RangeReportResponse{}, err
	}

	targetID := callerID
	if filter.UserID != nil && *filter.UserID != callerID {
		if !role.IsReviewer() {
			return timeclock.RangeReportResponse{}, user.ErrReviewerAccessRequired
		}
		targetID = *filter.UserID
	}

	orgSettings, err := s.settingsRepo.GetOrganizationSettings(ctx, organizationID)
	if err != nil {
		return timeclock.RangeReportResponse{}, fmt.Errorf("failed to get organization settings: %w", err)
	}
	loc := orgSettings.Location()

	from := time.Date(filter.ParsedStart.Year(), filter.ParsedStart.Month(), filter.ParsedStart.Day(), 0, 0, 0, 0, loc).UTC()
	to := time.Date(filter.ParsedEnd.Year(), filter.ParsedEnd.Month(), filter.ParsedEnd.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1).UTC()

	events, err := s.eventRepo.ListByUserAndRange(ctx, organizationID, targetID, from, to)
	if err != nil {
		return timeclock.RangeReportResponse{}, fmt.Errorf("failed to list events: %w", err)
	}

	totals := s.aggregator.AggregatePeriod(events, filter.ParsedStart, filter.ParsedEnd, loc, orgSettings.OvertimeThresholdHours, s.now().UTC())

	entries := make([]timeclock.EventResponse, 0, len(events))
	for _, e := range events {
		entries = append(entries, timeclock.NewEventResponse(e))
	}
	days := make([]timeclock.DayTotalsResponse, 0, len(totals.Days))
	for _, d := range totals.Days {
		days = append(days, timeclock.DayTotalsResponse{
			Date:          d.Date.Format("2006-01-02"),
			WorkedMinutes: int(d.Worked.Minutes()),
			BreakMinutes:  int(d.Break.Minutes()),
			OvertimeHours: math.Round(d.OvertimeHours*100) / 100,
		})
	}

	return timeclock.RangeReportResponse{
		UserID:           targetID,
		StartDate:        filter.StartDate,
		EndDate:          filter.EndDate,
		Entries:          entries,
		Days:             days,
		TotalHours:       totals.TotalHours,
		BreakHours:       totals.BreakHours,
		OvertimeHours:    totals.OvertimeHours,
		EntriesProcessed: totals.EntriesProcessed,
	}, nil
}

func (s *ServiceImpl) CreateManualEntry(ctx context.Context, req timeclock.ManualEntryRequest) (timeclock.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return timeclock.EventResponse{}, err
	}

	organizationID, userID, _, err := identityFromContext(ctx)
	if err != nil {
		return timeclock.EventResponse{}, err
	}

	orgSettings, err := s.settingsRepo.GetOrganizationSettings(ctx, organizationID)
	if err != nil {
		return timeclock.EventResponse{}, fmt.Errorf("failed to get organization settings: %w", err)
	}
	override, err := s.settingsRepo.GetUserOverride(ctx, organizationID, userID)
	if err != nil {
		return timeclock.EventResponse{}, fmt.Errorf("failed to get user override: %w", err)
	}

	if !settings.ResolveAllowTimeEdit(override, orgSettings) {
		return timeclock.EventResponse{}, timeclock.ErrManualEntryNotAllowed
	}
	if orgSettings.RequireNotesForManualEntry && (req.Notes == nil || validator.IsEmpty(*req.Notes)) {
		return timeclock.EventResponse{}, timeclock.ErrNotesRequired
	}

	candidate := timeclock.ClockEvent{
		OrganizationID: organizationID,
		UserID:         userID,
		Kind:           req.Kind,
		Timestamp:      req.ParsedTimestamp,
		IsManual:       true,
		Notes:          req.Notes,
		Status:         timeclock.EntryPending,
	}

	var created timeclock.ClockEvent
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.eventRepo.LockUser(ctx, organizationID, userID); err != nil {
			return fmt.Errorf("failed to lock user clock log: %w", err)
		}

		// Manual entries still append at the tail of the log: the timestamp
		// may be in the past of the wall clock but never in the past of the
		// user's latest event.
		last, err := s.eventRepo.GetLastEvent(ctx, organizationID, userID)
		if err != nil {
			return err
		}
		if last != nil && !candidate.Timestamp.After(last.Timestamp) {
			return timeclock.ErrTimestampOutOfOrder
		}

		refLast, err := s.lastEventForValidation(ctx, organizationID, userID, req.Kind, candidate.Timestamp, orgSettings.Location())
		if err != nil {
			return err
		}
		var lastKind *timeclock.EventKind
		if refLast != nil {
			lastKind = &refLast.Kind
		}
		if err := timeclock.ValidateTransition(lastKind, req.Kind); err != nil {
			return err
		}

		created, err = s.eventRepo.Append(ctx, candidate)
		return err
	})
	if err != nil {
		return timeclock.EventResponse{}, err
	}

	s.notifyManualEntryPending(ctx, created)

	return timeclock.NewEventResponse(created), nil
}

func (s *ServiceImpl) notifyManualEntryPending(ctx context.Context, entry timeclock.ClockEvent) {
	subject, err := s.userRepo.GetByID(ctx, entry.UserID, entry.OrganizationID)
	if err != nil {
		slog.Error("manual entry notification: failed to get user", "user_id", entry.UserID, "error", err)
		return
	}
	reviewers, err := s.userRepo.ListReviewers(ctx, entry.OrganizationID)
	if err != nil {
		slog.Error("manual entry notification: failed to list reviewers", "organization_id", entry.OrganizationID, "error", err)
		return
	}

	var reqs []notification.CreateNotificationRequest
	for _, reviewer := range reviewers {
		if reviewer.ID == entry.UserID {
			continue
		}
		reqs = append(reqs, notification.CreateNotificationRequest{
			OrganizationID: entry.OrganizationID,
			RecipientID:    reviewer.ID,
			SenderID:       &subject.ID,
			Type:           notification.TypeManualEntryPending,
			Title:          "Manual time entry pending review",
			Message:        fmt.Sprintf("%s added a manual %s entry", subject.FullName, entry.Kind),
			Data: map[string]interface{}{
				"entry_id":  entry.ID,
				"user_id":   entry.UserID,
				"kind":      string(entry.Kind),
				"timestamp": entry.Timestamp.Format(time.RFC3339),
			},
		})
	}
	if err := s.notificationSvc.QueueBulkNotification(ctx, reqs); err != nil {
		slog.Error("manual entry notification: failed to queue", "error", err)
	}
}

func (s *ServiceImpl) ApproveManualEntry(ctx context.Context, id string) (timeclock.EventResponse, error) {
	return s.reviewManualEntry(ctx, id, timeclock.EntryApproved, "")
}

func (s *ServiceImpl) RejectManualEntry(ctx context.Context, req timeclock.RejectEntryRequest) (timeclock.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return timeclock.EventResponse{}, err
	}
	return s.reviewManualEntry(ctx, req.ID, timeclock.EntryRejected, req.Reason)
}

func (s *ServiceImpl) reviewManualEntry(ctx context.Context, id string, verdict timeclock.EntryStatus, reason string) (timeclock.EventResponse, error) {
	organizationID, reviewerID, role, err := identityFromContext(ctx)
	if err != nil {
		return timeclock.EventResponse{}, err
	}
	if !role.IsReviewer() {
		return timeclock.EventResponse{}, user.ErrReviewerAccessRequired
	}

	entry, err := s.eventRepo.GetByID(ctx, id, organizationID)
	if err != nil {
		return timeclock.EventResponse{}, err
	}
	if !entry.IsManual {
		return timeclock.EventResponse{}, timeclock.ErrNotManualEntry
	}
	if entry.Status != timeclock.EntryPending {
		return timeclock.EventResponse{}, timeclock.ErrEntryAlreadyReviewed
	}

	now := s.now().UTC()
	entry.Status = verdict
	entry.ApprovedBy = &reviewerID
	entry.ApprovedAt = &now
	if verdict == timeclock.EntryRejected {
		note := "rejected: " + reason
		if entry.Notes != nil && !validator.IsEmpty(*entry.Notes) {
			note = *entry.Notes + "; " + note
		}
		entry.Notes = &note
	}

	if err := s.eventRepo.UpdateReview(ctx, entry); err != nil {
		return timeclock.EventResponse{}, fmt.Errorf("failed to update manual entry review: %w", err)
	}

	return timeclock.NewEventResponse(entry), nil
}

// AppendSystemClockOut closes an open session on behalf of the sweeper. It
// holds the caller to the same lock and transition rules as interactive
// clock-outs so a race with the user resolves to exactly one closing event.
func (s *ServiceImpl) AppendSystemClockOut(ctx context.Context, organizationID string, userID string, at time.Time, reason string) error {
	note := reason
	candidate := timeclock.ClockEvent{
		OrganizationID: organizationID,
		UserID:         userID,
		Kind:           timeclock.EventClockOut,
		Timestamp:      at.UTC(),
		Notes:          &note,
		Status:         timeclock.EntryApproved,
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.eventRepo.LockUser(ctx, organizationID, userID); err != nil {
			return fmt.Errorf("failed to lock user clock log: %w", err)
		}

		last, err := s.eventRepo.GetLastEvent(ctx, organizationID, userID)
		if err != nil {
			return err
		}
		var lastKind *timeclock.EventKind
		if last != nil {
			lastKind = &last.Kind
			// Keep the log totally ordered when the threshold instant fell
			// before an event appended in the meantime.
			if !candidate.Timestamp.After(last.Timestamp) {
				candidate.Timestamp = s.now().UTC()
			}
		}
		if err := timeclock.ValidateTransition(lastKind, timeclock.EventClockOut); err != nil {
			return err
		}

		_, err = s.eventRepo.Append(ctx, candidate)
		return err
	})
	if err != nil {
		return err
	}

	if err := s.notificationSvc.QueueNotification(ctx, notification.CreateNotificationRequest{
		OrganizationID: organizationID,
		RecipientID:    userID,
		Type:           notification.TypeAutoClockOut,
		Title:          "Automatically clocked out",
		Message:        reason,
		Data: map[string]interface{}{
			"clocked_out_at": candidate.Timestamp.Format(time.RFC3339),
		},
	}); err != nil {
		slog.Error("auto clock-out notification: failed to queue", "user_id", userID, "error", err)
	}

	return nil
}
