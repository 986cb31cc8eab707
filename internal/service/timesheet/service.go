package timesheet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/shiftline/shiftline-backend-go/internal/domain/notification"
	"github.com/shiftline/shiftline-backend-go/internal/domain/settings"
	"github.com/shiftline/shiftline-backend-go/internal/domain/timeclock"
	"github.com/shiftline/shiftline-backend-go/internal/domain/timesheet"
	"github.com/shiftline/shiftline-backend-go/internal/domain/user"
	"github.com/shiftline/shiftline-backend-go/internal/pkg/validator"
	timeclocksvc "github.com/shiftline/shiftline-backend-go/internal/service/timeclock"
)

type ServiceImpl struct {
	timesheetRepo   timesheet.Repository
	eventRepo       timeclock.EventRepository
	settingsRepo    settings.Repository
	userRepo        user.Repository
	notificationSvc notification.Service
	aggregator      *timeclocksvc.Aggregator
	now             func() time.Time
}

func NewTimesheetService(
	timesheetRepo timesheet.Repository,
	eventRepo timeclock.EventRepository,
	settingsRepo settings.Repository,
	userRepo user.Repository,
	notificationSvc notification.Service,
) timesheet.Service {
	return &ServiceImpl{
		timesheetRepo:   timesheetRepo,
		eventRepo:       eventRepo,
		settingsRepo:    settingsRepo,
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
		aggregator:      timeclocksvc.NewAggregator(),
		now:             time.Now,
	}
}

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

// Generate aggregates the period and creates a draft. A pre-check catches
// the common repeat before any aggregation work; the unique period index
// still decides races, so the loser surfaces ErrTimesheetAlreadyExists
// either way.
func (s *ServiceImpl) Generate(ctx context.Context, req timesheet.GenerateRequest) (timesheet.GenerateResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.GenerateResponse{}, err
	}

	organizationID, callerID, role, err := identityFromContext(ctx)
	if err != nil {
		return timesheet.GenerateResponse{}, err
	}

	targetID := callerID
	if req.UserID != nil && *req.UserID != callerID {
		if !role.IsReviewer() {
			return timesheet.GenerateResponse{}, user.ErrReviewerAccessRequired
		}
		targetID = *req.UserID
	}

	existing, err := s.timesheetRepo.GetByPeriod(ctx, organizationID, targetID, req.ParsedStart, req.ParsedEnd)
	if err != nil {
		return timesheet.GenerateResponse{}, fmt.Errorf("failed to check for existing timesheet: %w", err)
	}
	if existing != nil {
		return timesheet.GenerateResponse{}, timesheet.ErrTimesheetAlreadyExists
	}

	orgSettings, err := s.settingsRepo.GetOrganizationSettings(ctx, organizationID)
	if err != nil {
		return timesheet.GenerateResponse{}, fmt.Errorf("failed to get organization settings: %w", err)
	}
	loc := orgSettings.Location()

	from := time.Date(req.ParsedStart.Year(), req.ParsedStart.Month(), req.ParsedStart.Day(), 0, 0, 0, 0, loc).UTC()
	to := time.Date(req.ParsedEnd.Year(), req.ParsedEnd.Month(), req.ParsedEnd.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1).UTC()

	events, err := s.eventRepo.ListByUserAndRange(ctx, organizationID, targetID, from, to)
	if err != nil {
		return timesheet.GenerateResponse{}, fmt.Errorf("failed to list events: %w", err)
	}

	totals := s.aggregator.AggregatePeriod(events, req.ParsedStart, req.ParsedEnd, loc, orgSettings.OvertimeThresholdHours, s.now().UTC())

	created, err := s.timesheetRepo.Create(ctx, timesheet.Timesheet{
		OrganizationID: organizationID,
		UserID:         targetID,
		PeriodStart:    req.ParsedStart,
		PeriodEnd:      req.ParsedEnd,
		TotalHours:     totals.TotalHours,
		BreakHours:     totals.BreakHours,
		OvertimeHours:  totals.OvertimeHours,
		Status:         timesheet.StatusDraft,
	})
	if err != nil {
		return timesheet.GenerateResponse{}, err
	}

	return timesheet.GenerateResponse{
		Timesheet: timesheet.NewTimesheetResponse(created),
		Calculations: timesheet.Calculations{
			EntriesProcessed: totals.EntriesProcessed,
			TotalHours:       totals.TotalHours,
			BreakHours:       totals.BreakHours,
			OvertimeHours:    totals.OvertimeHours,
		},
	}, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (timesheet.TimesheetResponse, error) {
	organizationID, callerID, role, err := identityFromContext(ctx)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	ts, err := s.timesheetRepo.GetByID(ctx, id, organizationID)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	if ts.UserID != callerID && !role.IsReviewer() {
		return timesheet.TimesheetResponse{}, user.ErrReviewerAccessRequired
	}

	return timesheet.NewTimesheetResponse(ts), nil
}

func (s *ServiceImpl) List(ctx context.Context, filter timesheet.ListFilter) ([]timesheet.TimesheetResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	organizationID, callerID, role, err := identityFromContext(ctx)
	if err != nil {
		return nil, err
	}

	// Employees only ever see their own timesheets.
	if !role.IsReviewer() {
		filter.UserID = &callerID
	}

	sheets, err := s.timesheetRepo.List(ctx, organizationID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list timesheets: %w", err)
	}

	out := make([]timesheet.TimesheetResponse, 0, len(sheets))
	for _, ts := range sheets {
		out = append(out, timesheet.NewTimesheetResponse(ts))
	}
	return out, nil
}

// Submit moves a draft (or a rejected timesheet, on resubmit) to submitted.
func (s *ServiceImpl) Submit(ctx context.Context, id string) (timesheet.TimesheetResponse, error) {
	organizationID, callerID, _, err := identityFromContext(ctx)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	ts, err := s.timesheetRepo.GetByID(ctx, id, organizationID)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	if ts.UserID != callerID {
		return timesheet.TimesheetResponse{}, timesheet.ErrNotTimesheetOwner
	}
	if ts.Status != timesheet.StatusDraft && ts.Status != timesheet.StatusRejected {
		return timesheet.TimesheetResponse{}, timesheet.ErrInvalidTimesheetState
	}

	now := s.now().UTC()
	ts.Status = timesheet.StatusSubmitted
	ts.SubmittedAt = &now
	// A resubmit starts a fresh review.
	ts.ReviewedBy = nil
	ts.ReviewedAt = nil
	ts.ReviewComment = nil

	if err := s.timesheetRepo.Update(ctx, ts); err != nil {
		return timesheet.TimesheetResponse{}, fmt.Errorf("failed to update timesheet: %w", err)
	}

	s.notifySubmitted(ctx, ts)

	return timesheet.NewTimesheetResponse(ts), nil
}

func (s *ServiceImpl) Approve(ctx context.Context, req timesheet.ReviewRequest) (timesheet.TimesheetResponse, error) {
	return s.review(ctx, req, timesheet.StatusApproved)
}

func (s *ServiceImpl) Reject(ctx context.Context, req timesheet.ReviewRequest) (timesheet.TimesheetResponse, error) {
	// Checked before any state is touched: a rejection without a comment
	// leaves the timesheet submitted.
	if req.ReviewComment == nil || validator.IsEmpty(*req.ReviewComment) {
		return timesheet.TimesheetResponse{}, timesheet.ErrReviewCommentRequired
	}
	return s.review(ctx, req, timesheet.StatusRejected)
}

func (s *ServiceImpl) review(ctx context.Context, req timesheet.ReviewRequest, verdict timesheet.Status) (timesheet.TimesheetResponse, error) {
	organizationID, reviewerID, role, err := identityFromContext(ctx)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	if !role.IsReviewer() {
		return timesheet.TimesheetResponse{}, user.ErrReviewerAccessRequired
	}

	ts, err := s.timesheetRepo.GetByID(ctx, req.ID, organizationID)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	if ts.Status != timesheet.StatusSubmitted {
		return timesheet.TimesheetResponse{}, timesheet.ErrInvalidTimesheetState
	}

	now := s.now().UTC()
	ts.Status = verdict
	ts.ReviewedBy = &reviewerID
	ts.ReviewedAt = &now
	ts.ReviewComment = req.ReviewComment

	if err := s.timesheetRepo.Update(ctx, ts); err != nil {
		return timesheet.TimesheetResponse{}, fmt.Errorf("failed to update timesheet: %w", err)
	}

	s.notifyReviewed(ctx, ts, reviewerID)

	return timesheet.NewTimesheetResponse(ts), nil
}

// notifySubmitted alerts the organization's reviewers. Best-effort.
func (s *ServiceImpl) notifySubmitted(ctx context.Context, ts timesheet.Timesheet) {
	owner, err := s.userRepo.GetByID(ctx, ts.UserID, ts.OrganizationID)
	if err != nil {
		slog.Error("timesheet notification: failed to get owner", "user_id", ts.UserID, "error", err)
		return
	}
	reviewers, err := s.userRepo.ListReviewers(ctx, ts.OrganizationID)
	if err != nil {
		slog.Error("timesheet notification: failed to list reviewers", "organization_id", ts.OrganizationID, "error", err)
		return
	}

	period := fmt.Sprintf("%s to %s", ts.PeriodStart.Format("2006-01-02"), ts.PeriodEnd.Format("2006-01-02"))
	var reqs []notification.CreateNotificationRequest
	for _, reviewer := range reviewers {
		if reviewer.ID == ts.UserID {
			continue
		}
		reqs = append(reqs, notification.CreateNotificationRequest{
			OrganizationID: ts.OrganizationID,
			RecipientID:    reviewer.ID,
			SenderID:       &owner.ID,
			Type:           notification.TypeTimesheetSubmitted,
			Title:          "Timesheet submitted",
			Message:        fmt.Sprintf("%s submitted a timesheet for %s", owner.FullName, period),
			Data: map[string]interface{}{
				"timesheet_id": ts.ID,
				"user_id":      ts.UserID,
				"period_start": ts.PeriodStart.Format("2006-01-02"),
				"period_end":   ts.PeriodEnd.Format("2006-01-02"),
			},
		})
	}
	if err := s.notificationSvc.QueueBulkNotification(ctx, reqs); err != nil {
		slog.Error("timesheet notification: failed to queue", "error", err)
	}
}

// notifyReviewed alerts the timesheet owner of the verdict. Best-effort.
func (s *ServiceImpl) notifyReviewed(ctx context.Context, ts timesheet.Timesheet, reviewerID string) {
	notifType := notification.TypeTimesheetApproved
	title := "Timesheet approved"
	message := fmt.Sprintf("your timesheet for %s to %s was approved",
		ts.PeriodStart.Format("2006-01-02"), ts.PeriodEnd.Format("2006-01-02"))
	if ts.Status == timesheet.StatusRejected {
		notifType = notification.TypeTimesheetRejected
		title = "Timesheet rejected"
		message = fmt.Sprintf("your timesheet for %s to %s was rejected",
			ts.PeriodStart.Format("2006-01-02"), ts.PeriodEnd.Format("2006-01-02"))
	}

	data := map[string]interface{}{"timesheet_id": ts.ID}
	if ts.ReviewComment != nil {
		data["review_comment"] = *ts.ReviewComment
	}

	if err := s.notificationSvc.QueueNotification(ctx, notification.CreateNotificationRequest{
		OrganizationID: ts.OrganizationID,
		RecipientID:    ts.UserID,
		SenderID:       &reviewerID,
		Type:           notifType,
		Title:          title,
		Message:        message,
		Data:           data,
	}); err != nil {
		slog.Error("timesheet notification: failed to queue", "error", err)
	}
}
