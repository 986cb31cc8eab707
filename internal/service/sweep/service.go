package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shiftline/shiftline-backend-go/internal/domain/settings"
	"github.com/shiftline/shiftline-backend-go/internal/domain/timeclock"
	"github.com/shiftline/shiftline-backend-go/internal/pkg/validator"
)

// SessionCloser is the slice of the time clock service the sweeper needs.
type SessionCloser interface {
	AppendSystemClockOut(ctx context.Context, organizationID string, userID string, at time.Time, reason string) error
}

// Summary reports one sweep run.
type Summary struct {
	OrganizationsScanned int      `json:"organizations_scanned"`
	Processed            int      `json:"processed"`
	ClockedOut           int      `json:"clocked_out"`
	Errors               []string `json:"errors"`
}

// Service force-closes forgotten sessions. It holds no state of its own:
// every run re-derives open sessions from the event log and re-resolves the
// auto clock-out policy, so reruns and overlapping runs converge on the same
// outcome.
type Service struct {
	settingsRepo settings.Repository
	eventRepo    timeclock.EventRepository
	closer       SessionCloser
	now          func() time.Time
}

func NewSweepService(settingsRepo settings.Repository, eventRepo timeclock.EventRepository, closer SessionCloser) *Service {
	return &Service{
		settingsRepo: settingsRepo,
		eventRepo:    eventRepo,
		closer:       closer,
		now:          time.Now,
	}
}

// Run sweeps every organization with auto clock-out enabled. Per-session
// failures are counted and logged, never returned: one broken session must
// not stall the rest of the sweep.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	orgs, err := s.settingsRepo.ListAutoClockOutOrganizations(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to list auto clock-out organizations: %w", err)
	}

	now := s.now().UTC()
	summary := Summary{OrganizationsScanned: len(orgs)}

	for _, org := range orgs {
		sessions, err := s.eventRepo.ListOpenSessions(ctx, org.OrganizationID)
		if err != nil {
			slog.Error("sweep: failed to list open sessions", "organization_id", org.OrganizationID, "error", err)
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("organization %s: list open sessions: %v", org.OrganizationID, err))
			continue
		}

		for _, session := range sessions {
			summary.Processed++
			if s.sweepSession(ctx, org, session, now, &summary) {
				summary.ClockedOut++
			}
		}
	}

	slog.Info("sweep: run finished",
		"organizations", summary.OrganizationsScanned,
		"processed", summary.Processed,
		"clocked_out", summary.ClockedOut,
		"errors", len(summary.Errors),
	)
	return summary, nil
}

func (s *Service) sweepSession(ctx context.Context, org settings.OrganizationSettings, session timeclock.OpenSession, now time.Time, summary *Summary) bool {
	// Users on break are left alone: the session is open but the user is
	// plausibly still around.
	if session.LastKind == timeclock.EventBreakStart {
		return false
	}
	if session.ClockInAt.IsZero() {
		return false
	}

	override, err := s.settingsRepo.GetUserOverride(ctx, session.OrganizationID, session.UserID)
	if err != nil {
		slog.Error("sweep: failed to get user override", "user_id", session.UserID, "error", err)
		summary.Errors = append(summary.Errors,
			fmt.Sprintf("user %s: resolve override: %v", session.UserID, err))
		return false
	}

	decision := settings.ResolveAutoClockOut(override, org)
	if !decision.Enabled {
		return false
	}

	threshold, reason, err := thresholdFor(session, decision, org.Location())
	if err != nil {
		slog.Error("sweep: failed to resolve threshold", "user_id", session.UserID, "error", err)
		summary.Errors = append(summary.Errors,
			fmt.Sprintf("user %s: resolve threshold: %v", session.UserID, err))
		return false
	}
	if now.Before(threshold) {
		return false
	}

	if err := s.closer.AppendSystemClockOut(ctx, session.OrganizationID, session.UserID, threshold, reason); err != nil {
		// A transition failure means the user (or a concurrent run) closed
		// the session between the scan and the append. That is the intended
		// outcome, not an error.
		var transitionErr *timeclock.InvalidTransitionError
		if errors.As(err, &transitionErr) {
			return false
		}
		slog.Error("sweep: failed to close session", "user_id", session.UserID, "error", err)
		summary.Errors = append(summary.Errors,
			fmt.Sprintf("user %s: close session: %v", session.UserID, err))
		return false
	}
	return true
}

// thresholdFor computes the instant the session should have closed. A
// wall-clock override closes at the next occurrence of that local time on or
// after the opening clock-in; a duration policy closes that many hours after
// it. The synthetic event is stamped at the threshold, not at sweep time, so
// a late sweep does not inflate worked hours.
func thresholdFor(session timeclock.OpenSession, decision settings.AutoClockOutDecision, loc *time.Location) (time.Time, string, error) {
	if decision.WallClockTime != nil {
		wall, ok := validator.IsValidClockTime(*decision.WallClockTime)
		if !ok {
			return time.Time{}, "", fmt.Errorf("invalid auto clock-out time %q", *decision.WallClockTime)
		}

		local := session.ClockInAt.In(loc)
		threshold := time.Date(local.Year(), local.Month(), local.Day(), wall.Hour(), wall.Minute(), wall.Second(), 0, loc)
		// An occurrence exactly at the clock-in instant still counts as the
		// same day; only an earlier one rolls forward.
		if threshold.Before(session.ClockInAt) {
			threshold = threshold.AddDate(0, 0, 1)
		}
		return threshold.UTC(), fmt.Sprintf("automatically clocked out at %s", *decision.WallClockTime), nil
	}

	threshold := session.ClockInAt.Add(time.Duration(decision.DurationHours * float64(time.Hour)))
	return threshold.UTC(), fmt.Sprintf("automatically clocked out after %.1f hours", decision.DurationHours), nil
}
