package sweep

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftline/shiftline-backend-go/internal/domain/settings"
	"github.com/shiftline/shiftline-backend-go/internal/domain/timeclock"
)

// ========================================
// FAKES
// ========================================

type fakeSettingsRepo struct {
	orgs      []settings.OrganizationSettings
	overrides map[string]*settings.UserOverride
}

func (r *fakeSettingsRepo) GetOrganizationSettings(_ context.Context, organizationID string) (settings.OrganizationSettings, error) {
	for _, org := range r.orgs {
		if org.OrganizationID == organizationID {
			return org, nil
		}
	}
	return settings.Defaults(organizationID), nil
}

func (r *fakeSettingsRepo) GetUserOverride(_ context.Context, _, userID string) (*settings.UserOverride, error) {
	return r.overrides[userID], nil
}

func (r *fakeSettingsRepo) ListAutoClockOutOrganizations(_ context.Context) ([]settings.OrganizationSettings, error) {
	var out []settings.OrganizationSettings
	for _, org := range r.orgs {
		if org.AutoClockOutEnabled {
			out = append(out, org)
		}
	}
	return out, nil
}

// fakeSessionStore holds open sessions and plays both the event repository
// and the session closer: a successful close removes the session, so rerun
// tests exercise real idempotence.
type fakeSessionStore struct {
	sessions []timeclock.OpenSession
	closed   []closedSession
	failWith error
}

type closedSession struct {
	userID string
	at     time.Time
	reason string
}

func (s *fakeSessionStore) ListOpenSessions(_ context.Context, organizationID string) ([]timeclock.OpenSession, error) {
	var out []timeclock.OpenSession
	for _, session := range s.sessions {
		if session.OrganizationID == organizationID {
			out = append(out, session)
		}
	}
	return out, nil
}

func (s *fakeSessionStore) AppendSystemClockOut(_ context.Context, _ string, userID string, at time.Time, reason string) error {
	if s.failWith != nil {
		return s.failWith
	}
	for i, session := range s.sessions {
		if session.UserID == userID {
			s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
			break
		}
	}
	s.closed = append(s.closed, closedSession{userID: userID, at: at, reason: reason})
	return nil
}

// Unused EventRepository methods.
func (s *fakeSessionStore) Append(_ context.Context, e timeclock.ClockEvent) (timeclock.ClockEvent, error) {
	return e, nil
}

func (s *fakeSessionStore) GetLastEvent(_ context.Context, _, _ string) (*timeclock.ClockEvent, error) {
	return nil, nil
}

func (s *fakeSessionStore) GetLastEventBetween(_ context.Context, _, _ string, _, _ time.Time) (*timeclock.ClockEvent, error) {
	return nil, nil
}

func (s *fakeSessionStore) ListByUserAndRange(_ context.Context, _, _ string, _, _ time.Time) ([]timeclock.ClockEvent, error) {
	return nil, nil
}

func (s *fakeSessionStore) GetByID(_ context.Context, _, _ string) (timeclock.ClockEvent, error) {
	return timeclock.ClockEvent{}, timeclock.ErrEventNotFound
}

func (s *fakeSessionStore) UpdateReview(_ context.Context, _ timeclock.ClockEvent) error {
	return nil
}

func (s *fakeSessionStore) LockUser(_ context.Context, _, _ string) error {
	return nil
}

// ========================================
// FIXTURE
// ========================================

func mustParse(ts string) time.Time {
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return parsed
}

func autoOrg() settings.OrganizationSettings {
	org := settings.Defaults("org-1")
	org.AutoClockOutEnabled = true
	org.AutoClockOutHours = 12
	return org
}

func openSession(userID, clockInAt string) timeclock.OpenSession {
	return timeclock.OpenSession{
		OrganizationID: "org-1",
		UserID:         userID,
		LastKind:       timeclock.EventClockIn,
		LastTimestamp:  mustParse(clockInAt),
		ClockInAt:      mustParse(clockInAt),
	}
}

func newService(settingsRepo *fakeSettingsRepo, store *fakeSessionStore, now string) *Service {
	svc := NewSweepService(settingsRepo, store, store)
	svc.now = func() time.Time { return mustParse(now) }
	return svc
}

// ========================================
// TESTS
// ========================================

func TestRun_ClosesSessionPastDurationThreshold(t *testing.T) {
	store := &fakeSessionStore{sessions: []timeclock.OpenSession{
		openSession("user-1", "2025-03-10T08:00:00Z"), // 13h open
		openSession("user-2", "2025-03-10T15:00:00Z"), // 6h open
	}}
	repo := &fakeSettingsRepo{orgs: []settings.OrganizationSettings{autoOrg()}, overrides: map[string]*settings.UserOverride{}}
	svc := newService(repo, store, "2025-03-10T21:00:00Z")

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.OrganizationsScanned)
	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 1, summary.ClockedOut)
	assert.Empty(t, summary.Errors)

	require.Len(t, store.closed, 1)
	assert.Equal(t, "user-1", store.closed[0].userID)
	// Stamped at the threshold instant, not at sweep time.
	assert.Equal(t, mustParse("2025-03-10T20:00:00Z"), store.closed[0].at)
	assert.Contains(t, store.closed[0].reason, "12.0 hours")
}

func TestRun_RerunIsIdempotent(t *testing.T) {
	store := &fakeSessionStore{sessions: []timeclock.OpenSession{
		openSession("user-1", "2025-03-10T08:00:00Z"),
	}}
	repo := &fakeSettingsRepo{orgs: []settings.OrganizationSettings{autoOrg()}, overrides: map[string]*settings.UserOverride{}}
	svc := newService(repo, store, "2025-03-10T21:00:00Z")

	first, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.ClockedOut)

	second, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.ClockedOut)
	assert.Equal(t, 0, second.Processed)
	assert.Len(t, store.closed, 1)
}

func TestRun_WallClockOverrideWins(t *testing.T) {
	wall := "18:00"
	repo := &fakeSettingsRepo{
		orgs: []settings.OrganizationSettings{autoOrg()},
		overrides: map[string]*settings.UserOverride{
			"user-1": {UserID: "user-1", AutoClockOutTime: &wall},
		},
	}

	t.Run("same-day occurrence", func(t *testing.T) {
		store := &fakeSessionStore{sessions: []timeclock.OpenSession{
			openSession("user-1", "2025-03-10T08:00:00Z"),
		}}
		svc := newService(repo, store, "2025-03-10T19:00:00Z")

		summary, err := svc.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, summary.ClockedOut)
		require.Len(t, store.closed, 1)
		assert.Equal(t, mustParse("2025-03-10T18:00:00Z"), store.closed[0].at)
		assert.Contains(t, store.closed[0].reason, "18:00")
	})

	t.Run("clock-in after the wall time rolls to the next day", func(t *testing.T) {
		store := &fakeSessionStore{sessions: []timeclock.OpenSession{
			openSession("user-1", "2025-03-10T20:00:00Z"),
		}}
		svc := newService(repo, store, "2025-03-11T19:00:00Z")

		summary, err := svc.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, summary.ClockedOut)
		require.Len(t, store.closed, 1)
		assert.Equal(t, mustParse("2025-03-11T18:00:00Z"), store.closed[0].at)
	})

	t.Run("clock-in exactly at the wall time closes the same day", func(t *testing.T) {
		store := &fakeSessionStore{sessions: []timeclock.OpenSession{
			openSession("user-1", "2025-03-10T18:00:00Z"),
		}}
		svc := newService(repo, store, "2025-03-10T19:00:00Z")

		summary, err := svc.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, summary.ClockedOut)
		require.Len(t, store.closed, 1)
		assert.Equal(t, mustParse("2025-03-10T18:00:00Z"), store.closed[0].at)
	})

	t.Run("before the wall time nothing closes", func(t *testing.T) {
		store := &fakeSessionStore{sessions: []timeclock.OpenSession{
			openSession("user-1", "2025-03-10T08:00:00Z"),
		}}
		svc := newService(repo, store, "2025-03-10T17:00:00Z")

		summary, err := svc.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, summary.ClockedOut)
	})
}

func TestRun_UserOptOutIsHonored(t *testing.T) {
	disabled := false
	repo := &fakeSettingsRepo{
		orgs: []settings.OrganizationSettings{autoOrg()},
		overrides: map[string]*settings.UserOverride{
			"user-1": {UserID: "user-1", AutoClockOutEnabled: &disabled},
		},
	}
	store := &fakeSessionStore{sessions: []timeclock.OpenSession{
		openSession("user-1", "2025-03-09T08:00:00Z"), // long past any threshold
	}}
	svc := newService(repo, store, "2025-03-10T21:00:00Z")

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 0, summary.ClockedOut)
	assert.Empty(t, store.closed)
}

func TestRun_OnBreakSessionsAreSkipped(t *testing.T) {
	session := openSession("user-1", "2025-03-10T08:00:00Z")
	session.LastKind = timeclock.EventBreakStart
	session.LastTimestamp = mustParse("2025-03-10T12:00:00Z")

	store := &fakeSessionStore{sessions: []timeclock.OpenSession{session}}
	repo := &fakeSettingsRepo{orgs: []settings.OrganizationSettings{autoOrg()}, overrides: map[string]*settings.UserOverride{}}
	svc := newService(repo, store, "2025-03-11T02:00:00Z")

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 0, summary.ClockedOut)
	assert.Empty(t, summary.Errors)
}

func TestRun_RacingInteractiveClockOutIsNotAnError(t *testing.T) {
	store := &fakeSessionStore{
		sessions: []timeclock.OpenSession{openSession("user-1", "2025-03-10T08:00:00Z")},
		failWith: &timeclock.InvalidTransitionError{Current: timeclock.StatusNotClockedIn, Candidate: timeclock.EventClockOut},
	}
	repo := &fakeSettingsRepo{orgs: []settings.OrganizationSettings{autoOrg()}, overrides: map[string]*settings.UserOverride{}}
	svc := newService(repo, store, "2025-03-10T21:00:00Z")

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 0, summary.ClockedOut)
	assert.Empty(t, summary.Errors)
}
