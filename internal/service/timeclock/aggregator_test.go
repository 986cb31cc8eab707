package timeclock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftline/shiftline-backend-go/internal/domain/timeclock"
)

func event(kind timeclock.EventKind, ts time.Time) timeclock.ClockEvent {
	return timeclock.ClockEvent{
		OrganizationID: "org-1",
		UserID:         "user-1",
		Kind:           kind,
		Timestamp:      ts,
	}
}

func at(day string, clock string) time.Time {
	ts, err := time.Parse("2006-01-02 15:04", day+" "+clock)
	if err != nil {
		panic(err)
	}
	return ts
}

func date(s string) time.Time {
	ts, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return ts
}

func TestAggregator_FullDayWithBreak(t *testing.T) {
	agg := NewAggregator()
	events := []timeclock.ClockEvent{
		event(timeclock.EventClockIn, at("2025-03-10", "09:00")),
		event(timeclock.EventBreakStart, at("2025-03-10", "12:00")),
		event(timeclock.EventBreakEnd, at("2025-03-10", "12:30")),
		event(timeclock.EventClockOut, at("2025-03-10", "17:00")),
	}

	now := at("2025-03-11", "08:00")
	totals := agg.AggregatePeriod(events, date("2025-03-10"), date("2025-03-10"), time.UTC, 8, now)

	require.Len(t, totals.Days, 1)
	assert.Equal(t, 450*time.Minute, totals.Days[0].Worked)
	assert.Equal(t, 30*time.Minute, totals.Days[0].Break)
	assert.Equal(t, 7.5, totals.TotalHours)
	assert.Equal(t, 0.5, totals.BreakHours)
	assert.Equal(t, float64(0), totals.OvertimeHours)
	assert.Equal(t, 4, totals.EntriesProcessed)
}

func TestAggregator_OvertimeIsPerDay(t *testing.T) {
	agg := NewAggregator()
	now := at("2025-03-20", "08:00")

	t.Run("single day over threshold", func(t *testing.T) {
		events := []timeclock.ClockEvent{
			event(timeclock.EventClockIn, at("2025-03-10", "08:00")),
			event(timeclock.EventClockOut, at("2025-03-10", "17:15")),
		}

		totals := agg.AggregatePeriod(events, date("2025-03-10"), date("2025-03-10"), time.UTC, 8, now)
		assert.Equal(t, 1.25, totals.OvertimeHours)
	})

	t.Run("short day never offsets a long one", func(t *testing.T) {
		events := []timeclock.ClockEvent{
			event(timeclock.EventClockIn, at("2025-03-10", "08:00")),
			event(timeclock.EventClockOut, at("2025-03-10", "17:00")), // 9h
			event(timeclock.EventClockIn, at("2025-03-11", "09:00")),
			event(timeclock.EventClockOut, at("2025-03-11", "16:00")), // 7h
		}

		totals := agg.AggregatePeriod(events, date("2025-03-10"), date("2025-03-11"), time.UTC, 8, now)
		assert.Equal(t, 1.0, totals.OvertimeHours)
		assert.Equal(t, 16.0, totals.TotalHours)
	})
}

func TestAggregator_DanglingSegmentOnPastDayContributesZero(t *testing.T) {
	agg := NewAggregator()
	events := []timeclock.ClockEvent{
		event(timeclock.EventClockIn, at("2025-03-10", "09:00")),
	}

	now := at("2025-03-15", "08:00")
	totals := agg.AggregatePeriod(events, date("2025-03-10"), date("2025-03-10"), time.UTC, 8, now)

	require.Len(t, totals.Days, 1)
	assert.Equal(t, time.Duration(0), totals.Days[0].Worked)
	assert.Equal(t, float64(0), totals.TotalHours)
}

func TestAggregator_InProgressDayCountsToNow(t *testing.T) {
	agg := NewAggregator()
	events := []timeclock.ClockEvent{
		event(timeclock.EventClockIn, at("2025-03-10", "09:00")),
	}

	now := at("2025-03-10", "11:30")
	totals := agg.AggregatePeriod(events, date("2025-03-10"), date("2025-03-10"), time.UTC, 8, now)

	require.Len(t, totals.Days, 1)
	assert.Equal(t, 150*time.Minute, totals.Days[0].Worked)
	assert.Equal(t, 2.5, totals.TotalHours)
}

func TestAggregator_RoundingHappensOnceAtPeriodEnd(t *testing.T) {
	agg := NewAggregator()
	// Two days of 7h20m each: 7.3333h. Rounding each day first would give
	// 7.33 + 7.33 = 14.66; summing durations then rounding gives 14.67.
	events := []timeclock.ClockEvent{
		event(timeclock.EventClockIn, at("2025-03-10", "09:00")),
		event(timeclock.EventClockOut, at("2025-03-10", "16:20")),
		event(timeclock.EventClockIn, at("2025-03-11", "09:00")),
		event(timeclock.EventClockOut, at("2025-03-11", "16:20")),
	}

	now := at("2025-03-20", "08:00")
	totals := agg.AggregatePeriod(events, date("2025-03-10"), date("2025-03-11"), time.UTC, 8, now)
	assert.Equal(t, 14.67, totals.TotalHours)
}

func TestAggregator_DaysOutsidePeriodAreIgnored(t *testing.T) {
	agg := NewAggregator()
	events := []timeclock.ClockEvent{
		event(timeclock.EventClockIn, at("2025-03-09", "09:00")),
		event(timeclock.EventClockOut, at("2025-03-09", "17:00")),
		event(timeclock.EventClockIn, at("2025-03-10", "09:00")),
		event(timeclock.EventClockOut, at("2025-03-10", "17:00")),
	}

	now := at("2025-03-20", "08:00")
	totals := agg.AggregatePeriod(events, date("2025-03-10"), date("2025-03-10"), time.UTC, 8, now)

	require.Len(t, totals.Days, 1)
	assert.Equal(t, 8.0, totals.TotalHours)
}

func TestAggregator_LocalTimezonePartitionsDays(t *testing.T) {
	agg := NewAggregator()
	jakarta, err := time.LoadLocation("Asia/Jakarta") // UTC+7
	require.NoError(t, err)

	// 22:00 UTC on March 10 is 05:00 March 11 in Jakarta.
	events := []timeclock.ClockEvent{
		event(timeclock.EventClockIn, at("2025-03-10", "22:00")),
		event(timeclock.EventClockOut, at("2025-03-11", "02:00")),
	}

	now := at("2025-03-20", "08:00")
	totals := agg.AggregatePeriod(events, date("2025-03-11"), date("2025-03-11"), jakarta, 8, now)

	require.Len(t, totals.Days, 1)
	assert.Equal(t, 4*time.Hour, totals.Days[0].Worked)
}

func TestAggregator_Snapshot(t *testing.T) {
	agg := NewAggregator()

	t.Run("no events", func(t *testing.T) {
		snap := agg.Snapshot(nil, at("2025-03-10", "10:00"))
		assert.Equal(t, timeclock.StatusNotClockedIn, snap.Status)
		assert.Nil(t, snap.LastEvent)
		assert.Equal(t, 0, snap.WorkedMinutes)
	})

	t.Run("open work segment counts to now", func(t *testing.T) {
		events := []timeclock.ClockEvent{
			event(timeclock.EventClockIn, at("2025-03-10", "09:00")),
		}
		snap := agg.Snapshot(events, at("2025-03-10", "10:30"))
		assert.Equal(t, timeclock.StatusClockedIn, snap.Status)
		assert.Equal(t, 90, snap.WorkedMinutes)
	})

	t.Run("open break segment counts to now", func(t *testing.T) {
		events := []timeclock.ClockEvent{
			event(timeclock.EventClockIn, at("2025-03-10", "09:00")),
			event(timeclock.EventBreakStart, at("2025-03-10", "12:00")),
		}
		snap := agg.Snapshot(events, at("2025-03-10", "12:20"))
		assert.Equal(t, timeclock.StatusOnBreak, snap.Status)
		assert.Equal(t, 180, snap.WorkedMinutes)
		assert.Equal(t, 20, snap.BreakMinutes)
	})

	t.Run("closed day is static", func(t *testing.T) {
		events := []timeclock.ClockEvent{
			event(timeclock.EventClockIn, at("2025-03-10", "09:00")),
			event(timeclock.EventClockOut, at("2025-03-10", "17:00")),
		}
		snap := agg.Snapshot(events, at("2025-03-10", "21:00"))
		assert.Equal(t, timeclock.StatusNotClockedIn, snap.Status)
		assert.Equal(t, 480, snap.WorkedMinutes)
		require.NotNil(t, snap.LastEvent)
		assert.Equal(t, timeclock.EventClockOut, snap.LastEvent.Kind)
	})
}
