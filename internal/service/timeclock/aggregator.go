package timeclock

import (
	"math"
	"time"

	"github.com/shiftline/shiftline-backend-go/internal/domain/timeclock"
)

// Aggregator replays ordered clock events into worked, break, and overtime
// totals. It is the single source of truth for time arithmetic: live status,
// reports, overtime evaluation, and timesheet generation all route through it
// so every call path produces numerically identical answers.
type Aggregator struct {
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// DayTotals holds one local calendar day's replayed totals.
type DayTotals struct {
	Date          time.Time // local midnight
	Worked        time.Duration
	Break         time.Duration
	OvertimeHours float64 // per-day, unrounded
}

// PeriodTotals holds a closed date range's totals. Hours are rounded to two
// decimal places once, after summation, so per-day rounding error never
// compounds.
type PeriodTotals struct {
	Days             []DayTotals
	TotalHours       float64
	BreakHours       float64
	OvertimeHours    float64
	EntriesProcessed int
}

// Snapshot derives the current attendance view from one day's ordered events.
// Open work/break segments extend to now without touching stored data.
func (a *Aggregator) Snapshot(events []timeclock.ClockEvent, now time.Time) timeclock.AttendanceSnapshot {
	var last *timeclock.ClockEvent
	var lastKind *timeclock.EventKind
	if len(events) > 0 {
		last = &events[len(events)-1]
		lastKind = &last.Kind
	}

	status := timeclock.StatusAfter(lastKind)

	var openEnd *time.Time
	if status != timeclock.StatusNotClockedIn {
		openEnd = &now
	}
	worked, brk := closeSegments(events, openEnd)

	return timeclock.AttendanceSnapshot{
		Status:        status,
		LastEvent:     last,
		WorkedMinutes: int(worked.Minutes()),
		BreakMinutes:  int(brk.Minutes()),
	}
}

// AggregatePeriod replays a user's events over the inclusive date range
// [periodStart, periodEnd] interpreted in loc. Unlike Snapshot it works from
// stored events only: a dangling open segment on a completed past day
// contributes zero; on the current in-progress local day it counts up to now.
// Overtime is a per-day concept: threshold applies to each day's worked
// hours, never to the period total.
func (a *Aggregator) AggregatePeriod(
	events []timeclock.ClockEvent,
	periodStart, periodEnd time.Time,
	loc *time.Location,
	overtimeThresholdHours float64,
	now time.Time,
) PeriodTotals {
	byDay := make(map[string][]timeclock.ClockEvent)
	for _, e := range events {
		key := e.Timestamp.In(loc).Format("2006-01-02")
		byDay[key] = append(byDay[key], e)
	}

	today := now.In(loc).Format("2006-01-02")

	totals := PeriodTotals{EntriesProcessed: len(events)}
	var totalWorked, totalBreak time.Duration
	var totalOvertime float64

	start := time.Date(periodStart.Year(), periodStart.Month(), periodStart.Day(), 0, 0, 0, 0, loc)
	end := time.Date(periodEnd.Year(), periodEnd.Month(), periodEnd.Day(), 0, 0, 0, 0, loc)

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		dayEvents, ok := byDay[key]
		if !ok {
			continue
		}

		var openEnd *time.Time
		if key == today {
			openEnd = &now
		}

		worked, brk := closeSegments(dayEvents, openEnd)
		overtime := math.Max(0, worked.Hours()-overtimeThresholdHours)

		totals.Days = append(totals.Days, DayTotals{
			Date:          day,
			Worked:        worked,
			Break:         brk,
			OvertimeHours: overtime,
		})
		totalWorked += worked
		totalBreak += brk
		totalOvertime += overtime
	}

	totals.TotalHours = round2(totalWorked.Hours())
	totals.BreakHours = round2(totalBreak.Hours())
	totals.OvertimeHours = round2(totalOvertime)
	return totals
}

// closeSegments walks ordered events closing work segments on break_start and
// clock_out, and break segments on break_end. openEnd, when non-nil, extends
// a trailing open segment to that instant; when nil a dangling segment
// contributes nothing.
func closeSegments(events []timeclock.ClockEvent, openEnd *time.Time) (worked, brk time.Duration) {
	var openWork, openBreak *time.Time

	for _, e := range events {
		ts := e.Timestamp
		switch e.Kind {
		case timeclock.EventClockIn:
			if openWork == nil {
				openWork = &ts
			}
		case timeclock.EventBreakStart:
			if openWork != nil {
				worked += ts.Sub(*openWork)
				openWork = nil
			}
			openBreak = &ts
		case timeclock.EventBreakEnd:
			if openBreak != nil {
				brk += ts.Sub(*openBreak)
				openBreak = nil
			}
			openWork = &ts
		case timeclock.EventClockOut:
			if openWork != nil {
				worked += ts.Sub(*openWork)
				openWork = nil
			}
			openBreak = nil
		}
	}

	if openEnd != nil {
		if openWork != nil && openEnd.After(*openWork) {
			worked += openEnd.Sub(*openWork)
		}
		if openBreak != nil && openEnd.After(*openBreak) {
			brk += openEnd.Sub(*openBreak)
		}
	}

	if worked < 0 {
		worked = 0
	}
	return worked, brk
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
