package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/shiftline/shiftline-backend-go/internal/service/sweep"
)

// TimeclockJobs holds the scheduled jobs for the timeclock subsystem.
type TimeclockJobs struct {
	sweepService *sweep.Service
	interval     time.Duration
}

func NewTimeclockJobs(sweepService *sweep.Service, interval time.Duration) *TimeclockJobs {
	return &TimeclockJobs{
		sweepService: sweepService,
		interval:     interval,
	}
}

// RegisterJobs registers all timeclock jobs with the scheduler.
func (j *TimeclockJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_clock_out_sweep", j.interval, j.runSweep)
}

func (j *TimeclockJobs) runSweep(ctx context.Context) error {
	summary, err := j.sweepService.Run(ctx)
	if err != nil {
		return err
	}

	slog.Info("Auto clock-out sweep completed",
		"organizations_scanned", summary.OrganizationsScanned,
		"processed", summary.Processed,
		"clocked_out", summary.ClockedOut,
		"errors", len(summary.Errors),
	)
	return nil
}
