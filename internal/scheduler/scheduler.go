package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"reviwa-backend/internal/jobs"
	"reviwa-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs()
	return s
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() {
	cfg := s.jobs.Config().Scheduler

	specs := []struct {
		job  string
		spec string
	}{
		{jobs.RecountReportCountersJob, cfg.RecountReportCounters},
		{jobs.PointsDriftJob, cfg.PointsDrift},
		{jobs.PurgeExpiredResetTokensJob, cfg.PurgeExpiredResetTokens},
	}

	registered := 0
	for _, j := range specs {
		if _, err := s.cron.AddFunc(j.spec, s.jobs.Scheduled(j.job)); err != nil {
			logger.Error("Failed to register job", "job", j.job, "spec", j.spec, "error", err)
			continue
		}
		registered++
	}

	logger.Info("Cron jobs registered", "count", registered)
}

func (s *Scheduler) Start() {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		logger.Info("Next scheduled run", "entry", e.ID, "at", e.Next)
	}
}

// Stop halts scheduling and waits for running jobs until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		logger.Info("Cron scheduler stopped")
		return nil
	case <-ctx.Done():
		logger.Warn("Cron scheduler stopped with jobs still running")
		return ctx.Err()
	}
}

// Entries returns the number of registered jobs
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
