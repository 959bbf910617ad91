package jobs

import (
	"context"
	"fmt"
	"sort"
	"time"

	"reviwa-backend/internal/cache"
	"reviwa-backend/internal/config"
	"reviwa-backend/internal/logger"
	"reviwa-backend/internal/repository"
)

// Job names accepted by Run.
const (
	RecountReportCountersJob   = "recount-report-counters"
	PointsDriftJob             = "points-drift"
	PurgeExpiredResetTokensJob = "purge-expired-reset-tokens"
	AllJob                     = "all"
)

// JobRunner coordinates all maintenance jobs
type JobRunner struct {
	users       repository.UserRepository
	points      repository.PointsRepository
	leaderboard cache.LeaderboardCache
	config      *config.Config
	now         func() time.Time
	timeout     time.Duration
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(
	users repository.UserRepository,
	points repository.PointsRepository,
	leaderboard cache.LeaderboardCache,
	cfg *config.Config,
) *JobRunner {
	return &JobRunner{
		users:       users,
		points:      points,
		leaderboard: leaderboard,
		config:      cfg,
		now:         time.Now,
		timeout:     10 * time.Minute,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// Names lists the jobs Run understands, excluding AllJob.
func Names() []string {
	names := []string{RecountReportCountersJob, PointsDriftJob, PurgeExpiredResetTokensJob}
	sort.Strings(names)
	return names
}

// Run executes a single job by name, or every job for AllJob.
func (jr *JobRunner) Run(ctx context.Context, name string) error {
	switch name {
	case RecountReportCountersJob:
		_, err := jr.RecountReportCounters(ctx)
		return err
	case PointsDriftJob:
		_, err := jr.CheckPointsDrift(ctx)
		return err
	case PurgeExpiredResetTokensJob:
		_, err := jr.PurgeExpiredResetTokens(ctx)
		return err
	case AllJob:
		for _, n := range Names() {
			if err := jr.Run(ctx, n); err != nil {
				return fmt.Errorf("job %s failed: %w", n, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown job: %s", name)
	}
}

// Scheduled returns a cron-friendly func for the named job. Each invocation
// gets its own timeout and never propagates a panic.
func (jr *JobRunner) Scheduled(name string) func() {
	return func() {
		jr.runWithRecovery(name, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jr.timeout)
			defer cancel()
			if err := jr.Run(ctx, name); err != nil {
				logger.Error("Job failed", "job", name, "error", err)
			}
		})
	}
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	start := jr.now()
	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName, "duration_ms", jr.now().Sub(start).Milliseconds())
}
