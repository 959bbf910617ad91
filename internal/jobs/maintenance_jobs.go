package jobs

import (
	"context"
	"fmt"

	"reviwa-backend/internal/logger"
	"reviwa-backend/internal/repository"
)

// RecountReportCounters recomputes each user's submitted and verified report
// counters from the reports table. Levels shown on the leaderboard depend on
// them, so the cache is dropped when anything changed.
func (jr *JobRunner) RecountReportCounters(ctx context.Context) (int64, error) {
	updated, err := jr.users.RecountReportCounters(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to recount report counters: %w", err)
	}
	logger.Info("Recounted report counters", "users_updated", updated)

	if updated > 0 && jr.leaderboard != nil {
		if err := jr.leaderboard.Invalidate(ctx); err != nil {
			logger.Warn("Failed to invalidate leaderboard cache", "error", err)
		}
	}
	return updated, nil
}

// CheckPointsDrift logs every user whose green_points balance disagrees with
// the sum of their ledger entries. Balances are never rewritten here.
func (jr *JobRunner) CheckPointsDrift(ctx context.Context) ([]repository.PointsDrift, error) {
	drift, err := jr.points.FindDrift(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check points drift: %w", err)
	}
	for _, d := range drift {
		logger.Warn("Points balance drift detected",
			"user_id", d.UserID,
			"green_points", d.GreenPoints,
			"ledger_sum", d.LedgerSum,
			"difference", int64(d.GreenPoints)-d.LedgerSum)
	}
	logger.Info("Points drift check finished", "drifted_users", len(drift))
	return drift, nil
}

// PurgeExpiredResetTokens clears password reset tokens past their expiry.
func (jr *JobRunner) PurgeExpiredResetTokens(ctx context.Context) (int64, error) {
	purged, err := jr.users.PurgeExpiredResetTokens(ctx, jr.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired reset tokens: %w", err)
	}
	logger.Info("Purged expired reset tokens", "count", purged)
	return purged, nil
}
