package repository

import (
	"context"
	"time"

	"reviwa-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User) error
	UpdateRole(ctx context.Context, id int32, role domain.Role) error
	SetActive(ctx context.Context, id int32, active bool) error
	TouchLastLogin(ctx context.Context, id int32, at time.Time) error
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	Leaderboard(ctx context.Context, since *time.Time, limit int32) ([]domain.LeaderboardEntry, error)
	Count(ctx context.Context) (int32, error)
	SumPoints(ctx context.Context) (int64, error)

	// Password reset
	SetResetToken(ctx context.Context, id int32, tokenHash string, expires time.Time) error
	GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int32, passwordHash string) error
	PurgeExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)

	// Maintenance
	RecountReportCounters(ctx context.Context) (int64, error)
}

type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id int32) (*domain.Report, error)
	// UpdateStatus applies the change only if the report is still in status
	// from, and returns domain.ErrInvalidTransition otherwise.
	UpdateStatus(ctx context.Context, report *domain.Report, from domain.ReportStatus, actorID int32) error
	SoftDelete(ctx context.Context, id int32) error
	List(ctx context.Context, q domain.ReportQuery) ([]domain.Report, int32, error)
	CountByStatus(ctx context.Context) (map[domain.ReportStatus]int32, error)
}

type AchievementRepository interface {
	// Unlock inserts the achievement unless the user already holds one with
	// the same key. It reports whether a row was inserted.
	Unlock(ctx context.Context, userID int32, a *domain.Achievement) (bool, error)
	ListByUser(ctx context.Context, userID int32) ([]domain.Achievement, error)
}

type PointsRepository interface {
	// Award appends tx to the ledger and atomically increments the user's
	// balance and activity counter.
	Award(ctx context.Context, tx *domain.PointsTransaction) (*domain.PointsBalance, error)
	ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.PointsTransaction, int32, error)
	// FindDrift returns users whose balance differs from their ledger sum.
	FindDrift(ctx context.Context) ([]PointsDrift, error)
}

type PointsDrift struct {
	UserID      int32
	GreenPoints int32
	LedgerSum   int64
}

type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
	ListByTarget(ctx context.Context, targetType string, targetID int32) ([]domain.AuditEntry, error)
}
