package service_test

import (
	"context"
	"io"
	"time"

	"reviwa-backend/internal/domain"
	"reviwa-backend/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) UpdateProfile(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) UpdateRole(ctx context.Context, id int32, role domain.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}
func (m *MockUserRepo) SetActive(ctx context.Context, id int32, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}
func (m *MockUserRepo) TouchLastLogin(ctx context.Context, id int32, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}
func (m *MockUserRepo) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) Leaderboard(ctx context.Context, since *time.Time, limit int32) ([]domain.LeaderboardEntry, error) {
	args := m.Called(ctx, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LeaderboardEntry), args.Error(1)
}
func (m *MockUserRepo) Count(ctx context.Context) (int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockUserRepo) SumPoints(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockUserRepo) SetResetToken(ctx context.Context, id int32, tokenHash string, expires time.Time) error {
	args := m.Called(ctx, id, tokenHash, expires)
	return args.Error(0)
}
func (m *MockUserRepo) GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	args := m.Called(ctx, tokenHash, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) UpdatePassword(ctx context.Context, id int32, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}
func (m *MockUserRepo) PurgeExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockUserRepo) RecountReportCounters(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockReportRepo
type MockReportRepo struct {
	mock.Mock
}

func (m *MockReportRepo) Create(ctx context.Context, report *domain.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}
func (m *MockReportRepo) GetByID(ctx context.Context, id int32) (*domain.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}
func (m *MockReportRepo) UpdateStatus(ctx context.Context, report *domain.Report, from domain.ReportStatus, actorID int32) error {
	args := m.Called(ctx, report, from, actorID)
	return args.Error(0)
}
func (m *MockReportRepo) SoftDelete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockReportRepo) List(ctx context.Context, q domain.ReportQuery) ([]domain.Report, int32, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int32), args.Error(2)
	}
	return args.Get(0).([]domain.Report), args.Get(1).(int32), args.Error(2)
}
func (m *MockReportRepo) CountByStatus(ctx context.Context) (map[domain.ReportStatus]int32, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.ReportStatus]int32), args.Error(1)
}

// MockAchievementRepo
type MockAchievementRepo struct {
	mock.Mock
}

func (m *MockAchievementRepo) Unlock(ctx context.Context, userID int32, a *domain.Achievement) (bool, error) {
	args := m.Called(ctx, userID, a)
	return args.Bool(0), args.Error(1)
}
func (m *MockAchievementRepo) ListByUser(ctx context.Context, userID int32) ([]domain.Achievement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Achievement), args.Error(1)
}

// MockPointsRepo
type MockPointsRepo struct {
	mock.Mock
}

func (m *MockPointsRepo) Award(ctx context.Context, tx *domain.PointsTransaction) (*domain.PointsBalance, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PointsBalance), args.Error(1)
}
func (m *MockPointsRepo) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.PointsTransaction, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.PointsTransaction), args.Get(1).(int32), args.Error(2)
}
func (m *MockPointsRepo) FindDrift(ctx context.Context) ([]repository.PointsDrift, error) {
	args := m.Called(ctx)
	return args.Get(0).([]repository.PointsDrift), args.Error(1)
}

// MockAuditRepo
type MockAuditRepo struct {
	mock.Mock
}

func (m *MockAuditRepo) Create(ctx context.Context, entry *domain.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *MockAuditRepo) ListByTarget(ctx context.Context, targetType string, targetID int32) ([]domain.AuditEntry, error) {
	args := m.Called(ctx, targetType, targetID)
	return args.Get(0).([]domain.AuditEntry), args.Error(1)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Welcome(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockNotifier) ReportCreated(ctx context.Context, report *domain.Report, reporter *domain.User) error {
	args := m.Called(ctx, report, reporter)
	return args.Error(0)
}
func (m *MockNotifier) ReportStatusChanged(ctx context.Context, owner *domain.User, report *domain.Report, from domain.ReportStatus) error {
	args := m.Called(ctx, owner, report, from)
	return args.Error(0)
}
func (m *MockNotifier) PointsMilestone(ctx context.Context, user *domain.User, points int32, ms domain.Milestone) error {
	args := m.Called(ctx, user, points, ms)
	return args.Error(0)
}
func (m *MockNotifier) PasswordReset(ctx context.Context, user *domain.User, token string, validFor time.Duration) error {
	args := m.Called(ctx, user, token, validFor)
	return args.Error(0)
}

// MockGamification
type MockGamification struct {
	mock.Mock
}

func (m *MockGamification) Award(ctx context.Context, userID int32, points int32, activity domain.ActivityType, reportID *int32) (*domain.PointsBalance, error) {
	args := m.Called(ctx, userID, points, activity, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PointsBalance), args.Error(1)
}
func (m *MockGamification) UnlockAchievement(ctx context.Context, userID int32, a domain.Achievement) (bool, error) {
	args := m.Called(ctx, userID, a)
	return args.Bool(0), args.Error(1)
}
func (m *MockGamification) History(ctx context.Context, userID int32, page, limit int32) ([]domain.PointsTransaction, int32, error) {
	args := m.Called(ctx, userID, page, limit)
	return args.Get(0).([]domain.PointsTransaction), args.Get(1).(int32), args.Error(2)
}

// MockLeaderboardCache
type MockLeaderboardCache struct {
	mock.Mock
}

func (m *MockLeaderboardCache) Get(ctx context.Context, window domain.LeaderboardWindow, limit int32) ([]domain.LeaderboardEntry, bool, error) {
	args := m.Called(ctx, window, limit)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]domain.LeaderboardEntry), args.Bool(1), args.Error(2)
}
func (m *MockLeaderboardCache) Set(ctx context.Context, window domain.LeaderboardWindow, limit int32, entries []domain.LeaderboardEntry) error {
	args := m.Called(ctx, window, limit, entries)
	return args.Error(0)
}
func (m *MockLeaderboardCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockStorage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Save(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	args := m.Called(ctx, key, contentType, r, size)
	return args.String(0), args.Error(1)
}
func (m *MockStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}
func (m *MockStorage) Exists(ctx context.Context, key string) (bool, int64, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}
func (m *MockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
func (m *MockStorage) URL(key string) string {
	args := m.Called(key)
	return args.String(0)
}
