package http_test

import (
	"context"
	"time"

	"reviwa-backend/internal/domain"
	"reviwa-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockAuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*domain.User, string, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}
func (m *MockAuthService) Me(ctx context.Context, userID int32) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}
func (m *MockAuthService) ResetPassword(ctx context.Context, token, password string) (*domain.User, string, error) {
	args := m.Called(ctx, token, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}
func (m *MockAuthService) TokenTTL() time.Duration {
	return 30 * 24 * time.Hour
}

// MockReportService
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Create(ctx context.Context, actor *domain.User, report *domain.Report, images []service.ImageUpload) (*domain.Report, error) {
	args := m.Called(ctx, actor, report, images)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}
func (m *MockReportService) Get(ctx context.Context, id int32) (*domain.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}
func (m *MockReportService) List(ctx context.Context, q domain.ReportQuery) (*domain.ReportPage, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReportPage), args.Error(1)
}
func (m *MockReportService) UpdateStatus(ctx context.Context, actor *domain.User, id int32, target domain.ReportStatus, note string) (*domain.Report, error) {
	args := m.Called(ctx, actor, id, target, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}
func (m *MockReportService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardStats), args.Error(1)
}

// MockUserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Get(ctx context.Context, viewer *domain.User, id int32) (*domain.User, error) {
	args := m.Called(ctx, viewer, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) UpdateProfile(ctx context.Context, actor *domain.User, id int32, upd service.ProfileUpdate) (*domain.User, error) {
	args := m.Called(ctx, actor, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) Leaderboard(ctx context.Context, window domain.LeaderboardWindow, limit int32) ([]domain.LeaderboardEntry, error) {
	args := m.Called(ctx, window, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LeaderboardEntry), args.Error(1)
}

// MockAdminService
type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) ChangeRole(ctx context.Context, actor *domain.User, userID int32, role domain.Role) (*domain.User, error) {
	args := m.Called(ctx, actor, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockAdminService) Deactivate(ctx context.Context, actor *domain.User, userID int32) error {
	args := m.Called(ctx, actor, userID)
	return args.Error(0)
}
func (m *MockAdminService) DeleteReport(ctx context.Context, actor *domain.User, reportID int32) error {
	args := m.Called(ctx, actor, reportID)
	return args.Error(0)
}
func (m *MockAdminService) PromoteByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockGamificationService
type MockGamificationService struct {
	mock.Mock
}

func (m *MockGamificationService) Award(ctx context.Context, userID int32, points int32, activity domain.ActivityType, reportID *int32) (*domain.PointsBalance, error) {
	args := m.Called(ctx, userID, points, activity, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PointsBalance), args.Error(1)
}
func (m *MockGamificationService) UnlockAchievement(ctx context.Context, userID int32, a domain.Achievement) (bool, error) {
	args := m.Called(ctx, userID, a)
	return args.Bool(0), args.Error(1)
}
func (m *MockGamificationService) History(ctx context.Context, userID int32, page, limit int32) ([]domain.PointsTransaction, int32, error) {
	args := m.Called(ctx, userID, page, limit)
	return args.Get(0).([]domain.PointsTransaction), args.Get(1).(int32), args.Error(2)
}

// MockMailService
type MockMailService struct {
	mock.Mock
}

func (m *MockMailService) SendTest(ctx context.Context, to string) error {
	args := m.Called(ctx, to)
	return args.Error(0)
}
