package service

import (
	"context"
	"time"

	"reviwa-backend/internal/domain"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
	City     string
	State    string
}

// ProfileUpdate carries the fields a user may change on their own profile.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Name                    *string
	Bio                     *string
	AvatarURL               *string
	City                    *string
	State                   *string
	Point                   *domain.Point
	ClearPoint              bool
	Interests               []domain.SustainabilityInterest
	Privacy                 *domain.PrivacySettings
	NotificationPreferences *domain.NotificationPreferences
}

// ImageUpload is one raw image attached to a new report.
type ImageUpload struct {
	Filename string
	Data     []byte
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Me(ctx context.Context, userID int32) (*domain.User, error)
	// Authenticate resolves a session token to an active user.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) (*domain.User, string, error)
	TokenTTL() time.Duration
}

type ReportService interface {
	Create(ctx context.Context, actor *domain.User, report *domain.Report, images []ImageUpload) (*domain.Report, error)
	Get(ctx context.Context, id int32) (*domain.Report, error)
	List(ctx context.Context, q domain.ReportQuery) (*domain.ReportPage, error)
	UpdateStatus(ctx context.Context, actor *domain.User, id int32, target domain.ReportStatus, note string) (*domain.Report, error)
	Stats(ctx context.Context) (*domain.DashboardStats, error)
}

type UserService interface {
	// Get returns the profile of id as seen by viewer, which may be nil for
	// anonymous requests.
	Get(ctx context.Context, viewer *domain.User, id int32) (*domain.User, error)
	UpdateProfile(ctx context.Context, actor *domain.User, id int32, upd ProfileUpdate) (*domain.User, error)
	Leaderboard(ctx context.Context, window domain.LeaderboardWindow, limit int32) ([]domain.LeaderboardEntry, error)
}

type GamificationService interface {
	Award(ctx context.Context, userID int32, points int32, activity domain.ActivityType, reportID *int32) (*domain.PointsBalance, error)
	UnlockAchievement(ctx context.Context, userID int32, a domain.Achievement) (bool, error)
	History(ctx context.Context, userID int32, page, limit int32) ([]domain.PointsTransaction, int32, error)
}

type AdminService interface {
	ChangeRole(ctx context.Context, actor *domain.User, userID int32, role domain.Role) (*domain.User, error)
	Deactivate(ctx context.Context, actor *domain.User, userID int32) error
	DeleteReport(ctx context.Context, actor *domain.User, reportID int32) error
	// PromoteByEmail grants the admin role outside of a request, for
	// bootstrapping the first administrator.
	PromoteByEmail(ctx context.Context, email string) (*domain.User, error)
}

// MailService exposes the outbound mail transport for operator checks.
type MailService interface {
	// SendTest delivers a test message synchronously, so transport errors
	// reach the caller.
	SendTest(ctx context.Context, to string) error
}

// Notifier delivers user-facing notifications. Callers treat every method as
// best effort.
type Notifier interface {
	Welcome(ctx context.Context, user *domain.User) error
	ReportCreated(ctx context.Context, report *domain.Report, reporter *domain.User) error
	ReportStatusChanged(ctx context.Context, owner *domain.User, report *domain.Report, from domain.ReportStatus) error
	PointsMilestone(ctx context.Context, user *domain.User, points int32, m domain.Milestone) error
	PasswordReset(ctx context.Context, user *domain.User, token string, validFor time.Duration) error
}
