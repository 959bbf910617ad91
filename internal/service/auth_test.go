package service_test

import (
	"context"
	"testing"
	"time"

	"reviwa-backend/internal/domain"
	"reviwa-backend/internal/security"
	"reviwa-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type authFixture struct {
	userRepo *MockUserRepo
	achRepo  *MockAchievementRepo
	gami     *MockGamification
	notifier *MockNotifier
	tokens   security.TokenManager
	svc      service.AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		userRepo: new(MockUserRepo),
		achRepo:  new(MockAchievementRepo),
		gami:     new(MockGamification),
		notifier: new(MockNotifier),
		tokens:   security.NewTokenManager(testSecret, time.Hour),
	}
	f.svc = service.NewAuthService(f.userRepo, f.achRepo, f.gami, f.tokens, f.notifier)
	return f
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("citizen gets welcome bonus", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.On("GetByEmail", ctx, "jane@example.com").Return(nil, domain.NotFoundf("user not found")).Once()
		f.userRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.Email == "jane@example.com" && u.Role == domain.RoleCitizen &&
				u.PasswordHash != "Secret1" && u.Privacy.ShowOnLeaderboard && u.IsActive
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = 7
		}).Return(nil).Once()
		f.gami.On("Award", ctx, int32(7), domain.PointsWelcomeBonus, domain.ActivityWelcomeBonus, (*int32)(nil)).
			Return(&domain.PointsBalance{UserID: 7, GreenPoints: 10}, nil).Once()
		f.notifier.On("Welcome", ctx, mock.Anything).Return(nil).Once()

		user, token, err := f.svc.Register(ctx, service.RegisterInput{
			Name: "Jane Doe", Email: "Jane@Example.com", Password: "Secret1",
		})
		require.NoError(t, err)
		assert.Equal(t, int32(7), user.ID)
		assert.Equal(t, int32(10), user.GreenPoints)
		assert.Equal(t, domain.LevelGreenNewcomer, user.SustainabilityLevel)

		claims, err := f.tokens.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, int32(7), claims.UserID)

		f.userRepo.AssertExpectations(t)
		f.gami.AssertExpectations(t)
		f.notifier.AssertExpectations(t)
	})

	t.Run("environmental org gets no bonus", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.On("GetByEmail", ctx, "org@example.com").Return(nil, domain.NotFoundf("user not found")).Once()
		f.userRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.notifier.On("Welcome", ctx, mock.Anything).Return(assert.AnError).Once()

		user, _, err := f.svc.Register(ctx, service.RegisterInput{
			Name: "Green Org", Email: "org@example.com", Password: "Secret1", Role: domain.RoleEnvironmentalOrg,
		})
		require.NoError(t, err)
		assert.Equal(t, int32(0), user.GreenPoints)
		f.gami.AssertNotCalled(t, "Award", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.On("GetByEmail", ctx, "jane@example.com").Return(&domain.User{ID: 1}, nil).Once()

		_, _, err := f.svc.Register(ctx, service.RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "Secret1"})
		assert.ErrorIs(t, err, domain.ErrConflict)
		f.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects admin role", func(t *testing.T) {
		f := newAuthFixture()
		_, _, err := f.svc.Register(ctx, service.RegisterInput{Name: "Eve", Email: "eve@example.com", Password: "Secret1", Role: domain.RoleAdmin})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("input validation", func(t *testing.T) {
		f := newAuthFixture()
		cases := []service.RegisterInput{
			{Name: "J", Email: "jane@example.com", Password: "Secret1"},
			{Name: "Jane", Email: "not-an-email", Password: "Secret1"},
			{Name: "Jane", Email: "jane@example.com", Password: "secret"},
		}
		for _, in := range cases {
			_, _, err := f.svc.Register(ctx, in)
			assert.ErrorIs(t, err, domain.ErrValidation, "%+v", in)
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := security.HashPassword("Secret1")
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.On("GetByEmail", ctx, "jane@example.com").
			Return(&domain.User{ID: 3, Email: "jane@example.com", PasswordHash: hash, Role: domain.RoleCitizen, IsActive: true}, nil).Once()
		f.userRepo.On("TouchLastLogin", ctx, int32(3), mock.AnythingOfType("time.Time")).Return(nil).Once()

		user, token, err := f.svc.Login(ctx, "JANE@example.com", "Secret1")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.NotNil(t, user.LastLogin)
		f.userRepo.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.On("GetByEmail", ctx, "jane@example.com").
			Return(&domain.User{ID: 3, PasswordHash: hash, IsActive: true}, nil).Once()

		_, _, err := f.svc.Login(ctx, "jane@example.com", "Wrong1")
		assert.ErrorIs(t, err, domain.ErrAuthentication)
		assert.Equal(t, "invalid email or password", domain.Message(err))
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, domain.NotFoundf("user not found")).Once()

		_, _, err := f.svc.Login(ctx, "nobody@example.com", "Secret1")
		assert.ErrorIs(t, err, domain.ErrAuthentication)
	})

	t.Run("deactivated account", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.On("GetByEmail", ctx, "jane@example.com").
			Return(&domain.User{ID: 3, PasswordHash: hash, IsActive: false}, nil).Once()

		_, _, err := f.svc.Login(ctx, "jane@example.com", "Secret1")
		assert.ErrorIs(t, err, domain.ErrAuthentication)
		assert.Equal(t, "Account is deactivated", domain.Message(err))
		f.userRepo.AssertNotCalled(t, "TouchLastLogin", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	user := &domain.User{ID: 9, Role: domain.RoleAdmin, IsActive: true}
	token, _, err := f.tokens.Generate(user)
	require.NoError(t, err)

	f.userRepo.On("GetByID", ctx, int32(9)).Return(user, nil).Once()
	got, err := f.svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user, got)

	_, err = f.svc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, domain.ErrAuthentication)

	f.userRepo.On("GetByID", ctx, int32(9)).Return(&domain.User{ID: 9, IsActive: false}, nil).Once()
	_, err = f.svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, domain.ErrAuthentication)
}

func TestAuthService_Me(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	achievements := []domain.Achievement{domain.FirstReportAchievement()}
	f.userRepo.On("GetByID", ctx, int32(2)).Return(&domain.User{ID: 2}, nil).Once()
	f.achRepo.On("ListByUser", ctx, int32(2)).Return(achievements, nil).Once()

	user, err := f.svc.Me(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, achievements, user.Achievements)
}

func TestAuthService_PasswordReset(t *testing.T) {
	ctx := context.Background()

	t.Run("forgot password for unknown email is silent", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, domain.NotFoundf("user not found")).Once()

		assert.NoError(t, f.svc.ForgotPassword(ctx, "ghost@example.com"))
		f.userRepo.AssertNotCalled(t, "SetResetToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("forgot password stores hash and emails token", func(t *testing.T) {
		f := newAuthFixture()
		user := &domain.User{ID: 5, Email: "jane@example.com", IsActive: true}
		var storedHash, sentToken string
		f.userRepo.On("GetByEmail", ctx, "jane@example.com").Return(user, nil).Once()
		f.userRepo.On("SetResetToken", ctx, int32(5), mock.AnythingOfType("string"), mock.MatchedBy(func(exp time.Time) bool {
			return time.Until(exp) > 9*time.Minute && time.Until(exp) <= service.ResetTokenTTL
		})).Run(func(args mock.Arguments) {
			storedHash = args.String(2)
		}).Return(nil).Once()
		f.notifier.On("PasswordReset", ctx, user, mock.AnythingOfType("string"), service.ResetTokenTTL).Run(func(args mock.Arguments) {
			sentToken = args.String(2)
		}).Return(nil).Once()

		require.NoError(t, f.svc.ForgotPassword(ctx, "jane@example.com"))
		assert.Len(t, sentToken, 40)
		assert.Equal(t, security.HashResetToken(sentToken), storedHash)
	})

	t.Run("reset with valid token", func(t *testing.T) {
		f := newAuthFixture()
		user := &domain.User{ID: 5, Email: "jane@example.com", IsActive: true, ResetTokenHash: "x"}
		f.userRepo.On("GetByResetToken", ctx, security.HashResetToken("tok"), mock.AnythingOfType("time.Time")).Return(user, nil).Once()
		f.userRepo.On("UpdatePassword", ctx, int32(5), mock.AnythingOfType("string")).Return(nil).Once()

		got, token, err := f.svc.ResetPassword(ctx, "tok", "NewSecret2")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Empty(t, got.ResetTokenHash)
		assert.NoError(t, security.CheckPassword(got.PasswordHash, "NewSecret2"))
	})

	t.Run("reset with expired token", func(t *testing.T) {
		f := newAuthFixture()
		f.userRepo.On("GetByResetToken", ctx, security.HashResetToken("old"), mock.Anything).Return(nil, domain.NotFoundf("user not found")).Once()

		_, _, err := f.svc.ResetPassword(ctx, "old", "NewSecret2")
		assert.ErrorIs(t, err, domain.ErrValidation)
		f.userRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})
}
