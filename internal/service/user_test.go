package service_test

import (
	"context"
	"testing"
	"time"

	"reviwa-backend/internal/domain"
	"reviwa-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_Leaderboard(t *testing.T) {
	ctx := context.Background()
	entries := []domain.LeaderboardEntry{{Rank: 1, UserID: 3, Name: "Top", GreenPoints: 300}}

	t.Run("cache hit skips database", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		lb := new(MockLeaderboardCache)
		svc := service.NewUserService(userRepo, nil, lb)

		lb.On("Get", ctx, domain.LeaderboardAllTime, int32(10)).Return(entries, true, nil).Once()

		got, err := svc.Leaderboard(ctx, "", 0)
		require.NoError(t, err)
		assert.Equal(t, entries, got)
		userRepo.AssertNotCalled(t, "Leaderboard", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		lb := new(MockLeaderboardCache)
		svc := service.NewUserService(userRepo, nil, lb)

		lb.On("Get", ctx, domain.LeaderboardMonthly, int32(100)).Return(nil, false, nil).Once()
		userRepo.On("Leaderboard", ctx, mock.MatchedBy(func(since *time.Time) bool {
			return since != nil && time.Since(*since) > 27*24*time.Hour
		}), int32(100)).Return(entries, nil).Once()
		lb.On("Set", ctx, domain.LeaderboardMonthly, int32(100), entries).Return(nil).Once()

		got, err := svc.Leaderboard(ctx, domain.LeaderboardMonthly, 500)
		require.NoError(t, err)
		assert.Equal(t, entries, got)
		userRepo.AssertExpectations(t)
		lb.AssertExpectations(t)
	})

	t.Run("cache errors fall through to database", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		lb := new(MockLeaderboardCache)
		svc := service.NewUserService(userRepo, nil, lb)

		lb.On("Get", ctx, domain.LeaderboardAllTime, int32(5)).Return(nil, false, assert.AnError).Once()
		userRepo.On("Leaderboard", ctx, (*time.Time)(nil), int32(5)).Return(nil, nil).Once()
		lb.On("Set", ctx, domain.LeaderboardAllTime, int32(5), []domain.LeaderboardEntry{}).Return(assert.AnError).Once()

		got, err := svc.Leaderboard(ctx, domain.LeaderboardAllTime, 5)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("invalid window", func(t *testing.T) {
		svc := service.NewUserService(nil, nil, nil)
		_, err := svc.Leaderboard(ctx, "weekly", 10)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestUserService_Get(t *testing.T) {
	ctx := context.Background()
	profile := func() *domain.User {
		return &domain.User{
			ID:       4,
			Name:     "Kim",
			Email:    "kim@example.com",
			Bio:      "Loves parks",
			IsActive: true,
			Location: domain.UserLocation{City: "Accra"},
			Privacy:  domain.PrivacySettings{ShowOnLeaderboard: true, PublicProfile: true, ShowLocation: false},
		}
	}

	t.Run("anonymous viewer gets public view", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		achRepo := new(MockAchievementRepo)
		svc := service.NewUserService(userRepo, achRepo, nil)
		userRepo.On("GetByID", ctx, int32(4)).Return(profile(), nil).Once()
		achRepo.On("ListByUser", ctx, int32(4)).Return([]domain.Achievement{}, nil).Once()

		got, err := svc.Get(ctx, nil, 4)
		require.NoError(t, err)
		assert.Empty(t, got.Email)
		assert.Empty(t, got.Location.City)
		assert.Equal(t, "Loves parks", got.Bio)
	})

	t.Run("self sees everything", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		achRepo := new(MockAchievementRepo)
		svc := service.NewUserService(userRepo, achRepo, nil)
		userRepo.On("GetByID", ctx, int32(4)).Return(profile(), nil).Once()
		achRepo.On("ListByUser", ctx, int32(4)).Return([]domain.Achievement{}, nil).Once()

		got, err := svc.Get(ctx, &domain.User{ID: 4}, 4)
		require.NoError(t, err)
		assert.Equal(t, "kim@example.com", got.Email)
		assert.Equal(t, "Accra", got.Location.City)
	})

	t.Run("deactivated user is hidden", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := service.NewUserService(userRepo, nil, nil)
		u := profile()
		u.IsActive = false
		userRepo.On("GetByID", ctx, int32(4)).Return(u, nil).Once()

		_, err := svc.Get(ctx, &domain.User{ID: 8, Role: domain.RoleCitizen}, 4)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	self := &domain.User{ID: 4, Role: domain.RoleCitizen, IsActive: true}

	t.Run("updates provided fields only", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		lb := new(MockLeaderboardCache)
		svc := service.NewUserService(userRepo, nil, lb)

		userRepo.On("GetByID", ctx, int32(4)).Return(&domain.User{ID: 4, Name: "Kim", Bio: "old", Privacy: domain.DefaultPrivacySettings()}, nil).Once()
		userRepo.On("UpdateProfile", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.Name == "Kim" && u.Bio == "new bio" && u.Location.Point != nil && !u.Privacy.ShowOnLeaderboard &&
				len(u.Interests) == 1
		})).Return(nil).Once()
		lb.On("Invalidate", ctx).Return(nil).Once()

		bio := " new bio "
		privacy := domain.PrivacySettings{ShowOnLeaderboard: false, PublicProfile: true, ShowLocation: true}
		got, err := svc.UpdateProfile(ctx, self, 4, service.ProfileUpdate{
			Bio:       &bio,
			Point:     &domain.Point{Longitude: 1, Latitude: 2},
			Interests: []domain.SustainabilityInterest{domain.InterestRecycling},
			Privacy:   &privacy,
		})
		require.NoError(t, err)
		assert.Equal(t, "new bio", got.Bio)
		userRepo.AssertExpectations(t)
		lb.AssertExpectations(t)
	})

	t.Run("other users are refused", func(t *testing.T) {
		svc := service.NewUserService(new(MockUserRepo), nil, nil)
		_, err := svc.UpdateProfile(ctx, self, 5, service.ProfileUpdate{})
		assert.ErrorIs(t, err, domain.ErrAuthorization)
	})

	t.Run("invalid interest", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := service.NewUserService(userRepo, nil, nil)
		userRepo.On("GetByID", ctx, int32(4)).Return(&domain.User{ID: 4}, nil).Once()

		_, err := svc.UpdateProfile(ctx, self, 4, service.ProfileUpdate{
			Interests: []domain.SustainabilityInterest{"knitting"},
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
		userRepo.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything)
	})
}
