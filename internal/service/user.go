package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"reviwa-backend/internal/cache"
	"reviwa-backend/internal/domain"
	"reviwa-backend/internal/logger"
	"reviwa-backend/internal/repository"
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
	maxBioLength            = 500
)

type userService struct {
	userRepo        repository.UserRepository
	achievementRepo repository.AchievementRepository
	leaderboard     cache.LeaderboardCache
	now             func() time.Time
}

func NewUserService(
	userRepo repository.UserRepository,
	achievementRepo repository.AchievementRepository,
	leaderboard cache.LeaderboardCache,
) UserService {
	return &userService{
		userRepo:        userRepo,
		achievementRepo: achievementRepo,
		leaderboard:     leaderboard,
		now:             time.Now,
	}
}

func (s *userService) Get(ctx context.Context, viewer *domain.User, id int32) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	privileged := viewer != nil && (viewer.ID == user.ID || viewer.IsAdmin())
	if !user.IsActive && !privileged {
		return nil, domain.NotFoundf("user not found")
	}

	achievements, err := s.achievementRepo.ListByUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	user.Achievements = achievements

	if privileged {
		return user, nil
	}
	return user.PublicView(), nil
}

func (s *userService) UpdateProfile(ctx context.Context, actor *domain.User, id int32, upd ProfileUpdate) (*domain.User, error) {
	logger.EnterMethod("userService.UpdateProfile", "actorID", actor.ID, "userID", id)

	if actor.ID != id && !actor.IsAdmin() {
		return nil, domain.Authorizationf("not authorized to update this profile")
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		user.Name = name
	}
	if upd.Bio != nil {
		bio := strings.TrimSpace(*upd.Bio)
		if len(bio) > maxBioLength {
			return nil, domain.Validationf("bio cannot exceed %d characters", maxBioLength)
		}
		user.Bio = bio
	}
	if upd.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*upd.AvatarURL)
	}
	if upd.City != nil {
		user.Location.City = strings.TrimSpace(*upd.City)
	}
	if upd.State != nil {
		user.Location.State = strings.TrimSpace(*upd.State)
	}
	if upd.ClearPoint {
		user.Location.Point = nil
	} else if upd.Point != nil {
		if err := upd.Point.Validate(); err != nil {
			return nil, err
		}
		p := *upd.Point
		user.Location.Point = &p
	}
	if upd.Interests != nil {
		for _, in := range upd.Interests {
			if !in.Valid() {
				return nil, domain.Validationf("invalid sustainability interest %q", in)
			}
		}
		user.Interests = upd.Interests
	}
	privacyChanged := false
	if upd.Privacy != nil {
		privacyChanged = user.Privacy.ShowOnLeaderboard != upd.Privacy.ShowOnLeaderboard
		user.Privacy = *upd.Privacy
	}
	if upd.NotificationPreferences != nil {
		user.NotificationPreferences = *upd.NotificationPreferences
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		logger.ExitMethodWithError("userService.UpdateProfile", err, "userID", id)
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if privacyChanged || upd.Name != nil || upd.AvatarURL != nil {
		if err := s.leaderboard.Invalidate(ctx); err != nil {
			logger.Warn("Failed to invalidate leaderboard cache", "error", err)
		}
	}

	logger.ExitMethod("userService.UpdateProfile", "userID", id)
	return user, nil
}

func (s *userService) Leaderboard(ctx context.Context, window domain.LeaderboardWindow, limit int32) ([]domain.LeaderboardEntry, error) {
	if window == "" {
		window = domain.LeaderboardAllTime
	}
	if !window.Valid() {
		return nil, domain.Validationf("invalid leaderboard window %q", window)
	}
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}

	entries, hit, err := s.leaderboard.Get(ctx, window, limit)
	if err != nil {
		logger.Warn("Leaderboard cache read failed", "window", window, "error", err)
	}
	if hit {
		return entries, nil
	}

	entries, err = s.userRepo.Leaderboard(ctx, window.Since(s.now().UTC()), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	if err := s.leaderboard.Set(ctx, window, limit, entries); err != nil {
		logger.Warn("Leaderboard cache write failed", "window", window, "error", err)
	}
	return entries, nil
}
