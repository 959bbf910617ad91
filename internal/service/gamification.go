package service

import (
	"context"
	"fmt"

	"reviwa-backend/internal/cache"
	"reviwa-backend/internal/domain"
	"reviwa-backend/internal/logger"
	"reviwa-backend/internal/repository"
)

type gamificationService struct {
	pointsRepo      repository.PointsRepository
	achievementRepo repository.AchievementRepository
	userRepo        repository.UserRepository
	leaderboard     cache.LeaderboardCache
	notifier        Notifier
}

func NewGamificationService(
	pointsRepo repository.PointsRepository,
	achievementRepo repository.AchievementRepository,
	userRepo repository.UserRepository,
	leaderboard cache.LeaderboardCache,
	notifier Notifier,
) GamificationService {
	return &gamificationService{
		pointsRepo:      pointsRepo,
		achievementRepo: achievementRepo,
		userRepo:        userRepo,
		leaderboard:     leaderboard,
		notifier:        notifier,
	}
}

func (s *gamificationService) Award(ctx context.Context, userID int32, points int32, activity domain.ActivityType, reportID *int32) (*domain.PointsBalance, error) {
	logger.EnterMethod("gamificationService.Award", "userID", userID, "points", points, "activity", activity)

	if points < 0 {
		err := domain.Validationf("points must not be negative")
		logger.ExitMethodWithError("gamificationService.Award", err, "userID", userID)
		return nil, err
	}
	if !activity.Valid() {
		err := domain.Validationf("unknown activity %q", activity)
		logger.ExitMethodWithError("gamificationService.Award", err, "userID", userID)
		return nil, err
	}

	balance, err := s.pointsRepo.Award(ctx, &domain.PointsTransaction{
		UserID:   userID,
		Points:   points,
		Activity: activity,
		ReportID: reportID,
	})
	if err != nil {
		logger.ExitMethodWithError("gamificationService.Award", err, "userID", userID)
		return nil, fmt.Errorf("failed to award points: %w", err)
	}

	if err := s.leaderboard.Invalidate(ctx); err != nil {
		logger.Warn("Failed to invalidate leaderboard cache", "error", err)
	}

	crossed := domain.CrossedMilestones(balance.GreenPoints-points, balance.GreenPoints)
	if len(crossed) > 0 {
		s.unlockMilestones(ctx, userID, balance.GreenPoints, crossed)
	}

	logger.ExitMethod("gamificationService.Award", "userID", userID, "greenPoints", balance.GreenPoints)
	return balance, nil
}

// unlockMilestones records milestone achievements and emails the user once
// per newly unlocked milestone.
func (s *gamificationService) unlockMilestones(ctx context.Context, userID, points int32, crossed []domain.Milestone) {
	var user *domain.User
	for _, m := range crossed {
		a := domain.MilestoneAchievement(m)
		added, err := s.achievementRepo.Unlock(ctx, userID, &a)
		if err != nil {
			logger.Error("Failed to unlock milestone achievement", "userID", userID, "milestone", m.Points, "error", err)
			continue
		}
		if !added {
			continue
		}
		if user == nil {
			if user, err = s.userRepo.GetByID(ctx, userID); err != nil {
				logger.Error("Failed to load user for milestone email", "userID", userID, "error", err)
				return
			}
		}
		if err := s.notifier.PointsMilestone(ctx, user, points, m); err != nil {
			logger.Warn("Failed to send milestone email", "userID", userID, "milestone", m.Points, "error", err)
		}
	}
}

func (s *gamificationService) UnlockAchievement(ctx context.Context, userID int32, a domain.Achievement) (bool, error) {
	added, err := s.achievementRepo.Unlock(ctx, userID, &a)
	if err != nil {
		return false, fmt.Errorf("failed to unlock achievement: %w", err)
	}
	return added, nil
}

func (s *gamificationService) History(ctx context.Context, userID int32, page, limit int32) ([]domain.PointsTransaction, int32, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = domain.DefaultPageLimit
	}
	if limit > domain.MaxPageLimit {
		limit = domain.MaxPageLimit
	}
	return s.pointsRepo.ListByUser(ctx, userID, page, limit)
}
