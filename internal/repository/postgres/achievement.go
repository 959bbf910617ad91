package postgres

import (
	"context"
	"database/sql"
	"errors"

	"reviwa-backend/internal/domain"
	"reviwa-backend/internal/logger"
	"reviwa-backend/internal/repository"
)

type achievementRepository struct {
	db *sql.DB
}

func NewAchievementRepository(db *sql.DB) repository.AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) Unlock(ctx context.Context, userID int32, a *domain.Achievement) (bool, error) {
	query := `INSERT INTO achievements (user_id, key, title, description, icon, category, points_earned)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (user_id, key) DO NOTHING
	          RETURNING earned_at`
	logger.DatabaseCall("INSERT", "achievements", "userID", userID, "key", a.Key)
	err := r.db.QueryRowContext(ctx, query, userID, a.Key, a.Title, a.Description, a.Icon, a.Category, a.PointsEarned).
		Scan(&a.EarnedAt)
	if errors.Is(err, sql.ErrNoRows) {
		logger.DatabaseResult("INSERT", 0, nil, "key", a.Key)
		return false, nil
	}
	if err != nil {
		logger.DatabaseResult("INSERT", 0, err, "key", a.Key)
		return false, err
	}
	logger.DatabaseResult("INSERT", 1, nil, "key", a.Key)
	return true, nil
}

func (r *achievementRepository) ListByUser(ctx context.Context, userID int32) ([]domain.Achievement, error) {
	query := `SELECT key, title, description, icon, category, points_earned, earned_at
	          FROM achievements WHERE user_id = $1 ORDER BY earned_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	achievements := []domain.Achievement{}
	for rows.Next() {
		var a domain.Achievement
		if err := rows.Scan(&a.Key, &a.Title, &a.Description, &a.Icon, &a.Category, &a.PointsEarned, &a.EarnedAt); err != nil {
			return nil, err
		}
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}
