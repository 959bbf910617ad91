package postgres

import (
	"context"
	"database/sql"

	"reviwa-backend/internal/domain"
	"reviwa-backend/internal/logger"
	"reviwa-backend/internal/repository"
)

type pointsRepository struct {
	db *sql.DB
}

func NewPointsRepository(db *sql.DB) repository.PointsRepository {
	return &pointsRepository{db: db}
}

func (r *pointsRepository) Award(ctx context.Context, t *domain.PointsTransaction) (*domain.PointsBalance, error) {
	logger.EnterMethod("pointsRepository.Award", "userID", t.UserID, "points", t.Points, "activity", t.Activity)

	if t.Points < 0 {
		return nil, domain.Validationf("points must not be negative")
	}
	delta := t.Activity.CounterDelta()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	bal := &domain.PointsBalance{UserID: t.UserID}
	update := `UPDATE users SET green_points = green_points + $1,
	               waste_reports_submitted = waste_reports_submitted + $2,
	               reports_verified = reports_verified + $3,
	               cleanup_events_attended = cleanup_events_attended + $4,
	               recycling_sessions_logged = recycling_sessions_logged + $5,
	               updated_at = NOW()
	           WHERE id = $6
	           RETURNING green_points, waste_reports_submitted, reports_verified, cleanup_events_attended, recycling_sessions_logged`
	logger.DatabaseCall("UPDATE", "users", "userID", t.UserID)
	err = tx.QueryRowContext(ctx, update, t.Points,
		delta.WasteReportsSubmitted, delta.ReportsVerified, delta.CleanupEventsAttended, delta.RecyclingSessionsLogged,
		t.UserID,
	).Scan(&bal.GreenPoints, &bal.Counters.WasteReportsSubmitted, &bal.Counters.ReportsVerified,
		&bal.Counters.CleanupEventsAttended, &bal.Counters.RecyclingSessionsLogged)
	if err != nil {
		err = mapError(err, "user")
		logger.ExitMethodWithError("pointsRepository.Award", err, "userID", t.UserID)
		return nil, err
	}

	insert := `INSERT INTO points_ledger (user_id, points, activity, report_id)
	           VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	logger.DatabaseCall("INSERT", "points_ledger", "userID", t.UserID)
	if err := tx.QueryRowContext(ctx, insert, t.UserID, t.Points, t.Activity, nullableInt32(t.ReportID)).
		Scan(&t.ID, &t.CreatedAt); err != nil {
		logger.ExitMethodWithError("pointsRepository.Award", err, "userID", t.UserID)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	bal.SustainabilityLevel = domain.SustainabilityLevel(bal.Counters)
	logger.ExitMethod("pointsRepository.Award", "userID", t.UserID, "greenPoints", bal.GreenPoints)
	return bal, nil
}

func (r *pointsRepository) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.PointsTransaction, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT id, user_id, points, activity, report_id, created_at
	          FROM points_ledger WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	txs := []domain.PointsTransaction{}
	for rows.Next() {
		var t domain.PointsTransaction
		var reportID sql.NullInt32
		if err := rows.Scan(&t.ID, &t.UserID, &t.Points, &t.Activity, &reportID, &t.CreatedAt); err != nil {
			return nil, 0, err
		}
		t.ReportID = int32Ptr(reportID)
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int32
	countQuery := `SELECT count(*) FROM points_ledger WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&count); err != nil {
		return nil, 0, err
	}
	return txs, count, nil
}

func (r *pointsRepository) FindDrift(ctx context.Context) ([]repository.PointsDrift, error) {
	query := `SELECT u.id, u.green_points, COALESCE(SUM(l.points), 0)
	          FROM users u
	          LEFT JOIN points_ledger l ON l.user_id = u.id
	          GROUP BY u.id, u.green_points
	          HAVING u.green_points <> COALESCE(SUM(l.points), 0)
	          ORDER BY u.id`
	logger.DatabaseCall("SELECT", "points_ledger")
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drift []repository.PointsDrift
	for rows.Next() {
		var d repository.PointsDrift
		if err := rows.Scan(&d.UserID, &d.GreenPoints, &d.LedgerSum); err != nil {
			return nil, err
		}
		drift = append(drift, d)
	}
	return drift, rows.Err()
}
