package postgres

import (
	"context"
	"database/sql"
	"time"

	"reviwa-backend/internal/domain"
	"reviwa-backend/internal/logger"
	"reviwa-backend/internal/repository"

	"github.com/lib/pq"
)

const userColumns = `id, name, email, password_hash, role, bio, avatar_url, city, state,
	ST_X(location::geometry), ST_Y(location::geometry), sustainability_interests,
	green_points, waste_reports_submitted, reports_verified, cleanup_events_attended, recycling_sessions_logged,
	show_on_leaderboard, public_profile, show_location,
	email_waste_alerts, email_cleanup_events, ai_insights_notifications, sustainability_tips,
	is_verified, is_active, last_login, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	u := &domain.User{}
	var lng, lat sql.NullFloat64
	var interests pq.StringArray
	var lastLogin sql.NullTime
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Bio, &u.AvatarURL, &u.Location.City, &u.Location.State,
		&lng, &lat, &interests,
		&u.GreenPoints, &u.Counters.WasteReportsSubmitted, &u.Counters.ReportsVerified, &u.Counters.CleanupEventsAttended, &u.Counters.RecyclingSessionsLogged,
		&u.Privacy.ShowOnLeaderboard, &u.Privacy.PublicProfile, &u.Privacy.ShowLocation,
		&u.NotificationPreferences.EmailWasteAlerts, &u.NotificationPreferences.EmailCleanupEvents,
		&u.NotificationPreferences.AIInsightsNotifications, &u.NotificationPreferences.SustainabilityTips,
		&u.IsVerified, &u.IsActive, &lastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lng.Valid && lat.Valid {
		u.Location.Point = &domain.Point{Longitude: lng.Float64, Latitude: lat.Float64}
	}
	u.Interests = make([]domain.SustainabilityInterest, 0, len(interests))
	for _, i := range interests {
		u.Interests = append(u.Interests, domain.SustainabilityInterest(i))
	}
	u.LastLogin = timePtr(lastLogin)
	u.RefreshLevel()
	return u, nil
}

func interestsArray(in []domain.SustainabilityInterest) pq.StringArray {
	out := make(pq.StringArray, 0, len(in))
	for _, i := range in {
		out = append(out, string(i))
	}
	return out
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	logger.EnterMethod("userRepository.Create", "email", u.Email, "role", u.Role)

	query := `INSERT INTO users (name, email, password_hash, role, bio, avatar_url, city, state, location,
	              sustainability_interests, show_on_leaderboard, public_profile, show_location,
	              email_waste_alerts, email_cleanup_events, ai_insights_notifications, sustainability_tips, is_verified)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
	              CASE WHEN $9::float8 IS NULL THEN NULL ELSE ST_SetSRID(ST_MakePoint($9, $10), 4326)::geography END,
	              $11, $12, $13, $14, $15, $16, $17, $18, $19)
	          RETURNING id, green_points, is_active, created_at, updated_at`
	lng, lat := nullablePoint(u.Location.Point)
	logger.DatabaseCall("INSERT", "users", "email", u.Email)
	err := r.db.QueryRowContext(ctx, query,
		u.Name, u.Email, u.PasswordHash, u.Role, u.Bio, u.AvatarURL, u.Location.City, u.Location.State, lng, lat,
		interestsArray(u.Interests), u.Privacy.ShowOnLeaderboard, u.Privacy.PublicProfile, u.Privacy.ShowLocation,
		u.NotificationPreferences.EmailWasteAlerts, u.NotificationPreferences.EmailCleanupEvents,
		u.NotificationPreferences.AIInsightsNotifications, u.NotificationPreferences.SustainabilityTips, u.IsVerified,
	).Scan(&u.ID, &u.GreenPoints, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		err = mapError(err, "user")
		logger.DatabaseResult("INSERT", 0, err, "email", u.Email)
		return err
	}
	u.RefreshLevel()
	logger.DatabaseResult("INSERT", 1, nil, "userID", u.ID)
	logger.ExitMethod("userRepository.Create", "userID", u.ID)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, "user")
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, mapError(err, "user")
	}
	return u, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET name = $1, bio = $2, avatar_url = $3, city = $4, state = $5,
	              location = CASE WHEN $6::float8 IS NULL THEN NULL ELSE ST_SetSRID(ST_MakePoint($6, $7), 4326)::geography END,
	              sustainability_interests = $8, show_on_leaderboard = $9, public_profile = $10, show_location = $11,
	              email_waste_alerts = $12, email_cleanup_events = $13, ai_insights_notifications = $14, sustainability_tips = $15,
	              updated_at = NOW()
	          WHERE id = $16
	          RETURNING updated_at`
	lng, lat := nullablePoint(u.Location.Point)
	logger.DatabaseCall("UPDATE", "users", "userID", u.ID)
	err := r.db.QueryRowContext(ctx, query,
		u.Name, u.Bio, u.AvatarURL, u.Location.City, u.Location.State, lng, lat,
		interestsArray(u.Interests), u.Privacy.ShowOnLeaderboard, u.Privacy.PublicProfile, u.Privacy.ShowLocation,
		u.NotificationPreferences.EmailWasteAlerts, u.NotificationPreferences.EmailCleanupEvents,
		u.NotificationPreferences.AIInsightsNotifications, u.NotificationPreferences.SustainabilityTips,
		u.ID,
	).Scan(&u.UpdatedAt)
	return mapError(err, "user")
}

func (r *userRepository) exec(ctx context.Context, what, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundf("%s not found", what)
	}
	return nil
}

func (r *userRepository) UpdateRole(ctx context.Context, id int32, role domain.Role) error {
	return r.exec(ctx, "user", `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`, role, id)
}

func (r *userRepository) SetActive(ctx context.Context, id int32, active bool) error {
	return r.exec(ctx, "user", `UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id int32, at time.Time) error {
	return r.exec(ctx, "user", `UPDATE users SET last_login = $1 WHERE id = $2`, at, id)
}

func (r *userRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 AND is_active = TRUE ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *userRepository) Leaderboard(ctx context.Context, since *time.Time, limit int32) ([]domain.LeaderboardEntry, error) {
	logger.EnterMethod("userRepository.Leaderboard", "limit", limit)

	query := `SELECT id, name, avatar_url, green_points,
	                 waste_reports_submitted, cleanup_events_attended, recycling_sessions_logged
	          FROM users
	          WHERE is_active = TRUE AND show_on_leaderboard = TRUE
	            AND ($1::timestamptz IS NULL OR created_at >= $1)
	          ORDER BY green_points DESC, created_at ASC, id ASC
	          LIMIT $2`
	logger.DatabaseCall("SELECT", "users", "limit", limit)
	rows, err := r.db.QueryContext(ctx, query, nullableTime(since), limit)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, err
	}
	defer rows.Close()

	entries := []domain.LeaderboardEntry{}
	for rows.Next() {
		var e domain.LeaderboardEntry
		var c domain.ActivityCounters
		if err := rows.Scan(&e.UserID, &e.Name, &e.AvatarURL, &e.GreenPoints,
			&c.WasteReportsSubmitted, &c.CleanupEventsAttended, &c.RecyclingSessionsLogged); err != nil {
			return nil, err
		}
		e.Rank = int32(len(entries) + 1)
		e.SustainabilityLevel = domain.SustainabilityLevel(c)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logger.DatabaseResult("SELECT", int64(len(entries)), nil)
	logger.ExitMethod("userRepository.Leaderboard", "count", len(entries))
	return entries, nil
}

func (r *userRepository) Count(ctx context.Context) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE is_active = TRUE`).Scan(&count)
	return count, err
}

func (r *userRepository) SumPoints(ctx context.Context) (int64, error) {
	var sum int64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(green_points), 0) FROM users`).Scan(&sum)
	return sum, err
}

func (r *userRepository) SetResetToken(ctx context.Context, id int32, tokenHash string, expires time.Time) error {
	return r.exec(ctx, "user",
		`UPDATE users SET reset_token_hash = $1, reset_token_expires = $2 WHERE id = $3`,
		tokenHash, expires, id)
}

func (r *userRepository) GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE reset_token_hash = $1 AND reset_token_expires > $2`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, tokenHash, now))
	if err != nil {
		return nil, mapError(err, "reset token")
	}
	return u, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int32, passwordHash string) error {
	return r.exec(ctx, "user",
		`UPDATE users SET password_hash = $1, reset_token_hash = NULL, reset_token_expires = NULL, updated_at = NOW() WHERE id = $2`,
		passwordHash, id)
}

func (r *userRepository) PurgeExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET reset_token_hash = NULL, reset_token_expires = NULL WHERE reset_token_expires <= $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// RecountReportCounters recomputes submitted and verified report counters from
// the reports table and returns how many users were corrected.
func (r *userRepository) RecountReportCounters(ctx context.Context) (int64, error) {
	logger.EnterMethod("userRepository.RecountReportCounters")

	query := `UPDATE users u
	          SET waste_reports_submitted = s.submitted, reports_verified = s.verified, updated_at = NOW()
	          FROM (
	              SELECT u2.id,
	                     COUNT(r.id) FILTER (WHERE r.deleted_at IS NULL) AS submitted,
	                     COUNT(r.id) FILTER (WHERE r.deleted_at IS NULL AND r.verified_at IS NOT NULL) AS verified
	              FROM users u2
	              LEFT JOIN reports r ON r.reported_by = u2.id
	              GROUP BY u2.id
	          ) s
	          WHERE s.id = u.id
	            AND (u.waste_reports_submitted <> s.submitted OR u.reports_verified <> s.verified)`
	logger.DatabaseCall("UPDATE", "users")
	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return 0, err
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err)
	logger.ExitMethod("userRepository.RecountReportCounters", "corrected", n)
	return n, err
}
