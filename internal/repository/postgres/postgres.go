package postgres

import (
	"database/sql"
	"errors"
	"time"

	"reviwa-backend/internal/domain"
	"reviwa-backend/internal/repository"

	"github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.ReportRepository
	repository.AchievementRepository
	repository.PointsRepository
	repository.AuditRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		UserRepository:        NewUserRepository(db),
		ReportRepository:      NewReportRepository(db),
		AchievementRepository: NewAchievementRepository(db),
		PointsRepository:      NewPointsRepository(db),
		AuditRepository:       NewAuditRepository(db),
	}
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *sql.DB {
	return s.db
}

const uniqueViolation = "23505"

// mapError translates driver errors into the domain taxonomy. what names the
// entity for not-found messages.
func mapError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundf("%s not found", what)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.Conflictf("%s already exists", what)
	}
	return err
}

// nullablePoint splits an optional point into driver values.
func nullablePoint(p *domain.Point) (any, any) {
	if p == nil {
		return nil, nil
	}
	return p.Longitude, p.Latitude
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func nullableInt32(v *int32) any {
	if v == nil {
		return nil
	}
	return *v
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func int32Ptr(n sql.NullInt32) *int32 {
	if !n.Valid {
		return nil
	}
	v := n.Int32
	return &v
}
