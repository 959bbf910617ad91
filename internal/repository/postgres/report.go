package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"reviwa-backend/internal/domain"
	"reviwa-backend/internal/logger"
	"reviwa-backend/internal/repository"
)

const reportColumns = `r.id, r.title, r.description, r.waste_type, r.severity,
	ST_X(r.location::geometry), ST_Y(r.location::geometry), r.address, r.images,
	r.status, r.status_note, r.reported_by, COALESCE(u.name, ''), r.verified_by, r.verified_at, r.resolved_at,
	r.created_at, r.updated_at`

type reportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) repository.ReportRepository {
	return &reportRepository{db: db}
}

// scanReport reads reportColumns followed by any extra destinations.
func scanReport(row rowScanner, extra ...any) (*domain.Report, error) {
	rp := &domain.Report{}
	var lng, lat float64
	var address string
	var images []byte
	var verifiedBy sql.NullInt32
	var verifiedAt, resolvedAt sql.NullTime
	dest := []any{
		&rp.ID, &rp.Title, &rp.Description, &rp.WasteType, &rp.Severity,
		&lng, &lat, &address, &images,
		&rp.Status, &rp.StatusNote, &rp.ReportedBy, &rp.ReporterName, &verifiedBy, &verifiedAt, &resolvedAt,
		&rp.CreatedAt, &rp.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	rp.Location = domain.NewGeoLocation(domain.Point{Longitude: lng, Latitude: lat}, address)
	rp.Images = []domain.ReportImage{}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &rp.Images); err != nil {
			return nil, fmt.Errorf("decode report images: %w", err)
		}
	}
	rp.VerifiedBy = int32Ptr(verifiedBy)
	rp.VerifiedAt = timePtr(verifiedAt)
	rp.ResolvedAt = timePtr(resolvedAt)
	return rp, nil
}

func (r *reportRepository) Create(ctx context.Context, rp *domain.Report) error {
	logger.EnterMethod("reportRepository.Create", "reportedBy", rp.ReportedBy, "wasteType", rp.WasteType)

	if rp.Images == nil {
		rp.Images = []domain.ReportImage{}
	}
	images, err := json.Marshal(rp.Images)
	if err != nil {
		return err
	}
	if rp.Status == "" {
		rp.Status = domain.ReportStatusPending
	}
	p := rp.Location.Point()

	query := `INSERT INTO reports (title, description, waste_type, severity, location, address, images, status, reported_by)
	          VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography, $7, $8, $9, $10)
	          RETURNING id, created_at, updated_at`
	logger.DatabaseCall("INSERT", "reports", "reportedBy", rp.ReportedBy)
	err = r.db.QueryRowContext(ctx, query,
		rp.Title, rp.Description, rp.WasteType, rp.Severity, p.Longitude, p.Latitude,
		rp.Location.Address, images, rp.Status, rp.ReportedBy,
	).Scan(&rp.ID, &rp.CreatedAt, &rp.UpdatedAt)
	logger.DatabaseResult("INSERT", 1, err, "reportID", rp.ID)
	if err != nil {
		logger.ExitMethodWithError("reportRepository.Create", err)
		return mapError(err, "report")
	}
	logger.ExitMethod("reportRepository.Create", "reportID", rp.ID)
	return nil
}

func (r *reportRepository) GetByID(ctx context.Context, id int32) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + `
	          FROM reports r LEFT JOIN users u ON u.id = r.reported_by
	          WHERE r.id = $1 AND r.deleted_at IS NULL`
	rp, err := scanReport(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, "report")
	}
	return rp, nil
}

func (r *reportRepository) UpdateStatus(ctx context.Context, rp *domain.Report, from domain.ReportStatus, actorID int32) error {
	logger.EnterMethod("reportRepository.UpdateStatus", "reportID", rp.ID, "from", from, "to", rp.Status)

	query := `UPDATE reports SET status = $1, status_note = $2,
	              verified_by = CASE WHEN $1 = 'verified' THEN $3::integer ELSE verified_by END,
	              verified_at = CASE WHEN $1 = 'verified' THEN NOW() ELSE verified_at END,
	              resolved_at = CASE WHEN $1 = 'resolved' THEN NOW() ELSE resolved_at END,
	              updated_at = NOW()
	          WHERE id = $4 AND status = $5 AND deleted_at IS NULL
	          RETURNING verified_by, verified_at, resolved_at, updated_at`
	var verifiedBy sql.NullInt32
	var verifiedAt, resolvedAt sql.NullTime
	logger.DatabaseCall("UPDATE", "reports", "reportID", rp.ID)
	err := r.db.QueryRowContext(ctx, query, rp.Status, rp.StatusNote, actorID, rp.ID, from).
		Scan(&verifiedBy, &verifiedAt, &resolvedAt, &rp.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		err = domain.InvalidTransitionf("report %d is no longer %s", rp.ID, from)
	}
	if err != nil {
		logger.ExitMethodWithError("reportRepository.UpdateStatus", err, "reportID", rp.ID)
		return err
	}
	rp.VerifiedBy = int32Ptr(verifiedBy)
	rp.VerifiedAt = timePtr(verifiedAt)
	rp.ResolvedAt = timePtr(resolvedAt)
	logger.ExitMethod("reportRepository.UpdateStatus", "reportID", rp.ID, "status", rp.Status)
	return nil
}

func (r *reportRepository) SoftDelete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reports SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundf("report not found")
	}
	return nil
}

// List returns one page of reports matching q together with the total match
// count. With q.Near set, results are limited to the radius and ordered by
// distance; otherwise newest first.
func (r *reportRepository) List(ctx context.Context, q domain.ReportQuery) ([]domain.Report, int32, error) {
	logger.EnterMethod("reportRepository.List", "page", q.Page, "limit", q.Limit)

	var where []string
	var args []any
	argIdx := 1
	where = append(where, "r.deleted_at IS NULL")

	distance := "NULL::float8"
	if q.Near != nil {
		origin := fmt.Sprintf("ST_SetSRID(ST_MakePoint($%d, $%d), 4326)::geography", argIdx, argIdx+1)
		args = append(args, q.Near.Longitude, q.Near.Latitude)
		argIdx += 2
		distance = "ST_Distance(r.location, " + origin + ")"
		where = append(where, fmt.Sprintf("ST_DWithin(r.location, %s, $%d)", origin, argIdx))
		args = append(args, q.RadiusMeters)
		argIdx++
	}
	if q.Status != "" {
		where = append(where, fmt.Sprintf("r.status = $%d", argIdx))
		args = append(args, q.Status)
		argIdx++
	}
	if q.WasteType != "" {
		where = append(where, fmt.Sprintf("r.waste_type = $%d", argIdx))
		args = append(args, q.WasteType)
		argIdx++
	}
	if q.Severity != "" {
		where = append(where, fmt.Sprintf("r.severity = $%d", argIdx))
		args = append(args, q.Severity)
		argIdx++
	}
	if q.ReportedBy > 0 {
		where = append(where, fmt.Sprintf("r.reported_by = $%d", argIdx))
		args = append(args, q.ReportedBy)
		argIdx++
	}
	cond := strings.Join(where, " AND ")

	var count int32
	countQuery := `SELECT count(*) FROM reports r WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		logger.ExitMethodWithError("reportRepository.List", err)
		return nil, 0, err
	}

	order := "r.created_at DESC, r.id DESC"
	if q.Near != nil {
		order = "distance ASC, r.id ASC"
	}
	query := `SELECT ` + reportColumns + `, ` + distance + ` AS distance
	          FROM reports r LEFT JOIN users u ON u.id = r.reported_by
	          WHERE ` + cond + `
	          ORDER BY ` + order +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, q.Limit, q.Offset())

	logger.DatabaseCall("SELECT", "reports", "near", q.Near != nil)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, 0, err
	}
	defer rows.Close()

	reports := []domain.Report{}
	for rows.Next() {
		var dist sql.NullFloat64
		rp, err := scanReport(rows, &dist)
		if err != nil {
			return nil, 0, err
		}
		if dist.Valid {
			d := dist.Float64
			rp.DistanceMeters = &d
		}
		reports = append(reports, *rp)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	logger.DatabaseResult("SELECT", int64(len(reports)), nil)
	logger.ExitMethod("reportRepository.List", "count", len(reports), "total", count)
	return reports, count, nil
}

func (r *reportRepository) CountByStatus(ctx context.Context) (map[domain.ReportStatus]int32, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, count(*) FROM reports WHERE deleted_at IS NULL GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.ReportStatus]int32)
	for rows.Next() {
		var status domain.ReportStatus
		var n int32
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
