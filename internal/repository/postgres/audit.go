package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"reviwa-backend/internal/domain"
	"reviwa-backend/internal/logger"
	"reviwa-backend/internal/repository"
)

type auditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) repository.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, e *domain.AuditEntry) error {
	logger.EnterMethod("auditRepository.Create", "actorID", e.ActorID, "action", e.Action, "targetID", e.TargetID)

	attrs := e.Attributes
	if attrs == nil {
		attrs = map[string]string{}
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		logger.ExitMethodWithError("auditRepository.Create", err, "reason", "failed to marshal attributes")
		return err
	}

	query := `INSERT INTO audit_logs (actor_id, action, target_type, target_id, attributes)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	logger.DatabaseCall("INSERT", "audit_logs", "action", e.Action)
	err = r.db.QueryRowContext(ctx, query, e.ActorID, e.Action, e.TargetType, e.TargetID, data).Scan(&e.ID, &e.CreatedAt)
	logger.DatabaseResult("INSERT", 1, err, "auditID", e.ID)

	if err != nil {
		logger.ExitMethodWithError("auditRepository.Create", err, "action", e.Action)
	} else {
		logger.ExitMethod("auditRepository.Create", "auditID", e.ID)
	}
	return err
}

func (r *auditRepository) ListByTarget(ctx context.Context, targetType string, targetID int32) ([]domain.AuditEntry, error) {
	query := `SELECT id, actor_id, action, target_type, target_id, attributes, created_at
	          FROM audit_logs WHERE target_type = $1 AND target_id = $2 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, targetType, targetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var attrs []byte
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.TargetType, &e.TargetID, &attrs, &e.CreatedAt); err != nil {
			return nil, err
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &e.Attributes); err != nil {
				logger.Warn("Failed to unmarshal audit attributes", "auditID", e.ID, "error", err)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
