package domain

import "time"

type AuditAction string

const (
	AuditReportDeleted   AuditAction = "report.deleted"
	AuditUserRoleChanged AuditAction = "user.role_changed"
	AuditUserDeactivated AuditAction = "user.deactivated"
)

type AuditEntry struct {
	ID         int64             `json:"id"`
	ActorID    int32             `json:"actor_id"`
	Action     AuditAction       `json:"action"`
	TargetType string            `json:"target_type"`
	TargetID   int32             `json:"target_id"`
	Attributes map[string]string `json:"attributes"`
	CreatedAt  time.Time         `json:"created_at"`
}
