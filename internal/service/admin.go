package service

import (
	"context"
	"fmt"
	"strings"

	"reviwa-backend/internal/cache"
	"reviwa-backend/internal/domain"
	"reviwa-backend/internal/logger"
	"reviwa-backend/internal/repository"
)

type adminService struct {
	userRepo    repository.UserRepository
	reportRepo  repository.ReportRepository
	auditRepo   repository.AuditRepository
	leaderboard cache.LeaderboardCache
}

func NewAdminService(
	userRepo repository.UserRepository,
	reportRepo repository.ReportRepository,
	auditRepo repository.AuditRepository,
	leaderboard cache.LeaderboardCache,
) AdminService {
	return &adminService{
		userRepo:    userRepo,
		reportRepo:  reportRepo,
		auditRepo:   auditRepo,
		leaderboard: leaderboard,
	}
}

func requireAdmin(actor *domain.User) error {
	if actor == nil || !actor.IsActive || !actor.IsAdmin() {
		return domain.Authorizationf("admin access required")
	}
	return nil
}

func (s *adminService) audit(ctx context.Context, entry *domain.AuditEntry) {
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		logger.Error("Failed to write audit entry", "action", entry.Action, "targetID", entry.TargetID, "error", err)
	}
}

func (s *adminService) ChangeRole(ctx context.Context, actor *domain.User, userID int32, role domain.Role) (*domain.User, error) {
	logger.EnterMethod("adminService.ChangeRole", "actorID", actor.ID, "userID", userID, "role", role)

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, domain.Validationf("invalid role %q", role)
	}
	if actor.ID == userID {
		return nil, domain.Validationf("admins cannot change their own role")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	from := user.Role
	if from == role {
		return user, nil
	}
	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		logger.ExitMethodWithError("adminService.ChangeRole", err, "userID", userID)
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	user.Role = role

	s.audit(ctx, &domain.AuditEntry{
		ActorID:    actor.ID,
		Action:     domain.AuditUserRoleChanged,
		TargetType: "user",
		TargetID:   userID,
		Attributes: map[string]string{"from": string(from), "to": string(role)},
	})

	logger.ExitMethod("adminService.ChangeRole", "userID", userID, "from", from, "to", role)
	return user, nil
}

func (s *adminService) Deactivate(ctx context.Context, actor *domain.User, userID int32) error {
	logger.EnterMethod("adminService.Deactivate", "actorID", actor.ID, "userID", userID)

	if err := requireAdmin(actor); err != nil {
		return err
	}
	if actor.ID == userID {
		return domain.Validationf("admins cannot deactivate their own account")
	}
	if err := s.userRepo.SetActive(ctx, userID, false); err != nil {
		logger.ExitMethodWithError("adminService.Deactivate", err, "userID", userID)
		return err
	}

	s.audit(ctx, &domain.AuditEntry{
		ActorID:    actor.ID,
		Action:     domain.AuditUserDeactivated,
		TargetType: "user",
		TargetID:   userID,
	})
	if err := s.leaderboard.Invalidate(ctx); err != nil {
		logger.Warn("Failed to invalidate leaderboard cache", "error", err)
	}

	logger.ExitMethod("adminService.Deactivate", "userID", userID)
	return nil
}

func (s *adminService) DeleteReport(ctx context.Context, actor *domain.User, reportID int32) error {
	logger.EnterMethod("adminService.DeleteReport", "actorID", actor.ID, "reportID", reportID)

	if err := requireAdmin(actor); err != nil {
		return err
	}
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return err
	}
	if err := s.reportRepo.SoftDelete(ctx, reportID); err != nil {
		logger.ExitMethodWithError("adminService.DeleteReport", err, "reportID", reportID)
		return err
	}

	s.audit(ctx, &domain.AuditEntry{
		ActorID:    actor.ID,
		Action:     domain.AuditReportDeleted,
		TargetType: "report",
		TargetID:   reportID,
		Attributes: map[string]string{
			"title":       report.Title,
			"status":      string(report.Status),
			"reported_by": fmt.Sprint(report.ReportedBy),
		},
	})

	logger.ExitMethod("adminService.DeleteReport", "reportID", reportID)
	return nil
}

func (s *adminService) PromoteByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if user.Role == domain.RoleAdmin {
		return user, nil
	}
	from := user.Role
	if err := s.userRepo.UpdateRole(ctx, user.ID, domain.RoleAdmin); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	user.Role = domain.RoleAdmin

	s.audit(ctx, &domain.AuditEntry{
		ActorID:    user.ID,
		Action:     domain.AuditUserRoleChanged,
		TargetType: "user",
		TargetID:   user.ID,
		Attributes: map[string]string{"from": string(from), "to": string(domain.RoleAdmin), "source": "cli"},
	})
	logger.Info("Promoted user to admin", "userID", user.ID)
	return user, nil
}
