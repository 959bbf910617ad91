package service_test

import (
	"context"
	"testing"

	"reviwa-backend/internal/domain"
	"reviwa-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAdminService_ChangeRole(t *testing.T) {
	ctx := context.Background()
	admin := &domain.User{ID: 1, Role: domain.RoleAdmin, IsActive: true}

	t.Run("changes role and audits", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		auditRepo := new(MockAuditRepo)
		svc := service.NewAdminService(userRepo, nil, auditRepo, nil)

		userRepo.On("GetByID", ctx, int32(5)).Return(&domain.User{ID: 5, Role: domain.RoleCitizen}, nil).Once()
		userRepo.On("UpdateRole", ctx, int32(5), domain.RoleEnvironmentalOrg).Return(nil).Once()
		auditRepo.On("Create", ctx, mock.MatchedBy(func(e *domain.AuditEntry) bool {
			return e.ActorID == 1 && e.Action == domain.AuditUserRoleChanged && e.TargetID == 5 &&
				e.Attributes["from"] == "user" && e.Attributes["to"] == "environmental_org"
		})).Return(nil).Once()

		user, err := svc.ChangeRole(ctx, admin, 5, domain.RoleEnvironmentalOrg)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleEnvironmentalOrg, user.Role)
		userRepo.AssertExpectations(t)
		auditRepo.AssertExpectations(t)
	})

	t.Run("admins cannot change their own role", func(t *testing.T) {
		svc := service.NewAdminService(new(MockUserRepo), nil, nil, nil)
		_, err := svc.ChangeRole(ctx, admin, 1, domain.RoleCitizen)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("non-admin refused", func(t *testing.T) {
		svc := service.NewAdminService(new(MockUserRepo), nil, nil, nil)
		_, err := svc.ChangeRole(ctx, &domain.User{ID: 2, Role: domain.RoleEnvironmentalOrg, IsActive: true}, 5, domain.RoleAdmin)
		assert.ErrorIs(t, err, domain.ErrAuthorization)
	})

	t.Run("unknown role", func(t *testing.T) {
		svc := service.NewAdminService(new(MockUserRepo), nil, nil, nil)
		_, err := svc.ChangeRole(ctx, admin, 5, "moderator")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestAdminService_Deactivate(t *testing.T) {
	ctx := context.Background()
	admin := &domain.User{ID: 1, Role: domain.RoleAdmin, IsActive: true}

	userRepo := new(MockUserRepo)
	auditRepo := new(MockAuditRepo)
	lb := new(MockLeaderboardCache)
	svc := service.NewAdminService(userRepo, nil, auditRepo, lb)

	userRepo.On("SetActive", ctx, int32(6), false).Return(nil).Once()
	auditRepo.On("Create", ctx, mock.MatchedBy(func(e *domain.AuditEntry) bool {
		return e.Action == domain.AuditUserDeactivated && e.TargetID == 6
	})).Return(nil).Once()
	lb.On("Invalidate", ctx).Return(nil).Once()

	require.NoError(t, svc.Deactivate(ctx, admin, 6))
	assert.ErrorIs(t, svc.Deactivate(ctx, admin, 1), domain.ErrValidation)

	userRepo.On("SetActive", ctx, int32(404), false).Return(domain.NotFoundf("user not found")).Once()
	assert.ErrorIs(t, svc.Deactivate(ctx, admin, 404), domain.ErrNotFound)

	userRepo.AssertExpectations(t)
	auditRepo.AssertExpectations(t)
	lb.AssertExpectations(t)
}

func TestAdminService_DeleteReport(t *testing.T) {
	ctx := context.Background()
	admin := &domain.User{ID: 1, Role: domain.RoleAdmin, IsActive: true}

	reportRepo := new(MockReportRepo)
	auditRepo := new(MockAuditRepo)
	svc := service.NewAdminService(nil, reportRepo, auditRepo, nil)

	reportRepo.On("GetByID", ctx, int32(9)).Return(&domain.Report{ID: 9, Title: "Dump", Status: domain.ReportStatusPending, ReportedBy: 3}, nil).Once()
	reportRepo.On("SoftDelete", ctx, int32(9)).Return(nil).Once()
	auditRepo.On("Create", ctx, mock.MatchedBy(func(e *domain.AuditEntry) bool {
		return e.Action == domain.AuditReportDeleted && e.TargetType == "report" && e.Attributes["reported_by"] == "3"
	})).Return(nil).Once()

	require.NoError(t, svc.DeleteReport(ctx, admin, 9))

	err := svc.DeleteReport(ctx, &domain.User{ID: 3, Role: domain.RoleCitizen, IsActive: true}, 9)
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	reportRepo.AssertExpectations(t)
	auditRepo.AssertExpectations(t)
}

func TestAdminService_PromoteByEmail(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepo)
	auditRepo := new(MockAuditRepo)
	svc := service.NewAdminService(userRepo, nil, auditRepo, nil)

	userRepo.On("GetByEmail", ctx, "boss@example.com").Return(&domain.User{ID: 2, Role: domain.RoleCitizen}, nil).Once()
	userRepo.On("UpdateRole", ctx, int32(2), domain.RoleAdmin).Return(nil).Once()
	auditRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

	user, err := svc.PromoteByEmail(ctx, " Boss@Example.com ")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())
	userRepo.AssertExpectations(t)
}
