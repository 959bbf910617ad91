package domain_test

import (
	"errors"
	"testing"

	"reviwa-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	owner := &domain.User{ID: 1, Role: domain.RoleCitizen, IsActive: true}
	stranger := &domain.User{ID: 2, Role: domain.RoleCitizen, IsActive: true}
	org := &domain.User{ID: 3, Role: domain.RoleEnvironmentalOrg, IsActive: true}
	admin := &domain.User{ID: 4, Role: domain.RoleAdmin, IsActive: true}

	report := func(status domain.ReportStatus) *domain.Report {
		return &domain.Report{ID: 10, ReportedBy: owner.ID, Status: status}
	}

	tests := []struct {
		name    string
		actor   *domain.User
		from    domain.ReportStatus
		to      domain.ReportStatus
		wantErr error
	}{
		{"admin verifies pending", admin, domain.ReportStatusPending, domain.ReportStatusVerified, nil},
		{"org verifies pending", org, domain.ReportStatusPending, domain.ReportStatusVerified, nil},
		{"org starts cleanup", org, domain.ReportStatusVerified, domain.ReportStatusInProgress, nil},
		{"org resolves", org, domain.ReportStatusInProgress, domain.ReportStatusResolved, nil},
		{"admin rejects pending", admin, domain.ReportStatusPending, domain.ReportStatusRejected, nil},
		{"admin rejects in-progress", admin, domain.ReportStatusInProgress, domain.ReportStatusRejected, nil},
		{"owner starts cleanup", owner, domain.ReportStatusVerified, domain.ReportStatusInProgress, nil},
		{"pending to resolved skips", admin, domain.ReportStatusPending, domain.ReportStatusResolved, domain.ErrInvalidTransition},
		{"regression", admin, domain.ReportStatusVerified, domain.ReportStatusPending, domain.ErrInvalidTransition},
		{"resolved is terminal", admin, domain.ReportStatusResolved, domain.ReportStatusRejected, domain.ErrInvalidTransition},
		{"rejected is terminal", admin, domain.ReportStatusRejected, domain.ReportStatusVerified, domain.ErrInvalidTransition},
		{"same status", admin, domain.ReportStatusVerified, domain.ReportStatusVerified, domain.ErrInvalidTransition},
		{"org cannot reject", org, domain.ReportStatusPending, domain.ReportStatusRejected, domain.ErrAuthorization},
		{"owner cannot verify", owner, domain.ReportStatusPending, domain.ReportStatusVerified, domain.ErrAuthorization},
		{"owner cannot resolve", owner, domain.ReportStatusInProgress, domain.ReportStatusResolved, domain.ErrAuthorization},
		{"stranger cannot verify", stranger, domain.ReportStatusPending, domain.ReportStatusVerified, domain.ErrAuthorization},
		{"stranger cannot start cleanup", stranger, domain.ReportStatusVerified, domain.ReportStatusInProgress, domain.ErrAuthorization},
		{"unknown status", admin, domain.ReportStatusPending, domain.ReportStatus("archived"), domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.CanTransition(tt.actor, report(tt.from), tt.to)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}

	t.Run("inactive admin", func(t *testing.T) {
		inactive := &domain.User{ID: 5, Role: domain.RoleAdmin, IsActive: false}
		err := domain.CanTransition(inactive, report(domain.ReportStatusPending), domain.ReportStatusVerified)
		assert.ErrorIs(t, err, domain.ErrAuthorization)
	})

	t.Run("nil actor", func(t *testing.T) {
		err := domain.CanTransition(nil, report(domain.ReportStatusPending), domain.ReportStatusVerified)
		assert.ErrorIs(t, err, domain.ErrAuthorization)
	})
}

func TestReachableOnlyFollowsEdges(t *testing.T) {
	all := []domain.ReportStatus{
		domain.ReportStatusPending, domain.ReportStatusVerified, domain.ReportStatusInProgress,
		domain.ReportStatusResolved, domain.ReportStatusRejected,
	}
	allowed := map[[2]domain.ReportStatus]bool{
		{domain.ReportStatusPending, domain.ReportStatusVerified}:    true,
		{domain.ReportStatusVerified, domain.ReportStatusInProgress}: true,
		{domain.ReportStatusInProgress, domain.ReportStatusResolved}: true,
		{domain.ReportStatusPending, domain.ReportStatusRejected}:    true,
		{domain.ReportStatusVerified, domain.ReportStatusRejected}:   true,
		{domain.ReportStatusInProgress, domain.ReportStatusRejected}: true,
	}
	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]domain.ReportStatus{from, to}], domain.Reachable(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTransitionAward(t *testing.T) {
	points, activity, ok := domain.TransitionAward(domain.ReportStatusVerified)
	assert.True(t, ok)
	assert.Equal(t, int32(20), points)
	assert.Equal(t, domain.ActivityReportVerified, activity)

	points, activity, ok = domain.TransitionAward(domain.ReportStatusResolved)
	assert.True(t, ok)
	assert.Equal(t, int32(50), points)
	assert.Equal(t, domain.ActivityReportResolved, activity)

	_, _, ok = domain.TransitionAward(domain.ReportStatusInProgress)
	assert.False(t, ok)
	_, _, ok = domain.TransitionAward(domain.ReportStatusRejected)
	assert.False(t, ok)
}
