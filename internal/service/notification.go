package service

import (
	"context"
	"fmt"
	"time"

	"reviwa-backend/internal/domain"
	"reviwa-backend/internal/email"
	"reviwa-backend/internal/logger"
	"reviwa-backend/internal/repository"

	"golang.org/x/sync/errgroup"
)

const adminFanOutLimit = 4

type emailNotifier struct {
	sender    email.Sender
	templates *email.Templates
	userRepo  repository.UserRepository
}

// NewEmailNotifier returns a Notifier that renders templates and hands the
// messages to sender.
func NewEmailNotifier(
	sender email.Sender,
	templates *email.Templates,
	userRepo repository.UserRepository,
) Notifier {
	return &emailNotifier{
		sender:    sender,
		templates: templates,
		userRepo:  userRepo,
	}
}

func (n *emailNotifier) send(ctx context.Context, msg email.Message, err error) error {
	if err != nil {
		return err
	}
	if msg.To == "" {
		return nil
	}
	return n.sender.Send(ctx, msg)
}

func (n *emailNotifier) Welcome(ctx context.Context, user *domain.User) error {
	msg, err := n.templates.Welcome(user)
	return n.send(ctx, msg, err)
}

func (n *emailNotifier) ReportCreated(ctx context.Context, report *domain.Report, reporter *domain.User) error {
	admins, err := n.userRepo.ListByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to list admins: %w", err)
	}

	reporterName := report.ReporterName
	if reporter != nil {
		reporterName = reporter.Name
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(adminFanOutLimit)
	for i := range admins {
		admin := &admins[i]
		if !admin.NotificationPreferences.EmailWasteAlerts {
			continue
		}
		g.Go(func() error {
			msg, err := n.templates.NewReport(admin, report, reporterName)
			if err := n.send(gctx, msg, err); err != nil {
				logger.Warn("Failed to notify admin of new report", "adminID", admin.ID, "reportID", report.ID, "error", err)
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

func (n *emailNotifier) ReportStatusChanged(ctx context.Context, owner *domain.User, report *domain.Report, from domain.ReportStatus) error {
	if !owner.NotificationPreferences.EmailWasteAlerts {
		return nil
	}
	msg, err := n.templates.ReportStatus(owner, report, from)
	return n.send(ctx, msg, err)
}

func (n *emailNotifier) PointsMilestone(ctx context.Context, user *domain.User, points int32, m domain.Milestone) error {
	msg, err := n.templates.Milestone(user, points, m)
	return n.send(ctx, msg, err)
}

func (n *emailNotifier) PasswordReset(ctx context.Context, user *domain.User, token string, validFor time.Duration) error {
	msg, err := n.templates.PasswordReset(user, token, validFor)
	return n.send(ctx, msg, err)
}
