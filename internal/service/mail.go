package service

import (
	"context"
	"fmt"
	"time"

	"reviwa-backend/internal/email"
	"reviwa-backend/internal/logger"
)

type mailService struct {
	sender    email.Sender
	templates *email.Templates
	now       func() time.Time
}

func NewMailService(sender email.Sender, templates *email.Templates) MailService {
	return &mailService{
		sender:    sender,
		templates: templates,
		now:       time.Now,
	}
}

func (s *mailService) SendTest(ctx context.Context, to string) error {
	logger.EnterMethod("mailService.SendTest", "to", to)

	addr, err := normalizeEmail(to)
	if err != nil {
		logger.ExitMethodWithError("mailService.SendTest", err)
		return err
	}
	msg, err := s.templates.Test(addr, s.now())
	if err != nil {
		return fmt.Errorf("failed to render test email: %w", err)
	}

	logger.ExternalServiceCall("email", "SendTest", "to", addr)
	err = s.sender.Send(ctx, msg)
	logger.ExternalServiceResult("email", "SendTest", err, "to", addr)
	if err != nil {
		return fmt.Errorf("failed to send test email: %w", err)
	}

	logger.ExitMethod("mailService.SendTest", "to", addr)
	return nil
}
