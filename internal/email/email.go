// Package email renders and delivers transactional mail. Senders are
// synchronous; Queue wraps any Sender with background workers and retries.
package email

import (
	"context"
	"fmt"

	"reviwa-backend/internal/config"
)

// Message is one outbound email. HTML is optional; Text is always sent.
type Message struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender builds the transport selected by cfg.Provider.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	switch cfg.Provider {
	case "smtp":
		return NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.From, cfg.FromName), nil
	case "sendgrid":
		return NewSendGridSender(cfg.SendGrid.APIKey, cfg.From, cfg.FromName), nil
	case "log", "":
		return NewLogSender(), nil
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.Provider)
	}
}
