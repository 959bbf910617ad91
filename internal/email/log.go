package email

import (
	"context"

	"reviwa-backend/internal/logger"
)

// LogSender writes messages to the application log instead of delivering
// them. It is the development default.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (LogSender) Send(ctx context.Context, msg Message) error {
	logger.InfoContext(ctx, "Email (log provider)", "to", msg.To, "subject", msg.Subject, "body", msg.Text)
	return nil
}
