package mailer

import (
	"context"

	"github.com/doorlist/doorlist/pkg/logger"
)

// DevMailer logs messages instead of sending them. Used in local
// development so the service runs without an SMTP relay.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (m *DevMailer) SendMessage(ctx context.Context, to []string, subject, body string) error {
	logger.InfoContext(ctx, "dev mailer: message not sent",
		"to", to,
		"subject", subject,
		"body", body,
	)
	return nil
}
