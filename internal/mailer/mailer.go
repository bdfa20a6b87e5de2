package mailer

import (
	"context"

	"github.com/doorlist/doorlist/pkg/config"
)

// Mailer sends one message to a list of recipients in a single dispatch.
// Partial per-recipient failure is not distinguished; an error means the
// outbound channel rejected the send.
type Mailer interface {
	SendMessage(ctx context.Context, to []string, subject, body string) error
}

// FromConfig picks a mailer implementation: dev mode logs instead of
// sending, a MailerSend key selects the API client, anything else goes
// through SMTP.
func FromConfig(cfg config.EmailConfig) Mailer {
	if cfg.DevMode {
		return NewDevMailer()
	}
	if cfg.MailerSendKey != "" {
		return NewMailerSend(cfg.MailerSendKey, cfg.FromName, cfg.SMTPFrom)
	}
	return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPUseTLS)
}
