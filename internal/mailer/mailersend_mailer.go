package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/mailersend/mailersend-go"
)

type MailerSendClient struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	enabled bool
}

func NewMailerSend(apiKey, fromName, fromEmail string) *MailerSendClient {
	m := &MailerSendClient{
		enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}

	if m.enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}

	return m
}

func (m *MailerSendClient) SendMessage(ctx context.Context, to []string, subject, body string) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	recipients := make([]mailersend.Recipient, 0, len(to))
	for _, addr := range to {
		recipients = append(recipients, mailersend.Recipient{Email: addr})
	}

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients(recipients)
	msg.SetSubject(subject)
	msg.SetText(body)

	_, err := m.client.Email.Send(ctx, msg)
	return err
}
