// Package mailer provides the outbound mail adapter for the optional
// auto-respond workflow.
package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"triage_server/pkg/apperr"
)

// SendGridAdapter implements out.Mailer on the SendGrid v3 API.
type SendGridAdapter struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
}

// NewSendGridAdapter creates a SendGrid-backed mailer.
func NewSendGridAdapter(apiKey, fromName, fromEmail string) *SendGridAdapter {
	return &SendGridAdapter{
		client:    sendgrid.NewSendClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

// Send delivers a plain-text reply draft.
func (a *SendGridAdapter) Send(ctx context.Context, to, subject, body string) error {
	from := mail.NewEmail(a.fromName, a.fromEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	resp, err := a.client.SendWithContext(ctx, message)
	if err != nil {
		return apperr.MailerError(err)
	}
	if resp.StatusCode >= 400 {
		return apperr.MailerError(fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body))
	}
	return nil
}
