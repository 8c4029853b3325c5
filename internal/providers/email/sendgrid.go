package email

import (
	"context"
	"encoding/base64"
	"fmt"

	sendgrid "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type SendGridProvider struct {
	client *sendgrid.Client
}

func NewSendGrid(apiKey string) *SendGridProvider {
	return &SendGridProvider{client: sendgrid.NewSendClient(apiKey)}
}

func (p *SendGridProvider) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	response, err := p.client.SendWithContext(ctx, buildV3Mail(msg))
	if err != nil {
		return err
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: unexpected status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

func buildV3Mail(msg Message) *mail.SGMailV3 {
	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(msg.FromName, msg.From))
	m.Subject = msg.Subject
	m.AddContent(mail.NewContent("text/html", msg.HTML))

	personalization := mail.NewPersonalization()
	for _, to := range msg.To {
		if to == "" {
			continue
		}
		personalization.AddTos(mail.NewEmail("", to))
	}
	m.AddPersonalizations(personalization)

	for _, attachment := range msg.Attachments {
		a := mail.NewAttachment()
		a.SetContent(base64.StdEncoding.EncodeToString(attachment.Content))
		a.SetType(attachment.ContentType)
		a.SetFilename(attachment.Filename)
		a.SetDisposition("attachment")
		m.AddAttachment(a)
	}
	return m
}
