package email

import (
	"context"
	"errors"
	"strings"
)

var ErrNoRecipients = errors.New("email has no recipients")

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

type Message struct {
	From        string
	FromName    string
	To          []string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Validate rejects messages with no usable recipient.
func (m Message) Validate() error {
	for _, to := range m.To {
		if strings.TrimSpace(to) != "" {
			return nil
		}
	}
	return ErrNoRecipients
}

type Provider interface {
	Send(ctx context.Context, msg Message) error
}

type NoOpProvider struct{}

func (p *NoOpProvider) Send(ctx context.Context, msg Message) error {
	return msg.Validate()
}
