package core

import (
	"context"
	"net/mail"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ErrMailNotConfigured is returned by backends whose provider credentials
// are absent. Callers are expected to degrade gracefully.
var ErrMailNotConfigured = errors.New("email backend not configured")

type (
	// EmailMessage is a provider-agnostic outbound email.
	//
	// TemplateParams is rendered by the provider (EmailJS-style templates);
	// backends without provider-side templating fall back to BodyStr.
	EmailMessage struct {
		To             []mail.Address
		Subject        string
		BodyStr        string // plain text rendition
		TemplateParams map[string]string
	}

	// EmailService is any service that can send emails.
	EmailService interface {
		// SendMessage sends a single message and reports its outcome.
		SendMessage(ctx context.Context, msg *EmailMessage) error
	}
)

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }

func (m *EmailMessage) HasContent() bool {
	return m.BodyStr != "" || len(m.TemplateParams) > 0
}

// RenderText builds a plain text body from TemplateParams when BodyStr is
// empty, keyed lines in stable order.
func (m *EmailMessage) RenderText() string {
	if m.BodyStr != "" {
		return m.BodyStr
	}
	keys := make([]string, 0, len(m.TemplateParams))
	for k := range m.TemplateParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(m.TemplateParams[k])
		b.WriteString("\n")
	}
	return b.String()
}
