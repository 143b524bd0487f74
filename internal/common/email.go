package common

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// InMemoryEmail records messages instead of delivering them.
type InMemoryEmail struct {
	mu     sync.Mutex
	Outbox []SentEmail
}

// SentEmail is a message captured by InMemoryEmail.
type SentEmail struct {
	To      string
	Subject string
	HTML    string
}

// Send records the email in memory.
func (m *InMemoryEmail) Send(_ context.Context, to, subject, html string) error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Outbox = append(m.Outbox, SentEmail{To: to, Subject: subject, HTML: html})
	return nil
}

// Sent returns a copy of the recorded messages.
func (m *InMemoryEmail) Sent() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentEmail(nil), m.Outbox...)
}

// LogEmailSender writes outgoing mail to the structured log. It stands in
// for an SMTP relay in environments without one.
type LogEmailSender struct {
	Logger zerolog.Logger
}

// Send implements EmailSender.
func (s LogEmailSender) Send(_ context.Context, to, subject, html string) error {
	s.Logger.Info().
		Str("to", to).
		Str("subject", subject).
		Int("body_bytes", len(html)).
		Msg("email dispatched")
	return nil
}
