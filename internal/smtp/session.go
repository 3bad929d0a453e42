package smtp

import (
	"context"
	"io"
	"log/slog"

	"github.com/emersion/go-smtp"
	"github.com/erlandi/tempmail-backend/internal/ingest"
)

// Session implements the go-smtp Session interface. It accepts every
// recipient at RCPT time; whether a message is actually kept is decided
// per recipient by the pipeline after DATA, and discards stay invisible to
// the peer.
type Session struct {
	backend    *Backend
	from       string
	recipients []string
}

// NewSession creates a new SMTP session
func NewSession(backend *Backend) *Session {
	return &Session{
		backend:    backend,
		recipients: make([]string, 0),
	}
}

// AuthPlain handles PLAIN authentication (not required for receiving)
func (s *Session) AuthPlain(username, password string) error {
	return nil
}

// Mail handles the MAIL FROM command
func (s *Session) Mail(from string, opts *smtp.MailOptions) error {
	s.from = from
	if s.backend.logger != nil {
		s.backend.logger.Debug("MAIL FROM", slog.String("from", from))
	}
	return nil
}

// Rcpt handles the RCPT TO command
func (s *Session) Rcpt(to string, opts *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	if s.backend.logger != nil {
		s.backend.logger.Debug("RCPT TO", slog.String("to", to))
	}
	return nil
}

// Data handles the DATA command - receives the email content
func (s *Session) Data(r io.Reader) error {
	if len(s.recipients) == 0 {
		return &smtp.SMTPError{
			Code:         503,
			EnhancedCode: smtp.EnhancedCode{5, 5, 1},
			Message:      "No recipients specified",
		}
	}

	envelope, err := ParseEnvelope(r)
	if err != nil {
		// The payload could not even be read; nothing to hand the pipeline.
		if s.backend.logger != nil {
			s.backend.logger.Error("failed to read message payload", slog.Any("error", err))
		}
		return &smtp.SMTPError{
			Code:         451,
			EnhancedCode: smtp.EnhancedCode{4, 3, 0},
			Message:      "Temporary error",
		}
	}

	ctx := context.Background()

	for _, recipient := range s.recipients {
		outcome := s.backend.pipeline.Accept(ctx, &ingest.InboundMessage{
			From:      s.from,
			To:        recipient,
			Subject:   envelope.Subject,
			MessageID: envelope.MessageID,
			Text:      envelope.Text,
			Raw:       envelope.Raw,
		})

		if s.backend.logger != nil {
			s.backend.logger.Info("message processed",
				slog.String("to", recipient),
				slog.String("outcome", outcome.String()))
		}
	}

	return nil
}

// Reset resets the session state
func (s *Session) Reset() {
	s.from = ""
	s.recipients = make([]string, 0)
}

// Logout handles the end of the session
func (s *Session) Logout() error {
	return nil
}
