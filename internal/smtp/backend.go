// Package smtp hosts the inbound mail listener. It accepts whatever a
// peer delivers and forwards each recipient through the acceptance
// pipeline; policy and liveness rejections are decided there and are never
// signalled back to the peer.
package smtp

import (
	"context"
	"log/slog"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/erlandi/tempmail-backend/internal/ingest"
)

// Server limits
const (
	DefaultMaxMessageSize = 25 * 1024 * 1024 // 25 MB
	DefaultMaxRecipients  = 100
	DefaultReadTimeout    = 60 * time.Second
	DefaultWriteTimeout   = 60 * time.Second
	DefaultMaxLineLength  = 2000
)

// Ingestor runs one inbound message through the acceptance pipeline.
type Ingestor interface {
	Accept(ctx context.Context, msg *ingest.InboundMessage) ingest.Outcome
}

// Backend implements the go-smtp Backend interface
type Backend struct {
	pipeline Ingestor
	logger   *slog.Logger
}

// NewBackend creates a new SMTP backend
func NewBackend(pipeline Ingestor, logger *slog.Logger) *Backend {
	return &Backend{
		pipeline: pipeline,
		logger:   logger,
	}
}

// NewSession creates a new SMTP session
func (b *Backend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	if b.logger != nil {
		b.logger.Debug("new SMTP connection", slog.String("remote_addr", c.Conn().RemoteAddr().String()))
	}
	return NewSession(b), nil
}

// ServerConfig holds configuration for the SMTP server
type ServerConfig struct {
	Addr           string
	Domain         string
	MaxMessageSize int64
	MaxRecipients  int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// NewServer creates an SMTP server with sane limits applied.
func NewServer(backend *Backend, cfg *ServerConfig) *smtp.Server {
	s := smtp.NewServer(backend)

	s.Addr = cfg.Addr
	s.Domain = cfg.Domain

	if cfg.MaxMessageSize > 0 {
		s.MaxMessageBytes = cfg.MaxMessageSize
	} else {
		s.MaxMessageBytes = DefaultMaxMessageSize
	}

	if cfg.MaxRecipients > 0 {
		s.MaxRecipients = cfg.MaxRecipients
	} else {
		s.MaxRecipients = DefaultMaxRecipients
	}

	if cfg.ReadTimeout > 0 {
		s.ReadTimeout = cfg.ReadTimeout
	} else {
		s.ReadTimeout = DefaultReadTimeout
	}

	if cfg.WriteTimeout > 0 {
		s.WriteTimeout = cfg.WriteTimeout
	} else {
		s.WriteTimeout = DefaultWriteTimeout
	}

	// Cap line length to prevent buffer abuse
	s.MaxLineLength = DefaultMaxLineLength

	return s
}
