// Package ingest implements the inbound-message acceptance pipeline:
// recipient policy checks, inbox liveness checks, duplicate suppression,
// body extraction and persistence.
package ingest

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/erlandi/tempmail-backend/internal/logger"
	"github.com/erlandi/tempmail-backend/internal/models"
	"github.com/erlandi/tempmail-backend/internal/repository"
	"github.com/google/uuid"
)

// InboundMessage is what the mail transport hands the pipeline per
// delivered message: envelope fields, the Message-ID header (may be
// empty), a plain-text rendering (empty when the transport could not
// produce one) and the raw payload bytes (nil when unavailable).
type InboundMessage struct {
	From      string
	To        string
	Subject   string
	MessageID string
	Text      string
	Raw       []byte
}

// Outcome is the terminal state of one pipeline run.
type Outcome int

const (
	// Accepted means the message was stored.
	Accepted Outcome = iota
	// Deduplicated means a message with the same fingerprint already
	// exists; the delivery is treated as a retry and dropped.
	Deduplicated
	// RejectedNotOurs means the recipient is outside the managed
	// domain/prefix. No storage access happens in this case.
	RejectedNotOurs
	// RejectedUnknown means no inbox exists for the recipient address.
	RejectedUnknown
	// RejectedExpired means the inbox exists but its TTL has elapsed.
	RejectedExpired
	// RejectedStoreError means persistence failed; the message is
	// discarded with no retry scheduled.
	RejectedStoreError
)

// String returns the log-friendly name of an outcome.
func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Deduplicated:
		return "deduplicated"
	case RejectedNotOurs:
		return "not-ours"
	case RejectedUnknown:
		return "unknown"
	case RejectedExpired:
		return "expired"
	case RejectedStoreError:
		return "store-error"
	default:
		return "invalid"
	}
}

// Stored reports whether the outcome left a new row in the store.
func (o Outcome) Stored() bool {
	return o == Accepted
}

// Notifier receives a summary of each accepted message. Used to push live
// updates to connected viewers; delivery is best-effort.
type Notifier interface {
	NewMessage(inboxID string, item models.MessageListItem)
}

// Sweeper runs expiry garbage collection before the pipeline consults the
// store.
type Sweeper interface {
	Sweep(ctx context.Context, now int64) error
}

// PipelineConfig holds dependencies for the acceptance pipeline
type PipelineConfig struct {
	Inboxes  repository.InboxRepository
	Messages repository.MessageRepository
	Sweeper  Sweeper
	Notifier Notifier
	Events   *logger.IngestLogger
	// Domain and Prefix define the recipient policy: only addresses under
	// Domain whose local part starts with Prefix are ours.
	Domain string
	Prefix string
}

// Pipeline validates, deduplicates and persists inbound messages. Every
// discard path is silent toward the mail transport; outcomes surface only
// through logging.
type Pipeline struct {
	inboxes  repository.InboxRepository
	messages repository.MessageRepository
	sweeper  Sweeper
	notifier Notifier
	events   *logger.IngestLogger
	domain   string
	prefix   string
	now      func() int64
}

// NewPipeline creates a Pipeline from its configuration.
func NewPipeline(cfg *PipelineConfig) *Pipeline {
	return &Pipeline{
		inboxes:  cfg.Inboxes,
		messages: cfg.Messages,
		sweeper:  cfg.Sweeper,
		notifier: cfg.Notifier,
		events:   cfg.Events,
		domain:   strings.ToLower(cfg.Domain),
		prefix:   strings.ToLower(cfg.Prefix),
		now:      func() int64 { return time.Now().Unix() },
	}
}

// Accept runs one inbound message through the pipeline and returns its
// terminal state. It never returns an error: the transport cannot usefully
// act on a rejection at this stage.
func (p *Pipeline) Accept(ctx context.Context, msg *InboundMessage) Outcome {
	// Policy check first, before any storage access.
	if !p.managedRecipient(msg.To) {
		p.rejected(msg.To, RejectedNotOurs)
		return RejectedNotOurs
	}

	now := p.now()

	if p.sweeper != nil {
		// A failed sweep must not block ingestion; expired inboxes are
		// filtered by the liveness check below either way.
		_ = p.sweeper.Sweep(ctx, now)
	}

	inbox, err := p.inboxes.GetByAddress(ctx, msg.To)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			p.rejected(msg.To, RejectedUnknown)
			return RejectedUnknown
		}
		p.storeFailure(msg.To, err)
		return RejectedStoreError
	}

	if !inbox.Live(now) {
		p.rejected(msg.To, RejectedExpired)
		return RejectedExpired
	}

	textBody, htmlBody := ExtractBodies(msg.Text, msg.Raw)

	message := &models.Message{
		ID:         uuid.NewString(),
		InboxID:    inbox.ID,
		DedupKey:   DedupKey(msg.MessageID, msg.From, msg.To, msg.Subject),
		MailFrom:   msg.From,
		RcptTo:     msg.To,
		Subject:    msg.Subject,
		ReceivedAt: now,
		TextBody:   textBody,
		HTMLBody:   htmlBody,
	}

	if err := p.messages.Create(ctx, message); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			if p.events != nil {
				p.events.MessageDeduplicated(inbox.ID, message.DedupKey)
			}
			return Deduplicated
		}
		p.storeFailure(msg.To, err)
		return RejectedStoreError
	}

	if p.events != nil {
		p.events.MessageAccepted(inbox.ID, message.ID, message.MailFrom)
	}

	if p.notifier != nil {
		p.notifier.NewMessage(inbox.ID, models.MessageListItem{
			ID:         message.ID,
			MailFrom:   message.MailFrom,
			Subject:    message.Subject,
			ReceivedAt: message.ReceivedAt,
		})
	}

	return Accepted
}

// managedRecipient reports whether the address falls under the configured
// domain and local-part prefix, case-insensitively.
func (p *Pipeline) managedRecipient(address string) bool {
	addr := strings.ToLower(strings.TrimSpace(address))
	return strings.HasSuffix(addr, "@"+p.domain) && strings.HasPrefix(addr, p.prefix)
}

func (p *Pipeline) rejected(rcptTo string, outcome Outcome) {
	if p.events != nil {
		p.events.MessageRejected(rcptTo, outcome.String())
	}
}

func (p *Pipeline) storeFailure(rcptTo string, err error) {
	if p.events != nil {
		p.events.StoreFailure(rcptTo, err)
	}
}
