// Package sweeper implements opportunistic expiry-driven garbage
// collection. There is no background scheduler: a sweep runs at the start
// of every externally triggered operation, so expired rows can linger in
// storage until the next request arrives. That leak is bounded and
// harmless because liveness checks already hide expired inboxes from every
// read path.
package sweeper

import (
	"context"
	"fmt"

	"github.com/erlandi/tempmail-backend/internal/logger"
	"github.com/erlandi/tempmail-backend/internal/repository"
)

// Sweeper deletes inboxes whose TTL has elapsed, cascading to their
// messages. Sweeps are idempotent: a second run over the same instant
// deletes nothing.
type Sweeper struct {
	inboxes repository.InboxRepository
	events  *logger.IngestLogger
}

// New creates a Sweeper. The event logger may be nil.
func New(inboxes repository.InboxRepository, events *logger.IngestLogger) *Sweeper {
	return &Sweeper{
		inboxes: inboxes,
		events:  events,
	}
}

// Sweep deletes all inboxes (and their messages) with expiresAt <= now.
func (s *Sweeper) Sweep(ctx context.Context, now int64) error {
	inboxes, messages, err := s.inboxes.DeleteExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	if s.events != nil && (inboxes > 0 || messages > 0) {
		s.events.SweepCompleted(inboxes, messages)
	}

	return nil
}
