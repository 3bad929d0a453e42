package sweeper

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/erlandi/tempmail-backend/internal/logger"
	"github.com/erlandi/tempmail-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubInboxRepository implements repository.InboxRepository for sweep tests
type stubInboxRepository struct {
	deletedInboxes  int64
	deletedMessages int64
	err             error
	lastNow         int64
}

func (s *stubInboxRepository) Create(ctx context.Context, inbox *models.Inbox) error {
	return nil
}

func (s *stubInboxRepository) GetByToken(ctx context.Context, token string) (*models.Inbox, error) {
	return nil, nil
}

func (s *stubInboxRepository) GetByAddress(ctx context.Context, address string) (*models.Inbox, error) {
	return nil, nil
}

func (s *stubInboxRepository) DeleteExpired(ctx context.Context, now int64) (int64, int64, error) {
	s.lastNow = now
	return s.deletedInboxes, s.deletedMessages, s.err
}

func TestSweep_PassesCutoffToStore(t *testing.T) {
	repo := &stubInboxRepository{}
	s := New(repo, nil)

	err := s.Sweep(context.Background(), 12345)

	require.NoError(t, err)
	assert.Equal(t, int64(12345), repo.lastNow)
}

func TestSweep_LogsWhenRowsDeleted(t *testing.T) {
	repo := &stubInboxRepository{deletedInboxes: 2, deletedMessages: 5}

	var buf bytes.Buffer
	events := logger.NewIngestLoggerWithHandler(slog.NewJSONHandler(&buf, nil))
	s := New(repo, events)

	err := s.Sweep(context.Background(), 1000)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "sweep_completed")
	assert.Contains(t, buf.String(), `"inboxes_deleted":2`)
	assert.Contains(t, buf.String(), `"messages_deleted":5`)
}

func TestSweep_SilentWhenNothingDeleted(t *testing.T) {
	repo := &stubInboxRepository{}

	var buf bytes.Buffer
	events := logger.NewIngestLoggerWithHandler(slog.NewJSONHandler(&buf, nil))
	s := New(repo, events)

	err := s.Sweep(context.Background(), 1000)

	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestSweep_PropagatesStoreError(t *testing.T) {
	storeErr := errors.New("connection reset")
	repo := &stubInboxRepository{err: storeErr}
	s := New(repo, nil)

	err := s.Sweep(context.Background(), 1000)

	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
}
