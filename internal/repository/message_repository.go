package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/erlandi/tempmail-backend/internal/models"
	"gorm.io/gorm"
)

// DefaultPageSize bounds the number of messages returned by ListByInbox.
const DefaultPageSize = 50

// MessageRepository defines the interface for message data access
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id string) (*models.Message, error)
	ListByInbox(ctx context.Context, inboxID string, limit int) ([]models.MessageListItem, error)
}

// messageRepository implements MessageRepository using GORM
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository instance
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create inserts a new message. A dedup-key collision surfaces as
// ErrDuplicateEntry; the ingestion pipeline treats that as an already
// delivered message, not a failure.
func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	result := r.db.WithContext(ctx).Create(message)
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return fmt.Errorf("message with dedup key '%s' already exists: %w", message.DedupKey, ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create message: %w", result.Error)
	}
	return nil
}

// GetByID retrieves a full message, including bodies
func (r *messageRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	var message models.Message
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&message)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get message by ID: %w", result.Error)
	}
	return &message, nil
}

// ListByInbox retrieves message summaries for an inbox ordered newest first.
// Ties on received_at break by id so pagination stays stable. An inbox with
// no messages yields an empty slice, never an error.
func (r *messageRepository) ListByInbox(ctx context.Context, inboxID string, limit int) ([]models.MessageListItem, error) {
	if limit <= 0 || limit > DefaultPageSize {
		limit = DefaultPageSize
	}

	results := make([]models.MessageListItem, 0, limit)
	err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Select("id", "mail_from", "subject", "received_at").
		Where("inbox_id = ?", inboxID).
		Order("received_at DESC").
		Order("id DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	return results, nil
}
