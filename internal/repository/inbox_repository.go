package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/erlandi/tempmail-backend/internal/models"
	"gorm.io/gorm"
)

// InboxRepository defines the interface for inbox data access
type InboxRepository interface {
	Create(ctx context.Context, inbox *models.Inbox) error
	GetByToken(ctx context.Context, token string) (*models.Inbox, error)
	GetByAddress(ctx context.Context, address string) (*models.Inbox, error)
	DeleteExpired(ctx context.Context, now int64) (inboxes int64, messages int64, err error)
}

// inboxRepository implements InboxRepository using GORM
type inboxRepository struct {
	db *gorm.DB
}

// NewInboxRepository creates a new InboxRepository instance
func NewInboxRepository(db *gorm.DB) InboxRepository {
	return &inboxRepository{db: db}
}

// Create inserts a new inbox. It never updates an existing row: a token or
// address collision surfaces as ErrDuplicateEntry and the caller must not
// retry with the same token.
func (r *inboxRepository) Create(ctx context.Context, inbox *models.Inbox) error {
	result := r.db.WithContext(ctx).Create(inbox)
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return fmt.Errorf("inbox '%s' already exists: %w", inbox.Address, ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create inbox: %w", result.Error)
	}
	return nil
}

// GetByToken retrieves an inbox by its token. It does not filter by
// liveness; checking ExpiresAt against the current time is the caller's
// responsibility.
func (r *inboxRepository) GetByToken(ctx context.Context, token string) (*models.Inbox, error) {
	var inbox models.Inbox
	result := r.db.WithContext(ctx).Where("id = ?", token).First(&inbox)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get inbox by token: %w", result.Error)
	}
	return &inbox, nil
}

// GetByAddress retrieves an inbox by its generated email address
func (r *inboxRepository) GetByAddress(ctx context.Context, address string) (*models.Inbox, error) {
	var inbox models.Inbox
	result := r.db.WithContext(ctx).Where("address = ?", address).First(&inbox)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get inbox by address: %w", result.Error)
	}
	return &inbox, nil
}

// DeleteExpired removes every inbox whose TTL has elapsed as of now,
// together with its messages. Messages are deleted first so a failure
// between the two statements can never leave orphaned rows.
func (r *inboxRepository) DeleteExpired(ctx context.Context, now int64) (int64, int64, error) {
	var deletedInboxes, deletedMessages int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("inbox_id IN (?)",
			tx.Model(&models.Inbox{}).Select("id").Where("expires_at <= ?", now),
		).Delete(&models.Message{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete expired messages: %w", result.Error)
		}
		deletedMessages = result.RowsAffected

		result = tx.Where("expires_at <= ?", now).Delete(&models.Inbox{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete expired inboxes: %w", result.Error)
		}
		deletedInboxes = result.RowsAffected

		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	return deletedInboxes, deletedMessages, nil
}
