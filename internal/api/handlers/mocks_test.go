package handlers

import (
	"context"

	"github.com/erlandi/tempmail-backend/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockInboxRepository is a testify mock for repository.InboxRepository
type MockInboxRepository struct {
	mock.Mock
}

func (m *MockInboxRepository) Create(ctx context.Context, inbox *models.Inbox) error {
	args := m.Called(ctx, inbox)
	return args.Error(0)
}

func (m *MockInboxRepository) GetByToken(ctx context.Context, token string) (*models.Inbox, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inbox), args.Error(1)
}

func (m *MockInboxRepository) GetByAddress(ctx context.Context, address string) (*models.Inbox, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inbox), args.Error(1)
}

func (m *MockInboxRepository) DeleteExpired(ctx context.Context, now int64) (int64, int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

// MockMessageRepository is a testify mock for repository.MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, message *models.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockMessageRepository) ListByInbox(ctx context.Context, inboxID string, limit int) ([]models.MessageListItem, error) {
	args := m.Called(ctx, inboxID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MessageListItem), args.Error(1)
}
