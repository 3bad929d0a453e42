//go:build integration

package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/erlandi/tempmail-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PostgresIntegrationTestSuite exercises the repositories against a real
// PostgreSQL instance, covering behavior SQLite cannot (error code 23505,
// concurrent-safe sweeps inside a transaction).
type PostgresIntegrationTestSuite struct {
	suite.Suite
	container   testcontainers.Container
	db          *gorm.DB
	inboxRepo   InboxRepository
	messageRepo MessageRepository
}

// SetupSuite starts a PostgreSQL container and runs migrations
func (s *PostgresIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "tempmail_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(s.T(), err)
	s.container = container

	host, err := container.Host(ctx)
	require.NoError(s.T(), err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(s.T(), err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=tempmail_test sslmode=disable",
		host, port.Port())

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err)
	s.db = db

	err = db.AutoMigrate(&models.Inbox{}, &models.Message{})
	require.NoError(s.T(), err)

	s.inboxRepo = NewInboxRepository(db)
	s.messageRepo = NewMessageRepository(db)
}

// TearDownSuite stops the PostgreSQL container
func (s *PostgresIntegrationTestSuite) TearDownSuite() {
	if s.container != nil {
		s.container.Terminate(context.Background())
	}
}

// SetupTest cleans up data before each test
func (s *PostgresIntegrationTestSuite) SetupTest() {
	s.db.Exec("TRUNCATE TABLE messages, inboxes CASCADE")
}

// TestPostgresIntegrationTestSuite runs the test suite
func TestPostgresIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresIntegrationTestSuite))
}

func (s *PostgresIntegrationTestSuite) TestInbox_DuplicateAddress_MapsToErrDuplicateEntry() {
	ctx := context.Background()

	first := &models.Inbox{ID: "tok_pg_dup_addr_001", Address: "tmp-pgdup@mail.test", CreatedAt: 1000, ExpiresAt: 5000}
	require.NoError(s.T(), s.inboxRepo.Create(ctx, first))

	second := &models.Inbox{ID: "tok_pg_dup_addr_002", Address: "tmp-pgdup@mail.test", CreatedAt: 1000, ExpiresAt: 5000}
	err := s.inboxRepo.Create(ctx, second)

	// Postgres reports SQLSTATE 23505; the repository must translate it.
	assert.ErrorIs(s.T(), err, ErrDuplicateEntry)
}

func (s *PostgresIntegrationTestSuite) TestMessage_DuplicateDedupKey_MapsToErrDuplicateEntry() {
	ctx := context.Background()

	inbox := &models.Inbox{ID: "tok_pg_dedup_00001", Address: "tmp-pgdedup@mail.test", CreatedAt: 1000, ExpiresAt: 5000}
	require.NoError(s.T(), s.inboxRepo.Create(ctx, inbox))

	msg := &models.Message{
		ID:         "msg_pg_dedup_000001",
		InboxID:    inbox.ID,
		DedupKey:   "pg_dedup_key",
		MailFrom:   "sender@example.com",
		RcptTo:     inbox.Address,
		Subject:    "Hi",
		ReceivedAt: 2000,
	}
	require.NoError(s.T(), s.messageRepo.Create(ctx, msg))

	retry := &models.Message{
		ID:         "msg_pg_dedup_000002",
		InboxID:    inbox.ID,
		DedupKey:   "pg_dedup_key",
		MailFrom:   "sender@example.com",
		RcptTo:     inbox.Address,
		Subject:    "Hi",
		ReceivedAt: 2001,
	}
	err := s.messageRepo.Create(ctx, retry)

	assert.ErrorIs(s.T(), err, ErrDuplicateEntry)
}

func (s *PostgresIntegrationTestSuite) TestDeleteExpired_TransactionalCascade() {
	ctx := context.Background()

	expired := &models.Inbox{ID: "tok_pg_sweep_00001", Address: "tmp-pgsweep@mail.test", CreatedAt: 100, ExpiresAt: 1000}
	require.NoError(s.T(), s.inboxRepo.Create(ctx, expired))

	for i := 0; i < 3; i++ {
		msg := &models.Message{
			ID:         fmt.Sprintf("msg_pg_sweep_%06d", i),
			InboxID:    expired.ID,
			DedupKey:   fmt.Sprintf("pg_sweep_%d", i),
			MailFrom:   "sender@example.com",
			RcptTo:     expired.Address,
			Subject:    "Sweep",
			ReceivedAt: 500,
		}
		require.NoError(s.T(), s.messageRepo.Create(ctx, msg))
	}

	inboxes, messages, err := s.inboxRepo.DeleteExpired(ctx, 1000)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), int64(1), inboxes)
	assert.Equal(s.T(), int64(3), messages)

	var orphans int64
	s.db.Model(&models.Message{}).Count(&orphans)
	assert.Equal(s.T(), int64(0), orphans)
}
