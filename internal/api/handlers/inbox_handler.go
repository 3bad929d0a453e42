package handlers

import (
	"errors"
	"time"

	"github.com/erlandi/tempmail-backend/internal/api/response"
	"github.com/erlandi/tempmail-backend/internal/config"
	"github.com/erlandi/tempmail-backend/internal/models"
	"github.com/erlandi/tempmail-backend/internal/repository"
	"github.com/erlandi/tempmail-backend/internal/token"
	"github.com/erlandi/tempmail-backend/internal/validator"
	"github.com/labstack/echo/v4"
)

// InboxHandler handles inbox-related HTTP requests
type InboxHandler struct {
	inboxRepo   repository.InboxRepository
	messageRepo repository.MessageRepository
	cfg         *config.Config
	now         func() int64
}

// NewInboxHandler creates a new InboxHandler
func NewInboxHandler(inboxRepo repository.InboxRepository, messageRepo repository.MessageRepository, cfg *config.Config) *InboxHandler {
	return &InboxHandler{
		inboxRepo:   inboxRepo,
		messageRepo: messageRepo,
		cfg:         cfg,
		now:         func() int64 { return time.Now().Unix() },
	}
}

// CreateInboxResponse is the payload returned for a freshly minted inbox.
// The token is the read credential; it is shown exactly once here.
type CreateInboxResponse struct {
	Token     string `json:"token"`
	Address   string `json:"address"`
	ExpiresAt int64  `json:"expiresAt"`
}

// ListMessagesResponse pairs the inbox with its newest message summaries.
type ListMessagesResponse struct {
	Inbox    *models.Inbox            `json:"inbox"`
	Messages []models.MessageListItem `json:"messages"`
}

// Create handles POST /api/inbox
func (h *InboxHandler) Create(c echo.Context) error {
	tok, err := token.NewToken(h.cfg.TokenLength)
	if err != nil {
		return response.InternalError(c, "failed to create inbox")
	}

	local, err := token.NewLocalPart(h.cfg.InboxPrefix, h.cfg.LocalPartLength)
	if err != nil {
		return response.InternalError(c, "failed to create inbox")
	}

	created := h.now()
	inbox := &models.Inbox{
		ID:        tok,
		Address:   local + "@" + h.cfg.MailDomain,
		CreatedAt: created,
		ExpiresAt: created + h.cfg.InboxTTLSeconds,
	}

	// A token or address collision is statistically negligible; when it
	// does happen the attempt is not retried and surfaces as a server
	// error.
	if err := h.inboxRepo.Create(c.Request().Context(), inbox); err != nil {
		return response.InternalError(c, "failed to create inbox")
	}

	return response.OK(c, CreateInboxResponse{
		Token:     inbox.ID,
		Address:   inbox.Address,
		ExpiresAt: inbox.ExpiresAt,
	})
}

// ListMessages handles GET /api/inbox/:token/messages. Malformed, unknown
// and expired tokens are indistinguishable from the outside: all yield the
// same 404.
func (h *InboxHandler) ListMessages(c echo.Context) error {
	tok := c.Param("token")
	if err := validator.ValidateToken(tok); err != nil {
		return response.NotFound(c, "Inbox not found or expired")
	}

	inbox, err := h.inboxRepo.GetByToken(c.Request().Context(), tok)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "Inbox not found or expired")
		}
		return response.InternalError(c, "failed to get inbox")
	}

	// An expired inbox may not have been swept yet; it must still read as
	// gone.
	if !inbox.Live(h.now()) {
		return response.NotFound(c, "Inbox not found or expired")
	}

	messages, err := h.messageRepo.ListByInbox(c.Request().Context(), inbox.ID, repository.DefaultPageSize)
	if err != nil {
		return response.InternalError(c, "failed to list messages")
	}

	return response.OK(c, ListMessagesResponse{
		Inbox:    inbox,
		Messages: messages,
	})
}
