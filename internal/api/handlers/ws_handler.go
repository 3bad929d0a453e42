package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/erlandi/tempmail-backend/internal/api/response"
	"github.com/erlandi/tempmail-backend/internal/repository"
	"github.com/erlandi/tempmail-backend/internal/validator"
	ws "github.com/erlandi/tempmail-backend/internal/websocket"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// WSHandler upgrades inbox-watch connections. Subscription follows the
// same capability rules as listing messages: a malformed, unknown or
// expired token never reaches the upgrade.
type WSHandler struct {
	hub       *ws.Hub
	inboxRepo repository.InboxRepository
	upgrader  websocket.Upgrader
	logger    *slog.Logger
	now       func() int64
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(hub *ws.Hub, inboxRepo repository.InboxRepository, upgrader websocket.Upgrader, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		hub:       hub,
		inboxRepo: inboxRepo,
		upgrader:  upgrader,
		logger:    logger,
		now:       func() int64 { return time.Now().Unix() },
	}
}

// Subscribe handles GET /api/inbox/:token/ws
func (h *WSHandler) Subscribe(c echo.Context) error {
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

	if !inbox.Live(h.now()) {
		return response.NotFound(c, "Inbox not found or expired")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the handshake error.
		return nil
	}

	client := ws.NewClient(h.hub, conn, inbox.ID, h.logger)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	return nil
}
