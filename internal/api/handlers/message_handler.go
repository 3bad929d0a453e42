package handlers

import (
	"errors"

	"github.com/erlandi/tempmail-backend/internal/api/response"
	"github.com/erlandi/tempmail-backend/internal/repository"
	"github.com/erlandi/tempmail-backend/internal/validator"
	"github.com/labstack/echo/v4"
)

// MessageHandler handles message-related HTTP requests
type MessageHandler struct {
	messageRepo repository.MessageRepository
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageRepo repository.MessageRepository) *MessageHandler {
	return &MessageHandler{
		messageRepo: messageRepo,
	}
}

// Get handles GET /api/message/:id. Message ids are unguessable
// capabilities in the same trust model as inbox tokens, so possession of
// the id is the only ownership check.
func (h *MessageHandler) Get(c echo.Context) error {
	id := c.Param("id")
	if err := validator.ValidateMessageID(id); err != nil {
		return response.NotFound(c, "Message not found")
	}

	message, err := h.messageRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response.NotFound(c, "Message not found")
		}
		return response.InternalError(c, "failed to get message")
	}

	return response.OK(c, message)
}
