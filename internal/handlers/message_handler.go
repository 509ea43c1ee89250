package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/danny15002/doubleb/internal/httpx"
	"github.com/danny15002/doubleb/internal/models"
	"github.com/danny15002/doubleb/internal/service"
)

type MessageHandler struct {
	messageService *service.MessageService
}

func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// GetChatMessages returns cursor-paginated history for one chat.
func (h *MessageHandler) GetChatMessages(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	chatID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return httpx.BadRequest(c, "invalid_chat_id", "Invalid chat id")
	}

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	var cursor uint
	if cursorStr := c.Query("cursor"); cursorStr != "" {
		parsed, err := strconv.ParseUint(cursorStr, 10, 32)
		if err != nil {
			return httpx.BadRequest(c, "invalid_cursor", "Invalid cursor")
		}
		cursor = uint(parsed)
	}

	messages, err := h.messageService.GetChatMessages(userID, uint(chatID), cursor, limit)
	if err != nil {
		if errors.Is(err, service.ErrAccessDenied) {
			return httpx.Forbidden(c, "access_denied", "Not a member of this chat")
		}
		return httpx.Internal(c, "get_messages_failed")
	}

	responses := make([]models.MessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, messages[i].ToResponse())
	}

	return c.JSON(fiber.Map{"messages": responses})
}
