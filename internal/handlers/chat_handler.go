package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/danny15002/doubleb/internal/httpx"
	"github.com/danny15002/doubleb/internal/models"
	"github.com/danny15002/doubleb/internal/service"
)

type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) GetMyChats(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	chats, err := h.chatService.GetUserChats(userID)
	if err != nil {
		return httpx.Internal(c, "get_chats_failed")
	}
	return c.JSON(fiber.Map{"chats": chats})
}

func (h *ChatHandler) CreateChat(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input service.CreateChatInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	chat, err := h.chatService.CreateChat(userID, input)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return httpx.BadRequest(c, "validation_failed", err.Error())
		}
		return httpx.Internal(c, "create_chat_failed")
	}
	return c.Status(fiber.StatusCreated).JSON(chat)
}

func (h *ChatHandler) DeleteChat(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	chatID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return httpx.BadRequest(c, "invalid_chat_id", "Invalid chat id")
	}

	if err := h.chatService.DeleteChat(uint(chatID), userID); err != nil {
		switch {
		case errors.Is(err, service.ErrAccessDenied):
			return httpx.Forbidden(c, "access_denied", "Only the chat owner can delete it")
		case errors.Is(err, service.ErrNotFound):
			return httpx.NotFound(c, "chat_not_found", "Chat not found")
		default:
			return httpx.Internal(c, "delete_chat_failed")
		}
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ChatHandler) GetMembers(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	chatID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return httpx.BadRequest(c, "invalid_chat_id", "Invalid chat id")
	}

	members, err := h.chatService.GetMembers(uint(chatID), userID)
	if err != nil {
		if errors.Is(err, service.ErrAccessDenied) {
			return httpx.Forbidden(c, "access_denied", "Not a member of this chat")
		}
		return httpx.Internal(c, "get_members_failed")
	}

	responses := make([]models.UserResponse, 0, len(members))
	for i := range members {
		responses = append(responses, members[i].ToResponse())
	}
	return c.JSON(fiber.Map{"members": responses})
}
