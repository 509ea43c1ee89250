package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/danny15002/doubleb/internal/httpx"
	"github.com/danny15002/doubleb/internal/service"
)

type PushHandler struct {
	subscriptionService *service.PushSubscriptionService
}

func NewPushHandler(subscriptionService *service.PushSubscriptionService) *PushHandler {
	return &PushHandler{subscriptionService: subscriptionService}
}

func (h *PushHandler) Subscribe(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input service.SubscribeInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	if err := h.subscriptionService.Subscribe(userID, input); err != nil {
		if errors.Is(err, service.ErrValidation) {
			return httpx.BadRequest(c, "validation_failed", err.Error())
		}
		return httpx.Internal(c, "subscribe_failed")
	}
	return c.SendStatus(fiber.StatusCreated)
}

func (h *PushHandler) Unsubscribe(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Unauthorized")
	}

	var input struct {
		Endpoint string `json:"endpoint"`
	}
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_request_body", "Invalid request body")
	}

	if err := h.subscriptionService.Unsubscribe(userID, input.Endpoint); err != nil {
		if errors.Is(err, service.ErrValidation) {
			return httpx.BadRequest(c, "validation_failed", err.Error())
		}
		return httpx.Internal(c, "unsubscribe_failed")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
