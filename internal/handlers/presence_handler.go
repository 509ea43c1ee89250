package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/danny15002/doubleb/internal/httpx"
)

// PresenceReader answers online-status queries from the shared presence
// store.
type PresenceReader interface {
	IsUserOnline(userID uint) bool
	GetOnlineUsers() ([]uint, error)
}

// ConnectionChecker answers whether this process holds a live connection
// for a user. Backs up the presence store when Redis is absent.
type ConnectionChecker interface {
	IsOnline(userID uint) bool
}

type PresenceHandler struct {
	presence    PresenceReader
	connections ConnectionChecker
}

func NewPresenceHandler(presence PresenceReader, connections ConnectionChecker) *PresenceHandler {
	return &PresenceHandler{presence: presence, connections: connections}
}

// GetOnlineUsers returns the IDs of every user the presence store
// currently marks online.
func (h *PresenceHandler) GetOnlineUsers(c *fiber.Ctx) error {
	userIDs, err := h.presence.GetOnlineUsers()
	if err != nil {
		return httpx.Internal(c, "get_online_users_failed")
	}
	if userIDs == nil {
		userIDs = []uint{}
	}
	return c.JSON(fiber.Map{"user_ids": userIDs})
}

// GetUserOnline reports one user's online status. The local connection
// registry is consulted as a fallback so the answer stays useful when the
// presence store is unavailable.
func (h *PresenceHandler) GetUserOnline(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return httpx.BadRequest(c, "invalid_user_id", "Invalid user id")
	}

	online := h.presence.IsUserOnline(uint(userID))
	if !online && h.connections != nil {
		online = h.connections.IsOnline(uint(userID))
	}
	return c.JSON(fiber.Map{
		"user_id":   uint(userID),
		"is_online": online,
	})
}
