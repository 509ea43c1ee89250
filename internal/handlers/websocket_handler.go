package handlers

import (
	"log"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/danny15002/doubleb/internal/cache"
	"github.com/danny15002/doubleb/internal/hub"
	"github.com/danny15002/doubleb/internal/repository"
)

type WebSocketHandler struct {
	hub           *hub.Hub
	dispatcher    *hub.Dispatcher
	userRepo      repository.UserRepositoryInterface
	presenceCache *cache.PresenceCache
}

func NewWebSocketHandler(h *hub.Hub, dispatcher *hub.Dispatcher, userRepo repository.UserRepositoryInterface, presenceCache *cache.PresenceCache) *WebSocketHandler {
	return &WebSocketHandler{
		hub:           h,
		dispatcher:    dispatcher,
		userRepo:      userRepo,
		presenceCache: presenceCache,
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	userID := c.Locals("userID").(uint)
	username, _ := c.Locals("username").(string)
	connID := uuid.NewString()

	client := h.hub.Register(connID, userID, username, c)

	// Join every room the principal belongs to before any fan-out can
	// miss this connection.
	if err := h.hub.JoinAll(connID); err != nil {
		log.Printf("Failed to join rooms for connection %s: %v", connID, err)
	}

	go func() {
		if err := h.presenceCache.SetUserOnline(userID); err != nil {
			log.Printf("Failed to set user %d online in cache: %v", userID, err)
		}
		if err := h.userRepo.UpdateOnlineStatus(userID, true); err != nil {
			log.Printf("Failed to set user %d online in DB: %v", userID, err)
		}
	}()

	defer func() {
		h.hub.Unregister(connID)
		go func() {
			if h.hub.IsOnline(userID) {
				return // another device still connected
			}
			if err := h.presenceCache.SetUserOffline(userID); err != nil {
				log.Printf("Failed to set user %d offline in cache: %v", userID, err)
			}
			if err := h.userRepo.UpdateOnlineStatus(userID, false); err != nil {
				log.Printf("Failed to set user %d offline in DB: %v", userID, err)
			}
		}()
	}()

	log.Printf("User %d connected via WebSocket (connection %s)", userID, connID)

	for {
		_, messageBytes, err := c.ReadMessage()
		if err != nil {
			log.Printf("Error reading message from connection %s: %v", connID, err)
			break
		}

		if err := h.dispatcher.Dispatch(client, messageBytes); err != nil {
			log.Printf("Error processing event from user %d: %v", userID, err)
		}
	}

	log.Printf("User %d disconnected from WebSocket (connection %s)", userID, connID)
}
