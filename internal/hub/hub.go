package hub

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/danny15002/doubleb/internal/repository"
)

// Hub is the connection registry and room fan-out broadcaster. It tracks
// every active realtime connection and the set of chat rooms each one has
// joined. One mutex covers both maps so a disconnect is atomic with
// respect to room snapshots.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client            // connection id -> client
	rooms   map[uint]map[string]*Client   // chat id -> connection id -> client

	chatRepo repository.ChatRepositoryInterface

	pingInterval time.Duration
	pongTimeout  time.Duration
}

// NewHub creates a hub and starts its health checker.
func NewHub(chatRepo repository.ChatRepositoryInterface) *Hub {
	h := &Hub{
		clients:      make(map[string]*Client),
		rooms:        make(map[uint]map[string]*Client),
		chatRepo:     chatRepo,
		pingInterval: 30 * time.Second,
		pongTimeout:  90 * time.Second,
	}

	go h.connectionHealthChecker()

	return h
}

// Register adds a connection with health monitoring. The connection joins
// no rooms yet; JoinAll/Join follow.
func (h *Hub) Register(connID string, userID uint, username string, conn Conn) *Client {
	client := &Client{
		ID:         connID,
		UserID:     userID,
		Username:   username,
		Conn:       conn,
		LastPong:   time.Now(),
		PingTicker: time.NewTicker(h.pingInterval),
		CloseChan:  make(chan struct{}),
	}
	client.setState(StateActive)

	conn.SetPongHandler(func(appData string) error {
		h.mu.Lock()
		if c, exists := h.clients[connID]; exists {
			c.LastPong = time.Now()
		}
		h.mu.Unlock()
		conn.SetReadDeadline(time.Now().Add(h.pongTimeout))
		return nil
	})
	conn.SetReadDeadline(time.Now().Add(h.pongTimeout))

	h.mu.Lock()
	h.clients[connID] = client
	total := len(h.clients)
	h.mu.Unlock()

	go h.pingRoutine(client)

	log.Printf("Connection %s (user %d) registered (total: %d)", connID, userID, total)
	return client
}

// Unregister removes a connection from the registry and from every room
// it joined, in one critical section.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	client, exists := h.clients[connID]
	if exists {
		if client.PingTicker != nil {
			client.PingTicker.Stop()
		}
		close(client.CloseChan)
		client.setState(StateInactive)
		delete(h.clients, connID)
		for chatID, room := range h.rooms {
			delete(room, connID)
			if len(room) == 0 {
				delete(h.rooms, chatID)
			}
		}
	}
	total := len(h.clients)
	h.mu.Unlock()

	if exists {
		log.Printf("Connection %s (user %d) unregistered (total: %d)", connID, client.UserID, total)
	}
}

// Join admits a connection to a chat room after a membership check.
func (h *Hub) Join(connID string, chatID uint) error {
	h.mu.RLock()
	client, exists := h.clients[connID]
	h.mu.RUnlock()
	if !exists {
		return nil // disconnected in the meantime
	}

	isMember, err := h.chatRepo.IsMember(chatID, client.UserID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrNotChatMember
	}

	h.joinLocked(client, chatID)
	return nil
}

// JoinAll joins a connection to every room its principal belongs to.
// Used at connect time and re-run on heartbeat as a defensive refresh.
func (h *Hub) JoinAll(connID string) error {
	h.mu.RLock()
	client, exists := h.clients[connID]
	h.mu.RUnlock()
	if !exists {
		return nil
	}

	chats, err := h.chatRepo.GetUserChats(client.UserID)
	if err != nil {
		return err
	}
	for _, chat := range chats {
		h.joinLocked(client, chat.ID)
	}
	return nil
}

func (h *Hub) joinLocked(client *Client, chatID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, stillThere := h.clients[client.ID]; !stillThere {
		return
	}
	room, ok := h.rooms[chatID]
	if !ok {
		room = make(map[string]*Client)
		h.rooms[chatID] = room
	}
	room[client.ID] = client
}

// Leave removes a connection from one room.
func (h *Hub) Leave(connID string, chatID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[chatID]; ok {
		delete(room, connID)
		if len(room) == 0 {
			delete(h.rooms, chatID)
		}
	}
}

// ConnectionsInRoom returns a snapshot of the clients joined to a room.
func (h *Hub) ConnectionsInRoom(chatID uint) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room := h.rooms[chatID]
	clients := make([]*Client, 0, len(room))
	for _, c := range room {
		clients = append(clients, c)
	}
	return clients
}

// HasOtherMember reports whether anyone besides excludeUserID is joined
// to the room. The lifecycle manager uses this for the read advance.
func (h *Hub) HasOtherMember(chatID uint, excludeUserID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.rooms[chatID] {
		if c.UserID != excludeUserID {
			return true
		}
	}
	return false
}

// IsUserInRoom reports whether the user holds any connection joined to
// the room. The push gateway uses this to skip reachable recipients.
func (h *Hub) IsUserInRoom(chatID uint, userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.rooms[chatID] {
		if c.UserID == userID {
			return true
		}
	}
	return false
}

// IsOnline checks if a user holds any registered connection.
func (h *Hub) IsOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if c.UserID == userID {
			return true
		}
	}
	return false
}

// IsConnInRoom reports whether a specific connection joined a room.
func (h *Hub) IsConnInRoom(connID string, chatID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.rooms[chatID][connID]
	return ok
}

// BroadcastToChat delivers one event to every connection joined to the
// room, including the originator so all of a user's devices converge.
// Best-effort: a failed write unregisters that connection and the rest
// proceed.
func (h *Hub) BroadcastToChat(chatID uint, eventType string, payload interface{}) {
	data, err := MarshalEvent(eventType, payload)
	if err != nil {
		log.Printf("Error marshaling %s event for chat %d: %v", eventType, chatID, err)
		return
	}

	for _, client := range h.ConnectionsInRoom(chatID) {
		if err := client.write(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending %s to connection %s: %v", eventType, client.ID, err)
			h.Unregister(client.ID)
		}
	}
}

// SendToClient writes one event to a single connection.
func (h *Hub) SendToClient(client *Client, eventType string, payload interface{}) error {
	data, err := MarshalEvent(eventType, payload)
	if err != nil {
		return err
	}
	return client.write(websocket.TextMessage, data)
}

// MarshalEvent wraps a payload in the wire envelope.
func MarshalEvent(eventType string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: eventType, Payload: raw})
}

// pingRoutine sends periodic ping frames to keep the connection alive.
func (h *Hub) pingRoutine(client *Client) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Ping routine recovered from panic for connection %s: %v", client.ID, r)
		}
	}()

	for {
		select {
		case <-client.CloseChan:
			return
		case <-client.PingTicker.C:
			h.mu.RLock()
			_, exists := h.clients[client.ID]
			h.mu.RUnlock()
			if !exists {
				return
			}

			if err := client.Conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				log.Printf("Ping failed for connection %s: %v", client.ID, err)
				h.Unregister(client.ID)
				return
			}
		}
	}
}

// connectionHealthChecker sweeps connections whose pongs stopped coming.
func (h *Hub) connectionHealthChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		h.mu.RLock()
		dead := make([]string, 0)
		now := time.Now()
		for connID, client := range h.clients {
			if now.Sub(client.LastPong) > h.pongTimeout {
				dead = append(dead, connID)
			}
		}
		h.mu.RUnlock()

		for _, connID := range dead {
			log.Printf("Removing dead connection %s (no pong received)", connID)
			h.Unregister(connID)
		}
	}
}
