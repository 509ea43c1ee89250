package hub

import (
	"encoding/json"
	"errors"
)

// ErrNotChatMember is returned when a connection tries to join a room for
// a chat its principal does not belong to.
var ErrNotChatMember = errors.New("not a chat member")

// Envelope is the wire format for both directions: a type tag and a raw
// payload decoded per-variant by the dispatcher.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Client→server event names. The dispatcher switch in dispatch.go is the
// single, closed handler for this set.
const (
	InJoinAll        = "join-all-rooms"
	InJoinRoom       = "join-room"
	InSendMessage    = "send-message"
	InEditMessage    = "edit-message"
	InDeleteMessage  = "delete-message"
	InToggleReaction = "toggle-reaction"
	InTypingStart    = "typing-start"
	InTypingStop     = "typing-stop"
	InHeartbeat      = "heartbeat"
	InPing           = "ping"
)

const (
	OutError = "error"
	OutPong  = "pong"
)

type JoinRoomPayload struct {
	ChatID uint `json:"chat_id"`
}

type EditMessagePayload struct {
	MessageID uint   `json:"message_id"`
	Content   string `json:"content"`
}

type DeleteMessagePayload struct {
	MessageID uint `json:"message_id"`
}

type ToggleReactionPayload struct {
	MessageID uint   `json:"message_id"`
	Emoji     string `json:"emoji"`
}

type TypingStatePayload struct {
	ChatID uint `json:"chat_id"`
}

// HeartbeatPayload carries the optional re-subscription a foregrounding
// client sends when its delivery keys may have rotated.
type HeartbeatPayload struct {
	Subscription *SubscriptionPayload `json:"subscription,omitempty"`
}

type SubscriptionPayload struct {
	Endpoint string `json:"endpoint"`
	P256DH   string `json:"p256dh"`
	Auth     string `json:"auth"`
}

// ErrorPayload is the typed error event surfaced to the offending client.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
