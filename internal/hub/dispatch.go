package hub

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/danny15002/doubleb/internal/service"
)

// NotificationDrainer hands back the most recent notification that could
// not be delivered while a principal was unreachable.
type NotificationDrainer interface {
	DrainLatest(userID uint) (interface{}, bool)
}

// SubscriptionRefresher renews a push subscription's key material.
type SubscriptionRefresher interface {
	Refresh(userID uint, endpoint, p256dh, auth string) error
}

// PresenceRefresher extends a principal's online TTL in the shared
// presence store while their connection stays healthy.
type PresenceRefresher interface {
	RefreshUserOnline(userID uint) error
}

// Dispatcher decodes inbound envelopes and routes them to the services.
// One switch covers the whole closed inbound event set.
type Dispatcher struct {
	hub           *Hub
	messages      *service.MessageService
	chats         *service.ChatService
	drainer       NotificationDrainer
	subscriptions SubscriptionRefresher
	presence      PresenceRefresher
}

func NewDispatcher(
	h *Hub,
	messages *service.MessageService,
	chats *service.ChatService,
	drainer NotificationDrainer,
	subscriptions SubscriptionRefresher,
	presence PresenceRefresher,
) *Dispatcher {
	return &Dispatcher{
		hub:           h,
		messages:      messages,
		chats:         chats,
		drainer:       drainer,
		subscriptions: subscriptions,
		presence:      presence,
	}
}

// Dispatch handles one inbound frame. Errors are reported to the client
// as typed error events and returned for logging; they never kill the
// connection.
func (d *Dispatcher) Dispatch(client *Client, raw []byte) error {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		d.sendError(client, "invalid_message", "Invalid message format")
		return err
	}

	var err error
	switch env.Type {
	case InJoinAll:
		err = d.hub.JoinAll(client.ID)

	case InJoinRoom:
		var p JoinRoomPayload
		if err = json.Unmarshal(env.Payload, &p); err == nil {
			err = d.hub.Join(client.ID, p.ChatID)
		}

	case InSendMessage:
		var p service.SendMessageInput
		if err = json.Unmarshal(env.Payload, &p); err == nil {
			_, err = d.messages.Create(client.UserID, p)
		}

	case InEditMessage:
		var p EditMessagePayload
		if err = json.Unmarshal(env.Payload, &p); err == nil {
			_, err = d.messages.Edit(p.MessageID, client.UserID, p.Content)
		}

	case InDeleteMessage:
		var p DeleteMessagePayload
		if err = json.Unmarshal(env.Payload, &p); err == nil {
			err = d.messages.Delete(p.MessageID, client.UserID)
		}

	case InToggleReaction:
		var p ToggleReactionPayload
		if err = json.Unmarshal(env.Payload, &p); err == nil {
			_, err = d.messages.ToggleReaction(p.MessageID, client.UserID, p.Emoji)
		}

	case InTypingStart:
		err = d.broadcastTyping(client, env.Payload, service.EventUserTyping)

	case InTypingStop:
		err = d.broadcastTyping(client, env.Payload, service.EventUserStoppedTyping)

	case InHeartbeat:
		var p HeartbeatPayload
		// The subscription block is optional; a bare heartbeat has no payload.
		if len(env.Payload) > 0 {
			err = json.Unmarshal(env.Payload, &p)
		}
		if err == nil {
			err = d.handleHeartbeat(client, p)
		}

	case InPing:
		err = d.hub.SendToClient(client, OutPong, struct{}{})

	default:
		d.sendError(client, "unknown_event", fmt.Sprintf("Unknown event type: %s", env.Type))
		return fmt.Errorf("unknown event type %q", env.Type)
	}

	if err != nil {
		d.sendError(client, errorCode(err), err.Error())
	}
	return err
}

// broadcastTyping relays typing indicators to a room the connection has
// actually joined. Typing is ephemeral: never queued, never pushed.
func (d *Dispatcher) broadcastTyping(client *Client, payload json.RawMessage, eventType string) error {
	var p TypingStatePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return err
	}
	if !d.hub.IsConnInRoom(client.ID, p.ChatID) {
		return service.ErrAccessDenied
	}
	d.hub.BroadcastToChat(p.ChatID, eventType, service.TypingPayload{
		ChatID:   p.ChatID,
		UserID:   client.UserID,
		Username: client.Username,
	})
	return nil
}

func (d *Dispatcher) sendError(client *Client, code, message string) {
	if err := d.hub.SendToClient(client, OutError, ErrorPayload{Code: code, Message: message}); err != nil {
		log.Printf("Error sending error event to connection %s: %v", client.ID, err)
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, service.ErrAccessDenied), errors.Is(err, ErrNotChatMember):
		return "access_denied"
	case errors.Is(err, service.ErrNotFound):
		return "not_found"
	case errors.Is(err, service.ErrValidation):
		return "validation_failed"
	default:
		return "internal_error"
	}
}
