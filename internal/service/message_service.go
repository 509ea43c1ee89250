package service

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/danny15002/doubleb/internal/cache"
	"github.com/danny15002/doubleb/internal/models"
	"github.com/danny15002/doubleb/internal/repository"
	"github.com/danny15002/doubleb/internal/validation"
)

// DefaultDeliveryAdvanceDelay is how long after create a message waits
// before auto-advancing sent→delivered. Non-zero to emulate network/ack
// latency; overridable via DELIVERY_ADVANCE_MS.
const DefaultDeliveryAdvanceDelay = 1200 * time.Millisecond

// MessageService owns the message lifecycle: create, status transitions,
// edits, deletes and reaction toggles. It issues the persisted writes,
// fans domain events out through the Broadcaster and hands offline
// recipients to the Notifier.
type MessageService struct {
	messageRepo  repository.MessageRepositoryInterface
	reactionRepo repository.ReactionRepositoryInterface
	chatRepo     repository.ChatRepositoryInterface
	broadcaster  Broadcaster
	presence     Presence
	notifier     Notifier
	messageCache *cache.MessageCache

	advanceDelay time.Duration

	// Pending sent→delivered timers keyed by message ID so a delete can
	// cancel the advance before it fires.
	timersMu sync.Mutex
	timers   map[uint]*time.Timer
}

func NewMessageService(
	messageRepo repository.MessageRepositoryInterface,
	reactionRepo repository.ReactionRepositoryInterface,
	chatRepo repository.ChatRepositoryInterface,
	broadcaster Broadcaster,
	presence Presence,
	notifier Notifier,
	messageCache *cache.MessageCache,
) *MessageService {
	return &MessageService{
		messageRepo:  messageRepo,
		reactionRepo: reactionRepo,
		chatRepo:     chatRepo,
		broadcaster:  broadcaster,
		presence:     presence,
		notifier:     notifier,
		messageCache: messageCache,
		advanceDelay: DefaultDeliveryAdvanceDelay,
		timers:       make(map[uint]*time.Timer),
	}
}

// SetAdvanceDelay overrides the sent→delivered delay (wiring and tests).
func (s *MessageService) SetAdvanceDelay(d time.Duration) {
	s.advanceDelay = d
}

type SendMessageInput struct {
	ChatID      uint               `json:"chat_id"`
	ClientID    string             `json:"client_id"`
	Content     string             `json:"content"`
	MessageType models.MessageType `json:"message_type"`
	QuotedID    *uint              `json:"quoted_id"`
}

// Create validates membership, persists the message with status=sent,
// broadcasts message-created, schedules the delivered auto-advance and
// routes a notification candidate for every unreachable member.
func (s *MessageService) Create(senderID uint, input SendMessageInput) (*models.Message, error) {
	content := validation.TrimAndLimit(input.Content, validation.MaxMessageLength())
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}
	if !validation.ValidateMessageType(string(input.MessageType)) && input.MessageType != "" {
		return nil, fmt.Errorf("%w: unknown message type %q", ErrValidation, input.MessageType)
	}

	isMember, err := s.chatRepo.IsMember(input.ChatID, senderID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrAccessDenied
	}

	message := &models.Message{
		ClientID:    input.ClientID,
		ChatID:      input.ChatID,
		SenderID:    senderID,
		Content:     content,
		MessageType: input.MessageType,
		Status:      models.StatusSent,
	}
	if message.MessageType == "" {
		message.MessageType = models.TextMessage
	}

	if input.QuotedID != nil {
		quoted, err := s.messageRepo.FindByID(*input.QuotedID)
		if err != nil {
			return nil, fmt.Errorf("%w: quoted message", ErrNotFound)
		}
		if quoted.ChatID != input.ChatID {
			return nil, fmt.Errorf("%w: quoted message belongs to another chat", ErrValidation)
		}
		// Snapshot, not a reference: the quote keeps quote-time content.
		message.QuotedMessage = models.QuotedMessage{
			QuotedID:         &quoted.ID,
			QuotedContent:    quoted.Content,
			QuotedSenderName: quoted.Sender.DisplayName(),
		}
	}

	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}

	created, err := s.messageRepo.FindByID(message.ID)
	if err != nil {
		return nil, err
	}

	s.messageCache.InvalidateChat(created.ChatID)
	s.broadcaster.BroadcastToChat(created.ChatID, EventMessageCreated, created.ToResponse())
	s.scheduleAdvance(created.ID, created.ChatID, created.SenderID)

	if s.notifier != nil {
		if chat, err := s.chatRepo.FindByID(created.ChatID); err == nil {
			s.notifier.NotifyNewMessage(chat, created)
		} else {
			log.Printf("Failed to load chat %d for notification: %v", created.ChatID, err)
		}
	}

	return created, nil
}

// TransitionStatus applies a strictly forward move on the delivery
// lattice (sent < delivered < read) and broadcasts the change. Backward
// or repeated transitions are rejected.
func (s *MessageService) TransitionStatus(messageID uint, target models.MessageStatus) error {
	message, err := s.messageRepo.FindByID(messageID)
	if err != nil {
		return notFoundOr(err)
	}
	if !message.Status.Advances(target) {
		return fmt.Errorf("%w: status %s does not advance to %s", ErrValidation, message.Status, target)
	}
	if err := s.messageRepo.UpdateStatus(messageID, target); err != nil {
		return err
	}
	s.broadcaster.BroadcastToChat(message.ChatID, EventMessageStatusChanged, StatusChangedPayload{
		MessageID: messageID,
		ChatID:    message.ChatID,
		Status:    target,
	})
	return nil
}

// Edit replaces the content of the sender's own text message.
func (s *MessageService) Edit(messageID, editorID uint, newContent string) (*models.Message, error) {
	newContent = validation.TrimAndLimit(newContent, validation.MaxMessageLength())
	if newContent == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}

	message, err := s.messageRepo.FindByID(messageID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if message.SenderID != editorID {
		return nil, ErrAccessDenied
	}
	if message.MessageType != models.TextMessage {
		return nil, fmt.Errorf("%w: only text messages can be edited", ErrValidation)
	}

	if err := s.messageRepo.UpdateContent(messageID, newContent); err != nil {
		return nil, err
	}

	edited, err := s.messageRepo.FindByID(messageID)
	if err != nil {
		return nil, err
	}

	s.messageCache.InvalidateChat(edited.ChatID)
	s.broadcaster.BroadcastToChat(edited.ChatID, EventMessageEdited, edited.ToResponse())
	return edited, nil
}

// Delete removes a message for the sender, or for the chat owner. Cancels
// any pending status advance so deleted messages emit no further events.
func (s *MessageService) Delete(messageID, requesterID uint) error {
	message, err := s.messageRepo.FindByID(messageID)
	if err != nil {
		return notFoundOr(err)
	}

	if message.SenderID != requesterID {
		role, err := s.chatRepo.GetMemberRole(message.ChatID, requesterID)
		if err != nil || role != models.RoleOwner {
			return ErrAccessDenied
		}
	}

	s.cancelAdvance(messageID)

	if err := s.messageRepo.Delete(messageID); err != nil {
		return err
	}

	s.messageCache.InvalidateChat(message.ChatID)
	s.broadcaster.BroadcastToChat(message.ChatID, EventMessageDeleted, MessageDeletedPayload{
		MessageID: messageID,
		ChatID:    message.ChatID,
	})
	return nil
}

// ToggleReaction adds the (message, user, emoji) triple if absent and
// removes it if present, then broadcasts the recomputed aggregation.
func (s *MessageService) ToggleReaction(messageID, userID uint, emoji string) ([]models.ReactionGroup, error) {
	if !validation.ValidateEmoji(emoji) {
		return nil, fmt.Errorf("%w: invalid emoji", ErrValidation)
	}

	message, err := s.messageRepo.FindByID(messageID)
	if err != nil {
		return nil, notFoundOr(err)
	}

	isMember, err := s.chatRepo.IsMember(message.ChatID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrAccessDenied
	}

	if _, err := s.reactionRepo.Find(messageID, userID, emoji); err == nil {
		if err := s.reactionRepo.Delete(messageID, userID, emoji); err != nil {
			return nil, err
		}
	} else {
		reaction := &models.Reaction{
			MessageID: messageID,
			UserID:    userID,
			Emoji:     emoji,
		}
		if err := s.reactionRepo.Upsert(reaction); err != nil {
			return nil, err
		}
	}

	groups, err := s.reactionRepo.ListGrouped(messageID)
	if err != nil {
		return nil, err
	}

	s.broadcaster.BroadcastToChat(message.ChatID, EventReactionsChanged, ReactionsChangedPayload{
		MessageID: messageID,
		ChatID:    message.ChatID,
		Reactions: groups,
	})
	return groups, nil
}

// GetChatMessages returns paginated history for a chat the user belongs to.
func (s *MessageService) GetChatMessages(userID, chatID uint, cursor uint, limit int) ([]models.Message, error) {
	isMember, err := s.chatRepo.IsMember(chatID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrAccessDenied
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	// Only the newest page is cached; cursor pages go straight to the DB.
	if cursor == 0 {
		if cached, ok := s.messageCache.GetChatMessages(chatID); ok {
			return cached, nil
		}
	}

	messages, err := s.messageRepo.FindChatMessages(chatID, cursor, limit)
	if err != nil {
		return nil, err
	}
	if cursor == 0 {
		if err := s.messageCache.SetChatMessages(chatID, messages); err != nil {
			log.Printf("Failed to cache messages for chat %d: %v", chatID, err)
		}
	}
	return messages, nil
}

// scheduleAdvance arms the fire-once sent→delivered timer for a message.
// When it fires the message is marked delivered, then read if anyone
// besides the sender is joined to the room at that moment.
func (s *MessageService) scheduleAdvance(messageID, chatID, senderID uint) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	s.timers[messageID] = time.AfterFunc(s.advanceDelay, func() {
		s.autoAdvance(messageID, chatID, senderID)
	})
}

func (s *MessageService) cancelAdvance(messageID uint) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if timer, ok := s.timers[messageID]; ok {
		timer.Stop()
		delete(s.timers, messageID)
	}
}

func (s *MessageService) autoAdvance(messageID, chatID, senderID uint) {
	s.timersMu.Lock()
	delete(s.timers, messageID)
	s.timersMu.Unlock()

	if err := s.TransitionStatus(messageID, models.StatusDelivered); err != nil {
		// Deleted between create and fire, or already past delivered.
		log.Printf("Skipping delivered advance for message %d: %v", messageID, err)
		return
	}

	// Presence-based read approximation: anyone else in the room counts.
	if s.presence != nil && s.presence.HasOtherMember(chatID, senderID) {
		if err := s.TransitionStatus(messageID, models.StatusRead); err != nil {
			log.Printf("Skipping read advance for message %d: %v", messageID, err)
		}
	}
}

// Shutdown stops all pending advance timers.
func (s *MessageService) Shutdown() {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}
