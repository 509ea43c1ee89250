package service

import (
	"fmt"

	"github.com/danny15002/doubleb/internal/cache"
	"github.com/danny15002/doubleb/internal/models"
	"github.com/danny15002/doubleb/internal/repository"
	"github.com/danny15002/doubleb/internal/validation"
)

// ChatService handles chat CRUD and membership. Chat creation/deletion
// notifications bypass the coalescer: single infrequent events where
// latency does not compound.
type ChatService struct {
	chatRepo     repository.ChatRepositoryInterface
	messageRepo  repository.MessageRepositoryInterface
	broadcaster  Broadcaster
	notifier     Notifier
	messageCache *cache.MessageCache
}

func NewChatService(
	chatRepo repository.ChatRepositoryInterface,
	messageRepo repository.MessageRepositoryInterface,
	broadcaster Broadcaster,
	notifier Notifier,
	messageCache *cache.MessageCache,
) *ChatService {
	return &ChatService{
		chatRepo:     chatRepo,
		messageRepo:  messageRepo,
		broadcaster:  broadcaster,
		notifier:     notifier,
		messageCache: messageCache,
	}
}

type CreateChatInput struct {
	Name      string `json:"name"`
	MemberIDs []uint `json:"member_ids"`
}

func (s *ChatService) CreateChat(ownerID uint, input CreateChatInput) (*models.Chat, error) {
	name := validation.TrimAndLimit(input.Name, 100)
	if name == "" {
		return nil, fmt.Errorf("%w: chat name is required", ErrValidation)
	}

	chat := &models.Chat{
		Name:    name,
		OwnerID: ownerID,
	}
	if err := s.chatRepo.Create(chat); err != nil {
		return nil, err
	}

	if err := s.chatRepo.AddMember(chat.ID, ownerID, models.RoleOwner); err != nil {
		return nil, err
	}
	invited := make([]uint, 0, len(input.MemberIDs))
	for _, memberID := range input.MemberIDs {
		if memberID == ownerID {
			continue
		}
		if err := s.chatRepo.AddMember(chat.ID, memberID, models.RoleMember); err != nil {
			return nil, err
		}
		invited = append(invited, memberID)
	}

	created, err := s.chatRepo.FindByID(chat.ID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil && len(invited) > 0 {
		s.notifier.NotifyChatEvent(created, invited, created.Name, "You were added to a new chat")
	}

	return created, nil
}

// DeleteChat removes a chat, its messages, and tells everyone. Owner only.
func (s *ChatService) DeleteChat(chatID, requesterID uint) error {
	chat, err := s.chatRepo.FindByID(chatID)
	if err != nil {
		return notFoundOr(err)
	}
	if chat.OwnerID != requesterID {
		return ErrAccessDenied
	}

	memberIDs, err := s.chatRepo.GetMemberIDs(chatID)
	if err != nil {
		return err
	}

	if err := s.messageRepo.DeleteByChat(chatID); err != nil {
		return err
	}
	if err := s.chatRepo.Delete(chatID); err != nil {
		return err
	}

	s.messageCache.InvalidateChat(chatID)
	s.broadcaster.BroadcastToChat(chatID, EventChatDeleted, ChatDeletedPayload{ChatID: chatID})

	if s.notifier != nil {
		targets := make([]uint, 0, len(memberIDs))
		for _, id := range memberIDs {
			if id != requesterID {
				targets = append(targets, id)
			}
		}
		if len(targets) > 0 {
			s.notifier.NotifyChatEvent(chat, targets, chat.Name, "This chat was deleted")
		}
	}

	return nil
}

func (s *ChatService) GetUserChats(userID uint) ([]models.Chat, error) {
	return s.chatRepo.GetUserChats(userID)
}

func (s *ChatService) GetMembers(chatID, requesterID uint) ([]models.User, error) {
	isMember, err := s.chatRepo.IsMember(chatID, requesterID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrAccessDenied
	}
	return s.chatRepo.GetMembers(chatID)
}

func (s *ChatService) IsMember(chatID, userID uint) (bool, error) {
	return s.chatRepo.IsMember(chatID, userID)
}
