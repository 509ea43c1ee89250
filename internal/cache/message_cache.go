package cache

import (
	"fmt"
	"time"

	"github.com/danny15002/doubleb/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

// ChatMessagesTTL caps staleness of the newest-page cache between
// invalidations.
const ChatMessagesTTL = 5 * time.Minute

// MessageCache caches the newest page of a chat's history. Invalidated on
// every create/edit/delete in the chat.
type MessageCache struct {
	redis *RedisCache
}

// NewMessageCache creates a new message cache
func NewMessageCache(redis *RedisCache) *MessageCache {
	return &MessageCache{redis: redis}
}

func chatMessagesKey(chatID uint) string {
	return fmt.Sprintf("chat:%d:messages", chatID)
}

// GetChatMessages retrieves cached chat history
func (mc *MessageCache) GetChatMessages(chatID uint) ([]models.Message, bool) {
	if mc == nil || mc.redis == nil {
		return nil, false
	}
	data, err := mc.redis.Get(chatMessagesKey(chatID))
	if err != nil || data == nil {
		return nil, false
	}

	var messages []models.Message
	if err := msgpack.Unmarshal(data, &messages); err != nil {
		return nil, false
	}

	return messages, true
}

// SetChatMessages caches chat history
func (mc *MessageCache) SetChatMessages(chatID uint, messages []models.Message) error {
	if mc == nil || mc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(messages)
	if err != nil {
		return err
	}
	return mc.redis.Set(chatMessagesKey(chatID), data, ChatMessagesTTL)
}

// InvalidateChat drops the cached page for a chat
func (mc *MessageCache) InvalidateChat(chatID uint) {
	if mc == nil || mc.redis == nil {
		return
	}
	_ = mc.redis.Delete(chatMessagesKey(chatID))
}
