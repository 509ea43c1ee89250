package push

import (
	"fmt"

	"github.com/danny15002/doubleb/internal/models"
)

// Notification is the out-of-band payload shown by the client's delivery
// context. ChatID/MessageID form the deep-link target; BatchCount is set
// only on coalesced notifications.
type Notification struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	ChatID     uint   `json:"chat_id"`
	MessageID  uint   `json:"message_id,omitempty"`
	BatchCount int    `json:"batch_count,omitempty"`
}

// Item is one notification-worthy message waiting in a recipient's
// coalescing accumulator.
type Item struct {
	ChatID     uint
	MessageID  uint
	ChatName   string
	SenderName string
	Preview    string
}

const previewLimit = 80

// Preview renders the notification body for a message.
func Preview(m *models.Message) string {
	switch m.MessageType {
	case models.ImageMessage:
		return "Sent a photo"
	case models.FileMessage:
		return "Sent a file"
	}
	runes := []rune(m.Content)
	if len(runes) > previewLimit {
		return string(runes[:previewLimit]) + "…"
	}
	return m.Content
}

// buildNotification merges a recipient's pending items into exactly one
// notification. A lone item keeps sender, chat and preview; a burst
// collapses into an "N new messages" summary deep-linked at the first
// item's chat.
func buildNotification(items []Item) Notification {
	first := items[0]
	if len(items) == 1 {
		return Notification{
			Title:     fmt.Sprintf("%s · %s", first.SenderName, first.ChatName),
			Body:      first.Preview,
			ChatID:    first.ChatID,
			MessageID: first.MessageID,
		}
	}
	latest := items[len(items)-1]
	return Notification{
		Title:      first.ChatName,
		Body:       fmt.Sprintf("%d new messages", len(items)),
		ChatID:     first.ChatID,
		MessageID:  latest.MessageID,
		BatchCount: len(items),
	}
}
