package testutil

import (
	"testing"
	"time"

	"github.com/danny15002/doubleb/internal/models"
	"gorm.io/gorm"
)

// TestHelper builds model fixtures with sensible defaults. Tests override
// individual fields after construction where a scenario needs them.
type TestHelper struct {
	t *testing.T
}

func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{t: t}
}

// CreateTestChat creates a test chat with default values
func (h *TestHelper) CreateTestChat(id, ownerID uint, name string) *models.Chat {
	if id == 0 {
		id = 1
	}
	if ownerID == 0 {
		ownerID = 1
	}
	if name == "" {
		name = "Test Chat"
	}

	return &models.Chat{
		ID:        id,
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// CreateTestMessage creates a test message with default values
func (h *TestHelper) CreateTestMessage(id, chatID, senderID uint, content string) *models.Message {
	if id == 0 {
		id = 1
	}
	if chatID == 0 {
		chatID = 1
	}
	if senderID == 0 {
		senderID = 1
	}
	if content == "" {
		content = "Test message"
	}

	return &models.Message{
		ID:          id,
		ChatID:      chatID,
		SenderID:    senderID,
		Content:     content,
		MessageType: models.TextMessage,
		Status:      models.StatusSent,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		Sender: models.User{
			ID:       senderID,
			Username: "sender",
		},
	}
}

// GetRecordNotFoundError returns an error that mimics gorm.ErrRecordNotFound
func GetRecordNotFoundError() error {
	return gorm.ErrRecordNotFound
}
