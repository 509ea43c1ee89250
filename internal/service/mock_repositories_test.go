package service

import (
	"sync"
	"time"

	"github.com/danny15002/doubleb/internal/models"
	"github.com/danny15002/doubleb/internal/testutil"
)

// MockMessageRepository is an in-memory MessageRepositoryInterface.
type MockMessageRepository struct {
	mu       sync.Mutex
	messages map[uint]*models.Message
	nextID   uint
}

func NewMockMessageRepository() *MockMessageRepository {
	return &MockMessageRepository{
		messages: make(map[uint]*models.Message),
		nextID:   1,
	}
}

func (m *MockMessageRepository) Create(message *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if message.ID == 0 {
		message.ID = m.nextID
		m.nextID++
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	copied := *message
	m.messages[message.ID] = &copied
	return nil
}

func (m *MockMessageRepository) FindByID(id uint) (*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg, ok := m.messages[id]; ok {
		copied := *msg
		return &copied, nil
	}
	return nil, testutil.GetRecordNotFoundError()
}

func (m *MockMessageRepository) FindChatMessages(chatID uint, cursor uint, limit int) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.Message
	for _, msg := range m.messages {
		if msg.ChatID != chatID {
			continue
		}
		if cursor > 0 && msg.ID >= cursor {
			continue
		}
		if len(result) >= limit {
			break
		}
		result = append(result, *msg)
	}
	return result, nil
}

func (m *MockMessageRepository) UpdateStatus(messageID uint, status models.MessageStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[messageID]
	if !ok {
		return testutil.GetRecordNotFoundError()
	}
	msg.Status = status
	return nil
}

func (m *MockMessageRepository) UpdateContent(messageID uint, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[messageID]
	if !ok {
		return testutil.GetRecordNotFoundError()
	}
	now := time.Now()
	msg.Content = content
	msg.IsEdited = true
	msg.EditedAt = &now
	return nil
}

func (m *MockMessageRepository) Delete(messageID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.messages[messageID]; !ok {
		return testutil.GetRecordNotFoundError()
	}
	delete(m.messages, messageID)
	return nil
}

func (m *MockMessageRepository) DeleteByChat(chatID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, msg := range m.messages {
		if msg.ChatID == chatID {
			delete(m.messages, id)
		}
	}
	return nil
}

// MockReactionRepository is an in-memory ReactionRepositoryInterface.
type MockReactionRepository struct {
	mu        sync.Mutex
	reactions []models.Reaction
	nextID    uint
}

func NewMockReactionRepository() *MockReactionRepository {
	return &MockReactionRepository{nextID: 1}
}

func (m *MockReactionRepository) Upsert(reaction *models.Reaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.reactions {
		r := &m.reactions[i]
		if r.MessageID == reaction.MessageID && r.UserID == reaction.UserID && r.Emoji == reaction.Emoji {
			r.UpdatedAt = time.Now()
			return nil
		}
	}
	reaction.ID = m.nextID
	m.nextID++
	reaction.CreatedAt = time.Now()
	reaction.User = models.User{ID: reaction.UserID, Username: "user"}
	m.reactions = append(m.reactions, *reaction)
	return nil
}

func (m *MockReactionRepository) Find(messageID, userID uint, emoji string) (*models.Reaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.reactions {
		r := m.reactions[i]
		if r.MessageID == messageID && r.UserID == userID && r.Emoji == emoji {
			return &r, nil
		}
	}
	return nil, testutil.GetRecordNotFoundError()
}

func (m *MockReactionRepository) Delete(messageID, userID uint, emoji string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.reactions {
		r := m.reactions[i]
		if r.MessageID == messageID && r.UserID == userID && r.Emoji == emoji {
			m.reactions = append(m.reactions[:i], m.reactions[i+1:]...)
			return nil
		}
	}
	return testutil.GetRecordNotFoundError()
}

func (m *MockReactionRepository) ListGrouped(messageID uint) ([]models.ReactionGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var rows []models.Reaction
	for _, r := range m.reactions {
		if r.MessageID == messageID {
			rows = append(rows, r)
		}
	}
	return models.GroupReactions(rows), nil
}

// MockChatRepository is an in-memory ChatRepositoryInterface.
type MockChatRepository struct {
	mu      sync.Mutex
	chats   map[uint]*models.Chat
	members map[uint]map[uint]models.ChatRole
	nextID  uint
}

func NewMockChatRepository() *MockChatRepository {
	return &MockChatRepository{
		chats:   make(map[uint]*models.Chat),
		members: make(map[uint]map[uint]models.ChatRole),
		nextID:  1,
	}
}

func (m *MockChatRepository) Create(chat *models.Chat) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if chat.ID == 0 {
		chat.ID = m.nextID
		m.nextID++
	}
	copied := *chat
	m.chats[chat.ID] = &copied
	return nil
}

func (m *MockChatRepository) FindByID(id uint) (*models.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if chat, ok := m.chats[id]; ok {
		copied := *chat
		return &copied, nil
	}
	return nil, testutil.GetRecordNotFoundError()
}

func (m *MockChatRepository) Delete(id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.chats, id)
	delete(m.members, id)
	return nil
}

func (m *MockChatRepository) AddMember(chatID, userID uint, role models.ChatRole) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.members[chatID] == nil {
		m.members[chatID] = make(map[uint]models.ChatRole)
	}
	m.members[chatID][userID] = role
	return nil
}

func (m *MockChatRepository) RemoveMember(chatID, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.members[chatID], userID)
	return nil
}

func (m *MockChatRepository) GetMembers(chatID uint) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var users []models.User
	for userID := range m.members[chatID] {
		users = append(users, models.User{ID: userID, Username: "user"})
	}
	return users, nil
}

func (m *MockChatRepository) GetMemberIDs(chatID uint) ([]uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []uint
	for userID := range m.members[chatID] {
		ids = append(ids, userID)
	}
	return ids, nil
}

func (m *MockChatRepository) IsMember(chatID, userID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.members[chatID][userID]
	return ok, nil
}

func (m *MockChatRepository) GetMemberRole(chatID, userID uint) (models.ChatRole, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	role, ok := m.members[chatID][userID]
	if !ok {
		return "", testutil.GetRecordNotFoundError()
	}
	return role, nil
}

func (m *MockChatRepository) GetUserChats(userID uint) ([]models.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var chats []models.Chat
	for chatID, members := range m.members {
		if _, ok := members[userID]; ok {
			if chat, exists := m.chats[chatID]; exists {
				chats = append(chats, *chat)
			}
		}
	}
	return chats, nil
}

// RecordedEvent captures one fan-out emission.
type RecordedEvent struct {
	ChatID    uint
	EventType string
	Payload   interface{}
}

// MockBroadcaster records fan-out calls.
type MockBroadcaster struct {
	mu     sync.Mutex
	events []RecordedEvent
}

func NewMockBroadcaster() *MockBroadcaster {
	return &MockBroadcaster{}
}

func (b *MockBroadcaster) BroadcastToChat(chatID uint, eventType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, RecordedEvent{ChatID: chatID, EventType: eventType, Payload: payload})
}

func (b *MockBroadcaster) Events() []RecordedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]RecordedEvent, len(b.events))
	copy(out, b.events)
	return out
}

func (b *MockBroadcaster) EventsOfType(eventType string) []RecordedEvent {
	var out []RecordedEvent
	for _, e := range b.Events() {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

// MockPresence reports a fixed answer for the read-advance check.
type MockPresence struct {
	OtherPresent bool
}

func (p *MockPresence) HasOtherMember(chatID uint, excludeUserID uint) bool {
	return p.OtherPresent
}

// MockNotifier records notification routing.
type MockNotifier struct {
	mu          sync.Mutex
	NewMessages []uint // message IDs handed to the push path
	ChatEvents  []string
}

func (n *MockNotifier) NotifyNewMessage(chat *models.Chat, message *models.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.NewMessages = append(n.NewMessages, message.ID)
}

func (n *MockNotifier) NotifyChatEvent(chat *models.Chat, userIDs []uint, title, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ChatEvents = append(n.ChatEvents, body)
}

func (n *MockNotifier) NewMessageCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.NewMessages)
}
