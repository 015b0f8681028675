package gorm

import (
	"gorm.io/gorm"

	"github.com/beauteq/salon-assistant/pkg/model"
	"github.com/beauteq/salon-assistant/pkg/store"
)

// Ensure ConversationsStore implements store.ConversationsStore
var _ store.ConversationsStore = (*ConversationsStore)(nil)

// ConversationsStore implements store.ConversationsStore using GORM
type ConversationsStore struct {
	db *gorm.DB
}

// NewConversationsStore creates a new ConversationsStore
func NewConversationsStore(db *gorm.DB) *ConversationsStore {
	return &ConversationsStore{db: db}
}

// SaveConversation appends a message to a user's dialogue log
func (s *ConversationsStore) SaveConversation(userID int64, message string, isBot bool, intent string) error {
	return s.db.Create(&model.Conversation{
		UserID:  userID,
		Message: message,
		IsBot:   isBot,
		Intent:  intent,
	}).Error
}

// LoadConversation returns the latest messages in chronological order
func (s *ConversationsStore) LoadConversation(userID int64, limit int) ([]store.ConversationEntry, error) {
	var messages []model.Conversation
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	// Reverse into chronological order
	result := make([]store.ConversationEntry, len(messages))
	for i, m := range messages {
		result[len(messages)-1-i] = store.ConversationEntry{
			Message: m.Message,
			IsBot:   m.IsBot,
			Intent:  m.Intent,
		}
	}
	return result, nil
}
