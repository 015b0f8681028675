package model

import "time"

// Conversation is one message of the dialogue log, either direction
type Conversation struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int64     `gorm:"column:user_id"`
	Message   string    `gorm:"column:message"`
	IsBot     bool      `gorm:"column:is_bot"`
	Intent    string    `gorm:"column:intent"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Conversation) TableName() string {
	return "conversations"
}
