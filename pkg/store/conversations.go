package store

// ConversationEntry is one logged message
type ConversationEntry struct {
	Message string
	IsBot   bool
	Intent  string
}

// ConversationsStore abstracts the dialogue log
type ConversationsStore interface {
	// SaveConversation appends a message to a user's dialogue log
	SaveConversation(userID int64, message string, isBot bool, intent string) error

	// LoadConversation returns the latest messages for a user in
	// chronological order, at most limit entries
	LoadConversation(userID int64, limit int) ([]ConversationEntry, error)
}
