package store

// KnowledgeItem is one keyword-indexed salon fact
type KnowledgeItem struct {
	Category string
	Keywords string
	Content  string
}

// KnowledgeStore abstracts the retrieval corpus
type KnowledgeStore interface {
	// ListKnowledge returns the whole corpus
	ListKnowledge() ([]KnowledgeItem, error)

	// UpsertKnowledge inserts items, replacing entries with the same category
	UpsertKnowledge(items []KnowledgeItem) error
}
