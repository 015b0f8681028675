package gorm

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/beauteq/salon-assistant/pkg/model"
	"github.com/beauteq/salon-assistant/pkg/store"
)

// Ensure KnowledgeStore implements store.KnowledgeStore
var _ store.KnowledgeStore = (*KnowledgeStore)(nil)

// KnowledgeStore implements store.KnowledgeStore using GORM
type KnowledgeStore struct {
	db *gorm.DB
}

// NewKnowledgeStore creates a new KnowledgeStore
func NewKnowledgeStore(db *gorm.DB) *KnowledgeStore {
	return &KnowledgeStore{db: db}
}

// ListKnowledge returns the whole corpus
func (s *KnowledgeStore) ListKnowledge() ([]store.KnowledgeItem, error) {
	var items []model.KnowledgeItem
	if err := s.db.Order("id").Find(&items).Error; err != nil {
		return nil, err
	}

	result := make([]store.KnowledgeItem, 0, len(items))
	for _, item := range items {
		result = append(result, store.KnowledgeItem{
			Category: item.Category,
			Keywords: item.Keywords,
			Content:  item.Content,
		})
	}
	return result, nil
}

// UpsertKnowledge inserts items, replacing entries with the same category
func (s *KnowledgeStore) UpsertKnowledge(items []store.KnowledgeItem) error {
	if len(items) == 0 {
		return nil
	}

	rows := make([]model.KnowledgeItem, 0, len(items))
	for _, item := range items {
		rows = append(rows, model.KnowledgeItem{
			Category: item.Category,
			Keywords: item.Keywords,
			Content:  item.Content,
		})
	}

	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "category"}},
		DoUpdates: clause.AssignmentColumns([]string{"keywords", "content"}),
	}).Create(&rows).Error
}
