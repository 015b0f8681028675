package model

// KnowledgeItem is one keyword-indexed salon fact
type KnowledgeItem struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Category string `gorm:"column:category"`
	Keywords string `gorm:"column:keywords"`
	Content  string `gorm:"column:content"`
}

func (KnowledgeItem) TableName() string {
	return "knowledge"
}
