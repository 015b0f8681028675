package model

// Master represents a salon specialist
type Master struct {
	ID             int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name           string `gorm:"column:name"`
	Specialization string `gorm:"column:specialization"`
	IsActive       bool   `gorm:"column:is_active;default:true"`
}

func (Master) TableName() string {
	return "masters"
}
