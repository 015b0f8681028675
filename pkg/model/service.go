package model

import "fmt"

// Service represents a catalog entry. Prices are stored in kopecks to avoid
// floating point drift.
type Service struct {
	ID              int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name            string `gorm:"column:name"`
	Category        string `gorm:"column:category"`
	DurationMinutes int    `gorm:"column:duration_minutes"`
	PriceKopecks    int64  `gorm:"column:price_kopecks"`
}

func (Service) TableName() string {
	return "services"
}

// PriceRub renders the price in whole rubles, keeping kopecks only when the
// amount is not round.
func (s Service) PriceRub() string {
	if s.PriceKopecks%100 == 0 {
		return fmt.Sprintf("%d", s.PriceKopecks/100)
	}
	return fmt.Sprintf("%d.%02d", s.PriceKopecks/100, s.PriceKopecks%100)
}
