package gorm

import (
	"strings"

	"gorm.io/gorm"

	"github.com/beauteq/salon-assistant/pkg/model"
	"github.com/beauteq/salon-assistant/pkg/store"
)

// Ensure CatalogStore implements store.CatalogStore
var _ store.CatalogStore = (*CatalogStore)(nil)

// specializationSynonyms maps free-form user wording to the canonical
// specializations seeded in the masters table.
var specializationSynonyms = map[string]string{
	"парикмахер":  "Парикмахер-стилист",
	"стилист":     "Парикмахер-стилист",
	"волосы":      "Парикмахер-стилист",
	"стрижка":     "Парикмахер-стилист",
	"окрашивание": "Парикмахер-стилист",
	"косметолог":  "Косметолог",
	"кожа":        "Косметолог",
	"чистка":      "Косметолог",
	"пилинг":      "Косметолог",
	"маникюр":     "Мастер маникюра",
	"ногти":       "Мастер маникюра",
	"гель-лак":    "Мастер маникюра",
	"визажист":    "Визажист",
	"макияж":      "Визажист",
}

// CanonicalSpecialization resolves free-form wording to a canonical
// specialization. Returns the input unchanged when no synonym matches.
func CanonicalSpecialization(input string) string {
	normalized := strings.ToLower(strings.TrimSpace(input))
	for keyword, canonical := range specializationSynonyms {
		if strings.Contains(normalized, keyword) {
			return canonical
		}
	}
	return strings.TrimSpace(input)
}

// CatalogStore implements store.CatalogStore using GORM
type CatalogStore struct {
	db *gorm.DB
}

// NewCatalogStore creates a new CatalogStore
func NewCatalogStore(db *gorm.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

// ListMasters returns active masters, optionally filtered by specialization.
// Free-form specializations are mapped through the synonym table first.
func (s *CatalogStore) ListMasters(specialization string) ([]store.Master, error) {
	var masters []model.Master

	tx := s.db.Where("is_active = ?", true)
	if specialization != "" {
		canonical := CanonicalSpecialization(specialization)
		tx = tx.Where("LOWER(specialization) = LOWER(?)", canonical)
	}

	if err := tx.Order("id").Find(&masters).Error; err != nil {
		return nil, err
	}

	result := make([]store.Master, 0, len(masters))
	for _, m := range masters {
		result = append(result, store.Master{
			ID:             m.ID,
			Name:           m.Name,
			Specialization: m.Specialization,
		})
	}
	return result, nil
}

// ListServices returns services, optionally filtered by category
func (s *CatalogStore) ListServices(category string) ([]store.Service, error) {
	var services []model.Service

	tx := s.db
	if category != "" {
		tx = tx.Where("LOWER(category) = LOWER(?)", strings.TrimSpace(category))
	}

	if err := tx.Order("id").Find(&services).Error; err != nil {
		return nil, err
	}

	result := make([]store.Service, 0, len(services))
	for _, svc := range services {
		result = append(result, store.Service{
			ID:              svc.ID,
			Name:            svc.Name,
			Category:        svc.Category,
			DurationMinutes: svc.DurationMinutes,
			PriceKopecks:    svc.PriceKopecks,
		})
	}
	return result, nil
}
