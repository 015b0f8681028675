package store

import (
	"errors"
	"fmt"
)

var (
	// ErrMasterNotFound is returned when no master matches a lookup
	ErrMasterNotFound = errors.New("master not found")

	// ErrServiceNotFound is returned when no service matches a lookup
	ErrServiceNotFound = errors.New("service not found")
)

// Master is a salon specialist
type Master struct {
	ID             int64
	Name           string
	Specialization string
}

// Service is a catalog entry
type Service struct {
	ID              int64
	Name            string
	Category        string
	DurationMinutes int
	PriceKopecks    int64
}

// FormatKopecks renders a kopeck amount as rubles, dropping the
// fractional part when it is zero
func FormatKopecks(kopecks int64) string {
	if kopecks%100 == 0 {
		return fmt.Sprintf("%d", kopecks/100)
	}
	return fmt.Sprintf("%d.%02d", kopecks/100, kopecks%100)
}

// CatalogStore abstracts the masters and services catalog
type CatalogStore interface {
	// ListMasters returns active masters. A non-empty specialization
	// filters by it; free-form synonyms (маникюр, волосы, ...) are mapped
	// to the canonical specialization.
	ListMasters(specialization string) ([]Master, error)

	// ListServices returns services, optionally filtered by category
	ListServices(category string) ([]Service, error)
}
