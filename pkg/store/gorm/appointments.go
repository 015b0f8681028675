package gorm

import (
	"time"

	"gorm.io/gorm"

	"github.com/beauteq/salon-assistant/pkg/model"
	"github.com/beauteq/salon-assistant/pkg/store"
)

// Ensure AppointmentsStore implements store.AppointmentsStore
var _ store.AppointmentsStore = (*AppointmentsStore)(nil)

// AppointmentsStore implements store.AppointmentsStore using GORM
type AppointmentsStore struct {
	db *gorm.DB
}

// NewAppointmentsStore creates a new AppointmentsStore
func NewAppointmentsStore(db *gorm.DB) *AppointmentsStore {
	return &AppointmentsStore{db: db}
}

// SlotTaken reports whether the master already has a booking occupying the
// given time. Cancelled appointments do not block a slot.
func (s *AppointmentsStore) SlotTaken(masterID int64, at time.Time) (bool, error) {
	var count int64
	err := s.db.Model(&model.Appointment{}).
		Where("master_id = ? AND appointment_at = ? AND status IN ?",
			masterID, at, []string{model.StatusBooked.String(), model.StatusCompleted.String()}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateAppointment books a slot and returns the appointment id
func (s *AppointmentsStore) CreateAppointment(userID, masterID, serviceID int64, at time.Time) (int64, error) {
	appointment := model.Appointment{
		UserID:        userID,
		MasterID:      masterID,
		ServiceID:     serviceID,
		AppointmentAt: at,
		Status:        model.StatusBooked,
	}
	if err := s.db.Create(&appointment).Error; err != nil {
		return 0, err
	}
	return appointment.ID, nil
}

// ListUserAppointments returns a user's appointments joined with master and
// service details, newest first.
func (s *AppointmentsStore) ListUserAppointments(userID int64) ([]store.Appointment, error) {
	type row struct {
		ID            int64
		UserID        int64
		MasterName    string
		ServiceName   string
		AppointmentAt time.Time
		Status        model.Status
		PriceKopecks  int64
	}

	var rows []row
	err := s.db.Raw(`
		SELECT a.id, a.user_id, m.name AS master_name, s.name AS service_name,
		       a.appointment_at, a.status, s.price_kopecks
		FROM appointments a
		JOIN masters m ON a.master_id = m.id
		JOIN services s ON a.service_id = s.id
		WHERE a.user_id = ?
		ORDER BY a.appointment_at DESC
	`, userID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]store.Appointment, 0, len(rows))
	for _, r := range rows {
		result = append(result, store.Appointment{
			ID:            r.ID,
			UserID:        r.UserID,
			MasterName:    r.MasterName,
			ServiceName:   r.ServiceName,
			AppointmentAt: r.AppointmentAt,
			Status:        r.Status,
			PriceKopecks:  r.PriceKopecks,
		})
	}
	return result, nil
}
