package store

import (
	"time"

	"github.com/beauteq/salon-assistant/pkg/model"
)

// Appointment is a booking joined with its master and service
type Appointment struct {
	ID            int64
	UserID        int64
	MasterName    string
	ServiceName   string
	AppointmentAt time.Time
	Status        model.Status
	PriceKopecks  int64
}

// AppointmentsStore abstracts appointment persistence
type AppointmentsStore interface {
	// SlotTaken reports whether the master already has a booking that
	// occupies the given time
	SlotTaken(masterID int64, at time.Time) (bool, error)

	// CreateAppointment books a slot and returns the appointment id
	CreateAppointment(userID, masterID, serviceID int64, at time.Time) (int64, error)

	// ListUserAppointments returns a user's appointments, newest first
	ListUserAppointments(userID int64) ([]Appointment, error)
}
