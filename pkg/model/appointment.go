package model

import "time"

//go:generate go run github.com/dmarkham/enumer -type Status -trimprefix Status -transform lower -json -sql -output status.gen.go
type Status int

const (
	StatusBooked Status = iota
	StatusCompleted
	StatusCancelled
)

// Appointment links a user to a master and a service at a point in time
type Appointment struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID        int64     `gorm:"column:user_id"`
	MasterID      int64     `gorm:"column:master_id"`
	ServiceID     int64     `gorm:"column:service_id"`
	AppointmentAt time.Time `gorm:"column:appointment_at"`
	Status        Status    `gorm:"column:status"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// Occupies reports whether the appointment blocks its time slot. Cancelled
// appointments free the slot.
func (a Appointment) Occupies() bool {
	return a.Status != StatusCancelled
}
