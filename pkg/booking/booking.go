// Package booking implements the salon booking rules: working hours,
// availability checks and appointment creation.
package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/beauteq/salon-assistant/pkg/store"
)

var (
	// ErrOutsideWorkingHours is returned for slots outside salon hours
	ErrOutsideWorkingHours = errors.New("outside working hours")

	// ErrSlotTaken is returned when the master is already booked
	ErrSlotTaken = errors.New("slot already taken")

	// ErrPastTime is returned for slots that are already in the past
	ErrPastTime = errors.New("slot is in the past")

	// ErrBadSlot is returned for unparseable date or time values
	ErrBadSlot = errors.New("malformed date or time")
)

// Slot layout constants: dates are ГГГГ-ММ-ДД, times are ЧЧ:ММ
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Availability is the outcome of an availability check
type Availability struct {
	Available bool
	Reason    string
	Master    string
}

// Result describes a successfully created appointment
type Result struct {
	AppointmentID int64
	Master        string
	Service       string
	Date          string
	Time          string
	PriceKopecks  int64
}

// Booker applies the booking rules on top of the stores
type Booker struct {
	catalog      store.CatalogStore
	appointments store.AppointmentsStore
	now          func() time.Time
}

// New creates a Booker
func New(catalog store.CatalogStore, appointments store.AppointmentsStore) *Booker {
	return &Booker{
		catalog:      catalog,
		appointments: appointments,
		now:          time.Now,
	}
}

// WithClock overrides the time source, for tests
func (b *Booker) WithClock(now func() time.Time) *Booker {
	b.now = now
	return b
}

// WithinWorkingHours reports whether the slot falls inside salon hours:
// Mon-Fri 09:00-21:00, Sat-Sun 10:00-20:00.
func WithinWorkingHours(t time.Time) bool {
	hour := t.Hour()
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return hour >= 10 && hour < 20
	default:
		return hour >= 9 && hour < 21
	}
}

// ParseSlot combines a date and a time string into a concrete moment
func ParseSlot(date, clock string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+clock, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q %q", ErrBadSlot, date, clock)
	}
	return t, nil
}

// FindMaster locates a master by a case-insensitive substring of the name
func (b *Booker) FindMaster(name string) (*store.Master, error) {
	masters, err := b.catalog.ListMasters("")
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(name))
	for i := range masters {
		if strings.Contains(strings.ToLower(masters[i].Name), needle) {
			return &masters[i], nil
		}
	}
	return nil, store.ErrMasterNotFound
}

// FindService locates a service by a case-insensitive substring of the name
func (b *Booker) FindService(name string) (*store.Service, error) {
	services, err := b.catalog.ListServices("")
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(name))
	for i := range services {
		if strings.Contains(strings.ToLower(services[i].Name), needle) {
			return &services[i], nil
		}
	}
	return nil, store.ErrServiceNotFound
}

// CheckAvailability verifies a master is free at the given slot. The
// Reason field carries the user-facing explanation.
func (b *Booker) CheckAvailability(masterName, date, clock string) (*Availability, error) {
	master, err := b.FindMaster(masterName)
	if err != nil {
		if errors.Is(err, store.ErrMasterNotFound) {
			return &Availability{Available: false, Reason: "Мастер не найден"}, nil
		}
		return nil, err
	}

	slot, err := ParseSlot(date, clock)
	if err != nil {
		return &Availability{Available: false, Reason: "Неверный формат даты или времени", Master: master.Name}, nil
	}

	if !WithinWorkingHours(slot) {
		return &Availability{Available: false, Reason: "Вне рабочего времени салона", Master: master.Name}, nil
	}

	if slot.Before(b.now()) {
		return &Availability{Available: false, Reason: "Это время уже прошло", Master: master.Name}, nil
	}

	taken, err := b.appointments.SlotTaken(master.ID, slot)
	if err != nil {
		return nil, err
	}

	reason := "Свободно"
	if taken {
		reason = "Занято"
	}
	return &Availability{Available: !taken, Reason: reason, Master: master.Name}, nil
}

// CreateAppointment books a slot for the user. It resolves the master and
// service by fuzzy name match, applies the availability rules and inserts
// the appointment.
func (b *Booker) CreateAppointment(userID int64, masterName, serviceName, date, clock string) (*Result, error) {
	master, err := b.FindMaster(masterName)
	if err != nil {
		return nil, err
	}

	service, err := b.FindService(serviceName)
	if err != nil {
		return nil, err
	}

	slot, err := ParseSlot(date, clock)
	if err != nil {
		return nil, err
	}

	if !WithinWorkingHours(slot) {
		return nil, ErrOutsideWorkingHours
	}

	if slot.Before(b.now()) {
		return nil, ErrPastTime
	}

	taken, err := b.appointments.SlotTaken(master.ID, slot)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlotTaken
	}

	id, err := b.appointments.CreateAppointment(userID, master.ID, service.ID, slot)
	if err != nil {
		return nil, err
	}

	return &Result{
		AppointmentID: id,
		Master:        master.Name,
		Service:       service.Name,
		Date:          date,
		Time:          clock,
		PriceKopecks:  service.PriceKopecks,
	}, nil
}

// UserError renders a booking error as the Russian text shown to users
func UserError(err error) string {
	switch {
	case errors.Is(err, store.ErrMasterNotFound):
		return "Мастер не найден"
	case errors.Is(err, store.ErrServiceNotFound):
		return "Услуга не найдена"
	case errors.Is(err, ErrOutsideWorkingHours):
		return "Вне рабочего времени салона"
	case errors.Is(err, ErrSlotTaken):
		return "Это время уже занято"
	case errors.Is(err, ErrPastTime):
		return "Это время уже прошло"
	case errors.Is(err, ErrBadSlot):
		return "Неверный формат даты или времени"
	default:
		return "Неизвестная ошибка"
	}
}
