package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beauteq/salon-assistant/pkg/store"
)

type fakeCatalog struct {
	masters  []store.Master
	services []store.Service
}

func (f *fakeCatalog) ListMasters(specialization string) ([]store.Master, error) {
	return f.masters, nil
}

func (f *fakeCatalog) ListServices(category string) ([]store.Service, error) {
	return f.services, nil
}

type fakeAppointments struct {
	taken     bool
	createdID int64
	created   []time.Time
}

func (f *fakeAppointments) SlotTaken(masterID int64, at time.Time) (bool, error) {
	return f.taken, nil
}

func (f *fakeAppointments) CreateAppointment(userID, masterID, serviceID int64, at time.Time) (int64, error) {
	f.created = append(f.created, at)
	return f.createdID, nil
}

func (f *fakeAppointments) ListUserAppointments(userID int64) ([]store.Appointment, error) {
	return nil, nil
}

func testBooker(taken bool) (*Booker, *fakeAppointments) {
	catalog := &fakeCatalog{
		masters: []store.Master{
			{ID: 1, Name: "Анна Ребикова", Specialization: "Парикмахер-стилист"},
			{ID: 2, Name: "Мария Косметова", Specialization: "Косметолог"},
		},
		services: []store.Service{
			{ID: 10, Name: "Стрижка женская", Category: "Парикмахерские", PriceKopecks: 250000},
		},
	}
	appointments := &fakeAppointments{taken: taken, createdID: 42}

	// Tuesday 2026-09-01, 12:00 local time
	clock := func() time.Time {
		return time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)
	}
	return New(catalog, appointments).WithClock(clock), appointments
}

func TestWithinWorkingHours(t *testing.T) {
	// 2026-09-01 is a Tuesday, 2026-09-05 a Saturday
	weekday := func(hour int) time.Time { return time.Date(2026, 9, 1, hour, 0, 0, 0, time.Local) }
	weekend := func(hour int) time.Time { return time.Date(2026, 9, 5, hour, 0, 0, 0, time.Local) }

	assert.True(t, WithinWorkingHours(weekday(9)))
	assert.True(t, WithinWorkingHours(weekday(20)))
	assert.False(t, WithinWorkingHours(weekday(8)))
	assert.False(t, WithinWorkingHours(weekday(21)))

	assert.True(t, WithinWorkingHours(weekend(10)))
	assert.True(t, WithinWorkingHours(weekend(19)))
	assert.False(t, WithinWorkingHours(weekend(9)))
	assert.False(t, WithinWorkingHours(weekend(20)))
}

func TestParseSlot(t *testing.T) {
	slot, err := ParseSlot("2026-09-01", "14:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 1, 14, 30, 0, 0, time.Local), slot)

	_, err = ParseSlot("01.09.2026", "14:30")
	assert.ErrorIs(t, err, ErrBadSlot)

	_, err = ParseSlot("2026-09-01", "2pm")
	assert.ErrorIs(t, err, ErrBadSlot)
}

func TestFindMaster_SubstringCaseInsensitive(t *testing.T) {
	b, _ := testBooker(false)

	master, err := b.FindMaster("анна")
	require.NoError(t, err)
	assert.Equal(t, int64(1), master.ID)

	_, err = b.FindMaster("Глафира")
	assert.ErrorIs(t, err, store.ErrMasterNotFound)
}

func TestCheckAvailability_Free(t *testing.T) {
	b, _ := testBooker(false)

	avail, err := b.CheckAvailability("Анна", "2026-09-02", "14:00")
	require.NoError(t, err)
	assert.True(t, avail.Available)
	assert.Equal(t, "Свободно", avail.Reason)
	assert.Equal(t, "Анна Ребикова", avail.Master)
}

func TestCheckAvailability_Taken(t *testing.T) {
	b, _ := testBooker(true)

	avail, err := b.CheckAvailability("Анна", "2026-09-02", "14:00")
	require.NoError(t, err)
	assert.False(t, avail.Available)
	assert.Equal(t, "Занято", avail.Reason)
}

func TestCheckAvailability_UnknownMaster(t *testing.T) {
	b, _ := testBooker(false)

	avail, err := b.CheckAvailability("Глафира", "2026-09-02", "14:00")
	require.NoError(t, err)
	assert.False(t, avail.Available)
	assert.Equal(t, "Мастер не найден", avail.Reason)
}

func TestCheckAvailability_OutsideHours(t *testing.T) {
	b, _ := testBooker(false)

	avail, err := b.CheckAvailability("Анна", "2026-09-02", "22:00")
	require.NoError(t, err)
	assert.False(t, avail.Available)
	assert.Equal(t, "Вне рабочего времени салона", avail.Reason)
}

func TestCheckAvailability_PastSlot(t *testing.T) {
	b, _ := testBooker(false)

	avail, err := b.CheckAvailability("Анна", "2026-09-01", "10:00")
	require.NoError(t, err)
	assert.False(t, avail.Available)
	assert.Equal(t, "Это время уже прошло", avail.Reason)
}

func TestCreateAppointment_Success(t *testing.T) {
	b, appointments := testBooker(false)

	result, err := b.CreateAppointment(100, "Анна", "стрижка", "2026-09-02", "14:00")
	require.NoError(t, err)
	assert.Equal(t, int64(42), result.AppointmentID)
	assert.Equal(t, "Анна Ребикова", result.Master)
	assert.Equal(t, "Стрижка женская", result.Service)
	assert.Equal(t, "2026-09-02", result.Date)
	assert.Equal(t, "14:00", result.Time)
	assert.Equal(t, int64(250000), result.PriceKopecks)

	require.Len(t, appointments.created, 1)
	assert.Equal(t, time.Date(2026, 9, 2, 14, 0, 0, 0, time.Local), appointments.created[0])
}

func TestCreateAppointment_RuleViolations(t *testing.T) {
	b, _ := testBooker(false)

	_, err := b.CreateAppointment(100, "Глафира", "стрижка", "2026-09-02", "14:00")
	assert.ErrorIs(t, err, store.ErrMasterNotFound)

	_, err = b.CreateAppointment(100, "Анна", "татуаж", "2026-09-02", "14:00")
	assert.ErrorIs(t, err, store.ErrServiceNotFound)

	_, err = b.CreateAppointment(100, "Анна", "стрижка", "2026-09-02", "23:00")
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)

	_, err = b.CreateAppointment(100, "Анна", "стрижка", "2026-08-30", "14:00")
	assert.ErrorIs(t, err, ErrPastTime)
}

func TestCreateAppointment_SlotTaken(t *testing.T) {
	b, _ := testBooker(true)

	_, err := b.CreateAppointment(100, "Анна", "стрижка", "2026-09-02", "14:00")
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestUserError(t *testing.T) {
	assert.Equal(t, "Мастер не найден", UserError(store.ErrMasterNotFound))
	assert.Equal(t, "Услуга не найдена", UserError(store.ErrServiceNotFound))
	assert.Equal(t, "Вне рабочего времени салона", UserError(ErrOutsideWorkingHours))
	assert.Equal(t, "Это время уже занято", UserError(ErrSlotTaken))
	assert.Equal(t, "Это время уже прошло", UserError(ErrPastTime))
	assert.Equal(t, "Неверный формат даты или времени", UserError(ErrBadSlot))
	assert.Equal(t, "Неизвестная ошибка", UserError(assert.AnError))
}
