package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beauteq/salon-assistant/pkg/booking"
	"github.com/beauteq/salon-assistant/pkg/model"
	"github.com/beauteq/salon-assistant/pkg/store"
)

type fakeCatalog struct {
	masters            []store.Master
	services           []store.Service
	lastSpecialization string
	lastCategory       string
}

func (f *fakeCatalog) ListMasters(specialization string) ([]store.Master, error) {
	f.lastSpecialization = specialization
	return f.masters, nil
}

func (f *fakeCatalog) ListServices(category string) ([]store.Service, error) {
	f.lastCategory = category
	return f.services, nil
}

type fakeAppointments struct {
	list       []store.Appointment
	lastUserID int64
}

func (f *fakeAppointments) SlotTaken(masterID int64, at time.Time) (bool, error) {
	return false, nil
}

func (f *fakeAppointments) CreateAppointment(userID, masterID, serviceID int64, at time.Time) (int64, error) {
	return 7, nil
}

func (f *fakeAppointments) ListUserAppointments(userID int64) ([]store.Appointment, error) {
	f.lastUserID = userID
	return f.list, nil
}

func TestRouter_DefinitionsPreserveOrder(t *testing.T) {
	catalog := &fakeCatalog{}
	router := NewRouter(
		&MastersListView{Catalog: catalog},
		&ServicesListView{Catalog: catalog},
	)

	tools := router.Definitions()
	require.Len(t, tools, 2)
	assert.Equal(t, "masters_list", tools[0].Name)
	assert.Equal(t, "services_list", tools[1].Name)
	assert.NotEmpty(t, tools[0].Description)
	assert.Contains(t, tools[0].Parameters, "specialization")
}

func TestRouter_ExecuteUnknownView(t *testing.T) {
	router := NewRouter()

	_, err := router.Execute("no_such_view", nil)
	assert.ErrorIs(t, err, ErrUnknownView)
}

func TestMastersListView(t *testing.T) {
	catalog := &fakeCatalog{masters: []store.Master{
		{ID: 1, Name: "Анна Ребикова", Specialization: "Парикмахер-стилист"},
	}}
	v := &MastersListView{Catalog: catalog}

	result, err := v.Execute(map[string]interface{}{"specialization": "парикмахер"})
	require.NoError(t, err)
	assert.Equal(t, "парикмахер", catalog.lastSpecialization)

	text := v.Render(result)
	assert.Contains(t, text, "👩‍💼 *Доступные мастера:*")
	assert.Contains(t, text, "*Анна Ребикова* - Парикмахер-стилист")
}

func TestMastersListView_Empty(t *testing.T) {
	v := &MastersListView{Catalog: &fakeCatalog{}}

	result, err := v.Execute(map[string]interface{}{})
	require.NoError(t, err)
	assert.Contains(t, v.Render(result), "нет доступных мастеров")
}

func TestServicesListView(t *testing.T) {
	catalog := &fakeCatalog{services: []store.Service{
		{ID: 1, Name: "Стрижка женская", Category: "Парикмахерские", DurationMinutes: 60, PriceKopecks: 250000},
	}}
	v := &ServicesListView{Catalog: catalog}

	result, err := v.Execute(map[string]interface{}{})
	require.NoError(t, err)

	text := v.Render(result)
	assert.Contains(t, text, "💇 *Наши услуги и цены:*")
	assert.Contains(t, text, "*Стрижка женская* - 2500 руб. (60 мин.)")
}

func TestUserAppointmentsView(t *testing.T) {
	appointments := &fakeAppointments{list: []store.Appointment{
		{
			ID:            1,
			UserID:        100,
			MasterName:    "Анна Ребикова",
			ServiceName:   "Стрижка женская",
			AppointmentAt: time.Date(2026, 9, 2, 14, 0, 0, 0, time.Local),
			Status:        model.StatusBooked,
			PriceKopecks:  250000,
		},
	}}
	v := &UserAppointmentsView{Appointments: appointments}

	result, err := v.Execute(map[string]interface{}{"user_id": int64(100)})
	require.NoError(t, err)
	assert.Equal(t, int64(100), appointments.lastUserID)

	text := v.Render(result)
	assert.Contains(t, text, "📋 *Ваши записи:*")
	assert.Contains(t, text, "*Анна Ребикова* - Стрижка женская")
	assert.Contains(t, text, "📅 2026-09-02 14:00")
	assert.Contains(t, text, "💵 2500 руб.")
}

func TestUserAppointmentsView_Empty(t *testing.T) {
	v := &UserAppointmentsView{Appointments: &fakeAppointments{}}

	result, err := v.Execute(map[string]interface{}{"user_id": float64(100)})
	require.NoError(t, err)
	assert.Equal(t, "📋 У вас пока нет записей.", v.Render(result))
}

func TestCreateAppointmentView_Render(t *testing.T) {
	v := &CreateAppointmentView{}

	text := v.Render(&booking.Result{
		AppointmentID: 7,
		Master:        "Анна Ребикова",
		Service:       "Стрижка женская",
		Date:          "2026-09-02",
		Time:          "14:00",
		PriceKopecks:  250000,
	})

	assert.Contains(t, text, "✅ *Запись успешно создана!*")
	assert.Contains(t, text, "*Мастер:* Анна Ребикова")
	assert.Contains(t, text, "*Стоимость:* 2500 руб.")
	assert.Contains(t, text, "Ждем вас в салоне Beauteq! 🎉")
}

func TestCheckAvailabilityView_Render(t *testing.T) {
	v := &CheckAvailabilityView{}

	free := v.Render(&booking.Availability{Available: true, Reason: "Свободно", Master: "Анна Ребикова"})
	assert.Equal(t, "✅ Анна Ребикова: Свободно", free)

	taken := v.Render(&booking.Availability{Available: false, Reason: "Занято", Master: "Анна Ребикова"})
	assert.Equal(t, "❌ Анна Ребикова: Занято", taken)

	unknown := v.Render(&booking.Availability{Available: false, Reason: "Мастер не найден"})
	assert.Equal(t, "❌ Мастер не найден", unknown)
}

func TestUserScopedMarkers(t *testing.T) {
	var _ UserScoped = (*UserAppointmentsView)(nil)
	var _ UserScoped = (*CreateAppointmentView)(nil)

	_, masterScoped := interface{}(&MastersListView{}).(UserScoped)
	assert.False(t, masterScoped)
}

func TestInt64Param(t *testing.T) {
	params := map[string]interface{}{
		"a": int64(5),
		"b": 6,
		"c": float64(7),
	}
	assert.Equal(t, int64(5), int64Param(params, "a"))
	assert.Equal(t, int64(6), int64Param(params, "b"))
	assert.Equal(t, int64(7), int64Param(params, "c"))
	assert.Equal(t, int64(0), int64Param(params, "missing"))
}
