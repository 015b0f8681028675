package view

import (
	"fmt"
	"strings"

	"github.com/beauteq/salon-assistant/pkg/booking"
	"github.com/beauteq/salon-assistant/pkg/store"
)

// MastersListView lists masters by specialization
type MastersListView struct {
	Catalog store.CatalogStore
}

func (v *MastersListView) Name() string { return "masters_list" }

func (v *MastersListView) Description() string {
	return "Получить список доступных мастеров по специализации"
}

func (v *MastersListView) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"specialization": map[string]interface{}{
			"type":        "string",
			"description": "специализация (парикмахер, косметолог, маникюр, визажист)",
			"required":    false,
		},
	}
}

func (v *MastersListView) Execute(params map[string]interface{}) (interface{}, error) {
	return v.Catalog.ListMasters(stringParam(params, "specialization"))
}

func (v *MastersListView) Render(result interface{}) string {
	masters, _ := result.([]store.Master)
	if len(masters) == 0 {
		return "👩‍💼 К сожалению, сейчас нет доступных мастеров."
	}

	var sb strings.Builder
	sb.WriteString("👩‍💼 *Доступные мастера:*\n\n")
	for _, m := range masters {
		sb.WriteString(fmt.Sprintf("*%s* - %s\n", m.Name, m.Specialization))
	}
	return sb.String()
}

// ServicesListView lists services by category
type ServicesListView struct {
	Catalog store.CatalogStore
}

func (v *ServicesListView) Name() string { return "services_list" }

func (v *ServicesListView) Description() string {
	return "Получить список услуг по категории"
}

func (v *ServicesListView) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"category": map[string]interface{}{
			"type":        "string",
			"description": "категория услуг (парикмахерские, косметология, ногтевой сервис, визаж)",
			"required":    false,
		},
	}
}

func (v *ServicesListView) Execute(params map[string]interface{}) (interface{}, error) {
	return v.Catalog.ListServices(stringParam(params, "category"))
}

func (v *ServicesListView) Render(result interface{}) string {
	services, _ := result.([]store.Service)
	if len(services) == 0 {
		return "💇 Услуги не найдены."
	}

	var sb strings.Builder
	sb.WriteString("💇 *Наши услуги и цены:*\n\n")
	for _, s := range services {
		sb.WriteString(fmt.Sprintf("*%s* - %s руб. (%d мин.)\n", s.Name, store.FormatKopecks(s.PriceKopecks), s.DurationMinutes))
	}
	return sb.String()
}

// UserAppointmentsView lists the caller's appointments
type UserAppointmentsView struct {
	Appointments store.AppointmentsStore
}

func (v *UserAppointmentsView) Name() string { return "user_appointments" }

func (v *UserAppointmentsView) Description() string {
	return "Получить записи пользователя"
}

func (v *UserAppointmentsView) UserScoped() bool { return true }

func (v *UserAppointmentsView) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"user_id": map[string]interface{}{
			"type":        "integer",
			"description": "ID пользователя",
			"required":    true,
		},
	}
}

func (v *UserAppointmentsView) Execute(params map[string]interface{}) (interface{}, error) {
	return v.Appointments.ListUserAppointments(int64Param(params, "user_id"))
}

func (v *UserAppointmentsView) Render(result interface{}) string {
	appointments, _ := result.([]store.Appointment)
	if len(appointments) == 0 {
		return "📋 У вас пока нет записей."
	}

	var sb strings.Builder
	sb.WriteString("📋 *Ваши записи:*\n\n")
	for _, a := range appointments {
		sb.WriteString(fmt.Sprintf("*%s* - %s\n", a.MasterName, a.ServiceName))
		sb.WriteString(fmt.Sprintf("📅 %s\n", a.AppointmentAt.Format("2006-01-02 15:04")))
		sb.WriteString(fmt.Sprintf("💵 %s руб.\n", store.FormatKopecks(a.PriceKopecks)))
		sb.WriteString(fmt.Sprintf("Статус: %s\n\n", a.Status))
	}
	return sb.String()
}

// CheckAvailabilityView checks a master's availability at a slot
type CheckAvailabilityView struct {
	Booker *booking.Booker
}

func (v *CheckAvailabilityView) Name() string { return "check_availability" }

func (v *CheckAvailabilityView) Description() string {
	return "Проверить доступность мастера на определенную дату и время"
}

func (v *CheckAvailabilityView) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"master_name": map[string]interface{}{
			"type":        "string",
			"description": "имя мастера",
			"required":    true,
		},
		"date": map[string]interface{}{
			"type":        "string",
			"description": "дата в формате ГГГГ-ММ-ДД",
			"required":    true,
		},
		"time": map[string]interface{}{
			"type":        "string",
			"description": "время в формате ЧЧ:ММ",
			"required":    true,
		},
	}
}

func (v *CheckAvailabilityView) Execute(params map[string]interface{}) (interface{}, error) {
	return v.Booker.CheckAvailability(
		stringParam(params, "master_name"),
		stringParam(params, "date"),
		stringParam(params, "time"),
	)
}

func (v *CheckAvailabilityView) Render(result interface{}) string {
	availability, ok := result.(*booking.Availability)
	if !ok {
		return "Не удалось проверить доступность."
	}

	if availability.Available {
		return fmt.Sprintf("✅ %s: %s", availability.Master, availability.Reason)
	}
	if availability.Master != "" {
		return fmt.Sprintf("❌ %s: %s", availability.Master, availability.Reason)
	}
	return "❌ " + availability.Reason
}

// CreateAppointmentView books an appointment for the caller
type CreateAppointmentView struct {
	Booker *booking.Booker
}

func (v *CreateAppointmentView) Name() string { return "create_appointment" }

func (v *CreateAppointmentView) Description() string {
	return "Создать запись к мастеру"
}

func (v *CreateAppointmentView) UserScoped() bool { return true }

func (v *CreateAppointmentView) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"master_name": map[string]interface{}{
			"type":        "string",
			"description": "имя мастера",
			"required":    true,
		},
		"service_name": map[string]interface{}{
			"type":        "string",
			"description": "название услуги",
			"required":    true,
		},
		"date": map[string]interface{}{
			"type":        "string",
			"description": "дата в формате ГГГГ-ММ-ДД",
			"required":    true,
		},
		"time": map[string]interface{}{
			"type":        "string",
			"description": "время в формате ЧЧ:ММ",
			"required":    true,
		},
		"user_id": map[string]interface{}{
			"type":        "integer",
			"description": "идентификатор пользователя в системе",
			"required":    true,
		},
	}
}

func (v *CreateAppointmentView) Execute(params map[string]interface{}) (interface{}, error) {
	return v.Booker.CreateAppointment(
		int64Param(params, "user_id"),
		stringParam(params, "master_name"),
		stringParam(params, "service_name"),
		stringParam(params, "date"),
		stringParam(params, "time"),
	)
}

func (v *CreateAppointmentView) Render(result interface{}) string {
	booked, ok := result.(*booking.Result)
	if !ok {
		return "❌ Не удалось создать запись: Неизвестная ошибка"
	}

	return fmt.Sprintf(`✅ *Запись успешно создана!*

*Мастер:* %s
*Услуга:* %s
*Дата:* %s
*Время:* %s
*Стоимость:* %s руб.

Ждем вас в салоне Beauteq! 🎉`,
		booked.Master, booked.Service, booked.Date, booked.Time, store.FormatKopecks(booked.PriceKopecks))
}
