// Package session tracks per-user conversation state and drives the
// guided booking flow. Messages that start or continue a booking are
// answered directly without going through the model.
package session

import (
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/beauteq/salon-assistant/pkg/booking"
	"github.com/beauteq/salon-assistant/pkg/store"
)

// State is the conversation phase of a user session
type State int

const (
	// StateStart means no flow is active and messages go to the model
	StateStart State = iota

	// StateBooking means the user is inside the guided booking flow
	StateBooking
)

var bookingKeywords = []string{
	"записаться", "запись", "бронь", "стрижк", "маникюр",
	"окрашивание", "макияж", "чистка", "запишите",
}

var confirmWords = []string{"да", "yes", "ок", "подтверждаю", "верно"}

var (
	dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	timeRegex = regexp.MustCompile(`^\d{2}:\d{2}`)
)

// slotTimes are offered to the user during the guided flow
var slotTimes = []string{"10:00", "11:00", "14:00", "15:00", "16:00", "17:00", "18:00"}

// categorySpecializations maps a service category to the master
// specializations that can perform it.
var categorySpecializations = map[string][]string{
	"Парикмахерские":  {"парикмахер", "стилист"},
	"Косметология":    {"косметолог"},
	"Ногтевой сервис": {"маникюр", "ногтевой"},
	"Визаж":           {"визажист"},
}

// UserSession is the per-user flow state
type UserSession struct {
	UserID      int64
	State       State
	LastMessage string

	service *store.Service
	master  *store.Master
	date    string
	slot    string
}

func (s *UserSession) resetBooking() {
	s.service = nil
	s.master = nil
	s.date = ""
	s.slot = ""
	s.State = StateStart
	log.Printf("session %d: booking reset", s.UserID)
}

// Reply is the outcome of running a message through the state machine
type Reply struct {
	// Handled is false when the flow did not consume the message and it
	// should go to the model instead.
	Handled bool

	Text string
}

// Manager owns all user sessions
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*UserSession

	catalog store.CatalogStore
	booker  *booking.Booker
	now     func() time.Time
}

// NewManager returns a Manager over the given catalog and booker
func NewManager(catalog store.CatalogStore, booker *booking.Booker) *Manager {
	return &Manager{
		sessions: make(map[int64]*UserSession),
		catalog:  catalog,
		booker:   booker,
		now:      time.Now,
	}
}

// WithClock overrides the time source, for tests
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func (m *Manager) session(userID int64) *UserSession {
	s, ok := m.sessions[userID]
	if !ok {
		s = &UserSession{UserID: userID}
		m.sessions[userID] = s
		log.Printf("session %d: created", userID)
	}
	return s
}

// IsBookingIntent reports whether a message should start the booking flow
func IsBookingIntent(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range bookingKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Process runs one message through the state machine. A Reply with
// Handled false means the caller should fall through to the model.
func (m *Manager) Process(userID int64, message string) (*Reply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.session(userID)
	s.LastMessage = message

	if s.State == StateBooking {
		return m.handleBookingFlow(s, message)
	}

	if IsBookingIntent(message) {
		log.Printf("session %d: booking flow started", userID)
		s.State = StateBooking
		return m.promptService(s)
	}

	return &Reply{Handled: false}, nil
}

func (m *Manager) handleBookingFlow(s *UserSession, message string) (*Reply, error) {
	switch {
	case s.service == nil:
		return m.selectService(s, message)
	case s.master == nil:
		return m.selectMaster(s, message)
	case s.date == "":
		return m.selectDate(s, message)
	case s.slot == "":
		return m.selectTime(s, message)
	default:
		return m.confirm(s, message)
	}
}

func (m *Manager) promptService(s *UserSession) (*Reply, error) {
	services, err := m.catalog.ListServices("")
	if err != nil {
		return nil, err
	}
	text := fmt.Sprintf("Отлично! Помогу с записью.\n\n%s\n\n*Просто напишите название услуги*", servicesText(services))
	return &Reply{Handled: true, Text: text}, nil
}

func (m *Manager) selectService(s *UserSession, message string) (*Reply, error) {
	services, err := m.catalog.ListServices("")
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(message)
	for i, svc := range services {
		for _, word := range strings.Fields(strings.ToLower(svc.Name)) {
			if strings.Contains(lower, word) {
				s.service = &services[i]
				log.Printf("session %d: selected service %q", s.UserID, svc.Name)
				return m.promptMaster(s)
			}
		}
	}

	text := fmt.Sprintf("Не нашел услугу '%s'. Пожалуйста, выберите из списка:\n\n%s", message, servicesText(services))
	return &Reply{Handled: true, Text: text}, nil
}

func (m *Manager) promptMaster(s *UserSession) (*Reply, error) {
	masters, err := m.suitableMasters(s.service.Category)
	if err != nil {
		return nil, err
	}

	if len(masters) == 0 {
		s.resetBooking()
		text := fmt.Sprintf("К сожалению, для услуги '%s' сейчас нет доступных мастеров.", s.service.Name)
		return &Reply{Handled: true, Text: text}, nil
	}

	var sb strings.Builder
	sb.WriteString("👩‍💼 *Выберите мастера:*\n")
	for _, mst := range masters {
		sb.WriteString(fmt.Sprintf("• %s - %s\n", mst.Name, mst.Specialization))
	}

	text := fmt.Sprintf("Услуга: *%s*\n\n%s", s.service.Name, sb.String())
	return &Reply{Handled: true, Text: text}, nil
}

func (m *Manager) selectMaster(s *UserSession, message string) (*Reply, error) {
	masters, err := m.suitableMasters(s.service.Category)
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(message)
	for i, mst := range masters {
		for _, word := range strings.Fields(strings.ToLower(mst.Name)) {
			if strings.Contains(lower, word) {
				s.master = &masters[i]
				log.Printf("session %d: selected master %q", s.UserID, mst.Name)
				return m.promptDate(s), nil
			}
		}
	}

	text := fmt.Sprintf("Мастер '%s' не найден для услуги '%s'. Выберите из списка выше.", message, s.service.Name)
	return &Reply{Handled: true, Text: text}, nil
}

func (m *Manager) promptDate(s *UserSession) *Reply {
	text := fmt.Sprintf("Мастер: *%s*\n\n📅 *Выберите дату:*\n%s", s.master.Name, m.datesText())
	return &Reply{Handled: true, Text: text}
}

func (m *Manager) selectDate(s *UserSession, message string) (*Reply, error) {
	if !dateRegex.MatchString(message) {
		text := fmt.Sprintf("Пожалуйста, укажите дату в формате ГГГГ-ММ-ДД:\n%s", m.datesText())
		return &Reply{Handled: true, Text: text}, nil
	}

	s.date = message[:10]
	log.Printf("session %d: selected date %s", s.UserID, s.date)

	var sb strings.Builder
	for _, t := range slotTimes {
		sb.WriteString(fmt.Sprintf("• %s\n", t))
	}
	text := fmt.Sprintf("Дата: *%s*\n\n⏰ *Выберите время:*\n%s", s.date, sb.String())
	return &Reply{Handled: true, Text: text}, nil
}

func (m *Manager) selectTime(s *UserSession, message string) (*Reply, error) {
	if !timeRegex.MatchString(message) {
		return &Reply{Handled: true, Text: "Пожалуйста, укажите время в формате ЧЧ:ММ (например, 14:30)"}, nil
	}

	s.slot = message[:5]
	log.Printf("session %d: selected time %s", s.UserID, s.slot)

	text := fmt.Sprintf(`✅ *Подтвердите запись:*

*Услуга:* %s
*Мастер:* %s
*Дата:* %s
*Время:* %s
*Стоимость:* %s руб.

Всё верно? (да/нет)`,
		s.service.Name, s.master.Name, s.date, s.slot, store.FormatKopecks(s.service.PriceKopecks))
	return &Reply{Handled: true, Text: text}, nil
}

func (m *Manager) confirm(s *UserSession, message string) (*Reply, error) {
	defer s.resetBooking()

	lower := strings.TrimSpace(strings.ToLower(message))
	for _, w := range confirmWords {
		if lower == w {
			return &Reply{Handled: true, Text: m.createBooking(s)}, nil
		}
	}

	return &Reply{Handled: true, Text: "Запись отменена. Чем еще могу помочь?"}, nil
}

func (m *Manager) createBooking(s *UserSession) string {
	_, err := m.booker.CreateAppointment(s.UserID, s.master.Name, s.service.Name, s.date, s.slot)
	if err != nil {
		log.Printf("session %d: booking failed: %v", s.UserID, err)
		return fmt.Sprintf("❌ Ошибка при создании записи: %s", booking.UserError(err))
	}
	return "🎉 Запись успешно создана! Ждем вас в салоне!"
}

func (m *Manager) suitableMasters(category string) ([]store.Master, error) {
	all, err := m.catalog.ListMasters("")
	if err != nil {
		return nil, err
	}

	keywords := categorySpecializations[category]
	var suitable []store.Master
	for _, mst := range all {
		spec := strings.ToLower(mst.Specialization)
		for _, kw := range keywords {
			if strings.Contains(spec, kw) {
				suitable = append(suitable, mst)
				break
			}
		}
	}
	return suitable, nil
}

func (m *Manager) datesText() string {
	var sb strings.Builder
	today := m.now()
	for i := 1; i <= 7; i++ {
		sb.WriteString(fmt.Sprintf("• %s\n", today.AddDate(0, 0, i).Format(booking.DateLayout)))
	}
	return sb.String()
}

func servicesText(services []store.Service) string {
	var sb strings.Builder
	sb.WriteString("📋 *Выберите услугу:*\n")
	for _, s := range services {
		sb.WriteString(fmt.Sprintf("• %s - %s руб.\n", s.Name, store.FormatKopecks(s.PriceKopecks)))
	}
	return sb.String()
}
