package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beauteq/salon-assistant/pkg/booking"
	"github.com/beauteq/salon-assistant/pkg/llm"
	"github.com/beauteq/salon-assistant/pkg/processor"
	"github.com/beauteq/salon-assistant/pkg/rag"
	"github.com/beauteq/salon-assistant/pkg/session"
	"github.com/beauteq/salon-assistant/pkg/store"
	"github.com/beauteq/salon-assistant/pkg/view"
)

type fakeSender struct {
	sent         []tgbotapi.Chattable
	actions      []tgbotapi.Chattable
	failMarkdown bool
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.failMarkdown {
		if mc, ok := c.(tgbotapi.MessageConfig); ok && mc.ParseMode == tgbotapi.ModeMarkdown {
			return tgbotapi.Message{}, errors.New("can't parse entities")
		}
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.actions = append(f.actions, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) lastMessage(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	require.NotEmpty(t, f.sent)
	mc, ok := f.sent[len(f.sent)-1].(tgbotapi.MessageConfig)
	require.True(t, ok)
	return mc
}

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
	list []store.Appointment
}

func (f *fakeAppointments) SlotTaken(masterID int64, at time.Time) (bool, error) {
	return false, nil
}

func (f *fakeAppointments) CreateAppointment(userID, masterID, serviceID int64, at time.Time) (int64, error) {
	return 1, nil
}

func (f *fakeAppointments) ListUserAppointments(userID int64) ([]store.Appointment, error) {
	return f.list, nil
}

type fakeUsers struct {
	saved []store.User
}

func (f *fakeUsers) SaveUser(user store.User) error {
	f.saved = append(f.saved, user)
	return nil
}

type fakeConversations struct {
	intents []string
}

func (f *fakeConversations) SaveConversation(userID int64, message string, isBot bool, intent string) error {
	f.intents = append(f.intents, intent)
	return nil
}

func (f *fakeConversations) LoadConversation(userID int64, limit int) ([]store.ConversationEntry, error) {
	return nil, nil
}

type fakeKnowledge struct{}

func (fakeKnowledge) ListKnowledge() ([]store.KnowledgeItem, error)    { return nil, nil }
func (fakeKnowledge) UpsertKnowledge(items []store.KnowledgeItem) error { return nil }

type fakeChatter struct {
	text string
}

func (f *fakeChatter) Chat(ctx context.Context, messages []llm.Message, tools []llm.Tool) (*llm.Response, error) {
	return &llm.Response{Type: llm.ResponseText, Text: f.text}, nil
}

type fixture struct {
	sender        *fakeSender
	users         *fakeUsers
	conversations *fakeConversations
	bot           *Bot
}

func newFixture(t *testing.T, modelReply string) *fixture {
	t.Helper()

	catalog := &fakeCatalog{
		masters: []store.Master{
			{ID: 1, Name: "Анна Ребикова", Specialization: "Парикмахер-стилист"},
		},
		services: []store.Service{
			{ID: 1, Name: "Стрижка женская", Category: "Парикмахерские", DurationMinutes: 60, PriceKopecks: 250000},
		},
	}
	appointments := &fakeAppointments{}
	users := &fakeUsers{}
	conversations := &fakeConversations{}
	booker := booking.New(catalog, appointments)

	proc := processor.New(
		&fakeChatter{text: modelReply},
		rag.New(fakeKnowledge{}),
		view.NewRouter(),
		session.NewManager(catalog, booker),
		users,
		catalog,
		conversations,
		"персона",
		10,
	)

	sender := &fakeSender{}
	b := New(sender, proc, catalog, appointments, users, conversations, SalonInfo{
		Name:         "Beauteq",
		Phone:        "+7 (495) 123-45-67",
		Address:      "г. Москва, ул. Пушкина, д. 10",
		WorkingHours: "Пн-Пт 9:00-21:00, Сб-Вс 10:00-20:00",
	})
	return &fixture{sender: sender, users: users, conversations: conversations, bot: b}
}

func update(text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text: text,
		From: &tgbotapi.User{ID: 100, UserName: "masha", FirstName: "Мария"},
		Chat: &tgbotapi.Chat{ID: 500},
	}}
}

func commandUpdate(text string) tgbotapi.Update {
	u := update(text)
	u.Message.Entities = []tgbotapi.MessageEntity{
		{Type: "bot_command", Offset: 0, Length: len(text)},
	}
	return u
}

func TestHandleUpdate_Start(t *testing.T) {
	f := newFixture(t, "")

	f.bot.HandleUpdate(context.Background(), commandUpdate("/start"))

	msg := f.sender.lastMessage(t)
	assert.Equal(t, int64(500), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeMarkdown, msg.ParseMode)
	assert.Contains(t, msg.Text, "Привет, Мария! 👋")
	assert.Contains(t, msg.Text, "салона красоты *Beauteq*")

	keyboard, ok := msg.ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	require.True(t, ok)
	assert.True(t, keyboard.ResizeKeyboard)
	require.Len(t, keyboard.Keyboard, 2)
	assert.Equal(t, buttonBook, keyboard.Keyboard[0][0].Text)
	assert.Equal(t, buttonAppointments, keyboard.Keyboard[1][1].Text)

	require.Len(t, f.users.saved, 1)
	assert.Equal(t, store.User{ID: 100, Username: "masha", FirstName: "Мария"}, f.users.saved[0])
	assert.Equal(t, []string{"start", "welcome"}, f.conversations.intents)
}

func TestHandleUpdate_ServicesButton(t *testing.T) {
	f := newFixture(t, "не должно дойти")

	f.bot.HandleUpdate(context.Background(), update(buttonServices))

	msg := f.sender.lastMessage(t)
	assert.Contains(t, msg.Text, "💇 *Наши услуги и цены:*")
	assert.Contains(t, msg.Text, "*Стрижка женская* - 2500 руб. (60 мин.)")
}

func TestHandleUpdate_MastersCommand(t *testing.T) {
	f := newFixture(t, "")

	f.bot.HandleUpdate(context.Background(), commandUpdate("/masters"))

	msg := f.sender.lastMessage(t)
	assert.Contains(t, msg.Text, "👩‍💼 *Наши мастера:*")
	assert.Contains(t, msg.Text, "*Анна Ребикова* - Парикмахер-стилист")
}

func TestHandleUpdate_AppointmentsEmpty(t *testing.T) {
	f := newFixture(t, "")

	f.bot.HandleUpdate(context.Background(), commandUpdate("/appointments"))

	msg := f.sender.lastMessage(t)
	assert.Equal(t, "У вас пока нет записей.", msg.Text)
	assert.Empty(t, msg.ParseMode)
}

func TestHandleUpdate_Contacts(t *testing.T) {
	f := newFixture(t, "")

	f.bot.HandleUpdate(context.Background(), commandUpdate("/contacts"))

	msg := f.sender.lastMessage(t)
	assert.Contains(t, msg.Text, "📞 *Контакты салона Beauteq*")
	assert.Contains(t, msg.Text, "+7 (495) 123-45-67")
	assert.Contains(t, msg.Text, "г. Москва, ул. Пушкина, д. 10")
}

func TestHandleUpdate_UnknownCommand(t *testing.T) {
	f := newFixture(t, "")

	f.bot.HandleUpdate(context.Background(), commandUpdate("/help"))

	msg := f.sender.lastMessage(t)
	assert.Equal(t, "Неизвестная команда. Просто напишите, что вас интересует!", msg.Text)
}

func TestHandleUpdate_TextGoesToProcessor(t *testing.T) {
	f := newFixture(t, "Здравствуйте! Чем могу помочь?")

	f.bot.HandleUpdate(context.Background(), update("Привет"))

	msg := f.sender.lastMessage(t)
	assert.Equal(t, "Здравствуйте! Чем могу помочь?", msg.Text)
	assert.Equal(t, tgbotapi.ModeMarkdown, msg.ParseMode)

	// typing action before the model call
	require.Len(t, f.sender.actions, 1)
	action, ok := f.sender.actions[0].(tgbotapi.ChatActionConfig)
	require.True(t, ok)
	assert.Equal(t, tgbotapi.ChatTyping, action.Action)
}

func TestHandleUpdate_BookButtonStartsFlow(t *testing.T) {
	f := newFixture(t, "не должно дойти")

	f.bot.HandleUpdate(context.Background(), update(buttonBook))

	msg := f.sender.lastMessage(t)
	assert.Contains(t, msg.Text, "Отлично! Помогу с записью.")
}

func TestReply_RetriesPlainOnMarkdownFailure(t *testing.T) {
	f := newFixture(t, "reply_with_broken_markdown")
	f.sender.failMarkdown = true

	f.bot.HandleUpdate(context.Background(), update("Привет"))

	msg := f.sender.lastMessage(t)
	assert.Equal(t, "reply_with_broken_markdown", msg.Text)
	assert.Empty(t, msg.ParseMode)
}

func TestHandleUpdate_IgnoresNonMessages(t *testing.T) {
	f := newFixture(t, "")

	f.bot.HandleUpdate(context.Background(), tgbotapi.Update{})
	f.bot.HandleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{Text: "x"}})

	assert.Empty(t, f.sender.sent)
}
