// Package bot is the Telegram transport. It routes commands and
// keyboard presses to direct handlers and everything else through the
// message processor.
package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/beauteq/salon-assistant/pkg/processor"
	"github.com/beauteq/salon-assistant/pkg/store"
)

// Keyboard button labels
const (
	buttonBook         = "📅 Записаться"
	buttonServices     = "💇 Услуги и цены"
	buttonMasters      = "👩‍💼 Наши мастера"
	buttonAppointments = "📋 Мои записи"
)

const errorText = "Извините, произошла ошибка. Пожалуйста, попробуйте позже."

// Sender is the subset of the Telegram client the bot needs to reply
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// SalonInfo holds the salon facts shown by /contacts and /start
type SalonInfo struct {
	Name         string
	Phone        string
	Address      string
	WorkingHours string
}

// Bot handles Telegram updates
type Bot struct {
	api           Sender
	processor     *processor.Processor
	catalog       store.CatalogStore
	appointments  store.AppointmentsStore
	users         store.UsersStore
	conversations store.ConversationsStore
	salon         SalonInfo
}

// New returns a Bot over the given Telegram client and collaborators
func New(
	api Sender,
	proc *processor.Processor,
	catalog store.CatalogStore,
	appointments store.AppointmentsStore,
	users store.UsersStore,
	conversations store.ConversationsStore,
	salon SalonInfo,
) *Bot {
	return &Bot{
		api:           api,
		processor:     proc,
		catalog:       catalog,
		appointments:  appointments,
		users:         users,
		conversations: conversations,
		salon:         salon,
	}
}

// Run consumes updates until the context is cancelled
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	log.Print("bot: started")
	for {
		select {
		case <-ctx.Done():
			log.Print("bot: stopping")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate dispatches one Telegram update. A failing handler is
// logged and answered with a generic error so the loop keeps going.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	msg := update.Message

	var err error
	if msg.IsCommand() {
		err = b.handleCommand(ctx, msg)
	} else if msg.Text != "" {
		err = b.handleText(ctx, msg)
	}
	if err != nil {
		log.Printf("bot: update from %d: %v", msg.From.ID, err)
		b.replyPlain(msg.Chat.ID, errorText)
		b.saveBotMessage(msg.From.ID, errorText, "error")
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(msg)
	case "services":
		return b.handleServices(msg)
	case "masters":
		return b.handleMasters(msg)
	case "appointments":
		return b.handleAppointments(msg)
	case "contacts":
		return b.handleContacts(msg)
	default:
		return b.replyPlain(msg.Chat.ID, "Неизвестная команда. Просто напишите, что вас интересует!")
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) error {
	user := storeUser(msg.From)
	if err := b.users.SaveUser(user); err != nil {
		return err
	}

	welcome := fmt.Sprintf(`Привет, %s! 👋

Я Анастасия, ваш AI-ассистент салона красоты *%s*!

Я могу помочь вам:
💇‍♀️ *Записаться* к мастеру
📅 *Узнать свободное время*
💄 *Подобрать услугу*
💰 *Узнать цены*
📋 *Посмотреть ваши записи*

Просто напишите, что вас интересует!`, msg.From.FirstName, b.salon.Name)

	reply := tgbotapi.NewMessage(msg.Chat.ID, welcome)
	reply.ParseMode = tgbotapi.ModeMarkdown
	reply.ReplyMarkup = mainKeyboard()
	if _, err := b.api.Send(reply); err != nil {
		return err
	}

	b.saveUserMessage(user.ID, "/start", "start")
	b.saveBotMessage(user.ID, welcome, "welcome")
	return nil
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) error {
	b.sendTyping(msg.Chat.ID)

	// Keyboard buttons map to the command handlers
	switch strings.TrimSpace(msg.Text) {
	case buttonServices:
		return b.handleServices(msg)
	case buttonMasters:
		return b.handleMasters(msg)
	case buttonAppointments:
		return b.handleAppointments(msg)
	}

	// buttonBook falls through on purpose: the booking flow picks up
	// the keyword.
	text, err := b.processor.Process(ctx, storeUser(msg.From), msg.Text)
	if err != nil {
		return err
	}
	return b.reply(msg.Chat.ID, text)
}

func (b *Bot) handleServices(msg *tgbotapi.Message) error {
	b.sendTyping(msg.Chat.ID)

	services, err := b.catalog.ListServices("")
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("💇 *Наши услуги и цены:*\n\n")
	for _, s := range services {
		sb.WriteString(fmt.Sprintf("*%s* - %s руб. (%d мин.)\n", s.Name, store.FormatKopecks(s.PriceKopecks), s.DurationMinutes))
	}
	return b.reply(msg.Chat.ID, sb.String())
}

func (b *Bot) handleMasters(msg *tgbotapi.Message) error {
	b.sendTyping(msg.Chat.ID)

	masters, err := b.catalog.ListMasters("")
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("👩‍💼 *Наши мастера:*\n\n")
	for _, m := range masters {
		sb.WriteString(fmt.Sprintf("*%s* - %s\n", m.Name, m.Specialization))
	}
	return b.reply(msg.Chat.ID, sb.String())
}

func (b *Bot) handleAppointments(msg *tgbotapi.Message) error {
	b.sendTyping(msg.Chat.ID)

	appointments, err := b.appointments.ListUserAppointments(msg.From.ID)
	if err != nil {
		return err
	}
	if len(appointments) == 0 {
		return b.replyPlain(msg.Chat.ID, "У вас пока нет записей.")
	}

	var sb strings.Builder
	sb.WriteString("📋 *Ваши записи:*\n\n")
	for _, a := range appointments {
		sb.WriteString(fmt.Sprintf("*%s* - %s\n", a.MasterName, a.ServiceName))
		sb.WriteString(fmt.Sprintf("📅 %s\n", a.AppointmentAt.Format("2006-01-02 15:04")))
		sb.WriteString(fmt.Sprintf("💵 %s руб.\n", store.FormatKopecks(a.PriceKopecks)))
		sb.WriteString(fmt.Sprintf("Статус: %s\n\n", a.Status))
	}
	return b.reply(msg.Chat.ID, sb.String())
}

func (b *Bot) handleContacts(msg *tgbotapi.Message) error {
	contacts := fmt.Sprintf(`📞 *Контакты салона %s*

*Телефон:* %s
*Режим работы:* %s

📍 *Адрес:* %s

Мы всегда рады вам! 💫`, b.salon.Name, b.salon.Phone, b.salon.WorkingHours, b.salon.Address)
	return b.reply(msg.Chat.ID, contacts)
}

func (b *Bot) reply(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		// Model output is not always valid Markdown, retry as plain text
		return b.replyPlain(chatID, text)
	}
	return nil
}

func (b *Bot) replyPlain(chatID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (b *Bot) sendTyping(chatID int64) {
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		log.Printf("bot: chat action: %v", err)
	}
}

func (b *Bot) saveUserMessage(userID int64, text, intent string) {
	if err := b.conversations.SaveConversation(userID, text, false, intent); err != nil {
		log.Printf("bot: save message for %d: %v", userID, err)
	}
}

func (b *Bot) saveBotMessage(userID int64, text, intent string) {
	if err := b.conversations.SaveConversation(userID, text, true, intent); err != nil {
		log.Printf("bot: save reply for %d: %v", userID, err)
	}
}

func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonBook),
			tgbotapi.NewKeyboardButton(buttonServices),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonMasters),
			tgbotapi.NewKeyboardButton(buttonAppointments),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}

func storeUser(from *tgbotapi.User) store.User {
	return store.User{
		ID:        from.ID,
		Username:  from.UserName,
		FirstName: from.FirstName,
	}
}
