// Package processor wires the message pipeline: guided booking flow
// first, then retrieval, prompt assembly, the model call and view
// dispatch.
package processor

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/beauteq/salon-assistant/pkg/audit"
	"github.com/beauteq/salon-assistant/pkg/booking"
	"github.com/beauteq/salon-assistant/pkg/llm"
	"github.com/beauteq/salon-assistant/pkg/rag"
	"github.com/beauteq/salon-assistant/pkg/session"
	"github.com/beauteq/salon-assistant/pkg/store"
	"github.com/beauteq/salon-assistant/pkg/view"
)

// ragFallbackHint steers the model away from clarifying questions when
// no knowledge matched the query.
const ragFallbackHint = "Не выясняй тип стрижки, длину и другие подробности услуг."

var monthsRU = []string{
	"", "января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// Processor runs user messages through the assistant pipeline
type Processor struct {
	chatter       llm.Chatter
	retriever     *rag.Retriever
	router        *view.Router
	sessions      *session.Manager
	users         store.UsersStore
	catalog       store.CatalogStore
	conversations store.ConversationsStore

	persona      string
	historyLimit int
	location     *time.Location
	now          func() time.Time
}

// New returns a Processor over the given collaborators. persona is the
// assistant persona text and historyLimit caps the dialogue history
// passed to the model.
func New(
	chatter llm.Chatter,
	retriever *rag.Retriever,
	router *view.Router,
	sessions *session.Manager,
	users store.UsersStore,
	catalog store.CatalogStore,
	conversations store.ConversationsStore,
	persona string,
	historyLimit int,
) *Processor {
	location, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		location = time.FixedZone("MSK", 3*60*60)
	}
	return &Processor{
		chatter:       chatter,
		retriever:     retriever,
		router:        router,
		sessions:      sessions,
		users:         users,
		catalog:       catalog,
		conversations: conversations,
		persona:       persona,
		historyLimit:  historyLimit,
		location:      location,
		now:           time.Now,
	}
}

// WithClock overrides the time source, for tests
func (p *Processor) WithClock(now func() time.Time) *Processor {
	p.now = now
	return p
}

// Process handles one incoming message and returns the reply text
func (p *Processor) Process(ctx context.Context, user store.User, message string) (string, error) {
	if err := p.users.SaveUser(user); err != nil {
		log.Printf("processor: save user %d: %v", user.ID, err)
	}
	audit.Log(audit.MessageEvent{
		UserID:   user.ID,
		Username: user.Username,
		ChatID:   user.ID,
		Intent:   "message",
	})

	// The guided flow answers booking messages without the model
	reply, err := p.sessions.Process(user.ID, message)
	if err != nil {
		return "", err
	}
	if reply.Handled {
		p.saveInbound(user.ID, message)
		p.saveReply(user.ID, reply.Text, "booking_flow")
		return reply.Text, nil
	}

	// Build the context before persisting the inbound message so the
	// loaded history does not already contain it.
	messages, err := p.buildContext(user, message)
	if err != nil {
		return "", err
	}
	p.saveInbound(user.ID, message)

	tools := p.router.Definitions()
	response, err := p.chatter.Chat(ctx, messages, tools)
	if err != nil {
		return "", err
	}

	return p.handleResponse(user, response)
}

func (p *Processor) buildContext(user store.User, message string) ([]llm.Message, error) {
	var messages []llm.Message

	history, err := p.conversations.LoadConversation(user.ID, p.historyLimit)
	if err != nil {
		return nil, err
	}
	for _, entry := range history {
		role := llm.RoleUser
		if entry.IsBot {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: entry.Message})
	}

	masters, err := p.catalog.ListMasters("")
	if err != nil {
		return nil, err
	}
	services, err := p.catalog.ListServices("")
	if err != nil {
		return nil, err
	}

	data := llm.PromptData{
		Persona:  p.persona,
		Masters:  masterLines(masters),
		Services: serviceLines(services),
		Extra:    p.buildExtra(user, message),
		Now:      p.now().In(p.location),
	}
	system := llm.BuildSystemPrompt(data, p.router.Definitions())

	messages = append(messages,
		llm.Message{Role: llm.RoleSystem, Content: system},
		llm.Message{Role: llm.RoleUser, Content: message},
	)
	return messages, nil
}

// buildExtra assembles the dialogue-specific prompt section: retrieved
// knowledge, the user's name and the current Moscow time.
func (p *Processor) buildExtra(user store.User, message string) string {
	ragText := ragFallbackHint
	results, err := p.retriever.Search(message, rag.DefaultTopK)
	if err != nil {
		log.Printf("processor: rag search: %v", err)
	}
	if len(results) > 0 {
		contents := make([]string, len(results))
		for i, r := range results {
			contents[i] = r.Content
		}
		ragText = "📚 *Дополнительная информация:*\n" + strings.Join(contents, "\n")
	}

	name := user.FirstName
	if name == "" {
		name = user.Username
	}

	now := p.now().In(p.location)
	return fmt.Sprintf(`%s

Пользователь: %s. Но может себя называть другим именем. Используй то имя, которое он себе взял в диалоге.

Сейчас: %d %s %d года, %s, по Москве.
Нельзя записывать на более ранние время и даты, так как это время уже прошло.`,
		ragText, name, now.Day(), monthsRU[now.Month()], now.Year(), now.Format("15:04"))
}

func (p *Processor) handleResponse(user store.User, response *llm.Response) (string, error) {
	if !response.IsFunctionCall() {
		p.saveReply(user.ID, response.Text, "response")
		return response.Text, nil
	}

	params := response.Parameters
	if params == nil {
		params = make(map[string]interface{})
	}

	v, ok := p.router.Get(response.Function)
	if !ok {
		text := fmt.Sprintf("Ошибка: неизвестная функция %s", response.Function)
		p.saveReply(user.ID, text, "error")
		return text, nil
	}
	if scoped, ok := v.(view.UserScoped); ok && scoped.UserScoped() {
		params["user_id"] = user.ID
	}

	result, err := p.router.Execute(response.Function, params)
	if err != nil {
		audit.Log(audit.ViewEvent{
			UserID:       user.ID,
			ViewName:     response.Function,
			ErrorMessage: err.Error(),
		})
		text := p.renderError(response.Function, err)
		p.saveReply(user.ID, text, "error")
		return text, nil
	}

	audit.Log(audit.ViewEvent{UserID: user.ID, ViewName: response.Function, Success: true})
	if booked, ok := result.(*booking.Result); ok {
		audit.Log(audit.AppointmentEvent{
			UserID:        user.ID,
			AppointmentID: booked.AppointmentID,
			Master:        booked.Master,
			Service:       booked.Service,
			Slot:          booked.Date + " " + booked.Time,
			Success:       true,
		})
	}

	text := p.router.Render(response.Function, result)
	p.saveReply(user.ID, text, "view_response")
	return text, nil
}

func (p *Processor) renderError(viewName string, err error) string {
	if viewName == "create_appointment" {
		audit.Log(audit.AppointmentEvent{ErrorMessage: err.Error()})
		return fmt.Sprintf("❌ Не удалось создать запись: %s", booking.UserError(err))
	}
	return fmt.Sprintf("❌ Ошибка: %s", err)
}

func (p *Processor) saveInbound(userID int64, message string) {
	if err := p.conversations.SaveConversation(userID, message, false, "message"); err != nil {
		log.Printf("processor: save message for %d: %v", userID, err)
	}
}

func (p *Processor) saveReply(userID int64, text, intent string) {
	if err := p.conversations.SaveConversation(userID, text, true, intent); err != nil {
		log.Printf("processor: save reply for %d: %v", userID, err)
	}
}

func masterLines(masters []store.Master) []string {
	lines := make([]string, len(masters))
	for i, m := range masters {
		lines[i] = fmt.Sprintf("%q - %s", m.Name, m.Specialization)
	}
	return lines
}

func serviceLines(services []store.Service) []string {
	lines := make([]string, len(services))
	for i, s := range services {
		lines[i] = fmt.Sprintf("%q - %s", s.Name, s.Category)
	}
	return lines
}
