package llm

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// PromptData carries everything needed to assemble the system prompt
type PromptData struct {
	// Persona is the assistant persona text from configuration
	Persona string

	// Masters lines, e.g. `"Анна Ребикова" - Парикмахер-стилист`
	Masters []string

	// Services lines, e.g. `"Стрижка женская" - Парикмахерские`
	Services []string

	// Extra holds retrieved knowledge and any dialogue-specific context
	Extra string

	// Now anchors the date examples in the prompt
	Now time.Time
}

// BuildSystemPrompt assembles the full system prompt. When tools are given,
// the single-function selection rules and the <function_call> reply format
// are appended, mirroring the behaviour the assistant was tuned for.
func BuildSystemPrompt(data PromptData, tools []Tool) string {
	var sb strings.Builder

	sb.WriteString(data.Persona)
	sb.WriteString("\n")

	if data.Extra != "" {
		sb.WriteString("\n")
		sb.WriteString(data.Extra)
		sb.WriteString("\n")
	}

	if len(data.Masters) > 0 {
		sb.WriteString("\nДОСТУПНЫЕ МАСТЕРА (используй ТОЛЬКО эти имена):\n")
		for _, m := range data.Masters {
			sb.WriteString("- " + m + "\n")
		}
	}

	if len(data.Services) > 0 {
		sb.WriteString("\nДОСТУПНЫЕ УСЛУГИ (используй ТОЛЬКО эти названия):\n")
		for _, s := range data.Services {
			sb.WriteString("- " + s + "\n")
		}
	}

	if len(tools) > 0 {
		sb.WriteString("\nДОСТУПНЫЕ ФУНКЦИИ (ВЫБЕРИ ТОЛЬКО ОДНУ):\n")
		for i, tool := range tools {
			sb.WriteString(fmt.Sprintf("\n%d. %s - %s\n", i+1, tool.Name, tool.Description))
			names := make([]string, 0, len(tool.Parameters))
			for name := range tool.Parameters {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				sb.WriteString(fmt.Sprintf("   - %s: %s\n", name, describeParameter(tool.Parameters[name])))
			}
		}

		sb.WriteString(`
ВАЖНЫЕ ПРАВИЛА ВЫБОРА ФУНКЦИИ:
- В ОДНОМ ответе ТОЛЬКО ОДНА функция
- Если информации недостаточно - задай уточняющий вопрос текстом
- Не показывай все функции сразу!
`)
	}

	today := data.Now
	tomorrow := today.AddDate(0, 0, 1)
	sb.WriteString(fmt.Sprintf(`
ФОРМАТЫ ДАННЫХ:
- Дата: ГГГГ-ММ-ДД (сегодня: %s, завтра: %s)
- Время: ЧЧ:ММ
- Специализация: "парикмахер", "косметолог", "маникюр", "визажист"
- Категория: "Парикмахерские", "Косметология", "Ногтевой сервис", "Визаж"
`, today.Format("2006-01-02"), tomorrow.Format("2006-01-02")))

	if len(tools) > 0 {
		sb.WriteString(`
ФОРМАТ ОТВЕТА:
Если нужно вызвать функцию, отвечай ТОЛЬКО в формате:
<function_call>
{
    "function": "имя_функции",
    "parameters": {
        "param1": "value1"
    }
}
</function_call>

Если информации недостаточно - ответь обычным текстом и спроси нужные детали.

НИКОГДА не показывай все функции сразу!
НИКОГДА не показывай клиенту формат вызова функций!
`)
	}

	return sb.String()
}

func describeParameter(spec interface{}) string {
	if m, ok := spec.(map[string]interface{}); ok {
		if desc, ok := m["description"].(string); ok {
			return desc
		}
	}
	if s, ok := spec.(string); ok {
		return s
	}
	return ""
}
