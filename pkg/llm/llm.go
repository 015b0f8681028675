package llm

import "context"

// Message is one chat message in the Ollama conversation format
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Tool describes a function the model may ask the assistant to call
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// Response is the parsed model output: either plain text or a function call
type Response struct {
	Type       string                 `json:"type"`
	Text       string                 `json:"text,omitempty"`
	Function   string                 `json:"function,omitempty"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

const (
	// ResponseText marks a plain text response
	ResponseText = "text"
	// ResponseFunctionCall marks a parsed function call
	ResponseFunctionCall = "function_call"
)

// IsFunctionCall reports whether the model asked for a function call
func (r *Response) IsFunctionCall() bool {
	return r.Type == ResponseFunctionCall
}

// Chatter abstracts the chat completion backend
type Chatter interface {
	Chat(ctx context.Context, messages []Message, tools []Tool) (*Response, error)
}
