package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Fallback texts shown to users when the model backend misbehaves. They
// match the original assistant's wording.
const (
	fallbackUnavailable = "Сервис временно недоступен. Пожалуйста, попробуйте позже."
	fallbackTechnical   = "Извините, возникла техническая ошибка. Попробуйте позже."
)

// Ensure Client implements Chatter
var _ Chatter = (*Client)(nil)

// Client talks to the Ollama /api/chat endpoint
type Client struct {
	baseURL string
	model   string
	http    *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient creates an Ollama chat client
func NewClient(baseURL, model string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		model:   model,
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
	NumCtx      int     `json:"num_ctx"`
	TopP        float64 `json:"top_p"`
}

type chatRequest struct {
	Model    string      `json:"model"`
	Messages []Message   `json:"messages"`
	Stream   bool        `json:"stream"`
	Options  chatOptions `json:"options"`
}

type chatResponse struct {
	Message Message `json:"message"`
}

// Chat sends the conversation to Ollama and parses the reply. Backend
// failures degrade to a polite text response rather than an error so the
// bot always has something to say.
func (c *Client) Chat(ctx context.Context, messages []Message, tools []Tool) (*Response, error) {
	payload := chatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
		Options: chatOptions{
			Temperature: 0.1,
			NumCtx:      8000,
			TopP:        0.9,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("llm: cannot reach Ollama: %v", err)
		return &Response{Type: ResponseText, Text: fallbackUnavailable}, nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		log.Printf("llm: Ollama API error: %d", resp.StatusCode)
		return &Response{Type: ResponseText, Text: fallbackTechnical}, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read chat response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode chat response: %w", err)
	}

	return ParseResponse(parsed.Message.Content), nil
}
