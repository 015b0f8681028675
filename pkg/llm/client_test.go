package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Chat_TextReply(t *testing.T) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		_ = json.NewEncoder(w).Encode(chatResponse{
			Message: Message{Role: RoleAssistant, Content: "Добрый день!"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "gemma2:9b", 5*time.Second)
	resp, err := client.Chat(context.Background(), []Message{{Role: RoleUser, Content: "привет"}}, nil)

	require.NoError(t, err)
	assert.Equal(t, ResponseText, resp.Type)
	assert.Equal(t, "Добрый день!", resp.Text)

	assert.Equal(t, "gemma2:9b", captured.Model)
	assert.False(t, captured.Stream)
	assert.Equal(t, 0.1, captured.Options.Temperature)
	assert.Equal(t, 8000, captured.Options.NumCtx)
	assert.Equal(t, 0.9, captured.Options.TopP)
}

func TestClient_Chat_FunctionCallReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(chatResponse{
			Message: Message{
				Role:    RoleAssistant,
				Content: `<function_call>{"function": "masters_list", "parameters": {}}</function_call>`,
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "gemma2:9b", 5*time.Second)
	resp, err := client.Chat(context.Background(), []Message{{Role: RoleUser, Content: "кто работает?"}}, nil)

	require.NoError(t, err)
	assert.True(t, resp.IsFunctionCall())
	assert.Equal(t, "masters_list", resp.Function)
}

func TestClient_Chat_ServerErrorDegradesToFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "gemma2:9b", 5*time.Second)
	resp, err := client.Chat(context.Background(), nil, nil)

	require.NoError(t, err)
	assert.Equal(t, ResponseText, resp.Type)
	assert.Equal(t, fallbackTechnical, resp.Text)
}

func TestClient_Chat_UnreachableDegradesToFallback(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "gemma2:9b", time.Second)
	resp, err := client.Chat(context.Background(), nil, nil)

	require.NoError(t, err)
	assert.Equal(t, ResponseText, resp.Type)
	assert.Equal(t, fallbackUnavailable, resp.Text)
}
