package endpoints

import (
	"context"
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gorilla/mux"

	"github.com/beauteq/salon-assistant/pkg/server"
)

// UpdateHandler consumes decoded Telegram updates
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

// RegisterWebhookEndpoint registers the Telegram webhook receiver. The
// bot token doubles as the path secret, which is what Telegram itself
// recommends for webhook URLs.
func RegisterWebhookEndpoint(s *server.Server, token string, handler UpdateHandler) {
	// POST /telegram/webhook/{token} - Telegram update delivery
	s.Router.HandleFunc("/telegram/webhook/{token}", handleWebhook(token, handler)).Methods("POST")
}

func handleWebhook(token string, handler UpdateHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if mux.Vars(r)["token"] != token {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			respondWithError(w, http.StatusBadRequest, "malformed update")
			return
		}

		// Telegram expects a fast 200; the handler may call the model
		// which can take a while.
		go handler.HandleUpdate(context.Background(), update)
		w.WriteHeader(http.StatusOK)
	}
}
