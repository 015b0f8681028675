package endpoints

import (
	"net/http"

	"github.com/beauteq/salon-assistant/pkg/server"
	"github.com/beauteq/salon-assistant/pkg/store"
)

// HealthResponse represents the response from /healthz
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// RegisterHealthEndpoints registers the health check endpoint
func RegisterHealthEndpoints(s *server.Server) {
	// GET /healthz - liveness and database connectivity (no auth required)
	s.Router.HandleFunc("/healthz", handleHealth(s.HealthStore)).Methods("GET")
}

func handleHealth(health store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := health.CheckConnectivity(); err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status:   "error",
				Database: err.Error(),
			})
			return
		}
		respondWithJSON(w, http.StatusOK, HealthResponse{Status: "ok", Database: "ok"})
	}
}
