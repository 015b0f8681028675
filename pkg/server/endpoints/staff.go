package endpoints

import (
	"net/http"
	"strconv"

	"github.com/beauteq/salon-assistant/pkg/server"
	"github.com/beauteq/salon-assistant/pkg/server/middleware"
	"github.com/beauteq/salon-assistant/pkg/store"
)

// MasterResponse represents a master in the staff API
type MasterResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
}

// ServiceResponse represents a service in the staff API
type ServiceResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	DurationMinutes int    `json:"duration_minutes"`
	PriceKopecks    int64  `json:"price_kopecks"`
	PriceRub        string `json:"price_rub"`
}

// AppointmentResponse represents an appointment in the staff API
type AppointmentResponse struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"user_id"`
	MasterName    string `json:"master_name"`
	ServiceName   string `json:"service_name"`
	AppointmentAt string `json:"appointment_at"`
	Status        string `json:"status"`
	PriceKopecks  int64  `json:"price_kopecks"`
}

// RegisterStaffEndpoints registers the token-protected staff API
func RegisterStaffEndpoints(s *server.Server, auth *middleware.StaffAuthenticator) {
	api := s.Router.PathPrefix("/api").Subrouter()
	api.Use(auth.Middleware)

	// GET /api/masters - List masters, optionally filtered by specialization
	api.HandleFunc("/masters", handleListMasters(s.CatalogStore)).Methods("GET")

	// GET /api/services - List services, optionally filtered by category
	api.HandleFunc("/services", handleListServices(s.CatalogStore)).Methods("GET")

	// GET /api/appointments?user_id= - List a user's appointments
	api.HandleFunc("/appointments", handleListAppointments(s.AppointmentsStore)).Methods("GET")
}

func handleListMasters(catalog store.CatalogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		masters, err := catalog.ListMasters(r.URL.Query().Get("specialization"))
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		response := make([]MasterResponse, 0, len(masters))
		for _, m := range masters {
			response = append(response, MasterResponse{
				ID:             m.ID,
				Name:           m.Name,
				Specialization: m.Specialization,
			})
		}
		respondWithJSON(w, http.StatusOK, response)
	}
}

func handleListServices(catalog store.CatalogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services, err := catalog.ListServices(r.URL.Query().Get("category"))
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		response := make([]ServiceResponse, 0, len(services))
		for _, svc := range services {
			response = append(response, ServiceResponse{
				ID:              svc.ID,
				Name:            svc.Name,
				Category:        svc.Category,
				DurationMinutes: svc.DurationMinutes,
				PriceKopecks:    svc.PriceKopecks,
				PriceRub:        store.FormatKopecks(svc.PriceKopecks),
			})
		}
		respondWithJSON(w, http.StatusOK, response)
	}
}

func handleListAppointments(appointments store.AppointmentsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.URL.Query().Get("user_id")
		if userIDStr == "" {
			respondWithError(w, http.StatusBadRequest, "user_id is required")
			return
		}
		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "user_id must be an integer")
			return
		}

		list, err := appointments.ListUserAppointments(userID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		response := make([]AppointmentResponse, 0, len(list))
		for _, a := range list {
			response = append(response, AppointmentResponse{
				ID:            a.ID,
				UserID:        a.UserID,
				MasterName:    a.MasterName,
				ServiceName:   a.ServiceName,
				AppointmentAt: a.AppointmentAt.Format("2006-01-02 15:04"),
				Status:        a.Status.String(),
				PriceKopecks:  a.PriceKopecks,
			})
		}
		respondWithJSON(w, http.StatusOK, response)
	}
}
