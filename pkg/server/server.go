package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/beauteq/salon-assistant/pkg/store"
)

type Server struct {
	Router *mux.Router
	DB     *gorm.DB

	CatalogStore      store.CatalogStore
	AppointmentsStore store.AppointmentsStore
	HealthStore       store.HealthStore

	srv *http.Server
}

func NewServer(
	db *gorm.DB,
	catalog store.CatalogStore,
	appointments store.AppointmentsStore,
	health store.HealthStore,
	host string,
	port string,
) *Server {

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    host + ":" + port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router:            router,
		DB:                db,
		CatalogStore:      catalog,
		AppointmentsStore: appointments,
		HealthStore:       health,
		srv:               srv,
	}
}

func (s Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
