package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/mountainshoot/internal/api/handler"
	"github.com/mcoot/mountainshoot/internal/api/middleware"
	"github.com/mcoot/mountainshoot/internal/dependencies/clock"
	"github.com/mcoot/mountainshoot/internal/model"
	"github.com/mcoot/mountainshoot/internal/services/game"
	"github.com/mcoot/mountainshoot/internal/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	Controller      game.ControllerInterface
	HubManager      *sse.HubManager
	Clock           clock.Clock
	DefaultSettings model.Settings
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	sessionHandler := handler.NewSessionHandler(
		cfg.Controller,
		cfg.HubManager,
		cfg.Clock,
		cfg.DefaultSettings,
		cfg.Logger,
	)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.RequestID)
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.HandleFunc("", sessionHandler.Create).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}", sessionHandler.Get).Methods(http.MethodGet)
	sessions.HandleFunc("/{id}", sessionHandler.Delete).Methods(http.MethodDelete)
	sessions.HandleFunc("/{id}/events", sessionHandler.Dispatch).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/shots", sessionHandler.Shoot).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/stream", sessionHandler.Stream).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
