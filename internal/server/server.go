package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/CalebUK/kicker-genius-app-sub000/internal/service"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	kickerService *service.KickerService
	router        *mux.Router
	http          *http.Server
}

func New(addr string, kickerService *service.KickerService) *Server {
	s := &Server{
		kickerService: kickerService,
		router:        mux.NewRouter(),
	}
	s.routes()
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.router.Use(requestIDMiddleware, loggingMiddleware)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/rankings", s.handleRankings).Methods(http.MethodGet)
	api.HandleFunc("/leaders", s.handleLeaders).Methods(http.MethodGet)
	api.HandleFunc("/players/{name}", s.handlePlayer).Methods(http.MethodGet)
	api.HandleFunc("/status/{name}", s.handleStatus).Methods(http.MethodGet)
	api.HandleFunc("/accuracy", s.handleAccuracy).Methods(http.MethodGet)
	api.HandleFunc("/injuries", s.handleInjuries).Methods(http.MethodGet)
	api.HandleFunc("/scoring", s.handleScoring).Methods(http.MethodGet)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	slog.Info("HTTP server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("error serving http: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
