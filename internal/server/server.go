// Package server exposes the latest ranking over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"TrendScreener/internal/observability"
)

// ErrNoAccessKey is returned when the server is built without an access key.
var ErrNoAccessKey = errors.New("server access key is not configured")

// Options configures a Server.
type Options struct {
	Addr         string
	AccessKey    string
	Location     *time.Location
	Latest       *Latest
	Metrics      *observability.Metrics
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Server serves the ranking page, its JSON form, health and metrics.
type Server struct {
	router    *mux.Router
	server    *http.Server
	accessKey []byte
	loc       *time.Location
	latest    *Latest
	metrics   *observability.Metrics
}

// New creates a Server. The ranking routes are always gated, so an empty
// access key is rejected.
func New(opts Options) (*Server, error) {
	if opts.AccessKey == "" {
		return nil, ErrNoAccessKey
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Latest == nil {
		opts.Latest = &Latest{}
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	if opts.IdleTimeout == 0 {
		opts.IdleTimeout = 60 * time.Second
	}

	s := &Server{
		router:    mux.NewRouter(),
		accessKey: []byte(opts.AccessKey),
		loc:       opts.Location,
		latest:    opts.Latest,
		metrics:   opts.Metrics,
	}
	s.setupRoutes()
	s.server = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.router,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		IdleTimeout:  opts.IdleTimeout,
	}
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.requestLoggingMiddleware)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}

	gated := s.router.NewRoute().Subrouter()
	gated.Use(s.accessMiddleware)
	gated.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	gated.HandleFunc("/api/ranking", s.handleRanking).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})
}

// Handler returns the root handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Latest returns the report holder served by s.
func (s *Server) Latest() *Latest { return s.latest }

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("http server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("shutting down http server")
	return s.server.Shutdown(ctx)
}
