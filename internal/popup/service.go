package popup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultAddr is where the popup service listens when no address is given.
const DefaultAddr = "127.0.0.1:8787"

// Config controls the popup service.
type Config struct {
	Addr  string
	Limit decimal.Decimal
}

// Status is served at /v1/status.
type Status struct {
	StartedAt    time.Time `json:"started_at"`
	LastServedAt time.Time `json:"last_served_at,omitempty"`
	Requests     int64     `json:"requests"`
	LastErrors   int       `json:"last_errors"`
}

// Service serves a freshly built Summary on every request.
type Service struct {
	cfg    Config
	src    Source
	logger zerolog.Logger
	router chi.Router

	mu         sync.Mutex
	startedAt  time.Time
	lastServed time.Time
	requests   int64
	lastErrors int
}

// New returns a popup service reading from src.
func New(cfg Config, src Source, logger zerolog.Logger) *Service {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	s := &Service{
		cfg:       cfg,
		src:       src,
		logger:    logger,
		startedAt: time.Now(),
	}

	r := chi.NewRouter()
	r.Use(requestLogger(&s.logger))
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/popup", s.handlePopup)
		r.Get("/status", s.handleStatus)
	})
	s.router = r
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Service) Handler() http.Handler { return s.router }

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Addr).Msg("starting popup service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info().Msg("shutdown initiated")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("graceful shutdown failed")
			return server.Close()
		}
		return nil
	case err := <-errCh:
		return fmt.Errorf("popup http server: %w", err)
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handlePopup(w http.ResponseWriter, r *http.Request) {
	sum := Build(r.Context(), s.src, s.cfg.Limit)

	s.mu.Lock()
	s.requests++
	s.lastServed = sum.FetchedAt
	s.lastErrors = len(sum.Errors)
	s.mu.Unlock()

	writeJSON(w, sum)
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	st := Status{
		StartedAt:    s.startedAt,
		LastServedAt: s.lastServed,
		Requests:     s.requests,
		LastErrors:   s.lastErrors,
	}
	s.mu.Unlock()

	writeJSON(w, st)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(v)
}
