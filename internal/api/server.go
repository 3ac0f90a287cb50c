// Package api exposes the pricing model over HTTP: a welcome payload,
// a health endpoint reflecting the artifact load state, the prediction
// endpoint and the prediction history.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"getaround-pricing/internal/features"
	"getaround-pricing/internal/pricing"
	"getaround-pricing/internal/storage"
)

// PricePredictor is the model handle the handlers depend on. The
// concrete *pricing.Predictor satisfies it; tests substitute fakes.
type PricePredictor interface {
	Available() bool
	Version() string
	Health() pricing.HealthStatus
	Predict(ctx context.Context, records []features.VehicleFeatures) ([]float64, error)
}

// MetricsInterface defines the metrics hooks the handlers need.
type MetricsInterface interface {
	ValidationErrorsInc()
	RequestObserve(handler string, status int)
}

// Server serves the pricing API. It holds only immutable dependencies
// after construction, so requests can be handled concurrently without
// locking.
type Server struct {
	predictor    PricePredictor
	store        *storage.Store // nil disables the history endpoint
	metrics      MetricsInterface
	historyLimit int
	server       *http.Server
}

// Config carries the server's operational parameters.
type Config struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	HistoryLimit int
}

// NewServer wires the handlers. The store may be nil when history
// persistence is disabled.
func NewServer(cfg Config, predictor PricePredictor, store *storage.Store, metrics MetricsInterface) *Server {
	s := &Server{
		predictor:    predictor,
		store:        store,
		metrics:      metrics,
		historyLimit: cfg.HistoryLimit,
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/predict", s.handlePredict).Methods(http.MethodPost)
	r.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Handler returns the route tree, mainly for tests.
func (s *Server) Handler() http.Handler { return s.server.Handler }

// Start begins serving HTTP requests and blocks until shutdown.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("starting pricing server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
