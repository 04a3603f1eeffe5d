package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Waito3007/aRefactor/internal/catalog"
	"github.com/Waito3007/aRefactor/internal/core/failure"
	"github.com/Waito3007/aRefactor/internal/metrics"
)

// ServerConfig holds the listener configuration.
type ServerConfig struct {
	Port     int `yaml:"port"`
	GRPCPort int `yaml:"grpc_port"`
	// APIKey guards mutating routes when set. Empty means open access.
	APIKey string `yaml:"api_key"`
}

// Server provides the HTTP endpoints of the catalog.
type Server struct {
	catalog    *catalog.Service
	translator *Translator
	monitor    *Monitor
	apiKey     string
	server     *http.Server
}

// NewServer creates the catalog HTTP server.
func NewServer(
	cfg ServerConfig,
	svc *catalog.Service,
	translator *Translator,
	monitor *Monitor,
) *Server {
	s := &Server{
		catalog:    svc,
		translator: translator,
		monitor:    monitor,
		apiKey:     cfg.APIKey,
	}

	mux := http.NewServeMux()

	s.route(mux, "POST /api/v1/products", s.requireKey(s.handleCreateProduct))
	s.route(mux, "GET /api/v1/products", s.handleListProducts)
	s.route(mux, "GET /api/v1/products/{id}", s.handleGetProduct)
	s.route(mux, "PUT /api/v1/products/{id}", s.requireKey(s.handleUpdateProduct))
	s.route(mux, "DELETE /api/v1/products/{id}", s.requireKey(s.handleDeleteProduct))

	s.route(mux, "POST /api/v1/categories", s.requireKey(s.handleCreateCategory))
	s.route(mux, "GET /api/v1/categories", s.handleListCategories)
	s.route(mux, "GET /api/v1/categories/{id}", s.handleGetCategory)
	s.route(mux, "DELETE /api/v1/categories/{id}", s.requireKey(s.handleDeleteCategory))

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /health/detailed", s.handleDetailed)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: s.withRecovery(mux),
	}
	return s
}

// Handler exposes the full middleware stack for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.Handle(pattern, s.instrument(pattern, h))
}

// instrument records request count and latency per route pattern.
func (s *Server) instrument(pattern string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		metrics.HTTPRequestsTotal.
			WithLabelValues(r.Method, pattern, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPRequestDuration.
			WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
	})
}

// withRecovery is the outermost guard: a panicking handler still produces
// exactly one translated envelope.
func (s *Server) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.translator.Write(w, fmt.Errorf("panic in %s %s: %v", r.Method, r.URL.Path, rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requireKey guards a mutating route when an API key is configured.
func (s *Server) requireKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey != "" && r.Header.Get("X-API-Key") != s.apiKey {
			s.translator.Write(w, failure.Unauthorized("missing or invalid api key"))
			return
		}
		next(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := Aggregate(s.monitor.CheckHealth(r.Context()))

	w.Header().Set("Content-Type", "application/json")
	if status == StatusCritical {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	json.NewEncoder(w).Encode(map[string]string{"status": string(status)})
}

func (s *Server) handleDetailed(w http.ResponseWriter, r *http.Request) {
	report := s.monitor.CheckHealth(r.Context())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":     Aggregate(report),
		"components": report,
	})
}
