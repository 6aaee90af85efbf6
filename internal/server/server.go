// Package server exposes the opt-in HTTP endpoint of the benchmark:
// Prometheus metrics, a health probe, and a small read-only compute
// API. Nothing here runs unless --metrics-addr is given.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/avezina/sumbench/internal/gauss"
	"github.com/avezina/sumbench/internal/logging"
	"github.com/avezina/sumbench/internal/orchestration"
)

const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 60 * time.Second
	shutdownGrace     = 5 * time.Second
	computeTimeout    = 30 * time.Second
)

// Server is the HTTP front of one benchmark process.
type Server struct {
	metrics  *Metrics
	logger   logging.Logger
	security SecurityConfig
	factory  gauss.CalculatorFactory
	httpSrv  *http.Server
}

// New creates a Server that listens on addr once Run is called.
func New(addr string, factory gauss.CalculatorFactory, logger logging.Logger) *Server {
	s := &Server{
		metrics:  NewMetrics(),
		logger:   logger,
		security: DefaultSecurityConfig(),
		factory:  factory,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/sum", s.handleSum)
	mux.HandleFunc("/", s.handleNotFound)

	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           SecurityMiddleware(s.security, s.metricsMiddleware(mux.ServeHTTP)),
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
	return s
}

// Metrics returns the update hooks the orchestration layer records
// sweep activity through.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Run serves until ctx is canceled, then shuts down gracefully and
// returns once in-flight requests have drained.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("metrics server listening", logging.String("addr", s.httpSrv.Addr))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// metricsMiddleware tracks request counts and the in-flight gauge
// around the wrapped handler.
func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()
		next(w, r)
	}
}

// handleMetrics serves the Prometheus scrape endpoint.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if !s.allowReadOnly(w, r) {
		return
	}
	s.metrics.WritePrometheus(w, r)
}

type healthResponse struct {
	Status string `json:"status"`
}

// handleHealth answers liveness probes.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.allowReadOnly(w, r) {
		return
	}
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

type sumResponse struct {
	N          string `json:"n"`
	Value      string `json:"value"`
	Digits     int    `json:"digits"`
	Bits       int    `json:"bits"`
	DurationNs int64  `json:"duration_ns"`
	Strategy   string `json:"strategy"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleSum computes T(n) on demand. Values of n and the computed sum
// travel as strings: both can exceed what JSON numbers represent.
func (s *Server) handleSum(w http.ResponseWriter, r *http.Request) {
	if !s.allowReadOnly(w, r) {
		return
	}

	n, err := strconv.ParseUint(r.URL.Query().Get("n"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "parameter n must be an unsigned integer")
		return
	}
	if n > s.security.MaxNValue {
		s.writeError(w, http.StatusBadRequest,
			fmt.Sprintf("n exceeds the maximum of %d", s.security.MaxNValue))
		return
	}

	key := r.URL.Query().Get("algo")
	if key == "" {
		key = gauss.KeyFormula
	}
	calc, err := s.factory.Get(key)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), computeTimeout)
	defer cancel()

	duration, value, err := orchestration.Measure(func() (*big.Int, error) {
		return calc.Calculate(ctx, nil, 0, n, gauss.Options{})
	})
	if err != nil {
		s.logger.Error("compute endpoint failed", err,
			logging.Uint64("n", n), logging.String("strategy", key))
		s.writeError(w, http.StatusInternalServerError, "calculation failed")
		return
	}
	s.metrics.ObserveStrategyDuration(key, duration)

	valueStr := value.String()
	s.writeJSON(w, http.StatusOK, sumResponse{
		N:          strconv.FormatUint(n, 10),
		Value:      valueStr,
		Digits:     len(valueStr),
		Bits:       value.BitLen(),
		DurationNs: duration.Nanoseconds(),
		Strategy:   key,
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	http.NotFound(w, r)
}

// allowReadOnly rejects every method except GET and HEAD with 405.
func (s *Server) allowReadOnly(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	s.logger.Debug("method not allowed",
		logging.String("method", r.Method), logging.String("path", r.URL.Path))
	w.Header().Set("Allow", "GET, HEAD")
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	return false
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encoding response failed", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}
