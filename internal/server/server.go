package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-scorer/internal/config"
	"github.com/jonathan/resume-scorer/internal/db"
	"github.com/jonathan/resume-scorer/internal/metrics"
	"github.com/jonathan/resume-scorer/internal/pipeline"
	"github.com/jonathan/resume-scorer/internal/server/ratelimit"
	"github.com/jonathan/resume-scorer/internal/types"
)

// ReportStore persists score reports. *db.DB implements it.
type ReportStore interface {
	SaveReport(ctx context.Context, report *types.ScoreReport) error
	GetReport(ctx context.Context, id uuid.UUID) (*types.ScoreReport, error)
	ListReports(ctx context.Context, filters db.ReportFilters) ([]types.ScoreReport, error)
	DeleteReport(ctx context.Context, id uuid.UUID) error
	Close()
}

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	pipeline       *pipeline.Pipeline
	store          ReportStore
	metrics        *metrics.Recorder
	rateLimiter    *ratelimit.Limiter
	maxUploadBytes int64
}

// Config holds server configuration
type Config struct {
	Port           int
	DatabaseURL    string
	MaxUploadBytes int64
}

// New creates a new server instance. Report history is enabled when DatabaseURL is set.
func New(ctx context.Context, cfg Config, p *pipeline.Pipeline, recorder *metrics.Recorder) (*Server, error) {
	var store ReportStore
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, err
		}
		store = database
	} else {
		log.Printf("[server] DATABASE_URL not set, report history disabled")
	}

	return newServer(cfg, p, store, recorder, ratelimit.NewLimiter(ratelimit.LoadConfig())), nil
}

// newServer wires routes and middleware around already-constructed dependencies.
func newServer(cfg Config, p *pipeline.Pipeline, store ReportStore, recorder *metrics.Recorder, limiter *ratelimit.Limiter) *Server {
	if recorder == nil {
		recorder = metrics.NewRecorder()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = config.DefaultMaxUploadBytes
	}

	s := &Server{
		pipeline:       p,
		store:          store,
		metrics:        recorder,
		rateLimiter:    limiter,
		maxUploadBytes: cfg.MaxUploadBytes,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /score", s.handleScoreUpload)
	mux.HandleFunc("POST /score/text", s.handleScoreText)
	mux.HandleFunc("POST /score/stream", s.handleScoreStream)
	mux.HandleFunc("GET /keywords", s.handleKeywords)

	// Report history
	mux.HandleFunc("GET /reports", s.handleListReports)
	mux.HandleFunc("GET /reports/{id}", s.handleGetReport)
	mux.HandleFunc("DELETE /reports/{id}", s.handleDeleteReport)

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", recorder.Handler())

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withMetrics(s.withCORS(mux)))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		s.close()
		return fmt.Errorf("server error: %w", err)
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.close()
	log.Println("Server stopped")
	return nil
}

func (s *Server) close() {
	// Stop rate limiter cleanup goroutine
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.store != nil {
		s.store.Close()
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.rateLimiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// withMetrics records request counts and latency by matched route.
func (s *Server) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		// ServeMux fills in the pattern on the request it dispatched.
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveHTTP(route, r.Method, rec.status, time.Since(start))
	})
}

// statusRecorder captures the response status while still supporting streaming.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	storage := "disabled"
	if s.store != nil {
		storage = "enabled"
		if pinger, ok := s.store.(interface{ Ping(context.Context) error }); ok {
			if err := pinger.Ping(r.Context()); err != nil {
				storage = "unavailable"
			}
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok", "storage": storage})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// errorFromErr writes err with the status HTTPStatus picks for it.
func (s *Server) errorFromErr(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[server] Request failed: %v", err)
	}
	s.errorResponse(w, status, err.Error())
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For is not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		retryAfter := max(int(info.RetryAfter.Seconds()), 1)
		response["retry_after"] = retryAfter
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
