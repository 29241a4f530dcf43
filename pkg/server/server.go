package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/yurifrl/rollup/pkg/analysis"
	"github.com/yurifrl/rollup/pkg/config"
	"github.com/yurifrl/rollup/pkg/parser"
)

const maxUploadBytes = 32 << 20

type ctxKey struct{}

// Server exposes the roll-up analyzer over HTTP.
type Server struct {
	config   *config.Config
	logger   *log.Logger
	mux      *http.ServeMux
	parser   *parser.Parser
	analyzer *analysis.Analyzer
	metrics  *metrics
	view     analysis.View
	// maxUpload caps every request body.
	maxUpload int64
}

func New(cfg *config.Config, logger *log.Logger) (*Server, error) {
	view, err := cfg.View.Resolve()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve default view: %w", err)
	}
	m := newMetrics()
	maxUpload := cfg.Server.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = maxUploadBytes
	}
	s := &Server{
		config:    cfg,
		logger:    logger,
		mux:       http.NewServeMux(),
		parser:    parser.New(logger),
		metrics:   m,
		view:      view,
		maxUpload: maxUpload,
		analyzer: analysis.New(logger,
			analysis.WithCache(cfg.Cache.Size, cfg.Cache.TTL),
			analysis.WithObserver(m.observeCache),
		),
	}
	s.setupRoutes()
	return s, nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Server.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("shutdown error", "err", err)
		}
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) setupRoutes() {
	s.route("/healthz", s.handleHealth)
	s.route("/api/options", s.handleOptions)
	s.route("/api/summary", s.handleSummary)
	s.route("/api/columns", s.handleColumns)
	s.route("/api/export", s.handleExport)
	s.mux.Handle("/metrics", s.metrics.handler())
}

func (s *Server) route(pattern string, h http.HandlerFunc) {
	s.mux.HandleFunc(pattern, s.withLogging(pattern, h))
}

// --- helpers ---

// writeJSON encodes v as JSON with the given status and writes headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// respondError logs the error and returns a minimal JSON error body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	logger := s.logger.With("request_id", requestID(r.Context()), "method", r.Method, "path", r.URL.Path)
	if err != nil {
		logger.Warn("request error", "status", status, "msg", message, "err", err)
		message = fmt.Sprintf("%s: %v", message, err)
	} else {
		logger.Warn("request error", "status", status, "msg", message)
	}
	_ = s.writeJSON(w, status, map[string]string{
		"status": "error",
		"error":  message,
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging tags the request with an id, logs it, counts it and recovers
// panics.
func (s *Server) withLogging(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)
		r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, id))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		defer func() {
			if p := recover(); p != nil {
				s.logger.Error("panic recovered", "panic", p, "request_id", id, "method", r.Method, "path", r.URL.Path)
				s.respondError(rec, r, http.StatusInternalServerError, "internal server error", nil)
			}
			s.metrics.observeRequest(r.Method, route, rec.status)
			s.logger.Debug("http request", "request_id", id, "method", r.Method, "path", r.URL.Path,
				"status", rec.status, "elapsed", time.Since(start), "remote", r.RemoteAddr)
		}()
		next(rec, r)
	}
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
