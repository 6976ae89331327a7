// Package server exposes the diagnostic paths as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/huertalab/durazno/internal/advice"
	"github.com/huertalab/durazno/internal/catalogue"
	"github.com/huertalab/durazno/internal/classifier"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

const (
	DefaultModelTimeout   = 10 * time.Second
	DefaultMaxUploadBytes = 10 << 20
	shutdownGrace         = 5 * time.Second
)

// Classifiers hands out the process-wide image classifier.
// *classifier.Loader satisfies it.
type Classifiers interface {
	Classifier() (*classifier.Classifier, error)
}

// Options configures a Server. Catalogue is required.
type Options struct {
	Catalogue      *catalogue.Catalogue
	Classifiers    Classifiers     // nil disables the image endpoints
	Advisor        *advice.Advisor // nil means static advice only
	ModelTimeout   time.Duration
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// Server is the HTTP API.
type Server struct {
	cat          *catalogue.Catalogue
	classifiers  Classifiers
	advisor      *advice.Advisor
	modelTimeout time.Duration
	maxUpload    int64
	logger       *slog.Logger
	router       *chi.Mux
}

// New builds a Server and its routes.
func New(opts Options) *Server {
	s := &Server{
		cat:          opts.Catalogue,
		classifiers:  opts.Classifiers,
		advisor:      opts.Advisor,
		modelTimeout: opts.ModelTimeout,
		maxUpload:    opts.MaxUploadBytes,
		logger:       opts.Logger,
		router:       chi.NewRouter(),
	}
	if s.modelTimeout <= 0 {
		s.modelTimeout = DefaultModelTimeout
	}
	if s.maxUpload <= 0 {
		s.maxUpload = DefaultMaxUploadBytes
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.advisor == nil {
		s.advisor = advice.NewAdvisor(nil, s.cat, s.logger)
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(s.requestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.logRequests)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/catalogue", s.handleCatalogue)
		r.Post("/diagnose", s.handleDiagnose)
		r.Post("/classify", s.handleClassify)
		r.Post("/compare", s.handleCompare)
		r.Post("/report", s.handleReport)
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type requestIDKey struct{}

// RequestID returns the request ID stored by the middleware, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", RequestID(r.Context()),
		)
	})
}
