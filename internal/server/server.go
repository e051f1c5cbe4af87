// Package server provides the HTTP REST API for the classifier and learning engine.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fieldworks/jobsector/internal/config"
	"github.com/fieldworks/jobsector/internal/corrections"
	"github.com/fieldworks/jobsector/internal/learning"
	"github.com/fieldworks/jobsector/internal/notify"
	"github.com/fieldworks/jobsector/internal/taxonomy"
)

// Server represents the HTTP server.
type Server struct {
	httpServer  *http.Server
	taxonomy    *taxonomy.Store
	engine      *learning.Engine
	corrections *corrections.Store
	notifier    *notify.Notifier
	jwtService  *JWTService
	thresholds  config.Thresholds
}

// Config holds server configuration.
type Config struct {
	Port        int
	AdminSecret string
	Thresholds  config.Thresholds
}

// Deps carries the shared components the server exposes over HTTP.
type Deps struct {
	Taxonomy    *taxonomy.Store
	Engine      *learning.Engine
	Corrections *corrections.Store
	Notifier    *notify.Notifier
}

// New creates a new server instance.
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Taxonomy == nil || deps.Engine == nil {
		return nil, fmt.Errorf("server requires a taxonomy store and a learning engine")
	}

	s := &Server{
		taxonomy:    deps.Taxonomy,
		engine:      deps.Engine,
		corrections: deps.Corrections,
		notifier:    deps.Notifier,
		jwtService:  NewJWTService(cfg.AdminSecret),
		thresholds:  cfg.Thresholds,
	}

	if deps.Notifier != nil {
		deps.Engine.SetApplyHook(deps.Notifier.DictionaryUpdateApplied)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.routes()),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes wires the HTTP endpoints. Mutating endpoints require an admin token.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /classify", s.handleClassify)
	mux.HandleFunc("POST /feedback", s.requireAdmin(s.handleFeedback))
	mux.HandleFunc("GET /learning/stats", s.handleStats)
	mux.HandleFunc("GET /learning/insights", s.handleInsights)
	mux.HandleFunc("GET /learning/report", s.handleReport)
	mux.HandleFunc("POST /learning/reset", s.requireAdmin(s.handleReset))
	mux.HandleFunc("GET /taxonomy", s.handleTaxonomy)
	mux.HandleFunc("GET /taxonomy/export", s.handleTaxonomyExport)
	mux.HandleFunc("GET /corrections", s.handleCorrections)
	mux.HandleFunc("GET /health", s.handleHealth)

	return mux
}

// Start begins listening for requests and blocks until an interrupt or
// termination signal arrives, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// withLogging logs each request with method, path, status and duration.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lw := &loggingResponseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(lw, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, lw.status, time.Since(start).Round(time.Millisecond))
	})
}

type loggingResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *loggingResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
