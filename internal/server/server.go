// Package server provides the HTTP review-action surface consumed by
// presentation layers: capture submission, review queue inspection, and
// review actions.
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

	"github.com/jonathan/thought-capture/internal/capture"
	"github.com/jonathan/thought-capture/internal/review"
	"github.com/jonathan/thought-capture/internal/tracker"
)

// Server represents the HTTP server.
type Server struct {
	httpServer   *http.Server
	store        *tracker.Store
	queue        *review.Queue
	orchestrator *capture.Orchestrator
}

// Config holds server configuration.
type Config struct {
	Port int
}

// New creates a new server instance over an initialized store, queue, and
// orchestrator.
func New(cfg Config, store *tracker.Store, queue *review.Queue, orchestrator *capture.Orchestrator) *Server {
	s := &Server{
		store:        store,
		queue:        queue,
		orchestrator: orchestrator,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /capture", s.handleCapture)
	mux.HandleFunc("GET /review", s.handleListReview)
	mux.HandleFunc("GET /review/status", s.handleReviewStatus)
	mux.HandleFunc("POST /review/{id}/action", s.handleReviewAction)
	mux.HandleFunc("POST /review/batch", s.handleReviewBatch)
	mux.HandleFunc("POST /review/clear-confirmed", s.handleClearConfirmed)
	mux.HandleFunc("GET /trackers", s.handleListTrackers)
	mux.HandleFunc("POST /complete", s.handleComplete)
	mux.HandleFunc("POST /refresh", s.handleRefresh)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler exposes the route mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
