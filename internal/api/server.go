package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/notewise/internal/action"
	"github.com/MikeSquared-Agency/notewise/internal/processor"
	"github.com/MikeSquared-Agency/notewise/internal/store"
)

type Pipeline interface {
	Analyze(ctx context.Context, req processor.Request) (*processor.Job, error)
	Review(ctx context.Context, actionID string, to action.Status, feedback *string) (*store.Record, error)
}

// Queue is the read side of the approval queue.
type Queue interface {
	GetAction(ctx context.Context, id string) (*store.Record, error)
	ListActions(ctx context.Context, f store.Filter) ([]store.Record, error)
}

type Server struct {
	router   *chi.Mux
	port     int
	pipeline Pipeline
	queue    Queue
}

// NewServer wires the HTTP API. queue may be nil, in which case the action
// routes answer 503.
func NewServer(port int, apiToken string, pipeline Pipeline, queue Queue) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		port:     port,
		pipeline: pipeline,
		queue:    queue,
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/status", s.status)
	router.Handle("/metrics", promhttp.Handler())

	router.Group(func(r chi.Router) {
		r.Use(BearerAuthMiddleware(apiToken))
		r.Post("/api/v1/analyze", s.analyze)
		r.Route("/api/v1/actions", func(r chi.Router) {
			r.Get("/", s.listActions)
			r.Get("/{id}", s.getAction)
			r.Post("/{id}/approve", s.review(action.StatusApproved))
			r.Post("/{id}/deny", s.review(action.StatusDenied))
			r.Post("/{id}/cancel", s.review(action.StatusCancelled))
		})
	})

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	queue := "disabled"
	if s.queue != nil {
		queue = "enabled"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "notewise",
		"status":  "ok",
		"queue":   queue,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
