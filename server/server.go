// Package server exposes the task backend over REST: task CRUD with
// recurrence payloads, the recurrence preview endpoint backing the edit
// form, and iCalendar export.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"planassist/internal/repository"
	"planassist/internal/service"
)

// Server routes API requests to the task service.
type Server struct {
	router *mux.Router
	tasks  *service.TaskService
	logger *slog.Logger
}

// Option represents a configuration option for the Server.
type Option func(*Server)

// WithLogger sets the logger for the server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Server with its routes registered.
func New(tasks *service.TaskService, opts ...Option) *Server {
	s := &Server{
		router: mux.NewRouter(),
		tasks:  tasks,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router.Use(s.logRequests)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/tasks", s.handleCreateTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks", s.handleListTasks).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", s.handleGetTask).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", s.handleUpdateTask).Methods(http.MethodPut)
	api.HandleFunc("/tasks/{id}", s.handleDeleteTask).Methods(http.MethodDelete)
	api.HandleFunc("/tasks/{id}/complete", s.handleCompleteTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id}/ics", s.handleExportICS).Methods(http.MethodGet)
	api.HandleFunc("/recurrence/preview", s.handlePreview).Methods(http.MethodPost)

	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Info("received request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

// writeError translates service errors into status codes: validation
// failures become 422 with the field errors as the body, missing tasks 404,
// anything else 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		s.writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": verr.Errors})
	case errors.Is(err, repository.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "task not found"})
	default:
		s.logger.Error("request failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
