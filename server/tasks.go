package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"planassist/internal/model"
	"planassist/internal/service"
	"planassist/recurrence"
)

// taskRequest is the task create/update body. Recurrence follows the wire
// payload shape; omitting it (or null) turns recurrence off.
type taskRequest struct {
	Title      string              `json:"title"`
	Notes      string              `json:"notes"`
	DueDate    *time.Time          `json:"due_date"`
	Recurrence *recurrence.Payload `json:"recurrence"`
}

type taskResponse struct {
	ID          string              `json:"id"`
	SeriesID    string              `json:"series_id,omitempty"`
	Title       string              `json:"title"`
	Notes       string              `json:"notes,omitempty"`
	DueDate     *time.Time          `json:"due_date,omitempty"`
	Completed   bool                `json:"completed"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
	Occurrence  int                 `json:"occurrence,omitempty"`
	Recurrence  *recurrence.Payload `json:"recurrence,omitempty"`
	// Preview is the human-readable description of the recurrence rule,
	// recomputed on every read so it always matches the stored rule.
	Preview string `json:"recurrence_preview,omitempty"`
}

func toTaskResponse(t *model.Task) taskResponse {
	resp := taskResponse{
		ID:          t.UUID,
		Title:       t.Title,
		Notes:       t.Notes,
		DueDate:     t.DueDate,
		Completed:   t.IsCompleted,
		CompletedAt: t.CompletedAt,
	}
	if rule, ok := t.Rule(); ok {
		p := recurrence.EncodePayload(rule)
		resp.Recurrence = &p
		resp.Preview = recurrence.Describe(rule)
		resp.SeriesID = t.SeriesID
		resp.Occurrence = t.Occurrence
	}
	return resp
}

func (s *Server) decodeTaskRequest(w http.ResponseWriter, r *http.Request) (service.TaskInput, bool) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed JSON body"})
		return service.TaskInput{}, false
	}
	return service.TaskInput{
		Title:      req.Title,
		Notes:      req.Notes,
		DueDate:    req.DueDate,
		Recurrence: req.Recurrence,
	}, true
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	input, ok := s.decodeTaskRequest(w, r)
	if !ok {
		return
	}

	task, err := s.tasks.CreateTask(r.Context(), input)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toTaskResponse(task))
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	includeCompleted := r.URL.Query().Get("include_completed") == "true"

	tasks, err := s.tasks.ListTasks(r.Context(), includeCompleted)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := make([]taskResponse, len(tasks))
	for i := range tasks {
		resp[i] = toTaskResponse(&tasks[i])
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.GetTask(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	input, ok := s.decodeTaskRequest(w, r)
	if !ok {
		return
	}

	task, err := s.tasks.UpdateTask(r.Context(), mux.Vars(r)["id"], input)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.DeleteTask(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.CompleteTask(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toTaskResponse(task))
}
