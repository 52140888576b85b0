package server

import (
	"encoding/json"
	"net/http"
	"time"

	"planassist/recurrence"
)

// previewRequest carries a draft recurrence payload plus the anchor date
// occurrences are computed against; the anchor defaults to today when the
// task has no due date yet.
type previewRequest struct {
	Recurrence recurrence.Payload `json:"recurrence"`
	AnchorDate *time.Time         `json:"anchor_date"`
}

// handlePreview runs the form's validate-then-format cycle server side:
// field errors for an invalid draft, otherwise the preview line and the
// next few occurrence dates.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed JSON body"})
		return
	}

	anchor := time.Now().UTC().Truncate(24 * time.Hour)
	if req.AnchorDate != nil {
		anchor = *req.AnchorDate
	}

	result := s.tasks.Preview(req.Recurrence, anchor)

	status := http.StatusOK
	if len(result.Errors) > 0 {
		status = http.StatusUnprocessableEntity
	}
	s.writeJSON(w, status, result)
}
