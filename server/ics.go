package server

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/emersion/go-ical"
	"github.com/gorilla/mux"

	"planassist/internal/model"
	"planassist/recurrence"
)

const mimeTypeCalendar = "text/calendar; charset=utf-8"

// handleExportICS renders a task as an iCalendar VTODO. Recurring tasks
// carry their rule as an RRULE so external calendar apps expand the series
// themselves; custom rules export without one.
func (s *Server) handleExportICS(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.GetTask(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}

	cal, err := buildCalendar(task)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", mimeTypeCalendar)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func buildCalendar(task *model.Task) (*ical.Calendar, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, "-//planassist//task export//EN")
	cal.Props.SetText(ical.PropVersion, "2.0")

	todo := &ical.Component{Name: ical.CompToDo, Props: make(ical.Props)}
	todo.Props.SetText(ical.PropUID, task.UUID)
	todo.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	todo.Props.SetText(ical.PropSummary, task.Title)
	if task.Notes != "" {
		todo.Props.SetText(ical.PropDescription, task.Notes)
	}
	if task.DueDate != nil {
		todo.Props.SetDateTime(ical.PropDue, task.DueDate.UTC())
	}
	if task.IsCompleted {
		todo.Props.SetText(ical.PropStatus, "COMPLETED")
		if task.CompletedAt != nil {
			todo.Props.SetDateTime(ical.PropCompleted, task.CompletedAt.UTC())
		}
	}

	if rule, ok := task.Rule(); ok && task.AnchorDate != nil {
		if err := setExportRecurrence(todo, rule, *task.AnchorDate); err != nil {
			return nil, err
		}
	}

	cal.Children = append(cal.Children, todo)
	return cal, nil
}

// setExportRecurrence writes the RRULE, treating an unmappable custom rule
// as "no RRULE" rather than an export failure.
func setExportRecurrence(todo *ical.Component, rule recurrence.Rule, anchor time.Time) error {
	err := recurrence.SetComponentRecurrence(todo, rule, anchor)
	if errors.Is(err, recurrence.ErrNoRRuleMapping) {
		return nil
	}
	return err
}
