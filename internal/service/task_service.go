package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"planassist/internal/model"
	"planassist/internal/repository"
	"planassist/recurrence"
)

// TaskInput represents data required to create or update a task. A nil
// Recurrence means the task does not repeat; on update it disables a
// previously recurring task, mirroring the form's "is recurring" toggle.
type TaskInput struct {
	Title      string
	Notes      string
	DueDate    *time.Time
	Recurrence *recurrence.Payload
}

// ValidationError rejects a write with field-scoped messages. Handlers map
// it to a 422 so the client can render each message next to its field.
type ValidationError struct {
	Errors []recurrence.FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "validation failed: " + e.Errors[0].Error()
	}
	return fmt.Sprintf("validation failed: %d field errors", len(e.Errors))
}

// TaskService wraps task business logic: create/update with recurrence
// validation, completion with next-occurrence materialization, and the
// validate-and-preview cycle backing the edit form.
type TaskService struct {
	repo   *repository.TaskRepository
	cache  *recurrence.Cache
	logger *slog.Logger
	now    func() time.Time
}

// Option represents a configuration option for the TaskService.
type Option func(*TaskService)

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *TaskService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewTaskService(repo *repository.TaskRepository, opts ...Option) *TaskService {
	s := &TaskService{
		repo:   repo,
		cache:  recurrence.NewCache(recurrence.DefaultCacheConfig),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases the preview cache.
func (s *TaskService) Close() {
	s.cache.Close()
}

// CreateTask validates the input and stores a new task. Recurring tasks
// need a due date: it is the anchor every occurrence is computed against.
func (s *TaskService) CreateTask(ctx context.Context, input TaskInput) (*model.Task, error) {
	rule, verr := s.checkInput(input)
	if verr != nil {
		return nil, verr
	}

	id := uuid.NewString()
	task := &model.Task{
		UUID:       id,
		SeriesID:   id,
		Title:      input.Title,
		Notes:      input.Notes,
		DueDate:    input.DueDate,
		Occurrence: 1,
	}
	if input.Recurrence != nil {
		task.SetRule(rule)
		task.AnchorDate = input.DueDate
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("task created",
		"task_id", task.UUID,
		"recurring", task.IsRecurring)
	return task, nil
}

// UpdateTask applies new field values to an existing task. Toggling
// recurrence off clears the stored rule; toggling it on re-anchors the
// series at the task's due date.
func (s *TaskService) UpdateTask(ctx context.Context, id string, input TaskInput) (*model.Task, error) {
	rule, verr := s.checkInput(input)
	if verr != nil {
		return nil, verr
	}

	task, err := s.repo.FindByUUID(ctx, id)
	if err != nil {
		return nil, err
	}

	task.Title = input.Title
	task.Notes = input.Notes
	task.DueDate = input.DueDate

	if input.Recurrence == nil {
		task.ClearRule()
		task.AnchorDate = nil
	} else {
		wasRecurring := task.IsRecurring
		task.SetRule(rule)
		if !wasRecurring || task.AnchorDate == nil {
			task.AnchorDate = input.DueDate
		}
	}

	if err := s.repo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, id string) (*model.Task, error) {
	return s.repo.FindByUUID(ctx, id)
}

func (s *TaskService) ListTasks(ctx context.Context, includeCompleted bool) ([]model.Task, error) {
	return s.repo.List(ctx, includeCompleted)
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// CompleteTask marks a task done. For recurring tasks it computes the next
// occurrence and either materializes it right away (lead time reached or
// zero) or leaves it for the sweep. An exhausted series completes like a
// one-off task.
func (s *TaskService) CompleteTask(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.repo.FindByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.IsCompleted {
		return task, nil
	}

	completedAt := s.now()
	if err := s.repo.MarkCompleted(ctx, task, completedAt); err != nil {
		return nil, err
	}

	if !task.IsRecurring {
		return task, nil
	}

	rule, _ := task.Rule()
	anchor := anchorOf(task, completedAt)
	after := completedAt
	if task.DueDate != nil {
		after = *task.DueDate
	}

	next, ok := recurrence.NextOccurrence(rule, anchor, after)
	if !ok {
		s.logger.Info("recurring series exhausted",
			"task_id", task.UUID,
			"series_id", task.SeriesID,
			"occurrence", task.Occurrence)
		return task, nil
	}

	task.NextDue = &next
	if err := s.repo.Save(ctx, task); err != nil {
		return nil, err
	}

	if s.leadWindowOpen(task, next, completedAt) {
		if _, err := s.materializeNext(ctx, task, rule, next); err != nil {
			return nil, err
		}
	}
	return task, nil
}

// MaterializeDue creates successor tasks for every completed occurrence
// whose lead window has opened. It is run periodically by the scheduler and
// returns how many tasks were created.
func (s *TaskService) MaterializeDue(ctx context.Context) (int, error) {
	pending, err := s.repo.ListPendingMaterialization(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	created := 0
	for i := range pending {
		task := &pending[i]
		if task.NextDue == nil || !s.leadWindowOpen(task, *task.NextDue, now) {
			continue
		}

		rule, ok := task.Rule()
		if !ok {
			continue
		}
		if _, err := s.materializeNext(ctx, task, rule, *task.NextDue); err != nil {
			s.logger.Error("materialization failed",
				"error", err,
				"task_id", task.UUID)
			continue
		}
		created++
	}

	if created > 0 {
		s.logger.Info("materialization sweep", "created", created)
	}
	return created, nil
}

// PreviewResult is the backend twin of the form's validate-then-format
// cycle: field errors when the draft is invalid, otherwise the preview line
// and the next few occurrence dates.
type PreviewResult struct {
	Errors  []recurrence.FieldError `json:"errors,omitempty"`
	Preview string                  `json:"preview,omitempty"`
	Next    []time.Time             `json:"next_occurrences,omitempty"`
}

// previewHorizon bounds how far ahead the preview expands.
const (
	previewHorizonYears = 2
	previewCount        = 6
)

// Preview validates a draft recurrence payload against the given anchor
// date and, when clean, renders the description plus upcoming dates.
func (s *TaskService) Preview(p recurrence.Payload, anchor time.Time) PreviewResult {
	rule, err := recurrence.DecodePayload(p)
	if err != nil {
		var fieldErr recurrence.FieldError
		if errors.As(err, &fieldErr) {
			return PreviewResult{Errors: []recurrence.FieldError{fieldErr}}
		}
		return PreviewResult{Errors: []recurrence.FieldError{{Field: "recurrence", Message: err.Error()}}}
	}

	if errs := recurrence.Validate(rule); len(errs) > 0 {
		return PreviewResult{Errors: errs}
	}

	result := PreviewResult{Preview: recurrence.Describe(rule)}

	from := anchor
	to := anchor.AddDate(previewHorizonYears, 0, 0)
	if occs, ok := s.cache.Get(rule, anchor, from, to, previewCount); ok {
		result.Next = occs
		return result
	}

	occs, err := recurrence.Occurrences(rule, anchor, from, to, previewCount)
	if err != nil {
		// Custom rules preview fine, they just have no expandable dates.
		return result
	}
	s.cache.Set(rule, anchor, from, to, previewCount, occs)
	result.Next = occs
	return result
}

// checkInput validates the task fields and the recurrence payload in one
// pass, so the client gets every problem at once.
func (s *TaskService) checkInput(input TaskInput) (recurrence.Rule, *ValidationError) {
	var errs []recurrence.FieldError
	if input.Title == "" {
		errs = append(errs, recurrence.FieldError{Field: "title", Message: "title is required"})
	}

	var rule recurrence.Rule
	if input.Recurrence != nil {
		if input.DueDate == nil {
			errs = append(errs, recurrence.FieldError{Field: "dueDate", Message: "recurring tasks need a due date"})
		}

		decoded, err := recurrence.DecodePayload(*input.Recurrence)
		if err != nil {
			var fieldErr recurrence.FieldError
			if errors.As(err, &fieldErr) {
				errs = append(errs, fieldErr)
			} else {
				errs = append(errs, recurrence.FieldError{Field: "recurrence", Message: err.Error()})
			}
		} else {
			rule = decoded
			errs = append(errs, recurrence.Validate(rule)...)
		}
	}

	if len(errs) > 0 {
		return rule, &ValidationError{Errors: errs}
	}
	return rule, nil
}

// leadWindowOpen reports whether the successor due at nextDue should exist
// at the given instant. Lead time zero opens the window immediately on
// completion.
func (s *TaskService) leadWindowOpen(task *model.Task, nextDue, at time.Time) bool {
	if task.RecurLeadDays <= 0 {
		return true
	}
	opens := nextDue.AddDate(0, 0, -task.RecurLeadDays)
	return !at.Before(opens)
}

// materializeNext creates the successor occurrence row and flags the
// predecessor so the sweep does not create it twice.
func (s *TaskService) materializeNext(ctx context.Context, prev *model.Task, rule recurrence.Rule, nextDue time.Time) (*model.Task, error) {
	next := &model.Task{
		UUID:       uuid.NewString(),
		SeriesID:   prev.SeriesID,
		Title:      prev.Title,
		Notes:      prev.Notes,
		DueDate:    &nextDue,
		AnchorDate: prev.AnchorDate,
		Occurrence: prev.Occurrence + 1,
	}
	next.SetRule(rule)

	if err := s.repo.Create(ctx, next); err != nil {
		return nil, err
	}

	prev.NextCreated = true
	if err := s.repo.Save(ctx, prev); err != nil {
		return nil, err
	}

	s.logger.Info("occurrence materialized",
		"series_id", prev.SeriesID,
		"occurrence", next.Occurrence,
		"due", nextDue)
	return next, nil
}

func anchorOf(task *model.Task, fallback time.Time) time.Time {
	if task.AnchorDate != nil {
		return *task.AnchorDate
	}
	if task.DueDate != nil {
		return *task.DueDate
	}
	return fallback
}
