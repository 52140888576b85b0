package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"planassist/internal/model"
)

// ErrNotFound is returned when a task lookup matches nothing.
var ErrNotFound = errors.New("task not found")

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByUUID(ctx context.Context, uuid string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &task, nil
}

// List returns tasks, open ones first by due date. Completed occurrences of
// recurring chains are included only when includeCompleted is set.
func (r *TaskRepository) List(ctx context.Context, includeCompleted bool) ([]model.Task, error) {
	q := r.db.WithContext(ctx)
	if !includeCompleted {
		q = q.Where("is_completed = ?", false)
	}
	var tasks []model.Task
	if err := q.Order("is_completed, due_date IS NULL, due_date, created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, uuid string) error {
	res := r.db.WithContext(ctx).Where("uuid = ?", uuid).Delete(&model.Task{})
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkCompleted stores the completion time on a task.
func (r *TaskRepository) MarkCompleted(ctx context.Context, task *model.Task, completedAt time.Time) error {
	task.IsCompleted = true
	task.CompletedAt = &completedAt
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	return nil
}

// ListPendingMaterialization returns completed recurring occurrences whose
// successor has been computed but not yet created. The per-row lead window
// check happens in the service; SQLite date arithmetic is not worth it for
// the handful of candidate rows.
func (r *TaskRepository) ListPendingMaterialization(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("is_recurring = ? AND is_completed = ? AND next_created = ? AND next_due IS NOT NULL",
			true, true, false).
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list pending materialization: %w", err)
	}
	return tasks, nil
}
