package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tasktrack/tasktrack/internal/metrics"
	"github.com/tasktrack/tasktrack/internal/model"
	"github.com/tasktrack/tasktrack/internal/repository"
)

// TaskStore persists tasks scoped to their owner.
type TaskStore interface {
	ListTasks(ctx context.Context, ownerID int64) ([]*model.Task, error)
	CreateTask(ctx context.Context, ownerID int64, fields model.TaskFields) (*model.Task, error)
	UpdateTask(ctx context.Context, ownerID, id int64, fields model.TaskFields) (*model.Task, error)
	DeleteTask(ctx context.Context, ownerID, id int64) error
}

// TaskService handles task business logic. Every call is scoped to ownerID.
type TaskService struct {
	store   TaskStore
	metrics metrics.Recorder
}

// NewTaskService creates a new TaskService.
func NewTaskService(store TaskStore, recorder metrics.Recorder) *TaskService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TaskService{store: store, metrics: recorder}
}

// CreateTaskInput defines input for creating a task.
type CreateTaskInput struct {
	Title       string
	Description *string
	Priority    string
}

// UpdateTaskInput defines input for replacing a task's fields.
// An empty Priority keeps the stored value.
type UpdateTaskInput struct {
	Title       string
	Description *string
	IsComplete  bool
	Priority    string
}

// List returns the owner's tasks, newest first.
func (s *TaskService) List(ctx context.Context, ownerID int64) ([]*model.Task, error) {
	tasks, err := s.store.ListTasks(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Create adds a new incomplete task for the owner.
func (s *TaskService) Create(ctx context.Context, ownerID int64, input CreateTaskInput) (*model.Task, error) {
	fields, err := buildFields(input.Title, input.Description, false, input.Priority)
	if err != nil {
		return nil, err
	}

	task, err := s.store.CreateTask(ctx, ownerID, fields)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.metrics.IncTaskCreated()
	return task, nil
}

// Update replaces the mutable fields of one of the owner's tasks.
func (s *TaskService) Update(ctx context.Context, ownerID, id int64, input UpdateTaskInput) (*model.Task, error) {
	fields, err := buildFields(input.Title, input.Description, input.IsComplete, input.Priority)
	if err != nil {
		return nil, err
	}

	task, err := s.store.UpdateTask(ctx, ownerID, id, fields)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}

	s.metrics.IncTaskUpdated()
	return task, nil
}

// Delete removes one of the owner's tasks.
func (s *TaskService) Delete(ctx context.Context, ownerID, id int64) error {
	if err := s.store.DeleteTask(ctx, ownerID, id); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}

	s.metrics.IncTaskDeleted()
	return nil
}

func buildFields(title string, description *string, complete bool, priority string) (model.TaskFields, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.TaskFields{}, ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > model.MaxTitleLength {
		return model.TaskFields{}, ErrTitleTooLong
	}

	fields := model.TaskFields{
		Title:       title,
		Description: description,
		IsComplete:  complete,
	}

	if priority != "" {
		p, ok := model.ParsePriority(priority)
		if !ok {
			return model.TaskFields{}, ErrInvalidPriority
		}
		fields.Priority = &p
	}

	return fields, nil
}
