package client

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/tasktrack/tasktrack/internal/model"
)

// ErrNoSuchTask is returned for ids not present in the current list.
var ErrNoSuchTask = errors.New("no such task in the current list")

// ErrEmptyTitle is returned when creating a task from a blank draft.
var ErrEmptyTitle = errors.New("title is required")

// Draft is the task being composed before it is submitted.
type Draft struct {
	Title       string
	Description string
	Priority    model.Priority
}

// TaskView holds the task list shown to the user. The list only changes
// in response to successful server calls.
type TaskView struct {
	api *Client

	mu    sync.Mutex
	tasks []model.Task
	draft Draft
}

// NewTaskView creates an empty view.
func NewTaskView(api *Client) *TaskView {
	return &TaskView{api: api}
}

// Tasks returns a copy of the current list.
func (v *TaskView) Tasks() []model.Task {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]model.Task, len(v.tasks))
	copy(out, v.tasks)
	return out
}

// Draft returns the current draft.
func (v *TaskView) Draft() Draft {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.draft
}

// SetDraft replaces the draft.
func (v *TaskView) SetDraft(d Draft) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.draft = d
}

// Refresh reloads the list from the server.
func (v *TaskView) Refresh(ctx context.Context) error {
	tasks, err := v.api.ListTasks(ctx)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.tasks = tasks
	v.mu.Unlock()
	return nil
}

// Create submits the draft, prepends the stored task and clears the draft.
// On failure the draft is kept.
func (v *TaskView) Create(ctx context.Context) (*model.Task, error) {
	d := v.Draft()
	if strings.TrimSpace(d.Title) == "" {
		return nil, ErrEmptyTitle
	}

	in := NewTaskInput{Title: d.Title, Priority: d.Priority}
	if d.Description != "" {
		desc := d.Description
		in.Description = &desc
	}

	task, err := v.api.CreateTask(ctx, in)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	v.tasks = append([]model.Task{*task}, v.tasks...)
	v.draft = Draft{}
	v.mu.Unlock()
	return task, nil
}

// Toggle flips the completion flag of a task.
func (v *TaskView) Toggle(ctx context.Context, id int64) (*model.Task, error) {
	current, err := v.find(id)
	if err != nil {
		return nil, err
	}
	return v.update(ctx, id, TaskUpdate{
		Title:       current.Title,
		Description: current.Description,
		IsComplete:  !current.IsComplete,
	})
}

// Edit changes a task's title and description, keeping its completion flag.
func (v *TaskView) Edit(ctx context.Context, id int64, title string, description *string) (*model.Task, error) {
	current, err := v.find(id)
	if err != nil {
		return nil, err
	}
	return v.update(ctx, id, TaskUpdate{
		Title:       title,
		Description: description,
		IsComplete:  current.IsComplete,
	})
}

// Delete removes a task once the server confirms.
func (v *TaskView) Delete(ctx context.Context, id int64) error {
	if _, err := v.find(id); err != nil {
		return err
	}
	if err := v.api.DeleteTask(ctx, id); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.tasks {
		if v.tasks[i].ID == id {
			v.tasks = append(v.tasks[:i], v.tasks[i+1:]...)
			break
		}
	}
	return nil
}

// Reset forgets all local state, used after logout.
func (v *TaskView) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tasks = nil
	v.draft = Draft{}
}

func (v *TaskView) update(ctx context.Context, id int64, in TaskUpdate) (*model.Task, error) {
	task, err := v.api.UpdateTask(ctx, id, in)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.tasks {
		if v.tasks[i].ID == id {
			v.tasks[i] = *task
			break
		}
	}
	return task, nil
}

func (v *TaskView) find(id int64) (model.Task, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, t := range v.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Task{}, ErrNoSuchTask
}
