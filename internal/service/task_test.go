package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktrack/tasktrack/internal/metrics"
	"github.com/tasktrack/tasktrack/internal/model"
)

func strPtr(s string) *string { return &s }

func TestTaskService_RoundTrip(t *testing.T) {
	rec := metrics.NewInMemory()
	svc := NewTaskService(newFakeTaskStore(), rec)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, CreateTaskInput{Title: "  T  ", Description: strPtr("D")})
	require.NoError(t, err)
	assert.Equal(t, "T", created.Title)
	assert.False(t, created.IsComplete)
	assert.Equal(t, model.PriorityMedium, created.Priority)

	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	updated, err := svc.Update(ctx, 1, created.ID, UpdateTaskInput{Title: "T", Description: strPtr("D"), IsComplete: true, Priority: "HIGH"})
	require.NoError(t, err)
	assert.True(t, updated.IsComplete)
	assert.Equal(t, model.PriorityHigh, updated.Priority)

	require.NoError(t, svc.Delete(ctx, 1, created.ID))

	list, err = svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, list)

	snap := rec.Snapshot()
	assert.Equal(t, uint64(1), snap.TasksCreated)
	assert.Equal(t, uint64(1), snap.TasksUpdated)
	assert.Equal(t, uint64(1), snap.TasksDeleted)
}

func TestTaskService_Ownership(t *testing.T) {
	svc := NewTaskService(newFakeTaskStore(), nil)
	ctx := context.Background()

	task, err := svc.Create(ctx, 1, CreateTaskInput{Title: "alice's"})
	require.NoError(t, err)

	list, err := svc.List(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.Update(ctx, 2, task.ID, UpdateTaskInput{Title: "stolen"})
	assert.ErrorIs(t, err, ErrTaskNotFound)

	err = svc.Delete(ctx, 2, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	// still intact for the owner
	list, err = svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "alice's", list[0].Title)
}

func TestTaskService_Validation(t *testing.T) {
	svc := NewTaskService(newFakeTaskStore(), nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateTaskInput
		want  error
	}{
		{"empty title", CreateTaskInput{Title: ""}, ErrTitleRequired},
		{"blank title", CreateTaskInput{Title: " \t "}, ErrTitleRequired},
		{"long title", CreateTaskInput{Title: strings.Repeat("x", model.MaxTitleLength+1)}, ErrTitleTooLong},
		{"bad priority", CreateTaskInput{Title: "ok", Priority: "urgent"}, ErrInvalidPriority},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, 1, tt.input)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	_, err := svc.Update(ctx, 1, 1, UpdateTaskInput{Title: ""})
	assert.ErrorIs(t, err, ErrTitleRequired)
}

func TestTaskService_TitleAtLimit(t *testing.T) {
	svc := NewTaskService(newFakeTaskStore(), nil)

	_, err := svc.Create(context.Background(), 1, CreateTaskInput{Title: strings.Repeat("é", model.MaxTitleLength)})
	assert.NoError(t, err)
}

func TestTaskService_UpdateKeepsPriority(t *testing.T) {
	svc := NewTaskService(newFakeTaskStore(), nil)
	ctx := context.Background()

	task, err := svc.Create(ctx, 1, CreateTaskInput{Title: "x", Priority: "low"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, 1, task.ID, UpdateTaskInput{Title: "x", IsComplete: true})
	require.NoError(t, err)
	assert.Equal(t, model.PriorityLow, updated.Priority)
}

func TestTaskService_MissingTask(t *testing.T) {
	svc := NewTaskService(newFakeTaskStore(), nil)

	err := svc.Delete(context.Background(), 1, 42)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}
