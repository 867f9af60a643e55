package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tasktrack/tasktrack/internal/model"
)

// Common errors for task repository operations.
var (
	ErrTaskNotFound = errors.New("task not found")
)

const taskColumns = `id, title, description, COALESCE(is_complete, FALSE), user_id, created_at, updated_at, priority`

// ListTasks returns all tasks owned by ownerID, newest first.
func (r *Repository) ListTasks(ctx context.Context, ownerID int64) ([]*model.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*model.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

// CreateTask inserts a task for ownerID and returns the stored row.
func (r *Repository) CreateTask(ctx context.Context, ownerID int64, fields model.TaskFields) (*model.Task, error) {
	query := `
		INSERT INTO tasks (title, description, is_complete, user_id, priority)
		VALUES ($1, $2, $3, $4, COALESCE($5, 'medium'))
		RETURNING ` + taskColumns

	task, err := scanTask(r.pool.QueryRow(ctx, query,
		fields.Title,
		fields.Description,
		fields.IsComplete,
		ownerID,
		priorityArg(fields.Priority),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTask overwrites a task owned by ownerID and bumps updated_at.
// Returns ErrTaskNotFound if the task does not exist or belongs to someone else.
func (r *Repository) UpdateTask(ctx context.Context, ownerID, id int64, fields model.TaskFields) (*model.Task, error) {
	query := `
		UPDATE tasks
		SET title = $1,
			description = $2,
			is_complete = $3,
			priority = COALESCE($4, priority),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $5 AND user_id = $6
		RETURNING ` + taskColumns

	task, err := scanTask(r.pool.QueryRow(ctx, query,
		fields.Title,
		fields.Description,
		fields.IsComplete,
		priorityArg(fields.Priority),
		id,
		ownerID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask removes a task owned by ownerID.
// Returns ErrTaskNotFound if the task does not exist or belongs to someone else.
func (r *Repository) DeleteTask(ctx context.Context, ownerID, id int64) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// scanTask scans a single task from a row.
func scanTask(row pgx.Row) (*model.Task, error) {
	var task model.Task
	var priority *string
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.IsComplete,
		&task.UserID,
		&task.CreatedAt,
		&task.UpdatedAt,
		&priority,
	)
	if err != nil {
		return nil, err
	}

	task.Priority = model.DefaultPriority
	if priority != nil {
		task.Priority = model.Priority(*priority)
	}

	return &task, nil
}

func priorityArg(p *model.Priority) *string {
	if p == nil {
		return nil
	}
	s := string(*p)
	return &s
}
