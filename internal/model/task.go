package model

import (
	"strings"
	"time"
)

// Priority is the urgency label of a task.
type Priority string

// Priority values.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority matches the column default of tasks.priority.
const DefaultPriority = PriorityMedium

// MaxTitleLength mirrors the VARCHAR(255) title column.
const MaxTitleLength = 255

// IsValid returns true if the priority is one of the known labels.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority normalizes a client-supplied label.
// The empty string yields false so callers can apply their own default.
func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", false
	}
	return p, true
}

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	IsComplete  bool      `json:"is_complete"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Priority    Priority  `json:"priority"`
}

// TaskFields holds the mutable columns of a task.
// A nil Priority keeps the stored value (or the column default on insert).
type TaskFields struct {
	Title       string
	Description *string
	IsComplete  bool
	Priority    *Priority
}
