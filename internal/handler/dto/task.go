package dto

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    string  `json:"priority,omitempty"`
}

// UpdateTaskRequest is the body of PUT /tasks/{id}. The completion flag is
// accepted as isComplete or is_complete.
type UpdateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	IsComplete  *bool   `json:"isComplete"`
	IsCompleteS *bool   `json:"is_complete"`
	Priority    string  `json:"priority,omitempty"`
}

// Complete returns the requested completion flag, false when absent.
func (r UpdateTaskRequest) Complete() bool {
	switch {
	case r.IsComplete != nil:
		return *r.IsComplete
	case r.IsCompleteS != nil:
		return *r.IsCompleteS
	}
	return false
}
