package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tasktrack/tasktrack/internal/auth"
	"github.com/tasktrack/tasktrack/internal/handler/dto"
	"github.com/tasktrack/tasktrack/internal/service"
)

// TaskHandler handles HTTP requests for the caller's tasks.
type TaskHandler struct {
	svc    *service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(svc *service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, logger: logger}
}

// List handles GET /tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := auth.MustIdentityFromContext(r.Context()).UserID

	tasks, err := h.svc.List(r.Context(), owner)
	if err != nil {
		handleServiceError(w, r, h.logger, err, "Error fetching tasks")
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner := auth.MustIdentityFromContext(r.Context()).UserID

	var req dto.CreateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := h.svc.Create(r.Context(), owner, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err, "Error creating task")
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// Update handles PUT /tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner := auth.MustIdentityFromContext(r.Context()).UserID

	id, ok := taskID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}

	var req dto.UpdateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := h.svc.Update(r.Context(), owner, id, service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		IsComplete:  req.Complete(),
		Priority:    req.Priority,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err, "Error updating task")
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := auth.MustIdentityFromContext(r.Context()).UserID

	id, ok := taskID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}

	if err := h.svc.Delete(r.Context(), owner, id); err != nil {
		handleServiceError(w, r, h.logger, err, "Error deleting task")
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Task deleted successfully"})
}

// taskID parses the {id} URL parameter. Ids that cannot name a row are
// reported as not found.
// taskID parses the {id} path segment. Ids are SERIAL (int4) columns, so
// anything outside 1..MaxInt32 cannot name a row.
func taskID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 32)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
