// Package handler provides HTTP request handlers for TaskHub.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/arvel/taskhub-go/internal/core/domain"
	"github.com/arvel/taskhub-go/internal/core/service"
)

// identityHandler is a task handler that receives the authenticated user
// as a parameter rather than re-reading it from context.
type identityHandler func(w http.ResponseWriter, r *http.Request, user *domain.User)

// withIdentity extracts the authenticated user once and passes it to the
// wrapped handler. Requests that somehow reach a task handler without
// passing the auth middleware are rejected.
func (h *Handler) withIdentity(next identityHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil {
			h.writeError(w, http.StatusUnauthorized,
				domain.ErrUnauthenticated.Code, domain.ErrUnauthenticated.Message)
			return
		}
		next(w, r, user)
	}
}

// taskID parses the {id} path segment. Non-numeric IDs are a bad request.
func (h *Handler) taskID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest,
			domain.ErrInvalidArgument.Code, "task id must be a positive integer")
		return 0, false
	}
	return id, true
}

// handleCreateTask handles POST /tasks/.
func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request, user *domain.User) {
	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrBadRequest.Code, "invalid request body")
		return
	}

	task, err := h.tasks.Create(r.Context(), &service.CreateTaskRequest{
		OwnerID:     user.ID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.TasksCreated.Inc()
	}

	h.writeJSON(w, http.StatusOK, taskToResponse(task))
}

// handleListTasks handles GET /tasks/.
func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request, user *domain.User) {
	tasks, err := h.tasks.List(r.Context(), user.ID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	// An owner with no tasks gets [], not null.
	items := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, taskToResponse(task))
	}

	h.writeJSON(w, http.StatusOK, items)
}

// handleGetTask handles GET /tasks/{id}.
func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request, user *domain.User) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.Get(r.Context(), user.ID, id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, taskToResponse(task))
}

// handleUpdateTask handles PUT /tasks/{id}.
//
// Absent body fields leave stored values untouched; an empty body is a
// valid update that only refreshes the modification timestamp.
func (h *Handler) handleUpdateTask(w http.ResponseWriter, r *http.Request, user *domain.User) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, http.StatusBadRequest, domain.ErrBadRequest.Code, "invalid request body")
		return
	}

	patch := domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		patch.Status = &status
	}

	task, err := h.tasks.Update(r.Context(), &service.UpdateTaskRequest{
		OwnerID: user.ID,
		TaskID:  id,
		Patch:   patch,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, taskToResponse(task))
}

// handleDeleteTask handles DELETE /tasks/{id}.
func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request, user *domain.User) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	if err := h.tasks.Delete(r.Context(), user.ID, id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.TasksDeleted.Inc()
	}

	h.writeJSON(w, http.StatusOK, MessageResponse{Msg: "Task deleted successfully"})
}

// taskToResponse converts a domain task to its API representation.
func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
	}
}
