package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/samhotchkiss/biztask/internal/models"
	"github.com/samhotchkiss/biztask/internal/store"
	"github.com/samhotchkiss/biztask/internal/workspace"
)

// TaskHandler manages task endpoints.
type TaskHandler struct {
	Registry *workspace.Registry
}

type TasksResponse struct {
	Status    models.TaskStatus `json:"status,omitempty"`
	ProjectID string            `json:"project_id,omitempty"`
	Tasks     []models.Task     `json:"tasks"`
}

type TaskStatusRequest struct {
	Status models.TaskStatus `json:"status"`
}

// ListTasks handles GET /api/tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	status := models.TaskStatus(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status"))))
	if status != "" && !models.IsValidTaskStatus(status) {
		sendJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid status"})
		return
	}
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}

	filter := store.TaskFilter{
		Status:     status,
		ProjectID:  strings.TrimSpace(r.URL.Query().Get("project_id")),
		AssigneeID: strings.TrimSpace(r.URL.Query().Get("assignee_id")),
	}
	sendJSON(w, http.StatusOK, TasksResponse{
		Status:    filter.Status,
		ProjectID: filter.ProjectID,
		Tasks:     ws.Store.Tasks(filter),
	})
}

// GetTask handles GET /api/tasks/:id
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}
	task, err := ws.Store.Task(strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		handleStoreError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, task)
}

// CreateTask handles POST /api/tasks. A missing creator defaults to the
// current user.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req store.CreateTaskInput
	if !decodeJSON(w, r, &req) {
		return
	}
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}

	if strings.TrimSpace(req.CreatorID) == "" {
		if user, loggedIn := ws.Store.CurrentUser(); loggedIn {
			req.CreatorID = user.ID
		}
	}
	task, err := ws.Store.AddTask(req)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	sendJSON(w, http.StatusCreated, task)
}

// UpdateTaskStatus handles PATCH /api/tasks/:id/status
func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID := strings.TrimSpace(chi.URLParam(r, "id"))
	var req TaskStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}

	task, err := ws.Store.UpdateTaskStatus(taskID, req.Status)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, task)
}
