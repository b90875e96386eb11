package api

import (
	"net/http"

	"github.com/samhotchkiss/biztask/internal/models"
	"github.com/samhotchkiss/biztask/internal/store"
	"github.com/samhotchkiss/biztask/internal/workspace"
)

// ProjectHandler manages project endpoints.
type ProjectHandler struct {
	Registry *workspace.Registry
}

type CreateProjectResponse struct {
	Project models.Project `json:"project"`
	Channel models.Channel `json:"channel"`
}

// ListProjects handles GET /api/projects
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}
	sendJSON(w, http.StatusOK, ws.Store.Projects())
}

// CreateProject handles POST /api/projects. The project's channel is created
// alongside it.
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req store.CreateProjectInput
	if !decodeJSON(w, r, &req) {
		return
	}
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}

	project, channel, err := ws.Store.AddProject(req)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	sendJSON(w, http.StatusCreated, CreateProjectResponse{Project: project, Channel: channel})
}
