package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/samhotchkiss/biztask/internal/store"
	"github.com/samhotchkiss/biztask/internal/workspace"
)

// PeopleHandler manages users, candidates, departments and partners.
type PeopleHandler struct {
	Registry *workspace.Registry
}

// ListUsers handles GET /api/users
func (h *PeopleHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}
	sendJSON(w, http.StatusOK, ws.Store.Users())
}

// AddEmployee handles POST /api/employees
func (h *PeopleHandler) AddEmployee(w http.ResponseWriter, r *http.Request) {
	var req store.CreateEmployeeInput
	if !decodeJSON(w, r, &req) {
		return
	}
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}

	user, err := ws.Store.AddEmployee(req)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	sendJSON(w, http.StatusCreated, user)
}

// ListCandidates handles GET /api/candidates
func (h *PeopleHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}
	sendJSON(w, http.StatusOK, ws.Store.Candidates())
}

// HireCandidate handles POST /api/candidates/:id/hire
func (h *PeopleHandler) HireCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID := strings.TrimSpace(chi.URLParam(r, "id"))
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}

	user, err := ws.Store.HireCandidate(candidateID)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	sendJSON(w, http.StatusCreated, user)
}

// ListDepartments handles GET /api/departments
func (h *PeopleHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}
	sendJSON(w, http.StatusOK, ws.Store.Departments())
}

// ListPartners handles GET /api/partners
func (h *PeopleHandler) ListPartners(w http.ResponseWriter, r *http.Request) {
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}
	sendJSON(w, http.StatusOK, ws.Store.Partners())
}
