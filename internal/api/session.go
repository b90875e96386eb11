package api

import (
	"net/http"

	"github.com/samhotchkiss/biztask/internal/models"
	"github.com/samhotchkiss/biztask/internal/store"
	"github.com/samhotchkiss/biztask/internal/workspace"
)

// SessionHandler manages session, theme and menu endpoints.
type SessionHandler struct {
	Registry *workspace.Registry
}

type LoginRequest struct {
	Role  models.Role `json:"role"`
	Email string      `json:"email"`
}

type ThemeResponse struct {
	Theme models.Theme `json:"theme"`
}

type MenuResponse struct {
	Role  models.Role      `json:"role"`
	Items []store.MenuItem `json:"items"`
}

// Get handles GET /api/session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}
	sendJSON(w, http.StatusOK, ws.Store.Session())
}

// Login handles POST /api/session/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}

	if _, err := ws.Store.Login(req.Role, req.Email); err != nil {
		handleStoreError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, ws.Store.Session())
}

// Logout handles POST /api/session/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}
	ws.Store.Logout()
	sendJSON(w, http.StatusOK, ws.Store.Session())
}

// ToggleTheme handles POST /api/session/theme/toggle
func (h *SessionHandler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}
	sendJSON(w, http.StatusOK, ThemeResponse{Theme: ws.Store.ToggleTheme()})
}

// CompleteOnboarding handles POST /api/session/onboarding/complete
func (h *SessionHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}
	ws.Store.CompleteOnboarding()
	sendJSON(w, http.StatusOK, ws.Store.Session())
}

// Menu handles GET /api/menu. The menu only shapes navigation; it grants nothing.
func (h *SessionHandler) Menu(w http.ResponseWriter, r *http.Request) {
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}
	user, loggedIn := ws.Store.CurrentUser()
	if !loggedIn {
		handleStoreError(w, store.ErrNoSession)
		return
	}
	sendJSON(w, http.StatusOK, MenuResponse{Role: user.Role, Items: store.MenuForRole(user.Role)})
}
