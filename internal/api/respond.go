package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/samhotchkiss/biztask/internal/messaging"
	"github.com/samhotchkiss/biztask/internal/middleware"
	"github.com/samhotchkiss/biztask/internal/store"
	"github.com/samhotchkiss/biztask/internal/widget"
	"github.com/samhotchkiss/biztask/internal/workspace"
)

const maxRequestBody = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON reads a JSON body into dst, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(dst); err != nil {
		sendJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

// handleStoreError maps domain errors onto HTTP statuses.
func handleStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		sendJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, store.ErrNoSession):
		sendJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, store.ErrValidation),
		errors.Is(err, widget.ErrEmptyMessage),
		errors.Is(err, messaging.ErrEmptyMessage),
		errors.Is(err, workspace.ErrInvalidWorkspace):
		sendJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, messaging.ErrNoChannel):
		sendJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		sendJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "request cancelled"})
	default:
		sendJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// loadWorkspace resolves the request's workspace, answering on failure.
func loadWorkspace(w http.ResponseWriter, r *http.Request, registry *workspace.Registry) (*workspace.Workspace, bool) {
	id := middleware.WorkspaceFromContext(r.Context())
	if id == "" {
		id = middleware.DefaultWorkspaceID
	}
	ws, err := registry.Get(id)
	if err != nil {
		handleStoreError(w, err)
		return nil, false
	}
	return ws, true
}
