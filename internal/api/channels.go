package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/samhotchkiss/biztask/internal/workspace"
)

// ChannelHandler manages internal messaging endpoints.
type ChannelHandler struct {
	Registry *workspace.Registry
}

type SetActiveChannelRequest struct {
	ID string `json:"id"`
}

type SendMessageRequest struct {
	Text string `json:"text"`
}

// ListChannels handles GET /api/channels
func (h *ChannelHandler) ListChannels(w http.ResponseWriter, r *http.Request) {
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}
	sendJSON(w, http.StatusOK, ws.Messaging.Channels())
}

// GetActive handles GET /api/channels/active
func (h *ChannelHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}
	channel, err := ws.Messaging.Active()
	if err != nil {
		handleStoreError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, channel)
}

// SetActive handles PUT /api/channels/active
func (h *ChannelHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req SetActiveChannelRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}

	channel, err := ws.Messaging.Switch(strings.TrimSpace(req.ID))
	if err != nil {
		handleStoreError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, channel)
}

// ListMessages handles GET /api/channels/:id/messages
func (h *ChannelHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}
	messages, err := ws.Messaging.Messages(strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		handleStoreError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, messages)
}

// SendMessage handles POST /api/channels/:id/messages. The sender is the
// current user.
func (h *ChannelHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}

	message, err := ws.Messaging.SendTo(strings.TrimSpace(chi.URLParam(r, "id")), req.Text)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	sendJSON(w, http.StatusCreated, message)
}
