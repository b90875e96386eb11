package api

import (
	"net/http"

	"github.com/samhotchkiss/biztask/internal/models"
	"github.com/samhotchkiss/biztask/internal/workspace"
)

// AssistantHandler drives the workspace's assistant widget.
type AssistantHandler struct {
	Registry *workspace.Registry
}

type PanelResponse struct {
	IsOpen bool `json:"is_open"`
}

type DraftRequest struct {
	Text string `json:"text"`
}

type AssistantMessageRequest struct {
	Text string `json:"text"`
}

type AssistantMessageResponse struct {
	Message models.ChatMessage `json:"message"`
	Reply   models.ChatMessage `json:"reply"`
}

// Get handles GET /api/assistant
func (h *AssistantHandler) Get(w http.ResponseWriter, r *http.Request) {
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}
	sendJSON(w, http.StatusOK, ws.Widget.Snapshot())
}

// Open handles POST /api/assistant/open
func (h *AssistantHandler) Open(w http.ResponseWriter, r *http.Request) {
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}
	ws.Widget.Open()
	sendJSON(w, http.StatusOK, PanelResponse{IsOpen: true})
}

// Close handles POST /api/assistant/close
func (h *AssistantHandler) Close(w http.ResponseWriter, r *http.Request) {
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}
	ws.Widget.Close()
	sendJSON(w, http.StatusOK, PanelResponse{IsOpen: false})
}

// Toggle handles POST /api/assistant/toggle
func (h *AssistantHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}
	sendJSON(w, http.StatusOK, PanelResponse{IsOpen: ws.Widget.Toggle()})
}

// SetDraft handles PUT /api/assistant/draft
func (h *AssistantHandler) SetDraft(w http.ResponseWriter, r *http.Request) {
	var req DraftRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}
	ws.Widget.SetDraft(req.Text)
	sendJSON(w, http.StatusOK, ws.Widget.Snapshot())
}

// SendMessage handles POST /api/assistant/messages. It blocks until the
// assistant has replied; the reply is always appended, even on failure.
func (h *AssistantHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req AssistantMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ws, ok := loadWorkspace(w, r, h.Registry)
	if !ok {
		return
	}

	var senderID string
	if user, loggedIn := ws.Store.CurrentUser(); loggedIn {
		senderID = user.ID
	}
	message, reply, err := ws.Widget.SendUserMessage(r.Context(), senderID, req.Text)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	sendJSON(w, http.StatusCreated, AssistantMessageResponse{Message: message, Reply: reply})
}
