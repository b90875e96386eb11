package assistant

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// Gemini is a Model backed by the Gemini API. A client is built per request so
// the credential is always the one current at call time.
type Gemini struct {
	// BaseURL overrides the API endpoint. Empty uses the SDK default.
	BaseURL    string
	HTTPClient *http.Client
}

// NewGemini returns a Gemini model using the default endpoint.
func NewGemini() *Gemini {
	return &Gemini{}
}

// Reply opens a chat session seeded with the system instruction and history
// and sends the utterance as the next user turn.
func (g *Gemini) Reply(ctx context.Context, req Request) (string, error) {
	cfg := &genai.ClientConfig{
		APIKey:     req.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.HTTPClient,
	}
	if g.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.BaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return "", fmt.Errorf("create genai client: %w", err)
	}

	history := make([]*genai.Content, 0, len(req.History))
	for _, turn := range req.History {
		role := genai.Role(genai.RoleUser)
		if turn.Role == RoleModel {
			role = genai.RoleModel
		}
		history = append(history, genai.NewContentFromText(turn.Text, role))
	}

	chat, err := client.Chats.Create(ctx, req.Model, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
	}, history)
	if err != nil {
		return "", fmt.Errorf("create chat session: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: req.Utterance})
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}
	if resp == nil {
		return "", nil
	}
	return resp.Text(), nil
}
