// Package assistant turns one user utterance into one BizBot reply.
//
// GetReply never fails: a missing credential, a transport error, a timeout or
// an empty answer each map to a fixed reply text, and the cause is logged.
package assistant

import (
	"context"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/samhotchkiss/biztask/internal/metrics"
)

const (
	DefaultModel   = "gemini-2.5-flash"
	DefaultTimeout = 30 * time.Second
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one prior message forwarded as conversation history.
type Turn struct {
	Role Role
	Text string
}

// Request is what a Model receives for a single reply.
type Request struct {
	APIKey            string
	Model             string
	SystemInstruction string
	History           []Turn
	Utterance         string
}

// Model produces reply text from a hosted language model.
type Model interface {
	Reply(ctx context.Context, req Request) (string, error)
}

// Options configures a Client.
type Options struct {
	Model   string
	Timeout time.Duration
	// APIKey returns the credential at call time. Defaults to EnvAPIKey.
	APIKey  func() string
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// Client wraps a Model with the persona, the timeout and the fallback replies.
type Client struct {
	model   Model
	name    string
	timeout time.Duration
	apiKey  func() string
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// New creates a Client backed by model.
func New(model Model, opts Options) *Client {
	c := &Client{
		model:   model,
		name:    strings.TrimSpace(opts.Model),
		timeout: opts.Timeout,
		apiKey:  opts.APIKey,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
	if c.name == "" {
		c.name = DefaultModel
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.apiKey == nil {
		c.apiKey = EnvAPIKey
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// EnvAPIKey reads GEMINI_API_KEY, falling back to API_KEY.
func EnvAPIKey() string {
	if key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); key != "" {
		return key
	}
	return strings.TrimSpace(os.Getenv("API_KEY"))
}

// Configured reports whether a credential is currently available.
func (c *Client) Configured() bool {
	return c.apiKey() != ""
}

// GetReply asks the model to answer utterance. History may be nil.
func (c *Client) GetReply(ctx context.Context, utterance string, history []Turn) string {
	key := c.apiKey()
	if key == "" {
		c.logger.Warn("assistant credential not configured")
		c.metrics.RecordAssistant(metrics.AssistantUnconfigured, 0)
		return ReplyUnconfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	text, err := c.model.Reply(ctx, Request{
		APIKey:            key,
		Model:             c.name,
		SystemInstruction: Persona,
		History:           history,
		Utterance:         utterance,
	})
	elapsed := time.Since(start)

	if err != nil {
		c.logger.Warn("assistant request failed",
			zap.String("model", c.name),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		c.metrics.RecordAssistant(metrics.AssistantError, elapsed)
		return ReplyUnavailable
	}
	if strings.TrimSpace(text) == "" {
		c.logger.Warn("assistant returned empty reply", zap.String("model", c.name))
		c.metrics.RecordAssistant(metrics.AssistantEmpty, elapsed)
		return ReplyEmpty
	}

	c.logger.Debug("assistant replied", zap.String("model", c.name), zap.Duration("elapsed", elapsed))
	c.metrics.RecordAssistant(metrics.AssistantOK, elapsed)
	return text
}
