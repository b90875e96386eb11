// Package widget implements the floating assistant chat panel of a workspace.
//
// The controller owns its message log exclusively. Sends are queued through a
// single slot, so a reply is always appended before the next prompt.
package widget

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/samhotchkiss/biztask/internal/assistant"
	"github.com/samhotchkiss/biztask/internal/fanout"
	"github.com/samhotchkiss/biztask/internal/models"
)

// ErrEmptyMessage is returned when a send carries only whitespace.
var ErrEmptyMessage = errors.New("message text is empty")

// WelcomeMessageID is the id of the greeting every log starts with.
const WelcomeMessageID = "welcome"

// Replier answers one utterance. *assistant.Client satisfies it.
type Replier interface {
	GetReply(ctx context.Context, utterance string, history []assistant.Turn) string
}

// EventType names a widget state change.
type EventType string

const (
	EventMessageAppended EventType = "AssistantMessageAppended"
	EventTypingChanged   EventType = "AssistantTypingChanged"
	EventPanelChanged    EventType = "AssistantPanelChanged"
)

// Event describes one widget state change.
type Event struct {
	Type     EventType           `json:"type"`
	Message  *models.ChatMessage `json:"message,omitempty"`
	IsTyping bool                `json:"is_typing"`
	IsOpen   bool                `json:"is_open"`
}

// State is a snapshot of the widget.
type State struct {
	Messages  []models.ChatMessage `json:"messages"`
	IsOpen    bool                 `json:"is_open"`
	IsTyping  bool                 `json:"is_typing"`
	DraftText string               `json:"draft_text"`
}

// Options configures a Controller.
type Options struct {
	// IncludeHistory forwards prior turns to the assistant.
	IncludeHistory bool
	Logger         *zap.Logger
	Now            func() time.Time
	NewID          func() string
}

// Controller is the widget state machine.
type Controller struct {
	replier Replier
	slot    chan struct{}

	mu       sync.RWMutex
	messages []models.ChatMessage
	isOpen   bool
	isTyping bool
	draft    string

	// events is filled under mu, so delivery follows state order.
	events fanout.Queue[Event]

	includeHistory bool
	logger         *zap.Logger
	now            func() time.Time
	newID          func() string
}

// New creates a closed widget whose log holds only the welcome message.
func New(replier Replier, opts Options) *Controller {
	c := &Controller{
		replier:        replier,
		slot:           make(chan struct{}, 1),
		includeHistory: opts.IncludeHistory,
		logger:         opts.Logger,
		now:            opts.Now,
		newID:          opts.NewID,
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.newID == nil {
		c.newID = uuid.NewString
	}
	c.messages = []models.ChatMessage{{
		ID:        WelcomeMessageID,
		SenderID:  models.SenderAssistant,
		Text:      assistant.Welcome,
		Timestamp: c.now(),
		IsRead:    true,
		Type:      models.ChatMessageText,
	}}
	return c
}

// Subscribe registers fn for every widget event. Events are delivered
// outside the state lock, in the order the state changed.
func (c *Controller) Subscribe(fn func(Event)) func() {
	return c.events.Subscribe(fn)
}

// Snapshot returns a copy of the widget state.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return State{
		Messages:  append([]models.ChatMessage(nil), c.messages...),
		IsOpen:    c.isOpen,
		IsTyping:  c.isTyping,
		DraftText: c.draft,
	}
}

// Open shows the panel.
func (c *Controller) Open() { c.setOpen(func(bool) bool { return true }) }

// Close hides the panel. An in-flight reply is still appended.
func (c *Controller) Close() { c.setOpen(func(bool) bool { return false }) }

// Toggle flips panel visibility and returns the new value.
func (c *Controller) Toggle() bool { return c.setOpen(func(open bool) bool { return !open }) }

func (c *Controller) setOpen(next func(bool) bool) bool {
	c.mu.Lock()
	c.isOpen = next(c.isOpen)
	open := c.isOpen
	c.events.Enqueue(Event{Type: EventPanelChanged, IsOpen: open, IsTyping: c.isTyping})
	c.mu.Unlock()

	c.events.Drain()
	return open
}

// SetDraft stores the text currently in the input box.
func (c *Controller) SetDraft(text string) {
	c.mu.Lock()
	c.draft = text
	c.mu.Unlock()
}

// SendUserMessage appends the user's message, waits for the assistant and
// appends its reply. senderID is the current user id, or empty for a guest.
// A send waits for any earlier send to finish; ctx bounds that wait as well
// as the assistant call.
func (c *Controller) SendUserMessage(ctx context.Context, senderID, text string) (models.ChatMessage, models.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return models.ChatMessage{}, models.ChatMessage{}, ErrEmptyMessage
	}

	select {
	case c.slot <- struct{}{}:
	case <-ctx.Done():
		return models.ChatMessage{}, models.ChatMessage{}, ctx.Err()
	}
	defer func() { <-c.slot }()
	// select picks at random when ctx is done and the slot is free.
	if err := ctx.Err(); err != nil {
		return models.ChatMessage{}, models.ChatMessage{}, err
	}

	if senderID == "" {
		senderID = models.SenderGuest
	}

	c.mu.Lock()
	var history []assistant.Turn
	if c.includeHistory {
		history = historyFrom(c.messages)
	}
	userMsg := models.ChatMessage{
		ID:        c.newID(),
		SenderID:  senderID,
		Text:      text,
		Timestamp: c.now(),
		IsRead:    false,
		Type:      models.ChatMessageText,
	}
	c.messages = append(c.messages, userMsg)
	c.draft = ""
	c.isTyping = true
	open := c.isOpen
	c.events.Enqueue(
		Event{Type: EventMessageAppended, Message: &userMsg, IsTyping: true, IsOpen: open},
		Event{Type: EventTypingChanged, IsTyping: true, IsOpen: open},
	)
	c.mu.Unlock()
	c.events.Drain()

	var replyText string
	func() {
		defer func() {
			if r := recover(); r != nil {
				c.logger.Error("assistant reply panicked", zap.Any("panic", r))
				replyText = assistant.ReplyUnavailable
			}
		}()
		replyText = c.replier.GetReply(ctx, text, history)
	}()

	c.mu.Lock()
	reply := models.ChatMessage{
		ID:        c.newID(),
		SenderID:  models.SenderAssistant,
		Text:      replyText,
		Timestamp: c.now(),
		IsRead:    true,
		Type:      models.ChatMessageText,
		ReplyTo:   userMsg.ID,
	}
	c.messages = append(c.messages, reply)
	c.isTyping = false
	open = c.isOpen
	c.events.Enqueue(
		Event{Type: EventMessageAppended, Message: &reply, IsOpen: open},
		Event{Type: EventTypingChanged, IsOpen: open},
	)
	c.mu.Unlock()
	c.events.Drain()
	return userMsg, reply, nil
}

// historyFrom converts the log into assistant turns. Leading assistant
// messages (the greeting) are dropped since a conversation must open with a
// user turn.
func historyFrom(messages []models.ChatMessage) []assistant.Turn {
	turns := make([]assistant.Turn, 0, len(messages))
	for _, m := range messages {
		role := assistant.RoleUser
		if m.SenderID == models.SenderAssistant {
			role = assistant.RoleModel
		}
		if role == assistant.RoleModel && len(turns) == 0 {
			continue
		}
		turns = append(turns, assistant.Turn{Role: role, Text: m.Text})
	}
	return turns
}
