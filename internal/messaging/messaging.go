// Package messaging is the internal team chat over a workspace store.
package messaging

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/samhotchkiss/biztask/internal/models"
	"github.com/samhotchkiss/biztask/internal/store"
)

// ErrEmptyMessage is returned when a send carries only whitespace.
var ErrEmptyMessage = errors.New("message text is empty")

// ErrNoChannel is returned when the workspace has no channel to post into.
var ErrNoChannel = errors.New("no active channel")

// Store is the subset of *store.Store the controller needs.
type Store interface {
	Channels() []models.Channel
	Channel(id string) (models.Channel, error)
	GroupMessages(channelID string) ([]models.GroupMessage, error)
	SendGroupMessage(channelID, text string) (models.GroupMessage, error)
}

// Controller tracks the active channel and reads and posts messages.
type Controller struct {
	store Store

	mu     sync.RWMutex
	active string
}

// New creates a controller whose active channel is the first channel.
func New(s Store) *Controller {
	c := &Controller{store: s}
	if channels := s.Channels(); len(channels) > 0 {
		c.active = channels[0].ID
	}
	return c
}

// Channels lists every channel.
func (c *Controller) Channels() []models.Channel {
	return c.store.Channels()
}

// Active returns the active channel.
func (c *Controller) Active() (models.Channel, error) {
	c.mu.Lock()
	if c.active == "" {
		if channels := c.store.Channels(); len(channels) > 0 {
			c.active = channels[0].ID
		}
	}
	id := c.active
	c.mu.Unlock()

	if id == "" {
		return models.Channel{}, ErrNoChannel
	}
	return c.store.Channel(id)
}

// Switch makes channelID active. An unknown id leaves the active channel as it was.
func (c *Controller) Switch(channelID string) (models.Channel, error) {
	ch, err := c.store.Channel(channelID)
	if err != nil {
		return models.Channel{}, err
	}
	c.mu.Lock()
	c.active = ch.ID
	c.mu.Unlock()
	return ch, nil
}

// Messages returns a channel's messages oldest first. Messages with equal
// timestamps keep insertion order.
func (c *Controller) Messages(channelID string) ([]models.GroupMessage, error) {
	msgs, err := c.store.GroupMessages(channelID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})
	return msgs, nil
}

// ActiveMessages returns the active channel's messages oldest first.
func (c *Controller) ActiveMessages() ([]models.GroupMessage, error) {
	ch, err := c.Active()
	if err != nil {
		return nil, err
	}
	return c.Messages(ch.ID)
}

// Send posts text to the active channel as the current user.
func (c *Controller) Send(text string) (models.GroupMessage, error) {
	if strings.TrimSpace(text) == "" {
		return models.GroupMessage{}, ErrEmptyMessage
	}
	ch, err := c.Active()
	if err != nil {
		return models.GroupMessage{}, err
	}
	return c.SendTo(ch.ID, text)
}

// SendTo posts text to a specific channel as the current user.
func (c *Controller) SendTo(channelID, text string) (models.GroupMessage, error) {
	if strings.TrimSpace(text) == "" {
		return models.GroupMessage{}, ErrEmptyMessage
	}
	msg, err := c.store.SendGroupMessage(channelID, text)
	if err != nil {
		return models.GroupMessage{}, fmt.Errorf("send to %s: %w", channelID, err)
	}
	return msg, nil
}

var _ Store = (*store.Store)(nil)
