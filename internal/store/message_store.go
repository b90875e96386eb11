package store

import (
	"strings"

	"github.com/samhotchkiss/biztask/internal/models"
)

// Channels returns every channel in creation order.
func (s *Store) Channels() []models.Channel {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Channel, len(s.channels))
	for i, c := range s.channels {
		out[i] = copyChannel(c)
	}
	return out
}

// Channel returns one channel by id.
func (s *Store) Channel(id string) (models.Channel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.channelByIDLocked(id); ok {
		return c, nil
	}
	return models.Channel{}, notFound("channel", id)
}

// GroupMessages returns the messages of a channel in insertion order.
func (s *Store) GroupMessages(channelID string) ([]models.GroupMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.channelByIDLocked(channelID); !ok {
		return nil, notFound("channel", channelID)
	}
	out := make([]models.GroupMessage, 0)
	for _, m := range s.groupMessages {
		if m.ChannelID == channelID {
			out = append(out, m)
		}
	}
	return out, nil
}

// SendGroupMessage appends a message from the current user to a channel.
// Without a session nothing is stored and ErrNoSession is returned.
func (s *Store) SendGroupMessage(channelID, text string) (models.GroupMessage, error) {
	if strings.TrimSpace(text) == "" {
		return models.GroupMessage{}, s.record("send_group_message", validationErrorf("text is required"))
	}

	s.mu.Lock()
	if s.currentUserID == "" {
		s.mu.Unlock()
		return models.GroupMessage{}, s.record("send_group_message", ErrNoSession)
	}
	if _, ok := s.channelByIDLocked(channelID); !ok {
		s.mu.Unlock()
		return models.GroupMessage{}, s.record("send_group_message", notFound("channel", channelID))
	}
	msg := models.GroupMessage{
		ID:        s.generateID(nil),
		ChannelID: channelID,
		SenderID:  s.currentUserID,
		Text:      text,
		Timestamp: s.now(),
	}
	s.groupMessages = append(s.groupMessages, msg)
	ev := msg
	s.events.Enqueue(Event{Type: EventGroupMessageCreated, Message: &ev})
	s.mu.Unlock()

	s.record("send_group_message", nil)
	s.events.Drain()
	return msg, nil
}

// channelByIDLocked looks a channel up by id. Callers must hold s.mu.
func (s *Store) channelByIDLocked(id string) (models.Channel, bool) {
	for _, c := range s.channels {
		if c.ID == id {
			return copyChannel(c), true
		}
	}
	return models.Channel{}, false
}

func copyChannel(c models.Channel) models.Channel {
	c.ProjectID = copyStringPtr(c.ProjectID)
	return c
}
