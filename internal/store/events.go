package store

import "github.com/samhotchkiss/biztask/internal/models"

// EventType names a store mutation.
type EventType string

const (
	EventSessionChanged      EventType = "SessionChanged"
	EventThemeChanged        EventType = "ThemeChanged"
	EventOnboardingCompleted EventType = "OnboardingCompleted"
	EventTaskCreated         EventType = "TaskCreated"
	EventTaskStatusChanged   EventType = "TaskStatusChanged"
	EventProjectCreated      EventType = "ProjectCreated"
	EventChannelCreated      EventType = "ChannelCreated"
	EventEmployeeAdded       EventType = "EmployeeAdded"
	EventCandidateHired      EventType = "CandidateHired"
	EventGroupMessageCreated EventType = "GroupMessageCreated"
)

// Event describes one applied mutation. Only the fields relevant to Type are set.
type Event struct {
	Type           EventType            `json:"type"`
	User           *models.User         `json:"user,omitempty"`
	Theme          models.Theme         `json:"theme,omitempty"`
	Task           *models.Task         `json:"task,omitempty"`
	PreviousStatus models.TaskStatus    `json:"previous_status,omitempty"`
	Project        *models.Project      `json:"project,omitempty"`
	Channel        *models.Channel      `json:"channel,omitempty"`
	CandidateID    string               `json:"candidate_id,omitempty"`
	Message        *models.GroupMessage `json:"message,omitempty"`
}

// Topic returns the push topic an event belongs to. Channel messages go to the
// channel's topic; everything else is workspace-wide.
func (e Event) Topic() string {
	if e.Type == EventGroupMessageCreated && e.Message != nil {
		return ChannelTopic(e.Message.ChannelID)
	}
	return ""
}

// ChannelTopic is the subscription topic for a channel's messages.
func ChannelTopic(channelID string) string {
	return "channel:" + channelID
}
