package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samhotchkiss/biztask/internal/models"
)

func TestStore_AddProject(t *testing.T) {
	s := newTestStore(t)
	channelsBefore := s.Channels()

	project, channel, err := s.AddProject(CreateProjectInput{
		Name:        " Website 2024 ",
		Description: "Landing page mới",
		Progress:    10,
	})
	require.NoError(t, err)

	assert.Equal(t, "Website 2024", project.Name)
	assert.Equal(t, models.ProjectStatusActive, project.Status)
	assert.Equal(t, project, s.Projects()[3], "projects are appended")

	assert.Equal(t, "ch_"+project.ID, channel.ID)
	assert.Equal(t, project.Name, channel.Name)
	assert.Equal(t, models.ChannelTypePublic, channel.Type)
	require.NotNil(t, channel.ProjectID)
	assert.Equal(t, project.ID, *channel.ProjectID)

	channelsAfter := s.Channels()
	require.Len(t, channelsAfter, len(channelsBefore)+1)
	linked := 0
	for _, c := range channelsAfter {
		if c.ProjectID != nil && *c.ProjectID == project.ID {
			linked++
		}
	}
	assert.Equal(t, 1, linked, "exactly one channel per project")
}

func TestStore_AddProjectSkipsIDsWhoseChannelIsTaken(t *testing.T) {
	seed, err := DefaultSeed(testNow)
	require.NoError(t, err)
	seed.Channels = append(seed.Channels, models.Channel{ID: "ch_x", Name: "manual", Type: models.ChannelTypePrivate})

	ids := []string{"x", "y"}
	next := 0
	s := New(seed, Options{NewID: func() string {
		id := ids[next]
		next++
		return id
	}})

	project, channel, err := s.AddProject(CreateProjectInput{Name: "P"})
	require.NoError(t, err)
	assert.Equal(t, "y", project.ID)
	assert.Equal(t, "ch_y", channel.ID)
}

func TestStore_AddProjectRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input CreateProjectInput
	}{
		{name: "blank name", input: CreateProjectInput{Name: " "}},
		{name: "bad status", input: CreateProjectInput{Name: "P", Status: "PAUSED"}},
		{name: "progress over 100", input: CreateProjectInput{Name: "P", Progress: 101}},
		{name: "negative progress", input: CreateProjectInput{Name: "P", Progress: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			_, _, err := s.AddProject(tt.input)
			require.ErrorIs(t, err, ErrValidation)
			assert.Len(t, s.Projects(), 3)
			assert.Len(t, s.Channels(), 4)
		})
	}
}
