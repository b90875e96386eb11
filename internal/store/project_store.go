package store

import (
	"strings"

	"github.com/samhotchkiss/biztask/internal/models"
)

// ProjectChannelPrefix prefixes the id of a project's companion channel.
const ProjectChannelPrefix = "ch_"

// CreateProjectInput holds the caller-supplied fields of a new project.
type CreateProjectInput struct {
	Name        string               `json:"name" validate:"notblank"`
	Description string               `json:"description"`
	Status      models.ProjectStatus `json:"status" validate:"project_status"`
	Progress    int                  `json:"progress" validate:"min=0,max=100"`
}

// Projects returns every project in creation order.
func (s *Store) Projects() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.projects)
}

// AddProject creates a project together with its companion channel. Both are
// appended under one lock. Empty status defaults to ACTIVE.
func (s *Store) AddProject(in CreateProjectInput) (models.Project, models.Channel, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Status == "" {
		in.Status = models.ProjectStatusActive
	}
	if err := validateInput(in); err != nil {
		return models.Project{}, models.Channel{}, s.record("add_project", err)
	}

	s.mu.Lock()
	id := s.generateID(func(candidate string) bool {
		_, used := s.usedIDs[ProjectChannelPrefix+candidate]
		return used
	})
	project := models.Project{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Status:      in.Status,
		Progress:    in.Progress,
	}
	channel := models.Channel{
		ID:        ProjectChannelPrefix + id,
		Name:      project.Name,
		Type:      models.ChannelTypePublic,
		ProjectID: stringPtr(id),
	}
	s.usedIDs[channel.ID] = struct{}{}
	s.projects = append(s.projects, project)
	s.channels = append(s.channels, channel)
	evProject, evChannel := project, copyChannel(channel)
	s.events.Enqueue(
		Event{Type: EventProjectCreated, Project: &evProject},
		Event{Type: EventChannelCreated, Channel: &evChannel},
	)
	s.mu.Unlock()

	s.record("add_project", nil)
	s.events.Drain()
	return project, copyChannel(channel), nil
}

// projectExistsLocked reports whether a project id is live. Callers must hold s.mu.
func (s *Store) projectExistsLocked(id string) bool {
	for _, p := range s.projects {
		if p.ID == id {
			return true
		}
	}
	return false
}
