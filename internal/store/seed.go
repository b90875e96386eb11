package store

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/samhotchkiss/biztask/internal/models"
)

//go:embed seed.yaml
var defaultSeedYAML []byte

// Seed is the initial content of a Store.
type Seed struct {
	Users         []models.User
	Departments   []models.Department
	Candidates    []models.Candidate
	Projects      []models.Project
	Tasks         []models.Task
	Channels      []models.Channel
	GroupMessages []models.GroupMessage
	Partners      []models.Partner
}

type seedFile struct {
	Users       []models.User       `yaml:"users"`
	Departments []models.Department `yaml:"departments"`
	Candidates  []models.Candidate  `yaml:"candidates"`
	Projects    []models.Project    `yaml:"projects"`
	Tasks       []models.Task       `yaml:"tasks"`
	Channels    []models.Channel    `yaml:"channels"`
	Partners    []models.Partner    `yaml:"partners"`
	Messages    []seedMessage       `yaml:"messages"`
}

type seedMessage struct {
	ID        string        `yaml:"id"`
	ChannelID string        `yaml:"channel_id"`
	SenderID  string        `yaml:"sender_id"`
	Text      string        `yaml:"text"`
	Age       time.Duration `yaml:"age"`
}

// DefaultSeed parses the embedded demo fixture. Message timestamps are placed
// relative to now.
func DefaultSeed(now time.Time) (Seed, error) {
	return ParseSeed(defaultSeedYAML, now)
}

// ParseSeed decodes a YAML fixture and checks its references.
func ParseSeed(data []byte, now time.Time) (Seed, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Seed{}, fmt.Errorf("decode seed: %w", err)
	}

	seed := Seed{
		Users:       f.Users,
		Departments: f.Departments,
		Candidates:  f.Candidates,
		Projects:    f.Projects,
		Tasks:       f.Tasks,
		Channels:    f.Channels,
		Partners:    f.Partners,
	}
	for _, m := range f.Messages {
		seed.GroupMessages = append(seed.GroupMessages, models.GroupMessage{
			ID:        m.ID,
			ChannelID: m.ChannelID,
			SenderID:  m.SenderID,
			Text:      m.Text,
			Timestamp: now.Add(-m.Age),
		})
	}

	if err := seed.validate(); err != nil {
		return Seed{}, err
	}
	return seed, nil
}

func (s Seed) validate() error {
	ids := make(map[string]struct{})
	claim := func(kind, id string) error {
		if id == "" {
			return fmt.Errorf("seed %s with empty id", kind)
		}
		if _, dup := ids[id]; dup {
			return fmt.Errorf("seed id %q reused", id)
		}
		ids[id] = struct{}{}
		return nil
	}

	users := make(map[string]struct{}, len(s.Users))
	for _, u := range s.Users {
		if err := claim("user", u.ID); err != nil {
			return err
		}
		users[u.ID] = struct{}{}
	}
	for _, d := range s.Departments {
		if err := claim("department", d.ID); err != nil {
			return err
		}
	}
	for _, c := range s.Candidates {
		if err := claim("candidate", c.ID); err != nil {
			return err
		}
	}
	for _, p := range s.Projects {
		if err := claim("project", p.ID); err != nil {
			return err
		}
	}
	for _, t := range s.Tasks {
		if err := claim("task", t.ID); err != nil {
			return err
		}
		if _, ok := users[t.AssigneeID]; !ok {
			return fmt.Errorf("seed task %q: unknown assignee %q", t.ID, t.AssigneeID)
		}
		if _, ok := users[t.CreatorID]; !ok {
			return fmt.Errorf("seed task %q: unknown creator %q", t.ID, t.CreatorID)
		}
	}
	channels := make(map[string]struct{}, len(s.Channels))
	for _, c := range s.Channels {
		if err := claim("channel", c.ID); err != nil {
			return err
		}
		channels[c.ID] = struct{}{}
	}
	for _, m := range s.GroupMessages {
		if err := claim("message", m.ID); err != nil {
			return err
		}
		if _, ok := channels[m.ChannelID]; !ok {
			return fmt.Errorf("seed message %q: unknown channel %q", m.ID, m.ChannelID)
		}
	}
	for _, p := range s.Partners {
		if err := claim("partner", p.ID); err != nil {
			return err
		}
	}
	return nil
}
