package store

import (
	"strings"

	"github.com/samhotchkiss/biztask/internal/models"
)

// CreateTaskInput holds the caller-supplied fields of a new task. The id and
// created-at time are always assigned by the store.
type CreateTaskInput struct {
	Title       string              `json:"title" validate:"notblank"`
	Description string              `json:"description"`
	AssigneeID  string              `json:"assignee_id" validate:"notblank"`
	CreatorID   string              `json:"creator_id" validate:"notblank"`
	ProjectID   *string             `json:"project_id,omitempty"`
	Status      models.TaskStatus   `json:"status" validate:"task_status"`
	Priority    models.TaskPriority `json:"priority" validate:"task_priority"`
	DueDate     string              `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

// TaskFilter narrows a task listing. Zero fields match everything.
type TaskFilter struct {
	Status     models.TaskStatus
	ProjectID  string
	AssigneeID string
}

func (f TaskFilter) matches(t models.Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.ProjectID != "" && (t.ProjectID == nil || *t.ProjectID != f.ProjectID) {
		return false
	}
	if f.AssigneeID != "" && t.AssigneeID != f.AssigneeID {
		return false
	}
	return true
}

// CanTransition reports whether a task may move from one status to another.
// Every pair is allowed, including a move to the same status.
func CanTransition(from, to models.TaskStatus) bool {
	return models.IsValidTaskStatus(from) && models.IsValidTaskStatus(to)
}

// Tasks returns the tasks matching filter, newest first.
func (s *Store) Tasks(filter TaskFilter) []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if filter.matches(t) {
			out = append(out, copyTask(t))
		}
	}
	return out
}

// Task returns one task by id.
func (s *Store) Task(id string) (models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tasks {
		if t.ID == id {
			return copyTask(t), nil
		}
	}
	return models.Task{}, notFound("task", id)
}

// AddTask creates a task and places it at the front of the collection.
// Empty status and priority default to TODO and MEDIUM.
func (s *Store) AddTask(in CreateTaskInput) (models.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Status == "" {
		in.Status = models.TaskStatusTodo
	}
	if in.Priority == "" {
		in.Priority = models.TaskPriorityMedium
	}
	if in.ProjectID != nil && strings.TrimSpace(*in.ProjectID) == "" {
		in.ProjectID = nil
	}
	if err := validateInput(in); err != nil {
		return models.Task{}, s.record("add_task", err)
	}

	s.mu.Lock()
	if _, ok := s.userByIDLocked(in.AssigneeID); !ok {
		s.mu.Unlock()
		return models.Task{}, s.record("add_task", notFound("assignee", in.AssigneeID))
	}
	if _, ok := s.userByIDLocked(in.CreatorID); !ok {
		s.mu.Unlock()
		return models.Task{}, s.record("add_task", notFound("creator", in.CreatorID))
	}
	if in.ProjectID != nil && !s.projectExistsLocked(*in.ProjectID) {
		s.mu.Unlock()
		return models.Task{}, s.record("add_task", notFound("project", *in.ProjectID))
	}

	task := models.Task{
		ID:          s.generateID(nil),
		Title:       in.Title,
		Description: in.Description,
		AssigneeID:  in.AssigneeID,
		CreatorID:   in.CreatorID,
		ProjectID:   copyStringPtr(in.ProjectID),
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		CreatedAt:   s.now(),
	}
	s.tasks = append([]models.Task{task}, s.tasks...)
	ev := copyTask(task)
	s.events.Enqueue(Event{Type: EventTaskCreated, Task: &ev})
	s.mu.Unlock()

	s.record("add_task", nil)
	s.events.Drain()
	return copyTask(task), nil
}

// UpdateTaskStatus replaces the status of one task and leaves every other
// field untouched.
func (s *Store) UpdateTaskStatus(taskID string, status models.TaskStatus) (models.Task, error) {
	if !models.IsValidTaskStatus(status) {
		return models.Task{}, s.record("update_task_status", validationErrorf("status has invalid value %q", status))
	}

	s.mu.Lock()
	idx := -1
	for i := range s.tasks {
		if s.tasks[i].ID == taskID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return models.Task{}, s.record("update_task_status", notFound("task", taskID))
	}
	previous := s.tasks[idx].Status
	if !CanTransition(previous, status) {
		s.mu.Unlock()
		return models.Task{}, s.record("update_task_status", validationErrorf("cannot move task from %s to %s", previous, status))
	}
	s.tasks[idx].Status = status
	task := copyTask(s.tasks[idx])
	ev := copyTask(task)
	s.events.Enqueue(Event{Type: EventTaskStatusChanged, Task: &ev, PreviousStatus: previous})
	s.mu.Unlock()

	s.record("update_task_status", nil)
	s.events.Drain()
	return task, nil
}

func copyTask(t models.Task) models.Task {
	t.ProjectID = copyStringPtr(t.ProjectID)
	return t
}
