package store

import (
	"net/url"
	"slices"
	"strings"

	"github.com/samhotchkiss/biztask/internal/models"
)

// CreateEmployeeInput holds the caller-supplied fields of a new user.
type CreateEmployeeInput struct {
	Name         string      `json:"name" validate:"notblank"`
	Email        string      `json:"email" validate:"required,email"`
	Role         models.Role `json:"role" validate:"role"`
	Avatar       string      `json:"avatar"`
	DepartmentID *string     `json:"department_id,omitempty"`
}

// Users returns every user in creation order.
func (s *Store) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, len(s.users))
	for i, u := range s.users {
		out[i] = copyUser(u)
	}
	return out
}

// Departments returns every department.
func (s *Store) Departments() []models.Department {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Department, len(s.departments))
	for i, d := range s.departments {
		d.ManagerID = copyStringPtr(d.ManagerID)
		out[i] = d
	}
	return out
}

// Candidates returns the applicants that have not been hired.
func (s *Store) Candidates() []models.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.candidates)
}

// Partners returns the strategic partners.
func (s *Store) Partners() []models.Partner {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.partners)
}

// AddEmployee creates a user. New users always start offline. Empty role
// defaults to EMPLOYEE and an empty avatar to a generated initials image.
func (s *Store) AddEmployee(in CreateEmployeeInput) (models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Role == "" {
		in.Role = models.RoleEmployee
	}
	if in.Avatar == "" && in.Name != "" {
		in.Avatar = generatedAvatar(in.Name)
	}
	if in.DepartmentID != nil && strings.TrimSpace(*in.DepartmentID) == "" {
		in.DepartmentID = nil
	}
	if err := validateInput(in); err != nil {
		return models.User{}, s.record("add_employee", err)
	}

	s.mu.Lock()
	if in.DepartmentID != nil && !s.departmentExistsLocked(*in.DepartmentID) {
		s.mu.Unlock()
		return models.User{}, s.record("add_employee", notFound("department", *in.DepartmentID))
	}
	user := s.appendUserLocked(in)
	ev := copyUser(user)
	s.events.Enqueue(Event{Type: EventEmployeeAdded, User: &ev})
	s.mu.Unlock()

	s.record("add_employee", nil)
	s.events.Drain()
	return user, nil
}

// HireCandidate turns an applicant into an EMPLOYEE of the default department
// and removes them from the candidate list. Both collections change under one
// lock; an unknown id changes neither.
func (s *Store) HireCandidate(candidateID string) (models.User, error) {
	s.mu.Lock()
	idx := -1
	for i := range s.candidates {
		if s.candidates[i].ID == candidateID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return models.User{}, s.record("hire_candidate", notFound("candidate", candidateID))
	}
	c := s.candidates[idx]
	user := s.appendUserLocked(CreateEmployeeInput{
		Name:         c.Name,
		Email:        c.Email,
		Role:         models.RoleEmployee,
		Avatar:       c.Avatar,
		DepartmentID: stringPtr(DefaultHireDepartmentID),
	})
	s.candidates = slices.Delete(s.candidates, idx, idx+1)
	ev := copyUser(user)
	s.events.Enqueue(Event{Type: EventCandidateHired, User: &ev, CandidateID: candidateID})
	s.mu.Unlock()

	s.record("hire_candidate", nil)
	s.events.Drain()
	return user, nil
}

// appendUserLocked assigns an id and appends a user. Callers must hold s.mu.
func (s *Store) appendUserLocked(in CreateEmployeeInput) models.User {
	user := models.User{
		ID:           s.generateID(nil),
		Name:         in.Name,
		Email:        in.Email,
		Role:         in.Role,
		Avatar:       in.Avatar,
		DepartmentID: copyStringPtr(in.DepartmentID),
		IsOnline:     false,
	}
	s.users = append(s.users, user)
	return copyUser(user)
}

// departmentExistsLocked reports whether a department id is live. Callers must hold s.mu.
func (s *Store) departmentExistsLocked(id string) bool {
	for _, d := range s.departments {
		if d.ID == id {
			return true
		}
	}
	return false
}

func generatedAvatar(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random"
}
