package store

import "github.com/samhotchkiss/biztask/internal/models"

// Session is the process-lifetime session state of a workspace.
type Session struct {
	User         *models.User `json:"user"`
	Theme        models.Theme `json:"theme"`
	HasOnboarded bool         `json:"has_onboarded"`
}

// Session returns a copy of the current session state.
func (s *Store) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess := Session{Theme: s.theme, HasOnboarded: s.hasOnboarded}
	if u, ok := s.userByIDLocked(s.currentUserID); ok {
		sess.User = &u
	}
	return sess
}

// CurrentUser returns the logged-in user, if any.
func (s *Store) CurrentUser() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userByIDLocked(s.currentUserID)
}

// Login selects the first user holding role, or the first user when nobody
// does, and makes it the current user. There is no credential check; email is
// accepted for parity with the login form and ignored.
func (s *Store) Login(role models.Role, email string) (models.User, error) {
	if !models.IsValidRole(role) {
		return models.User{}, s.record("login", validationErrorf("role has invalid value %q", role))
	}

	s.mu.Lock()
	if len(s.users) == 0 {
		s.mu.Unlock()
		return models.User{}, s.record("login", notFound("user with role", string(role)))
	}
	picked := s.users[0]
	for _, u := range s.users {
		if u.Role == role {
			picked = u
			break
		}
	}
	s.currentUserID = picked.ID
	picked = copyUser(picked)
	ev := picked
	s.events.Enqueue(Event{Type: EventSessionChanged, User: &ev})
	s.mu.Unlock()

	s.record("login", nil)
	s.events.Drain()
	return picked, nil
}

// Logout clears the current user.
func (s *Store) Logout() {
	s.mu.Lock()
	s.currentUserID = ""
	s.events.Enqueue(Event{Type: EventSessionChanged})
	s.mu.Unlock()

	s.record("logout", nil)
	s.events.Drain()
}

// ToggleTheme flips between light and dark and returns the new theme.
func (s *Store) ToggleTheme() models.Theme {
	s.mu.Lock()
	if s.theme == models.ThemeDark {
		s.theme = models.ThemeLight
	} else {
		s.theme = models.ThemeDark
	}
	theme := s.theme
	s.events.Enqueue(Event{Type: EventThemeChanged, Theme: theme})
	s.mu.Unlock()

	s.record("toggle_theme", nil)
	s.events.Drain()
	return theme
}

// CompleteOnboarding sets the one-way onboarding flag.
func (s *Store) CompleteOnboarding() {
	s.mu.Lock()
	already := s.hasOnboarded
	s.hasOnboarded = true
	if !already {
		s.events.Enqueue(Event{Type: EventOnboardingCompleted})
	}
	s.mu.Unlock()

	s.record("complete_onboarding", nil)
	s.events.Drain()
}

// userByIDLocked looks a user up by id. Callers must hold s.mu.
func (s *Store) userByIDLocked(id string) (models.User, bool) {
	if id == "" {
		return models.User{}, false
	}
	for _, u := range s.users {
		if u.ID == id {
			return copyUser(u), true
		}
	}
	return models.User{}, false
}

func copyUser(u models.User) models.User {
	u.DepartmentID = copyStringPtr(u.DepartmentID)
	return u
}
