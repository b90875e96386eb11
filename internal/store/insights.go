package store

import (
	"math"
	"sort"
	"time"

	"github.com/samhotchkiss/biztask/internal/models"
)

// Dashboard is the summary shown on the landing view.
type Dashboard struct {
	StatusCounts map[models.TaskStatus]int `json:"status_counts"`
	TotalTasks   int                       `json:"total_tasks"`
	MyOpenTasks  []models.Task             `json:"my_open_tasks"`
	OnlineUsers  []models.User             `json:"online_users"`
	Departments  []models.Department       `json:"departments"`
	Partners     []models.Partner          `json:"partners"`
}

// Dashboard builds the landing summary. MyOpenTasks lists the current user's
// tasks that are not DONE and is empty without a session.
func (s *Store) Dashboard() Dashboard {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d := Dashboard{
		StatusCounts: make(map[models.TaskStatus]int, len(models.TaskStatuses)),
		TotalTasks:   len(s.tasks),
		MyOpenTasks:  []models.Task{},
		OnlineUsers:  []models.User{},
		Partners:     cloneSlice(s.partners),
	}
	for _, status := range models.TaskStatuses {
		d.StatusCounts[status] = 0
	}
	for _, t := range s.tasks {
		d.StatusCounts[t.Status]++
		if s.currentUserID != "" && t.AssigneeID == s.currentUserID && t.Status != models.TaskStatusDone {
			d.MyOpenTasks = append(d.MyOpenTasks, copyTask(t))
		}
	}
	for _, u := range s.users {
		if u.IsOnline {
			d.OnlineUsers = append(d.OnlineUsers, copyUser(u))
		}
	}
	d.Departments = make([]models.Department, len(s.departments))
	for i, dep := range s.departments {
		dep.ManagerID = copyStringPtr(dep.ManagerID)
		d.Departments[i] = dep
	}
	return d
}

// UserKPI is one user's task completion figures.
type UserKPI struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Rate      int    `json:"rate"`
}

// KPI returns completion figures for every user with at least one assigned
// task, best completion rate first. Ties keep user order.
func (s *Store) KPI() []UserKPI {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]UserKPI, 0, len(s.users))
	for _, u := range s.users {
		k := UserKPI{UserID: u.ID, Name: u.Name, Avatar: u.Avatar}
		for _, t := range s.tasks {
			if t.AssigneeID != u.ID {
				continue
			}
			k.Total++
			if t.Status == models.TaskStatusDone {
				k.Completed++
			}
		}
		if k.Total == 0 {
			continue
		}
		k.Rate = int(math.Round(float64(k.Completed) / float64(k.Total) * 100))
		out = append(out, k)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rate > out[j].Rate })
	return out
}

// Calendar is a month grid of tasks by assignee and due day.
type Calendar struct {
	Month        string        `json:"month"`
	DepartmentID string        `json:"department_id,omitempty"`
	DaysInMonth  int           `json:"days_in_month"`
	Rows         []CalendarRow `json:"rows"`
}

// CalendarRow holds one user's tasks keyed by day of month.
type CalendarRow struct {
	User models.User           `json:"user"`
	Days map[int][]models.Task `json:"days"`
}

// CalendarMonthLayout is the accepted month format.
const CalendarMonthLayout = "2006-01"

// Calendar lays out tasks due in month (YYYY-MM) for every user, or only the
// users of departmentID when it is non-empty.
func (s *Store) Calendar(month, departmentID string) (Calendar, error) {
	start, err := time.Parse(CalendarMonthLayout, month)
	if err != nil {
		return Calendar{}, validationErrorf("month must be YYYY-MM, got %q", month)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if departmentID != "" && !s.departmentExistsLocked(departmentID) {
		return Calendar{}, notFound("department", departmentID)
	}

	cal := Calendar{
		Month:        month,
		DepartmentID: departmentID,
		DaysInMonth:  start.AddDate(0, 1, -1).Day(),
		Rows:         []CalendarRow{},
	}
	for _, u := range s.users {
		if departmentID != "" && (u.DepartmentID == nil || *u.DepartmentID != departmentID) {
			continue
		}
		row := CalendarRow{User: copyUser(u), Days: make(map[int][]models.Task)}
		for _, t := range s.tasks {
			if t.AssigneeID != u.ID {
				continue
			}
			due, err := time.Parse(time.DateOnly, t.DueDate)
			if err != nil || due.Year() != start.Year() || due.Month() != start.Month() {
				continue
			}
			row.Days[due.Day()] = append(row.Days[due.Day()], copyTask(t))
		}
		cal.Rows = append(cal.Rows, row)
	}
	return cal, nil
}
