package store

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samhotchkiss/biztask/internal/models"
)

func TestStore_Dashboard(t *testing.T) {
	s := newTestStore(t)

	d := s.Dashboard()
	assert.Equal(t, 5, d.TotalTasks)
	assert.Equal(t, map[models.TaskStatus]int{
		models.TaskStatusTodo:       1,
		models.TaskStatusInProgress: 2,
		models.TaskStatusReview:     1,
		models.TaskStatusDone:       1,
	}, d.StatusCounts)
	assert.Empty(t, d.MyOpenTasks)
	assert.Len(t, d.Departments, 3)
	assert.Len(t, d.Partners, 3)

	online := []string{}
	for _, u := range d.OnlineUsers {
		online = append(online, u.ID)
	}
	assert.Equal(t, []string{"u1", "u2", "u4"}, online)

	_, err := s.Login(models.RoleEmployee, "")
	require.NoError(t, err)
	_, err = s.UpdateTaskStatus("t2", models.TaskStatusDone)
	require.NoError(t, err)

	d = s.Dashboard()
	require.Len(t, d.MyOpenTasks, 1)
	assert.Equal(t, "t1", d.MyOpenTasks[0].ID)
	assert.Equal(t, 2, d.StatusCounts[models.TaskStatusDone])
	assert.Equal(t, 0, d.StatusCounts[models.TaskStatusTodo])
}

func TestStore_KPI(t *testing.T) {
	s := newTestStore(t)
	_, err := s.UpdateTaskStatus("t1", models.TaskStatusDone)
	require.NoError(t, err)

	got := s.KPI()
	want := []UserKPI{
		{UserID: "u4", Total: 1, Completed: 1, Rate: 100},
		{UserID: "u3", Total: 2, Completed: 1, Rate: 50},
		{UserID: "u2", Total: 1, Completed: 0, Rate: 0},
		{UserID: "u5", Total: 1, Completed: 0, Rate: 0},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(UserKPI{}, "Name", "Avatar")); diff != "" {
		t.Fatalf("unexpected KPI (-want +got):\n%s", diff)
	}
}

func TestStore_KPIRounds(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AddTask(CreateTaskInput{Title: "a", AssigneeID: "u4", CreatorID: "u1"})
	require.NoError(t, err)
	_, err = s.AddTask(CreateTaskInput{Title: "b", AssigneeID: "u4", CreatorID: "u1"})
	require.NoError(t, err)

	for _, k := range s.KPI() {
		if k.UserID == "u4" {
			assert.Equal(t, 3, k.Total)
			assert.Equal(t, 33, k.Rate)
			return
		}
	}
	t.Fatal("u4 missing from KPI")
}

func TestStore_Calendar(t *testing.T) {
	s := newTestStore(t)

	cal, err := s.Calendar("2023-12", "")
	require.NoError(t, err)
	assert.Equal(t, 31, cal.DaysInMonth)
	require.Len(t, cal.Rows, 5)

	u3 := cal.Rows[2]
	assert.Equal(t, "u3", u3.User.ID)
	require.Len(t, u3.Days[31], 1)
	assert.Equal(t, "t1", u3.Days[31][0].ID)
	require.Len(t, u3.Days[25], 1)
	assert.Equal(t, "t2", u3.Days[25][0].ID)

	assert.Empty(t, cal.Rows[0].Days, "admin has no tasks")
	assert.Empty(t, cal.Rows[1].Days, "t3 is due in January")
}

func TestStore_CalendarByDepartment(t *testing.T) {
	s := newTestStore(t)

	cal, err := s.Calendar("2024-01", "d1")
	require.NoError(t, err)
	assert.Equal(t, 31, cal.DaysInMonth)

	ids := []string{}
	for _, row := range cal.Rows {
		ids = append(ids, row.User.ID)
	}
	assert.Equal(t, []string{"u2", "u3"}, ids)
	require.Len(t, cal.Rows[0].Days[5], 1)
	assert.Equal(t, "t3", cal.Rows[0].Days[5][0].ID)

	feb, err := s.Calendar("2024-02", "")
	require.NoError(t, err)
	assert.Equal(t, 29, feb.DaysInMonth)
}

func TestStore_CalendarErrors(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Calendar("12-2023", "")
	require.ErrorIs(t, err, ErrValidation)

	_, err = s.Calendar("2023-12", "d9")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMenuForRole(t *testing.T) {
	ids := func(items []MenuItem) []string {
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, item.ID)
		}
		return out
	}

	assert.Equal(t,
		[]string{"dashboard", "departments", "employees", "tasks", "library", "calendar", "stats", "chat", "settings"},
		ids(MenuForRole(models.RoleAdmin)))
	assert.Equal(t,
		[]string{"dashboard", "employees", "tasks", "library", "calendar", "stats", "chat", "settings"},
		ids(MenuForRole(models.RoleManager)))
	assert.Equal(t,
		[]string{"dashboard", "tasks", "library", "calendar", "chat", "settings"},
		ids(MenuForRole(models.RoleEmployee)))
	assert.Empty(t, MenuForRole("GUEST"))
}
