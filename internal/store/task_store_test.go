package store

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samhotchkiss/biztask/internal/models"
)

func TestStore_AddTask(t *testing.T) {
	s := newTestStore(t)
	events := collectEvents(t, s)
	before := s.Tasks(TaskFilter{})

	task, err := s.AddTask(CreateTaskInput{
		Title:       "  Viết tài liệu API  ",
		Description: "OpenAPI cho mobile",
		AssigneeID:  "u3",
		CreatorID:   "u2",
		ProjectID:   stringPtr("p1"),
		Priority:    models.TaskPriorityHigh,
		DueDate:     "2024-01-10",
	})
	require.NoError(t, err)

	assert.Equal(t, "id-1", task.ID)
	assert.Equal(t, "Viết tài liệu API", task.Title)
	assert.Equal(t, models.TaskStatusTodo, task.Status)
	assert.Equal(t, models.TaskPriorityHigh, task.Priority)
	assert.False(t, task.CreatedAt.Before(testNow))

	after := s.Tasks(TaskFilter{})
	require.Len(t, after, len(before)+1)
	assert.Equal(t, task.ID, after[0].ID, "new tasks are prepended")
	for _, old := range before {
		assert.NotEqual(t, old.ID, task.ID)
	}

	got := events()
	require.Len(t, got, 1)
	assert.Equal(t, EventTaskCreated, got[0].Type)
	assert.Equal(t, task.ID, got[0].Task.ID)
}

func TestStore_AddTaskDefaultsPriority(t *testing.T) {
	s := newTestStore(t)
	task, err := s.AddTask(CreateTaskInput{Title: "x", AssigneeID: "u3", CreatorID: "u1", ProjectID: stringPtr(" ")})
	require.NoError(t, err)
	assert.Equal(t, models.TaskPriorityMedium, task.Priority)
	assert.Nil(t, task.ProjectID)
}

func TestStore_AddTaskRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateTaskInput
		wantErr error
	}{
		{
			name:    "blank title",
			input:   CreateTaskInput{Title: "   ", AssigneeID: "u3", CreatorID: "u1"},
			wantErr: ErrValidation,
		},
		{
			name:    "missing assignee",
			input:   CreateTaskInput{Title: "x", CreatorID: "u1"},
			wantErr: ErrValidation,
		},
		{
			name:    "bad status",
			input:   CreateTaskInput{Title: "x", AssigneeID: "u3", CreatorID: "u1", Status: "BLOCKED"},
			wantErr: ErrValidation,
		},
		{
			name:    "bad priority",
			input:   CreateTaskInput{Title: "x", AssigneeID: "u3", CreatorID: "u1", Priority: "URGENT"},
			wantErr: ErrValidation,
		},
		{
			name:    "bad due date",
			input:   CreateTaskInput{Title: "x", AssigneeID: "u3", CreatorID: "u1", DueDate: "31/12/2023"},
			wantErr: ErrValidation,
		},
		{
			name:    "unknown assignee",
			input:   CreateTaskInput{Title: "x", AssigneeID: "u9", CreatorID: "u1"},
			wantErr: ErrNotFound,
		},
		{
			name:    "unknown creator",
			input:   CreateTaskInput{Title: "x", AssigneeID: "u3", CreatorID: "u9"},
			wantErr: ErrNotFound,
		},
		{
			name:    "unknown project",
			input:   CreateTaskInput{Title: "x", AssigneeID: "u3", CreatorID: "u1", ProjectID: stringPtr("p9")},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			_, err := s.AddTask(tt.input)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Len(t, s.Tasks(TaskFilter{}), 5)
		})
	}
}

func TestStore_UpdateTaskStatusEveryPair(t *testing.T) {
	for _, from := range models.TaskStatuses {
		for _, to := range models.TaskStatuses {
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				s := newTestStore(t)
				_, err := s.UpdateTaskStatus("t1", from)
				require.NoError(t, err)
				before, err := s.Task("t1")
				require.NoError(t, err)

				updated, err := s.UpdateTaskStatus("t1", to)
				require.NoError(t, err)
				assert.Equal(t, to, updated.Status)

				want := before
				want.Status = to
				if diff := cmp.Diff(want, updated); diff != "" {
					t.Fatalf("unexpected task change (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestStore_UpdateTaskStatusLeavesOtherTasksAlone(t *testing.T) {
	s := newTestStore(t)
	before := s.Tasks(TaskFilter{})

	_, err := s.UpdateTaskStatus("t2", models.TaskStatusDone)
	require.NoError(t, err)

	after := s.Tasks(TaskFilter{})
	before[1].Status = models.TaskStatusDone
	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("unexpected collection change (-want +got):\n%s", diff)
	}
}

func TestStore_UpdateTaskStatusErrors(t *testing.T) {
	s := newTestStore(t)
	events := collectEvents(t, s)
	before := s.Tasks(TaskFilter{})

	_, err := s.UpdateTaskStatus("t9", models.TaskStatusDone)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.UpdateTaskStatus("t1", "ARCHIVED")
	require.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, before, s.Tasks(TaskFilter{}))
	assert.Empty(t, events())
}

func TestStore_UpdateTaskStatusEvent(t *testing.T) {
	s := newTestStore(t)
	events := collectEvents(t, s)

	_, err := s.UpdateTaskStatus("t2", models.TaskStatusReview)
	require.NoError(t, err)

	got := events()
	require.Len(t, got, 1)
	assert.Equal(t, EventTaskStatusChanged, got[0].Type)
	assert.Equal(t, models.TaskStatusTodo, got[0].PreviousStatus)
	assert.Equal(t, models.TaskStatusReview, got[0].Task.Status)
}

func TestCanTransition(t *testing.T) {
	for _, from := range models.TaskStatuses {
		for _, to := range models.TaskStatuses {
			assert.True(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
	assert.False(t, CanTransition(models.TaskStatusTodo, "ARCHIVED"))
}

func TestStore_TasksFilter(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name    string
		filter  TaskFilter
		wantIDs []string
	}{
		{name: "all", filter: TaskFilter{}, wantIDs: []string{"t1", "t2", "t3", "t4", "t5"}},
		{name: "status", filter: TaskFilter{Status: models.TaskStatusInProgress}, wantIDs: []string{"t1", "t5"}},
		{name: "project", filter: TaskFilter{ProjectID: "p2"}, wantIDs: []string{"t3", "t4"}},
		{name: "status and project", filter: TaskFilter{Status: models.TaskStatusDone, ProjectID: "p2"}, wantIDs: []string{"t4"}},
		{name: "assignee", filter: TaskFilter{AssigneeID: "u3"}, wantIDs: []string{"t1", "t2"}},
		{name: "no match", filter: TaskFilter{ProjectID: "p9"}, wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := []string{}
			for _, task := range s.Tasks(tt.filter) {
				ids = append(ids, task.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}
