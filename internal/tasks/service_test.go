package tasks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	byID map[string]Task
}

func newMemRepo() *memRepo {
	return &memRepo{byID: map[string]Task{}}
}

func (m *memRepo) List(_ context.Context, f Filter) ([]Task, error) {
	var out []Task
	for _, t := range m.byID {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		if f.Project != "" && t.Project != f.Project {
			continue
		}
		if f.AssigneeRoleID != "" && t.AssigneeRoleID != f.AssigneeRoleID {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *memRepo) Get(_ context.Context, id string) (Task, error) {
	t, ok := m.byID[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	return t, nil
}

func (m *memRepo) Create(_ context.Context, task *Task) error {
	m.byID[task.ID] = *task
	return nil
}

func (m *memRepo) Update(_ context.Context, task *Task) error {
	if _, ok := m.byID[task.ID]; !ok {
		return ErrNotFound
	}
	m.byID[task.ID] = *task
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func TestSaveDefaultsAndCreator(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	task := Task{Title: "write docs"}
	require.NoError(t, svc.Save(context.Background(), &task, "u-3"))
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, StatusTodo, task.Status)
	assert.Equal(t, PriorityMedium, task.Priority)
	assert.Equal(t, "u-3", task.CreatedBy)
}

func TestSaveRejectsBadValues(t *testing.T) {
	svc := NewService(newMemRepo())

	assert.Error(t, svc.Save(context.Background(), &Task{Title: " "}, ""))
	assert.Error(t, svc.Save(context.Background(), &Task{Title: "x", Status: "blocked"}, ""))
	assert.Error(t, svc.Save(context.Background(), &Task{Title: "x", Priority: "urgent"}, ""))
}

func TestListFilter(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	a := Task{Title: "a", Status: StatusTodo, Project: "alpha"}
	b := Task{Title: "b", Status: StatusDone, Project: "alpha"}
	c := Task{Title: "c", Status: StatusTodo, Project: "beta"}
	for _, task := range []*Task{&a, &b, &c} {
		require.NoError(t, svc.Save(context.Background(), task, ""))
	}

	got, err := svc.List(context.Background(), Filter{Status: StatusTodo, Project: "alpha"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Title)
}
