package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type service struct {
	repo Repo
}

func NewService(repo Repo) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, f Filter) ([]Task, error) {
	return s.repo.List(ctx, f)
}

func (s *service) Get(ctx context.Context, id string) (Task, error) {
	return s.repo.Get(ctx, id)
}

func (s *service) Save(ctx context.Context, task *Task, creatorUserID string) error {
	if strings.TrimSpace(task.Title) == "" {
		return fmt.Errorf("task title must not be empty")
	}
	if task.Status == "" {
		task.Status = StatusTodo
	}
	if task.Priority == "" {
		task.Priority = PriorityMedium
	}
	if !validStatus(task.Status) {
		return fmt.Errorf("unknown task status: %q", task.Status)
	}
	if !validPriority(task.Priority) {
		return fmt.Errorf("unknown task priority: %q", task.Priority)
	}

	if task.ID == "" {
		task.ID = uuid.NewString()
		task.CreatedBy = creatorUserID
		return s.repo.Create(ctx, task)
	}
	return s.repo.Update(ctx, task)
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func validStatus(v Status) bool {
	switch v {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

func validPriority(v Priority) bool {
	switch v {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
