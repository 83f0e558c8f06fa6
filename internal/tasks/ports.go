package tasks

import "context"

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Task is one card on the board.
type Task struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Status         Status   `json:"status"`
	Priority       Priority `json:"priority"`
	Project        string   `json:"project,omitempty"`
	AssigneeRoleID string   `json:"assignee_role_id,omitempty"`
	DueDate        string   `json:"due_date,omitempty"`
	CreatedBy      string   `json:"created_by,omitempty"`
	CreatedAt      int64    `json:"created_at"`
}

// Filter narrows a board listing; zero values mean "any".
type Filter struct {
	Status         Status
	Priority       Priority
	Project        string
	AssigneeRoleID string
}

type Repo interface {
	List(ctx context.Context, f Filter) ([]Task, error)
	Get(ctx context.Context, id string) (Task, error)
	Create(ctx context.Context, task *Task) error
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, id string) error
}

type Service interface {
	List(ctx context.Context, f Filter) ([]Task, error)
	Get(ctx context.Context, id string) (Task, error)
	Save(ctx context.Context, task *Task, creatorUserID string) error
	Delete(ctx context.Context, id string) error
}
