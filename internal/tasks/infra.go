package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("task not found")

type repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) Repo {
	return &repo{db: db}
}

const taskColumns = `
	id, title, description, status, priority, coalesce(project, ''),
	coalesce(assignee_role_id, ''), coalesce(due_date, ''), coalesce(created_by, ''),
	extract(epoch from created_at)::bigint
`

func (r *repo) List(ctx context.Context, f Filter) ([]Task, error) {
	where := []string{"true"}
	args := []any{}
	add := func(cond string, val any) {
		args = append(args, val)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	if f.Priority != "" {
		add("priority = $%d", string(f.Priority))
	}
	if f.Project != "" {
		add("project = $%d", f.Project)
	}
	if f.AssigneeRoleID != "" {
		add("assignee_role_id = $%d", f.AssigneeRoleID)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY created_at DESC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(
			&t.ID,
			&t.Title,
			&t.Description,
			&t.Status,
			&t.Priority,
			&t.Project,
			&t.AssigneeRoleID,
			&t.DueDate,
			&t.CreatedBy,
			&t.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *repo) Get(ctx context.Context, id string) (Task, error) {
	var t Task
	err := r.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = $1
	`, id).Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&t.Project,
		&t.AssigneeRoleID,
		&t.DueDate,
		&t.CreatedBy,
		&t.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return t, err
}

func (r *repo) Create(ctx context.Context, task *Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, status, priority, project, assignee_role_id, due_date, created_by)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''))
	`,
		task.ID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		task.Project,
		task.AssigneeRoleID,
		task.DueDate,
		task.CreatedBy,
	)
	return err
}

func (r *repo) Update(ctx context.Context, task *Task) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = $2, description = $3, status = $4, priority = $5,
		    project = NULLIF($6, ''), assignee_role_id = NULLIF($7, ''),
		    due_date = NULLIF($8, ''), updated_at = now()
		WHERE id = $1
	`,
		task.ID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		task.Project,
		task.AssigneeRoleID,
		task.DueDate,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
