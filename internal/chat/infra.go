package chat

import (
	"context"
	"database/sql"
)

type repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) Repo {
	return &repo{db: db}
}

func (r *repo) SaveMessage(ctx context.Context, msg *Message) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO chat_messages (id, session_id, role_id, sender, content, is_user, is_interaction, user_id)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, NULLIF($8, ''))
	`,
		msg.ID,
		msg.SessionID,
		msg.RoleID,
		msg.Sender,
		msg.Content,
		msg.IsUser,
		msg.IsInteraction,
		msg.UserID,
	)
	return err
}

func (r *repo) History(ctx context.Context, sessionID string, limit int) ([]Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, coalesce(role_id, ''), sender, content, is_user, is_interaction,
		       coalesce(user_id, ''), extract(epoch from created_at)::bigint
		FROM (
			SELECT * FROM chat_messages
			WHERE session_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC
	`, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(
			&m.ID,
			&m.SessionID,
			&m.RoleID,
			&m.Sender,
			&m.Content,
			&m.IsUser,
			&m.IsInteraction,
			&m.UserID,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
