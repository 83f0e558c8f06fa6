package chat

import (
	"context"

	"github.com/sevensons/ai-roles-bridge/internal/roles"
)

// Message is one persisted chat line, user- or AI-authored.
type Message struct {
	ID            string `json:"id"`
	SessionID     string `json:"session_id"`
	RoleID        string `json:"role_id,omitempty"`
	Sender        string `json:"sender"`
	Content       string `json:"content"`
	IsUser        bool   `json:"is_user"`
	IsInteraction bool   `json:"is_interaction"`
	UserID        string `json:"user_id,omitempty"`
	CreatedAt     int64  `json:"created_at"`
}

// Reply is one entry of a delivery plan. The caller owns the timing:
// DelayMS says when the entry should appear relative to the user turn,
// the core never sleeps on its own.
type Reply struct {
	ID            string `json:"id"`
	RoleID        string `json:"roleId"`
	RoleName      string `json:"roleName"`
	Avatar        string `json:"avatar,omitempty"`
	Content       string `json:"content"`
	DelayMS       int64  `json:"delay"`
	IsInteraction bool   `json:"isInteraction"`
	IsApology     bool   `json:"-"`
}

type Repo interface {
	SaveMessage(ctx context.Context, msg *Message) error
	History(ctx context.Context, sessionID string, limit int) ([]Message, error)
}

// RoleSource hands the chat core a point-in-time snapshot of personas.
type RoleSource interface {
	List(ctx context.Context) ([]roles.Role, error)
	GetByName(ctx context.Context, name string) (roles.Role, error)
}

type Service interface {
	Chat(ctx context.Context, userText, roleName, sessionID, userID string) (Reply, error)
	GroupChat(ctx context.Context, userText, sessionID, userID string) ([]Reply, error)
	History(ctx context.Context, sessionID string, limit int) ([]Message, error)
}
