package roles

import (
	"context"

	"github.com/tidwall/gjson"

	"github.com/sevensons/ai-roles-bridge/internal/llm"
)

// Role is one configured AI chat identity. The chat core treats loaded
// roles as a read-only snapshot; all mutation goes through this module.
type Role struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Personality string     `json:"personality"`
	Specialties []string   `json:"specialties"`
	AvatarURL   string     `json:"avatar_url"`
	API         llm.Config `json:"api_config"`

	// Settings is an arbitrary JSON bag owned by the frontend. Known
	// keys are read with gjson instead of a fixed schema.
	Settings  string `json:"settings"`
	CreatedAt int64  `json:"created_at"`
}

// AIOnly reports whether the role takes part in automated group replies.
// Absent means yes; only an explicit false opts a role out.
func (r Role) AIOnly() bool {
	v := gjson.Get(r.Settings, "ai_only")
	return !v.Exists() || v.Bool()
}

// OwnerUserID returns the owning user from the settings bag, if set.
func (r Role) OwnerUserID() string {
	return gjson.Get(r.Settings, "owner_user_id").String()
}

// HasAPI reports whether the role carries enough provider binding to
// even attempt a network call.
func (r Role) HasAPI() bool {
	return r.API.Provider != "" && r.API.APIKey != ""
}

type Repo interface {
	List(ctx context.Context) ([]Role, error)
	GetByID(ctx context.Context, id string) (Role, error)
	GetByName(ctx context.Context, name string) (Role, error)
	Create(ctx context.Context, role *Role) error
	Update(ctx context.Context, role *Role) error
	Delete(ctx context.Context, id string) error
}

type Service interface {
	List(ctx context.Context) ([]Role, error)
	Get(ctx context.Context, id string) (Role, error)
	GetByName(ctx context.Context, name string) (Role, error)
	Save(ctx context.Context, role *Role, ownerUserID string) error
	Delete(ctx context.Context, id string) error
	ProbeAll(ctx context.Context) (map[string]llm.ProbeResult, error)
	ProbeStatus() map[string]llm.ProbeResult
}
