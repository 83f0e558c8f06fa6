package roles

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/sjson"

	"github.com/sevensons/ai-roles-bridge/internal/llm"
)

type service struct {
	repo   Repo
	prober *llm.Prober
}

func NewService(repo Repo, prober *llm.Prober) Service {
	return &service{repo: repo, prober: prober}
}

func (s *service) List(ctx context.Context) ([]Role, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, id string) (Role, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByName(ctx context.Context, name string) (Role, error) {
	return s.repo.GetByName(ctx, name)
}

// Save creates or updates a role. The API config is revalidated on
// every save; an invalid binding is rejected outright rather than
// clamped or silently fixed.
func (s *service) Save(ctx context.Context, role *Role, ownerUserID string) error {
	if strings.TrimSpace(role.Name) == "" {
		return errors.New("role name must not be empty")
	}
	if role.HasAPI() {
		if _, err := llm.NormalizeConfig(role.API); err != nil {
			return err
		}
	}

	if ownerUserID != "" {
		settings, err := sjson.Set(settingsOrEmpty(role.Settings), "owner_user_id", ownerUserID)
		if err != nil {
			return err
		}
		role.Settings = settings
	}

	if role.ID == "" {
		role.ID = uuid.NewString()
		log.Printf("[roles] create %q id=%s provider=%s", role.Name, role.ID, role.API.Provider)
		return s.repo.Create(ctx, role)
	}
	log.Printf("[roles] update %q id=%s provider=%s", role.Name, role.ID, role.API.Provider)
	return s.repo.Update(ctx, role)
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// ProbeAll runs one connectivity check per stored role, concurrently.
// Roles without a provider binding get an idle entry without any
// network traffic.
func (s *service) ProbeAll(ctx context.Context) (map[string]llm.ProbeResult, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	targets := make(map[string]llm.Config, len(list))
	for _, role := range list {
		targets[role.ID] = role.API
	}
	return s.prober.ProbeAll(ctx, targets), nil
}

func (s *service) ProbeStatus() map[string]llm.ProbeResult {
	return s.prober.Board().Snapshot()
}
