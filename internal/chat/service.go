package chat

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"github.com/sevensons/ai-roles-bridge/internal/auth"
	"github.com/sevensons/ai-roles-bridge/internal/llm"
	"github.com/sevensons/ai-roles-bridge/internal/roles"
)

var ErrAuthRequired = errors.New("authentication required")

const historyLimit = 20

type service struct {
	repo        Repo
	roles       RoleSource
	gen         llm.Generator
	orch        *Orchestrator
	requireAuth bool
}

func NewService(repo Repo, roleSrc RoleSource, gen llm.Generator, orch *Orchestrator, requireAuth bool) Service {
	return &service{
		repo:        repo,
		roles:       roleSrc,
		gen:         gen,
		orch:        orch,
		requireAuth: requireAuth,
	}
}

// Chat generates one reply from one persona, with the session's recent
// history as context.
func (s *service) Chat(ctx context.Context, userText, roleName, sessionID, userID string) (Reply, error) {
	if err := s.checkAuth(ctx); err != nil {
		return Reply{}, err
	}

	role, err := s.roles.GetByName(ctx, roleName)
	if err != nil {
		return Reply{}, err
	}

	history, err := s.repo.History(ctx, sessionID, historyLimit)
	if err != nil {
		log.Printf("[chat] history load failed session=%s: %v", sessionID, err)
		history = nil
	}
	llmHistory := make([]llm.Message, 0, len(history))
	for _, m := range history {
		r := llm.RoleAssistant
		if m.IsUser {
			r = llm.RoleUser
		}
		llmHistory = append(llmHistory, llm.Message{Role: r, Content: m.Content})
	}

	content, err := s.gen.Generate(ctx, configFor(role), llmHistory, userText)
	if err != nil {
		return Reply{}, err
	}

	s.persistTurn(ctx, sessionID, userID, userText)
	s.persist(ctx, &Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		RoleID:    role.ID,
		Sender:    role.Name,
		Content:   content,
		UserID:    userID,
	})

	return Reply{
		ID:       uuid.NewString(),
		RoleID:   role.ID,
		RoleName: role.Name,
		Avatar:   role.AvatarURL,
		Content:  content,
	}, nil
}

// GroupChat fans one user message out to every AI-enabled persona and
// returns the delivery plan. Rendering on a timer is the caller's job.
func (s *service) GroupChat(ctx context.Context, userText, sessionID, userID string) ([]Reply, error) {
	if err := s.checkAuth(ctx); err != nil {
		return nil, err
	}

	list, err := s.roles.List(ctx)
	if err != nil {
		return nil, err
	}
	targets := make([]roles.Role, 0, len(list))
	for _, role := range list {
		if role.AIOnly() && role.HasAPI() {
			targets = append(targets, role)
		}
	}
	log.Printf("[chat] group turn session=%s targets=%d", sessionID, len(targets))

	replies := s.orch.Run(ctx, targets, userText)

	s.persistTurn(ctx, sessionID, userID, userText)
	for _, r := range replies {
		s.persist(ctx, &Message{
			ID:            r.ID,
			SessionID:     sessionID,
			RoleID:        r.RoleID,
			Sender:        r.RoleName,
			Content:       r.Content,
			IsInteraction: r.IsInteraction,
			UserID:        userID,
		})
	}
	return replies, nil
}

func (s *service) History(ctx context.Context, sessionID string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = historyLimit
	}
	return s.repo.History(ctx, sessionID, limit)
}

func (s *service) checkAuth(ctx context.Context) error {
	if !s.requireAuth {
		return nil
	}
	if _, ok := auth.FromContext(ctx); !ok {
		return ErrAuthRequired
	}
	return nil
}

func (s *service) persistTurn(ctx context.Context, sessionID, userID, text string) {
	s.persist(ctx, &Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Sender:    "user",
		Content:   text,
		IsUser:    true,
		UserID:    userID,
	})
}

// Persistence is best-effort: a storage hiccup must not eat a turn the
// providers already answered.
func (s *service) persist(ctx context.Context, msg *Message) {
	if err := s.repo.SaveMessage(ctx, msg); err != nil {
		log.Printf("[chat] save failed session=%s: %v", msg.SessionID, err)
	}
}
