package chat

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/sevensons/ai-roles-bridge/internal/llm"
	"github.com/sevensons/ai-roles-bridge/internal/roles"
)

const apologyText = "Sorry, I can't reply right now. Please try again in a moment."

// DelayPolicy staggers replies so a group turn reads like turn-taking
// instead of an instant burst. Jitter must stay at or below StepMS to
// keep delays non-decreasing in generation order; Run enforces the
// ordering either way.
type DelayPolicy struct {
	BaseMS   int64
	StepMS   int64
	JitterMS int64
}

func DefaultDelayPolicy() DelayPolicy {
	return DelayPolicy{BaseMS: 800, StepMS: 1200, JitterMS: 600}
}

// Interaction is a persona-to-persona aside referencing earlier replies
// of the same turn. Its delay is assigned by the orchestrator, strictly
// after every reply it reacts to.
type Interaction struct {
	RoleID   string
	RoleName string
	Avatar   string
	Content  string
	AfterIDs []string
}

// InteractionPolicy decides which asides, if any, a turn gets. The
// exact pairing and frequency is deliberately pluggable.
type InteractionPolicy interface {
	Plan(replies []Reply) []Interaction
}

// NoInteractions disables asides entirely.
type NoInteractions struct{}

func (NoInteractions) Plan([]Reply) []Interaction { return nil }

// RandomInteractions occasionally lets one persona comment on another
// persona's reply, quoting a snippet of it. No extra LLM calls.
type RandomInteractions struct {
	Probability float64
}

var interactionTemplates = []string{
	"@%s — well said. %q got me thinking.",
	"I'll push back on @%s a little: %q is not the whole picture.",
	"Adding to what @%s said — %q — I'd go one step further.",
}

func (p RandomInteractions) Plan(replies []Reply) []Interaction {
	var direct []Reply
	for _, r := range replies {
		if !r.IsApology && !r.IsInteraction {
			direct = append(direct, r)
		}
	}
	if len(direct) < 2 || rand.Float64() >= p.Probability {
		return nil
	}

	i := rand.Intn(len(direct))
	j := rand.Intn(len(direct) - 1)
	if j >= i {
		j++
	}
	from, to := direct[i], direct[j]

	tmpl := interactionTemplates[rand.Intn(len(interactionTemplates))]
	return []Interaction{{
		RoleID:   from.RoleID,
		RoleName: from.RoleName,
		Avatar:   from.Avatar,
		Content:  fmt.Sprintf(tmpl, to.RoleName, snippet(to.Content, 60)),
		AfterIDs: []string{from.ID, to.ID},
	}}
}

func snippet(s string, n int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// Orchestrator drives one group turn: fan out, collect, assign delays.
// It holds no per-turn state, so concurrent turns from different
// sessions are safe.
type Orchestrator struct {
	gen          llm.Generator
	delays       DelayPolicy
	interactions InteractionPolicy
}

func NewOrchestrator(gen llm.Generator, delays DelayPolicy, interactions InteractionPolicy) *Orchestrator {
	if interactions == nil {
		interactions = NoInteractions{}
	}
	return &Orchestrator{gen: gen, delays: delays, interactions: interactions}
}

// Run produces the delivery plan for one user turn. Every target role
// gets exactly one generation attempt; a failed attempt contributes
// that role's apology entry instead of blocking the others. The plan is
// never empty for a submitted turn.
func (o *Orchestrator) Run(ctx context.Context, targets []roles.Role, userText string) []Reply {
	type outcome struct {
		content string
		err     error
	}
	results := make([]outcome, len(targets))

	var wg sync.WaitGroup
	for i, role := range targets {
		wg.Add(1)
		go func(i int, role roles.Role) {
			defer wg.Done()
			content, err := o.gen.Generate(ctx, configFor(role), nil, userText)
			results[i] = outcome{content: content, err: err}
		}(i, role)
	}
	wg.Wait()

	replies := make([]Reply, 0, len(targets)+1)
	var prevDelay int64
	for i, role := range targets {
		reply := Reply{
			ID:       uuid.NewString(),
			RoleID:   role.ID,
			RoleName: role.Name,
			Avatar:   role.AvatarURL,
		}
		if err := results[i].err; err != nil {
			log.Printf("[chat] group reply failed role=%q kind=%s: %v", role.Name, llm.KindOf(err), err)
			reply.Content = apologyText
			reply.IsApology = true
		} else {
			reply.Content = results[i].content
		}

		delay := o.delays.BaseMS + int64(i)*o.delays.StepMS + jitter(o.delays.JitterMS)
		if delay < prevDelay {
			delay = prevDelay
		}
		reply.DelayMS = delay
		prevDelay = delay
		replies = append(replies, reply)
	}

	if len(replies) == 0 {
		return []Reply{{
			ID:        uuid.NewString(),
			RoleName:  "System",
			Content:   "Sorry, no AI role is available to reply right now. Please try again later.",
			DelayMS:   o.delays.BaseMS,
			IsApology: true,
		}}
	}

	for _, ia := range o.interactions.Plan(replies) {
		var after int64
		for _, r := range replies {
			for _, id := range ia.AfterIDs {
				if r.ID == id && r.DelayMS > after {
					after = r.DelayMS
				}
			}
		}
		replies = append(replies, Reply{
			ID:            uuid.NewString(),
			RoleID:        ia.RoleID,
			RoleName:      ia.RoleName,
			Avatar:        ia.Avatar,
			Content:       ia.Content,
			DelayMS:       after + o.delays.StepMS/2 + jitter(o.delays.JitterMS) + 1,
			IsInteraction: true,
		})
	}
	return replies
}

func jitter(max int64) int64 {
	if max <= 0 {
		return 0
	}
	return rand.Int63n(max)
}

// configFor folds a role's descriptive fields into the system prompt so
// the provider sees the persona, not just the raw prompt text.
func configFor(role roles.Role) llm.Config {
	cfg := role.API
	cfg.SystemPrompt = systemPromptFor(role)
	return cfg
}

func systemPromptFor(role roles.Role) string {
	var parts []string
	if p := strings.TrimSpace(role.API.SystemPrompt); p != "" {
		parts = append(parts, p)
	} else if role.Name != "" {
		intro := "You are " + role.Name + "."
		if d := strings.TrimSpace(role.Description); d != "" {
			intro += " " + d
		}
		parts = append(parts, intro)
	}
	if p := strings.TrimSpace(role.Personality); p != "" {
		parts = append(parts, "Personality: "+p)
	}
	if len(role.Specialties) > 0 {
		parts = append(parts, "Specialties: "+strings.Join(role.Specialties, ", "))
	}
	return strings.Join(parts, "\n\n")
}
