package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevensons/ai-roles-bridge/internal/llm"
	"github.com/sevensons/ai-roles-bridge/internal/roles"
)

// genStub answers every persona from a canned function, counting calls.
type genStub struct {
	mu    sync.Mutex
	calls int
	reply func(cfg llm.Config, userText string) (string, error)
}

func (g *genStub) Generate(_ context.Context, cfg llm.Config, _ []llm.Message, userText string) (string, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	return g.reply(cfg, userText)
}

func (g *genStub) Probe(context.Context, llm.Config) llm.ProbeResult {
	return llm.ProbeResult{Status: llm.ProbeIdle}
}

func okStub() *genStub {
	return &genStub{reply: func(cfg llm.Config, userText string) (string, error) {
		return "reply to " + userText, nil
	}}
}

func failStub() *genStub {
	return &genStub{reply: func(llm.Config, string) (string, error) {
		return "", fmt.Errorf("provider down")
	}}
}

func testRoles(n int) []roles.Role {
	out := make([]roles.Role, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, roles.Role{
			ID:   fmt.Sprintf("role-%d", i),
			Name: fmt.Sprintf("Role %d", i),
			API:  llm.Config{Provider: "dmxapi", APIKey: "abcdefghijkl", Model: "grok-3-beta"},
		})
	}
	return out
}

func TestRunOneReplyPerPersona(t *testing.T) {
	stub := okStub()
	o := NewOrchestrator(stub, DefaultDelayPolicy(), NoInteractions{})

	replies := o.Run(context.Background(), testRoles(5), "hello")
	require.Len(t, replies, 5)
	assert.Equal(t, 5, stub.calls)

	seen := map[string]bool{}
	var prev int64 = -1
	for _, r := range replies {
		assert.False(t, seen[r.RoleID], "duplicate reply for %s", r.RoleID)
		seen[r.RoleID] = true
		assert.False(t, r.IsApology)
		assert.GreaterOrEqual(t, r.DelayMS, int64(0))
		assert.GreaterOrEqual(t, r.DelayMS, prev, "delays must not decrease in generation order")
		prev = r.DelayMS
	}
}

func TestRunFailureIsolation(t *testing.T) {
	stub := &genStub{reply: func(cfg llm.Config, userText string) (string, error) {
		if cfg.SystemPrompt != "" && strings.Contains(cfg.SystemPrompt, "Role 1") {
			return "", fmt.Errorf("timeout")
		}
		return "fine", nil
	}}
	o := NewOrchestrator(stub, DefaultDelayPolicy(), NoInteractions{})

	replies := o.Run(context.Background(), testRoles(3), "hello")
	require.Len(t, replies, 3)

	var apologies, direct int
	for _, r := range replies {
		if r.IsApology {
			apologies++
			assert.Equal(t, "role-1", r.RoleID)
		} else {
			direct++
			assert.Equal(t, "fine", r.Content)
		}
	}
	assert.Equal(t, 1, apologies)
	assert.Equal(t, 2, direct)
}

func TestRunAllFailuresStillDeliver(t *testing.T) {
	o := NewOrchestrator(failStub(), DefaultDelayPolicy(), NoInteractions{})

	replies := o.Run(context.Background(), testRoles(4), "hello")
	require.NotEmpty(t, replies)
	for _, r := range replies {
		assert.True(t, r.IsApology)
		assert.NotEmpty(t, r.Content)
	}
}

func TestRunNoTargetsYieldsSystemApology(t *testing.T) {
	o := NewOrchestrator(okStub(), DefaultDelayPolicy(), NoInteractions{})

	replies := o.Run(context.Background(), nil, "hello")
	require.Len(t, replies, 1)
	assert.True(t, replies[0].IsApology)
	assert.NotEmpty(t, replies[0].Content)
}

func TestRunInteractionsComeAfterReferencedReplies(t *testing.T) {
	// Two targets means an interaction always references both direct
	// replies, so its delay must beat both.
	delays := DelayPolicy{BaseMS: 100, StepMS: 100, JitterMS: 0}
	o := NewOrchestrator(okStub(), delays, RandomInteractions{Probability: 1})

	replies := o.Run(context.Background(), testRoles(2), "hello")
	require.Len(t, replies, 3)

	var maxDirect int64
	for _, r := range replies {
		if !r.IsInteraction && r.DelayMS > maxDirect {
			maxDirect = r.DelayMS
		}
	}
	var interactions int
	for _, r := range replies {
		if r.IsInteraction {
			interactions++
			assert.Greater(t, r.DelayMS, maxDirect,
				"interaction must land strictly after the replies it references")
			assert.Contains(t, r.Content, "@")
		}
	}
	require.Equal(t, 1, interactions)
}

// The orchestrator keeps no state between turns; two runs over the same
// targets are fully independent.
func TestRunStatelessAcrossTurns(t *testing.T) {
	stub := okStub()
	o := NewOrchestrator(stub, DefaultDelayPolicy(), NoInteractions{})

	first := o.Run(context.Background(), testRoles(2), "one")
	second := o.Run(context.Background(), testRoles(2), "two")
	require.Len(t, first, 2)
	require.Len(t, second, 2)
	assert.NotEqual(t, first[0].ID, second[0].ID)
	assert.Equal(t, "reply to two", second[0].Content)
}
