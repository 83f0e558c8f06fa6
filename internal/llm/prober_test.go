package llm

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// probeStub scripts Probe outcomes per provider id without a network.
type probeStub struct {
	mu    sync.Mutex
	calls int
	slow  time.Duration
}

func (s *probeStub) Generate(context.Context, Config, []Message, string) (string, error) {
	return "", fmt.Errorf("not used")
}

func (s *probeStub) Probe(_ context.Context, cfg Config) ProbeResult {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.slow > 0 {
		time.Sleep(s.slow)
	}
	if cfg.APIKey == "" || cfg.Provider == "" {
		return ProbeResult{Status: ProbeIdle}
	}
	if cfg.Provider == "broken" {
		return ProbeResult{Status: ProbeError, Message: "no route to host"}
	}
	return ProbeResult{Status: ProbeSuccess, LatencyMS: 5}
}

func TestProbeAllIsolatesFailures(t *testing.T) {
	stub := &probeStub{}
	p := NewProber(stub)

	results := p.ProbeAll(context.Background(), map[string]Config{
		"a": {Provider: "dmxapi", APIKey: "abcdefghijkl"},
		"b": {Provider: "broken", APIKey: "abcdefghijkl"},
		"c": {},
	})

	require.Len(t, results, 3)
	assert.Equal(t, ProbeSuccess, results["a"].Status)
	assert.Equal(t, ProbeError, results["b"].Status)
	assert.Equal(t, "no route to host", results["b"].Message)
	assert.Equal(t, ProbeIdle, results["c"].Status)
}

func TestProbeOneTransitionsToTerminalState(t *testing.T) {
	stub := &probeStub{}
	p := NewProber(stub)

	res := p.ProbeOne(context.Background(), "x", Config{Provider: "dmxapi", APIKey: "abcdefghijkl"})
	assert.Equal(t, ProbeSuccess, res.Status)

	stored, ok := p.Board().Get("x")
	require.True(t, ok)
	assert.Equal(t, res, stored)
}

func TestStatusBoardConcurrentWrites(t *testing.T) {
	board := NewStatusBoard()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("role-%d", i)
			board.Set(id, ProbeResult{Status: ProbeTesting})
			board.Set(id, ProbeResult{Status: ProbeSuccess, LatencyMS: int64(i)})
		}(i)
	}
	wg.Wait()

	snap := board.Snapshot()
	require.Len(t, snap, 50)
	for i := 0; i < 50; i++ {
		r := snap[fmt.Sprintf("role-%d", i)]
		assert.Equal(t, ProbeSuccess, r.Status)
		assert.Equal(t, int64(i), r.LatencyMS)
	}
}

// A superseding probe fully replaces the previous result for its key.
func TestStatusBoardOverwrite(t *testing.T) {
	board := NewStatusBoard()
	board.Set("a", ProbeResult{Status: ProbeError, Message: "old failure"})
	board.Set("a", ProbeResult{Status: ProbeSuccess, LatencyMS: 12})

	r, ok := board.Get("a")
	require.True(t, ok)
	assert.Equal(t, ProbeSuccess, r.Status)
	assert.Empty(t, r.Message)
}
