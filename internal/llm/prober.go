package llm

import (
	"context"
	"sync"
)

type ProbeStatus string

const (
	ProbeIdle    ProbeStatus = "idle"
	ProbeTesting ProbeStatus = "testing"
	ProbeSuccess ProbeStatus = "success"
	ProbeError   ProbeStatus = "error"
)

// ProbeResult is the outcome of one connectivity check. A newer result
// for the same key fully replaces the older one.
type ProbeResult struct {
	Status    ProbeStatus `json:"status"`
	LatencyMS int64       `json:"latency_ms,omitempty"`
	Message   string      `json:"message,omitempty"`
}

// StatusBoard holds the latest probe result per role id. Each in-flight
// probe writes only its own entry, so concurrent probes never touch
// each other's state.
type StatusBoard struct {
	mu      sync.RWMutex
	entries map[string]ProbeResult
}

func NewStatusBoard() *StatusBoard {
	return &StatusBoard{entries: make(map[string]ProbeResult)}
}

func (b *StatusBoard) Set(id string, r ProbeResult) {
	b.mu.Lock()
	b.entries[id] = r
	b.mu.Unlock()
}

func (b *StatusBoard) Get(id string) (ProbeResult, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	r, ok := b.entries[id]
	return r, ok
}

func (b *StatusBoard) Snapshot() map[string]ProbeResult {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]ProbeResult, len(b.entries))
	for id, r := range b.entries {
		out[id] = r
	}
	return out
}

// Prober runs connectivity checks and tracks their results per role.
type Prober struct {
	gen   Generator
	board *StatusBoard
}

func NewProber(gen Generator) *Prober {
	return &Prober{gen: gen, board: NewStatusBoard()}
}

func (p *Prober) Board() *StatusBoard {
	return p.board
}

// ProbeOne marks the role as testing, runs the check and records the
// terminal result.
func (p *Prober) ProbeOne(ctx context.Context, id string, cfg Config) ProbeResult {
	p.board.Set(id, ProbeResult{Status: ProbeTesting})
	res := p.gen.Probe(ctx, cfg)
	p.board.Set(id, res)
	return res
}

// ProbeAll checks every target concurrently and waits for all of them.
// One slow or failing probe never delays or fails another's entry.
func (p *Prober) ProbeAll(ctx context.Context, targets map[string]Config) map[string]ProbeResult {
	var wg sync.WaitGroup
	for id, cfg := range targets {
		wg.Add(1)
		go func(id string, cfg Config) {
			defer wg.Done()
			p.ProbeOne(ctx, id, cfg)
		}(id, cfg)
	}
	wg.Wait()

	out := make(map[string]ProbeResult, len(targets))
	for id := range targets {
		if r, ok := p.board.Get(id); ok {
			out[id] = r
		}
	}
	return out
}
