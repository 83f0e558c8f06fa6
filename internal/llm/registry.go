package llm

import "strings"

// ProviderSpec is one row of the static provider catalog. Specs are
// defined at init and never mutated.
type ProviderSpec struct {
	ID    string
	Label string

	// Endpoint pins the full completion URL for providers that do not
	// accept a custom host. Empty means the URL is built from a host.
	Endpoint string

	// DefaultHost is used when AllowHost is set and the config carries
	// no host override.
	DefaultHost string
	AllowHost   bool

	// Key format rule: optional literal prefix plus a minimum length.
	KeyPrefix string
	KeyMinLen int

	// DefaultModels[0] is the fallback model for dispatch and probes.
	DefaultModels []string

	// Dispatch is false for providers whose key format we accept but
	// whose API we never call live (the original app treated anthropic,
	// google and azure this way).
	Dispatch bool
}

var providers = map[string]ProviderSpec{
	"openai": {
		ID:        "openai",
		Label:     "OpenAI",
		Endpoint:  "https://api.openai.com/v1/chat/completions",
		KeyPrefix: "sk-",
		KeyMinLen: 20,
		DefaultModels: []string{
			"gpt-4-turbo-preview", "gpt-4", "gpt-3.5-turbo", "gpt-3.5-turbo-16k",
		},
		Dispatch: true,
	},
	"anthropic": {
		ID:        "anthropic",
		Label:     "Anthropic",
		KeyPrefix: "sk-ant-",
		KeyMinLen: 20,
		DefaultModels: []string{
			"claude-3-opus-20240229", "claude-3-sonnet-20240229", "claude-3-haiku-20240307",
		},
	},
	"google": {
		ID:            "google",
		Label:         "Google AI",
		KeyMinLen:     10,
		DefaultModels: []string{"gemini-pro", "gemini-pro-vision"},
	},
	"azure": {
		ID:            "azure",
		Label:         "Azure OpenAI",
		AllowHost:     true,
		KeyMinLen:     10,
		DefaultModels: []string{"gpt-4", "gpt-35-turbo"},
	},
	"chatanywhere": {
		ID:          "chatanywhere",
		Label:       "ChatAnywhere",
		AllowHost:   true,
		DefaultHost: "https://api.chatanywhere.tech",
		KeyPrefix:   "sk-",
		KeyMinLen:   10,
		DefaultModels: []string{
			"gpt-3.5-turbo", "deepseek", "gpt-4o", "gpt-5",
		},
		Dispatch: true,
	},
	"dmxapi": {
		ID:          "dmxapi",
		Label:       "DMXapi",
		AllowHost:   true,
		DefaultHost: "https://www.DMXapi.com",
		KeyMinLen:   10,
		DefaultModels: []string{
			"grok-3-beta", "gpt-4o", "gpt-4o-mini", "deepseek-v3",
			"gemini-1.5-pro", "claude-3-haiku-20240307",
		},
		Dispatch: true,
	},
	"local": {
		ID:            "local",
		Label:         "Local model",
		AllowHost:     true,
		DefaultHost:   "http://localhost:8000",
		DefaultModels: []string{"llama2-7b", "llama2-13b", "codellama-7b"},
		Dispatch:      true,
	},
}

// Resolve looks up a provider spec. An unknown id is a configuration
// error for the user, never a network problem.
func Resolve(id string) (ProviderSpec, error) {
	spec, ok := providers[strings.TrimSpace(id)]
	if !ok {
		return ProviderSpec{}, configErrf("unsupported provider: %q", id)
	}
	return spec, nil
}

// Providers returns the catalog in a stable order for listings.
func Providers() []ProviderSpec {
	ids := []string{"openai", "anthropic", "google", "azure", "chatanywhere", "dmxapi", "local"}
	out := make([]ProviderSpec, 0, len(ids))
	for _, id := range ids {
		out = append(out, providers[id])
	}
	return out
}

const completionPath = "/v1/chat/completions"

// ChatEndpoint resolves the completion URL for a config's host override.
// The build is idempotent: a host that already carries the version
// segment or the full completion path is not qualified twice.
func (p ProviderSpec) ChatEndpoint(host string) (string, error) {
	if p.Endpoint != "" {
		return p.Endpoint, nil
	}
	if !p.AllowHost {
		return "", configErrf("provider %s has no live chat endpoint", p.ID)
	}
	h := strings.TrimSpace(host)
	if h == "" {
		h = p.DefaultHost
	}
	if h == "" {
		return "", configErrf("provider %s requires a host", p.ID)
	}
	h = strings.TrimRight(h, "/")
	switch {
	case strings.HasSuffix(h, completionPath):
		return h, nil
	case strings.HasSuffix(h, "/v1"):
		return h + "/chat/completions", nil
	default:
		return h + completionPath, nil
	}
}
