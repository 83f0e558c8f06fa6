package llm

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message — one turn of a conversation in provider wire terms.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Config is a persona's binding to a chat-completion provider.
// Temperature and MaxTokens are pointers so an absent field can be
// told apart from an explicit zero; defaults are substituted only
// when the field is nil.
type Config struct {
	Provider     string   `json:"provider"`
	APIKey       string   `json:"apiKey"`
	Model        string   `json:"model"`
	Host         string   `json:"host,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
	MaxTokens    *int     `json:"maxTokens,omitempty"`
	SystemPrompt string   `json:"systemPrompt,omitempty"`
}

// Generator turns a validated Config plus a user message into reply text.
// Implementations must be safe for concurrent use.
type Generator interface {
	Generate(ctx context.Context, cfg Config, history []Message, userText string) (string, error)
	Probe(ctx context.Context, cfg Config) ProbeResult
}
