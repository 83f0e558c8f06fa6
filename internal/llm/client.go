package llm

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Client dispatches chat completions to whichever OpenAI-compatible
// provider a Config points at. One Client is shared by all personas;
// per-call provider bindings are cheap.
type Client struct {
	http *http.Client
}

func NewClient(policy RetryPolicy) *Client {
	return &Client{http: NewHTTPClient(policy)}
}

// completionClient binds the shared transport to one config's endpoint
// and credential.
func (c *Client) completionClient(cfg Config, spec ProviderSpec) (*openai.Client, error) {
	endpoint, err := spec.ChatEndpoint(cfg.Host)
	if err != nil {
		return nil, err
	}
	oc := openai.DefaultConfig(strings.TrimSpace(cfg.APIKey))
	oc.BaseURL = strings.TrimSuffix(endpoint, "/chat/completions")
	oc.HTTPClient = c.http
	return openai.NewClientWithConfig(oc), nil
}

func (c *Client) Generate(ctx context.Context, cfg Config, history []Message, userText string) (string, error) {
	cfg, err := NormalizeConfig(cfg)
	if err != nil {
		return "", err
	}
	spec, err := Resolve(cfg.Provider)
	if err != nil {
		return "", err
	}
	if !spec.Dispatch {
		return "", configErrf("provider %s cannot be used for live chat", cfg.Provider)
	}
	cli, err := c.completionClient(cfg, spec)
	if err != nil {
		return "", err
	}

	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	if prompt := strings.TrimSpace(cfg.SystemPrompt); prompt != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: prompt,
		})
	}
	for _, m := range history {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userText,
	})

	resp, err := cli.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       cfg.Model,
		Messages:    msgs,
		Temperature: float32(*cfg.Temperature),
		MaxTokens:   *cfg.MaxTokens,
	})
	if err != nil {
		log.Printf("[llm] %s completion error: %v", cfg.Provider, err)
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", newErr(KindParse, nil, "provider returned no choices")
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", newErr(KindParse, nil, "provider returned empty message content")
	}
	return content, nil
}

// Probe sends a one-token completion to measure reachability and latency.
// A config with no key or provider is reported idle without any network
// call; format-only providers succeed on key format alone.
func (c *Client) Probe(ctx context.Context, cfg Config) ProbeResult {
	if strings.TrimSpace(cfg.APIKey) == "" || strings.TrimSpace(cfg.Provider) == "" {
		return ProbeResult{Status: ProbeIdle}
	}
	if err := ValidateKey(cfg.Provider, cfg.APIKey); err != nil {
		return ProbeResult{Status: ProbeError, Message: err.Error()}
	}
	spec, err := Resolve(cfg.Provider)
	if err != nil {
		return ProbeResult{Status: ProbeError, Message: err.Error()}
	}
	if !spec.Dispatch {
		return ProbeResult{Status: ProbeSuccess, Message: "key format accepted (no live call for this provider)"}
	}
	cli, err := c.completionClient(cfg, spec)
	if err != nil {
		return ProbeResult{Status: ProbeError, Message: err.Error()}
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" && len(spec.DefaultModels) > 0 {
		model = spec.DefaultModels[0]
	}

	start := time.Now()
	_, err = cli.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are an AI assistant."},
			{Role: openai.ChatMessageRoleUser, Content: `Reply with "ok".`},
		},
		Temperature: 0.7,
		MaxTokens:   10,
	})
	if err != nil {
		return ProbeResult{Status: ProbeError, Message: classify(err).Message}
	}
	return ProbeResult{Status: ProbeSuccess, LatencyMS: time.Since(start).Milliseconds()}
}

// classify maps a go-openai error onto the gateway taxonomy. The message
// a provider sends in its error body is kept as the surfaced string.
func classify(err error) *Error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = "provider request failed: " + apiErr.Error()
		}
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests ||
			apiErr.HTTPStatusCode >= http.StatusInternalServerError {
			return newErr(KindTransient, err, "%s", msg)
		}
		return newErr(KindProvider, err, "%s", msg)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode >= http.StatusInternalServerError {
			return newErr(KindTransient, err, "provider unavailable (HTTP %d)", reqErr.HTTPStatusCode)
		}
		return newErr(KindProvider, err, "provider rejected the request (HTTP %d)", reqErr.HTTPStatusCode)
	}
	return newErr(KindTransient, err, "provider unreachable: %v", err)
}
