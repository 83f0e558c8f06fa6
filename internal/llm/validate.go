package llm

import "strings"

const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2048

	maxTemperature = 2.0
	maxTokensLimit = 8192
)

// Substrings that mark a key as an unconfigured default left in place.
// Such keys block dispatch regardless of provider.
var placeholderMarks = []string{
	"your_", "your-api-key", "test-demo-key", "sk-test-", "xxxxxxxx",
}

// ValidateKey applies the provider's syntactic key rule. It is purely
// local and must pass before any network call, both in the interactive
// test path and in chat dispatch.
func ValidateKey(provider, key string) error {
	spec, err := Resolve(provider)
	if err != nil {
		return err
	}

	k := strings.TrimSpace(key)
	if k == "" {
		return configErrf("api key must not be empty")
	}
	for _, mark := range placeholderMarks {
		if strings.Contains(k, mark) {
			return configErrf("api key looks like a placeholder (contains %q)", mark)
		}
	}
	if spec.KeyPrefix != "" && !strings.HasPrefix(k, spec.KeyPrefix) {
		return configErrf("%s key must start with %q and be at least %d characters",
			spec.Label, spec.KeyPrefix, spec.KeyMinLen)
	}
	if len(k) < spec.KeyMinLen {
		return configErrf("%s key too short: need at least %d characters", spec.Label, spec.KeyMinLen)
	}
	return nil
}

// NormalizeConfig validates cfg and fills documented defaults. Out-of-range
// values are rejected, never clamped; defaults apply only to absent fields.
func NormalizeConfig(cfg Config) (Config, error) {
	spec, err := Resolve(cfg.Provider)
	if err != nil {
		return cfg, err
	}
	if err := ValidateKey(cfg.Provider, cfg.APIKey); err != nil {
		return cfg, err
	}

	if cfg.Temperature == nil {
		t := DefaultTemperature
		cfg.Temperature = &t
	} else if *cfg.Temperature < 0 || *cfg.Temperature > maxTemperature {
		return cfg, configErrf("temperature %.2f out of range [0, %.0f]", *cfg.Temperature, maxTemperature)
	}

	if cfg.MaxTokens == nil {
		n := DefaultMaxTokens
		cfg.MaxTokens = &n
	} else if *cfg.MaxTokens < 1 || *cfg.MaxTokens > maxTokensLimit {
		return cfg, configErrf("max tokens %d out of range [1, %d]", *cfg.MaxTokens, maxTokensLimit)
	}

	if strings.TrimSpace(cfg.Model) == "" {
		if len(spec.DefaultModels) == 0 {
			return cfg, configErrf("provider %s has no default model; set one explicitly", cfg.Provider)
		}
		cfg.Model = spec.DefaultModels[0]
	}
	return cfg, nil
}
