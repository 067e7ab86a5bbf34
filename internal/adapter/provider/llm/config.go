package llm

import (
	"fmt"
	"time"
)

// Provider names accepted by NewProvider.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderMock      = "mock"
	ProviderNone      = "none"
)

// Config selects and configures one provider.
type Config struct {
	Provider string
	Model    string // friendly alias or raw model id; empty picks the provider default
	APIKey   string
	BaseURL  string // openai only; OpenRouter and other compatible APIs
	Timeout  time.Duration
}

// Validate checks that the selected provider can be constructed.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini:
		if c.APIKey == "" {
			return fmt.Errorf("llm.api_key is required for the %s provider", c.Provider)
		}
	case ProviderMock, ProviderNone, "":
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}

// Enabled reports whether a provider is configured at all.
func (c Config) Enabled() bool {
	return c.Provider != "" && c.Provider != ProviderNone
}

func (c Config) modelOr(def string) string {
	if c.Model == "" {
		return def
	}
	return c.Model
}
