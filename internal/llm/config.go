package llm

import (
	"fmt"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderNone       = "none"
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects the backend. Empty or "none" disables the coach's
	// LLM narrative and leaves only the built-in advice.
	Provider string `yaml:"provider"`

	Anthropic  ProviderConfig `yaml:"anthropic"`
	OpenAI     ProviderConfig `yaml:"openai"`
	Gemini     ProviderConfig `yaml:"gemini"`
	OpenRouter ProviderConfig `yaml:"openrouter"`
	Retry      RetryConfig    `yaml:"retry"`

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration `yaml:"timeout"`
}

// ProviderConfig is the per-backend credential and model choice.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// RetryConfig configures backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// DefaultConfig returns a disabled Config with model and retry defaults.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderNone,
		Anthropic:  ProviderConfig{Model: "claude-haiku"},
		OpenAI:     ProviderConfig{Model: "gpt-4o-mini"},
		Gemini:     ProviderConfig{Model: "gemini-flash"},
		OpenRouter: ProviderConfig{Model: "google/gemini-2.0-flash-001", BaseURL: defaultOpenRouterBaseURL},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// ApplyEnv overlays STUDYPLAN_* variables read through getenv. When no
// provider is selected it falls back to the first vendor key found
// (Anthropic, OpenAI, Gemini, OpenRouter).
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Provider, "STUDYPLAN_LLM_PROVIDER")
	set(&c.Anthropic.APIKey, "STUDYPLAN_ANTHROPIC_API_KEY")
	set(&c.Anthropic.Model, "STUDYPLAN_ANTHROPIC_MODEL")
	set(&c.OpenAI.APIKey, "STUDYPLAN_OPENAI_API_KEY")
	set(&c.OpenAI.Model, "STUDYPLAN_OPENAI_MODEL")
	set(&c.OpenAI.BaseURL, "STUDYPLAN_OPENAI_BASE_URL")
	set(&c.Gemini.APIKey, "STUDYPLAN_GEMINI_API_KEY")
	set(&c.Gemini.Model, "STUDYPLAN_GEMINI_MODEL")
	set(&c.OpenRouter.APIKey, "STUDYPLAN_OPENROUTER_API_KEY")
	set(&c.OpenRouter.Model, "STUDYPLAN_OPENROUTER_MODEL")

	if c.Enabled() {
		return
	}
	vendors := []struct {
		name string
		key  string
		dst  *ProviderConfig
	}{
		{ProviderAnthropic, "ANTHROPIC_API_KEY", &c.Anthropic},
		{ProviderOpenAI, "OPENAI_API_KEY", &c.OpenAI},
		{ProviderGemini, "GEMINI_API_KEY", &c.Gemini},
		{ProviderOpenRouter, "OPENROUTER_API_KEY", &c.OpenRouter},
	}
	for _, v := range vendors {
		if k := getenv(v.key); k != "" {
			c.Provider = v.name
			v.dst.APIKey = k
			return
		}
	}
}

// Enabled reports whether a provider is selected.
func (c Config) Enabled() bool {
	return c.Provider != "" && c.Provider != ProviderNone
}

// Validate checks that the selected provider has an API key.
func (c Config) Validate() error {
	var pc ProviderConfig
	switch c.Provider {
	case "", ProviderNone, ProviderMock:
		return nil
	case ProviderAnthropic:
		pc = c.Anthropic
	case ProviderOpenAI:
		pc = c.OpenAI
	case ProviderGemini:
		pc = c.Gemini
	case ProviderOpenRouter:
		pc = c.OpenRouter
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if pc.APIKey == "" {
		return fmt.Errorf("an API key is required for the %s provider", c.Provider)
	}
	return nil
}
