package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/chatlens/pkg/log"
)

// AIConfig selects the model used for open-ended prompts. Keys are not
// required at startup; a missing key is reported when a prompt is sent.
type AIConfig struct {
	Provider string `env:"AI_PROVIDER" envDefault:"gemini"`
	Model    string `env:"AI_MODEL"`

	GeminiAPIKey        string `env:"GEMINI_API_KEY"`
	OpenAIAPIKey        string `env:"OPENAI_API_KEY"`
	OpenRouterAPIKey    string `env:"OPENROUTER_API_KEY"`
	AnthropicAPIKey     string `env:"ANTHROPIC_API_KEY"`
	OllamaBaseURL       string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaAPIKey        string `env:"OLLAMA_API_KEY"`
	CustomOpenAIBaseURL string `env:"CUSTOM_OPENAI_BASE_URL"`
	CustomOpenAIAPIKey  string `env:"CUSTOM_OPENAI_API_KEY"`

	Timeout         time.Duration `env:"AI_TIMEOUT" envDefault:"60s"`
	MaxPromptTokens int           `env:"AI_MAX_PROMPT_TOKENS" envDefault:"30000"`
}

var defaultModels = map[string]string{
	"gemini":     "gemini-2.0-flash",
	"openai":     "gpt-4o-mini",
	"openrouter": "google/gemma-3-27b-it:free",
	"anthropic":  "claude-3-5-haiku-latest",
	"ollama":     "llama3.1",
}

func LoadAIConfig() (*AIConfig, error) {
	c := &AIConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	if c.Model == "" {
		c.Model = defaultModels[c.Provider]
	}
	return c, nil
}

func NewAIConfig(ctx context.Context) *AIConfig {
	c, err := LoadAIConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse AI config")
	}
	return c
}
