package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/chatlens/internal/config"
	"github.com/sandevgo/chatlens/internal/core"
	"github.com/sandevgo/chatlens/pkg/log"
)

// NewProvider creates the appropriate AIProvider based on configuration.
// Missing keys are not an error here; they surface on the first prompt.
func NewProvider(ctx context.Context, cfg *config.AIConfig, opts ...Option) (core.AIProvider, error) {
	log.FromCtx(ctx).Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Msg("starting llm provider")

	switch strings.ToLower(cfg.Provider) {
	case "gemini":
		return NewGemini(cfg.GeminiAPIKey, cfg.Model, opts...), nil
	case "openai":
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.Model, opts...), nil
	case "anthropic":
		return NewAnthropic(cfg.AnthropicAPIKey, cfg.Model, opts...), nil
	case "openrouter":
		return NewOpenRouter(cfg.OpenRouterAPIKey, cfg.Model, opts...), nil
	case "ollama":
		return NewOllama(cfg.OllamaBaseURL, cfg.OllamaAPIKey, cfg.Model, opts...), nil
	case "custom":
		if cfg.CustomOpenAIBaseURL == "" {
			return nil, fmt.Errorf("custom provider requires CUSTOM_OPENAI_BASE_URL")
		}
		return NewCustomOpenAI(cfg.CustomOpenAIBaseURL, cfg.CustomOpenAIAPIKey, cfg.Model, opts...), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
