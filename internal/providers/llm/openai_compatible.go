package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

type OpenAICompatible struct {
	baseProvider
	authHeader   string
	authPrefix   string
	extraHeaders map[string]string
	keyOptional  bool
}

type OpenAICompatibleConfig struct {
	Name         string
	EnvVar       string
	BaseURL      string
	APIKey       string
	Model        string
	AuthHeader   string // e.g., "Authorization"
	AuthPrefix   string // e.g., "Bearer "
	ExtraHeaders map[string]string
	// KeyOptional allows keyless local servers.
	KeyOptional bool
}

func NewOpenAICompatible(cfg OpenAICompatibleConfig, opts ...Option) *OpenAICompatible {
	return &OpenAICompatible{
		baseProvider: newBaseProvider(cfg.Name, cfg.EnvVar, cfg.BaseURL, cfg.APIKey, cfg.Model, opts),
		authHeader:   cfg.AuthHeader,
		authPrefix:   cfg.AuthPrefix,
		extraHeaders: cfg.ExtraHeaders,
		keyOptional:  cfg.KeyOptional,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (o *OpenAICompatible) Generate(ctx context.Context, prompt string) (string, error) {
	if !o.keyOptional {
		if err := o.requireKey(); err != nil {
			return "", err
		}
	}

	payload := map[string]any{
		"model":    o.model,
		"messages": []chatMessage{{Role: "user", Content: prompt}},
	}

	headers := make(map[string]string)
	if o.authHeader != "" && o.apiKey != "" {
		headers[o.authHeader] = o.authPrefix + o.apiKey
	}
	for k, v := range o.extraHeaders {
		headers[k] = v
	}

	return o.post(ctx, "/v1/chat/completions", payload, headers, parseChatCompletion)
}

func parseChatCompletion(data []byte) (string, error) {
	var result struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return result.Choices[0].Message.Content, nil
}
