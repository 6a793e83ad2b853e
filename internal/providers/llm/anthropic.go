package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

const anthropicVersion = "2023-06-01"

type Anthropic struct {
	baseProvider
}

func NewAnthropic(apiKey, model string, opts ...Option) *Anthropic {
	return &Anthropic{
		baseProvider: newBaseProvider("Anthropic", "ANTHROPIC_API_KEY", "https://api.anthropic.com", apiKey, model, opts),
	}
}

func (a *Anthropic) Generate(ctx context.Context, prompt string) (string, error) {
	if err := a.requireKey(); err != nil {
		return "", err
	}

	payload := map[string]any{
		"model":      a.model,
		"max_tokens": 4096,
		"messages":   []chatMessage{{Role: "user", Content: prompt}},
	}

	headers := map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": anthropicVersion,
	}

	return a.post(ctx, "/v1/messages", payload, headers, func(data []byte) (string, error) {
		var result struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		}
		if err := json.Unmarshal(data, &result); err != nil {
			return "", fmt.Errorf("decode: %w", err)
		}

		var text string
		for _, c := range result.Content {
			if c.Type == "text" {
				text += c.Text
			}
		}
		if text == "" {
			return "", ErrEmptyResponse
		}
		return text, nil
	})
}
