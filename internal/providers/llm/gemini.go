package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com"

type Gemini struct {
	baseProvider
}

func NewGemini(apiKey, model string, opts ...Option) *Gemini {
	return &Gemini{
		baseProvider: newBaseProvider("Gemini", "GEMINI_API_KEY", geminiBaseURL, apiKey, model, opts),
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	if err := g.requireKey(); err != nil {
		return "", err
	}

	payload := map[string]any{
		"contents": []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	path := fmt.Sprintf("/v1beta/models/%s:generateContent?key=%s",
		url.PathEscape(g.model), url.QueryEscape(g.apiKey))

	return g.post(ctx, path, payload, nil, func(data []byte) (string, error) {
		var result struct {
			Candidates []struct {
				Content geminiContent `json:"content"`
			} `json:"candidates"`
		}
		if err := json.Unmarshal(data, &result); err != nil {
			return "", fmt.Errorf("decode: %w", err)
		}
		if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
			return "", ErrEmptyResponse
		}

		var sb strings.Builder
		for _, p := range result.Candidates[0].Content.Parts {
			sb.WriteString(p.Text)
		}
		return sb.String(), nil
	})
}
