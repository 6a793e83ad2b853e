package core

import "context"

// AIProvider produces a single text answer for a prompt.
type AIProvider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}
