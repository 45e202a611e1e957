package llm

import "context"

type Provider interface {
	// GenerateContent runs one single-shot completion and returns the full text.
	GenerateContent(ctx context.Context, prompt string) (string, error)
	ModelName() string
	Close() error
}
