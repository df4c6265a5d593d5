package llm

import "context"

type GenerateOptions struct {
	Temperature float32
	MaxTokens   int
}

// Provider is the narrow contract with the generation service: one
// prompt in, one text result out.
type Provider interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}
