package driven

import (
	"context"
	"iter"
)

// AnswerGenerator produces answers from retrieved context.
// This is an optional service - when nil, answer generation is disabled.
//
// Implementations may include:
//   - Gemini on Vertex AI
//   - OpenAI chat models
//   - Anthropic Claude
type AnswerGenerator interface {
	// Generate streams the completion for prompt as text fragments.
	// Iteration stops at the first error.
	Generate(ctx context.Context, prompt string) iter.Seq2[string, error]

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
