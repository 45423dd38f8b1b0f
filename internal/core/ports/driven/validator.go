package driven

import (
	"context"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
)

// AIConfigValidator checks provider credentials by making a test request.
type AIConfigValidator interface {
	// ValidateEmbedding pings the configured embedding provider.
	ValidateEmbedding(ctx context.Context, settings *domain.EmbeddingSettings) error

	// ValidateAnswer pings the configured answer provider.
	ValidateAnswer(ctx context.Context, settings *domain.AnswerSettings) error
}
