package ai

import (
	"context"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator validates AI provider configurations.
type ConfigValidator struct{}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding validates an embedding configuration by pinging the provider.
func (v *ConfigValidator) ValidateEmbedding(ctx context.Context, settings *domain.EmbeddingSettings) error {
	svc, err := CreateAndValidateEmbeddingService(ctx, settings)
	if err != nil {
		return err
	}
	return svc.Close()
}

// ValidateAnswer validates an answer configuration by pinging the provider.
// An unconfigured provider is valid since answers are optional.
func (v *ConfigValidator) ValidateAnswer(ctx context.Context, settings *domain.AnswerSettings) error {
	gen, err := CreateAndValidateAnswerGenerator(ctx, settings)
	if err != nil || gen == nil {
		return err
	}
	return gen.Close()
}
