package driving

import (
	"context"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// Validate checks the settings needed by ingest and search are present.
	Validate() error

	// SetStoreBackend selects the vector store backend.
	SetStoreBackend(backend domain.StoreBackend) error

	// SetEmbeddingProvider selects the embedding provider with an optional model and API key.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetAnswerProvider selects the answer provider with an optional model and API key.
	SetAnswerProvider(provider domain.AIProvider, model, apiKey string) error

	// ValidateEmbeddingConfig checks the embedding provider is reachable.
	ValidateEmbeddingConfig(ctx context.Context) error

	// ValidateAnswerConfig checks the answer provider is reachable.
	ValidateAnswerConfig(ctx context.Context) error
}
