// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/auth"
	"cloud.google.com/go/auth/oauth2adapt"
	"golang.org/x/oauth2/google"

	openaiembed "github.com/pmatancambium/cambium-procedures/internal/adapters/driven/embedding/openai"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driven/embedding/resilient"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driven/embedding/vertex"
	anthropicllm "github.com/pmatancambium/cambium-procedures/internal/adapters/driven/llm/anthropic"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driven/llm/gemini"
	openaillm "github.com/pmatancambium/cambium-procedures/internal/adapters/driven/llm/openai"
	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// cloudPlatformScope is the OAuth scope Vertex AI requires.
const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
func CreateAndValidateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: provider not configured", domain.ErrEmbeddingUnavailable)
	}

	svc, err := CreateEmbeddingService(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}

// CreateAndValidateAnswerGenerator creates an answer generator and validates connectivity.
// Returns nil without error when no answer provider is configured.
func CreateAndValidateAnswerGenerator(ctx context.Context, settings *domain.AnswerSettings) (driven.AnswerGenerator, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	gen, err := CreateAnswerGenerator(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAnswerUnavailable, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := gen.Ping(pingCtx); err != nil {
		gen.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrAnswerUnavailable, err)
	}
	return gen, nil
}

// CreateEmbeddingService creates the embedding service for the configured provider,
// wrapped in the retry policy.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	var (
		svc driven.EmbeddingService
		err error
	)
	switch settings.Provider {
	case domain.AIProviderVertex:
		svc, err = createVertexEmbedding(ctx, settings)
	case domain.AIProviderOpenAI:
		svc, err = createOpenAIEmbedding(settings)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
	if err != nil {
		return nil, err
	}
	return resilient.New(svc, settings.Retry), nil
}

// CreateAnswerGenerator creates the answer generator for the configured provider.
// Returns nil if the provider is not configured.
func CreateAnswerGenerator(ctx context.Context, settings *domain.AnswerSettings) (driven.AnswerGenerator, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderGemini:
		return createGeminiGenerator(ctx, settings)

	case domain.AIProviderOpenAI:
		return openaillm.NewGenerator(openaillm.Config{
			APIKey:    settings.APIKey,
			BaseURL:   settings.BaseURL,
			Model:     settings.Model,
			MaxTokens: settings.MaxTokens,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewGenerator(anthropicllm.Config{
			APIKey:    settings.APIKey,
			BaseURL:   settings.BaseURL,
			Model:     settings.Model,
			MaxTokens: settings.MaxTokens,
		})

	default:
		return nil, fmt.Errorf("unsupported answer provider: %s", settings.Provider)
	}
}

// GoogleCredentials loads credentials for Vertex AI.
// An empty file falls back to application default credentials.
func GoogleCredentials(ctx context.Context, file string) (*auth.Credentials, error) {
	var (
		creds *google.Credentials
		err   error
	)
	if file == "" {
		creds, err = google.FindDefaultCredentials(ctx, cloudPlatformScope)
	} else {
		var data []byte
		data, err = os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading credentials file: %w", err)
		}
		creds, err = google.CredentialsFromJSON(ctx, data, cloudPlatformScope)
	}
	if err != nil {
		return nil, fmt.Errorf("loading google credentials: %w", err)
	}
	return oauth2adapt.AuthCredentialsFromOauth2Credentials(creds), nil
}

// createVertexEmbedding creates a Vertex AI embedding service.
func createVertexEmbedding(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	creds, err := GoogleCredentials(ctx, settings.CredentialsFile)
	if err != nil {
		return nil, err
	}

	return vertex.NewEmbeddingService(ctx, vertex.Config{
		Project:     settings.Project,
		Region:      settings.Region,
		Model:       settings.Model,
		TaskType:    settings.TaskType,
		Credentials: creds,
		Dimensions:  domain.EmbeddingDimensions()[settings.Model],
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: domain.EmbeddingDimensions()[settings.Model],
	})
}

// createGeminiGenerator creates a Gemini answer generator.
func createGeminiGenerator(ctx context.Context, settings *domain.AnswerSettings) (driven.AnswerGenerator, error) {
	creds, err := GoogleCredentials(ctx, settings.CredentialsFile)
	if err != nil {
		return nil, err
	}

	return gemini.NewGenerator(ctx, gemini.Config{
		Project:     settings.Project,
		Region:      settings.Region,
		Model:       settings.Model,
		MaxTokens:   settings.MaxTokens,
		Credentials: creds,
	})
}
