// Package vertex provides an embedding service adapter for Vertex AI
// text embedding models through the Google Gen AI SDK.
package vertex

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cloud.google.com/go/auth"
	"google.golang.org/genai"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel      = "text-multilingual-embedding-002"
	DefaultRegion     = "us-central1"
	DefaultTaskType   = "SEMANTIC_SIMILARITY"
	DefaultDimensions = 768
)

// Embedder is the subset of the genai models API used here.
type Embedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Config holds configuration for the Vertex AI embedding service.
type Config struct {
	// Project is the Google Cloud project id (required).
	Project string

	// Region is the Vertex AI location (default: us-central1).
	Region string

	// Model is the embedding model (default: text-multilingual-embedding-002).
	Model string

	// TaskType hints the intended use of the vectors (default: SEMANTIC_SIMILARITY).
	TaskType string

	// Credentials authenticates the client. Nil uses application default credentials.
	Credentials *auth.Credentials

	// Dimensions is the vector size the model produces.
	Dimensions int
}

// EmbeddingService generates embeddings using Vertex AI.
type EmbeddingService struct {
	embedder   Embedder
	model      string
	taskType   string
	dimensions int
}

// NewEmbeddingService creates a Vertex AI backed embedding service.
func NewEmbeddingService(ctx context.Context, cfg Config) (*EmbeddingService, error) {
	if cfg.Project == "" {
		return nil, errors.New("vertex: project is required")
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend:     genai.BackendVertexAI,
		Project:     cfg.Project,
		Location:    cfg.Region,
		Credentials: cfg.Credentials,
	})
	if err != nil {
		return nil, fmt.Errorf("vertex: creating client: %w", err)
	}
	return NewWithEmbedder(client.Models, cfg), nil
}

// NewWithEmbedder creates the service around an existing embedder.
func NewWithEmbedder(e Embedder, cfg Config) *EmbeddingService {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.TaskType == "" {
		cfg.TaskType = DefaultTaskType
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}
	return &EmbeddingService{
		embedder:   e,
		model:      cfg.Model,
		taskType:   cfg.TaskType,
		dimensions: cfg.Dimensions,
	}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, errors.New("vertex: no embedding returned")
	}
	return embeddings[0], nil
}

// EmbedBatch embeds every text in one request, preserving order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}

	resp, err := s.embedder.EmbedContent(ctx, s.model, contents, &genai.EmbedContentConfig{
		TaskType: s.taskType,
	})
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("vertex: got %d embeddings for %d texts", len(resp.Embeddings), len(texts))
	}

	out := make([][]float32, len(texts))
	for i, e := range resp.Embeddings {
		out[i] = e.Values
	}
	return out, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping embeds a single short string.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if _, err := s.Embed(ctx, "ping"); err != nil {
		return fmt.Errorf("vertex: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// classify marks throttling and server errors as transient.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && (apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError) {
		return fmt.Errorf("vertex: %v: %w", err, domain.ErrTransient)
	}
	return fmt.Errorf("vertex: %w", err)
}
