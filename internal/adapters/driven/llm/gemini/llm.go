// Package gemini provides an answer generator adapter for Gemini models
// served from Vertex AI.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"

	"cloud.google.com/go/auth"
	"google.golang.org/genai"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driven"
)

// Ensure Generator implements the interface.
var _ driven.AnswerGenerator = (*Generator)(nil)

// Default configuration values.
const (
	DefaultModel  = "gemini-1.0-pro"
	DefaultRegion = "us-central1"
)

// Streamer is the subset of the genai models API used here.
type Streamer interface {
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
}

// Config holds configuration for the Gemini answer generator.
type Config struct {
	// Project is the Google Cloud project id (required).
	Project string

	// Region is the Vertex AI location (default: us-central1).
	Region string

	// Model is the Gemini model (default: gemini-1.0-pro).
	Model string

	// MaxTokens caps the answer length. Zero leaves it to the model.
	MaxTokens int

	// Credentials authenticates the client. Nil uses application default credentials.
	Credentials *auth.Credentials
}

// Generator streams answers from Gemini.
type Generator struct {
	streamer  Streamer
	model     string
	maxTokens int32
}

// NewGenerator creates a Gemini generator on the Vertex AI backend.
func NewGenerator(ctx context.Context, cfg Config) (*Generator, error) {
	if cfg.Project == "" {
		return nil, errors.New("gemini: project is required")
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
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}
	return NewWithStreamer(client.Models, cfg), nil
}

// NewWithStreamer creates the generator around an existing streamer.
func NewWithStreamer(s Streamer, cfg Config) *Generator {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Generator{
		streamer:  s,
		model:     cfg.Model,
		maxTokens: int32(cfg.MaxTokens),
	}
}

// Generate streams the text of each response chunk.
func (g *Generator) Generate(ctx context.Context, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		var config *genai.GenerateContentConfig
		if g.maxTokens > 0 {
			config = &genai.GenerateContentConfig{MaxOutputTokens: g.maxTokens}
		}

		contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
		for resp, err := range g.streamer.GenerateContentStream(ctx, g.model, contents, config) {
			if err != nil {
				yield("", classify(err))
				return
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			if !yield(text, nil) {
				return
			}
		}
	}
}

// ModelName returns the model being used.
func (g *Generator) ModelName() string {
	return g.model
}

// Ping generates a single token.
func (g *Generator) Ping(ctx context.Context) error {
	config := &genai.GenerateContentConfig{MaxOutputTokens: 1}
	contents := []*genai.Content{genai.NewContentFromText("ping", genai.RoleUser)}
	for _, err := range g.streamer.GenerateContentStream(ctx, g.model, contents, config) {
		if err != nil {
			return fmt.Errorf("gemini: ping failed: %w", classify(err))
		}
		break
	}
	return nil
}

// Close releases resources.
func (g *Generator) Close() error {
	return nil
}

func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && (apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError) {
		return fmt.Errorf("gemini: %v: %w", err, domain.ErrTransient)
	}
	return fmt.Errorf("gemini: %w", err)
}
