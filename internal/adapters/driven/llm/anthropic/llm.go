// Package anthropic provides an answer generator adapter using the Anthropic API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driven"
)

// Ensure Generator implements the interface.
var _ driven.AnswerGenerator = (*Generator)(nil)

// Default configuration values.
const (
	DefaultModel     = "claude-3-5-sonnet-latest"
	DefaultTimeout   = 120 * time.Second
	DefaultMaxTokens = 1024
)

// Config holds configuration for the Anthropic answer generator.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// BaseURL overrides the API base URL.
	BaseURL string

	// Model is the model to use (default: claude-3-5-sonnet-latest).
	Model string

	// MaxTokens caps the completion length (default: 1024).
	MaxTokens int

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// Generator produces answers with the Anthropic Messages API.
// The whole completion is delivered as a single fragment.
type Generator struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewGenerator creates a new Anthropic answer generator.
func NewGenerator(cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Generator{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: int64(cfg.MaxTokens),
	}, nil
}

// Generate yields the concatenated text blocks of one completion.
func (g *Generator) Generate(ctx context.Context, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		text, err := g.complete(ctx, prompt, g.maxTokens)
		if err != nil {
			yield("", err)
			return
		}
		yield(text, nil)
	}
}

func (g *Generator) complete(ctx context.Context, prompt string, maxTokens int64) (string, error) {
	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", classify(err)
	}

	var result strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			result.WriteString(block.Text)
		}
	}
	if result.Len() == 0 {
		return "", errors.New("anthropic: no text content returned")
	}
	return result.String(), nil
}

// ModelName returns the model being used.
func (g *Generator) ModelName() string {
	return g.model
}

// Ping sends a one-token request.
func (g *Generator) Ping(ctx context.Context) error {
	if _, err := g.complete(ctx, "ping", 1); err != nil {
		return fmt.Errorf("anthropic: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (g *Generator) Close() error {
	return nil
}

func classify(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) &&
		(apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= http.StatusInternalServerError) {
		return fmt.Errorf("anthropic: %v: %w", err, domain.ErrTransient)
	}
	return fmt.Errorf("anthropic: %w", err)
}
