package services

import (
	"context"
	"strings"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driven"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driving"
	"github.com/pmatancambium/cambium-procedures/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// AnswerService feeds aggregated search results to the answer generator.
type AnswerService struct {
	search    driving.SearchService
	generator driven.AnswerGenerator
	prompts   driven.PromptStore
}

// NewAnswerService creates an answer service.
// generator and prompts are optional (can be nil).
func NewAnswerService(search driving.SearchService, generator driven.AnswerGenerator, prompts driven.PromptStore) *AnswerService {
	return &AnswerService{
		search:    search,
		generator: generator,
		prompts:   prompts,
	}
}

// Available reports whether an answer generator is configured.
func (s *AnswerService) Available() bool {
	return s.generator != nil
}

// Ask searches for context and, when documents matched, starts the answer stream.
func (s *AnswerService) Ask(ctx context.Context, question string, opts domain.SearchOptions) (*driving.Answer, error) {
	docs, err := s.search.Search(ctx, question, opts)
	if err != nil {
		return nil, err
	}

	answer := &driving.Answer{Question: question, Documents: docs}
	if len(docs) == 0 {
		logger.Debug("No documents matched, skipping generation")
		return answer, nil
	}
	if s.generator == nil {
		logger.Debug("No answer generator configured")
		return answer, nil
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}
	prompt := domain.RenderPrompt(s.template(), strings.Join(texts, "\n\n"), question)
	logger.Debug("Prompt: %d chars, model %s", len(prompt), s.generator.ModelName())

	answer.Stream = s.generator.Generate(ctx, prompt)
	return answer, nil
}

func (s *AnswerService) template() string {
	if s.prompts == nil {
		return domain.DefaultAnswerPrompt
	}
	tmpl, err := s.prompts.Load(driven.PromptAnswer)
	if err != nil || strings.TrimSpace(tmpl) == "" {
		if err != nil {
			logger.Warn("Using built-in answer prompt: %v", err)
		}
		return domain.DefaultAnswerPrompt
	}
	return tmpl
}
