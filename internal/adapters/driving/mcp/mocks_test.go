package mcp

import (
	"context"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
)

type mockSearchService struct {
	results []domain.AggregatedDocument
	opts    domain.SearchOptions
	err     error
}

func (m *mockSearchService) Search(
	_ context.Context, _ string, opts domain.SearchOptions,
) ([]domain.AggregatedDocument, error) {
	m.opts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

type mockDocumentService struct {
	sources []string
	chunks  map[string][]domain.Chunk
	err     error
}

func (m *mockDocumentService) List(_ context.Context) ([]string, error) {
	return m.sources, m.err
}

func (m *mockDocumentService) Chunks(_ context.Context, source string) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	chunks, ok := m.chunks[source]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return chunks, nil
}

type mockQuestionService struct {
	questions []domain.UnansweredQuestion
}

func (m *mockQuestionService) List(_ context.Context) ([]domain.UnansweredQuestion, error) {
	return m.questions, nil
}

func (m *mockQuestionService) Delete(_ context.Context, _ string) error {
	return nil
}
