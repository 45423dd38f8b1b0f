package api

import (
	"context"
	"iter"
	"os"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driving"
)

type mockSearch struct {
	docs  []domain.AggregatedDocument
	err   error
	query string
	opts  domain.SearchOptions
}

func (m *mockSearch) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.AggregatedDocument, error) {
	m.query = query
	m.opts = opts
	return m.docs, m.err
}

type mockAnswer struct {
	available bool
	answer    *driving.Answer
	err       error
}

func (m *mockAnswer) Available() bool { return m.available }

func (m *mockAnswer) Ask(_ context.Context, question string, _ domain.SearchOptions) (*driving.Answer, error) {
	if m.err != nil {
		return nil, m.err
	}
	a := *m.answer
	a.Question = question
	return &a, nil
}

func stream(fragments ...string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, f := range fragments {
			if !yield(f, nil) {
				return
			}
		}
	}
}

type mockIngest struct {
	path    string
	content string
	opts    driving.IngestOptions
	err     error
}

func (m *mockIngest) Ingest(_ context.Context, path string, opts driving.IngestOptions) (*driving.IngestReport, error) {
	m.path = path
	m.opts = opts
	data, _ := os.ReadFile(path)
	m.content = string(data)
	if m.err != nil {
		return nil, m.err
	}
	return &driving.IngestReport{Source: "guide.docx", Chunks: 2, Stored: 2}, nil
}

func (m *mockIngest) IngestDir(_ context.Context, _ string, _ driving.IngestOptions) (*driving.DirReport, error) {
	return &driving.DirReport{}, nil
}

func (m *mockIngest) Watch(_ context.Context, _ string, _ driving.IngestOptions, _ func(driving.WatchEvent)) error {
	return nil
}

type mockDocuments struct {
	sources []string
	chunks  map[string][]domain.Chunk
}

func (m *mockDocuments) List(_ context.Context) ([]string, error) { return m.sources, nil }

func (m *mockDocuments) Chunks(_ context.Context, source string) ([]domain.Chunk, error) {
	chunks, ok := m.chunks[source]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return chunks, nil
}

type mockQuestions struct {
	questions []domain.UnansweredQuestion
	deleted   []string
}

func (m *mockQuestions) List(_ context.Context) ([]domain.UnansweredQuestion, error) {
	return m.questions, nil
}

func (m *mockQuestions) Delete(_ context.Context, id string) error {
	for _, q := range m.questions {
		if q.ID == id {
			m.deleted = append(m.deleted, id)
			return nil
		}
	}
	return domain.ErrNotFound
}
