package services

import (
	"context"
	"errors"
	"iter"
	"path/filepath"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driven"
)

// mockEmbedder returns the vector registered for a text, or fallback.
type mockEmbedder struct {
	vectors  map[string][]float32
	fallback []float32
	err      error
	batches  [][]string
}

func (m *mockEmbedder) vector(text string) []float32 {
	if v, ok := m.vectors[text]; ok {
		return v
	}
	if m.fallback != nil {
		return m.fallback
	}
	return []float32{1, 0}
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.vector(text), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batches = append(m.batches, texts)
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vector(t)
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return 2 }
func (m *mockEmbedder) ModelName() string            { return "mock-embedder" }
func (m *mockEmbedder) Ping(_ context.Context) error { return m.err }
func (m *mockEmbedder) Close() error                 { return nil }

// mockGenerator records the prompt and streams fixed fragments.
type mockGenerator struct {
	fragments []string
	prompt    string
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) iter.Seq2[string, error] {
	m.prompt = prompt
	return func(yield func(string, error) bool) {
		for _, f := range m.fragments {
			if !yield(f, nil) {
				return
			}
		}
	}
}

func (m *mockGenerator) ModelName() string            { return "mock-generator" }
func (m *mockGenerator) Ping(_ context.Context) error { return nil }
func (m *mockGenerator) Close() error                 { return nil }

// mockLoaders serves fixed file contents by path.
type mockLoaders struct {
	files map[string]string
}

func (m *mockLoaders) ReadFile(path string) (*domain.RawDocument, error) {
	content, ok := m.files[path]
	if !ok {
		return nil, domain.ErrIO
	}
	format, err := domain.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	return &domain.RawDocument{Path: path, Format: format, Content: []byte(content)}, nil
}

func (m *mockLoaders) Load(_ context.Context, path string) (*domain.RawContent, error) {
	raw, err := m.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &domain.RawContent{Source: raw.SourceID(), Text: string(raw.Content)}, nil
}

func (m *mockLoaders) Register(_ driven.Loader) {}

func (m *mockLoaders) SupportedFormats() []domain.Format { return domain.AllFormats() }

// mockParser turns every line of the document into one chunk.
type mockParser struct {
	chunkSizes []int
	err        error
}

func (m *mockParser) Formats() []domain.Format { return domain.AllFormats() }

func (m *mockParser) Parse(_ context.Context, raw *domain.RawDocument, chunkSize int) ([]domain.Chunk, error) {
	m.chunkSizes = append(m.chunkSizes, chunkSize)
	if m.err != nil {
		return nil, m.err
	}
	var chunks []domain.Chunk
	for _, line := range splitLines(string(raw.Content)) {
		chunks = append(chunks, domain.Chunk{
			Source:        filepath.Base(raw.Path),
			PlainText:     line,
			FormattedText: line,
		})
	}
	return chunks, nil
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '\n' {
			if i > start {
				lines = append(lines, s[start:i])
			}
			start = i + 1
		}
	}
	return lines
}

// mockFiles lists a fixed set of paths and replays fixed changes.
type mockFiles struct {
	paths   []string
	changes []domain.FileChange
	err     error
}

func (m *mockFiles) List(_ context.Context, _ string) ([]string, error) {
	return m.paths, m.err
}

func (m *mockFiles) Watch(_ context.Context, _ string) (<-chan domain.FileChange, error) {
	if m.err != nil {
		return nil, m.err
	}
	ch := make(chan domain.FileChange, len(m.changes))
	for _, c := range m.changes {
		ch <- c
	}
	close(ch)
	return ch, nil
}

// duplicateStore reports every Store as a lost race on the unique index.
type duplicateStore struct {
	driven.VectorStore
}

func (d duplicateStore) Store(_ context.Context, _ []float32, _ domain.Chunk) error {
	return domain.ErrDuplicateChunk
}

// failingStore fails every call.
type failingStore struct {
	driven.VectorStore
}

var errStoreDown = errors.New("store down")

func (failingStore) Search(_ context.Context, _ []float32, _ domain.SearchOptions) ([]domain.SearchHit, error) {
	return nil, errStoreDown
}

func (failingStore) ListSources(_ context.Context) ([]string, error) {
	return nil, errStoreDown
}

func (failingStore) FetchAllChunks(_ context.Context, _ string) ([]domain.Chunk, error) {
	return nil, errStoreDown
}

// mockPrompts returns a fixed template.
type mockPrompts struct {
	template string
	err      error
}

func (m mockPrompts) Load(_ string) (string, error) {
	return m.template, m.err
}
