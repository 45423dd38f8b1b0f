package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/pmatancambium/cambium-procedures/internal/adapters/driven/storage/similarity"
	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driven"
)

var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory driven.VectorStore with exact cosine search.
// Records keep their first insertion position when overwritten.
type VectorStore struct {
	mu      sync.RWMutex
	records []similarity.Candidate
	index   map[string]int
}

// NewVectorStore creates an empty vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{index: make(map[string]int)}
}

// Store upserts the chunk keyed by its identity key.
func (s *VectorStore) Store(_ context.Context, embedding []float32, chunk domain.Chunk) error {
	vec := make([]float32, len(embedding))
	copy(vec, embedding)

	s.mu.Lock()
	defer s.mu.Unlock()

	key := chunk.IdentityKey()
	rec := similarity.Candidate{Chunk: chunk, Embedding: vec}
	if i, ok := s.index[key]; ok {
		s.records[i] = rec
		return nil
	}
	s.index[key] = len(s.records)
	s.records = append(s.records, rec)
	return nil
}

// Search ranks every stored chunk against the query.
func (s *VectorStore) Search(_ context.Context, query []float32, opts domain.SearchOptions) ([]domain.SearchHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return similarity.Rank(query, s.records, opts), nil
}

// FetchAllChunks returns the chunks of one source in insertion order.
func (s *VectorStore) FetchAllChunks(_ context.Context, source string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var chunks []domain.Chunk
	for _, rec := range s.records {
		if rec.Chunk.Source == source {
			chunks = append(chunks, rec.Chunk)
		}
	}
	return chunks, nil
}

// Exists reports whether the identity key is stored.
func (s *VectorStore) Exists(_ context.Context, identityKey string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[identityKey]
	return ok, nil
}

// ListSources returns the distinct sources, sorted.
func (s *VectorStore) ListSources(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var sources []string
	for _, rec := range s.records {
		if _, ok := seen[rec.Chunk.Source]; ok {
			continue
		}
		seen[rec.Chunk.Source] = struct{}{}
		sources = append(sources, rec.Chunk.Source)
	}
	sort.Strings(sources)
	return sources, nil
}

// Len returns the number of stored chunks.
func (s *VectorStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close is a no-op.
func (s *VectorStore) Close() error {
	return nil
}
