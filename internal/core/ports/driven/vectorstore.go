package driven

import (
	"context"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
)

// VectorStore persists chunks with their embeddings and answers similarity queries.
// Backed by MongoDB Atlas, SQLite, Qdrant or memory.
type VectorStore interface {
	// Store upserts the chunk keyed by its identity key.
	// Returns domain.ErrDuplicateChunk when a concurrent insert wins the unique index.
	Store(ctx context.Context, embedding []float32, chunk domain.Chunk) error

	// Search returns hits ordered by descending score, filtered to score >= opts.Threshold.
	Search(ctx context.Context, query []float32, opts domain.SearchOptions) ([]domain.SearchHit, error)

	// FetchAllChunks returns every chunk stored for a source, in store order.
	FetchAllChunks(ctx context.Context, source string) ([]domain.Chunk, error)

	// Exists reports whether a chunk with the identity key is stored.
	Exists(ctx context.Context, identityKey string) (bool, error)

	// ListSources returns the distinct source ids.
	ListSources(ctx context.Context) ([]string, error)

	// Close releases resources.
	Close() error
}

// QuestionStore is the append-only log of queries with no similarity hits.
type QuestionStore interface {
	// Record appends the question with the current UTC time.
	Record(ctx context.Context, question string) (domain.UnansweredQuestion, error)

	// List returns recorded questions, newest first.
	List(ctx context.Context) ([]domain.UnansweredQuestion, error)

	// Delete removes a question. Returns domain.ErrNotFound for unknown ids.
	Delete(ctx context.Context, id string) error
}
