// Package parsers dispatches raw documents to the chunk parser for their format.
package parsers

import (
	"context"
	"fmt"
	"sort"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driven"
)

// Ensure Registry can stand in for a single parser.
var _ driven.ChunkParser = (*Registry)(nil)

// Registry maps formats to the parser that chunks them.
type Registry struct {
	parsers map[domain.Format]driven.ChunkParser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{
		parsers: make(map[domain.Format]driven.ChunkParser),
	}
}

// Register adds a parser for every format it reports.
// Later registrations replace earlier ones.
func (r *Registry) Register(parser driven.ChunkParser) {
	for _, f := range parser.Formats() {
		r.parsers[f] = parser
	}
}

// Has returns true if a parser is registered for the format.
func (r *Registry) Has(format domain.Format) bool {
	_, ok := r.parsers[format]
	return ok
}

// Formats returns every registered format, sorted.
func (r *Registry) Formats() []domain.Format {
	formats := make([]domain.Format, 0, len(r.parsers))
	for f := range r.parsers {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

// Parse chunks raw with the parser registered for its format.
func (r *Registry) Parse(ctx context.Context, raw *domain.RawDocument, chunkSize int) ([]domain.Chunk, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	parser, ok := r.parsers[raw.Format]
	if !ok {
		return nil, fmt.Errorf("no parser for %q: %w", raw.Format, domain.ErrUnsupportedFormat)
	}
	return parser.Parse(ctx, raw, chunkSize)
}
