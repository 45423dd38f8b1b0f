package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driven"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driving"
	"github.com/pmatancambium/cambium-procedures/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService embeds a query, searches the vector store and expands the
// hits into one highlighted document per source.
type SearchService struct {
	embedder  driven.EmbeddingService
	store     driven.VectorStore
	questions driven.QuestionStore
}

// NewSearchService creates a search service.
// questions may be nil, in which case unanswered queries are not recorded.
func NewSearchService(
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	questions driven.QuestionStore,
) *SearchService {
	return &SearchService{
		embedder:  embedder,
		store:     store,
		questions: questions,
	}
}

// Search returns one aggregated document per matched source, in first-hit order.
// A query with no hits is recorded as unanswered and yields an empty slice.
func (s *SearchService) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.AggregatedDocument, error) {
	logger.Section("Search")
	logger.Debug("Query: %q", query)

	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty query: %w", domain.ErrInvalidInput)
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	opts = opts.WithDefaults()
	logger.Debug("Candidates: %d, limit: %d, threshold: %.2f", opts.Candidates, opts.Limit, opts.Threshold)

	hits, err := s.store.Search(ctx, vector, opts)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	logger.Debug("Store returned %d hits", len(hits))

	if len(hits) == 0 {
		s.recordUnanswered(ctx, query)
		return []domain.AggregatedDocument{}, nil
	}
	return s.aggregate(ctx, hits)
}

func (s *SearchService) recordUnanswered(ctx context.Context, query string) {
	if s.questions == nil {
		return
	}
	if _, err := s.questions.Record(ctx, query); err != nil {
		logger.Warn("Failed to record unanswered question: %v", err)
		return
	}
	logger.Debug("Recorded unanswered question")
}

// hitGroup collects the matched chunk texts of one source.
type hitGroup struct {
	source  string
	matched map[string]bool
	hits    []domain.Chunk
}

// aggregate groups hits by source, re-expands each group to every stored
// chunk of that source, orders them by heading and marks the matched ones.
func (s *SearchService) aggregate(ctx context.Context, hits []domain.SearchHit) ([]domain.AggregatedDocument, error) {
	var groups []*hitGroup
	bySource := make(map[string]*hitGroup)
	for _, h := range hits {
		g, ok := bySource[h.Chunk.Source]
		if !ok {
			g = &hitGroup{source: h.Chunk.Source, matched: make(map[string]bool)}
			bySource[h.Chunk.Source] = g
			groups = append(groups, g)
		}
		g.matched[h.Chunk.FormattedText] = true
		g.hits = append(g.hits, h.Chunk)
	}

	docs := make([]domain.AggregatedDocument, 0, len(groups))
	for _, g := range groups {
		chunks, err := s.store.FetchAllChunks(ctx, g.source)
		if err != nil {
			return nil, fmt.Errorf("fetching chunks of %s: %w", g.source, err)
		}
		if len(chunks) == 0 {
			chunks = g.hits
		}
		docs = append(docs, assemble(g, chunks))
	}
	return docs, nil
}

// assemble joins the chunks in heading order and wraps every matched passage.
func assemble(g *hitGroup, chunks []domain.Chunk) domain.AggregatedDocument {
	sorted := make([]domain.Chunk, len(chunks))
	copy(sorted, chunks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Heading < sorted[j].Heading
	})

	parts := make([]string, len(sorted))
	highlights := []string{}
	seen := make(map[string]bool)
	for i, c := range sorted {
		parts[i] = c.DisplayText()
		if g.matched[c.FormattedText] && !seen[parts[i]] {
			seen[parts[i]] = true
			highlights = append(highlights, parts[i])
		}
	}

	text := strings.Join(parts, "\n\n")
	for _, h := range highlights {
		text = strings.ReplaceAll(text, h, domain.HighlightOpen+h+domain.HighlightClose)
	}

	return domain.AggregatedDocument{
		Filename:   g.source,
		Text:       text,
		Highlights: highlights,
	}
}
