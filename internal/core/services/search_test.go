package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmatancambium/cambium-procedures/internal/adapters/driven/storage/memory"
	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
)

func mark(s string) string {
	return domain.HighlightOpen + s + domain.HighlightClose
}

// seedStore stores chunks whose vectors point along x (matching) or y (not matching).
func seedStore(t *testing.T) *memory.VectorStore {
	t.Helper()
	store := memory.NewVectorStore()
	records := []struct {
		chunk  domain.Chunk
		vector []float32
	}{
		{domain.Chunk{Source: "guide.docx", Heading: "B", PlainText: "beta", FormattedText: "beta"}, []float32{1, 0}},
		{domain.Chunk{Source: "guide.docx", Heading: "A", PlainText: "alpha", FormattedText: "alpha"}, []float32{0, 1}},
		{domain.Chunk{Source: "guide.docx", Heading: "C", PlainText: "gamma", FormattedText: "gamma"}, []float32{1, 0}},
		{domain.Chunk{Source: "notes.docx", PlainText: "delta", FormattedText: "<b>delta</b>"}, []float32{1, 0.1}},
		{domain.Chunk{Source: "notes.docx", PlainText: "epsilon", FormattedText: "epsilon"}, []float32{0, 1}},
	}
	for _, r := range records {
		require.NoError(t, store.Store(context.Background(), r.vector, r.chunk))
	}
	return store
}

func TestSearchService_Aggregates(t *testing.T) {
	questions := memory.NewQuestionStore()
	svc := NewSearchService(&mockEmbedder{fallback: []float32{1, 0}}, seedStore(t), questions)

	docs, err := svc.Search(context.Background(), "how do I reset", domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, docs, 2)

	guide := docs[0]
	assert.Equal(t, "guide.docx", guide.Filename)
	assert.Equal(t, []string{"B\nbeta", "C\ngamma"}, guide.Highlights)
	assert.Equal(t, "A\nalpha\n\n"+mark("B\nbeta")+"\n\n"+mark("C\ngamma"), guide.Text)

	notes := docs[1]
	assert.Equal(t, "notes.docx", notes.Filename)
	assert.Equal(t, []string{"<b>delta</b>"}, notes.Highlights)
	assert.Equal(t, mark("<b>delta</b>")+"\n\nepsilon", notes.Text)

	recorded, err := questions.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recorded)
}

func TestSearchService_SortsByHeadingNotStoreOrder(t *testing.T) {
	store := memory.NewVectorStore()
	ctx := context.Background()
	require.NoError(t, store.Store(ctx, []float32{1, 0}, domain.Chunk{Source: "s", Heading: "2. Steps", FormattedText: "x"}))
	require.NoError(t, store.Store(ctx, []float32{0, 1}, domain.Chunk{Source: "s", Heading: "10. Appendix", FormattedText: "yy"}))
	require.NoError(t, store.Store(ctx, []float32{0, 1}, domain.Chunk{Source: "s", FormattedText: "intro"}))

	svc := NewSearchService(&mockEmbedder{}, store, nil)
	docs, err := svc.Search(ctx, "q", domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "intro\n\n10. Appendix\nyy\n\n"+mark("2. Steps\nx"), docs[0].Text)
}

func TestSearchService_NoHitsRecordsQuestion(t *testing.T) {
	questions := memory.NewQuestionStore()
	svc := NewSearchService(&mockEmbedder{fallback: []float32{0, -1}}, seedStore(t), questions)

	docs, err := svc.Search(context.Background(), "  unknown topic ", domain.SearchOptions{})
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)

	recorded, err := questions.List(context.Background())
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.Equal(t, "  unknown topic ", recorded[0].Question)
}

func TestSearchService_AppliesOptions(t *testing.T) {
	svc := NewSearchService(&mockEmbedder{fallback: []float32{1, 0}}, seedStore(t), nil)

	docs, err := svc.Search(context.Background(), "q", domain.SearchOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, []string{"B\nbeta"}, docs[0].Highlights)

	docs, err = svc.Search(context.Background(), "q", domain.SearchOptions{Threshold: 0.6, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestSearchService_Errors(t *testing.T) {
	t.Run("empty query", func(t *testing.T) {
		svc := NewSearchService(&mockEmbedder{}, memory.NewVectorStore(), nil)
		_, err := svc.Search(context.Background(), "   ", domain.SearchOptions{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("no embedder", func(t *testing.T) {
		svc := NewSearchService(nil, memory.NewVectorStore(), nil)
		_, err := svc.Search(context.Background(), "q", domain.SearchOptions{})
		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	})

	t.Run("embedding failure", func(t *testing.T) {
		svc := NewSearchService(&mockEmbedder{err: domain.ErrTransient}, memory.NewVectorStore(), nil)
		_, err := svc.Search(context.Background(), "q", domain.SearchOptions{})
		assert.ErrorIs(t, err, domain.ErrTransient)
	})

	t.Run("store failure", func(t *testing.T) {
		svc := NewSearchService(&mockEmbedder{}, failingStore{}, nil)
		_, err := svc.Search(context.Background(), "q", domain.SearchOptions{})
		assert.ErrorIs(t, err, errStoreDown)
	})
}

func TestAssemble_DuplicateTextsHighlightedOnce(t *testing.T) {
	g := &hitGroup{source: "s", matched: map[string]bool{"same": true}}
	doc := assemble(g, []domain.Chunk{
		{Source: "s", FormattedText: "same"},
		{Source: "s", FormattedText: "same"},
	})
	assert.Equal(t, []string{"same"}, doc.Highlights)
	assert.Equal(t, mark("same")+"\n\n"+mark("same"), doc.Text)
}

func TestAssemble_FallsBackToHits(t *testing.T) {
	hit := domain.Chunk{Source: "s", Heading: "H", FormattedText: "body"}
	g := &hitGroup{source: "s", matched: map[string]bool{"body": true}, hits: []domain.Chunk{hit}}
	doc := assemble(g, g.hits)
	assert.Equal(t, mark("H\nbody"), doc.Text)
}
