package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
)

func chunk(source, heading, text string) domain.Chunk {
	return domain.Chunk{Source: source, Heading: heading, PlainText: text, FormattedText: "<p>" + text + "</p>"}
}

func TestVectorStore_StoreAndFetch(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	require.NoError(t, store.Store(ctx, []float32{1, 0}, chunk("a.docx", "", "one")))
	require.NoError(t, store.Store(ctx, []float32{0, 1}, chunk("b.docx", "", "other")))
	require.NoError(t, store.Store(ctx, []float32{1, 1}, chunk("a.docx", "", "second")))

	chunks, err := store.FetchAllChunks(ctx, "a.docx")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "one", chunks[0].PlainText)
	assert.Equal(t, "second", chunks[1].PlainText)

	none, err := store.FetchAllChunks(ctx, "missing.docx")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestVectorStore_UpsertKeepsPosition(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	first := chunk("a.docx", "", "abc")
	require.NoError(t, store.Store(ctx, []float32{1, 0}, first))
	require.NoError(t, store.Store(ctx, []float32{0, 1}, chunk("a.docx", "", "tail")))

	// Same identity key: same source, heading and length.
	replaced := chunk("a.docx", "", "xyz")
	require.NoError(t, store.Store(ctx, []float32{0, 1}, replaced))

	assert.Equal(t, 2, store.Len())
	chunks, err := store.FetchAllChunks(ctx, "a.docx")
	require.NoError(t, err)
	assert.Equal(t, "xyz", chunks[0].PlainText)
}

func TestVectorStore_Exists(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()
	c := chunk("a.docx", "<h1>Setup</h1>", "hello")

	ok, err := store.Exists(ctx, c.IdentityKey())
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Store(ctx, []float32{1}, c))

	ok, err = store.Exists(ctx, c.IdentityKey())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVectorStore_Search(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	require.NoError(t, store.Store(ctx, []float32{1, 0}, chunk("a.docx", "", "match")))
	require.NoError(t, store.Store(ctx, []float32{0, 1}, chunk("b.docx", "", "orthogonal")))

	hits, err := store.Search(ctx, []float32{1, 0}, domain.SearchOptions{Threshold: 0.9})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "match", hits[0].Chunk.PlainText)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
}

func TestVectorStore_EmbeddingIsCopied(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	vec := []float32{1, 0}
	require.NoError(t, store.Store(ctx, vec, chunk("a.docx", "", "x")))
	vec[0], vec[1] = 0, 1

	hits, err := store.Search(ctx, []float32{1, 0}, domain.SearchOptions{Threshold: 0.9})
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestVectorStore_ListSources(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	for _, src := range []string{"b.pdf", "a.docx", "b.pdf"} {
		require.NoError(t, store.Store(ctx, []float32{1}, chunk(src, "", src+"-text")))
	}

	sources, err := store.ListSources(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.docx", "b.pdf"}, sources)
	assert.NoError(t, store.Close())
}

func TestVectorStore_ConcurrentStore(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			text := make([]byte, n+1)
			for j := range text {
				text[j] = 'a'
			}
			_ = store.Store(ctx, []float32{1}, chunk("a.docx", "", string(text)))
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 20, store.Len())
}
