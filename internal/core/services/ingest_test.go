package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmatancambium/cambium-procedures/internal/adapters/driven/storage/memory"
	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driven"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driving"
)

func newIngest(files map[string]string, store driven.VectorStore, cfg IngestConfig) (*IngestService, *mockEmbedder, *mockParser) {
	embedder := &mockEmbedder{}
	parser := &mockParser{}
	svc := NewIngestService(&mockLoaders{files: files}, parser, embedder, store, &mockFiles{}, cfg)
	return svc, embedder, parser
}

func TestIngestService_Ingest(t *testing.T) {
	store := memory.NewVectorStore()
	svc, embedder, parser := newIngest(map[string]string{
		"/docs/calls.txt": "a\nbb\nccc",
	}, store, IngestConfig{BatchSize: 2})

	report, err := svc.Ingest(context.Background(), "/docs/calls.txt", driving.IngestOptions{})
	require.NoError(t, err)

	assert.Equal(t, "calls.txt", report.Source)
	assert.Equal(t, 3, report.Chunks)
	assert.Equal(t, 3, report.Stored)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 3, store.Len())

	assert.Equal(t, [][]string{{"a", "bb"}, {"ccc"}}, embedder.batches)
	assert.Equal(t, []int{domain.DefaultChunkSize}, parser.chunkSizes)
}

func TestIngestService_ChunkSizeOverride(t *testing.T) {
	svc, _, parser := newIngest(map[string]string{"/a.txt": "x"}, memory.NewVectorStore(), IngestConfig{ChunkSize: 50})

	_, err := svc.Ingest(context.Background(), "/a.txt", driving.IngestOptions{})
	require.NoError(t, err)
	_, err = svc.Ingest(context.Background(), "/a.txt", driving.IngestOptions{ChunkSize: 7})
	require.NoError(t, err)

	assert.Equal(t, []int{50, 7}, parser.chunkSizes)
}

func TestIngestService_SkipExisting(t *testing.T) {
	store := memory.NewVectorStore()
	files := map[string]string{"/a.txt": "a\nbb"}
	svc, embedder, _ := newIngest(files, store, IngestConfig{})

	_, err := svc.Ingest(context.Background(), "/a.txt", driving.IngestOptions{})
	require.NoError(t, err)

	files["/a.txt"] = "a\nbb\nccc"
	report, err := svc.Ingest(context.Background(), "/a.txt", driving.IngestOptions{SkipExisting: true})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Chunks)
	assert.Equal(t, 1, report.Stored)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, []string{"ccc"}, embedder.batches[len(embedder.batches)-1])
	assert.Equal(t, 3, store.Len())
}

func TestIngestService_WithoutSkipExistingUpserts(t *testing.T) {
	store := memory.NewVectorStore()
	svc, _, _ := newIngest(map[string]string{"/a.txt": "a\nbb"}, store, IngestConfig{})

	for range 2 {
		report, err := svc.Ingest(context.Background(), "/a.txt", driving.IngestOptions{})
		require.NoError(t, err)
		assert.Equal(t, 2, report.Stored)
	}
	assert.Equal(t, 2, store.Len())
}

func TestIngestService_DuplicateCountsAsSkip(t *testing.T) {
	svc, _, _ := newIngest(map[string]string{"/a.txt": "a\nbb"}, duplicateStore{memory.NewVectorStore()}, IngestConfig{})

	report, err := svc.Ingest(context.Background(), "/a.txt", driving.IngestOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Stored)
	assert.Equal(t, 2, report.Skipped)
}

func TestIngestService_Errors(t *testing.T) {
	t.Run("unreadable file", func(t *testing.T) {
		svc, _, _ := newIngest(nil, memory.NewVectorStore(), IngestConfig{})
		_, err := svc.Ingest(context.Background(), "/missing.txt", driving.IngestOptions{})
		assert.ErrorIs(t, err, domain.ErrIO)
	})

	t.Run("parse failure", func(t *testing.T) {
		svc, _, parser := newIngest(map[string]string{"/a.docx": "x"}, memory.NewVectorStore(), IngestConfig{})
		parser.err = domain.ErrIO
		_, err := svc.Ingest(context.Background(), "/a.docx", driving.IngestOptions{})
		assert.ErrorIs(t, err, domain.ErrIO)
	})

	t.Run("embedding failure keeps partial report", func(t *testing.T) {
		svc, embedder, _ := newIngest(map[string]string{"/a.txt": "one"}, memory.NewVectorStore(), IngestConfig{})
		embedder.err = domain.ErrTransient
		report, err := svc.Ingest(context.Background(), "/a.txt", driving.IngestOptions{})
		assert.ErrorIs(t, err, domain.ErrTransient)
		require.NotNil(t, report)
		assert.Equal(t, 0, report.Stored)
	})

	t.Run("no embedder", func(t *testing.T) {
		svc := NewIngestService(&mockLoaders{}, &mockParser{}, nil, memory.NewVectorStore(), nil, IngestConfig{})
		_, err := svc.Ingest(context.Background(), "/a.txt", driving.IngestOptions{})
		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	})
}

func TestIngestService_IngestDir(t *testing.T) {
	store := memory.NewVectorStore()
	files := &mockFiles{paths: []string{"/d/a.txt", "/d/broken.txt", "/d/b.docx"}}
	svc := NewIngestService(&mockLoaders{files: map[string]string{
		"/d/a.txt":  "a\nbb",
		"/d/b.docx": "three",
	}}, &mockParser{}, &mockEmbedder{}, store, files, IngestConfig{})

	report, err := svc.IngestDir(context.Background(), "/d", driving.IngestOptions{})
	require.NoError(t, err)

	require.Len(t, report.Files, 2)
	assert.Equal(t, "a.txt", report.Files[0].Source)
	assert.Equal(t, "b.docx", report.Files[1].Source)
	assert.Equal(t, 3, report.Stored())
	assert.Equal(t, 0, report.Skipped())
	require.Contains(t, report.Failures, "/d/broken.txt")
	assert.ErrorIs(t, report.Failures["/d/broken.txt"], domain.ErrIO)
}

func TestIngestService_IngestDir_ListError(t *testing.T) {
	listErr := errors.New("root path error")
	svc := NewIngestService(&mockLoaders{}, &mockParser{}, &mockEmbedder{}, memory.NewVectorStore(), &mockFiles{err: listErr}, IngestConfig{})

	_, err := svc.IngestDir(context.Background(), "/d", driving.IngestOptions{})
	assert.ErrorIs(t, err, listErr)
}

func TestIngestService_IngestDir_NoFileSource(t *testing.T) {
	svc := NewIngestService(&mockLoaders{}, &mockParser{}, &mockEmbedder{}, memory.NewVectorStore(), nil, IngestConfig{})

	_, err := svc.IngestDir(context.Background(), "/d", driving.IngestOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIngestService_Watch(t *testing.T) {
	store := memory.NewVectorStore()
	files := &mockFiles{changes: []domain.FileChange{
		{Path: "/d/a.txt", Type: domain.ChangeCreated},
		{Path: "/d/gone.txt", Type: domain.ChangeDeleted},
		{Path: "/d/missing.txt", Type: domain.ChangeUpdated},
	}}
	svc := NewIngestService(&mockLoaders{files: map[string]string{"/d/a.txt": "one"}},
		&mockParser{}, &mockEmbedder{}, store, files, IngestConfig{})

	var events []driving.WatchEvent
	err := svc.Watch(context.Background(), "/d", driving.IngestOptions{}, func(e driving.WatchEvent) {
		events = append(events, e)
	})
	require.NoError(t, err)

	require.Len(t, events, 3)
	require.NotNil(t, events[0].Report)
	assert.Equal(t, 1, events[0].Report.Stored)
	assert.NoError(t, events[0].Err)

	assert.Equal(t, domain.ChangeDeleted, events[1].Change)
	assert.Nil(t, events[1].Report)
	assert.NoError(t, events[1].Err)

	assert.ErrorIs(t, events[2].Err, domain.ErrIO)
	assert.Equal(t, 1, store.Len())
}
