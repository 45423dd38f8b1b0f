package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driven"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driving"
	"github.com/pmatancambium/cambium-procedures/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// DefaultEmbedBatchSize is the number of chunks embedded per request.
const DefaultEmbedBatchSize = 16

// IngestConfig holds the optional knobs of the ingest pipeline.
type IngestConfig struct {
	// ChunkSize is the default word-count threshold (default: domain.DefaultChunkSize).
	ChunkSize int

	// BatchSize is the number of chunks embedded per request (default: 16).
	BatchSize int
}

// IngestService runs files through load, parse, embed and store.
type IngestService struct {
	loaders  driven.LoaderRegistry
	parser   driven.ChunkParser
	embedder driven.EmbeddingService
	store    driven.VectorStore
	files    driven.FileSource

	chunkSize int
	batchSize int
}

// NewIngestService creates an ingest service.
// files may be nil, in which case IngestDir and Watch are unavailable.
func NewIngestService(
	loaders driven.LoaderRegistry,
	parser driven.ChunkParser,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	files driven.FileSource,
	cfg IngestConfig,
) *IngestService {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = domain.DefaultChunkSize
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultEmbedBatchSize
	}
	return &IngestService{
		loaders:   loaders,
		parser:    parser,
		embedder:  embedder,
		store:     store,
		files:     files,
		chunkSize: cfg.ChunkSize,
		batchSize: cfg.BatchSize,
	}
}

// Ingest loads one file, chunks it and stores every chunk with its embedding.
func (s *IngestService) Ingest(ctx context.Context, path string, opts driving.IngestOptions) (*driving.IngestReport, error) {
	logger.Section("Ingest")
	logger.Debug("File: %s", path)
	start := time.Now()

	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	raw, err := s.loaders.ReadFile(path)
	if err != nil {
		return nil, err
	}

	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = s.chunkSize
	}
	chunks, err := s.parser.Parse(ctx, raw, chunkSize)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	report := &driving.IngestReport{
		Source: raw.SourceID(),
		Chunks: len(chunks),
	}
	logger.Debug("Parsed %d chunks from %s", len(chunks), report.Source)

	pending := make([]domain.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if opts.SkipExisting {
			exists, err := s.store.Exists(ctx, c.IdentityKey())
			if err != nil {
				return report, fmt.Errorf("checking %q: %w", c.IdentityKey(), err)
			}
			if exists {
				report.Skipped++
				continue
			}
		}
		pending = append(pending, c)
	}

	for begin := 0; begin < len(pending); begin += s.batchSize {
		end := min(begin+s.batchSize, len(pending))
		if err := s.storeBatch(ctx, pending[begin:end], report); err != nil {
			report.Duration = time.Since(start)
			return report, err
		}
	}

	report.Duration = time.Since(start)
	logger.Info("Ingested %s: %d stored, %d skipped in %s",
		report.Source, report.Stored, report.Skipped, report.Duration.Round(time.Millisecond))
	return report, nil
}

func (s *IngestService) storeBatch(ctx context.Context, batch []domain.Chunk, report *driving.IngestReport) error {
	texts := make([]string, len(batch))
	for i, c := range batch {
		texts[i] = c.PlainText
	}

	done := logger.Timed(fmt.Sprintf("embed %d chunks", len(batch)))
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	done()
	if err != nil {
		return fmt.Errorf("embedding %s: %w", report.Source, err)
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("embedding %s: got %d vectors for %d chunks", report.Source, len(vectors), len(batch))
	}

	for i, c := range batch {
		err := s.store.Store(ctx, vectors[i], c)
		switch {
		case errors.Is(err, domain.ErrDuplicateChunk):
			logger.Debug("Duplicate chunk %q skipped", c.IdentityKey())
			report.Skipped++
		case err != nil:
			return fmt.Errorf("storing %q: %w", c.IdentityKey(), err)
		default:
			report.Stored++
		}
	}
	return nil
}

// IngestDir ingests every supported file under dir.
// A file that fails is recorded in the report and the walk continues.
func (s *IngestService) IngestDir(ctx context.Context, dir string, opts driving.IngestOptions) (*driving.DirReport, error) {
	if s.files == nil {
		return nil, fmt.Errorf("directory ingestion unavailable: %w", domain.ErrInvalidInput)
	}

	paths, err := s.files.List(ctx, dir)
	if err != nil {
		return nil, err
	}
	logger.Debug("Found %d files under %s", len(paths), dir)

	report := &driving.DirReport{Failures: make(map[string]error)}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		r, err := s.Ingest(ctx, path, opts)
		if err != nil {
			logger.Warn("Failed to ingest %s: %v", path, err)
			report.Failures[path] = err
			continue
		}
		report.Files = append(report.Files, *r)
	}
	return report, nil
}

// Watch re-ingests files under dir on create and write until ctx is done.
// Deletions are reported to onEvent but leave stored chunks untouched.
func (s *IngestService) Watch(ctx context.Context, dir string, opts driving.IngestOptions, onEvent func(driving.WatchEvent)) error {
	if s.files == nil {
		return fmt.Errorf("watching unavailable: %w", domain.ErrInvalidInput)
	}

	changes, err := s.files.Watch(ctx, dir)
	if err != nil {
		return err
	}
	logger.Info("Watching %s", dir)

	for change := range changes {
		event := driving.WatchEvent{Path: change.Path, Change: change.Type}
		if change.Type != domain.ChangeDeleted {
			event.Report, event.Err = s.Ingest(ctx, change.Path, opts)
		}
		if onEvent != nil {
			onEvent(event)
		}
	}
	return nil
}
