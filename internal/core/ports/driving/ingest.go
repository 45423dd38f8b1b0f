package driving

import (
	"context"
	"time"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
)

// IngestService loads files, chunks them, embeds each chunk and stores it.
type IngestService interface {
	// Ingest processes one file.
	Ingest(ctx context.Context, path string, opts IngestOptions) (*IngestReport, error)

	// IngestDir processes every supported, non-hidden file under dir.
	// Per-file failures are collected in the report rather than aborting the walk.
	IngestDir(ctx context.Context, dir string, opts IngestOptions) (*DirReport, error)

	// Watch re-ingests supported files under dir as they are created or written,
	// calling onEvent after each attempt. It blocks until ctx is done.
	Watch(ctx context.Context, dir string, opts IngestOptions, onEvent func(WatchEvent)) error
}

// WatchEvent is the outcome of one change observed by Watch.
type WatchEvent struct {
	// Path is the changed file.
	Path string

	// Change is the kind of change.
	Change domain.ChangeType

	// Report is set when the file was ingested.
	Report *IngestReport

	// Err is set when ingestion failed.
	Err error
}

// IngestOptions configures one ingestion run.
type IngestOptions struct {
	// SkipExisting skips chunks whose identity key is already stored.
	SkipExisting bool

	// ChunkSize is the word-count threshold. Zero uses the configured default.
	ChunkSize int
}

// IngestReport summarises the ingestion of one file.
type IngestReport struct {
	// Source is the document id stored with every chunk.
	Source string `json:"source"`

	// Chunks is the number of chunks the parser produced.
	Chunks int `json:"chunks"`

	// Stored is the number of chunks embedded and written.
	Stored int `json:"stored"`

	// Skipped is the number of chunks already present.
	Skipped int `json:"skipped"`

	// Duration is the wall time of the run.
	Duration time.Duration `json:"duration"`
}

// DirReport summarises a directory ingestion.
type DirReport struct {
	// Files holds one report per successfully ingested file.
	Files []IngestReport `json:"files"`

	// Failures maps file paths to the error that stopped them.
	Failures map[string]error `json:"-"`
}

// Stored returns the total number of stored chunks across files.
func (r *DirReport) Stored() int {
	n := 0
	for _, f := range r.Files {
		n += f.Stored
	}
	return n
}

// Skipped returns the total number of skipped chunks across files.
func (r *DirReport) Skipped() int {
	n := 0
	for _, f := range r.Files {
		n += f.Skipped
	}
	return n
}
