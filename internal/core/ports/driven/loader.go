package driven

import (
	"context"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
)

// Loader extracts the full text of one file format with formatting discarded.
type Loader interface {
	// Format returns the format this loader handles.
	Format() domain.Format

	// Load decodes raw bytes into text.
	Load(ctx context.Context, raw *domain.RawDocument) (*domain.RawContent, error)
}

// LoaderRegistry selects the loader for a file by its extension.
type LoaderRegistry interface {
	// ReadFile reads path into a RawDocument.
	// Returns domain.ErrUnsupportedFormat or domain.ErrIO.
	ReadFile(path string) (*domain.RawDocument, error)

	// Load reads path and extracts its text.
	// Returns domain.ErrUnsupportedFormat or domain.ErrIO.
	Load(ctx context.Context, path string) (*domain.RawContent, error)

	// Register adds a loader, replacing any existing one for the same format.
	Register(loader Loader)

	// SupportedFormats returns every registered format.
	SupportedFormats() []domain.Format
}

// ChunkParser turns a file into chunk records.
type ChunkParser interface {
	// Formats returns the formats this parser handles.
	Formats() []domain.Format

	// Parse chunks the raw document. chunkSize is the word-count threshold,
	// ignored by parsers that chunk by structure.
	Parse(ctx context.Context, raw *domain.RawDocument, chunkSize int) ([]domain.Chunk, error)
}
