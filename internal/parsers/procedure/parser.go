package procedure

import (
	"context"
	"fmt"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driven"
	"github.com/pmatancambium/cambium-procedures/internal/logger"
	"github.com/pmatancambium/cambium-procedures/internal/normalisers/docx"
)

// Ensure Parser implements the interface.
var _ driven.ChunkParser = (*Parser)(nil)

// PageReader returns the text of each page of a PDF.
type PageReader interface {
	Pages(ctx context.Context, raw *domain.RawDocument) ([]string, error)
}

// Parser chunks DOCX documents structurally and PDF documents by page lines.
type Parser struct {
	pdf PageReader
}

// New creates a procedure parser. pdf may be nil, in which case PDFs are unsupported.
func New(pdf PageReader) *Parser {
	return &Parser{pdf: pdf}
}

// Formats returns the formats this parser handles.
func (p *Parser) Formats() []domain.Format {
	if p.pdf == nil {
		return []domain.Format{domain.FormatDOCX}
	}
	return []domain.Format{domain.FormatDOCX, domain.FormatPDF}
}

// Parse chunks the document with the given word-count threshold.
func (p *Parser) Parse(ctx context.Context, raw *domain.RawDocument, chunkSize int) ([]domain.Chunk, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	switch raw.Format {
	case domain.FormatDOCX:
		doc, err := docx.Read(raw.Content)
		if err != nil {
			return nil, fmt.Errorf("%s: %v: %w", raw.Path, err, domain.ErrIO)
		}
		chunks := ChunkDocument(raw.SourceID(), doc, chunkSize)
		logger.Debug("docx %s: %d paragraphs, %d tables, %d chunks",
			raw.SourceID(), len(doc.Paragraphs), len(doc.Tables), len(chunks))
		return chunks, nil

	case domain.FormatPDF:
		if p.pdf == nil {
			return nil, fmt.Errorf("%s: %w", raw.Path, domain.ErrUnsupportedFormat)
		}
		pages, err := p.pdf.Pages(ctx, raw)
		if err != nil {
			return nil, err
		}
		chunks := ChunkPages(raw.SourceID(), pages, chunkSize)
		logger.Debug("pdf %s: %d pages, %d chunks", raw.SourceID(), len(pages), len(chunks))
		return chunks, nil

	default:
		return nil, fmt.Errorf("%s: %w", raw.Path, domain.ErrUnsupportedFormat)
	}
}
