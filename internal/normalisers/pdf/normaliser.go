// Package pdf extracts page text from PDF documents.
package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Loader = (*Normaliser)(nil)

// Normaliser loads PDF documents through an Extractor.
type Normaliser struct {
	extractor Extractor
}

// New creates a PDF normaliser.
func New(extractor Extractor) *Normaliser {
	return &Normaliser{extractor: extractor}
}

// Format returns the format this normaliser handles.
func (n *Normaliser) Format() domain.Format {
	return domain.FormatPDF
}

// Pages returns the text of each page.
func (n *Normaliser) Pages(ctx context.Context, raw *domain.RawDocument) ([]string, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	pages, err := n.extractor.Pages(ctx, raw.Content)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", raw.Path, err, domain.ErrIO)
	}
	return pages, nil
}

// Load joins the page texts with newlines.
func (n *Normaliser) Load(ctx context.Context, raw *domain.RawDocument) (*domain.RawContent, error) {
	pages, err := n.Pages(ctx, raw)
	if err != nil {
		return nil, err
	}

	return &domain.RawContent{
		Source: raw.SourceID(),
		Format: domain.FormatPDF,
		Text:   strings.Join(pages, "\n"),
	}, nil
}
