// Package docx reads word-processor documents: a structural view for
// chunking and a plain-text view for loading.
package docx

import (
	"context"
	"fmt"
	"strings"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Loader = (*Normaliser)(nil)

// Normaliser extracts paragraph text from DOCX documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns the format this normaliser handles.
func (n *Normaliser) Format() domain.Format {
	return domain.FormatDOCX
}

// Load joins the text of every body paragraph with newlines.
// Formatting and tables are discarded.
func (n *Normaliser) Load(_ context.Context, raw *domain.RawDocument) (*domain.RawContent, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	doc, err := Read(raw.Content)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", raw.Path, err, domain.ErrIO)
	}

	texts := make([]string, 0, len(doc.Paragraphs))
	for _, p := range doc.Paragraphs {
		texts = append(texts, p.Text())
	}

	return &domain.RawContent{
		Source: raw.SourceID(),
		Format: domain.FormatDOCX,
		Text:   strings.Join(texts, "\n"),
	}, nil
}
