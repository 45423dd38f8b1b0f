package domain

import (
	"path/filepath"
	"strings"
)

// Format identifies how a file's raw content is loaded and chunked.
type Format string

// Supported formats.
const (
	// FormatText is a plain-text service-call transcript.
	FormatText Format = "txt"

	// FormatDOCX is a word-processor document.
	FormatDOCX Format = "docx"

	// FormatPDF is a PDF document.
	FormatPDF Format = "pdf"
)

// FormatFromPath derives the format from a file extension, case-insensitively.
// Returns ErrUnsupportedFormat for anything else.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch Format(ext) {
	case FormatText, FormatDOCX, FormatPDF:
		return Format(ext), nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// AllFormats returns every supported format.
func AllFormats() []Format {
	return []Format{FormatText, FormatDOCX, FormatPDF}
}

// RawDocument is a file's bytes before loading.
type RawDocument struct {
	// Path is the original file location.
	Path string

	// Format is derived from the file extension.
	Format Format

	// Content is the raw bytes.
	Content []byte
}

// SourceID returns the document identifier stored with every chunk: the file's base name.
func (r RawDocument) SourceID() string {
	return filepath.Base(r.Path)
}

// RawContent is the full textual content of a file with formatting discarded.
type RawContent struct {
	// Source is the document identifier.
	Source string

	// Format is the format the text was extracted from.
	Format Format

	// Text is the decoded content. DOCX paragraphs and PDF pages are newline-joined.
	Text string

	// Encoding is the detected character set for plain-text files.
	Encoding string
}
