// Package plaintext loads plain-text transcripts, detecting their character encoding.
package plaintext

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driven"
	"github.com/pmatancambium/cambium-procedures/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.Loader = (*Normaliser)(nil)

const utf8Charset = "UTF-8"

// Normaliser decodes plain-text files.
type Normaliser struct {
	detector *chardet.Detector
}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{detector: chardet.NewTextDetector()}
}

// Format returns the format this normaliser handles.
func (n *Normaliser) Format() domain.Format {
	return domain.FormatText
}

// Load decodes the raw bytes into text.
func (n *Normaliser) Load(_ context.Context, raw *domain.RawDocument) (*domain.RawContent, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text, charset, err := n.Decode(raw.Content)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %v: %w", raw.Path, err, domain.ErrIO)
	}

	return &domain.RawContent{
		Source:   raw.SourceID(),
		Format:   domain.FormatText,
		Text:     text,
		Encoding: charset,
	}, nil
}

// Decode converts data to a UTF-8 string and reports the charset used.
// Valid UTF-8 is returned as is (minus a byte order mark). Anything else
// is decoded with the detector's best guess, falling back to UTF-8 with
// invalid sequences replaced when the guess has no decoder.
func (n *Normaliser) Decode(data []byte) (string, string, error) {
	if utf8.Valid(data) {
		return strings.TrimPrefix(string(data), "\uFEFF"), utf8Charset, nil
	}

	result, err := n.detector.DetectBest(data)
	if err != nil || result == nil {
		logger.Debug("charset detection failed, assuming UTF-8")
		return strings.ToValidUTF8(string(data), "\uFFFD"), utf8Charset, nil
	}
	logger.Debug("detected charset %s (confidence %d)", result.Charset, result.Confidence)

	text, err := DecodeWith(data, result.Charset)
	if err != nil {
		return strings.ToValidUTF8(string(data), "\uFFFD"), utf8Charset, nil //nolint:nilerr // fallback decode
	}
	return text, result.Charset, nil
}

// DecodeWith decodes data using a WHATWG encoding label such as "windows-1255".
func DecodeWith(data []byte, charset string) (string, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return "", fmt.Errorf("unknown charset %q: %w", charset, err)
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", charset, err)
	}
	return strings.TrimPrefix(string(out), "\uFEFF"), nil
}
