// Package transcript parses service-call transcripts into calls and
// interactions and renders one chunk per call.
//
// A transcript is line oriented. Lines starting with '1' open a call;
// lines starting with '2' carry interaction separators, "added by"
// headers or message body text. Every other line is ignored.
package transcript

import (
	"context"
	"regexp"
	"strings"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driven"
	"github.com/pmatancambium/cambium-procedures/internal/logger"
)

// Ensure Parser implements the interface.
var _ driven.ChunkParser = (*Parser)(nil)

const (
	callMarker        = '1'
	interactionMarker = '2'
	separatorRun      = "__________"
)

// HeaderPattern recognises an "added by" header line.
// A line is a header candidate when it contains both markers; the
// pattern must then capture the author and the timestamp.
type HeaderPattern struct {
	AddedByMarker string
	DateMarker    string
	Pattern       *regexp.Regexp
}

// DefaultHeaderPatterns returns the Hebrew and English header forms.
func DefaultHeaderPatterns() []HeaderPattern {
	return []HeaderPattern{
		{
			AddedByMarker: "נוסף על ידי",
			DateMarker:    "ב-",
			Pattern:       regexp.MustCompile(`נוסף על ידי (.+?) ב- (.+?) :`),
		},
		{
			AddedByMarker: "added by",
			DateMarker:    " on ",
			Pattern:       regexp.MustCompile(`added by (.+?) on (.+?) :`),
		},
	}
}

// Parser turns transcripts into service-call chunks.
type Parser struct {
	loader   driven.Loader
	patterns []HeaderPattern
}

// Option configures the parser.
type Option func(*Parser)

// WithHeaderPatterns replaces the recognised header forms.
func WithHeaderPatterns(patterns ...HeaderPattern) Option {
	return func(p *Parser) {
		if len(patterns) > 0 {
			p.patterns = patterns
		}
	}
}

// New creates a transcript parser. loader decodes the raw bytes.
func New(loader driven.Loader, opts ...Option) *Parser {
	p := &Parser{
		loader:   loader,
		patterns: DefaultHeaderPatterns(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Formats returns the formats this parser handles.
func (p *Parser) Formats() []domain.Format {
	return []domain.Format{domain.FormatText}
}

// Parse decodes the transcript and returns one chunk per call that has interactions.
// chunkSize is ignored: calls are never split.
func (p *Parser) Parse(ctx context.Context, raw *domain.RawDocument, _ int) ([]domain.Chunk, error) {
	content, err := p.loader.Load(ctx, raw)
	if err != nil {
		return nil, err
	}

	calls := p.ParseCalls(content.Text)
	logger.Debug("transcript %s: %d calls", content.Source, len(calls))

	chunks := make([]domain.Chunk, 0, len(calls))
	for _, call := range calls {
		if chunk, ok := RenderCall(content.Source, call); ok {
			chunks = append(chunks, chunk)
		}
	}
	return chunks, nil
}

// scanner holds the per-invocation parse state.
type scanner struct {
	patterns    []HeaderPattern
	calls       []domain.ServiceCall
	call        *domain.ServiceCall
	interaction *domain.Interaction
}

// ParseCalls runs the line state machine over text.
func (p *Parser) ParseCalls(text string) []domain.ServiceCall {
	s := &scanner{patterns: p.patterns}
	for _, line := range strings.Split(text, "\n") {
		s.line(strings.TrimSpace(line))
	}
	s.flushCall()
	return s.calls
}

func (s *scanner) line(line string) {
	if line == "" {
		return
	}

	switch line[0] {
	case callMarker:
		s.flushCall()
		s.call = &domain.ServiceCall{
			CallID:       strings.TrimSpace(line[1:]),
			Interactions: []domain.Interaction{},
		}
	case interactionMarker:
		s.content(strings.TrimSpace(line[1:]))
	}
}

func (s *scanner) content(content string) {
	if strings.HasPrefix(content, separatorRun) {
		s.flushInteraction()
		s.interaction = &domain.Interaction{}
		return
	}

	if hp, ok := s.headerCandidate(content); ok {
		m := hp.Pattern.FindStringSubmatch(content)
		if m == nil {
			// Header-looking line that does not parse: dropped.
			logger.Debug("dropping unparsable header line %q", content)
			return
		}
		s.flushInteraction()
		s.interaction = &domain.Interaction{
			AddedBy:   strings.TrimSpace(m[1]),
			Timestamp: strings.TrimSpace(m[2]),
		}
		return
	}

	if s.interaction == nil {
		s.interaction = &domain.Interaction{Message: content}
		return
	}
	if s.interaction.Message != "" {
		s.interaction.Message += "\n"
	}
	s.interaction.Message += content
}

func (s *scanner) headerCandidate(content string) (HeaderPattern, bool) {
	for _, hp := range s.patterns {
		if strings.Contains(content, hp.AddedByMarker) && strings.Contains(content, hp.DateMarker) {
			return hp, true
		}
	}
	return HeaderPattern{}, false
}

// flushInteraction moves the open interaction into the open call.
// Interactions with neither header nor message are discarded, as are
// interactions that appear before the first call.
func (s *scanner) flushInteraction() {
	if s.interaction == nil {
		return
	}
	if s.call != nil && !s.interaction.IsEmpty() {
		s.call.Interactions = append(s.call.Interactions, *s.interaction)
	}
	s.interaction = nil
}

func (s *scanner) flushCall() {
	s.flushInteraction()
	if s.call != nil {
		s.calls = append(s.calls, *s.call)
		s.call = nil
	}
}
