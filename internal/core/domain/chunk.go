package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Chunk is the atomic retrievable unit of document text.
// Chunks are immutable once a parser has emitted them.
type Chunk struct {
	// Source identifies the originating document (file base name).
	Source string

	// Heading is the section title attached to this chunk, empty when absent.
	// It is stored in the same form that prefixes FormattedText.
	Heading string

	// PlainText is the markup-free content used as embedding input.
	PlainText string

	// FormattedText is the content with inline markup kept for display.
	FormattedText string
}

// IdentityKey returns the storage uniqueness key for the chunk.
// Two chunks with the same source, heading and plain-text length collide.
func (c Chunk) IdentityKey() string {
	return IdentityKey(c.Source, c.Heading, c.PlainText)
}

// IdentityKey derives the uniqueness key from a chunk's source, heading and plain text.
// The length is counted in characters, not bytes.
func IdentityKey(source, heading, plainText string) string {
	return fmt.Sprintf("%s-%s-%d", source, heading, utf8.RuneCountInString(plainText))
}

// HasHeading reports whether a heading is attached.
func (c Chunk) HasHeading() bool {
	return c.Heading != ""
}

// DisplayText returns the formatted text prefixed with the heading when the
// text does not already start with it.
func (c Chunk) DisplayText() string {
	if c.Heading == "" {
		return c.FormattedText
	}
	if strings.HasPrefix(c.FormattedText, c.Heading) {
		return c.FormattedText
	}
	return c.Heading + "\n" + c.FormattedText
}
