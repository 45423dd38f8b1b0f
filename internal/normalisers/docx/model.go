package docx

import (
	"strconv"
	"strings"
)

// Document is the structural view of a DOCX file used for chunking.
type Document struct {
	// Paragraphs are the body-level paragraphs in document order.
	Paragraphs []Paragraph

	// Tables are the body-level tables in document order.
	Tables []Table
}

// Paragraph is one body paragraph.
type Paragraph struct {
	// Style is the display name of the paragraph style, e.g. "Heading 1".
	Style string

	Runs []Run
}

// Text returns the concatenated run text.
func (p Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// IsHeading reports whether the paragraph uses a heading style.
func (p Paragraph) IsHeading() bool {
	return strings.HasPrefix(p.Style, "Heading")
}

// HeadingLevel returns the trailing digit of the style name, or 1 when there is none.
func (p Paragraph) HeadingLevel() int {
	if p.Style == "" {
		return 1
	}
	level, err := strconv.Atoi(p.Style[len(p.Style)-1:])
	if err != nil || level == 0 {
		return 1
	}
	return level
}

// IsListItem reports whether the paragraph uses the list paragraph style.
func (p Paragraph) IsListItem() bool {
	return p.Style == "List Paragraph"
}

// Run is a span of text with uniform direct formatting.
type Run struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool

	// Color is the explicit font color as six hex digits, empty for automatic.
	Color string
}

// RGB returns the red, green and blue components of Color.
// ok is false when no explicit color is set.
func (r Run) RGB() (red, green, blue uint8, ok bool) {
	if len(r.Color) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(r.Color, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

// Table is a body-level table.
type Table struct {
	Rows []Row
}

// Row holds the text of each cell. Horizontally merged cells repeat once per spanned column.
type Row struct {
	Cells []string
}
