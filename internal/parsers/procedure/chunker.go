// Package procedure chunks rich procedure documents (DOCX and PDF) into
// word-count bounded chunks, keeping inline formatting for display.
package procedure

import (
	"fmt"
	"html"
	"strings"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/normalisers/docx"
)

// DefaultChunkSize is the default word-count threshold.
const DefaultChunkSize = 100

// accumulator holds the plain and formatted parts of the chunk being built.
// Both slices always have the same length.
type accumulator struct {
	source string
	size   int

	plain     []string
	formatted []string
	words     int

	heading      string
	headingPlain string

	chunks []domain.Chunk
}

func newAccumulator(source string, size int) *accumulator {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return &accumulator{source: source, size: size}
}

// setHeading flushes pending text and makes the heading pending.
func (a *accumulator) setHeading(formatted, plain string) {
	a.flush()
	a.heading = formatted
	a.headingPlain = plain
}

// add appends a body paragraph, flushing first when it would overflow the threshold.
func (a *accumulator) add(formatted, plain string) {
	words := domain.WordCount(plain)
	if a.words+words > a.size {
		a.flush()
	}
	a.plain = append(a.plain, plain)
	a.formatted = append(a.formatted, formatted)
	a.words += words
}

// flush emits the accumulated text as a chunk. The pending heading is
// attached to it and then cleared. Nothing happens when empty.
func (a *accumulator) flush() {
	if len(a.plain) == 0 {
		return
	}

	chunk := domain.Chunk{
		Source:        a.source,
		PlainText:     strings.Join(a.plain, " "),
		FormattedText: strings.Join(a.formatted, " "),
	}
	if a.heading != "" {
		chunk.Heading = a.heading
		chunk.PlainText = a.headingPlain + "\n" + chunk.PlainText
		chunk.FormattedText = a.heading + "\n" + chunk.FormattedText
		a.heading, a.headingPlain = "", ""
	}

	a.chunks = append(a.chunks, chunk)
	a.plain, a.formatted, a.words = nil, nil, 0
}

// ChunkDocument walks the paragraphs, then renders each table as its own chunk.
func ChunkDocument(source string, doc *docx.Document, chunkSize int) []domain.Chunk {
	acc := newAccumulator(source, chunkSize)

	for _, para := range doc.Paragraphs {
		text := strings.TrimSpace(para.Text())
		if text == "" {
			continue
		}

		formatted := FormatParagraph(para)
		if para.IsHeading() {
			acc.setHeading(formatted, text)
			continue
		}
		acc.add(formatted, text)
	}
	acc.flush()

	for _, table := range doc.Tables {
		markup := FormatTable(table)
		acc.chunks = append(acc.chunks, domain.Chunk{
			Source:        source,
			PlainText:     markup,
			FormattedText: markup,
		})
	}
	return acc.chunks
}

// ChunkPages accumulates the non-blank lines of each page under the word-count
// threshold. There is no heading detection; plain and formatted text are identical.
func ChunkPages(source string, pages []string, chunkSize int) []domain.Chunk {
	acc := newAccumulator(source, chunkSize)
	for _, page := range pages {
		for _, line := range strings.Split(page, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			acc.add(line, line)
		}
	}
	acc.flush()
	return acc.chunks
}

// FormatParagraph renders the runs with inline markup. Bold, italic,
// underline and color nest in that order, innermost first.
func FormatParagraph(para docx.Paragraph) string {
	var b strings.Builder
	for _, run := range para.Runs {
		b.WriteString(formatRun(run))
	}

	formatted := b.String()
	switch {
	case para.IsHeading():
		level := para.HeadingLevel()
		formatted = fmt.Sprintf("<h%d>%s</h%d>", level, formatted, level)
	case para.IsListItem():
		formatted = "<li>" + formatted + "</li>"
	}
	return formatted
}

func formatRun(run docx.Run) string {
	text := html.EscapeString(run.Text)
	if run.Bold {
		text = "<strong>" + text + "</strong>"
	}
	if run.Italic {
		text = "<em>" + text + "</em>"
	}
	if run.Underline {
		text = "<u>" + text + "</u>"
	}
	if r, g, b, ok := run.RGB(); ok {
		text = fmt.Sprintf(`<span style="color: rgb(%d, %d, %d);">%s</span>`, r, g, b, text)
	}
	return text
}

// FormatTable renders a table as HTML rows and cells.
func FormatTable(table docx.Table) string {
	var b strings.Builder
	b.WriteString("<table>")
	for _, row := range table.Rows {
		b.WriteString("<tr>")
		for _, cell := range row.Cells {
			b.WriteString("<td>" + html.EscapeString(strings.TrimSpace(cell)) + "</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")
	return b.String()
}
