// Package list holds the scrolling document list of the question view.
package list

import (
	"fmt"
	"strings"

	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui/styles"
	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/render"
)

// rowHeight is the number of lines one document takes: name and preview.
const rowHeight = 2

// ResultList shows matched documents, a window of them at a time.
// The window only scrolls when the cursor leaves it.
type ResultList struct {
	styles *styles.Styles
	docs   []domain.AggregatedDocument
	cursor int
	offset int
	width  int
	height int
}

// NewResultList returns an empty list.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &ResultList{styles: s, width: 80, height: 10}
}

// SetResults replaces the documents and resets the cursor.
func (r *ResultList) SetResults(docs []domain.AggregatedDocument) {
	r.docs = docs
	r.cursor = 0
	r.offset = 0
}

// Results returns the documents.
func (r *ResultList) Results() []domain.AggregatedDocument {
	return r.docs
}

// SelectedResult returns the document under the cursor, or nil when empty.
func (r *ResultList) SelectedResult() *domain.AggregatedDocument {
	if r.cursor >= len(r.docs) {
		return nil
	}
	return &r.docs[r.cursor]
}

// Selected returns the cursor index.
func (r *ResultList) Selected() int {
	return r.cursor
}

// MoveUp moves the cursor up, stopping at the first document.
func (r *ResultList) MoveUp() {
	if r.cursor > 0 {
		r.cursor--
	}
	r.scroll()
}

// MoveDown moves the cursor down, stopping at the last document.
func (r *ResultList) MoveDown() {
	if r.cursor < len(r.docs)-1 {
		r.cursor++
	}
	r.scroll()
}

// SetDimensions sets the space available to the list.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
	r.scroll()
}

// Count returns the number of documents.
func (r *ResultList) Count() int {
	return len(r.docs)
}

// IsEmpty reports whether there are no documents.
func (r *ResultList) IsEmpty() bool {
	return len(r.docs) == 0
}

// visible is how many rows fit below the header and the scroll markers.
func (r *ResultList) visible() int {
	return max((r.height-4)/(rowHeight+1), 1)
}

func (r *ResultList) scroll() {
	n := r.visible()
	switch {
	case r.cursor < r.offset:
		r.offset = r.cursor
	case r.cursor >= r.offset+n:
		r.offset = r.cursor - n + 1
	}
}

// View renders the header, the visible window and markers for hidden rows.
func (r *ResultList) View() string {
	if len(r.docs) == 0 {
		return r.styles.Muted.Render("No results")
	}

	var b strings.Builder
	b.WriteString(r.styles.Subtitle.Render(fmt.Sprintf("Documents (%d)", len(r.docs))))
	b.WriteString("\n")

	end := min(r.offset+r.visible(), len(r.docs))
	if r.offset > 0 {
		b.WriteString(r.styles.Muted.Render(fmt.Sprintf("  ↑ %d more", r.offset)))
	}
	b.WriteString("\n")
	for i := r.offset; i < end; i++ {
		b.WriteString(r.row(i))
		b.WriteString("\n")
	}
	if hidden := len(r.docs) - end; hidden > 0 {
		b.WriteString(r.styles.Muted.Render(fmt.Sprintf("  ↓ %d more", hidden)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *ResultList) row(i int) string {
	doc := &r.docs[i]

	name := doc.Filename
	if name == "" {
		name = "(Untitled)"
	}
	nameWidth := max(r.width-24, 10)
	heading := fmt.Sprintf("%2d. %-*s", i+1, nameWidth, Truncate(name, nameWidth))
	count := matchCount(len(doc.Highlights))

	var line string
	if i == r.cursor {
		line = r.styles.Selected.Render("> " + heading + "  " + count)
	} else {
		line = r.styles.Normal.Render("  "+heading+"  ") + r.styles.Muted.Render(count)
	}

	source := doc.Text
	if len(doc.Highlights) > 0 {
		source = doc.Highlights[0]
	}
	preview := strings.Join(strings.Fields(render.Plain(source)), " ")
	return line + "\n" + r.styles.Muted.Render("      "+Truncate(preview, max(r.width-8, 20)))
}

func matchCount(n int) string {
	if n == 1 {
		return "1 match"
	}
	return fmt.Sprintf("%d matches", n)
}

// Truncate shortens s to at most n runes, ending with "..." when cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
