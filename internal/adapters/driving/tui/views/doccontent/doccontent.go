// Package doccontent provides the document content view component for the TUI.
package doccontent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui/messages"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui/styles"
	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driving"
	"github.com/pmatancambium/cambium-procedures/internal/render"
)

// ErrNoDocumentService indicates document chunks cannot be loaded.
var ErrNoDocumentService = errors.New("document service not available")

// View shows the text of one source document, either a search result with
// its highlights or the stored chunks of a listed document.
type View struct {
	styles          *styles.Styles
	documentService driving.DocumentService
	ctx             context.Context

	title        string
	markup       string
	matches      int
	back         messages.ViewType
	lines        []string
	scrollOffset int
	width        int
	height       int
	ready        bool
	err          error
	loading      bool
}

// NewView creates a new document content view.
func NewView(s *styles.Styles, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:          s,
		documentService: documentService,
		ctx:             context.Background(),
		back:            messages.ViewDocuments,
		width:           80,
		height:          24,
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetResult shows an aggregated search result. Esc returns to the ask view.
func (v *View) SetResult(doc domain.AggregatedDocument) {
	v.reset(doc.Filename, messages.ViewAsk)
	v.markup = doc.Text
	v.matches = len(doc.Highlights)
	v.wrapContent()
}

// SetSource loads the stored chunks of a document. Esc returns to the
// documents list.
func (v *View) SetSource(source string) tea.Cmd {
	v.reset(source, messages.ViewDocuments)
	v.loading = true

	svc, ctx := v.documentService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentContentLoaded{Source: source, Err: ErrNoDocumentService}
		}
		chunks, err := svc.Chunks(ctx, source)
		return messages.DocumentContentLoaded{Source: source, Chunks: chunks, Err: err}
	}
}

func (v *View) reset(title string, back messages.ViewType) {
	v.title = title
	v.back = back
	v.markup = ""
	v.matches = 0
	v.lines = nil
	v.scrollOffset = 0
	v.err = nil
	v.loading = false
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the document content view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DocumentContentLoaded:
		if msg.Source != v.title {
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.markup = joinChunks(msg.Chunks)
		v.err = nil
		v.wrapContent()
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// joinChunks concatenates the display text of each chunk in stored order.
func joinChunks(chunks []domain.Chunk) string {
	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		parts = append(parts, c.DisplayText())
	}
	return strings.Join(parts, "\n\n")
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "pgup", "ctrl+u":
		v.scrollOffset = max(v.scrollOffset-v.visibleLines(), 0)
	case "pgdown", "ctrl+d":
		v.scrollOffset = min(v.scrollOffset+v.visibleLines(), v.maxScrollOffset())
	case "home", "g":
		v.scrollOffset = 0
	case "end", "G":
		v.scrollOffset = v.maxScrollOffset()
	case "esc":
		back := v.back
		return v, func() tea.Msg {
			return messages.ViewChanged{View: back}
		}
	}

	return v, nil
}

// wrapContent renders the markup and wraps it to the view width.
// Hebrew text is right-aligned.
func (v *View) wrapContent() {
	if strings.TrimSpace(v.markup) == "" {
		v.lines = nil
		return
	}

	contentWidth := max(v.width-4, 20)
	text := render.Text(v.markup, v.styles.Markup())

	v.lines = strings.Split(styles.Block(text, contentWidth), "\n")
}

// visibleLines returns the number of lines that can be displayed.
func (v *View) visibleLines() int {
	// title, separator, help and padding
	return max(v.height-6, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.lines)-v.visibleLines(), 0)
}

// View renders the document content view.
func (v *View) View() string {
	var b strings.Builder

	title := v.title
	if title == "" {
		title = "Document Content"
	}
	b.WriteString(v.styles.Title.Render(title))
	if v.matches > 0 {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  %d highlighted passages", v.matches)))
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(v.width-4, 60)))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading content..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.lines) == 0:
		b.WriteString(v.styles.Muted.Render("(No content)"))
	default:
		visible := v.visibleLines()
		end := min(v.scrollOffset+visible, len(v.lines))
		b.WriteString(strings.Join(v.lines[v.scrollOffset:end], "\n"))
		b.WriteString("\n")

		if len(v.lines) > visible {
			percentage := 0
			if v.maxScrollOffset() > 0 {
				percentage = v.scrollOffset * 100 / v.maxScrollOffset()
			}
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d%%] Line %d-%d of %d",
				percentage, v.scrollOffset+1, end, len(v.lines))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [g/G] top/bottom  [esc] back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.wrapContent()
}

// Title returns the shown document id.
func (v *View) Title() string {
	return v.title
}

// Lines returns the wrapped, rendered lines.
func (v *View) Lines() []string {
	return v.lines
}

// Back returns the view Esc returns to.
func (v *View) Back() messages.ViewType {
	return v.back
}

// Loading reports whether chunks are being loaded.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
