// Package documents provides the ingested documents list view for the TUI.
package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui/components/list"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui/messages"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui/styles"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driving"
)

// ErrNoDocumentService indicates the document listing is not available.
var ErrNoDocumentService = errors.New("document service not available")

// View lists the source documents held by the vector store.
type View struct {
	styles          *styles.Styles
	documentService driving.DocumentService
	ctx             context.Context

	sources      []string
	selected     int
	width        int
	height       int
	ready        bool
	err          error
	loading      bool
	scrollOffset int
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:          s,
		documentService: documentService,
		ctx:             context.Background(),
		width:           80,
		height:          24,
	}
}

// WithContext sets the context for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the document list.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadDocuments()
}

func (v *View) loadDocuments() tea.Cmd {
	svc, ctx := v.documentService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentsLoaded{Err: ErrNoDocumentService}
		}
		sources, err := svc.List(ctx)
		return messages.DocumentsLoaded{Sources: sources, Err: err}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.sources = msg.Sources
		v.err = nil
		v.selected = 0
		v.scrollOffset = 0
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.sources)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "enter":
		if source := v.SelectedSource(); source != "" {
			return v, func() tea.Msg {
				return messages.DocumentSelected{Source: source}
			}
		}
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case "r":
		v.loading = true
		return v, v.loadDocuments()
	}

	return v, nil
}

// adjustScroll keeps the selected item visible.
func (v *View) adjustScroll() {
	visibleItems := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visibleItems {
		v.scrollOffset = v.selected - visibleItems + 1
	}
}

func (v *View) visibleItemCount() int {
	// title, separator, help and padding
	available := v.height - 8
	if available < 1 {
		available = 1
	}
	return available
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Documents (%d)", len(v.sources))))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.sources) == 0:
		b.WriteString(v.styles.Muted.Render("No documents ingested. Run 'procedures ingest <path>' first."))
	default:
		visibleItems := v.visibleItemCount()
		end := min(v.scrollOffset+visibleItems, len(v.sources))
		for i := v.scrollOffset; i < end; i++ {
			b.WriteString(v.renderSource(i))
			b.WriteString("\n")
		}
		if len(v.sources) > visibleItems {
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]", v.scrollOffset+1, end, len(v.sources))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] show content  [r] reload  [esc] back"))
	return b.String()
}

func (v *View) renderSource(index int) string {
	name := list.Truncate(v.sources[index], max(v.width-6, 10))
	if index == v.selected {
		return v.styles.Selected.Render("> " + name)
	}
	return v.styles.Normal.Render("  " + name)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Sources returns the listed source documents.
func (v *View) Sources() []string {
	return v.sources
}

// SelectedIndex returns the currently selected index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedSource returns the selected source, or "" when the list is empty.
func (v *View) SelectedSource() string {
	if v.selected < 0 || v.selected >= len(v.sources) {
		return ""
	}
	return v.sources[v.selected]
}

// Loading reports whether the list is being (re)loaded.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
