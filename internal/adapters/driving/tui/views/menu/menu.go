// Package menu is the start screen of the TUI.
package menu

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui/keymap"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui/messages"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui/styles"
)

// Entry is one line of the menu. Shortcut jumps straight to the entry's view.
type Entry struct {
	Label       string
	Description string
	Shortcut    string
	View        messages.ViewType
	Quit        bool
}

// Entries returns the menu in display order.
func Entries() []Entry {
	return []Entry{
		{Label: "Ask a question", Description: "Search the procedures and stream an answer", Shortcut: "a", View: messages.ViewAsk},
		{Label: "Documents", Description: "Browse ingested documents and their passages", Shortcut: "d", View: messages.ViewDocuments},
		{Label: "Unanswered questions", Description: "Review questions that matched nothing", Shortcut: "u", View: messages.ViewQuestions},
		{Label: "Help", Description: "Key bindings", Shortcut: "?", View: messages.ViewHelp},
		{Label: "Quit", Description: "Leave procedures", Shortcut: "q", Quit: true},
	}
}

// View is the menu model.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	entries []Entry
	cursor  int
	width   int
	height  int
	ready   bool
}

// NewView creates the menu with the cursor on the first entry.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:  s,
		keymap:  km,
		entries: Entries(),
		width:   80,
		height:  24,
	}
}

// Init implements the view lifecycle. The menu loads nothing.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update moves the cursor and activates entries.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keymap.Up):
			v.move(-1)
		case key.Matches(msg, v.keymap.Down):
			v.move(1)
		case key.Matches(msg, v.keymap.Open):
			return v, v.activate(v.entries[v.cursor])
		default:
			for i, e := range v.entries {
				if msg.String() == e.Shortcut {
					v.cursor = i
					return v, v.activate(e)
				}
			}
		}
	}
	return v, nil
}

// move shifts the cursor by delta, wrapping at both ends.
func (v *View) move(delta int) {
	n := len(v.entries)
	v.cursor = ((v.cursor+delta)%n + n) % n
}

func (v *View) activate(e Entry) tea.Cmd {
	if e.Quit {
		return tea.Quit
	}
	return func() tea.Msg {
		return messages.ViewChanged{View: e.View}
	}
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Procedures"))
	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render("Support Procedure Library"))
	b.WriteString("\n\n")

	for i, e := range v.entries {
		label := "[" + e.Shortcut + "] " + e.Label
		if i == v.cursor {
			b.WriteString(v.styles.Selected.Render("> " + label))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(v.entries[v.cursor].Description))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("j/k: move | enter: open | shortcut key: jump"))
	return b.String()
}

// SetDimensions records the terminal size and marks the view ready.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the cursor position.
func (v *View) Selected() int {
	return v.cursor
}
