// Package status renders the one-line status bar under the question view.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui/keymap"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui/styles"
)

// State is the phase of the current question.
type State string

const (
	StateReady     State = "ready"
	StateSearching State = "searching"
	StateAnswering State = "answering"
	StateResults   State = "results"
	StateError     State = "error"
)

// Bar shows the question phase on the left and the active key hints on the right.
type Bar struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	state     State
	message   string
	documents int
	fragments int
	width     int
}

// NewBar creates a status bar in the ready state.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{styles: s, keymap: km, state: StateReady, width: 80}
}

// View renders the bar at its width.
func (b *Bar) View() string {
	left := b.phase()
	right := b.hints()
	inner := b.width - b.styles.StatusBar.GetHorizontalFrameSize()
	gap := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return b.styles.StatusBar.Width(b.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (b *Bar) phase() string {
	switch b.state {
	case StateSearching:
		return b.styles.Muted.Render("Searching...")
	case StateAnswering:
		if b.fragments == 0 {
			return b.styles.Muted.Render("Generating answer...")
		}
		return b.styles.Muted.Render(fmt.Sprintf("Generating answer... (%d parts)", b.fragments))
	case StateError:
		if b.message == "" {
			return b.styles.Error.Render("Error")
		}
		return b.styles.Error.Render("Error: " + b.message)
	case StateResults:
		if b.documents > 0 {
			return b.styles.Normal.Render(fmt.Sprintf("%d documents", b.documents))
		}
		return b.styles.Muted.Render("No documents")
	}
	return b.styles.Muted.Render("Ready")
}

func (b *Bar) hints() string {
	var bindings []key.Binding
	switch b.state {
	case StateReady:
		bindings = b.keymap.InputHelp()
	case StateAnswering:
		bindings = b.keymap.StreamingHelp()
	default:
		bindings = b.keymap.ResultsHelp()
	}

	hints := make([]string, len(bindings))
	for i, binding := range bindings {
		h := binding.Help()
		hints[i] = h.Key + ": " + h.Desc
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

// Start enters the searching state for a new question.
func (b *Bar) Start() {
	b.state = StateSearching
	b.message = ""
	b.documents = 0
	b.fragments = 0
}

// SetState sets the phase.
func (b *Bar) SetState(state State) {
	b.state = state
}

// State returns the phase.
func (b *Bar) State() State {
	return b.state
}

// SetMessage sets the error detail.
func (b *Bar) SetMessage(message string) {
	b.message = message
}

// Message returns the error detail.
func (b *Bar) Message() string {
	return b.message
}

// SetResultCount sets the number of matched documents.
func (b *Bar) SetResultCount(count int) {
	b.documents = count
}

// ResultCount returns the number of matched documents.
func (b *Bar) ResultCount() int {
	return b.documents
}

// AddFragment counts one streamed answer fragment.
func (b *Bar) AddFragment() {
	b.fragments++
}

// Fragments returns the number of fragments received for the current answer.
func (b *Bar) Fragments() int {
	return b.fragments
}

// SetWidth sets the bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// Width returns the bar width.
func (b *Bar) Width() int {
	return b.width
}

// Clear returns to the ready state.
func (b *Bar) Clear() {
	b.state = StateReady
	b.message = ""
	b.documents = 0
	b.fragments = 0
}
