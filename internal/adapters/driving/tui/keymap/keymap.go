// Package keymap defines the key bindings of the question view and the
// hints shown for them.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the bindings used while asking and reading results.
type KeyMap struct {
	Quit        key.Binding
	Back        key.Binding
	Ask         key.Binding
	Up          key.Binding
	Down        key.Binding
	Open        key.Binding
	NewQuestion key.Binding

	// Stop abandons the answer being generated.
	Stop key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit:        key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "menu")),
		Ask:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "ask")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		NewQuestion: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new question")),
		Stop:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "stop and ask again")),
	}
}

// InputHelp lists the bindings active while typing a question.
func (k *KeyMap) InputHelp() []key.Binding {
	return []key.Binding{k.Ask, k.Back}
}

// ResultsHelp lists the bindings active while browsing matched documents.
func (k *KeyMap) ResultsHelp() []key.Binding {
	return []key.Binding{k.Up, k.Open, k.NewQuestion, k.Back}
}

// StreamingHelp lists the bindings active while an answer is generated.
func (k *KeyMap) StreamingHelp() []key.Binding {
	return []key.Binding{k.Open, k.Stop, k.Back}
}
