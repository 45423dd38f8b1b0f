package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_Matches(t *testing.T) {
	km := DefaultKeyMap()
	require.NotNil(t, km)

	tests := []struct {
		name    string
		msg     tea.KeyMsg
		binding key.Binding
	}{
		{"enter asks", tea.KeyMsg{Type: tea.KeyEnter}, km.Ask},
		{"enter opens", tea.KeyMsg{Type: tea.KeyEnter}, km.Open},
		{"esc goes back", tea.KeyMsg{Type: tea.KeyEsc}, km.Back},
		{"arrow up", tea.KeyMsg{Type: tea.KeyUp}, km.Up},
		{"vim up", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}, km.Up},
		{"arrow down", tea.KeyMsg{Type: tea.KeyDown}, km.Down},
		{"vim down", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}, km.Down},
		{"new question", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}, km.NewQuestion},
		{"stop", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}, km.Stop},
		{"quit", tea.KeyMsg{Type: tea.KeyCtrlC}, km.Quit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, key.Matches(tt.msg, tt.binding))
		})
	}
}

func TestDefaultKeyMap_QuitIgnoresLetters(t *testing.T) {
	km := DefaultKeyMap()

	// q is typed into questions, so it must not quit.
	assert.False(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, km.Quit))
}

func TestHelpSets(t *testing.T) {
	km := DefaultKeyMap()

	desc := func(bindings []key.Binding) []string {
		out := make([]string, len(bindings))
		for i, b := range bindings {
			out[i] = b.Help().Desc
		}
		return out
	}

	assert.Equal(t, []string{"ask", "menu"}, desc(km.InputHelp()))
	assert.Equal(t, []string{"up", "open", "new question", "menu"}, desc(km.ResultsHelp()))
	assert.Equal(t, []string{"open", "stop and ask again", "menu"}, desc(km.StreamingHelp()))
}
