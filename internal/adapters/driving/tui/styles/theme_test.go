package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPalette(t *testing.T) {
	p := DefaultPalette()

	require.NotNil(t, p)
	for name, c := range map[string]lipgloss.Color{
		"accent": p.Accent, "secondary": p.Secondary, "surface": p.Surface, "text": p.Text,
		"dim": p.Dim, "marker": p.Marker, "alert": p.Alert, "frame": p.Frame,
	} {
		assert.NotEmpty(t, string(c), name)
	}
	assert.NotEqual(t, p.Marker, p.Alert)
	assert.NotEqual(t, p.Accent, p.Secondary)
}

func TestNewStyles(t *testing.T) {
	p := DefaultPalette()
	assert.Same(t, p, NewStyles(p).Palette())
	assert.NotNil(t, NewStyles(nil).Palette())
	assert.NotNil(t, DefaultStyles().Palette())
}

func TestStyles_Initialised(t *testing.T) {
	s := DefaultStyles()

	for name, style := range map[string]lipgloss.Style{
		"title": s.Title, "subtitle": s.Subtitle, "normal": s.Normal, "muted": s.Muted,
		"selected": s.Selected, "error": s.Error, "input": s.InputField, "status": s.StatusBar,
		"help": s.Help, "highlight": s.Highlight, "heading": s.Heading,
	} {
		assert.NotEqual(t, lipgloss.Style{}, style, name)
		assert.Contains(t, style.Render("text"), "text", name)
	}
}

func TestStyles_Markup(t *testing.T) {
	s := DefaultStyles()
	m := s.Markup()

	assert.Equal(t, s.Highlight, m.Highlight)
	assert.Equal(t, s.Heading, m.Heading)
	assert.True(t, m.Strong.GetBold())
	assert.True(t, m.Emphasis.GetItalic())
	assert.True(t, m.Underline.GetUnderline())
}

func TestBlock(t *testing.T) {
	t.Run("left to right", func(t *testing.T) {
		out := Block("hello", 12)
		assert.True(t, strings.HasPrefix(out, "hello"))
		assert.Equal(t, 12, lipgloss.Width(out))
	})

	t.Run("hebrew is right aligned", func(t *testing.T) {
		out := Block("שלום", 12)
		assert.True(t, strings.HasSuffix(out, "שלום"))
		assert.True(t, strings.HasPrefix(out, " "))
	})

	t.Run("wraps to width", func(t *testing.T) {
		out := Block("one two three four", 9)
		assert.Greater(t, len(strings.Split(out, "\n")), 1)
	})
}
