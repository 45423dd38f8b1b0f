// Package styles provides the colour palette and lipgloss styles for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/render"
)

// Palette holds the colours every style is derived from.
type Palette struct {
	Accent    lipgloss.Color
	Secondary lipgloss.Color
	Surface   lipgloss.Color
	Text      lipgloss.Color
	Dim       lipgloss.Color
	Marker    lipgloss.Color
	Alert     lipgloss.Color
	Frame     lipgloss.Color
}

// DefaultPalette is a dark palette with a yellow match marker, matching the
// highlight colour stored in aggregated text.
func DefaultPalette() *Palette {
	return &Palette{
		Accent:    lipgloss.Color("#7C3AED"),
		Secondary: lipgloss.Color("#06B6D4"),
		Surface:   lipgloss.Color("#1E1E2E"),
		Text:      lipgloss.Color("#CDD6F4"),
		Dim:       lipgloss.Color("#6C7086"),
		Marker:    lipgloss.Color("#F9E2AF"),
		Alert:     lipgloss.Color("#F38BA8"),
		Frame:     lipgloss.Color("#45475A"),
	}
}

// Styles are the lipgloss styles shared by the views.
type Styles struct {
	palette *Palette

	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Normal     lipgloss.Style
	Muted      lipgloss.Style
	Selected   lipgloss.Style
	Error      lipgloss.Style
	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Help       lipgloss.Style

	// Highlight marks passages that matched the question.
	Highlight lipgloss.Style

	// Heading styles section headings inside chunk text.
	Heading lipgloss.Style
}

// NewStyles derives the styles from a palette. A nil palette uses DefaultPalette.
func NewStyles(p *Palette) *Styles {
	if p == nil {
		p = DefaultPalette()
	}

	return &Styles{
		palette:  p,
		Title:    lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(p.Secondary),
		Normal:   lipgloss.NewStyle().Foreground(p.Text),
		Muted:    lipgloss.NewStyle().Foreground(p.Dim),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(p.Text).Background(p.Accent),
		Error:    lipgloss.NewStyle().Foreground(p.Alert),
		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Frame).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(p.Dim).
			Background(lipgloss.Color("#181825")).
			Padding(0, 1),
		Help:      lipgloss.NewStyle().Foreground(p.Dim),
		Highlight: lipgloss.NewStyle().Foreground(p.Surface).Background(p.Marker),
		Heading:   lipgloss.NewStyle().Bold(true).Foreground(p.Secondary),
	}
}

// DefaultStyles returns styles for the default palette.
func DefaultStyles() *Styles {
	return NewStyles(DefaultPalette())
}

// Palette returns the palette the styles were built from.
func (s *Styles) Palette() *Palette {
	return s.palette
}

// Markup returns the styles used to render stored chunk markup.
func (s *Styles) Markup() render.Styles {
	return render.Styles{
		Highlight: s.Highlight,
		Heading:   s.Heading,
		Strong:    lipgloss.NewStyle().Bold(true),
		Emphasis:  lipgloss.NewStyle().Italic(true),
		Underline: lipgloss.NewStyle().Underline(true),
	}
}

// Block wraps text to width, right-aligned when the text is Hebrew.
func Block(text string, width int) string {
	style := lipgloss.NewStyle().Width(width)
	if domain.IsRTL(text) {
		style = style.Align(lipgloss.Right)
	}
	return style.Render(text)
}
