// Package render turns the inline HTML stored with chunks into terminal text.
package render

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Styles are applied to the matching markup. Zero styles render plain text.
type Styles struct {
	Highlight lipgloss.Style
	Heading   lipgloss.Style
	Strong    lipgloss.Style
	Emphasis  lipgloss.Style
	Underline lipgloss.Style
}

// DefaultStyles mark highlights in reverse yellow and headings in bold purple.
func DefaultStyles() Styles {
	return Styles{
		Highlight: lipgloss.NewStyle().Background(lipgloss.Color("#F9E2AF")).Foreground(lipgloss.Color("#1E1E2E")),
		Heading:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		Strong:    lipgloss.NewStyle().Bold(true),
		Emphasis:  lipgloss.NewStyle().Italic(true),
		Underline: lipgloss.NewStyle().Underline(true),
	}
}

var (
	rgbPattern   = regexp.MustCompile(`color:\s*rgb\((\d+),\s*(\d+),\s*(\d+)\)`)
	blankRunning = regexp.MustCompile(`\n{3,}`)
)

// Plain strips markup, keeping line structure.
func Plain(markup string) string {
	return Text(markup, Styles{})
}

// Text renders markup with styles applied to each run of text.
func Text(markup string, styles Styles) string {
	var (
		out    strings.Builder
		stack  []lipgloss.Style
		inCell bool
	)
	current := func() lipgloss.Style {
		if len(stack) == 0 {
			return lipgloss.NewStyle()
		}
		return stack[len(stack)-1]
	}
	push := func(s lipgloss.Style) { stack = append(stack, s) }
	pop := func() {
		if len(stack) > 0 {
			stack = stack[:len(stack)-1]
		}
	}

	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				out.WriteString(markup)
				return out.String()
			}
			return strings.TrimRight(blankRunning.ReplaceAllString(out.String(), "\n\n"), "\n")

		case html.TextToken:
			writeStyled(&out, string(z.Text()), current())

		case html.SelfClosingTagToken:
			if tok := z.Token(); tok.DataAtom == atom.Br {
				out.WriteString("\n")
			}

		case html.StartTagToken:
			tok := z.Token()
			base := current()
			switch tok.DataAtom {
			case atom.Br:
				out.WriteString("\n")
			case atom.Strong, atom.B:
				push(styles.Strong.Inherit(base))
			case atom.Em, atom.I:
				push(styles.Emphasis.Inherit(base))
			case atom.U:
				push(styles.Underline.Inherit(base))
			case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
				push(styles.Heading.Inherit(base))
			case atom.Span:
				push(spanStyle(base, attr(tok, "style"), styles))
			case atom.Li:
				out.WriteString("• ")
			case atom.Td, atom.Th:
				if inCell {
					out.WriteString(" | ")
				}
				inCell = true
			}

		case html.EndTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Strong, atom.B, atom.Em, atom.I, atom.U, atom.Span,
				atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
				pop()
			case atom.P, atom.Li, atom.Table:
				out.WriteString("\n")
			case atom.Tr:
				inCell = false
				out.WriteString("\n")
			}
		}
	}
}

// writeStyled renders each line separately so lipgloss does not pad the block.
func writeStyled(out *strings.Builder, text string, style lipgloss.Style) {
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			out.WriteString("\n")
		}
		if line == "" {
			continue
		}
		out.WriteString(style.Render(line))
	}
}

func spanStyle(base lipgloss.Style, css string, styles Styles) lipgloss.Style {
	if strings.Contains(css, "background-color") {
		return styles.Highlight.Inherit(base)
	}
	if m := rgbPattern.FindStringSubmatch(css); m != nil {
		var r, g, b int
		if _, err := fmt.Sscanf(m[1]+" "+m[2]+" "+m[3], "%d %d %d", &r, &g, &b); err == nil {
			return base.Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, b)))
		}
	}
	return base
}

func attr(tok html.Token, name string) string {
	for _, a := range tok.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
