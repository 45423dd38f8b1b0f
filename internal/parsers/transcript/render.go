package transcript

import (
	"fmt"
	"html"
	"strings"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
)

// Heading returns the chunk heading for a call.
func Heading(callID string) string {
	return "Service call " + callID
}

// RenderCall builds the chunk for one call. ok is false for calls without interactions.
func RenderCall(source string, call domain.ServiceCall) (domain.Chunk, bool) {
	if len(call.Interactions) == 0 {
		return domain.Chunk{}, false
	}

	heading := Heading(call.CallID)
	plain := make([]string, 0, len(call.Interactions))
	formatted := make([]string, 0, len(call.Interactions))

	for _, in := range call.Interactions {
		var p, f strings.Builder
		if in.HasHeader() {
			header := fmt.Sprintf("%s (%s):", in.AddedBy, in.Timestamp)
			p.WriteString(header)
			f.WriteString("<strong>" + html.EscapeString(header) + "</strong>")
			if in.Message != "" {
				p.WriteString("\n")
			}
		}
		if in.Message != "" {
			p.WriteString(in.Message)
			lines := strings.Split(html.EscapeString(in.Message), "\n")
			f.WriteString("<p>" + strings.Join(lines, "<br>") + "</p>")
		}
		plain = append(plain, p.String())
		formatted = append(formatted, f.String())
	}

	return domain.Chunk{
		Source:        source,
		Heading:       heading,
		PlainText:     heading + "\n" + strings.Join(plain, "\n\n"),
		FormattedText: heading + "\n" + strings.Join(formatted, "\n"),
	}, true
}
