package doccontent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui/messages"
	"github.com/pmatancambium/cambium-procedures/internal/adapters/driving/tui/styles"
	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
)

type mockDocumentService struct {
	chunks map[string][]domain.Chunk
	err    error
}

func (m *mockDocumentService) List(_ context.Context) ([]string, error) {
	return nil, nil
}

func (m *mockDocumentService) Chunks(_ context.Context, source string) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	chunks, ok := m.chunks[source]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return chunks, nil
}

func numberedLines(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %02d", i+1)
	}
	return strings.Join(lines, "\n")
}

func newView(svc *mockDocumentService, width, height int) *View {
	var v *View
	if svc == nil {
		v = NewView(styles.DefaultStyles(), nil)
	} else {
		v = NewView(styles.DefaultStyles(), svc)
	}
	v.SetDimensions(width, height)
	return v
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil)

	require.NotNil(t, v)
	assert.NotNil(t, v.styles)
	assert.Equal(t, messages.ViewDocuments, v.Back())
	assert.Nil(t, v.Init())
	assert.Contains(t, v.View(), "Document Content")
	assert.Contains(t, v.View(), "(No content)")
}

func TestView_SetResult_RendersHighlights(t *testing.T) {
	v := newView(nil, 80, 24)

	v.SetResult(domain.AggregatedDocument{
		Filename:   "router.docx",
		Text:       "Restart the " + domain.HighlightOpen + "router" + domain.HighlightClose + " first.",
		Highlights: []string{"router"},
	})

	assert.Equal(t, "router.docx", v.Title())
	assert.Equal(t, messages.ViewAsk, v.Back())
	view := v.View()
	assert.Contains(t, view, "router.docx")
	assert.Contains(t, view, "1 highlighted passages")
	assert.Contains(t, view, "Restart the router first.")
	assert.NotContains(t, view, "<span")
}

func TestView_SetResult_RightAlignsHebrew(t *testing.T) {
	v := newView(nil, 40, 24)

	v.SetResult(domain.AggregatedDocument{Filename: "a.txt", Text: "שלום"})

	require.NotEmpty(t, v.Lines())
	assert.Regexp(t, `^\s+שלום$`, v.Lines()[0])
}

func TestView_SetSource_LoadsChunks(t *testing.T) {
	svc := &mockDocumentService{chunks: map[string][]domain.Chunk{
		"guide.docx": {
			{Source: "guide.docx", Heading: "Intro", PlainText: "hello", FormattedText: "hello"},
			{Source: "guide.docx", PlainText: "world", FormattedText: "<b>world</b>"},
		},
	}}
	v := newView(svc, 80, 24)

	cmd := v.SetSource("guide.docx")
	require.NotNil(t, cmd)
	assert.True(t, v.Loading())
	assert.Contains(t, v.View(), "Loading content...")

	v, _ = v.Update(cmd())

	assert.False(t, v.Loading())
	assert.NoError(t, v.Err())
	assert.Equal(t, messages.ViewDocuments, v.Back())
	view := v.View()
	assert.Contains(t, view, "Intro")
	assert.Contains(t, view, "hello")
	assert.Contains(t, view, "world")
	assert.NotContains(t, view, "<b>")
}

func TestView_SetSource_NotFound(t *testing.T) {
	v := newView(&mockDocumentService{}, 80, 24)

	v, _ = v.Update(v.SetSource("missing.txt")())

	assert.ErrorIs(t, v.Err(), domain.ErrNotFound)
	assert.Contains(t, v.View(), "Error:")
}

func TestView_SetSource_NoService(t *testing.T) {
	v := newView(nil, 80, 24)

	v, _ = v.Update(v.SetSource("a.txt")())

	assert.ErrorIs(t, v.Err(), ErrNoDocumentService)
}

func TestView_StaleContentIgnored(t *testing.T) {
	svc := &mockDocumentService{chunks: map[string][]domain.Chunk{
		"old.txt": {{Source: "old.txt", PlainText: "old", FormattedText: "old"}},
	}}
	v := newView(svc, 80, 24)
	stale := v.SetSource("old.txt")
	v.SetResult(domain.AggregatedDocument{Filename: "new.txt", Text: "new"})

	v, _ = v.Update(stale())

	assert.Equal(t, "new.txt", v.Title())
	assert.Contains(t, v.View(), "new")
	assert.NotContains(t, v.View(), "old")
}

func TestView_ChunksJoinedInOrder(t *testing.T) {
	got := joinChunks([]domain.Chunk{
		{Heading: "A", FormattedText: "A body"},
		{Heading: "B", FormattedText: "text"},
	})

	assert.Equal(t, "A body\n\nB\ntext", got)
}

func TestView_Scrolling(t *testing.T) {
	// height 16 shows ten lines of thirty
	v := newView(nil, 80, 16)
	v.SetResult(domain.AggregatedDocument{Filename: "long.txt", Text: numberedLines(30)})
	require.Len(t, v.Lines(), 30)
	assert.Equal(t, 20, v.maxScrollOffset())

	v, _ = v.Update(key("j"))
	assert.Equal(t, 1, v.scrollOffset)

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyUp})
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, v.scrollOffset)

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, 10, v.scrollOffset)

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	assert.Equal(t, 20, v.scrollOffset)

	v, _ = v.Update(key("j"))
	assert.Equal(t, 20, v.scrollOffset)

	view := v.View()
	assert.Contains(t, view, "line 30")
	assert.NotContains(t, view, "line 20")
	assert.Contains(t, view, "[100%] Line 21-30 of 30")

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyPgUp})
	assert.Equal(t, 10, v.scrollOffset)

	v, _ = v.Update(key("g"))
	assert.Equal(t, 0, v.scrollOffset)

	v, _ = v.Update(key("G"))
	assert.Equal(t, 20, v.scrollOffset)

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	assert.Equal(t, 0, v.scrollOffset)
}

func TestView_Esc_ReturnsToOrigin(t *testing.T) {
	v := newView(&mockDocumentService{}, 80, 24)

	v.SetResult(domain.AggregatedDocument{Filename: "a.txt", Text: "a"})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewAsk}, cmd())

	v.SetSource("a.txt")
	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewDocuments}, cmd())
}

func TestView_ErrorOccurred(t *testing.T) {
	v := newView(nil, 80, 24)

	v, _ = v.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.EqualError(t, v.Err(), "boom")
}

func TestView_VisibleLines(t *testing.T) {
	v := newView(nil, 80, 3)
	assert.Equal(t, 1, v.visibleLines())

	v.SetDimensions(80, 30)
	assert.Equal(t, 24, v.visibleLines())
}

func TestView_WindowSize_Rewraps(t *testing.T) {
	v := newView(nil, 80, 24)
	v.SetResult(domain.AggregatedDocument{Filename: "w.txt", Text: strings.Repeat("word ", 30)})
	wide := len(v.Lines())

	v, _ = v.Update(tea.WindowSizeMsg{Width: 30, Height: 24})

	assert.Greater(t, len(v.Lines()), wide)
}
