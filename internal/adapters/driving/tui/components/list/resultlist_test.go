package list

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
)

func sampleResults() []domain.AggregatedDocument {
	return []domain.AggregatedDocument{
		{Filename: "Document One", Text: "one", Highlights: []string{"<strong>first</strong> passage", "second"}},
		{Filename: "Document Two", Text: "two", Highlights: []string{"only"}},
		{Filename: "Document Three", Text: "three"},
	}
}

func manyResults(n int) []domain.AggregatedDocument {
	docs := make([]domain.AggregatedDocument, n)
	for i := range docs {
		docs[i] = domain.AggregatedDocument{Filename: fmt.Sprintf("doc-%02d.txt", i+1), Text: "body"}
	}
	return docs
}

func TestNewResultList(t *testing.T) {
	l := NewResultList(nil)

	require.NotNil(t, l)
	assert.NotNil(t, l.styles)
	assert.True(t, l.IsEmpty())
	assert.Zero(t, l.Count())
	assert.Nil(t, l.SelectedResult())
}

func TestResultList_SetResultsResetsCursor(t *testing.T) {
	l := NewResultList(nil)
	l.SetResults(sampleResults())
	l.MoveDown()
	l.MoveDown()
	require.Equal(t, 2, l.Selected())

	l.SetResults(sampleResults())

	assert.Zero(t, l.Selected())
	assert.Equal(t, 3, l.Count())
	assert.Equal(t, sampleResults(), l.Results())
}

func TestResultList_MoveStopsAtEnds(t *testing.T) {
	l := NewResultList(nil)
	l.SetResults(sampleResults())

	l.MoveUp()
	assert.Zero(t, l.Selected())

	for range 5 {
		l.MoveDown()
	}
	assert.Equal(t, 2, l.Selected())
	require.NotNil(t, l.SelectedResult())
	assert.Equal(t, "Document Three", l.SelectedResult().Filename)
}

func TestResultList_MoveOnEmptyList(t *testing.T) {
	l := NewResultList(nil)

	l.MoveDown()
	l.MoveUp()

	assert.Zero(t, l.Selected())
	assert.Nil(t, l.SelectedResult())
}

func TestResultList_View_Empty(t *testing.T) {
	assert.Contains(t, NewResultList(nil).View(), "No results")
}

func TestResultList_View_Rows(t *testing.T) {
	l := NewResultList(nil)
	l.SetDimensions(80, 20)
	l.SetResults(sampleResults())

	view := l.View()

	assert.Contains(t, view, "Documents (3)")
	assert.Contains(t, view, "> ")
	assert.Contains(t, view, " 1. Document One")
	assert.Contains(t, view, "2 matches")
	assert.Contains(t, view, "1 match")
	assert.Contains(t, view, "0 matches")
	assert.Contains(t, view, "first passage")
	assert.Contains(t, view, "three")
	assert.NotContains(t, view, "<strong>")
	assert.NotContains(t, view, "more")
}

func TestResultList_View_ScrollWindow(t *testing.T) {
	l := NewResultList(nil)
	l.SetDimensions(80, 10)
	l.SetResults(manyResults(6))

	view := l.View()
	assert.Contains(t, view, "doc-01.txt")
	assert.Contains(t, view, "doc-02.txt")
	assert.NotContains(t, view, "doc-03.txt")
	assert.Contains(t, view, "↓ 4 more")
	assert.NotContains(t, view, "↑")

	l.MoveDown()
	assert.Contains(t, l.View(), "doc-01.txt", "window holds while the cursor stays inside")

	l.MoveDown()
	l.MoveDown()
	view = l.View()
	assert.Contains(t, view, "doc-03.txt")
	assert.Contains(t, view, "doc-04.txt")
	assert.NotContains(t, view, "doc-02.txt")
	assert.Contains(t, view, "↑ 2 more")
	assert.Contains(t, view, "↓ 2 more")

	l.MoveUp()
	l.MoveUp()
	view = l.View()
	assert.Contains(t, view, "doc-02.txt")
	assert.Contains(t, view, "doc-03.txt")
	assert.Contains(t, view, "↑ 1 more")
}

func TestResultList_View_UntitledDocument(t *testing.T) {
	l := NewResultList(nil)
	l.SetResults([]domain.AggregatedDocument{{Text: "body"}})

	assert.Contains(t, l.View(), "(Untitled)")
}

func TestResultList_View_LongTitle(t *testing.T) {
	l := NewResultList(nil)
	longTitle := "This is a very long document title that should be truncated when displayed in the list view"
	l.SetResults([]domain.AggregatedDocument{{Filename: longTitle, Text: "body"}})

	view := l.View()

	assert.Contains(t, view, "...")
	assert.NotContains(t, view, "in the list view")
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"fits", "short", 10, "short"},
		{"cut", "abcdefghij", 6, "abc..."},
		{"hebrew counts runes", "שלום עולם", 7, "שלום..."},
		{"tiny limit", "abcdef", 2, "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.n))
		})
	}
}
