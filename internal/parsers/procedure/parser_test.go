package procedure

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/normalisers/docx/docxtest"
)

type stubPages struct {
	pages []string
	err   error
}

func (s stubPages) Pages(context.Context, *domain.RawDocument) ([]string, error) {
	return s.pages, s.err
}

func TestParse_DOCX(t *testing.T) {
	raw := &domain.RawDocument{
		Path:   "/docs/guide.docx",
		Format: domain.FormatDOCX,
		Content: docxtest.New().
			Heading(1, "Setup").
			Styled("", docxtest.R{Text: "Run "}, docxtest.R{Text: "install", Bold: true}).
			ListItem("reboot").
			Table([]string{"a", "b"}).
			Bytes(),
	}

	chunks, err := New(nil).Parse(context.Background(), raw, 100)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, domain.Chunk{
		Source:        "guide.docx",
		Heading:       "<h1>Setup</h1>",
		PlainText:     "Setup\nRun install reboot",
		FormattedText: "<h1>Setup</h1>\nRun <strong>install</strong> <li>reboot</li>",
	}, chunks[0])
	assert.Equal(t, "<table><tr><td>a</td><td>b</td></tr></table>", chunks[1].PlainText)
}

func TestParse_DOCXCorrupt(t *testing.T) {
	raw := &domain.RawDocument{Path: "bad.docx", Format: domain.FormatDOCX, Content: []byte("x")}

	_, err := New(nil).Parse(context.Background(), raw, 100)
	assert.ErrorIs(t, err, domain.ErrIO)
}

func TestParse_PDF(t *testing.T) {
	raw := &domain.RawDocument{Path: "m.pdf", Format: domain.FormatPDF}

	chunks, err := New(stubPages{pages: []string{"one\ntwo"}}).Parse(context.Background(), raw, 100)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "one two", chunks[0].PlainText)
}

func TestParse_PDFError(t *testing.T) {
	raw := &domain.RawDocument{Path: "m.pdf", Format: domain.FormatPDF}
	wantErr := errors.New("broken")

	_, err := New(stubPages{err: wantErr}).Parse(context.Background(), raw, 100)
	assert.ErrorIs(t, err, wantErr)
}

func TestParse_Unsupported(t *testing.T) {
	_, err := New(nil).Parse(context.Background(), &domain.RawDocument{Path: "m.pdf", Format: domain.FormatPDF}, 100)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)

	_, err = New(nil).Parse(context.Background(), &domain.RawDocument{Path: "c.txt", Format: domain.FormatText}, 100)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)

	_, err = New(nil).Parse(context.Background(), nil, 100)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFormats(t *testing.T) {
	assert.Equal(t, []domain.Format{domain.FormatDOCX}, New(nil).Formats())
	assert.Equal(t, []domain.Format{domain.FormatDOCX, domain.FormatPDF}, New(stubPages{}).Formats())
}
