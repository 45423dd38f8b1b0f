package normalisers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/normalisers/docx"
	"github.com/pmatancambium/cambium-procedures/internal/normalisers/docx/docxtest"
	"github.com/pmatancambium/cambium-procedures/internal/normalisers/plaintext"
)

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestRegistry_SupportedFormats(t *testing.T) {
	r := NewRegistry(plaintext.New(), docx.New())

	assert.Equal(t, []domain.Format{domain.FormatDOCX, domain.FormatText}, r.SupportedFormats())
	assert.NotNil(t, r.Get(domain.FormatText))
	assert.Nil(t, r.Get(domain.FormatPDF))
}

func TestRegistry_LoadText(t *testing.T) {
	r := NewRegistry(plaintext.New(), docx.New())
	path := writeFile(t, "calls.TXT", []byte("1001\n2hello\n"))

	content, err := r.Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "calls.TXT", content.Source)
	assert.Equal(t, "1001\n2hello\n", content.Text)
}

func TestRegistry_LoadDOCX(t *testing.T) {
	r := NewRegistry(plaintext.New(), docx.New())
	path := writeFile(t, "guide.docx", docxtest.New().Para("one").Para("two").Bytes())

	content, err := r.Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "one\ntwo", content.Text)
}

func TestRegistry_UnsupportedFormat(t *testing.T) {
	r := NewRegistry(plaintext.New())
	path := writeFile(t, "sheet.xlsx", []byte("x"))

	_, err := r.Load(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)

	// Known format without a registered loader.
	path = writeFile(t, "guide.docx", []byte("x"))
	_, err = r.Load(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestRegistry_MissingFile(t *testing.T) {
	r := NewRegistry(plaintext.New())

	_, err := r.Load(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, domain.ErrIO)
}
