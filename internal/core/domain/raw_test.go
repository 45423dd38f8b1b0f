package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"calls.txt", FormatText, false},
		{"/tmp/Guide.DOCX", FormatDOCX, false},
		{"manual.pdf", FormatPDF, false},
		{"sheet.xlsx", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnsupportedFormat))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRawDocument_SourceID(t *testing.T) {
	raw := RawDocument{Path: "/data/procedures/setup.docx"}

	assert.Equal(t, "setup.docx", raw.SourceID())
}

func TestAllFormats(t *testing.T) {
	assert.Equal(t, []Format{FormatText, FormatDOCX, FormatPDF}, AllFormats())
}
