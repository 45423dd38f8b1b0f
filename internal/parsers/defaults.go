package parsers

import (
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driven"
	"github.com/pmatancambium/cambium-procedures/internal/parsers/procedure"
	"github.com/pmatancambium/cambium-procedures/internal/parsers/transcript"
)

// RegisterDefaults registers the transcript parser for plain text and the
// procedure parser for DOCX (and PDF when pdf is non-nil).
func RegisterDefaults(r *Registry, text driven.Loader, pdf procedure.PageReader) {
	r.Register(transcript.New(text))
	r.Register(procedure.New(pdf))
}
