// Package docxtest builds minimal DOCX files in memory for tests.
package docxtest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"strings"
)

const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// Builder accumulates body content for a DOCX file.
type Builder struct {
	body   strings.Builder
	styles map[string]string
}

// New returns an empty builder with the Heading 1-3 and List Paragraph styles defined.
func New() *Builder {
	return &Builder{
		styles: map[string]string{
			"Heading1":      "heading 1",
			"Heading2":      "heading 2",
			"Heading3":      "heading 3",
			"ListParagraph": "List Paragraph",
		},
	}
}

// R describes a run.
type R struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	Color     string
}

// Heading adds a heading paragraph of the given level.
func (b *Builder) Heading(level int, text string) *Builder {
	return b.Styled(fmt.Sprintf("Heading%d", level), R{Text: text})
}

// Para adds a Normal paragraph with a single plain run.
func (b *Builder) Para(text string) *Builder {
	return b.Styled("", R{Text: text})
}

// ListItem adds a List Paragraph paragraph.
func (b *Builder) ListItem(text string) *Builder {
	return b.Styled("ListParagraph", R{Text: text})
}

// Styled adds a paragraph with the given style id and runs.
func (b *Builder) Styled(styleID string, runs ...R) *Builder {
	b.body.WriteString(paragraphXML(styleID, runs))
	return b
}

// Table adds a table with one paragraph per cell.
func (b *Builder) Table(rows ...[]string) *Builder {
	b.body.WriteString("<w:tbl>")
	for _, row := range rows {
		b.body.WriteString("<w:tr>")
		for _, cell := range row {
			b.body.WriteString("<w:tc>" + paragraphXML("", []R{{Text: cell}}) + "</w:tc>")
		}
		b.body.WriteString("</w:tr>")
	}
	b.body.WriteString("</w:tbl>")
	return b
}

// Raw appends body XML verbatim.
func (b *Builder) Raw(xml string) *Builder {
	b.body.WriteString(xml)
	return b
}

// Bytes returns the zipped DOCX file.
func (b *Builder) Bytes() []byte {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	write := func(name, content string) {
		f, err := w.Create(name)
		if err != nil {
			panic(err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			panic(err)
		}
	}

	write("[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
</Types>`)
	write("word/document.xml", `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="`+wordNS+`"><w:body>`+b.body.String()+`</w:body></w:document>`)

	var styles strings.Builder
	for id, name := range b.styles {
		styles.WriteString(fmt.Sprintf(`<w:style w:type="paragraph" w:styleId="%s"><w:name w:val="%s"/></w:style>`, id, name))
	}
	write("word/styles.xml", `<?xml version="1.0" encoding="UTF-8"?>
<w:styles xmlns:w="`+wordNS+`">`+styles.String()+`</w:styles>`)

	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func paragraphXML(styleID string, runs []R) string {
	var p strings.Builder
	p.WriteString("<w:p>")
	if styleID != "" {
		p.WriteString(`<w:pPr><w:pStyle w:val="` + styleID + `"/></w:pPr>`)
	}
	for _, r := range runs {
		p.WriteString("<w:r>")
		if r.Bold || r.Italic || r.Underline || r.Color != "" {
			p.WriteString("<w:rPr>")
			if r.Bold {
				p.WriteString("<w:b/>")
			}
			if r.Italic {
				p.WriteString("<w:i/>")
			}
			if r.Underline {
				p.WriteString(`<w:u w:val="single"/>`)
			}
			if r.Color != "" {
				p.WriteString(`<w:color w:val="` + r.Color + `"/>`)
			}
			p.WriteString("</w:rPr>")
		}
		p.WriteString(`<w:t xml:space="preserve">` + html.EscapeString(r.Text) + "</w:t>")
		p.WriteString("</w:r>")
	}
	p.WriteString("</w:p>")
	return p.String()
}
