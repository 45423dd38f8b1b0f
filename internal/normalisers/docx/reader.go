package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const (
	documentPart = "word/document.xml"
	stylesPart   = "word/styles.xml"

	defaultParagraphStyle = "Normal"
)

// document.xml

type xmlDocument struct {
	Body struct {
		Paragraphs []xmlParagraph `xml:"p"`
		Tables     []xmlTable     `xml:"tbl"`
	} `xml:"body"`
}

type xmlParagraph struct {
	Props *struct {
		Style *xmlVal `xml:"pStyle"`
	} `xml:"pPr"`
	Content []xmlParagraphContent `xml:",any"`
}

// xmlParagraphContent is either a run or a container of runs (hyperlink, insertion, smart tag).
type xmlParagraphContent struct {
	XMLName xml.Name
	Props   *xmlRunProps `xml:"rPr"`
	Items   []xmlRunItem `xml:",any"`
	Runs    []xmlRun     `xml:"r"`
}

type xmlRun struct {
	Props *xmlRunProps `xml:"rPr"`
	Items []xmlRunItem `xml:",any"`
}

type xmlRunItem struct {
	XMLName xml.Name
	Text    string `xml:",chardata"`
}

type xmlRunProps struct {
	Bold      *xmlVal `xml:"b"`
	Italic    *xmlVal `xml:"i"`
	Underline *xmlVal `xml:"u"`
	Color     *xmlVal `xml:"color"`
}

type xmlVal struct {
	Val string `xml:"val,attr"`
}

type xmlTable struct {
	Rows []struct {
		Cells []struct {
			Props *struct {
				GridSpan *xmlVal `xml:"gridSpan"`
			} `xml:"tcPr"`
			Paragraphs []xmlParagraph `xml:"p"`
		} `xml:"tc"`
	} `xml:"tr"`
}

// styles.xml

type xmlStyles struct {
	Styles []struct {
		ID   string  `xml:"styleId,attr"`
		Name *xmlVal `xml:"name"`
	} `xml:"style"`
}

// Read parses DOCX bytes into a Document.
func Read(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx archive: %w", err)
	}

	docXML, err := readPart(zr, documentPart)
	if err != nil {
		return nil, err
	}
	if docXML == nil {
		return nil, fmt.Errorf("missing %s", documentPart)
	}

	styles := map[string]string{}
	if stylesXML, err := readPart(zr, stylesPart); err == nil && stylesXML != nil {
		styles = parseStyles(stylesXML)
	}

	var raw xmlDocument
	if err := xml.Unmarshal(docXML, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", documentPart, err)
	}

	doc := &Document{
		Paragraphs: make([]Paragraph, 0, len(raw.Body.Paragraphs)),
		Tables:     make([]Table, 0, len(raw.Body.Tables)),
	}
	for _, p := range raw.Body.Paragraphs {
		doc.Paragraphs = append(doc.Paragraphs, convertParagraph(p, styles))
	}
	for _, t := range raw.Body.Tables {
		doc.Tables = append(doc.Tables, convertTable(t, styles))
	}
	return doc, nil
}

// readPart returns the bytes of a zip entry, or nil if it is absent.
func readPart(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()

		content, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return content, nil
	}
	return nil, nil
}

// parseStyles maps style ids to display names.
func parseStyles(content []byte) map[string]string {
	var raw xmlStyles
	if err := xml.Unmarshal(content, &raw); err != nil {
		return map[string]string{}
	}
	styles := make(map[string]string, len(raw.Styles))
	for _, s := range raw.Styles {
		if s.Name != nil {
			styles[s.ID] = displayName(s.Name.Val)
		}
	}
	return styles
}

// displayName converts built-in lower-case style names ("heading 1") to
// the names Word shows ("Heading 1").
func displayName(name string) string {
	switch {
	case strings.HasPrefix(name, "heading "):
		return "Heading " + strings.TrimPrefix(name, "heading ")
	case name == "caption", name == "footer", name == "header", name == "title":
		return strings.ToUpper(name[:1]) + name[1:]
	default:
		return name
	}
}

// styleName resolves a paragraph style id. Unknown ids of the form
// "Heading2" still resolve to a heading name.
func styleName(id string, styles map[string]string) string {
	if id == "" {
		return defaultParagraphStyle
	}
	if name, ok := styles[id]; ok {
		return name
	}
	if rest, ok := strings.CutPrefix(id, "Heading"); ok && rest != "" {
		return "Heading " + rest
	}
	return id
}

func convertParagraph(p xmlParagraph, styles map[string]string) Paragraph {
	styleID := ""
	if p.Props != nil && p.Props.Style != nil {
		styleID = p.Props.Style.Val
	}

	para := Paragraph{Style: styleName(styleID, styles)}
	for _, c := range p.Content {
		switch c.XMLName.Local {
		case "r":
			para.Runs = append(para.Runs, convertRun(c.Props, c.Items))
		case "hyperlink", "ins", "smartTag":
			for _, r := range c.Runs {
				para.Runs = append(para.Runs, convertRun(r.Props, r.Items))
			}
		}
	}
	return para
}

func convertRun(props *xmlRunProps, items []xmlRunItem) Run {
	var text strings.Builder
	for _, item := range items {
		switch item.XMLName.Local {
		case "t":
			text.WriteString(item.Text)
		case "tab":
			text.WriteString("\t")
		case "br", "cr":
			text.WriteString("\n")
		}
	}

	run := Run{Text: text.String()}
	if props == nil {
		return run
	}
	run.Bold = toggleOn(props.Bold)
	run.Italic = toggleOn(props.Italic)
	run.Underline = props.Underline != nil && props.Underline.Val != "none" && toggleOn(props.Underline)
	if props.Color != nil && !strings.EqualFold(props.Color.Val, "auto") {
		run.Color = strings.ToUpper(props.Color.Val)
	}
	return run
}

// toggleOn reports whether an on/off property is present and not switched off.
func toggleOn(v *xmlVal) bool {
	if v == nil {
		return false
	}
	switch strings.ToLower(v.Val) {
	case "0", "false", "off":
		return false
	default:
		return true
	}
}

func convertTable(t xmlTable, styles map[string]string) Table {
	table := Table{Rows: make([]Row, 0, len(t.Rows))}
	for _, tr := range t.Rows {
		var row Row
		for _, tc := range tr.Cells {
			texts := make([]string, 0, len(tc.Paragraphs))
			for _, p := range tc.Paragraphs {
				texts = append(texts, convertParagraph(p, styles).Text())
			}
			cell := strings.Join(texts, "\n")

			span := 1
			if tc.Props != nil && tc.Props.GridSpan != nil {
				if _, err := fmt.Sscanf(tc.Props.GridSpan.Val, "%d", &span); err != nil || span < 1 {
					span = 1
				}
			}
			for i := 0; i < span; i++ {
				row.Cells = append(row.Cells, cell)
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}
