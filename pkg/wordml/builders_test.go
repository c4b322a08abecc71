package wordml

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"testing"
)

// Test package builders. Packages are assembled in memory with archive/zip;
// the part map is augmented with [Content_Types].xml and _rels/.rels when
// the caller does not provide them.

var contentTypeByPart = map[string]string{
	PartDocument:    ContentTypeDocument,
	PartStyles:      ContentTypeStyles,
	PartNumbering:   ContentTypeNumbering,
	PartFootnotes:   ContentTypeFootnotes,
	PartEndnotes:    ContentTypeEndnotes,
	PartFontTable:   ContentTypeFontTable,
	PartSettings:    ContentTypeSettings,
	PartCustomProps: ContentTypeCustomProps,
}

func buildPackage(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	if _, ok := parts[PartContentTypes]; !ok {
		var sb strings.Builder
		sb.WriteString(xmlHeader)
		sb.WriteString(`<Types xmlns="` + NamespaceCT + `">`)
		sb.WriteString(`<Default Extension="rels" ContentType="` + ContentTypeRels + `"/>`)
		sb.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
		sb.WriteString(`<Default Extension="png" ContentType="image/png"/>`)
		for name, ct := range contentTypeByPart {
			if _, ok := parts[name]; ok {
				sb.WriteString(fmt.Sprintf(`<Override PartName="/%s" ContentType="%s"/>`, name, ct))
			}
		}
		sb.WriteString(`</Types>`)
		f, _ := w.Create(PartContentTypes)
		f.Write([]byte(sb.String()))
	}

	if _, ok := parts["_rels/.rels"]; !ok {
		f, _ := w.Create("_rels/.rels")
		f.Write([]byte(xmlHeader + `<Relationships xmlns="` + NamespaceRels + `">` +
			`<Relationship Id="rId1" Type="` + RelTypeDocument + `" Target="word/document.xml"/>` +
			`</Relationships>`))
	}

	for name, content := range parts {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("creating part %s: %v", name, err)
		}
		f.Write([]byte(content))
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing package: %v", err)
	}
	return buf.Bytes()
}

func wrapDocument(body string) string {
	return xmlHeader +
		`<w:document xmlns:w="` + NamespaceW + `" xmlns:r="` + NamespaceR + `">` +
		`<w:body>` + body + `</w:body></w:document>`
}

func wrapStyles(styles string) string {
	return xmlHeader +
		`<w:styles xmlns:w="` + NamespaceW + `">` + styles + `</w:styles>`
}

// openTestDoc builds a minimal one-part package around the given body XML
// and opens it.
func openTestDoc(t *testing.T, body string) *Document {
	t.Helper()
	return openTestPackage(t, map[string]string{PartDocument: wrapDocument(body)})
}

func openTestPackage(t *testing.T, parts map[string]string) *Document {
	t.Helper()
	doc, err := OpenBytes(buildPackage(t, parts))
	if err != nil {
		t.Fatalf("opening package: %v", err)
	}
	t.Cleanup(func() { doc.Close() })
	return doc
}

func mustParagraphs(t *testing.T, doc *Document) []*Paragraph {
	t.Helper()
	paras, err := doc.Paragraphs()
	if err != nil {
		t.Fatalf("listing paragraphs: %v", err)
	}
	return paras
}

func firstParagraph(t *testing.T, doc *Document) *Paragraph {
	t.Helper()
	paras := mustParagraphs(t, doc)
	if len(paras) == 0 {
		t.Fatal("document has no paragraphs")
	}
	return paras[0]
}

func docText(t *testing.T, doc *Document) string {
	t.Helper()
	text, err := doc.Text()
	if err != nil {
		t.Fatalf("reading document text: %v", err)
	}
	return text
}

// simpleRun builds run XML with optional property children.
func simpleRun(props, text string) string {
	rPr := ""
	if props != "" {
		rPr = "<w:rPr>" + props + "</w:rPr>"
	}
	space := ""
	if strings.HasPrefix(text, " ") || strings.HasSuffix(text, " ") {
		space = ` xml:space="preserve"`
	}
	return "<w:r>" + rPr + "<w:t" + space + ">" + text + "</w:t></w:r>"
}
