package wordml

import (
	"bytes"
	"strings"
	"testing"
)

func TestOpenBytes(t *testing.T) {
	doc := openTestDoc(t,
		"<w:p>"+simpleRun("", "first")+"</w:p>"+
			"<w:p>"+simpleRun("", "second")+"</w:p>")

	if got := docText(t, doc); got != "first\nsecond" {
		t.Errorf("Text = %q, want %q", got, "first\nsecond")
	}
	paras := mustParagraphs(t, doc)
	if len(paras) != 2 {
		t.Errorf("paragraphs = %d, want 2", len(paras))
	}
}

func TestOpenRejectsMissingDocumentPart(t *testing.T) {
	data := buildPackage(t, map[string]string{
		PartStyles: wrapStyles(""),
	})
	if _, err := OpenBytes(data); err == nil {
		t.Fatal("opening a package without a main document must fail")
	}
}

func TestOpenRejectsMissingBody(t *testing.T) {
	data := buildPackage(t, map[string]string{
		PartDocument: xmlHeader + `<w:document xmlns:w="` + NamespaceW + `"/>`,
	})
	if _, err := OpenBytes(data); !IsInvalidDocumentError(err) {
		t.Fatalf("error = %v, want invalid document error", err)
	}
}

func TestOpenRejectsNotAZip(t *testing.T) {
	if _, err := OpenBytes([]byte("this is not a zip archive")); err == nil {
		t.Fatal("garbage input must fail to open")
	}
}

func TestOpenRejectsExternalEntities(t *testing.T) {
	payload := xmlHeader +
		`<!DOCTYPE document [<!ENTITY xxe SYSTEM "file:///etc/passwd">]>` +
		`<w:document xmlns:w="` + NamespaceW + `"><w:body/></w:document>`
	data := buildPackage(t, map[string]string{PartDocument: payload})
	if _, err := OpenBytes(data); !IsInvalidDocumentError(err) {
		t.Fatalf("error = %v, want invalid document error", err)
	}
}

func TestScanIdentifiers(t *testing.T) {
	doc := openTestDoc(t,
		`<w:p>`+
			`<w:ins w:id="41" w:author="A" w:date="2024-01-01T00:00:00Z">`+simpleRun("", "x")+`</w:ins>`+
			`<w:bookmarkStart w:id="7" w:name="bm"/><w:bookmarkEnd w:id="7"/>`+
			`</w:p>`)
	if got := doc.takeChangeID(); got != 42 {
		t.Errorf("next change id = %d, want 42", got)
	}
	if got := doc.takeBookmarkID(); got != 8 {
		t.Errorf("next bookmark id = %d, want 8", got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	doc := openTestDoc(t, "<w:p>"+simpleRun("", "hello")+"</w:p>")
	p := firstParagraph(t, doc)
	if err := p.InsertText(5, " world", InsertOptions{}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	reopened, err := OpenBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("reopening saved package: %v", err)
	}
	defer reopened.Close()
	if got := docText(t, reopened); got != "hello world" {
		t.Errorf("reopened text = %q, want %q", got, "hello world")
	}
}

func TestSavePreservesUntouchedParts(t *testing.T) {
	styles := wrapStyles(`<w:style w:type="paragraph" w:styleId="X"/>`)
	doc := openTestPackage(t, map[string]string{
		PartDocument: wrapDocument("<w:p>" + simpleRun("", "hi") + "</w:p>"),
		PartStyles:   styles,
	})
	// An edit dirties only the document part.
	if err := firstParagraph(t, doc).InsertText(0, "x", InsertOptions{}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		t.Fatal(err)
	}
	c, err := ContainerFromBytes(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.Part(PartStyles)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != styles {
		t.Error("untouched styles part must be written back byte-for-byte")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	doc := openTestDoc(t, "<w:p/>")
	if err := doc.Close(); err != nil {
		t.Fatal(err)
	}
	if err := doc.Close(); err != nil {
		t.Errorf("second Close error = %v, want nil", err)
	}
}

func TestAuthorOverride(t *testing.T) {
	doc := openTestDoc(t, "<w:p/>")
	doc.SetAuthor("Carol")
	if got := doc.Author(); got != "Carol" {
		t.Errorf("Author = %q, want Carol", got)
	}
}

func TestAuthorFromConfig(t *testing.T) {
	t.Setenv("WORDML_AUTHOR", "Config Author")
	SetGlobalConfig(ConfigFromEnvironment())
	t.Cleanup(func() { SetGlobalConfig(DefaultConfig()) })

	doc := openTestDoc(t, "<w:p/>")
	if got := doc.Author(); got != "Config Author" {
		t.Errorf("Author = %q, want Config Author", got)
	}
}

func TestHeaderFooterPartsSorted(t *testing.T) {
	doc := openTestPackage(t, map[string]string{
		PartDocument:       wrapDocument("<w:p/>"),
		"word/header2.xml": xmlHeader + `<w:hdr xmlns:w="` + NamespaceW + `"/>`,
		"word/header1.xml": xmlHeader + `<w:hdr xmlns:w="` + NamespaceW + `"/>`,
		"word/footer1.xml": xmlHeader + `<w:ftr xmlns:w="` + NamespaceW + `"/>`,
	})
	got := doc.headerFooterParts()
	want := []string{"word/footer1.xml", "word/header1.xml", "word/header2.xml"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("headerFooterParts = %v, want %v", got, want)
	}
}
