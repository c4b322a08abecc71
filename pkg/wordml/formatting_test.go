package wordml

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseFormatting(t *testing.T) {
	rPr := parseFragment(t, `<w:rPr xmlns:w="`+NamespaceW+`">`+
		`<w:rStyle w:val="Emphasis"/>`+
		`<w:b/>`+
		`<w:i w:val="0"/>`+
		`<w:u w:val="single"/>`+
		`<w:color w:val="FF0000"/>`+
		`<w:sz w:val="28"/>`+
		`<w:rFonts w:ascii="Calibri"/>`+
		`</w:rPr>`)

	got := parseFormatting(rPr)
	want := Formatting{
		Bold:      On,
		Italic:    Off,
		Underline: "single",
		Color:     "FF0000",
		Size:      28,
		Font:      "Calibri",
		StyleID:   "Emphasis",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseFormatting mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildRunPropertiesRoundTrip(t *testing.T) {
	want := Formatting{
		Bold:      On,
		Strike:    Off,
		Underline: "double",
		Highlight: "yellow",
		Shading:   "CCCCCC",
		Size:      24,
		Kerning:   2,
		Spacing:   20,
		VertAlign: "superscript",
	}
	got := parseFormatting(buildRunProperties(want))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	if buildRunProperties(Formatting{}) != nil {
		t.Error("zero formatting must build no rPr")
	}
}

func TestFormattingContains(t *testing.T) {
	have := Formatting{Bold: On, Italic: Off, Color: "FF0000", Size: 28}

	tests := []struct {
		name string
		sub  Formatting
		want bool
	}{
		{"empty subset", Formatting{}, true},
		{"matching toggle", Formatting{Bold: On}, true},
		{"matching pair", Formatting{Bold: On, Color: "FF0000"}, true},
		{"explicit off matches", Formatting{Italic: Off}, true},
		{"wrong toggle", Formatting{Bold: Off}, false},
		{"unset toggle mismatch", Formatting{Strike: On}, false},
		{"wrong color", Formatting{Color: "0000FF"}, false},
		{"wrong size", Formatting{Size: 22}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := have.Contains(tt.sub); got != tt.want {
				t.Errorf("Contains(%+v) = %v, want %v", tt.sub, got, tt.want)
			}
		})
	}
}

func TestResolveFormattingCascade(t *testing.T) {
	styles := wrapStyles(
		`<w:docDefaults><w:rPrDefault><w:rPr><w:sz w:val="22"/><w:rFonts w:ascii="Calibri"/></w:rPr></w:rPrDefault></w:docDefaults>` +
			`<w:style w:type="paragraph" w:styleId="Base">` +
			`<w:rPr><w:b/><w:color w:val="336699"/></w:rPr>` +
			`</w:style>` +
			`<w:style w:type="paragraph" w:styleId="Derived">` +
			`<w:basedOn w:val="Base"/>` +
			`<w:rPr><w:i/></w:rPr>` +
			`</w:style>`)
	body := `<w:p><w:pPr><w:pStyle w:val="Derived"/></w:pPr>` +
		simpleRun(`<w:color w:val="FF0000"/>`, "x") +
		`</w:p>`

	doc := openTestPackage(t, map[string]string{
		PartDocument: wrapDocument(body),
		PartStyles:   styles,
	})
	p := firstParagraph(t, doc)
	run := childByTag(p.Element(), "r")

	got := doc.ResolveFormatting(run, p)
	want := Formatting{
		Bold:   On,       // from Base via Derived's basedOn chain
		Italic: On,       // from Derived
		Color:  "FF0000", // direct formatting wins over Base
		Size:   22,       // document default
		Font:   "Calibri",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("cascade mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveFormattingStyleCycle(t *testing.T) {
	styles := wrapStyles(
		`<w:style w:type="paragraph" w:styleId="A">` +
			`<w:basedOn w:val="B"/><w:rPr><w:b/></w:rPr></w:style>` +
			`<w:style w:type="paragraph" w:styleId="B">` +
			`<w:basedOn w:val="A"/><w:rPr><w:i/></w:rPr></w:style>`)
	body := `<w:p><w:pPr><w:pStyle w:val="A"/></w:pPr>` + simpleRun("", "x") + `</w:p>`

	doc := openTestPackage(t, map[string]string{
		PartDocument: wrapDocument(body),
		PartStyles:   styles,
	})
	p := firstParagraph(t, doc)
	run := childByTag(p.Element(), "r")

	// Must terminate and still pick up both styles once.
	got := doc.ResolveFormatting(run, p)
	if got.Bold != On || got.Italic != On {
		t.Errorf("cyclic chain resolved to %+v, want bold and italic on", got)
	}
}

func TestFormattingAt(t *testing.T) {
	doc := openTestDoc(t, "<w:p>"+
		simpleRun("<w:b/>", "bold")+
		simpleRun("<w:i/>", "italic")+
		"</w:p>")
	p := firstParagraph(t, doc)

	f, err := p.FormattingAt(1)
	if err != nil {
		t.Fatalf("FormattingAt error: %v", err)
	}
	if f.Bold != On || f.Italic != Unset {
		t.Errorf("formatting at 1 = %+v, want bold only", f)
	}

	f, err = p.FormattingAt(6)
	if err != nil {
		t.Fatal(err)
	}
	if f.Italic != On || f.Bold != Unset {
		t.Errorf("formatting at 6 = %+v, want italic only", f)
	}

	if _, err := p.FormattingAt(99); !IsRangeError(err) {
		t.Errorf("out-of-range error = %v, want range error", err)
	}
}
