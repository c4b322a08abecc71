package wordml

import (
	"testing"

	"github.com/beevik/etree"
)

func parseFragment(t *testing.T, xml string) *etree.Element {
	t.Helper()
	dom := etree.NewDocument()
	if err := dom.ReadFromString(xml); err != nil {
		t.Fatalf("parsing fragment: %v", err)
	}
	return dom.Root()
}

func TestFlattenText(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want string
	}{
		{
			name: "plain runs",
			xml:  `<w:p><w:r><w:t>Hello</w:t></w:r><w:r><w:t xml:space="preserve"> world</w:t></w:r></w:p>`,
			want: "Hello world",
		},
		{
			name: "break and tab become newline and tab",
			xml:  `<w:p><w:r><w:t>a</w:t><w:br/><w:t>b</w:t><w:tab/><w:t>c</w:t></w:r></w:p>`,
			want: "a\nb\tc",
		},
		{
			name: "page break contributes nothing",
			xml:  `<w:p><w:r><w:t>a</w:t><w:br w:type="page"/><w:t>b</w:t></w:r></w:p>`,
			want: "ab",
		},
		{
			name: "carriage return counts as newline",
			xml:  `<w:p><w:r><w:t>a</w:t><w:cr/><w:t>b</w:t></w:r></w:p>`,
			want: "a\nb",
		},
		{
			name: "tab stop declarations are not content",
			xml:  `<w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr><w:r><w:t>x</w:t></w:r></w:p>`,
			want: "x",
		},
		{
			name: "deleted text still occupies positions",
			xml:  `<w:p><w:del w:id="1"><w:r><w:delText>gone</w:delText></w:r></w:del></w:p>`,
			want: "gone",
		},
		{
			name: "fallback subtrees are skipped",
			xml: `<w:p><w:r><mc:AlternateContent><mc:Choice><w:t>keep</w:t></mc:Choice>` +
				`<mc:Fallback><w:t>skip</w:t></mc:Fallback></mc:AlternateContent></w:r></w:p>`,
			want: "keep",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parseFragment(t, tt.xml)
			if got := flattenText(p); got != tt.want {
				t.Errorf("flattenText() = %q, want %q", got, tt.want)
			}
			if got := textLength(p); got != len([]rune(tt.want)) {
				t.Errorf("textLength() = %d, want %d", got, len([]rune(tt.want)))
			}
		})
	}
}

func TestLeafAt(t *testing.T) {
	p := parseFragment(t, `<w:p><w:r><w:t>ab</w:t></w:r><w:r><w:t>cd</w:t></w:r></w:p>`)

	leaf, local, err := leafAt(p, 3, DeleteMode)
	if err != nil {
		t.Fatalf("leafAt(3) error: %v", err)
	}
	if got := elementText(leaf); got != "cd" {
		t.Errorf("leaf text = %q, want %q", got, "cd")
	}
	if local != 1 {
		t.Errorf("local offset = %d, want 1", local)
	}

	// InsertMode allows the trailing end; DeleteMode does not.
	if _, _, err := leafAt(p, 4, InsertMode); err != nil {
		t.Errorf("leafAt(4, InsertMode) error: %v", err)
	}
	if _, _, err := leafAt(p, 4, DeleteMode); !IsRangeError(err) {
		t.Errorf("leafAt(4, DeleteMode) error = %v, want range error", err)
	}
	if _, _, err := leafAt(p, -1, InsertMode); !IsRangeError(err) {
		t.Errorf("leafAt(-1) error = %v, want range error", err)
	}
	if _, _, err := leafAt(p, 5, InsertMode); !IsRangeError(err) {
		t.Errorf("leafAt(5) error = %v, want range error", err)
	}
}

func TestLeafAtUnicode(t *testing.T) {
	p := parseFragment(t, `<w:p><w:r><w:t>héllo</w:t></w:r></w:p>`)
	if got := textLength(p); got != 5 {
		t.Fatalf("textLength() = %d, want 5 runes", got)
	}
	leaf, local, err := leafAt(p, 2, DeleteMode)
	if err != nil {
		t.Fatalf("leafAt(2) error: %v", err)
	}
	if local != 2 || elementText(leaf) != "héllo" {
		t.Errorf("leafAt(2) = (%q, %d)", elementText(leaf), local)
	}
}

func TestChildAtOffset(t *testing.T) {
	p := parseFragment(t, `<w:p><w:pPr/><w:r><w:t>ab</w:t></w:r><w:r><w:t>cd</w:t></w:r></w:p>`)

	child, start, err := childAtOffset(p, 2)
	if err != nil {
		t.Fatalf("childAtOffset(2) error: %v", err)
	}
	if got := flattenText(child); got != "cd" || start != 2 {
		t.Errorf("childAtOffset(2) = (%q, %d), want (cd, 2)", got, start)
	}

	// The trailing end resolves to the last content child.
	child, start, err = childAtOffset(p, 4)
	if err != nil {
		t.Fatalf("childAtOffset(4) error: %v", err)
	}
	if got := flattenText(child); got != "cd" || start != 2 {
		t.Errorf("childAtOffset(4) = (%q, %d), want (cd, 2)", got, start)
	}

	if _, _, err := childAtOffset(p, 5); !IsRangeError(err) {
		t.Errorf("childAtOffset(5) error = %v, want range error", err)
	}
}
