package wordml

import (
	"strings"
	"testing"
)

func TestSplitRunRoundTrip(t *testing.T) {
	run := parseFragment(t,
		`<w:r w:rsidR="00AB12"><w:rPr><w:b/><w:i/></w:rPr><w:t>one</w:t><w:br/><w:t xml:space="preserve"> two</w:t></w:r>`)
	text := flattenText(run)

	for at := 0; at <= len(text); at++ {
		left, right, err := splitRun(run, at)
		if err != nil {
			t.Fatalf("splitRun(%d) error: %v", at, err)
		}
		var got strings.Builder
		for _, half := range []string{"left", "right"} {
			el := left
			if half == "right" {
				el = right
			}
			if el == nil {
				continue
			}
			got.WriteString(flattenText(el))
			if el.Tag != "r" {
				t.Errorf("splitRun(%d) %s tag = %s, want r", at, half, el.Tag)
			}
			if attrValue(el, "rsidR") != "00AB12" {
				t.Errorf("splitRun(%d) %s lost run attributes", at, half)
			}
			if at > 0 && at < len(text) {
				rPr := childByTag(el, "rPr")
				if rPr == nil || childByTag(rPr, "b") == nil || childByTag(rPr, "i") == nil {
					t.Errorf("splitRun(%d) %s lost formatting", at, half)
				}
			}
		}
		if got.String() != text {
			t.Errorf("splitRun(%d) concatenated = %q, want %q", at, got.String(), text)
		}
	}
}

func TestSplitRunCollapsesEmptyHalves(t *testing.T) {
	run := parseFragment(t, `<w:r><w:t>abc</w:t></w:r>`)

	left, right, err := splitRun(run, 0)
	if err != nil {
		t.Fatal(err)
	}
	if left != nil {
		t.Errorf("split at 0: left = %v, want nil", left)
	}
	if right == nil || flattenText(right) != "abc" {
		t.Errorf("split at 0: right = %v", right)
	}

	left, right, err = splitRun(run, 3)
	if err != nil {
		t.Fatal(err)
	}
	if right != nil {
		t.Errorf("split at end: right = %v, want nil", right)
	}
	if left == nil || flattenText(left) != "abc" {
		t.Errorf("split at end: left = %v", left)
	}
}

func TestSplitTextNodeRecomputesSpacePreserve(t *testing.T) {
	leaf := parseFragment(t, `<w:t xml:space="preserve">a b</w:t>`)
	left, right := splitTextNode(leaf, 2)

	if elementText(left) != "a " {
		t.Fatalf("left text = %q", elementText(left))
	}
	if attrValue(left, "space") != "preserve" {
		t.Error("left fragment ending in space must declare xml:space preserve")
	}
	if elementText(right) != "b" {
		t.Fatalf("right text = %q", elementText(right))
	}
	if hasAttr(right, "space") {
		t.Error("right fragment without edge spaces must not declare xml:space")
	}
}

func TestSplitChangeWrapper(t *testing.T) {
	wrapper := parseFragment(t,
		`<w:ins w:id="7" w:author="Alice" w:date="2024-01-01T00:00:00Z"><w:r><w:t>hello</w:t></w:r></w:ins>`)

	left, right, err := splitChangeWrapper(wrapper, 2)
	if err != nil {
		t.Fatalf("splitChangeWrapper error: %v", err)
	}
	if left == nil || right == nil {
		t.Fatal("both halves must survive an interior split")
	}
	if flattenText(left) != "he" || flattenText(right) != "llo" {
		t.Errorf("halves = %q / %q, want he / llo", flattenText(left), flattenText(right))
	}
	if left.Tag != "ins" || right.Tag != "ins" {
		t.Errorf("wrapper tags = %s / %s, want ins", left.Tag, right.Tag)
	}
	if attrValue(left, "author") != "Alice" || attrValue(right, "author") != "Alice" {
		t.Error("split wrappers must carry the original author")
	}
	if attrValue(left, "id") != "7" || attrValue(right, "id") != "7" {
		t.Error("split wrappers must carry the original change id")
	}
	if attrValue(left, "date") != "2024-01-01T00:00:00Z" {
		t.Error("split wrappers must carry the original date")
	}
}
