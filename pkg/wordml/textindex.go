package wordml

import (
	"strings"

	"github.com/beevik/etree"
)

// Text offset resolution. A paragraph's text is addressed by flat character
// offsets computed from a per-node-type size function:
//
//   w:t, w:delText  length of their character data
//   w:br            1, but only for text-wrapping breaks (page and column
//                   breaks do not occupy a character position)
//   w:cr            1
//   w:tab           1, unless it is a tab-stop declaration under w:tabs
//   anything else   0
//
// mc:Fallback subtrees are skipped, keeping offset counting symmetric with
// text extraction.

// OffsetMode selects the boundary semantics of an offset lookup.
type OffsetMode int

const (
	// InsertMode allows the offset to equal a node's cumulative end, so an
	// insertion can land at the very end of the paragraph text.
	InsertMode OffsetMode = iota
	// DeleteMode requires the offset to be strictly inside a node, since a
	// deletion must consume at least the character at that offset.
	DeleteMode
)

// isTextWrappingBreak reports whether a w:br occupies a character position.
func isTextWrappingBreak(e *etree.Element) bool {
	t := attrValue(e, "type")
	return t == "" || t == "textWrapping"
}

// isTabStopDeclaration reports whether a w:tab is a tab-stop position
// declaration (inside w:tabs) rather than actual tab content.
func isTabStopDeclaration(e *etree.Element) bool {
	parent := e.Parent()
	return parent != nil && parent.Tag == "tabs"
}

// leafLength returns the character contribution of a single element,
// not counting its descendants.
func leafLength(e *etree.Element) int {
	switch e.Tag {
	case "t", "delText":
		return len([]rune(elementText(e)))
	case "br":
		if isTextWrappingBreak(e) {
			return 1
		}
		return 0
	case "cr":
		return 1
	case "tab":
		if isTabStopDeclaration(e) {
			return 0
		}
		return 1
	}
	return 0
}

// textLength returns the total character length of an element's subtree.
func textLength(root *etree.Element) int {
	total := leafLength(root)
	for _, c := range root.ChildElements() {
		if isFallback(c) {
			continue
		}
		total += textLength(c)
	}
	return total
}

// flattenText returns the flattened text of a subtree: tabs and text-wrapping
// breaks count as one character, drawings contribute nothing.
func flattenText(root *etree.Element) string {
	var sb strings.Builder
	appendFlattened(root, &sb)
	return sb.String()
}

func appendFlattened(e *etree.Element, sb *strings.Builder) {
	switch e.Tag {
	case "t", "delText":
		sb.WriteString(elementText(e))
		return
	case "br":
		if isTextWrappingBreak(e) {
			sb.WriteString("\n")
		}
		return
	case "cr":
		sb.WriteString("\n")
		return
	case "tab":
		if !isTabStopDeclaration(e) {
			sb.WriteString("\t")
		}
		return
	}
	for _, c := range e.ChildElements() {
		if isFallback(c) {
			continue
		}
		appendFlattened(c, sb)
	}
}

// leafAt locates the leaf content node containing the given offset within
// root's subtree, returning the leaf and the offset local to it.
//
// In InsertMode the offset may equal the cumulative end of the subtree; in
// DeleteMode it must be strictly inside. An out-of-range offset is a contract
// violation reported as a RangeError, never clamped.
func leafAt(root *etree.Element, offset int, mode OffsetMode) (*etree.Element, int, error) {
	total := textLength(root)
	if offset < 0 || offset > total || (mode == DeleteMode && offset >= total) {
		return nil, 0, NewRangeError("offset lookup", offset, total)
	}

	leaf, local, _ := descendTo(root, offset, mode)
	if leaf == nil {
		// Offset equals the subtree end with no trailing content node.
		return nil, 0, NewRangeError("offset lookup", offset, total)
	}
	return leaf, local, nil
}

// descendTo walks the subtree accumulating lengths until the offset is
// covered. Returns the matched leaf and local offset, plus the characters
// consumed when no leaf matched.
func descendTo(e *etree.Element, offset int, mode OffsetMode) (*etree.Element, int, int) {
	if n := leafLength(e); n > 0 || isContentLeaf(e) {
		if offset < n || (mode == InsertMode && offset == n) {
			return e, offset, 0
		}
		return nil, 0, n
	}

	consumed := 0
	for _, c := range e.ChildElements() {
		if isFallback(c) {
			continue
		}
		leaf, local, used := descendTo(c, offset-consumed, mode)
		if leaf != nil {
			return leaf, local, 0
		}
		consumed += used
	}
	return nil, 0, consumed
}

// isContentLeaf reports whether an element is an inline content node that
// occupies character positions even when its current length is zero (an
// empty w:t still anchors an offset).
func isContentLeaf(e *etree.Element) bool {
	switch e.Tag {
	case "t", "delText":
		return true
	case "br":
		return isTextWrappingBreak(e)
	case "cr":
		return true
	case "tab":
		return !isTabStopDeclaration(e)
	}
	return false
}
