package wordml

import (
	"strings"

	"github.com/beevik/etree"
)

// Node splitting. Given an inline content node and a character offset inside
// it, produce left and right fragments preserving the node's name,
// attributes and formatting. Empty fragments collapse to nil.

// newElementLike creates an empty element with the same name and attributes
// as the original.
func newElementLike(e *etree.Element) *etree.Element {
	out := etree.NewElement(e.FullTag())
	for _, a := range e.Attr {
		if a.Space != "" {
			out.CreateAttr(a.Space+":"+a.Key, a.Value)
		} else {
			out.CreateAttr(a.Key, a.Value)
		}
	}
	return out
}

// newTextFragment builds a text node carrying the original's name and
// attributes with the xml:space attribute recomputed for the fragment: a
// fragment starting or ending with a space must declare preserve or Word
// trims it.
func newTextFragment(orig *etree.Element, text string) *etree.Element {
	out := newElementLike(orig)
	removeAttr(out, "space")
	if strings.HasPrefix(text, " ") || strings.HasSuffix(text, " ") {
		out.CreateAttr("xml:space", "preserve")
	}
	out.SetText(text)
	return out
}

// splitTextNode splits a text-bearing leaf (w:t, w:delText) at a local rune
// offset. Either fragment is nil when empty.
func splitTextNode(leaf *etree.Element, at int) (left, right *etree.Element) {
	runes := []rune(elementText(leaf))
	if at > 0 {
		left = newTextFragment(leaf, string(runes[:at]))
	}
	if at < len(runes) {
		right = newTextFragment(leaf, string(runes[at:]))
	}
	return left, right
}

// splitLeaf splits any inline content leaf. Single-character leaves (breaks,
// tabs) land entirely on one side.
func splitLeaf(leaf *etree.Element, at int) (left, right *etree.Element) {
	switch leaf.Tag {
	case "t", "delText":
		return splitTextNode(leaf, at)
	}
	if at == 0 {
		return nil, leaf.Copy()
	}
	return leaf.Copy(), nil
}

// splitRun splits a w:r at a run-local character offset, reconstructing two
// runs that each carry the original's attributes and formatting descriptor.
// The left run holds every leaf before the split plus the left fragment; the
// right run holds the right fragment plus every leaf after. A reconstructed
// run with no content collapses to nil.
func splitRun(run *etree.Element, at int) (left, right *etree.Element, err error) {
	leaf, local, err := leafAt(run, at, InsertMode)
	if err != nil {
		return nil, nil, err
	}

	// The affected leaf is a direct run child in WordprocessingML; walk up
	// in case the producer nested it.
	top := leaf
	for top.Parent() != nil && top.Parent() != run {
		top = top.Parent()
	}

	leftLeaf, rightLeaf := splitLeaf(leaf, local)
	if top != leaf {
		// Nested content cannot be split below its top-level node; assign
		// it whole to one side based on the boundary.
		if local == 0 {
			leftLeaf, rightLeaf = nil, top.Copy()
		} else {
			leftLeaf, rightLeaf = top.Copy(), nil
		}
	}

	props := childByTag(run, "rPr")

	left = newElementLike(run)
	right = newElementLike(run)
	if props != nil {
		left.AddChild(props.Copy())
		right.AddChild(props.Copy())
	}

	side := 0 // 0 = before split node, 1 = after
	for _, c := range run.ChildElements() {
		if c.Tag == "rPr" {
			continue
		}
		if c == top {
			if leftLeaf != nil {
				left.AddChild(leftLeaf)
			}
			if rightLeaf != nil {
				right.AddChild(rightLeaf)
			}
			side = 1
			continue
		}
		if side == 0 {
			left.AddChild(c.Copy())
		} else {
			right.AddChild(c.Copy())
		}
	}

	if !hasRunContent(left) {
		left = nil
	}
	if !hasRunContent(right) {
		right = nil
	}
	return left, right, nil
}

// hasRunContent reports whether a run holds anything besides its properties.
func hasRunContent(run *etree.Element) bool {
	for _, c := range run.ChildElements() {
		if c.Tag != "rPr" {
			return true
		}
	}
	return false
}

// splitChangeWrapper splits a tracked-change wrapper (w:ins, w:del) at a
// wrapper-local offset by splitting the inner run and re-wrapping each half
// in a new wrapper carrying the original change's id, author and date.
func splitChangeWrapper(wrapper *etree.Element, at int) (left, right *etree.Element, err error) {
	inner, innerStart, err := childAtOffset(wrapper, at)
	if err != nil {
		return nil, nil, err
	}

	var leftInner, rightInner *etree.Element
	if inner.Tag == "r" {
		leftInner, rightInner, err = splitRun(inner, at-innerStart)
		if err != nil {
			return nil, nil, err
		}
	} else {
		if at-innerStart == 0 {
			rightInner = inner.Copy()
		} else {
			leftInner = inner.Copy()
		}
	}

	left = newElementLike(wrapper)
	right = newElementLike(wrapper)

	side := 0
	for _, c := range wrapper.ChildElements() {
		if c == inner {
			if leftInner != nil {
				left.AddChild(leftInner)
			}
			if rightInner != nil {
				right.AddChild(rightInner)
			}
			side = 1
			continue
		}
		if side == 0 {
			left.AddChild(c.Copy())
		} else {
			right.AddChild(c.Copy())
		}
	}

	if len(left.ChildElements()) == 0 {
		left = nil
	}
	if len(right.ChildElements()) == 0 {
		right = nil
	}
	return left, right, nil
}

// splitInline splits any top-level paragraph child at a local offset:
// runs, tracked-change wrappers and hyperlinks split structurally; nodes
// without text land whole on one side.
func splitInline(node *etree.Element, at int) (left, right *etree.Element, err error) {
	switch node.Tag {
	case "r":
		return splitRun(node, at)
	case "ins", "del", "hyperlink":
		return splitChangeWrapper(node, at)
	}
	if at == 0 {
		return nil, node.Copy(), nil
	}
	return node.Copy(), nil, nil
}

// childAtOffset finds the direct child of parent containing the given
// parent-local offset (insertion semantics) and its starting offset.
func childAtOffset(parent *etree.Element, offset int) (*etree.Element, int, error) {
	consumed := 0
	var last *etree.Element
	lastStart := 0
	for _, c := range parent.ChildElements() {
		if isFallback(c) {
			continue
		}
		n := textLength(c)
		if n == 0 {
			continue
		}
		if offset < consumed+n {
			return c, consumed, nil
		}
		last, lastStart = c, consumed
		consumed += n
	}
	if last != nil && offset == consumed {
		return last, lastStart, nil
	}
	return nil, 0, NewRangeError("offset lookup", offset, consumed)
}

// childBefore returns the nonempty direct child preceding child, or nil.
// It is the child whose text ends exactly where child's begins.
func childBefore(parent, child *etree.Element) *etree.Element {
	var prev *etree.Element
	for _, c := range parent.ChildElements() {
		if c == child {
			return prev
		}
		if isFallback(c) || textLength(c) == 0 {
			continue
		}
		prev = c
	}
	return nil
}
