package wordml

import (
	"github.com/beevik/etree"
)

// Helpers over etree elements. All matching is by local name so that parsed
// documents work regardless of the namespace prefixes the producer chose
// (Word writes w:, some producers write other prefixes or none).

// attrValue returns the value of the attribute with the given local name,
// ignoring its namespace prefix. Empty string if absent.
func attrValue(e *etree.Element, key string) string {
	for _, a := range e.Attr {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

// hasAttr reports whether an attribute with the given local name exists.
func hasAttr(e *etree.Element, key string) bool {
	for _, a := range e.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// setAttr sets the attribute with the given local name, replacing any
// existing attribute with that local name regardless of prefix.
func setAttr(e *etree.Element, prefixed, key, value string) {
	removeAttr(e, key)
	e.CreateAttr(prefixed, value)
}

// removeAttr removes every attribute with the given local name.
func removeAttr(e *etree.Element, key string) {
	for i := len(e.Attr) - 1; i >= 0; i-- {
		if e.Attr[i].Key == key {
			name := e.Attr[i].Key
			if e.Attr[i].Space != "" {
				name = e.Attr[i].Space + ":" + name
			}
			e.RemoveAttr(name)
		}
	}
}

// childByTag returns the first direct child with the given local name.
func childByTag(e *etree.Element, tag string) *etree.Element {
	for _, c := range e.ChildElements() {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// childrenByTag returns all direct children with the given local name.
func childrenByTag(e *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, c := range e.ChildElements() {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// walkElements visits e and every descendant element in document order.
// Returning false from the visitor skips the element's subtree.
func walkElements(e *etree.Element, visit func(*etree.Element) bool) {
	if !visit(e) {
		return
	}
	for _, c := range e.ChildElements() {
		walkElements(c, visit)
	}
}

// findDescendants collects every descendant (not e itself) with the given
// local name.
func findDescendants(e *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, c := range e.ChildElements() {
		walkElements(c, func(el *etree.Element) bool {
			if el.Tag == tag {
				out = append(out, el)
			}
			return true
		})
	}
	return out
}

// elementText returns all character data directly inside e, ignoring child
// elements. etree's Text() only returns data before the first child, so this
// walks the token list.
func elementText(e *etree.Element) string {
	var out []byte
	for _, tok := range e.Child {
		if cd, ok := tok.(*etree.CharData); ok {
			out = append(out, cd.Data...)
		}
	}
	return string(out)
}

// insertChildAfter inserts newChild immediately after refChild within parent.
// Appends at the end when refChild is not found or is the last child.
func insertChildAfter(parent, refChild, newChild *etree.Element) {
	children := parent.ChildElements()
	refIdx := -1
	for i, child := range children {
		if child == refChild {
			refIdx = i
			break
		}
	}
	if refIdx == -1 || refIdx == len(children)-1 {
		parent.AddChild(newChild)
		return
	}
	parent.InsertChildAt(children[refIdx+1].Index(), newChild)
}

// replaceChild swaps oldChild for the given replacements, preserving position.
// A nil replacement entry is skipped; nothing remains when all are nil.
func replaceChild(parent, oldChild *etree.Element, replacements ...*etree.Element) {
	idx := oldChild.Index()
	parent.RemoveChildAt(idx)
	for _, r := range replacements {
		if r == nil {
			continue
		}
		parent.InsertChildAt(idx, r)
		idx++
	}
}

// isFallback reports whether e is an alternate-content fallback subtree,
// which both text extraction and offset counting must skip to stay symmetric.
func isFallback(e *etree.Element) bool {
	return e.Tag == "Fallback"
}
