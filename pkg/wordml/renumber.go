package wordml

import (
	"strconv"

	"github.com/beevik/etree"
)

// Cross-reference rewriting. Merging a subtree from another package
// invalidates every ID it carries: relationship IDs, style IDs, numbering
// IDs, note IDs and drawing-object IDs all live in package-local scopes and
// must be rewritten to freshly minted destination values.

// relAttrTargets lists the (element, attribute) pairs that carry
// relationship IDs inside document content.
var relAttrTargets = []struct {
	tag  string
	attr string
}{
	{"blip", "embed"},
	{"blip", "link"},
	{"imagedata", "id"},
	{"externalData", "id"},
	{"OLEObject", "id"},
	{"hyperlink", "id"},
	{"contentPart", "id"},
}

// styleRefTags lists the elements whose w:val attribute references a style
// ID, in document content, numbering definitions and style definitions
// themselves.
var styleRefTags = []string{"pStyle", "rStyle", "tblStyle", "basedOn", "next", "link", "styleLink", "numStyleLink"}

// rewriteRelationshipIDs rewrites every relationship reference in root
// according to idMap. IDs absent from the map are left alone: a dangling
// reference in the wild is tolerated, not fatal.
func rewriteRelationshipIDs(root *etree.Element, idMap map[string]string) {
	if len(idMap) == 0 {
		return
	}
	walkElements(root, func(e *etree.Element) bool {
		for _, t := range relAttrTargets {
			if e.Tag != t.tag {
				continue
			}
			old := attrValue(e, t.attr)
			if old == "" {
				continue
			}
			if newID, ok := idMap[old]; ok {
				setAttr(e, "r:"+t.attr, t.attr, newID)
			}
		}
		return true
	})
}

// collectRelationshipIDs gathers every relationship ID referenced by root.
func collectRelationshipIDs(root *etree.Element) map[string]bool {
	ids := make(map[string]bool)
	walkElements(root, func(e *etree.Element) bool {
		for _, t := range relAttrTargets {
			if e.Tag == t.tag {
				if id := attrValue(e, t.attr); id != "" {
					ids[id] = true
				}
			}
		}
		return true
	})
	return ids
}

// rewriteStyleID rewrites every reference to oldID across the given roots
// and reports whether any reference was found. Callers use the flag to drop
// styles nothing references.
func rewriteStyleID(roots []*etree.Element, oldID, newID string) bool {
	found := false
	for _, root := range roots {
		if root == nil {
			continue
		}
		walkElements(root, func(e *etree.Element) bool {
			for _, tag := range styleRefTags {
				if e.Tag != tag {
					continue
				}
				if attrValue(e, "val") == oldID {
					setAttr(e, "w:val", "val", newID)
					found = true
				}
			}
			return true
		})
	}
	return found
}

// rewriteNumberingIDs rewrites every w:numId reference per idMap across the
// given roots.
func rewriteNumberingIDs(roots []*etree.Element, idMap map[int]int) {
	if len(idMap) == 0 {
		return
	}
	for _, root := range roots {
		if root == nil {
			continue
		}
		walkElements(root, func(e *etree.Element) bool {
			if e.Tag != "numId" {
				return true
			}
			old := atoiOrZero(attrValue(e, "val"))
			if newID, ok := idMap[old]; ok {
				setAttr(e, "w:val", "val", strconv.Itoa(newID))
			}
			return true
		})
	}
}

// rewriteNoteReferences rewrites footnote or endnote reference IDs per
// idMap. refTag is footnoteReference or endnoteReference.
func rewriteNoteReferences(root *etree.Element, refTag string, idMap map[int]int) {
	if len(idMap) == 0 {
		return
	}
	walkElements(root, func(e *etree.Element) bool {
		if e.Tag != refTag {
			return true
		}
		old := atoiOrZero(attrValue(e, "id"))
		if newID, ok := idMap[old]; ok {
			setAttr(e, "w:id", "id", strconv.Itoa(newID))
		}
		return true
	})
}

// collectNoteReferences gathers the note IDs referenced from root.
func collectNoteReferences(root *etree.Element, refTag string) map[int]bool {
	ids := make(map[int]bool)
	walkElements(root, func(e *etree.Element) bool {
		if e.Tag == refTag {
			ids[atoiOrZero(attrValue(e, "id"))] = true
		}
		return true
	})
	return ids
}

// renumberDrawingObjects assigns sequential IDs to every w:docPr in root
// starting at the document's next free drawing-object ID.
func (d *Document) renumberDrawingObjects(root *etree.Element) {
	walkElements(root, func(e *etree.Element) bool {
		if e.Tag == "docPr" {
			setAttr(e, "id", "id", strconv.Itoa(d.takeDocPrID()))
		}
		return true
	})
}
