package wordml

import (
	"strconv"

	"github.com/beevik/etree"
)

// noteClass parametrizes the footnote and endnote merge paths, which are
// identical apart from naming.
type noteClass struct {
	part    string
	noteTag string
	refTag  string
	relType string
}

var (
	footnoteClass = noteClass{PartFootnotes, "footnote", "footnoteReference", RelTypeFootnotes}
	endnoteClass  = noteClass{PartEndnotes, "endnote", "endnoteReference", RelTypeEndnotes}
)

// mergeNotes copies the source notes referenced from body into the
// destination notes part, renumbering their IDs above both packages'
// current maxima. Source IDs are processed in descending order; because
// every new ID exceeds every old one, reference rewrites cannot collide.
// Notes with non-positive IDs are the built-in separators and are never
// copied. Returns the copied note elements.
func (d *Document) mergeNotes(class noteClass, src *Document, body *etree.Element) ([]*etree.Element, error) {
	referenced := collectNoteReferences(body, class.refTag)
	if len(referenced) == 0 {
		return nil, nil
	}

	srcRoot, err := src.partRoot(class.part)
	if err != nil || srcRoot == nil {
		return nil, err
	}
	destRoot, err := d.partRoot(class.part)
	if err != nil {
		return nil, err
	}
	if destRoot == nil {
		return nil, NewInvalidDocumentError(class.part, "destination has no notes part", nil)
	}

	srcNotes := make(map[int]*etree.Element)
	maxID := 0
	for _, n := range childrenByTag(destRoot, class.noteTag) {
		if id := atoiOrZero(attrValue(n, "id")); id > maxID {
			maxID = id
		}
	}
	for _, n := range childrenByTag(srcRoot, class.noteTag) {
		id := atoiOrZero(attrValue(n, "id"))
		srcNotes[id] = n
		if id > maxID {
			maxID = id
		}
	}

	idMap := make(map[int]int)
	var clones []*etree.Element
	for _, oldID := range sortedKeysDesc(referenced) {
		if oldID <= 0 {
			continue
		}
		note, ok := srcNotes[oldID]
		if !ok {
			if GetGlobalConfig().StrictMode {
				return nil, NewInvalidDocumentError(class.part, "unresolved note reference "+strconv.Itoa(oldID), nil)
			}
			// Dangling reference in the source; leave it alone.
			GetLogger().WithField("id", oldID).Debug("skipping unresolved note reference")
			continue
		}
		maxID++
		idMap[oldID] = maxID
		clone := note.Copy()
		setAttr(clone, "w:id", "id", strconv.Itoa(maxID))
		destRoot.AddChild(clone)
		clones = append(clones, clone)
	}

	rewriteNoteReferences(body, class.refTag, idMap)
	if len(clones) > 0 {
		d.MarkDirty(class.part)
	}
	return clones, nil
}
