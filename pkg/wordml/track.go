package wordml

import (
	"strconv"
	"time"

	"github.com/beevik/etree"
)

// changeDateFormat is the timestamp layout used on w:ins and w:del wrappers.
// Timestamps are truncated to the minute so that consecutive edits by the
// same author coalesce into one revision.
const changeDateFormat = "2006-01-02T15:04:05Z"

func changeTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Minute).Format(changeDateFormat)
}

// newChangeWrapper builds a w:ins or w:del element carrying a change id,
// author and date.
func (d *Document) newChangeWrapper(tag string, now time.Time) *etree.Element {
	w := etree.NewElement("w:" + tag)
	w.CreateAttr("w:id", strconv.Itoa(d.takeChangeID()))
	if author := d.Author(); author != "" {
		w.CreateAttr("w:author", author)
	}
	w.CreateAttr("w:date", changeTimestamp(now))
	return w
}

// isChangeWrapper reports whether e is a run-level revision wrapper.
func isChangeWrapper(e *etree.Element) bool {
	return e.Tag == "ins" || e.Tag == "del"
}

// sameRevision reports whether a wrapper carries the given author and
// minute-truncated date, so a new edit can join it instead of opening a new
// revision.
func sameRevision(w *etree.Element, author, date string) bool {
	return attrValue(w, "author") == author && attrValue(w, "date") == date
}

// markRunDeleted converts a run's text leaves to their deleted forms so the
// run can live inside a w:del wrapper.
func markRunDeleted(run *etree.Element) {
	walkElements(run, func(e *etree.Element) bool {
		switch e.Tag {
		case "t":
			renameTag(e, "delText")
		case "instrText":
			renameTag(e, "delInstrText")
		}
		return true
	})
}

// markRunInserted is the inverse of markRunDeleted, used when a rejected
// deletion restores its runs.
func markRunInserted(run *etree.Element) {
	walkElements(run, func(e *etree.Element) bool {
		switch e.Tag {
		case "delText":
			renameTag(e, "t")
		case "delInstrText":
			renameTag(e, "instrText")
		}
		return true
	})
}

// renameTag rewrites an element's local name keeping its namespace prefix.
func renameTag(e *etree.Element, tag string) {
	e.Tag = tag
}

// AcceptChanges resolves every tracked revision in the package: insertions
// become plain content and deletions are removed. Paragraph-mark deletions
// fold the paragraph into its successor.
func (d *Document) AcceptChanges() error {
	for _, part := range d.trackedParts() {
		root, err := d.partRoot(part)
		if err != nil {
			return err
		}
		if root == nil {
			continue
		}
		changed := acceptChangesIn(root)
		changed = foldDeletedParagraphMarks(root) || changed
		if changed {
			d.MarkDirty(part)
			d.invalidateIndexes()
		}
	}
	return nil
}

// RejectChanges reverts every tracked revision: insertions are removed and
// deletions restored.
func (d *Document) RejectChanges() error {
	for _, part := range d.trackedParts() {
		root, err := d.partRoot(part)
		if err != nil {
			return err
		}
		if root == nil {
			continue
		}
		if rejectChangesIn(root) {
			d.MarkDirty(part)
			d.invalidateIndexes()
		}
	}
	return nil
}

func (d *Document) trackedParts() []string {
	parts := []string{PartDocument}
	parts = append(parts, d.headerFooterParts()...)
	for _, p := range []string{PartFootnotes, PartEndnotes} {
		if d.HasPart(p) {
			parts = append(parts, p)
		}
	}
	return parts
}

func (d *Document) partRoot(part string) (*etree.Element, error) {
	if !d.HasPart(part) {
		return nil, nil
	}
	dom, err := d.Part(part)
	if err != nil {
		return nil, err
	}
	return dom.Root(), nil
}

func acceptChangesIn(root *etree.Element) bool {
	changed := false
	for {
		wrapper := findFirstWrapper(root)
		if wrapper == nil {
			return changed
		}
		changed = true
		parent := wrapper.Parent()
		if wrapper.Tag == "ins" {
			replaceChild(parent, wrapper, wrapper.ChildElements()...)
		} else {
			parent.RemoveChild(wrapper)
		}
	}
}

func rejectChangesIn(root *etree.Element) bool {
	changed := false
	for {
		wrapper := findFirstWrapper(root)
		if wrapper == nil {
			break
		}
		changed = true
		parent := wrapper.Parent()
		if wrapper.Tag == "del" {
			for _, c := range wrapper.ChildElements() {
				markRunInserted(c)
			}
			replaceChild(parent, wrapper, wrapper.ChildElements()...)
		} else {
			parent.RemoveChild(wrapper)
		}
	}
	// A rejected paragraph-mark deletion keeps the mark: drop the marker.
	changed = removeParagraphMarkDeletions(root) || changed
	return changed
}

// findFirstWrapper locates a run-level revision wrapper. Wrappers inside
// pPr/rPr mark property or paragraph-mark changes and are handled
// separately.
func findFirstWrapper(root *etree.Element) *etree.Element {
	var found *etree.Element
	walkElements(root, func(e *etree.Element) bool {
		if found != nil {
			return false
		}
		if e.Tag == "pPr" || e.Tag == "rPr" {
			return false
		}
		if isChangeWrapper(e) {
			found = e
			return false
		}
		return true
	})
	return found
}

// foldDeletedParagraphMarks merges every paragraph whose mark carries an
// accepted w:del into the following paragraph.
func foldDeletedParagraphMarks(root *etree.Element) bool {
	changed := false
	for {
		p := paragraphWithDeletedMark(root)
		if p == nil {
			return changed
		}
		changed = true
		removeMarkDeletion(p)
		next := nextSiblingParagraph(p)
		if next == nil {
			continue
		}
		at := indexAfterProperties(next)
		for _, c := range p.ChildElements() {
			if c.Tag == "pPr" {
				continue
			}
			p.RemoveChild(c)
			next.InsertChildAt(at, c)
			at++
		}
		p.Parent().RemoveChild(p)
	}
}

func removeParagraphMarkDeletions(root *etree.Element) bool {
	changed := false
	for {
		p := paragraphWithDeletedMark(root)
		if p == nil {
			return changed
		}
		changed = true
		removeMarkDeletion(p)
	}
}

func paragraphWithDeletedMark(root *etree.Element) *etree.Element {
	var found *etree.Element
	walkElements(root, func(e *etree.Element) bool {
		if found != nil {
			return false
		}
		if e.Tag != "p" {
			return true
		}
		if pPr := childByTag(e, "pPr"); pPr != nil {
			if rPr := childByTag(pPr, "rPr"); rPr != nil {
				if childByTag(rPr, "del") != nil {
					found = e
					return false
				}
			}
		}
		return true
	})
	return found
}

func removeMarkDeletion(p *etree.Element) {
	pPr := childByTag(p, "pPr")
	if pPr == nil {
		return
	}
	rPr := childByTag(pPr, "rPr")
	if rPr == nil {
		return
	}
	if del := childByTag(rPr, "del"); del != nil {
		rPr.RemoveChild(del)
	}
}

func nextSiblingParagraph(p *etree.Element) *etree.Element {
	parent := p.Parent()
	if parent == nil {
		return nil
	}
	seen := false
	for _, c := range parent.ChildElements() {
		if c == p {
			seen = true
			continue
		}
		if seen && c.Tag == "p" {
			return c
		}
	}
	return nil
}

// indexAfterProperties returns the child token index just past a
// paragraph's pPr, where merged-in content belongs.
func indexAfterProperties(p *etree.Element) int {
	if pPr := childByTag(p, "pPr"); pPr != nil {
		return pPr.Index() + 1
	}
	return 0
}
