package wordml

import (
	"github.com/beevik/etree"
)

// Paragraph index cache. Each container (body, a given header, a given
// footer) keeps cumulative [start, end) offsets for its direct paragraphs so
// offset lookups don't rescan from the container start. Structural mutations
// mark the cache dirty; the next query recomputes it in one walk.
//
// A paragraph spans its text length plus one for the implicit paragraph
// mark, so an empty paragraph still spans exactly 1.

type paraEntry struct {
	el    *etree.Element
	start int
	end   int
}

type paragraphIndex struct {
	container      *etree.Element
	entries        []paraEntry
	byNode         map[*etree.Element]int
	dirty          bool
	preventRefresh bool
}

// indexFor returns the paragraph index of a container, creating it dirty on
// first use.
func (d *Document) indexFor(container *etree.Element) *paragraphIndex {
	if ix, ok := d.indexes[container]; ok {
		return ix
	}
	ix := &paragraphIndex{container: container, dirty: true}
	d.indexes[container] = ix
	return ix
}

// MarkDirty must be called by any structural mutation (paragraph insert,
// remove, reorder) before the next offset query.
func (ix *paragraphIndex) MarkDirty() {
	ix.dirty = true
}

// ensureFresh recomputes all ranges by walking the container's paragraph
// sequence once. Skipped inside a prevent-refresh scope.
func (ix *paragraphIndex) ensureFresh() {
	if !ix.dirty || ix.preventRefresh {
		return
	}
	ix.entries = ix.entries[:0]
	ix.byNode = make(map[*etree.Element]int)
	offset := 0
	for _, p := range childrenByTag(ix.container, "p") {
		span := textLength(p) + 1
		ix.byNode[p] = len(ix.entries)
		ix.entries = append(ix.entries, paraEntry{el: p, start: offset, end: offset + span})
		offset += span
	}
	ix.dirty = false
}

// rangeOf returns the [start, end) range of a paragraph. Paragraphs outside
// the container's main sequence (table cell paragraphs) fall back to a
// linear scan by node identity and degrade to (0, 1) when absent; callers
// must tolerate this reduced precision.
func (ix *paragraphIndex) rangeOf(p *etree.Element) (int, int) {
	ix.ensureFresh()
	if i, ok := ix.byNode[p]; ok {
		return ix.entries[i].start, ix.entries[i].end
	}
	for _, e := range ix.entries {
		if e.el == p {
			return e.start, e.end
		}
	}
	return 0, 1
}

// PreventRefresh runs fn with index refreshes suppressed for the given
// container, avoiding quadratic recomputation during bulk edits. The index
// is marked dirty when the scope ends.
func (d *Document) PreventRefresh(container *etree.Element, fn func() error) error {
	ix := d.indexFor(container)
	ix.preventRefresh = true
	defer func() {
		ix.preventRefresh = false
		ix.dirty = true
	}()
	return fn()
}

// invalidateIndexes marks every container index dirty, used after merges.
func (d *Document) invalidateIndexes() {
	for _, ix := range d.indexes {
		ix.dirty = true
	}
}
