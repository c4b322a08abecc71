package wordml

import (
	"strconv"

	"github.com/beevik/etree"
)

// Bookmark is a named start/end marker pair. The two markers share an ID
// and may live in different parts of the package.
type Bookmark struct {
	doc       *Document
	name      string
	id        int
	start     *etree.Element
	end       *etree.Element
	startPart string
	endPart   string
}

// Name returns the bookmark's name.
func (b *Bookmark) Name() string { return b.name }

// ID returns the bookmark's numeric ID.
func (b *Bookmark) ID() int { return b.id }

// Bookmarks lists every bookmark in the package, pairing starts with ends
// by ID across the body, headers, footers and notes parts. A start without
// a matching end (or the reverse) is a structural defect and fails the
// listing.
func (d *Document) Bookmarks() ([]*Bookmark, error) {
	starts := make(map[int]*Bookmark)
	var order []int

	for _, part := range d.trackedParts() {
		root, err := d.partRoot(part)
		if err != nil {
			return nil, err
		}
		if root == nil {
			continue
		}
		walkElements(root, func(e *etree.Element) bool {
			switch e.Tag {
			case "bookmarkStart":
				id := atoiOrZero(attrValue(e, "id"))
				starts[id] = &Bookmark{
					doc:       d,
					name:      attrValue(e, "name"),
					id:        id,
					start:     e,
					startPart: part,
				}
				order = append(order, id)
			case "bookmarkEnd":
				id := atoiOrZero(attrValue(e, "id"))
				if b, ok := starts[id]; ok {
					b.end = e
					b.endPart = part
				} else {
					starts[id] = &Bookmark{doc: d, id: id, end: e, endPart: part}
					order = append(order, id)
				}
			}
			return true
		})
	}

	out := make([]*Bookmark, 0, len(order))
	for _, id := range order {
		b := starts[id]
		if b.start == nil || b.end == nil {
			return nil, NewInvalidDocumentError(PartDocument,
				"bookmark "+strconv.Itoa(id)+" is missing its matching marker", nil)
		}
		out = append(out, b)
	}
	return out, nil
}

// Bookmark finds a bookmark by name, or nil when absent.
func (d *Document) Bookmark(name string) (*Bookmark, error) {
	bookmarks, err := d.Bookmarks()
	if err != nil {
		return nil, err
	}
	for _, b := range bookmarks {
		if b.name == name {
			return b, nil
		}
	}
	return nil, nil
}

// AddBookmark brackets length characters starting at offset within the
// paragraph with a new named bookmark.
func (d *Document) AddBookmark(name string, p *Paragraph, offset, length int) (*Bookmark, error) {
	if name == "" {
		return nil, NewArgumentError("name", "must not be empty")
	}
	textLen := textLength(p.el)
	if offset < 0 || length < 0 || offset+length > textLen {
		return nil, NewRangeError("add bookmark", offset, textLen)
	}

	id := d.takeBookmarkID()
	start := etree.NewElement("w:bookmarkStart")
	start.CreateAttr("w:id", strconv.Itoa(id))
	start.CreateAttr("w:name", name)
	end := etree.NewElement("w:bookmarkEnd")
	end.CreateAttr("w:id", strconv.Itoa(id))

	// Insert the end marker first so the start offset stays valid.
	if err := p.insertMarker(offset+length, end); err != nil {
		return nil, err
	}
	if err := p.insertMarker(offset, start); err != nil {
		return nil, err
	}
	p.markEdited()
	return &Bookmark{
		doc: d, name: name, id: id,
		start: start, end: end,
		startPart: PartDocument, endPart: PartDocument,
	}, nil
}

// insertMarker places a zero-length marker element at a character offset,
// splitting the inline node there when the offset falls inside one.
func (p *Paragraph) insertMarker(offset int, marker *etree.Element) error {
	if textLength(p.el) == 0 {
		p.el.InsertChildAt(indexAfterProperties(p.el), marker)
		return nil
	}
	child, start, err := childAtOffset(p.el, offset)
	if err != nil {
		return err
	}
	local := offset - start
	switch local {
	case 0:
		p.el.InsertChildAt(child.Index(), marker)
	case textLength(child):
		insertChildAfter(p.el, child, marker)
	default:
		left, right, err := splitInline(child, local)
		if err != nil {
			return err
		}
		replaceChild(p.el, child, left, marker, right)
	}
	return nil
}

// Remove deletes both markers of the bookmark. The pair is removed
// atomically: when either marker has gone missing since lookup, neither is
// touched.
func (b *Bookmark) Remove() error {
	if b.start == nil || b.end == nil || b.start.Parent() == nil || b.end.Parent() == nil {
		return NewInvalidDocumentError(b.startPart,
			"bookmark "+b.name+" is missing its matching marker", nil)
	}
	b.start.Parent().RemoveChild(b.start)
	b.end.Parent().RemoveChild(b.end)
	b.doc.MarkDirty(b.startPart)
	b.doc.MarkDirty(b.endPart)
	b.doc.invalidateIndexes()
	return nil
}
