package wordml

import (
	"github.com/beevik/etree"
)

// Paragraph is a handle to a w:p element within its container (body, header
// or footer) and the owning Document.
type Paragraph struct {
	doc       *Document
	el        *etree.Element
	container *etree.Element
}

// Element returns the underlying w:p element.
func (p *Paragraph) Element() *etree.Element {
	return p.el
}

// Text returns the paragraph's flattened text.
func (p *Paragraph) Text() string {
	return flattenText(p.el)
}

// Length returns the paragraph's flattened text length in characters.
func (p *Paragraph) Length() int {
	return textLength(p.el)
}

// StyleID returns the referenced paragraph style ID, or empty.
func (p *Paragraph) StyleID() string {
	if pPr := childByTag(p.el, "pPr"); pPr != nil {
		if pStyle := childByTag(pPr, "pStyle"); pStyle != nil {
			return attrValue(pStyle, "val")
		}
	}
	return ""
}

// SetStyleID sets the paragraph style reference, creating w:pPr/w:pStyle as
// needed.
func (p *Paragraph) SetStyleID(styleID string) {
	pPr := childByTag(p.el, "pPr")
	if pPr == nil {
		pPr = etree.NewElement("w:pPr")
		if len(p.el.ChildElements()) == 0 {
			p.el.AddChild(pPr)
		} else {
			p.el.InsertChildAt(p.el.ChildElements()[0].Index(), pPr)
		}
	}
	pStyle := childByTag(pPr, "pStyle")
	if pStyle == nil {
		pStyle = pPr.CreateElement("w:pStyle")
	}
	setAttr(pStyle, "w:val", "val", styleID)
	p.doc.MarkDirty(PartDocument)
}

// NumberingID returns the list numbering ID referenced by the paragraph, or
// 0 when the paragraph is not numbered.
func (p *Paragraph) NumberingID() int {
	if pPr := childByTag(p.el, "pPr"); pPr != nil {
		if numPr := childByTag(pPr, "numPr"); numPr != nil {
			if numID := childByTag(numPr, "numId"); numID != nil {
				return atoiOrZero(attrValue(numID, "val"))
			}
		}
	}
	return 0
}

// StartIndex returns the paragraph's starting character offset within its
// container, refreshing the container index when dirty.
func (p *Paragraph) StartIndex() int {
	start, _ := p.doc.indexFor(p.container).rangeOf(p.el)
	return start
}

// EndIndex returns the paragraph's exclusive ending character offset within
// its container.
func (p *Paragraph) EndIndex() int {
	_, end := p.doc.indexFor(p.container).rangeOf(p.el)
	return end
}

// InsertParagraphAfter inserts a new empty paragraph after p and returns it.
func (p *Paragraph) InsertParagraphAfter() *Paragraph {
	np := etree.NewElement("w:p")
	insertChildAfter(p.container, p.el, np)
	p.doc.indexFor(p.container).MarkDirty()
	p.doc.MarkDirty(PartDocument)
	return &Paragraph{doc: p.doc, el: np, container: p.container}
}

// Remove deletes the paragraph from its parent.
func (p *Paragraph) Remove() {
	if parent := p.el.Parent(); parent != nil {
		parent.RemoveChild(p.el)
	}
	p.doc.indexFor(p.container).MarkDirty()
	p.doc.MarkDirty(PartDocument)
}

// inTableCell reports whether the paragraph is a direct child of a table
// cell.
func (p *Paragraph) inTableCell() bool {
	parent := p.el.Parent()
	return parent != nil && parent.Tag == "tc"
}

func atoiOrZero(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
