package wordml

import (
	"strings"

	"github.com/beevik/etree"
)

// MergeOptions controls MergeDocument.
type MergeOptions struct {
	// Mode decides style ID collisions, see MergeMode.
	Mode MergeMode
	// Prepend splices the source content before the destination's instead
	// of after it.
	Prepend bool
	// SectionBreak keeps both documents' page sections by converting one
	// body-level section break into a paragraph-level one at the seam.
	SectionBreak bool
}

// partKind routes a part to its merge strategy. The kind is decided once
// from the content type instead of re-matching strings at every step.
type partKind int

const (
	kindOther partKind = iota
	kindStyles
	kindNumbering
	kindFootnotes
	kindEndnotes
	kindFontTable
	kindCustomProps
	kindIgnored
)

func kindOfContentType(ct string) partKind {
	switch ct {
	case ContentTypeStyles:
		return kindStyles
	case ContentTypeNumbering:
		return kindNumbering
	case ContentTypeFootnotes:
		return kindFootnotes
	case ContentTypeEndnotes:
		return kindEndnotes
	case ContentTypeFontTable:
		return kindFontTable
	case ContentTypeCustomProps:
		return kindCustomProps
	case ContentTypeDocument, ContentTypeHeader, ContentTypeFooter,
		ContentTypeCoreProps, ContentTypeExtProps, ContentTypeRels:
		return kindIgnored
	}
	return kindOther
}

// MergeDocument splices the source document's content and supporting parts
// into the destination. The source is never mutated: every part the merge
// touches is copied first. Headers and footers are not carried over.
func (d *Document) MergeDocument(src *Document, opts MergeOptions) error {
	destBody, err := d.Body()
	if err != nil {
		return err
	}
	origBody, err := src.Body()
	if err != nil {
		return err
	}
	srcBody := origBody.Copy()
	stripHeaderFooterRefs(srcBody)

	// Parts adopted verbatim from the source still carry source style and
	// numbering references; their parsed roots join every rewrite below.
	var adoptedRoots []*etree.Element

	footClones, footAdopted, err := d.mergeNoteKind(footnoteClass, src, srcBody)
	if err != nil {
		return err
	}
	if footAdopted != nil {
		adoptedRoots = append(adoptedRoots, footAdopted)
	}
	endClones, endAdopted, err := d.mergeNoteKind(endnoteClass, src, srcBody)
	if err != nil {
		return err
	}
	if endAdopted != nil {
		adoptedRoots = append(adoptedRoots, endAdopted)
	}

	srcStyles := cloneRoot(src.stylesRoot())
	srcNumbering := cloneRoot(src.numberingRoot())

	var numClones []*etree.Element
	if srcNumbering != nil {
		if !d.HasPart(PartNumbering) {
			if err := d.adoptPartWithRel(src, PartNumbering, RelTypeNumbering); err != nil {
				return err
			}
			root, err := d.partRoot(PartNumbering)
			if err != nil {
				return err
			}
			if root != nil {
				adoptedRoots = append(adoptedRoots, root)
				d.MarkDirty(PartNumbering)
			}
		} else {
			refRoots := append([]*etree.Element{srcBody, srcStyles}, footClones...)
			refRoots = append(refRoots, endClones...)
			refRoots = append(refRoots, adoptedRoots...)
			numClones, err = d.mergeNumbering(srcNumbering, refRoots)
			if err != nil {
				return err
			}
		}
	}

	if srcStyles != nil {
		if !d.HasPart(PartStyles) {
			if err := d.adoptPartWithRel(src, PartStyles, RelTypeStyles); err != nil {
				return err
			}
		} else {
			refRoots := append([]*etree.Element{srcBody, srcStyles}, footClones...)
			refRoots = append(refRoots, endClones...)
			refRoots = append(refRoots, numClones...)
			refRoots = append(refRoots, adoptedRoots...)
			if err := d.mergeStyles(srcStyles, refRoots, opts.Mode); err != nil {
				return err
			}
		}
	}

	if srcFonts, _ := src.partRoot(PartFontTable); srcFonts != nil {
		if !d.HasPart(PartFontTable) {
			if err := d.adoptPartWithRel(src, PartFontTable, RelTypeFontTable); err != nil {
				return err
			}
		} else if err := d.mergeFonts(srcFonts); err != nil {
			return err
		}
	}
	if srcProps, _ := src.partRoot(PartCustomProps); srcProps != nil {
		if !d.HasPart(PartCustomProps) {
			if err := d.adoptPartWithRel(src, PartCustomProps, RelTypeCustomProp); err != nil {
				return err
			}
		} else if err := d.mergeCustomProperties(srcProps); err != nil {
			return err
		}
	}

	if err := d.adoptRemainingParts(src); err != nil {
		return err
	}

	if err := d.importRelationships(src, PartDocument, srcBody); err != nil {
		return err
	}
	if len(footClones) > 0 {
		if err := d.importRelationships(src, PartFootnotes, footClones...); err != nil {
			return err
		}
	}
	if len(endClones) > 0 {
		if err := d.importRelationships(src, PartEndnotes, endClones...); err != nil {
			return err
		}
	}

	d.renumberDrawingObjects(srcBody)
	for _, c := range footClones {
		d.renumberDrawingObjects(c)
	}
	for _, c := range endClones {
		d.renumberDrawingObjects(c)
	}

	spliceBodies(destBody, srcBody, opts)
	copyMissingRootAttrs(d, src)

	d.MarkDirty(PartDocument)
	d.invalidateIndexes()
	return nil
}

// mergeNoteKind merges footnotes or endnotes. When the destination has none
// of that kind yet the source part is adopted whole; the adopted root is
// returned so later style and numbering rewrites reach into it.
func (d *Document) mergeNoteKind(class noteClass, src *Document, srcBody *etree.Element) (clones []*etree.Element, adopted *etree.Element, err error) {
	if len(collectNoteReferences(srcBody, class.refTag)) == 0 {
		return nil, nil, nil
	}
	if !src.HasPart(class.part) {
		return nil, nil, nil
	}
	if !d.HasPart(class.part) {
		if err := d.adoptPartWithRel(src, class.part, class.relType); err != nil {
			return nil, nil, err
		}
		root, err := d.partRoot(class.part)
		if err != nil {
			return nil, nil, err
		}
		if root != nil {
			d.MarkDirty(class.part)
		}
		return nil, root, nil
	}
	clones, err = d.mergeNotes(class, src, srcBody)
	return clones, nil, err
}

// adoptPartWithRel copies a part (and its relationship tree) from the
// source package and registers a document-level relationship to it.
func (d *Document) adoptPartWithRel(src *Document, partName, relType string) error {
	copied := make(map[string]string)
	newName, err := d.copyPartTree(src, partName, copied)
	if err != nil {
		return err
	}
	rels, err := d.Relationships(PartDocument)
	if err != nil {
		return err
	}
	target := relTargetFor(PartDocument, newName)
	if rels.ByTarget(target) == nil {
		rels.Add(relType, target, "")
		d.markRelsDirty(PartDocument)
	}
	return nil
}

// adoptRemainingParts clones every source part the destination lacks and no
// dedicated merge routine owns: settings, themes, web settings and the
// like. Parts the destination already has win unchanged.
func (d *Document) adoptRemainingParts(src *Document) error {
	srcDocRels, err := src.Relationships(PartDocument)
	if err != nil {
		return err
	}
	copied := make(map[string]string)
	for _, name := range src.container.PartNames() {
		if mergeIgnoresPart(name) {
			continue
		}
		if kindOfContentType(src.contentTypes.TypeOf(name)) != kindOther {
			continue
		}
		if d.HasPart(name) {
			continue
		}
		newName, err := d.copyPartTree(src, name, copied)
		if err != nil {
			return err
		}
		for _, rel := range srcDocRels.All() {
			if rel.TargetMode == "External" || resolveTarget(PartDocument, rel.Target) != name {
				continue
			}
			destRels, err := d.Relationships(PartDocument)
			if err != nil {
				return err
			}
			target := relTargetFor(PartDocument, newName)
			if destRels.ByTarget(target) == nil {
				destRels.Add(rel.Type, target, "")
				d.markRelsDirty(PartDocument)
			}
		}
	}
	return nil
}

func mergeIgnoresPart(name string) bool {
	switch {
	case name == PartDocument, name == PartContentTypes, name == PartCoreProps:
		return true
	case name == "docProps/app.xml":
		return true
	case headerFooterPartRe.MatchString(name):
		return true
	case strings.Contains(name, "_rels/"):
		return true
	case strings.HasPrefix(name, "word/media/"):
		return true
	}
	return false
}

// stripHeaderFooterRefs removes header and footer references from every
// section inside the copied source body. Headers and footers are the
// caller's concern, not the merge's.
func stripHeaderFooterRefs(body *etree.Element) {
	walkElements(body, func(e *etree.Element) bool {
		if e.Tag != "sectPr" {
			return true
		}
		for _, c := range e.ChildElements() {
			if c.Tag == "headerReference" || c.Tag == "footerReference" {
				e.RemoveChild(c)
			}
		}
		return true
	})
}

// spliceBodies moves the source body's content into the destination body
// and resolves section-break placement at the seam.
func spliceBodies(destBody, srcBody *etree.Element, opts MergeOptions) {
	srcSect := childByTag(srcBody, "sectPr")
	destSect := childByTag(destBody, "sectPr")

	if opts.SectionBreak {
		// Converting a body-level section break into a paragraph-level
		// one keeps both documents' page setups without an extra split.
		if opts.Prepend {
			moveSectIntoLastParagraph(srcBody, srcSect)
		} else {
			moveSectIntoLastParagraph(destBody, destSect)
			destSect = nil
		}
	} else {
		if opts.Prepend {
			if srcSect != nil {
				srcBody.RemoveChild(srcSect)
			}
		} else if srcSect != nil && destSect != nil {
			destBody.RemoveChild(destSect)
			destSect = nil
		}
	}

	children := srcBody.ChildElements()
	if opts.Prepend {
		at := 0
		for _, c := range children {
			srcBody.RemoveChild(c)
			destBody.InsertChildAt(at, c)
			at++
		}
		return
	}
	for _, c := range children {
		srcBody.RemoveChild(c)
		if destSect != nil {
			destBody.InsertChildAt(destSect.Index(), c)
		} else {
			destBody.AddChild(c)
		}
	}
}

// moveSectIntoLastParagraph moves a body-level sectPr into the last
// paragraph's properties. Without a paragraph to carry it, the section
// stays where it is.
func moveSectIntoLastParagraph(body *etree.Element, sect *etree.Element) {
	if sect == nil {
		return
	}
	paragraphs := childrenByTag(body, "p")
	if len(paragraphs) == 0 {
		return
	}
	last := paragraphs[len(paragraphs)-1]
	body.RemoveChild(sect)
	pPr := childByTag(last, "pPr")
	if pPr == nil {
		pPr = etree.NewElement("w:pPr")
		last.InsertChildAt(0, pPr)
	}
	pPr.AddChild(sect)
}

// copyMissingRootAttrs copies document-root attributes (namespace bindings,
// compatibility hints) present on the source but absent on the destination.
func copyMissingRootAttrs(dest, src *Document) {
	destDom, err := dest.Part(PartDocument)
	if err != nil || destDom.Root() == nil {
		return
	}
	srcDom, err := src.Part(PartDocument)
	if err != nil || srcDom.Root() == nil {
		return
	}
	destRoot, srcRoot := destDom.Root(), srcDom.Root()
	for _, a := range srcRoot.Attr {
		if hasAttr(destRoot, a.Key) {
			continue
		}
		if a.Space != "" {
			destRoot.CreateAttr(a.Space+":"+a.Key, a.Value)
		} else {
			destRoot.CreateAttr(a.Key, a.Value)
		}
	}
}

func cloneRoot(root *etree.Element) *etree.Element {
	if root == nil {
		return nil
	}
	return root.Copy()
}
