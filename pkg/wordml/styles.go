package wordml

import (
	"sort"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"
)

// MergeMode decides what happens when a merged style's ID collides with an
// existing destination style.
type MergeMode int

const (
	// ModeLocal keeps the destination's style and drops the source's.
	ModeLocal MergeMode = iota
	// ModeRemote replaces the destination style's content with the
	// source's, keeping the destination style ID.
	ModeRemote
	// ModeBoth keeps both: identical content collapses to the existing
	// style, differing content gets a freshly minted style ID.
	ModeBoth
)

// newStyleID mints a unique style identifier.
func newStyleID() string {
	return "s" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func isDefaultStyle(style *etree.Element) bool {
	switch attrValue(style, "default") {
	case "1", "true", "on":
		return true
	}
	return false
}

// mergeStyles folds the source styles part into the destination. refRoots
// are every merged subtree that may reference a style by ID (the merged
// body content, merged footnotes and endnotes, the merged numbering part
// and the source styles part itself); when a renamed style ends up
// referenced by none of them it is dropped, because an unused style is a
// corruption risk rather than an asset.
func (d *Document) mergeStyles(srcStyles *etree.Element, refRoots []*etree.Element, mode MergeMode) error {
	destStyles := d.stylesRoot()
	if destStyles == nil {
		return NewInvalidDocumentError(PartStyles, "destination has no styles part", nil)
	}

	// Adopted clones join the rewrite scope so that a later rename of a
	// basedOn ancestor still reaches styles adopted earlier.
	var adopted []*etree.Element
	for _, src := range childrenByTag(srcStyles, "style") {
		srcID := attrValue(src, "styleId")
		if srcID == "" {
			continue
		}
		if isDefaultStyle(src) && attrValue(src, "type") == "paragraph" {
			foldDefaultParagraphStyle(destStyles, src)
			continue
		}

		dest := d.styleByID(srcID)
		switch {
		case dest == nil:
			adopted = d.adoptStyle(src, srcID, append(refRoots, adopted...), destStyles, adopted)
		case mode == ModeLocal:
			// Destination wins; source references resolve to it.
		case mode == ModeRemote:
			replaceStyleContent(dest, src, srcID)
			d.MarkDirty(PartStyles)
		case elementsEqual(dest, src):
			// Same definition on both sides, nothing to do.
		default:
			adopted = d.adoptStyle(src, srcID, append(refRoots, adopted...), destStyles, adopted)
		}
	}
	return nil
}

// adoptStyle copies a source style into the destination under a freshly
// minted ID, rewriting every reference to the old ID. A style referenced by
// nothing is elided.
func (d *Document) adoptStyle(src *etree.Element, srcID string, refRoots []*etree.Element, destStyles *etree.Element, adopted []*etree.Element) []*etree.Element {
	newID := newStyleID()
	if !rewriteStyleID(refRoots, srcID, newID) {
		GetLogger().WithField("style", srcID).Debug("dropping unreferenced merged style")
		return adopted
	}
	clone := src.Copy()
	setAttr(clone, "w:styleId", "styleId", newID)
	destStyles.AddChild(clone)
	d.MarkDirty(PartStyles)
	return append(adopted, clone)
}

// replaceStyleContent swaps dest's attributes and children for src's,
// keeping the destination style ID.
func replaceStyleContent(dest, src *etree.Element, keepID string) {
	for len(dest.Attr) > 0 {
		dest.RemoveAttr(dest.Attr[0].FullKey())
	}
	for _, a := range src.Attr {
		if a.Space != "" {
			dest.CreateAttr(a.Space+":"+a.Key, a.Value)
		} else {
			dest.CreateAttr(a.Key, a.Value)
		}
	}
	setAttr(dest, "w:styleId", "styleId", keepID)
	for _, c := range dest.ChildElements() {
		dest.RemoveChild(c)
	}
	for _, c := range src.ChildElements() {
		dest.AddChild(c.Copy())
	}
}

// foldDefaultParagraphStyle merges a source default-paragraph style's
// property defaults into the destination's default style. A document has
// exactly one default paragraph style, so duplicating it is never an
// option: properties the destination already sets win, the rest are copied.
func foldDefaultParagraphStyle(destStyles, src *etree.Element) {
	var dest *etree.Element
	for _, s := range childrenByTag(destStyles, "style") {
		if attrValue(s, "type") == "paragraph" && isDefaultStyle(s) {
			dest = s
			break
		}
	}
	if dest == nil {
		return
	}
	for _, props := range []string{"pPr", "rPr"} {
		srcProps := childByTag(src, props)
		if srcProps == nil {
			continue
		}
		destProps := childByTag(dest, props)
		if destProps == nil {
			destProps = etree.NewElement("w:" + props)
			dest.AddChild(destProps)
		}
		for _, c := range srcProps.ChildElements() {
			if childByTag(destProps, c.Tag) == nil {
				destProps.AddChild(c.Copy())
			}
		}
	}
}

// elementsEqual compares two elements structurally: tag, attributes,
// character data and children, ignoring attribute order.
func elementsEqual(a, b *etree.Element) bool {
	if a.Tag != b.Tag {
		return false
	}
	if elementText(a) != elementText(b) {
		return false
	}
	if len(a.Attr) != len(b.Attr) {
		return false
	}
	if attrKey(a) != attrKey(b) {
		return false
	}
	ac, bc := a.ChildElements(), b.ChildElements()
	if len(ac) != len(bc) {
		return false
	}
	for i := range ac {
		if !elementsEqual(ac[i], bc[i]) {
			return false
		}
	}
	return true
}

func attrKey(e *etree.Element) string {
	pairs := make([]string, 0, len(e.Attr))
	for _, a := range e.Attr {
		if a.Space == "xmlns" || a.Key == "xmlns" {
			continue
		}
		pairs = append(pairs, a.Key+"="+a.Value)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ";")
}
