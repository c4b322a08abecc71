package wordml

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// mergeFonts folds source font declarations into the destination font
// table, keyed by font name. Embedded font binaries are not carried over;
// their declarations are kept without the embed references so the
// destination never points at binaries it does not hold.
func (d *Document) mergeFonts(srcFonts *etree.Element) error {
	destFonts, err := d.partRoot(PartFontTable)
	if err != nil {
		return err
	}
	if destFonts == nil {
		return NewInvalidDocumentError(PartFontTable, "destination has no font table part", nil)
	}

	known := make(map[string]bool)
	for _, f := range childrenByTag(destFonts, "font") {
		known[attrValue(f, "name")] = true
	}

	added := false
	for _, f := range childrenByTag(srcFonts, "font") {
		name := attrValue(f, "name")
		if name == "" || known[name] {
			continue
		}
		clone := f.Copy()
		for _, c := range clone.ChildElements() {
			if strings.HasPrefix(c.Tag, "embed") {
				clone.RemoveChild(c)
			}
		}
		destFonts.AddChild(clone)
		known[name] = true
		added = true
	}
	if added {
		d.MarkDirty(PartFontTable)
	}
	return nil
}

// mergeCustomProperties folds source custom document properties into the
// destination, keyed by property name. Property IDs are reassigned above
// the destination's maximum; the OOXML minimum pid is 2.
func (d *Document) mergeCustomProperties(srcProps *etree.Element) error {
	destProps, err := d.partRoot(PartCustomProps)
	if err != nil {
		return err
	}
	if destProps == nil {
		return NewInvalidDocumentError(PartCustomProps, "destination has no custom properties part", nil)
	}

	known := make(map[string]bool)
	maxPid := 1
	for _, p := range childrenByTag(destProps, "property") {
		known[attrValue(p, "name")] = true
		if pid := atoiOrZero(attrValue(p, "pid")); pid > maxPid {
			maxPid = pid
		}
	}

	added := false
	for _, p := range childrenByTag(srcProps, "property") {
		name := attrValue(p, "name")
		if name == "" || known[name] {
			continue
		}
		maxPid++
		clone := p.Copy()
		setAttr(clone, "pid", "pid", strconv.Itoa(maxPid))
		destProps.AddChild(clone)
		known[name] = true
		added = true
	}
	if added {
		d.MarkDirty(PartCustomProps)
	}
	return nil
}
