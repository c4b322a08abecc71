package wordml

import (
	"strconv"

	"github.com/beevik/etree"
)

// TriState models an OOXML toggle property: absent, explicitly on, or
// explicitly off (val="0"/"false").
type TriState int

const (
	Unset TriState = iota
	On
	Off
)

// Formatting is a snapshot of character-level formatting. It is a value
// object with structural equality: two snapshots compare equal exactly when
// every field matches.
type Formatting struct {
	Bold      TriState
	Italic    TriState
	Strike    TriState
	Underline string // underline style, "" when unset
	Color     string
	Highlight string
	Shading   string // fill color
	Size      int    // half-points, 0 when unset
	Font      string // ascii font name
	Lang      string
	Kerning   int
	Position  int
	Spacing   int // character spacing in twips
	StyleID   string // referenced character style (w:rStyle)
	VertAlign string
}

// Equals reports structural equality.
func (f Formatting) Equals(other Formatting) bool {
	return f == other
}

// Contains reports whether every property set in sub matches f, i.e. sub is
// a subset of f. Used for formatting-filtered replace.
func (f Formatting) Contains(sub Formatting) bool {
	if sub.Bold != Unset && sub.Bold != f.Bold {
		return false
	}
	if sub.Italic != Unset && sub.Italic != f.Italic {
		return false
	}
	if sub.Strike != Unset && sub.Strike != f.Strike {
		return false
	}
	if sub.Underline != "" && sub.Underline != f.Underline {
		return false
	}
	if sub.Color != "" && sub.Color != f.Color {
		return false
	}
	if sub.Highlight != "" && sub.Highlight != f.Highlight {
		return false
	}
	if sub.Shading != "" && sub.Shading != f.Shading {
		return false
	}
	if sub.Size != 0 && sub.Size != f.Size {
		return false
	}
	if sub.Font != "" && sub.Font != f.Font {
		return false
	}
	if sub.Lang != "" && sub.Lang != f.Lang {
		return false
	}
	if sub.Kerning != 0 && sub.Kerning != f.Kerning {
		return false
	}
	if sub.Position != 0 && sub.Position != f.Position {
		return false
	}
	if sub.Spacing != 0 && sub.Spacing != f.Spacing {
		return false
	}
	if sub.StyleID != "" && sub.StyleID != f.StyleID {
		return false
	}
	if sub.VertAlign != "" && sub.VertAlign != f.VertAlign {
		return false
	}
	return true
}

// IsZero reports whether no property is set.
func (f Formatting) IsZero() bool {
	return f == Formatting{}
}

// merge fills every unset field of f from lower-priority formatting.
func (f Formatting) merge(lower Formatting) Formatting {
	if f.Bold == Unset {
		f.Bold = lower.Bold
	}
	if f.Italic == Unset {
		f.Italic = lower.Italic
	}
	if f.Strike == Unset {
		f.Strike = lower.Strike
	}
	if f.Underline == "" {
		f.Underline = lower.Underline
	}
	if f.Color == "" {
		f.Color = lower.Color
	}
	if f.Highlight == "" {
		f.Highlight = lower.Highlight
	}
	if f.Shading == "" {
		f.Shading = lower.Shading
	}
	if f.Size == 0 {
		f.Size = lower.Size
	}
	if f.Font == "" {
		f.Font = lower.Font
	}
	if f.Lang == "" {
		f.Lang = lower.Lang
	}
	if f.Kerning == 0 {
		f.Kerning = lower.Kerning
	}
	if f.Position == 0 {
		f.Position = lower.Position
	}
	if f.Spacing == 0 {
		f.Spacing = lower.Spacing
	}
	if f.VertAlign == "" {
		f.VertAlign = lower.VertAlign
	}
	return f
}

// toggleState reads an OOXML toggle element's value.
func toggleState(e *etree.Element) TriState {
	switch attrValue(e, "val") {
	case "", "1", "true", "on":
		return On
	case "0", "false", "off", "none":
		return Off
	}
	return On
}

// parseFormatting reads a w:rPr element into a Formatting snapshot.
// A nil element yields the zero value.
func parseFormatting(rPr *etree.Element) Formatting {
	var f Formatting
	if rPr == nil {
		return f
	}
	for _, c := range rPr.ChildElements() {
		switch c.Tag {
		case "b":
			f.Bold = toggleState(c)
		case "i":
			f.Italic = toggleState(c)
		case "strike":
			f.Strike = toggleState(c)
		case "u":
			f.Underline = attrValue(c, "val")
		case "color":
			f.Color = attrValue(c, "val")
		case "highlight":
			f.Highlight = attrValue(c, "val")
		case "shd":
			f.Shading = attrValue(c, "fill")
		case "sz":
			f.Size, _ = strconv.Atoi(attrValue(c, "val"))
		case "rFonts":
			f.Font = attrValue(c, "ascii")
		case "lang":
			f.Lang = attrValue(c, "val")
		case "kern":
			f.Kerning, _ = strconv.Atoi(attrValue(c, "val"))
		case "position":
			f.Position, _ = strconv.Atoi(attrValue(c, "val"))
		case "spacing":
			f.Spacing, _ = strconv.Atoi(attrValue(c, "val"))
		case "rStyle":
			f.StyleID = attrValue(c, "val")
		case "vertAlign":
			f.VertAlign = attrValue(c, "val")
		}
	}
	return f
}

// buildRunProperties builds a w:rPr element from a Formatting snapshot, or
// nil when nothing is set.
func buildRunProperties(f Formatting) *etree.Element {
	if f.IsZero() {
		return nil
	}
	rPr := etree.NewElement("w:rPr")
	if f.StyleID != "" {
		rPr.CreateElement("w:rStyle").CreateAttr("w:val", f.StyleID)
	}
	if f.Font != "" {
		rPr.CreateElement("w:rFonts").CreateAttr("w:ascii", f.Font)
	}
	switch f.Bold {
	case On:
		rPr.CreateElement("w:b")
	case Off:
		rPr.CreateElement("w:b").CreateAttr("w:val", "0")
	}
	switch f.Italic {
	case On:
		rPr.CreateElement("w:i")
	case Off:
		rPr.CreateElement("w:i").CreateAttr("w:val", "0")
	}
	switch f.Strike {
	case On:
		rPr.CreateElement("w:strike")
	case Off:
		rPr.CreateElement("w:strike").CreateAttr("w:val", "0")
	}
	if f.Underline != "" {
		rPr.CreateElement("w:u").CreateAttr("w:val", f.Underline)
	}
	if f.Color != "" {
		rPr.CreateElement("w:color").CreateAttr("w:val", f.Color)
	}
	if f.Highlight != "" {
		rPr.CreateElement("w:highlight").CreateAttr("w:val", f.Highlight)
	}
	if f.Shading != "" {
		shd := rPr.CreateElement("w:shd")
		shd.CreateAttr("w:val", "clear")
		shd.CreateAttr("w:fill", f.Shading)
	}
	if f.Size != 0 {
		rPr.CreateElement("w:sz").CreateAttr("w:val", strconv.Itoa(f.Size))
	}
	if f.Kerning != 0 {
		rPr.CreateElement("w:kern").CreateAttr("w:val", strconv.Itoa(f.Kerning))
	}
	if f.Position != 0 {
		rPr.CreateElement("w:position").CreateAttr("w:val", strconv.Itoa(f.Position))
	}
	if f.Spacing != 0 {
		rPr.CreateElement("w:spacing").CreateAttr("w:val", strconv.Itoa(f.Spacing))
	}
	if f.Lang != "" {
		rPr.CreateElement("w:lang").CreateAttr("w:val", f.Lang)
	}
	if f.VertAlign != "" {
		rPr.CreateElement("w:vertAlign").CreateAttr("w:val", f.VertAlign)
	}
	return rPr
}

// ResolveFormatting resolves the effective formatting at a run by cascading:
// direct run formatting, then the referenced character style, then the
// paragraph style chain, then document defaults. Style basedOn chains are
// followed with a cycle guard.
func (d *Document) ResolveFormatting(run *etree.Element, para *Paragraph) Formatting {
	f := parseFormatting(childByTag(run, "rPr"))

	if f.StyleID != "" {
		f = f.merge(d.styleChainFormatting(f.StyleID))
	}
	if para != nil {
		if pStyle := para.StyleID(); pStyle != "" {
			f = f.merge(d.styleChainFormatting(pStyle))
		}
	}
	f = f.merge(d.defaultFormatting())
	return f
}

// styleChainFormatting folds a style's run formatting with its basedOn
// ancestors. The chain is not assumed acyclic: a visited set terminates
// cycles.
func (d *Document) styleChainFormatting(styleID string) Formatting {
	var f Formatting
	visited := make(map[string]bool)
	id := styleID
	for id != "" && !visited[id] {
		visited[id] = true
		style := d.styleByID(id)
		if style == nil {
			break
		}
		f = f.merge(parseFormatting(childByTag(style, "rPr")))
		id = ""
		if basedOn := childByTag(style, "basedOn"); basedOn != nil {
			id = attrValue(basedOn, "val")
		}
	}
	return f
}

// defaultFormatting reads the document defaults from the styles part.
func (d *Document) defaultFormatting() Formatting {
	styles := d.stylesRoot()
	if styles == nil {
		return Formatting{}
	}
	docDefaults := childByTag(styles, "docDefaults")
	if docDefaults == nil {
		return Formatting{}
	}
	if rPrDefault := childByTag(docDefaults, "rPrDefault"); rPrDefault != nil {
		return parseFormatting(childByTag(rPrDefault, "rPr"))
	}
	return Formatting{}
}

// stylesRoot returns the w:styles root element, or nil when the package has
// no styles part.
func (d *Document) stylesRoot() *etree.Element {
	if !d.HasPart(PartStyles) {
		return nil
	}
	dom, err := d.Part(PartStyles)
	if err != nil {
		return nil
	}
	return dom.Root()
}

// styleByID looks a style up by its w:styleId.
func (d *Document) styleByID(styleID string) *etree.Element {
	styles := d.stylesRoot()
	if styles == nil {
		return nil
	}
	for _, s := range childrenByTag(styles, "style") {
		if attrValue(s, "styleId") == styleID {
			return s
		}
	}
	return nil
}
