package wordml

import (
	"sort"
	"strconv"

	"github.com/beevik/etree"
)

// numberingRoot returns the w:numbering root element, or nil when the
// package has no numbering part.
func (d *Document) numberingRoot() *etree.Element {
	if !d.HasPart(PartNumbering) {
		return nil
	}
	dom, err := d.Part(PartNumbering)
	if err != nil {
		return nil
	}
	return dom.Root()
}

// mergeNumbering folds source numbering definitions into the destination
// part. Both abstractNumId and numId values are renumbered above the
// destination's current maxima, keeping every num bound to its abstractNum,
// and all numId references in refRoots are rewritten. Returns the appended
// definition elements so the caller can include them in later style
// rewrites.
func (d *Document) mergeNumbering(srcNumbering *etree.Element, refRoots []*etree.Element) ([]*etree.Element, error) {
	destNumbering := d.numberingRoot()
	if destNumbering == nil {
		return nil, NewInvalidDocumentError(PartNumbering, "destination has no numbering part", nil)
	}

	maxAbstract, maxNum := 0, 0
	for _, a := range childrenByTag(destNumbering, "abstractNum") {
		if id := atoiOrZero(attrValue(a, "abstractNumId")); id > maxAbstract {
			maxAbstract = id
		}
	}
	for _, n := range childrenByTag(destNumbering, "num") {
		if id := atoiOrZero(attrValue(n, "numId")); id > maxNum {
			maxNum = id
		}
	}

	var appended []*etree.Element

	// abstractNum definitions must precede num bindings in the part, so
	// insert them before the first existing num.
	insertDefinition := func(def *etree.Element, abstract bool) {
		if !abstract {
			destNumbering.AddChild(def)
			return
		}
		if nums := childrenByTag(destNumbering, "num"); len(nums) > 0 {
			destNumbering.InsertChildAt(nums[0].Index(), def)
			return
		}
		destNumbering.AddChild(def)
	}

	abstractMap := make(map[int]int)
	for _, a := range childrenByTag(srcNumbering, "abstractNum") {
		oldID := atoiOrZero(attrValue(a, "abstractNumId"))
		maxAbstract++
		abstractMap[oldID] = maxAbstract
		clone := a.Copy()
		setAttr(clone, "w:abstractNumId", "abstractNumId", strconv.Itoa(maxAbstract))
		insertDefinition(clone, true)
		appended = append(appended, clone)
	}

	numMap := make(map[int]int)
	for _, n := range childrenByTag(srcNumbering, "num") {
		oldID := atoiOrZero(attrValue(n, "numId"))
		maxNum++
		numMap[oldID] = maxNum
		clone := n.Copy()
		setAttr(clone, "w:numId", "numId", strconv.Itoa(maxNum))
		if ref := childByTag(clone, "abstractNumId"); ref != nil {
			if newID, ok := abstractMap[atoiOrZero(attrValue(ref, "val"))]; ok {
				setAttr(ref, "w:val", "val", strconv.Itoa(newID))
			}
		}
		insertDefinition(clone, false)
		appended = append(appended, clone)
	}

	rewriteNumberingIDs(refRoots, numMap)
	if len(appended) > 0 {
		d.MarkDirty(PartNumbering)
	}
	return appended, nil
}

// sortedKeysDesc returns map keys in descending order.
func sortedKeysDesc(m map[int]bool) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))
	return keys
}
