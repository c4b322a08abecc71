package wordml

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/beevik/etree"
)

// InsertOptions controls InsertText.
type InsertOptions struct {
	// TrackChanges wraps the inserted content in a revision marker instead
	// of inserting it as plain content.
	TrackChanges bool
	// Formatting is applied to the inserted runs. The zero value inherits
	// whatever the insertion point dictates.
	Formatting Formatting
}

// RemoveOptions controls RemoveText.
type RemoveOptions struct {
	// TrackChanges re-tags the removed content as a deletion revision
	// instead of deleting it.
	TrackChanges bool
	// KeepEmptyParagraph leaves a paragraph in place even when the removal
	// empties it.
	KeepEmptyParagraph bool
}

// ReplaceOptions controls ReplaceText.
type ReplaceOptions struct {
	// Literal escapes the pattern so it matches verbatim instead of as a
	// regular expression.
	Literal bool
	// FirstOnly stops after the first match in document order.
	FirstOnly bool
	// Formatting, when non-nil, restricts replacement to matches whose
	// resolved formatting equals the descriptor.
	Formatting *Formatting
	// SubsetMatch relaxes the formatting filter to subset matching: every
	// property set in the descriptor must hold, unset ones are ignored.
	SubsetMatch bool
	// Transform, when non-nil, computes the replacement from the matched
	// text, overriding the literal replacement string.
	Transform func(match string) string
	// TrackChanges records the replacement as tracked insert and delete
	// revisions.
	TrackChanges bool
}

// newRun builds a w:r carrying the given formatting and text. Newlines
// become line breaks and tabs become tab elements.
func newRun(text string, f Formatting) *etree.Element {
	r := etree.NewElement("w:r")
	if rPr := buildRunProperties(f); rPr != nil {
		r.AddChild(rPr)
	}
	flush := func(s string) {
		if s == "" {
			return
		}
		t := r.CreateElement("w:t")
		if strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
			t.CreateAttr("xml:space", "preserve")
		}
		t.SetText(s)
	}
	var buf strings.Builder
	for _, c := range text {
		switch c {
		case '\n':
			flush(buf.String())
			buf.Reset()
			r.CreateElement("w:br")
		case '\t':
			flush(buf.String())
			buf.Reset()
			r.CreateElement("w:tab")
		default:
			buf.WriteRune(c)
		}
	}
	flush(buf.String())
	return r
}

// InsertText inserts text at a character offset within the paragraph.
// Offset 0 is before the first character and Length() is after the last;
// anything outside that range is a range error.
func (p *Paragraph) InsertText(offset int, text string, opts InsertOptions) error {
	if text == "" {
		return nil
	}
	length := textLength(p.el)
	if offset < 0 || offset > length {
		return NewRangeError("insert text", offset, length)
	}

	run := newRun(text, opts.Formatting)
	now := time.Now()

	if length == 0 {
		content := run
		if opts.TrackChanges {
			wrapper := p.doc.newChangeWrapper("ins", now)
			wrapper.AddChild(run)
			content = wrapper
		}
		p.el.InsertChildAt(indexAfterProperties(p.el), content)
		p.markEdited()
		return nil
	}

	child, start, err := childAtOffset(p.el, offset)
	if err != nil {
		return err
	}
	local := offset - start

	if opts.TrackChanges {
		date := changeTimestamp(now)
		target, targetLocal := child, local
		if local == 0 && !sameRevision(target, p.doc.Author(), date) {
			// A seam offset resolves to the following child; the revision
			// to grow may be the one ending exactly here.
			if prev := childBefore(p.el, child); prev != nil && prev.Tag == "ins" {
				target, targetLocal = prev, textLength(prev)
			}
		}
		if target.Tag == "ins" && sameRevision(target, p.doc.Author(), date) {
			// Same author, same minute: grow the existing revision
			// instead of opening a new one.
			if err := insertIntoWrapper(target, targetLocal, run); err != nil {
				return err
			}
			p.markEdited()
			return nil
		}
	}

	left, right, err := splitInline(child, local)
	if err != nil {
		return err
	}
	content := run
	if opts.TrackChanges {
		wrapper := p.doc.newChangeWrapper("ins", now)
		wrapper.AddChild(run)
		content = wrapper
	}
	replaceChild(p.el, child, left, content, right)
	p.markEdited()
	return nil
}

// insertIntoWrapper splits the wrapper's inner run at a wrapper-local offset
// and places the new run between the halves, all inside the wrapper.
func insertIntoWrapper(wrapper *etree.Element, local int, run *etree.Element) error {
	inner, start, err := childAtOffset(wrapper, local)
	if err != nil {
		return err
	}
	left, right, err := splitInline(inner, local-start)
	if err != nil {
		return err
	}
	replaceChild(wrapper, inner, left, run, right)
	return nil
}

// RemoveText removes count characters starting at offset. With tracking the
// content is re-tagged as a deletion revision and keeps occupying offsets;
// without, it is deleted physically. An emptied paragraph is removed unless
// the options keep it or its position forbids removal.
func (p *Paragraph) RemoveText(offset, count int, opts RemoveOptions) error {
	length := textLength(p.el)
	if offset < 0 || count < 0 || offset+count > length {
		return NewRangeError("remove text", offset, length)
	}
	if count == 0 {
		return nil
	}

	now := time.Now()
	remaining := count
	for remaining > 0 {
		child, start, err := childAtOffset(p.el, offset)
		if err != nil {
			return err
		}
		local := offset - start
		avail := textLength(child) - local
		consume := remaining
		if avail < consume {
			consume = avail
		}
		if consume <= 0 {
			// A zero-length node can make no progress; bail out
			// rather than spin.
			return NewInvalidDocumentError(PartDocument, "no progress removing text", nil)
		}

		left, rest, err := splitInline(child, local)
		if err != nil {
			return err
		}
		mid, right, err := splitInline(rest, consume)
		if err != nil {
			return err
		}

		switch {
		case !opts.TrackChanges:
			replaceChild(p.el, child, left, right)
		case mid == nil:
			replaceChild(p.el, child, left, right)
		case mid.Tag == "del":
			// Already a tracked deletion: keep it and step past.
			replaceChild(p.el, child, left, mid, right)
			offset += consume
		case mid.Tag == "ins":
			// Deleting a pending insertion undoes it outright.
			replaceChild(p.el, child, left, right)
		default:
			markRunDeleted(mid)
			wrapper := p.doc.newChangeWrapper("del", now)
			wrapper.AddChild(mid)
			replaceChild(p.el, child, left, wrapper, right)
			offset += consume
		}
		remaining -= consume
	}

	p.markEdited()
	if !opts.KeepEmptyParagraph && p.canRemove() {
		p.Remove()
	}
	return nil
}

// ReplaceText replaces pattern matches within the paragraph and returns the
// number of replacements made. Matches are processed in reverse document
// order so earlier offsets stay valid while later ones are rewritten.
func (p *Paragraph) ReplaceText(pattern, replacement string, opts ReplaceOptions) (int, error) {
	re, err := compilePattern(pattern, opts.Literal)
	if err != nil {
		return 0, err
	}
	return p.replaceMatches(re, replacement, opts)
}

// ReplaceText replaces pattern matches across every body paragraph and
// returns the total number of replacements.
func (d *Document) ReplaceText(pattern, replacement string, opts ReplaceOptions) (int, error) {
	re, err := compilePattern(pattern, opts.Literal)
	if err != nil {
		return 0, err
	}
	paras, err := d.Paragraphs()
	if err != nil {
		return 0, err
	}
	total := 0
	for _, p := range paras {
		n, err := p.replaceMatches(re, replacement, opts)
		if err != nil {
			return total, err
		}
		total += n
		if opts.FirstOnly && total > 0 {
			break
		}
	}
	return total, nil
}

func compilePattern(pattern string, literal bool) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, NewArgumentError("pattern", "must not be empty")
	}
	if literal {
		pattern = regexp.QuoteMeta(pattern)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, NewArgumentError("pattern", err.Error())
	}
	return re, nil
}

func (p *Paragraph) replaceMatches(re *regexp.Regexp, replacement string, opts ReplaceOptions) (int, error) {
	text := p.Text()
	matches := re.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return 0, nil
	}
	if opts.FirstOnly {
		matches = matches[:1]
	}

	count := 0
	for i := len(matches) - 1; i >= 0; i-- {
		start := utf8.RuneCountInString(text[:matches[i][0]])
		end := utf8.RuneCountInString(text[:matches[i][1]])
		if opts.Formatting != nil && !p.matchesFormatting(start, *opts.Formatting, opts.SubsetMatch) {
			continue
		}
		matched := text[matches[i][0]:matches[i][1]]
		newText := replacement
		if opts.Transform != nil {
			newText = opts.Transform(matched)
		}
		// Insert at the match end first so the removal offsets below
		// are untouched.
		insOpts := InsertOptions{TrackChanges: opts.TrackChanges}
		if opts.Formatting != nil {
			insOpts.Formatting = *opts.Formatting
		}
		if err := p.InsertText(end, newText, insOpts); err != nil {
			return count, err
		}
		rmOpts := RemoveOptions{TrackChanges: opts.TrackChanges, KeepEmptyParagraph: true}
		if err := p.RemoveText(start, end-start, rmOpts); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// matchesFormatting reports whether the resolved formatting at offset
// satisfies the descriptor.
func (p *Paragraph) matchesFormatting(offset int, want Formatting, subset bool) bool {
	run := p.runAt(offset)
	if run == nil {
		return false
	}
	have := p.doc.ResolveFormatting(run, p)
	if subset {
		return have.Contains(want)
	}
	return have.Equals(want)
}

// runAt returns the run containing the character at offset, or nil.
func (p *Paragraph) runAt(offset int) *etree.Element {
	leaf, _, err := leafAt(p.el, offset, DeleteMode)
	if err != nil {
		return nil
	}
	for e := leaf.Parent(); e != nil && e != p.el; e = e.Parent() {
		if e.Tag == "r" {
			return e
		}
	}
	return nil
}

// FormattingAt returns the resolved formatting of the character at offset.
func (p *Paragraph) FormattingAt(offset int) (Formatting, error) {
	length := textLength(p.el)
	if offset < 0 || offset >= length {
		return Formatting{}, NewRangeError("formatting lookup", offset, length)
	}
	run := p.runAt(offset)
	if run == nil {
		return Formatting{}, nil
	}
	return p.doc.ResolveFormatting(run, p), nil
}

// canRemove reports whether the paragraph may be deleted outright: it holds
// no text, no anchored content such as drawings, and removing it would not
// leave a table cell without its required paragraph.
func (p *Paragraph) canRemove() bool {
	if textLength(p.el) != 0 {
		return false
	}
	anchored := false
	walkElements(p.el, func(e *etree.Element) bool {
		switch e.Tag {
		case "drawing", "pict", "object":
			anchored = true
			return false
		}
		return true
	})
	if anchored {
		return false
	}
	if p.inTableCell() {
		// A table cell must end with a paragraph.
		if len(childrenByTag(p.el.Parent(), "p")) <= 1 {
			return false
		}
	}
	return true
}

func (p *Paragraph) markEdited() {
	p.doc.indexFor(p.container).MarkDirty()
	p.doc.MarkDirty(PartDocument)
}
