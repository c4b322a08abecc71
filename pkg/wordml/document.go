package wordml

import (
	"bytes"
	"io"
	"os"
	"os/user"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Document is the in-memory object model of one WordprocessingML package.
// It owns its Container exclusively: lifecycle is open, mutate, save, close.
// XML parts are parsed once and cached for the lifetime of the Document.
//
// All operations are synchronous and single-threaded. ID counters are
// per-document state initialized from a one-time scan at load, so no
// process-wide state or locking is involved.
type Document struct {
	container    *Container
	contentTypes *ContentTypes
	domParts     map[string]*etree.Document
	rels         map[string]*RelationshipSet
	dirty        map[string]bool
	dirtyRels    map[string]bool
	indexes      map[*etree.Element]*paragraphIndex

	nextChangeID   int
	nextBookmarkID int
	nextDocPrID    int

	author         string
	authorResolved bool

	closed bool
}

var headerFooterPartRe = regexp.MustCompile(`^word/(header|footer)\d+\.xml$`)

// Open reads a package from an io.Reader and builds the object model.
// The entire package is buffered into memory before any XML parsing begins.
func Open(r io.Reader) (*Document, error) {
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, NewDocumentError("read", "", err)
	}
	return OpenBytes(buf.Bytes())
}

// OpenBytes builds the object model from package bytes.
func OpenBytes(data []byte) (*Document, error) {
	container, err := ContainerFromBytes(data)
	if err != nil {
		return nil, err
	}
	return newDocument(container)
}

// OpenFile builds the object model from a package on disk.
func OpenFile(path string) (*Document, error) {
	container, err := ContainerFromFile(path)
	if err != nil {
		return nil, err
	}
	return newDocument(container)
}

func newDocument(container *Container) (*Document, error) {
	contentTypes, err := parseContentTypes(container)
	if err != nil {
		return nil, err
	}

	d := &Document{
		container:    container,
		contentTypes: contentTypes,
		domParts:     make(map[string]*etree.Document),
		rels:         make(map[string]*RelationshipSet),
		dirty:        make(map[string]bool),
		dirtyRels:    make(map[string]bool),
		indexes:      make(map[*etree.Element]*paragraphIndex),
	}

	// Parse the main document eagerly; a document without a locatable body
	// is unsafe to edit and aborts the load.
	if _, err := d.Body(); err != nil {
		return nil, err
	}

	d.scanIdentifiers()
	return d, nil
}

// Part returns the parsed XML document for a part path, parsing and caching
// on first access. Parts containing a DTD subset with external entity
// declarations are rejected outright.
func (d *Document) Part(name string) (*etree.Document, error) {
	if dom, ok := d.domParts[name]; ok {
		return dom, nil
	}

	raw, err := d.container.Part(name)
	if err != nil {
		return nil, err
	}

	if err := checkEntityDeclarations(name, raw); err != nil {
		return nil, err
	}

	dom := etree.NewDocument()
	if err := dom.ReadFromBytes(raw); err != nil {
		return nil, NewInvalidDocumentError(name, "failed to parse part", err)
	}

	d.domParts[name] = dom
	return dom, nil
}

// HasPart reports whether the package contains the named part.
func (d *Document) HasPart(name string) bool {
	return d.container.HasPart(name)
}

// Relationships returns the relationship set of the given source part,
// parsing and caching on first access.
func (d *Document) Relationships(sourcePart string) (*RelationshipSet, error) {
	if rs, ok := d.rels[sourcePart]; ok {
		return rs, nil
	}
	rs, err := parseRelationshipSet(d.container, sourcePart)
	if err != nil {
		return nil, err
	}
	d.rels[sourcePart] = rs
	return rs, nil
}

// MarkDirty marks a part as modified so Save re-serializes it from its DOM.
func (d *Document) MarkDirty(name string) {
	d.dirty[name] = true
}

// markRelsDirty marks a part's relationship set as modified.
func (d *Document) markRelsDirty(sourcePart string) {
	d.dirtyRels[sourcePart] = true
}

// Body returns the w:body element of the main document part.
func (d *Document) Body() (*etree.Element, error) {
	dom, err := d.Part(PartDocument)
	if err != nil {
		return nil, err
	}
	root := dom.Root()
	if root == nil || root.Tag != "document" {
		return nil, NewInvalidDocumentError(PartDocument, "missing document root element", nil)
	}
	body := childByTag(root, "body")
	if body == nil {
		return nil, NewInvalidDocumentError(PartDocument, "missing document body", nil)
	}
	return body, nil
}

// Paragraphs returns handles for the direct body paragraphs in order.
func (d *Document) Paragraphs() ([]*Paragraph, error) {
	body, err := d.Body()
	if err != nil {
		return nil, err
	}
	var out []*Paragraph
	for _, c := range childrenByTag(body, "p") {
		out = append(out, &Paragraph{doc: d, el: c, container: body})
	}
	return out, nil
}

// Text returns the flattened text of the document body, one line per
// paragraph.
func (d *Document) Text() (string, error) {
	body, err := d.Body()
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for i, p := range childrenByTag(body, "p") {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(flattenText(p))
	}
	return sb.String(), nil
}

// Save serializes the package to w. Dirty parts are re-serialized from
// their DOM; everything else is written byte-for-byte as loaded.
func (d *Document) Save(w io.Writer) error {
	for name := range d.dirty {
		dom, ok := d.domParts[name]
		if !ok {
			return NewDocumentError("save", name, nil)
		}
		data, err := dom.WriteToBytes()
		if err != nil {
			return NewDocumentError("save", name, err)
		}
		d.container.SetPart(name, data)
	}

	for source := range d.dirtyRels {
		rs, ok := d.rels[source]
		if !ok {
			continue
		}
		if err := rs.write(d.container); err != nil {
			return err
		}
	}

	if len(d.dirty) > 0 || len(d.dirtyRels) > 0 {
		data, err := d.contentTypes.Marshal()
		if err != nil {
			return NewDocumentError("save", PartContentTypes, err)
		}
		d.container.SetPart(PartContentTypes, data)
	}

	return d.container.Save(w)
}

// SaveFile serializes the package to a file path.
func (d *Document) SaveFile(path string) error {
	var buf bytes.Buffer
	if err := d.Save(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return NewDocumentError("save", path, err)
	}
	return nil
}

// Close releases the object model. The Document must not be used afterwards.
func (d *Document) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.domParts = nil
	d.rels = nil
	d.indexes = nil
	d.container = nil
	return nil
}

// SetAuthor overrides the tracked-change author identity for this document.
func (d *Document) SetAuthor(author string) {
	d.author = author
	d.authorResolved = true
}

// Author resolves the tracked-change author: explicit override, then config,
// then the OS user. Failure to resolve is a best-effort degradation: edits
// proceed with an author-less marker.
func (d *Document) Author() string {
	if d.authorResolved {
		return d.author
	}
	d.authorResolved = true

	if cfg := GetGlobalConfig(); cfg.Author != "" {
		d.author = cfg.Author
		return d.author
	}

	u, err := user.Current()
	if err != nil {
		GetLogger().Warn("could not resolve current user for tracked changes: %v", err)
		d.author = ""
		return d.author
	}
	if u.Name != "" {
		d.author = u.Name
	} else {
		d.author = u.Username
	}
	return d.author
}

// headerFooterParts lists header and footer part names in sorted order.
func (d *Document) headerFooterParts() []string {
	var names []string
	for _, name := range d.container.PartNames() {
		if headerFooterPartRe.MatchString(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// scanIdentifiers initializes the per-document ID counters from the existing
// content: tracked-change IDs, bookmark IDs and docPr IDs across the body
// and all headers and footers.
func (d *Document) scanIdentifiers() {
	maxChange, maxBookmark, maxDocPr := 0, 0, 0

	scan := func(root *etree.Element) {
		walkElements(root, func(e *etree.Element) bool {
			switch e.Tag {
			case "ins", "del":
				if id, err := strconv.Atoi(attrValue(e, "id")); err == nil && id > maxChange {
					maxChange = id
				}
			case "bookmarkStart", "bookmarkEnd":
				if id, err := strconv.Atoi(attrValue(e, "id")); err == nil && id > maxBookmark {
					maxBookmark = id
				}
			case "docPr":
				if id, err := strconv.Atoi(attrValue(e, "id")); err == nil && id > maxDocPr {
					maxDocPr = id
				}
			}
			return true
		})
	}

	if body, err := d.Body(); err == nil {
		scan(body)
	}
	for _, name := range d.headerFooterParts() {
		if dom, err := d.Part(name); err == nil && dom.Root() != nil {
			scan(dom.Root())
		}
	}

	d.nextChangeID = maxChange + 1
	d.nextBookmarkID = maxBookmark + 1
	d.nextDocPrID = maxDocPr + 1
}

// takeChangeID returns the next tracked-change ID and advances the counter.
func (d *Document) takeChangeID() int {
	id := d.nextChangeID
	d.nextChangeID++
	return id
}

// takeBookmarkID returns the next bookmark ID and advances the counter.
func (d *Document) takeBookmarkID() int {
	id := d.nextBookmarkID
	d.nextBookmarkID++
	return id
}

// takeDocPrID returns the next drawing-object ID and advances the counter.
func (d *Document) takeDocPrID() int {
	id := d.nextDocPrID
	d.nextDocPrID++
	return id
}

// checkEntityDeclarations rejects parts whose DTD subset declares external
// entities, to avoid entity-expansion attacks.
func checkEntityDeclarations(name string, raw []byte) error {
	doctype := bytes.Index(raw, []byte("<!DOCTYPE"))
	if doctype == -1 {
		return nil
	}
	rest := raw[doctype:]
	if bytes.Contains(rest, []byte("<!ENTITY")) &&
		(bytes.Contains(rest, []byte("SYSTEM")) || bytes.Contains(rest, []byte("PUBLIC"))) {
		return NewInvalidDocumentError(name, "external entity declarations are not allowed", nil)
	}
	return nil
}
