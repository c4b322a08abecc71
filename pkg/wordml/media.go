package wordml

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// mediaContentTypes maps image file extensions to their content types.
var mediaContentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"webp": "image/webp",
	"emf":  "image/x-emf",
	"wmf":  "image/x-wmf",
	"svg":  "image/svg+xml",
}

// ImageMetrics describes a decoded image's pixel dimensions and format.
type ImageMetrics struct {
	Width  int
	Height int
	Format string
}

// ReadImageMetrics decodes just enough of an image to report its dimensions.
func ReadImageMetrics(data []byte) (ImageMetrics, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageMetrics{}, NewArgumentError("image", "unsupported or corrupt image data")
	}
	return ImageMetrics{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// emuPerPixel converts pixels at the 96 DPI baseline to English Metric
// Units.
const emuPerPixel = 9525

// addMedia stores image bytes under word/media, reusing an existing part
// when an identical binary is already present. Returns the part name.
func (d *Document) addMedia(data []byte, ext string) string {
	sum := sha256.Sum256(data)
	for _, name := range d.container.PartNames() {
		if !strings.HasPrefix(name, "word/media/") {
			continue
		}
		existing, err := d.container.Part(name)
		if err != nil {
			continue
		}
		if sha256.Sum256(existing) == sum {
			return name
		}
	}

	name := d.nextMediaName(ext)
	d.container.SetPart(name, data)
	if ct, ok := mediaContentTypes[strings.ToLower(ext)]; ok {
		d.contentTypes.RegisterDefault(ext, ct)
	}
	return name
}

// nextMediaName mints the next free word/media/imageN.ext name.
func (d *Document) nextMediaName(ext string) string {
	max := 0
	for _, name := range d.container.PartNames() {
		base := path.Base(name)
		if !strings.HasPrefix(name, "word/media/image") {
			continue
		}
		numStr := strings.TrimPrefix(strings.TrimSuffix(base, path.Ext(base)), "image")
		if n, err := strconv.Atoi(numStr); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("word/media/image%d.%s", max+1, ext)
}

// relTargetFor expresses partName as a relationship target relative to
// sourcePart.
func relTargetFor(sourcePart, partName string) string {
	dir := path.Dir(sourcePart)
	if dir != "." && strings.HasPrefix(partName, dir+"/") {
		return strings.TrimPrefix(partName, dir+"/")
	}
	return "/" + partName
}

// importRelationships carries every relationship referenced by the given
// subtrees over from the source package to the destination, rewriting the
// referenced IDs in place. Identical image binaries collapse onto one
// destination part; other internal targets are copied with their own
// relationship trees. A reference with no matching source relationship is
// skipped, not fatal.
func (d *Document) importRelationships(src *Document, part string, roots ...*etree.Element) error {
	ids := make(map[string]bool)
	for _, root := range roots {
		if root == nil {
			continue
		}
		for id := range collectRelationshipIDs(root) {
			ids[id] = true
		}
	}
	if len(ids) == 0 {
		return nil
	}

	srcRels, err := src.Relationships(part)
	if err != nil {
		return err
	}
	destRels, err := d.Relationships(part)
	if err != nil {
		return err
	}

	sorted := make([]string, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	idMap := make(map[string]string)
	copied := make(map[string]string)
	for _, id := range sorted {
		rel := srcRels.ByID(id)
		if rel == nil {
			if GetGlobalConfig().StrictMode {
				return NewInvalidDocumentError(part, "reference "+id+" has no relationship", nil)
			}
			GetLogger().WithFields(Fields{"part": part, "id": id}).Debug("skipping reference with no relationship")
			continue
		}
		switch {
		case rel.TargetMode == "External":
			if existing := destRels.ByTarget(rel.Target); existing != nil && existing.Type == rel.Type {
				idMap[id] = existing.ID
				continue
			}
			idMap[id] = destRels.Add(rel.Type, rel.Target, "External").ID
		case rel.Type == RelTypeImage:
			target := resolveTarget(part, rel.Target)
			data, err := src.container.Part(target)
			if err != nil {
				if GetGlobalConfig().StrictMode {
					return NewInvalidDocumentError(part, "image relationship "+id+" has no binary part", err)
				}
				GetLogger().WithFields(Fields{"part": part, "id": id}).Warn("skipping image with missing binary part")
				continue
			}
			ext := strings.TrimPrefix(path.Ext(target), ".")
			name := d.addMedia(data, ext)
			relTarget := relTargetFor(part, name)
			if existing := destRels.ByTarget(relTarget); existing != nil && existing.Type == RelTypeImage {
				idMap[id] = existing.ID
				continue
			}
			idMap[id] = destRels.Add(RelTypeImage, relTarget, "").ID
		default:
			target := resolveTarget(part, rel.Target)
			newName, err := d.copyPartTree(src, target, copied)
			if err != nil {
				if GetGlobalConfig().StrictMode {
					return NewInvalidDocumentError(part, "relationship "+id+" target cannot be copied", err)
				}
				GetLogger().WithFields(Fields{"part": part, "id": id}).Warn("skipping relationship with uncopyable target")
				continue
			}
			relTarget := relTargetFor(part, newName)
			if existing := destRels.ByTarget(relTarget); existing != nil && existing.Type == rel.Type {
				idMap[id] = existing.ID
				continue
			}
			idMap[id] = destRels.Add(rel.Type, relTarget, "").ID
		}
	}

	for _, root := range roots {
		if root != nil {
			rewriteRelationshipIDs(root, idMap)
		}
	}
	d.markRelsDirty(part)
	return nil
}

// copyPartTree copies a part and, transitively, the internal targets of its
// relationships from the source package. A destination part with the same
// name and identical bytes is reused; a differing one forces a fresh name.
func (d *Document) copyPartTree(src *Document, partName string, copied map[string]string) (string, error) {
	if newName, ok := copied[partName]; ok {
		return newName, nil
	}
	data, err := src.container.Part(partName)
	if err != nil {
		return "", err
	}

	newName := partName
	if d.container.HasPart(partName) {
		existing, err := d.container.Part(partName)
		if err == nil && bytes.Equal(existing, data) {
			copied[partName] = partName
			return partName, nil
		}
		newName = d.variantPartName(partName)
	}
	copied[partName] = newName

	d.container.SetPart(newName, data)
	if ct := src.contentTypes.TypeOf(partName); ct != "" && d.contentTypes.TypeOf(newName) == "" {
		d.contentTypes.RegisterOverride(newName, ct)
	}

	srcRels, err := src.Relationships(partName)
	if err != nil {
		return newName, nil
	}
	if len(srcRels.All()) == 0 {
		return newName, nil
	}
	destRels, err := d.Relationships(newName)
	if err != nil {
		return newName, nil
	}
	for _, rel := range srcRels.All() {
		if rel.TargetMode == "External" {
			destRels.Add(rel.Type, rel.Target, "External")
			continue
		}
		childName, err := d.copyPartTree(src, resolveTarget(partName, rel.Target), copied)
		if err != nil {
			continue
		}
		destRels.Add(rel.Type, relTargetFor(newName, childName), "")
	}
	d.markRelsDirty(newName)
	return newName, nil
}

// variantPartName mints an unused name next to partName, e.g.
// word/charts/chart1.xml -> word/charts/chart1_1.xml.
func (d *Document) variantPartName(partName string) string {
	ext := path.Ext(partName)
	stem := strings.TrimSuffix(partName, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if !d.container.HasPart(candidate) {
			return candidate
		}
	}
}

// InsertImage appends an inline picture to the paragraph, sized from the
// image's pixel dimensions at the 96 DPI baseline. Identical binaries reuse
// the existing media part.
func (p *Paragraph) InsertImage(data []byte, name string) error {
	metrics, err := ReadImageMetrics(data)
	if err != nil {
		return err
	}
	ext := metrics.Format
	if ext == "jpeg" {
		ext = "jpg"
	}
	d := p.doc
	partName := d.addMedia(data, ext)

	rels, err := d.Relationships(PartDocument)
	if err != nil {
		return err
	}
	relTarget := relTargetFor(PartDocument, partName)
	var relID string
	if existing := rels.ByTarget(relTarget); existing != nil && existing.Type == RelTypeImage {
		relID = existing.ID
	} else {
		relID = rels.Add(RelTypeImage, relTarget, "").ID
		d.markRelsDirty(PartDocument)
	}

	cx := metrics.Width * emuPerPixel
	cy := metrics.Height * emuPerPixel
	p.el.AddChild(buildInlineImage(d.takeDocPrID(), name, relID, cx, cy))
	p.markEdited()
	return nil
}

func buildInlineImage(docPrID int, name, relID string, cx, cy int) *etree.Element {
	run := etree.NewElement("w:r")
	drawing := run.CreateElement("w:drawing")
	inline := drawing.CreateElement("wp:inline")

	extent := inline.CreateElement("wp:extent")
	extent.CreateAttr("cx", strconv.Itoa(cx))
	extent.CreateAttr("cy", strconv.Itoa(cy))

	docPr := inline.CreateElement("wp:docPr")
	docPr.CreateAttr("id", strconv.Itoa(docPrID))
	docPr.CreateAttr("name", name)

	graphic := inline.CreateElement("a:graphic")
	graphic.CreateAttr("xmlns:a", NamespaceA)
	graphicData := graphic.CreateElement("a:graphicData")
	graphicData.CreateAttr("uri", NamespacePic)

	pic := graphicData.CreateElement("pic:pic")
	pic.CreateAttr("xmlns:pic", NamespacePic)

	nvPicPr := pic.CreateElement("pic:nvPicPr")
	cNvPr := nvPicPr.CreateElement("pic:cNvPr")
	cNvPr.CreateAttr("id", strconv.Itoa(docPrID))
	cNvPr.CreateAttr("name", name)
	nvPicPr.CreateElement("pic:cNvPicPr")

	blipFill := pic.CreateElement("pic:blipFill")
	blip := blipFill.CreateElement("a:blip")
	blip.CreateAttr("r:embed", relID)
	blipFill.CreateElement("a:stretch").CreateElement("a:fillRect")

	spPr := pic.CreateElement("pic:spPr")
	xfrm := spPr.CreateElement("a:xfrm")
	off := xfrm.CreateElement("a:off")
	off.CreateAttr("x", "0")
	off.CreateAttr("y", "0")
	ext := xfrm.CreateElement("a:ext")
	ext.CreateAttr("cx", strconv.Itoa(cx))
	ext.CreateAttr("cy", strconv.Itoa(cy))
	prstGeom := spPr.CreateElement("a:prstGeom")
	prstGeom.CreateAttr("prst", "rect")
	prstGeom.CreateElement("a:avLst")

	return run
}
