package wordml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

// Container is the zip-based OOXML package. The whole archive is read into
// memory up front; all subsequent edits operate purely in memory until an
// explicit save. A Container is owned exclusively by one Document.
type Container struct {
	parts map[string][]byte
	order []string // original entry order, new parts appended
}

// OpenContainer reads a zip package fully into memory.
func OpenContainer(r io.ReaderAt, size int64) (*Container, error) {
	zipReader, err := zip.NewReader(r, size)
	if err != nil {
		return nil, NewDocumentError("open", "", fmt.Errorf("failed to read zip file: %w", err))
	}

	c := &Container{
		parts: make(map[string][]byte, len(zipReader.File)),
	}

	for _, file := range zipReader.File {
		rc, err := file.Open()
		if err != nil {
			return nil, NewDocumentError("open", file.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, NewDocumentError("read", file.Name, err)
		}
		c.parts[file.Name] = content
		c.order = append(c.order, file.Name)
	}

	if _, ok := c.parts[PartDocument]; !ok {
		return nil, NewInvalidDocumentError(PartDocument, "missing main document part", nil)
	}

	return c, nil
}

// ContainerFromBytes opens a package from a byte slice.
func ContainerFromBytes(data []byte) (*Container, error) {
	return OpenContainer(bytes.NewReader(data), int64(len(data)))
}

// ContainerFromFile opens a package from a file path.
func ContainerFromFile(filePath string) (*Container, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, NewDocumentError("read", filePath, err)
	}
	return ContainerFromBytes(content)
}

// Part returns the raw bytes of a named part.
func (c *Container) Part(name string) ([]byte, error) {
	data, ok := c.parts[name]
	if !ok {
		return nil, NewDocumentError("lookup", name, fmt.Errorf("part not found"))
	}
	return data, nil
}

// HasPart reports whether the named part exists.
func (c *Container) HasPart(name string) bool {
	_, ok := c.parts[name]
	return ok
}

// SetPart stores raw bytes under the given part name, creating or replacing.
func (c *Container) SetPart(name string, data []byte) {
	if _, ok := c.parts[name]; !ok {
		c.order = append(c.order, name)
	}
	c.parts[name] = data
}

// RemovePart deletes a part if present.
func (c *Container) RemovePart(name string) {
	if _, ok := c.parts[name]; !ok {
		return
	}
	delete(c.parts, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// PartNames returns all part names in stable order: original zip order with
// later additions appended.
func (c *Container) PartNames() []string {
	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}

// Save writes the package as a zip archive. Part bytes are written exactly
// as stored, so an unmodified container round-trips its parts verbatim.
func (c *Container) Save(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, name := range c.order {
		fw, err := zw.Create(name)
		if err != nil {
			return NewDocumentError("save", name, err)
		}
		if _, err := fw.Write(c.parts[name]); err != nil {
			return NewDocumentError("save", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return NewDocumentError("save", "", err)
	}
	return nil
}

// SaveFile writes the package to a file path.
func (c *Container) SaveFile(filePath string) error {
	var buf bytes.Buffer
	if err := c.Save(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(filePath, buf.Bytes(), 0644); err != nil {
		return NewDocumentError("save", filePath, err)
	}
	return nil
}

// relsPathFor converts a part name to its relationships part name.
// e.g. "word/document.xml" -> "word/_rels/document.xml.rels"
func relsPathFor(partName string) string {
	dir := ""
	base := partName
	if idx := strings.LastIndex(partName, "/"); idx != -1 {
		dir = partName[:idx]
		base = partName[idx+1:]
	}
	if dir == "" {
		return fmt.Sprintf("_rels/%s.rels", base)
	}
	return fmt.Sprintf("%s/_rels/%s.rels", dir, base)
}

// resolveTarget resolves a relationship target relative to its source part.
// e.g. source "word/document.xml", target "media/image1.png" -> "word/media/image1.png"
func resolveTarget(sourcePart, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	dir := path.Dir(sourcePart)
	if dir == "." {
		return target
	}
	return path.Clean(path.Join(dir, target))
}

// ContentTypeDefault maps a file extension to a content type.
type ContentTypeDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// ContentTypeOverride maps a specific part name to a content type.
type ContentTypeOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// ContentTypes represents [Content_Types].xml.
type ContentTypes struct {
	XMLName   xml.Name              `xml:"Types"`
	Namespace string                `xml:"xmlns,attr"`
	Defaults  []ContentTypeDefault  `xml:"Default"`
	Overrides []ContentTypeOverride `xml:"Override"`
}

// parseContentTypes parses [Content_Types].xml from a container.
func parseContentTypes(c *Container) (*ContentTypes, error) {
	data, err := c.Part(PartContentTypes)
	if err != nil {
		return nil, NewInvalidDocumentError(PartContentTypes, "missing content types part", err)
	}
	var ct ContentTypes
	if err := xml.Unmarshal(data, &ct); err != nil {
		return nil, NewInvalidDocumentError(PartContentTypes, "failed to parse content types", err)
	}
	return &ct, nil
}

// TypeOf resolves the content type of a part name: overrides win, then
// extension defaults.
func (ct *ContentTypes) TypeOf(partName string) string {
	slash := "/" + partName
	for _, o := range ct.Overrides {
		if o.PartName == slash || o.PartName == partName {
			return o.ContentType
		}
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(partName), "."))
	for _, d := range ct.Defaults {
		if strings.ToLower(d.Extension) == ext {
			return d.ContentType
		}
	}
	return ""
}

// RegisterDefault adds an extension default if not already registered.
func (ct *ContentTypes) RegisterDefault(extension, contentType string) {
	ext := strings.ToLower(extension)
	for _, d := range ct.Defaults {
		if strings.ToLower(d.Extension) == ext {
			return
		}
	}
	ct.Defaults = append(ct.Defaults, ContentTypeDefault{Extension: ext, ContentType: contentType})
}

// RegisterOverride adds or replaces a part override.
func (ct *ContentTypes) RegisterOverride(partName, contentType string) {
	slash := "/" + strings.TrimPrefix(partName, "/")
	for i, o := range ct.Overrides {
		if o.PartName == slash {
			ct.Overrides[i].ContentType = contentType
			return
		}
	}
	ct.Overrides = append(ct.Overrides, ContentTypeOverride{PartName: slash, ContentType: contentType})
}

// Marshal serializes [Content_Types].xml with the XML header Word expects.
func (ct *ContentTypes) Marshal() ([]byte, error) {
	if ct.Namespace == "" {
		ct.Namespace = NamespaceCT
	}
	output, err := xml.Marshal(ct)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal content types: %w", err)
	}
	result := []byte(xmlHeader)
	result = append(result, output...)
	return result, nil
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
