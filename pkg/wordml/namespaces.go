package wordml

// Namespace URIs required by WordprocessingML. These are fixed by the OOXML
// specification and must match exactly for interoperability with Word.
const (
	NamespaceW    = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	NamespaceR    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NamespaceA    = "http://schemas.openxmlformats.org/drawingml/2006/main"
	NamespaceWP   = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	NamespacePic  = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	NamespaceM    = "http://schemas.openxmlformats.org/officeDocument/2006/math"
	NamespaceV    = "urn:schemas-microsoft-com:vml"
	NamespaceMC   = "http://schemas.openxmlformats.org/markup-compatibility/2006"
	NamespaceRels = "http://schemas.openxmlformats.org/package/2006/relationships"
	NamespaceCT   = "http://schemas.openxmlformats.org/package/2006/content-types"
)

// Relationship type URIs.
const (
	RelTypeDocument   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelTypeStyles     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	RelTypeNumbering  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
	RelTypeFootnotes  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footnotes"
	RelTypeEndnotes   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/endnotes"
	RelTypeFontTable  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/fontTable"
	RelTypeSettings   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/settings"
	RelTypeImage      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	RelTypeHyperlink  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	RelTypeChart      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/chart"
	RelTypeCustomProp = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/custom-properties"
)

// Content-type strings for the parts the merge engine routes on.
const (
	ContentTypeDocument    = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ContentTypeStyles      = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ContentTypeNumbering   = "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"
	ContentTypeFootnotes   = "application/vnd.openxmlformats-officedocument.wordprocessingml.footnotes+xml"
	ContentTypeEndnotes    = "application/vnd.openxmlformats-officedocument.wordprocessingml.endnotes+xml"
	ContentTypeFontTable   = "application/vnd.openxmlformats-officedocument.wordprocessingml.fontTable+xml"
	ContentTypeSettings    = "application/vnd.openxmlformats-officedocument.wordprocessingml.settings+xml"
	ContentTypeHeader      = "application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"
	ContentTypeFooter      = "application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"
	ContentTypeCoreProps   = "application/vnd.openxmlformats-package.core-properties+xml"
	ContentTypeExtProps    = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	ContentTypeCustomProps = "application/vnd.openxmlformats-officedocument.custom-properties+xml"
	ContentTypeRels        = "application/vnd.openxmlformats-package.relationships+xml"
)

// Fixed part paths inside the package.
const (
	PartDocument     = "word/document.xml"
	PartStyles       = "word/styles.xml"
	PartNumbering    = "word/numbering.xml"
	PartSettings     = "word/settings.xml"
	PartFootnotes    = "word/footnotes.xml"
	PartEndnotes     = "word/endnotes.xml"
	PartFontTable    = "word/fontTable.xml"
	PartCoreProps    = "docProps/core.xml"
	PartCustomProps  = "docProps/custom.xml"
	PartContentTypes = "[Content_Types].xml"
)
