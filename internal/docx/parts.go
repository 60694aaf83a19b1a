package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
)

// Relationship types used by the package.
const (
	relTypeDocument  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeStyles    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relTypeNumbering = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
	relTypeHeader    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	relTypeFooter    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
	relTypeImage     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

// bulletNumID is the numbering definition bulleted list paragraphs
// reference (see numberingXML).
const bulletNumID = 1

// relationship is one entry in a .rels part.
type relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// relationships is the root of a .rels part.
type relationships struct {
	XMLName   xml.Name `xml:"Relationships"`
	Namespace string   `xml:"xmlns,attr"`
	Rels      []relationship
}

// newRelationships returns an empty relationship set.
func newRelationships() *relationships {
	return &relationships{
		Namespace: "http://schemas.openxmlformats.org/package/2006/relationships",
	}
}

// add appends a relationship and returns its generated id.
func (r *relationships) add(relType, target string) string {
	id := fmt.Sprintf("rId%d", len(r.Rels)+1)
	r.Rels = append(r.Rels, relationship{ID: id, Type: relType, Target: target})
	return id
}

// contentTypeDefault maps a file extension to a content type.
type contentTypeDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// contentTypeOverride maps an exact part name to a content type.
type contentTypeOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// contentTypes is the [Content_Types].xml root.
type contentTypes struct {
	XMLName   xml.Name              `xml:"Types"`
	Namespace string                `xml:"xmlns,attr"`
	Defaults  []contentTypeDefault  `xml:"Default"`
	Overrides []contentTypeOverride `xml:"Override"`
}

// newContentTypes returns the content type map with the fixed parts
// registered; header/footer/media entries are added during assembly.
func newContentTypes() *contentTypes {
	return &contentTypes{
		Namespace: "http://schemas.openxmlformats.org/package/2006/content-types",
		Defaults: []contentTypeDefault{
			{Extension: "rels", ContentType: "application/vnd.openxmlformats-package.relationships+xml"},
			{Extension: "xml", ContentType: "application/xml"},
		},
		Overrides: []contentTypeOverride{
			{PartName: "/word/document.xml", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"},
			{PartName: "/word/styles.xml", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"},
			{PartName: "/word/numbering.xml", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"},
		},
	}
}

// addOverride registers a part-specific content type.
func (c *contentTypes) addOverride(partName, contentType string) {
	c.Overrides = append(c.Overrides, contentTypeOverride{PartName: partName, ContentType: contentType})
}

// addDefault registers an extension content type once.
func (c *contentTypes) addDefault(ext, contentType string) {
	for _, d := range c.Defaults {
		if d.Extension == ext {
			return
		}
	}
	c.Defaults = append(c.Defaults, contentTypeDefault{Extension: ext, ContentType: contentType})
}

// stylesXML defines the minimal style set: document defaults plus the
// list paragraph style bulleted items reference.
const stylesXML = xmlHeader + `<w:styles xmlns:w="` + nsW + `">
<w:docDefaults>
<w:rPrDefault><w:rPr><w:sz w:val="22"/><w:szCs w:val="22"/></w:rPr></w:rPrDefault>
<w:pPrDefault><w:pPr><w:spacing w:after="120"/></w:pPr></w:pPrDefault>
</w:docDefaults>
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
<w:style w:type="paragraph" w:styleId="ListParagraph">
<w:name w:val="List Paragraph"/>
<w:basedOn w:val="Normal"/>
<w:pPr><w:ind w:left="720"/></w:pPr>
</w:style>
</w:styles>
`

// numberingXML defines one bullet list numbering (numId 1).
const numberingXML = xmlHeader + `<w:numbering xmlns:w="` + nsW + `">
<w:abstractNum w:abstractNumId="0">
<w:multiLevelType w:val="singleLevel"/>
<w:lvl w:ilvl="0">
<w:start w:val="1"/>
<w:numFmt w:val="bullet"/>
<w:lvlText w:val="&#8226;"/>
<w:lvlJc w:val="left"/>
<w:pPr><w:ind w:left="720" w:hanging="360"/></w:pPr>
</w:lvl>
</w:abstractNum>
<w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>
</w:numbering>
`

// part is one file in the package, kept in a slice so the archive is
// written in a fixed order (deterministic output).
type part struct {
	name string
	data []byte
}

// marshalPart renders v as a standalone XML part.
func marshalPart(v any) ([]byte, error) {
	body, err := xml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling part: %w", err)
	}
	out := make([]byte, 0, len(xmlHeader)+len(body))
	out = append(out, xmlHeader...)
	out = append(out, body...)
	return out, nil
}

// writePackage writes all parts into a zip archive. File headers carry
// no timestamps, so identical parts always produce identical bytes.
func writePackage(parts []part) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	for _, p := range parts {
		fw, err := w.CreateHeader(&zip.FileHeader{
			Name:   p.name,
			Method: zip.Deflate,
		})
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", p.name, err)
		}
		if _, err := fw.Write(p.data); err != nil {
			return nil, fmt.Errorf("writing %s: %w", p.name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing package: %w", err)
	}
	return buf.Bytes(), nil
}
