package docx

import "encoding/xml"

// Wordprocessing namespaces used across document parts.
const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	nsV   = "urn:schemas-microsoft-com:vml"
	nsO   = "urn:schemas-microsoft-com:office:office"
)

// xmlHeader is prepended to every marshaled part.
const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// valAttr is the common <w:x w:val="..."/> leaf element.
type valAttr struct {
	Val string `xml:"w:val,attr"`
}

// emptyElem marshals as an empty element (e.g. <w:b/>). A nil pointer
// omits it.
type emptyElem struct{}

// rawXML injects pre-rendered markup verbatim into the enclosing
// element (drawings and VML shapes are built as strings).
type rawXML struct {
	Inner string `xml:",innerxml"`
}

// document is the word/document.xml root.
type document struct {
	XMLName  xml.Name `xml:"w:document"`
	XMLNSW   string   `xml:"xmlns:w,attr"`
	XMLNSR   string   `xml:"xmlns:r,attr"`
	XMLNSWP  string   `xml:"xmlns:wp,attr"`
	XMLNSA   string   `xml:"xmlns:a,attr"`
	XMLNSPic string   `xml:"xmlns:pic,attr"`
	XMLNSV   string   `xml:"xmlns:v,attr"`
	XMLNSO   string   `xml:"xmlns:o,attr"`
	Body     body     `xml:"w:body"`
}

// newDocument returns a document root with all namespaces declared.
func newDocument() document {
	return document{
		XMLNSW:   nsW,
		XMLNSR:   nsR,
		XMLNSWP:  nsWP,
		XMLNSA:   nsA,
		XMLNSPic: nsPic,
		XMLNSV:   nsV,
		XMLNSO:   nsO,
	}
}

// bodyElement is either a paragraph or a table, kept in document order.
type bodyElement interface {
	isBodyElement()
}

func (paragraph) isBodyElement() {}
func (table) isBodyElement()     {}

// body holds the ordered block elements plus the final section
// properties (OOXML stores the last section's sectPr on the body; all
// earlier sections carry theirs on a trailing paragraph).
type body struct {
	Elements []bodyElement
	SectPr   *sectPr
}

// MarshalXML writes elements in order followed by the body-level sectPr.
func (b body) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:body"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, el := range b.Elements {
		if err := e.Encode(el); err != nil {
			return err
		}
	}
	if b.SectPr != nil {
		if err := e.Encode(b.SectPr); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// paragraph is a w:p element.
type paragraph struct {
	XMLName xml.Name   `xml:"w:p"`
	Props   *paraProps `xml:"w:pPr"`
	Runs    []run
}

// paraProps is w:pPr. Field order follows the OOXML child sequence.
type paraProps struct {
	Style   *valAttr  `xml:"w:pStyle"`
	NumPr   *numPr    `xml:"w:numPr"`
	Justify *valAttr  `xml:"w:jc"`
	RunPr   *runProps `xml:"w:rPr"`
	SectPr  *sectPr   `xml:"w:sectPr"`
}

// numPr binds a paragraph to a numbering definition (bulleted lists).
type numPr struct {
	Ilvl  intAttr `xml:"w:ilvl"`
	NumID intAttr `xml:"w:numId"`
}

// intAttr is a <w:x w:val="n"/> leaf with an integer value.
type intAttr struct {
	Val int `xml:"w:val,attr"`
}

// run is a w:r element: formatted text, an inline drawing, or a VML
// picture (watermarks).
type run struct {
	XMLName xml.Name  `xml:"w:r"`
	Props   *runProps `xml:"w:rPr"`
	Text    *text     `xml:"w:t"`
	Drawing *rawXML   `xml:"w:drawing"`
	Pict    *rawXML   `xml:"w:pict"`
}

// runProps is w:rPr.
type runProps struct {
	Bold   *emptyElem `xml:"w:b"`
	Color  *valAttr   `xml:"w:color"`
	Size   *valAttr   `xml:"w:sz"`   // half-points
	SizeCs *valAttr   `xml:"w:szCs"` // complex-script size, kept equal
}

// text is w:t. Space is set to "preserve" so leading/trailing spaces
// survive round-trips through Word.
type text struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Value string `xml:",chardata"`
}

// newText returns a space-preserving w:t.
func newText(s string) *text {
	return &text{Space: "preserve", Value: s}
}

// table is a w:tbl element.
type table struct {
	XMLName xml.Name `xml:"w:tbl"`
	Props   tblProps `xml:"w:tblPr"`
	Grid    tblGrid  `xml:"w:tblGrid"`
	Rows    []tableRow
}

// tblProps is w:tblPr.
type tblProps struct {
	Width   tblWidth    `xml:"w:tblW"`
	Borders *tblBorders `xml:"w:tblBorders"`
}

// tblWidth is a width specification (w:tblW / w:tcW).
type tblWidth struct {
	W    int    `xml:"w:w,attr"`
	Type string `xml:"w:type,attr"`
}

// tblBorders draws single lines on all edges.
type tblBorders struct {
	Top     borderEdge `xml:"w:top"`
	Left    borderEdge `xml:"w:left"`
	Bottom  borderEdge `xml:"w:bottom"`
	Right   borderEdge `xml:"w:right"`
	InsideH borderEdge `xml:"w:insideH"`
	InsideV borderEdge `xml:"w:insideV"`
}

type borderEdge struct {
	Val   string `xml:"w:val,attr"`
	Sz    int    `xml:"w:sz,attr"`
	Color string `xml:"w:color,attr"`
}

// singleBorders returns thin single-line borders on all edges.
func singleBorders() *tblBorders {
	edge := borderEdge{Val: "single", Sz: 4, Color: "333333"}
	return &tblBorders{
		Top: edge, Left: edge, Bottom: edge, Right: edge,
		InsideH: edge, InsideV: edge,
	}
}

// tblGrid declares the column widths.
type tblGrid struct {
	Cols []gridCol `xml:"w:gridCol"`
}

type gridCol struct {
	W int `xml:"w:w,attr"`
}

// tableRow is w:tr.
type tableRow struct {
	XMLName xml.Name `xml:"w:tr"`
	Cells   []tableCell
}

// tableCell is w:tc. A cell always contains at least one paragraph.
type tableCell struct {
	XMLName xml.Name `xml:"w:tc"`
	Props   tcProps  `xml:"w:tcPr"`
	Paras   []paragraph
}

type tcProps struct {
	Width tblWidth `xml:"w:tcW"`
}

// sectPr carries one section's layout: header/footer references, break
// type, page size, and margins. Field order follows the OOXML sequence.
type sectPr struct {
	XMLName   xml.Name   `xml:"w:sectPr"`
	HeaderRef *partRef   `xml:"w:headerReference"`
	FooterRef *partRef   `xml:"w:footerReference"`
	Type      *valAttr   `xml:"w:type"`
	PgSz      pageSize   `xml:"w:pgSz"`
	PgMar     pageMargin `xml:"w:pgMar"`
}

// partRef points a section at a header or footer part.
type partRef struct {
	Type string `xml:"w:type,attr"`
	ID   string `xml:"r:id,attr"`
}

// pageSize in twentieths of a point (US Letter).
type pageSize struct {
	W int `xml:"w:w,attr"`
	H int `xml:"w:h,attr"`
}

// pageMargin in twentieths of a point.
type pageMargin struct {
	Top    int `xml:"w:top,attr"`
	Right  int `xml:"w:right,attr"`
	Bottom int `xml:"w:bottom,attr"`
	Left   int `xml:"w:left,attr"`
	Header int `xml:"w:header,attr"`
	Footer int `xml:"w:footer,attr"`
}

// headerPart is a word/headerN.xml root.
type headerPart struct {
	XMLName xml.Name `xml:"w:hdr"`
	XMLNSW  string   `xml:"xmlns:w,attr"`
	XMLNSR  string   `xml:"xmlns:r,attr"`
	XMLNSV  string   `xml:"xmlns:v,attr"`
	XMLNSO  string   `xml:"xmlns:o,attr"`
	Paras   []paragraph
}

// footerPart is a word/footerN.xml root.
type footerPart struct {
	XMLName xml.Name `xml:"w:ftr"`
	XMLNSW  string   `xml:"xmlns:w,attr"`
	XMLNSR  string   `xml:"xmlns:r,attr"`
	Paras   []paragraph
}

// Page geometry in twips: US Letter, fixed margins.
const (
	pageWidthTwips  = 12240
	pageHeightTwips = 15840
	marginTwips     = 1440 // 1 inch
	headerTwips     = 720  // 0.5 inch
)

// contentWidthTwips is the printable width available to tables.
const contentWidthTwips = pageWidthTwips - 2*marginTwips

// newSectPr returns section properties with the fixed page geometry.
func newSectPr(breakType string, headerID, footerID string) *sectPr {
	sp := &sectPr{
		PgSz: pageSize{W: pageWidthTwips, H: pageHeightTwips},
		PgMar: pageMargin{
			Top: marginTwips, Right: marginTwips,
			Bottom: marginTwips, Left: marginTwips,
			Header: headerTwips, Footer: headerTwips,
		},
	}
	if breakType != "" {
		sp.Type = &valAttr{Val: breakType}
	}
	if headerID != "" {
		sp.HeaderRef = &partRef{Type: "default", ID: headerID}
	}
	if footerID != "" {
		sp.FooterRef = &partRef{Type: "default", ID: footerID}
	}
	return sp
}
