package docx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/phuslu/log"

	"github.com/alnah/go-html2doc/internal/blocks"
)

// Content types for header and footer parts.
const (
	contentTypeHeader = "application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"
	contentTypeFooter = "application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"
)

// Run sizes in half-points.
const (
	bodySizeHalfPt   = 22 // 11pt
	marginSizeHalfPt = 18 // 9pt header/footer, smaller than body
)

// headingSizes maps heading level (1-6) to run size in half-points,
// decreasing per level down to body size.
var headingSizes = [6]int{36, 32, 28, 26, 24, 22}

// Assembler builds OOXML packages from extracted pages.
type Assembler struct {
	logger *log.Logger
}

// NewAssembler creates an assembler. logger may be nil.
func NewAssembler(logger *log.Logger) *Assembler {
	return &Assembler{logger: logger}
}

// Assemble builds one document section per page. headerHTML and
// footerHTML are composed fragments (already placeholder-substituted by
// the caller); the footer's {{page}} and {{total}} tokens are replaced
// here with literal per-section values before block conversion. wm may
// be nil. A watermark that cannot be applied is logged and dropped, it
// never fails the render.
func (a *Assembler) Assemble(pages []blocks.Page, headerHTML, footerHTML string, wm *WatermarkSpec) ([]byte, error) {
	if len(pages) == 0 {
		pages = []blocks.Page{{}}
	}

	docRels := newRelationships()
	ct := newContentTypes()
	var media []part

	headerText := blocks.Text(headerHTML)
	footerTemplate := strings.TrimSpace(footerHTML)
	hasFooter := footerTemplate != ""

	// The shared header part exists when there is header text or a
	// watermark to attach to every section.
	wmPict, wmMedia := a.buildWatermark(wm)
	hasHeader := headerText != "" || wmPict != ""

	docRels.add(relTypeStyles, "styles.xml")
	docRels.add(relTypeNumbering, "numbering.xml")

	headerRelID := ""
	if hasHeader {
		headerRelID = docRels.add(relTypeHeader, "header1.xml")
		ct.addOverride("/word/header1.xml", contentTypeHeader)
	}

	footerRelIDs := make([]string, len(pages))
	if hasFooter {
		for i := range pages {
			name := fmt.Sprintf("footer%d.xml", i+1)
			footerRelIDs[i] = docRels.add(relTypeFooter, name)
			ct.addOverride("/word/"+name, contentTypeFooter)
		}
	}

	// Body: map blocks page by page; each non-final page carries its
	// section properties on a trailing paragraph.
	doc := newDocument()
	docPrID := 0
	for i, page := range pages {
		breakType := "nextPage"
		if i == 0 {
			breakType = "continuous"
		}
		sp := newSectPr(breakType, headerRelID, footerRelIDs[i])

		for _, blk := range page {
			doc.Body.Elements = append(doc.Body.Elements, a.mapBlock(blk, docRels, ct, &media, &docPrID)...)
		}

		if i < len(pages)-1 {
			doc.Body.Elements = append(doc.Body.Elements, paragraph{
				Props: &paraProps{SectPr: sp},
			})
		} else {
			doc.Body.SectPr = sp
		}
	}

	parts := []part{
		{name: "word/styles.xml", data: []byte(stylesXML)},
		{name: "word/numbering.xml", data: []byte(numberingXML)},
	}

	if hasHeader {
		hdrParts, err := a.buildHeaderParts(headerText, wmPict, wmMedia)
		if err != nil {
			return nil, err
		}
		parts = append(parts, hdrParts...)
	}

	if hasFooter {
		for i := range pages {
			ftr := footerPart{XMLNSW: nsW, XMLNSR: nsR}
			text := substitutePageTokens(footerTemplate, i+1, len(pages))
			ftr.Paras = []paragraph{marginParagraph(blocks.Text(text))}
			data, err := marshalPart(ftr)
			if err != nil {
				return nil, fmt.Errorf("footer %d: %w", i+1, err)
			}
			parts = append(parts, part{name: fmt.Sprintf("word/footer%d.xml", i+1), data: data})
		}
	}

	docData, err := marshalPart(doc)
	if err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	docRelsData, err := marshalPart(docRels)
	if err != nil {
		return nil, fmt.Errorf("document rels: %w", err)
	}

	pkgRels := newRelationships()
	pkgRels.add(relTypeDocument, "word/document.xml")
	pkgRelsData, err := marshalPart(pkgRels)
	if err != nil {
		return nil, fmt.Errorf("package rels: %w", err)
	}

	ctData, err := marshalPart(ct)
	if err != nil {
		return nil, fmt.Errorf("content types: %w", err)
	}

	all := make([]part, 0, len(parts)+len(media)+4)
	all = append(all,
		part{name: "[Content_Types].xml", data: ctData},
		part{name: "_rels/.rels", data: pkgRelsData},
		part{name: "word/document.xml", data: docData},
		part{name: "word/_rels/document.xml.rels", data: docRelsData},
	)
	all = append(all, parts...)
	all = append(all, media...)

	return writePackage(all)
}

// mapBlock converts one content block to its document constructs.
// Lists expand to one bulleted paragraph per item; blocks that degrade
// to nothing (unsupported images) return an empty slice.
func (a *Assembler) mapBlock(blk blocks.Block, docRels *relationships, ct *contentTypes, media *[]part, docPrID *int) []bodyElement {
	switch blk.Kind {
	case blocks.KindParagraph:
		return []bodyElement{bodyParagraph(blk.Text)}

	case blocks.KindHeading:
		level := blk.Level
		if level < 1 {
			level = 1
		}
		if level > 6 {
			level = 6
		}
		size := strconv.Itoa(headingSizes[level-1])
		props := &runProps{
			Bold:   &emptyElem{},
			Size:   &valAttr{Val: size},
			SizeCs: &valAttr{Val: size},
		}
		return []bodyElement{paragraph{Runs: []run{{Props: props, Text: newText(blk.Text)}}}}

	case blocks.KindList:
		els := make([]bodyElement, 0, len(blk.Items))
		for _, item := range blk.Items {
			els = append(els, paragraph{
				Props: &paraProps{
					Style: &valAttr{Val: "ListParagraph"},
					NumPr: &numPr{Ilvl: intAttr{Val: 0}, NumID: intAttr{Val: bulletNumID}},
				},
				Runs: []run{{Text: newText(item)}},
			})
		}
		return els

	case blocks.KindTable:
		return []bodyElement{buildTable(blk.Rows)}

	case blocks.KindImage:
		return a.mapImage(blk.Image, docRels, ct, media, docPrID)
	}
	return nil
}

// mapImage registers the media part and returns a paragraph holding the
// inline drawing. Unsupported image types degrade to nothing with a
// warning.
func (a *Assembler) mapImage(img *blocks.Image, docRels *relationships, ct *contentTypes, media *[]part, docPrID *int) []bodyElement {
	if img == nil || len(img.Data) == 0 {
		return nil
	}
	ext, ok := imageExtension(img.MIME)
	if !ok {
		if a.logger != nil {
			a.logger.Warn().Str("mime", img.MIME).Msg("skipping image block with unsupported type")
		}
		return nil
	}

	*docPrID++
	name := fmt.Sprintf("media/image%d.%s", *docPrID, ext)
	*media = append(*media, part{name: "word/" + name, data: img.Data})
	ct.addDefault(ext, img.MIME)
	relID := docRels.add(relTypeImage, name)

	cx, cy := imageExtent(img.Data, img.Width, img.Height)
	drawing := buildInlineDrawing(relID, *docPrID, cx, cy)
	return []bodyElement{paragraph{Runs: []run{{Drawing: &rawXML{Inner: drawing}}}}}
}

// bodyParagraph returns a plain body paragraph.
func bodyParagraph(text string) paragraph {
	return paragraph{Runs: []run{{Text: newText(text)}}}
}

// marginParagraph returns the centered, smaller-font paragraph used for
// header and footer content.
func marginParagraph(text string) paragraph {
	size := strconv.Itoa(marginSizeHalfPt)
	props := &runProps{Size: &valAttr{Val: size}, SizeCs: &valAttr{Val: size}}
	return paragraph{
		Props: &paraProps{Justify: &valAttr{Val: "center"}},
		Runs:  []run{{Props: props, Text: newText(text)}},
	}
}

// buildTable converts extracted rows into a full-width bordered table.
func buildTable(rows [][]string) table {
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		cols = 1
	}
	colWidth := contentWidthTwips / cols

	t := table{
		Props: tblProps{
			Width:   tblWidth{W: contentWidthTwips, Type: "dxa"},
			Borders: singleBorders(),
		},
	}
	for i := 0; i < cols; i++ {
		t.Grid.Cols = append(t.Grid.Cols, gridCol{W: colWidth})
	}
	for _, row := range rows {
		tr := tableRow{}
		for c := 0; c < cols; c++ {
			cell := ""
			if c < len(row) {
				cell = row[c]
			}
			tr.Cells = append(tr.Cells, tableCell{
				Props: tcProps{Width: tblWidth{W: colWidth, Type: "dxa"}},
				Paras: []paragraph{bodyParagraph(cell)},
			})
		}
		t.Rows = append(t.Rows, tr)
	}
	return t
}

// buildWatermark interprets the watermark policy for this backend.
// Returns the w:pict inner markup and, for image watermarks, the media
// part it references (written under word/media). Failures are logged
// and swallowed: the document renders without a watermark.
func (a *Assembler) buildWatermark(wm *WatermarkSpec) (pict string, imagePart *part) {
	if wm == nil {
		return "", nil
	}
	switch wm.Kind {
	case WatermarkText:
		if wm.Text == "" {
			return "", nil
		}
		return buildTextWatermarkPict(wm), nil
	case WatermarkImage:
		ext, ok := imageExtension(wm.ImageMIME)
		if !ok || len(wm.ImageData) == 0 {
			if a.logger != nil {
				a.logger.Warn().Str("mime", wm.ImageMIME).Msg("dropping watermark with unsupported image type")
			}
			return "", nil
		}
		p := part{name: "word/media/watermark." + ext, data: wm.ImageData}
		// The relationship id is fixed: the header part has its own
		// relationship file holding only this entry.
		return buildImageWatermarkPict(wm, "rId1"), &p
	default:
		if a.logger != nil {
			a.logger.Warn().Str("kind", string(wm.Kind)).Msg("dropping watermark with unknown kind")
		}
		return "", nil
	}
}

// buildHeaderParts renders the shared header part, its relationship
// file when an image watermark is attached, and the watermark media.
func (a *Assembler) buildHeaderParts(headerText, wmPict string, wmMedia *part) ([]part, error) {
	hdr := headerPart{XMLNSW: nsW, XMLNSR: nsR, XMLNSV: nsV, XMLNSO: nsO}
	if headerText != "" {
		hdr.Paras = append(hdr.Paras, marginParagraph(headerText))
	}
	if wmPict != "" {
		hdr.Paras = append(hdr.Paras, paragraph{
			Runs: []run{{Pict: &rawXML{Inner: wmPict}}},
		})
	}
	if len(hdr.Paras) == 0 {
		hdr.Paras = []paragraph{{}}
	}

	data, err := marshalPart(hdr)
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	parts := []part{{name: "word/header1.xml", data: data}}

	if wmMedia != nil {
		hdrRels := newRelationships()
		hdrRels.add(relTypeImage, strings.TrimPrefix(wmMedia.name, "word/"))
		relsData, err := marshalPart(hdrRels)
		if err != nil {
			return nil, fmt.Errorf("header rels: %w", err)
		}
		parts = append(parts, part{name: "word/_rels/header1.xml.rels", data: relsData})
		parts = append(parts, *wmMedia)
	}
	return parts, nil
}

// substitutePageTokens replaces the footer's page tokens with literal
// values. This is independent of, and happens after, the caller-level
// placeholder substitution.
func substitutePageTokens(s string, page, total int) string {
	s = strings.ReplaceAll(s, "{{page}}", strconv.Itoa(page))
	return strings.ReplaceAll(s, "{{total}}", strconv.Itoa(total))
}
