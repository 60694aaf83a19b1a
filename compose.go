package html2doc

import (
	"strings"
)

// pageBreakClass is the block-level marker that forces a page break in
// both backends. The docx assembler splits pages on it; the PDF
// pipeline maps it to CSS pagination.
const pageBreakClass = "page-break"

// baseCSS is the stylesheet shared by every composed PDF document.
// Kept deliberately small: clients supply structure, not styling.
const baseCSS = `
body {
  font-family: ` + defaultFontFamily + `;
  font-size: 12px;
  line-height: 1.5;
  margin: 0;
}
table {
  border-collapse: collapse;
  width: 100%;
}
table, th, td {
  border: 1px solid #333;
  padding: 4px 8px;
}
img {
  max-width: 100%;
}
.` + pageBreakClass + ` {
  page-break-after: always;
  break-after: page;
}
`

// composeHTML wraps sanitized, substituted content into a complete HTML
// document for the print pipeline. The watermark overlay is attached
// immediately before printing: text watermarks as CSS on body::before,
// image watermarks as a fixed-position element at the top of <body>.
func composeHTML(content string, wm *Watermark) string {
	var b strings.Builder
	b.Grow(len(content) + len(baseCSS) + 512)

	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<style>")
	b.WriteString(sanitizeCSS(baseCSS))
	if css := buildWatermarkCSS(wm); css != "" {
		b.WriteString(sanitizeCSS(css))
	}
	b.WriteString("</style>\n</head>\n<body>\n")
	if overlay := buildWatermarkOverlay(wm); overlay != "" {
		b.WriteString(overlay)
		b.WriteString("\n")
	}
	b.WriteString(content)
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}

// sanitizeCSS escapes sequences that could break out of a <style>
// block, preventing the stylesheet from closing the tag prematurely.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// buildHeaderTemplate wraps header HTML for Chrome's native running
// header. Chrome header/footer templates render with font-size 0 by
// default, so explicit inline styling is required.
func buildHeaderTemplate(headerHTML string) string {
	if strings.TrimSpace(headerHTML) == "" {
		return "<span></span>"
	}
	return `<div style="font-size: 9px; font-family: ` + defaultFontFamily +
		`; color: #444; width: 100%; text-align: center; padding: 0 0.5in;">` +
		headerHTML + `</div>`
}

// buildFooterTemplate wraps footer HTML for Chrome's native running
// footer, mapping {{page}} and {{total}} to the pageNumber/totalPages
// spans the print backend substitutes itself.
func buildFooterTemplate(footerHTML string) string {
	if strings.TrimSpace(footerHTML) == "" {
		return "<span></span>"
	}
	footerHTML = strings.ReplaceAll(footerHTML, "{{page}}", `<span class="pageNumber"></span>`)
	footerHTML = strings.ReplaceAll(footerHTML, "{{total}}", `<span class="totalPages"></span>`)
	return `<div style="font-size: 9px; font-family: ` + defaultFontFamily +
		`; color: #444; width: 100%; text-align: center; padding: 0 0.5in;">` +
		footerHTML + `</div>`
}
