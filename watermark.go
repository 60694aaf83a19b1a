package html2doc

import (
	"fmt"
	"net/http"
	"strings"
)

// defaultFontFamily is the standard font stack for footers and overlays.
const defaultFontFamily = "sans-serif"

// Watermark policy constants, shared in spirit by both backends. The
// PDF pipeline interprets them as CSS; the docx assembler as VML shape
// attributes. Not caller-configurable.
const (
	// WatermarkAngleDeg is the fixed rotation of the overlay.
	WatermarkAngleDeg = -45.0

	// WatermarkOpacity is the fixed overlay opacity.
	WatermarkOpacity = 0.10

	// WatermarkColor is the fill color for text watermarks.
	WatermarkColor = "#c0c0c0"

	// watermarkFontSize is the font size for the text overlay.
	watermarkFontSize = "8rem"
)

// buildWatermarkCSS generates CSS for a diagonal text watermark.
// The overlay uses position:fixed so it appears on all pages when printed.
func buildWatermarkCSS(w *Watermark) string {
	if w == nil || w.Kind != WatermarkText || w.Text == "" {
		return ""
	}

	return fmt.Sprintf(`
/* Watermark */
body::before {
  content: "%s";
  position: fixed;
  top: 50%%;
  left: 50%%;
  transform: translate(-50%%, -50%%) rotate(%.1fdeg);
  font-size: %s;
  font-weight: bold;
  color: %s;
  opacity: %.2f;
  z-index: -1;
  pointer-events: none;
  white-space: nowrap;
  font-family: %s;
}
`, escapeCSSString(breakURLPattern(w.Text)), WatermarkAngleDeg, watermarkFontSize, WatermarkColor, WatermarkOpacity, defaultFontFamily)
}

// buildWatermarkOverlay generates a fixed-position <img> element for an
// image watermark, inserted at the top of <body> so it prints on every
// page. Returns "" when the payload cannot be decoded; the caller logs
// and continues without a watermark.
func buildWatermarkOverlay(w *Watermark) string {
	if w == nil || w.Kind != WatermarkImage {
		return ""
	}

	data, err := w.decodeImage()
	if err != nil || len(data) == 0 {
		return ""
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return ""
	}

	return fmt.Sprintf(
		`<img src="data:%s;base64,%s" alt="" style="position: fixed; top: 50%%; left: 50%%; transform: translate(-50%%, -50%%) rotate(%.1fdeg); opacity: %.2f; z-index: -1; pointer-events: none; max-width: 60%%;">`,
		mime, w.ImageData, WatermarkAngleDeg, WatermarkOpacity)
}

// escapeCSSString escapes a string for safe use in a CSS content
// property. Prevents CSS injection by escaping backslashes, quotes,
// newlines, and percent signs (to avoid fmt format string issues).
func escapeCSSString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\A `)
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, `%`, `%%`)
	return s
}

// breakURLPattern replaces dots with ONE DOT LEADER (U+2024) so PDF
// viewers do not auto-detect URLs in watermark text and make them
// clickable. The character looks identical to a period in rendered
// output.
func breakURLPattern(text string) string {
	return strings.ReplaceAll(text, ".", "․")
}
