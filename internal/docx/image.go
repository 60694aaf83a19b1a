package docx

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	// Registered decoders for intrinsic dimension probing.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// EMU conversions: 914400 EMUs per inch, CSS pixels at 96 dpi.
const (
	emuPerInch  = 914400
	emuPerPixel = emuPerInch / 96
)

// maxImageWidthEMU is the printable width (page minus margins).
const maxImageWidthEMU = int64(6.5 * emuPerInch)

// Fallback extent for images whose dimensions cannot be determined.
const (
	defaultImageWidthPx  = 300
	defaultImageHeightPx = 200
)

// extByMIME maps supported image MIME types to part extensions.
var extByMIME = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// imageExtension returns the media part extension for a MIME type,
// false when the type is unsupported.
func imageExtension(mime string) (string, bool) {
	ext, ok := extByMIME[strings.ToLower(strings.TrimSpace(mime))]
	return ext, ok
}

// imageExtent computes the display size in EMUs. Explicit dimensions
// (CSS pixels) win; a single explicit dimension scales the other by the
// intrinsic aspect ratio; with neither, the intrinsic size is used.
// Undecodable payloads get a fixed default. Width is clamped to the
// printable page width, preserving ratio.
func imageExtent(data []byte, widthPx, heightPx int) (cx, cy int64) {
	iw, ih := defaultImageWidthPx, defaultImageHeightPx
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil && cfg.Width > 0 && cfg.Height > 0 {
		iw, ih = cfg.Width, cfg.Height
	}

	switch {
	case widthPx > 0 && heightPx > 0:
		// explicit both
	case widthPx > 0:
		heightPx = widthPx * ih / iw
	case heightPx > 0:
		widthPx = heightPx * iw / ih
	default:
		widthPx, heightPx = iw, ih
	}

	cx = int64(widthPx) * emuPerPixel
	cy = int64(heightPx) * emuPerPixel
	if cx > maxImageWidthEMU {
		cy = cy * maxImageWidthEMU / cx
		cx = maxImageWidthEMU
	}
	return cx, cy
}

// buildInlineDrawing renders the inner markup of a w:drawing for an
// inline image referencing relID, sized cx by cy EMUs.
func buildInlineDrawing(relID string, docPrID int, cx, cy int64) string {
	return fmt.Sprintf(
		`<wp:inline distT="0" distB="0" distL="0" distR="0">`+
			`<wp:extent cx="%[3]d" cy="%[4]d"/>`+
			`<wp:docPr id="%[2]d" name="Image %[2]d"/>`+
			`<a:graphic xmlns:a="%[5]s">`+
			`<a:graphicData uri="%[6]s">`+
			`<pic:pic xmlns:pic="%[6]s">`+
			`<pic:nvPicPr><pic:cNvPr id="%[2]d" name="Image %[2]d"/><pic:cNvPicPr/></pic:nvPicPr>`+
			`<pic:blipFill><a:blip r:embed="%[1]s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
			`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%[3]d" cy="%[4]d"/></a:xfrm>`+
			`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
			`</pic:pic>`+
			`</a:graphicData>`+
			`</a:graphic>`+
			`</wp:inline>`,
		relID, docPrID, cx, cy, nsA, nsPic)
}
