package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// WatermarkKind selects between a text and an image watermark.
type WatermarkKind string

// Watermark kinds.
const (
	WatermarkText  WatermarkKind = "text"
	WatermarkImage WatermarkKind = "image"
)

// WatermarkSpec is the watermark policy expressed as data: the kind and
// payload chosen by the caller plus the fixed placement policy
// (rotation, opacity, fill color) supplied by the rendering core. The
// assembler interprets it as a floating VML shape attached to every
// section's header.
type WatermarkSpec struct {
	Kind      WatermarkKind
	Text      string
	ImageData []byte
	ImageMIME string

	AngleDeg float64 // rotation, negative = counterclockwise
	Opacity  float64 // 0..1
	Color    string  // fill color for text watermarks, e.g. "#c0c0c0"
}

// Fixed extent of the floating watermark shape, in points.
const (
	watermarkWidthPt  = 468
	watermarkHeightPt = 117
)

// shapetypeText is the standard WordArt text-path shape definition
// (spt 136) that text watermarks instantiate.
const shapetypeText = `<v:shapetype id="_x0000_t136" coordsize="21600,21600" o:spt="136" adj="10800" path="m@7,l@8,m@5,21600l@6,21600e">` +
	`<v:formulas>` +
	`<v:f eqn="sum #0 0 10800"/>` +
	`<v:f eqn="prod #0 2 1"/>` +
	`<v:f eqn="sum 21600 0 @1"/>` +
	`<v:f eqn="sum 0 0 @2"/>` +
	`<v:f eqn="sum 21600 0 @3"/>` +
	`<v:f eqn="if @0 @3 0"/>` +
	`<v:f eqn="if @0 21600 @1"/>` +
	`<v:f eqn="if @0 0 @2"/>` +
	`<v:f eqn="if @0 @4 21600"/>` +
	`<v:f eqn="mid @5 @6"/>` +
	`<v:f eqn="mid @8 @5"/>` +
	`<v:f eqn="mid @7 @8"/>` +
	`<v:f eqn="mid @6 @7"/>` +
	`<v:f eqn="sum @6 0 @5"/>` +
	`</v:formulas>` +
	`<v:path textpathok="t" o:connecttype="custom" o:connectlocs="@9,0;@10,10800;@11,21600;@12,10800" o:connectangles="270,180,90,0"/>` +
	`<v:textpath on="t" fitshape="t"/>` +
	`<v:handles><v:h position="#0,bottomRight" xrange="6629,14971"/></v:handles>` +
	`<o:lock v:ext="edit" text="t" shapetype="t"/>` +
	`</v:shapetype>`

// shapetypeImage is the standard picture-frame shape definition
// (spt 75) that image watermarks instantiate.
const shapetypeImage = `<v:shapetype id="_x0000_t75" coordsize="21600,21600" o:spt="75" o:preferrelative="t" path="m@4@5l@4@11@9@11@9@5xe" filled="f" stroked="f">` +
	`<v:stroke joinstyle="miter"/>` +
	`<v:formulas>` +
	`<v:f eqn="if lineDrawn pixelLineWidth 0"/>` +
	`<v:f eqn="sum @0 1 0"/>` +
	`<v:f eqn="sum 0 0 @1"/>` +
	`<v:f eqn="prod @2 1 2"/>` +
	`<v:f eqn="prod @3 21600 pixelWidth"/>` +
	`<v:f eqn="prod @3 21600 pixelHeight"/>` +
	`<v:f eqn="sum @0 0 1"/>` +
	`<v:f eqn="prod @6 1 2"/>` +
	`<v:f eqn="prod @7 21600 pixelWidth"/>` +
	`<v:f eqn="sum @8 21600 0"/>` +
	`<v:f eqn="prod @7 21600 pixelHeight"/>` +
	`<v:f eqn="sum @10 21600 0"/>` +
	`</v:formulas>` +
	`<v:path o:extrusionok="f" gradientshapeok="t" o:connecttype="rect"/>` +
	`<o:lock v:ext="edit" aspectratio="t"/>` +
	`</v:shapetype>`

// shapeStyle renders the floating, page-centered, rotated placement
// shared by both watermark kinds.
func shapeStyle(angleDeg float64) string {
	rotation := int(angleDeg) % 360
	if rotation < 0 {
		rotation += 360
	}
	return fmt.Sprintf("position:absolute;margin-left:0;margin-top:0;width:%dpt;height:%dpt;rotation:%d;z-index:-251654144;"+
		"mso-position-horizontal:center;mso-position-horizontal-relative:page;"+
		"mso-position-vertical:center;mso-position-vertical-relative:page",
		watermarkWidthPt, watermarkHeightPt, rotation)
}

// vmlOpacity renders a 0..1 opacity as a VML fixed-point fraction.
func vmlOpacity(opacity float64) string {
	return fmt.Sprintf("%df", int(opacity*65536))
}

// buildTextWatermarkPict renders the inner markup of a w:pict holding a
// large, bold, light-gray text-path shape.
func buildTextWatermarkPict(spec *WatermarkSpec) string {
	return shapetypeText + fmt.Sprintf(
		`<v:shape id="PowerPlusWaterMarkObject1" type="#_x0000_t136" style="%s" o:allowincell="f" fillcolor="%s" stroked="f">`+
			`<v:fill opacity="%s"/>`+
			`<v:textpath on="t" style="font-family:&quot;Calibri&quot;;font-size:1pt;font-weight:bold" string="%s"/>`+
			`</v:shape>`,
		shapeStyle(spec.AngleDeg), spec.Color, vmlOpacity(spec.Opacity), xmlEscape(spec.Text))
}

// buildImageWatermarkPict renders the inner markup of a w:pict holding
// a washed-out floating picture referencing relID in the header part.
func buildImageWatermarkPict(spec *WatermarkSpec, relID string) string {
	return shapetypeImage + fmt.Sprintf(
		`<v:shape id="WordPictureWatermark1" type="#_x0000_t75" style="%s" o:allowincell="f">`+
			`<v:imagedata r:id="%s" o:title="watermark" gain="19661f" blacklevel="22938f"/>`+
			`</v:shape>`,
		shapeStyle(spec.AngleDeg), relID)
}

// xmlEscape escapes s for use in an XML attribute value.
func xmlEscape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
