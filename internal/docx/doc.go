// Package docx assembles OOXML word-processing documents from typed
// content blocks: one section per page with fixed margins, a shared
// running header, a per-section footer carrying literal page numbers,
// and an optional floating watermark attached to every section.
//
// The package writes a minimal document package: content types, package
// and document relationships, document body, styles, list numbering,
// header/footer parts, and media parts for images. Output is
// deterministic: the same input always produces identical bytes.
package docx
