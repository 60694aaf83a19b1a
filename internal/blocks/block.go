// Package blocks splits a flat HTML body into an ordered sequence of
// typed content blocks, grouped into pages at explicit page-break
// markers. The extractor is a streaming tokenizer over a minimal
// supported tag grammar; it tolerates malformed markup by degrading a
// bad block to a plain paragraph rather than failing the document.
package blocks

// Kind classifies a content block.
type Kind int

// Block kinds, in no particular order of precedence.
const (
	KindParagraph Kind = iota
	KindHeading
	KindList
	KindTable
	KindImage
)

// Image is a resolved image payload with optional explicit dimensions.
// Width and Height are CSS pixels; zero means use the intrinsic size.
type Image struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// Block is one classified unit of document content. Exactly one of the
// kind-specific fields is meaningful, selected by Kind. Blocks are
// never mutated after creation; ordering is document order.
type Block struct {
	Kind  Kind
	Text  string     // KindParagraph, KindHeading
	Level int        // KindHeading: 1-6
	Items []string   // KindList: one bulleted paragraph per item
	Rows  [][]string // KindTable: rows of cell text
	Image *Image     // KindImage
}

// Page is an ordered sequence of blocks bounded by page-break markers.
// The page index within the document determines {{page}} substitution
// in the word-processing footer.
type Page []Block

// Paragraph returns a paragraph block with the given text.
func Paragraph(text string) Block {
	return Block{Kind: KindParagraph, Text: text}
}

// Heading returns a heading block at the given level (1-6).
func Heading(level int, text string) Block {
	return Block{Kind: KindHeading, Level: level, Text: text}
}
