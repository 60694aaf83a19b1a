package blocks

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/phuslu/log"
	"golang.org/x/net/html"

	"github.com/alnah/go-html2doc/internal/fetch"
	"github.com/alnah/go-html2doc/internal/fileutil"
)

// pageBreakClass marks the block-level element that splits pages.
const pageBreakClass = "page-break"

// errNoFetcher reports a remote image source with no fetcher configured.
var errNoFetcher = errors.New("no image fetcher configured")

// Fetcher resolves a remote image source to its bytes and MIME type.
// The network fetch is an external collaborator concern; extraction
// degrades the image block when it fails.
type Fetcher interface {
	Fetch(ctx context.Context, src string) (data []byte, mime string, err error)
}

// Extractor turns an HTML body into pages of typed blocks.
type Extractor struct {
	fetcher Fetcher
	logger  *log.Logger
}

// NewExtractor creates an extractor. fetcher may be nil, in which case
// remote image sources degrade to skipped blocks.
func NewExtractor(fetcher Fetcher, logger *log.Logger) *Extractor {
	return &Extractor{fetcher: fetcher, logger: logger}
}

// token is one pre-read HTML token. Pre-reading the whole stream lets
// the parser look ahead at block boundaries without pushback.
type token struct {
	kind  html.TokenType
	tag   string
	attrs map[string]string
	text  string
}

// tokenize reads the entire input into a token slice. A tokenizer error
// ends the stream; whatever was read before the error is still parsed,
// per the degrade-never-fail policy.
func tokenize(content string) []token {
	z := html.NewTokenizer(strings.NewReader(content))
	var toks []token
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return toks
		case html.TextToken:
			toks = append(toks, token{kind: tt, text: string(z.Text())})
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			name, hasAttr := z.TagName()
			t := token{kind: tt, tag: string(name)}
			if hasAttr {
				t.attrs = make(map[string]string)
				for {
					key, val, more := z.TagAttr()
					t.attrs[string(key)] = string(val)
					if !more {
						break
					}
				}
			}
			toks = append(toks, t)
		}
		// Comments and doctypes carry no content: dropped.
	}
}

// Extract splits content into pages of blocks. The content is first
// split at page-break markers (k markers yield k+1 pages, in source
// order); within each page, segments are classified by their leading
// tag and converted. Malformed segments degrade to paragraphs; images
// that cannot be resolved are skipped with a logged warning.
func (e *Extractor) Extract(ctx context.Context, content string) []Page {
	toks := tokenize(content)

	var pages []Page
	cur := Page{}
	var pending strings.Builder

	flush := func() {
		if text := normalizeText(pending.String()); text != "" {
			cur = append(cur, Paragraph(text))
		}
		pending.Reset()
	}

	for i := 0; i < len(toks); {
		tok := toks[i]
		switch tok.kind {
		case html.TextToken:
			pending.WriteString(tok.text)
			i++

		case html.StartTagToken, html.SelfClosingTagToken:
			switch tok.tag {
			case "div":
				if isPageBreak(tok.attrs) {
					flush()
					pages = append(pages, cur)
					cur = Page{}
					if tok.kind == html.SelfClosingTagToken {
						i++
					} else {
						i = skipElement(toks, i+1, "div")
					}
					continue
				}
				// Transparent container; its text accumulates until
				// the matching end tag flushes a paragraph.
				i++
			case "p":
				flush()
				var text string
				text, i = collectText(toks, i+1, "p")
				if text != "" {
					cur = append(cur, Paragraph(text))
				}
			case "h1", "h2", "h3", "h4", "h5", "h6":
				flush()
				level := int(tok.tag[1] - '0')
				var text string
				text, i = collectText(toks, i+1, tok.tag)
				if text != "" {
					cur = append(cur, Heading(level, text))
				}
			case "ul", "ol":
				flush()
				var items []string
				var raw string
				items, raw, i = collectList(toks, i+1, tok.tag)
				switch {
				case len(items) > 0:
					cur = append(cur, Block{Kind: KindList, Items: items})
				case raw != "":
					// No extractable items: degrade to a paragraph.
					cur = append(cur, Paragraph(raw))
				}
			case "table":
				flush()
				var rows [][]string
				var raw string
				rows, raw, i = collectTable(toks, i+1)
				switch {
				case len(rows) > 0:
					cur = append(cur, Block{Kind: KindTable, Rows: rows})
				case raw != "":
					// No extractable rows: degrade to a paragraph.
					cur = append(cur, Paragraph(raw))
				}
			case "img":
				flush()
				if img := e.resolveImage(ctx, tok.attrs); img != nil {
					cur = append(cur, Block{Kind: KindImage, Image: img})
				}
				i++
			case "br":
				pending.WriteByte(' ')
				i++
			default:
				// Inline or unknown markup is stripped to its text.
				i++
			}

		case html.EndTagToken:
			// A closing container boundary separates loose text into
			// its own paragraph.
			switch tok.tag {
			case "div", "p", "section", "article", "blockquote":
				flush()
			}
			i++

		default:
			i++
		}
	}

	flush()
	pages = append(pages, cur)
	return pages
}

// Text strips content down to normalized plain text: markup removed,
// entities substituted, whitespace collapsed. Used for header/footer
// fragments, which are always treated as a single paragraph-level block.
func Text(content string) string {
	var b strings.Builder
	for _, tok := range tokenize(content) {
		switch tok.kind {
		case html.TextToken:
			b.WriteString(tok.text)
		case html.StartTagToken, html.SelfClosingTagToken:
			if tok.tag == "br" {
				b.WriteByte(' ')
			}
		}
	}
	return normalizeText(b.String())
}

// isPageBreak reports whether a div carries the page-break marker class.
func isPageBreak(attrs map[string]string) bool {
	for _, class := range strings.Fields(attrs["class"]) {
		if class == pageBreakClass {
			return true
		}
	}
	return false
}

// skipElement advances past the matching end tag for tag, tolerating
// nesting. Returns the index after the end tag (or len(toks) at EOF).
func skipElement(toks []token, i int, tag string) int {
	depth := 1
	for ; i < len(toks); i++ {
		switch {
		case toks[i].kind == html.StartTagToken && toks[i].tag == tag:
			depth++
		case toks[i].kind == html.EndTagToken && toks[i].tag == tag:
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return i
}

// blockTags are the recognized block-opening markers. Text collection
// stops before any of them so malformed (unclosed) markup still splits
// at block boundaries.
var blockTags = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "ul": true, "ol": true, "table": true,
	"img": true, "div": true,
}

// collectText gathers normalized text until the end tag for until, a
// block-opening marker, or EOF. Inline markup inside is stripped.
// Returns the text and the index of the next unconsumed token.
func collectText(toks []token, i int, until string) (string, int) {
	var b strings.Builder
	for ; i < len(toks); i++ {
		tok := toks[i]
		switch tok.kind {
		case html.TextToken:
			b.WriteString(tok.text)
		case html.StartTagToken, html.SelfClosingTagToken:
			if tok.tag == "br" {
				b.WriteByte(' ')
				continue
			}
			if blockTags[tok.tag] {
				// Unclosed element: the next block starts here.
				return normalizeText(b.String()), i
			}
		case html.EndTagToken:
			if tok.tag == until {
				return normalizeText(b.String()), i + 1
			}
		}
	}
	return normalizeText(b.String()), i
}

// collectList gathers list items until the closing tag for listTag.
// raw is the stripped text of the whole list, used for the
// degrade-to-paragraph branch when no items are extractable.
func collectList(toks []token, i int, listTag string) (items []string, raw string, next int) {
	var rawB strings.Builder
	depth := 1
	for i < len(toks) {
		tok := toks[i]
		switch tok.kind {
		case html.TextToken:
			rawB.WriteString(tok.text)
			i++
		case html.StartTagToken, html.SelfClosingTagToken:
			switch tok.tag {
			case "li":
				var text string
				text, i = collectText(toks, i+1, "li")
				if text != "" {
					items = append(items, text)
					rawB.WriteString(text)
					rawB.WriteByte(' ')
				}
			case listTag:
				// Nested list of the same kind: flatten its items into
				// the outer list, tracking depth so the inner end tag
				// does not terminate the outer one.
				if tok.kind == html.StartTagToken {
					depth++
				}
				i++
			default:
				i++
			}
		case html.EndTagToken:
			if tok.tag == listTag {
				depth--
				if depth == 0 {
					return items, normalizeText(rawB.String()), i + 1
				}
			}
			i++
		default:
			i++
		}
	}
	return items, normalizeText(rawB.String()), i
}

// collectTable gathers rows of cell text until </table> or EOF. raw is
// the stripped text of everything seen, for the degrade branch when no
// rows are extractable.
func collectTable(toks []token, i int) (rows [][]string, raw string, next int) {
	var rawB strings.Builder
	var curRow []string
	inRow := false

	endRow := func() {
		if inRow {
			rows = append(rows, curRow)
			curRow = nil
			inRow = false
		}
	}

	for i < len(toks) {
		tok := toks[i]
		switch tok.kind {
		case html.TextToken:
			rawB.WriteString(tok.text)
			i++
		case html.StartTagToken, html.SelfClosingTagToken:
			switch tok.tag {
			case "tr":
				endRow()
				inRow = true
				curRow = []string{}
				i++
			case "td", "th":
				var text string
				text, i = collectCellText(toks, i+1, tok.tag)
				rawB.WriteString(text)
				rawB.WriteByte(' ')
				if !inRow {
					// Cell outside a row marker: open an implicit row.
					inRow = true
					curRow = []string{}
				}
				curRow = append(curRow, text)
			default:
				i++
			}
		case html.EndTagToken:
			switch tok.tag {
			case "tr":
				endRow()
				i++
			case "table":
				endRow()
				return rows, normalizeText(rawB.String()), i + 1
			default:
				i++
			}
		default:
			i++
		}
	}
	endRow()
	return rows, normalizeText(rawB.String()), i
}

// collectCellText gathers text for one table cell, stopping at the cell
// end tag or at the next cell/row/table boundary for unclosed cells.
func collectCellText(toks []token, i int, until string) (string, int) {
	var b strings.Builder
	for ; i < len(toks); i++ {
		tok := toks[i]
		switch tok.kind {
		case html.TextToken:
			b.WriteString(tok.text)
		case html.StartTagToken, html.SelfClosingTagToken:
			switch tok.tag {
			case "br":
				b.WriteByte(' ')
			case "td", "th", "tr", "table":
				return normalizeText(b.String()), i
			}
		case html.EndTagToken:
			switch tok.tag {
			case until:
				return normalizeText(b.String()), i + 1
			case "tr", "table":
				return normalizeText(b.String()), i
			}
		}
	}
	return normalizeText(b.String()), i
}

// resolveImage turns an img tag into a resolved Image. Data URIs are
// decoded inline; remote sources go through the fetcher. Any failure
// logs a warning and returns nil so the block is skipped.
func (e *Extractor) resolveImage(ctx context.Context, attrs map[string]string) *Image {
	src := attrs["src"]

	var (
		data []byte
		mime string
		err  error
	)
	switch {
	case src == "":
		err = errors.New("img element has no src attribute")
	case fileutil.IsDataURI(src):
		data, mime, err = fetch.ParseDataURI(src)
	case !fileutil.IsURL(src):
		err = fmt.Errorf("unsupported image source %q", truncate(src, 60))
	case e.fetcher != nil:
		data, mime, err = e.fetcher.Fetch(ctx, src)
	default:
		err = errNoFetcher
	}
	if err != nil {
		if e.logger != nil {
			e.logger.Warn().
				Str("src", truncate(src, 120)).
				Err(err).
				Msg("skipping unresolvable image block")
		}
		return nil
	}

	return &Image{
		Data:   data,
		MIME:   mime,
		Width:  atoiOrZero(attrs["width"]),
		Height: atoiOrZero(attrs["height"]),
	}
}

// normalizeText strips redundant whitespace and substitutes the few
// character entities the supported grammar cares about (the tokenizer
// already unescaped entities; non-breaking spaces become plain spaces).
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}

// atoiOrZero parses a positive integer attribute, zero on failure.
func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(s), "px"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// truncate shortens s for log output.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
