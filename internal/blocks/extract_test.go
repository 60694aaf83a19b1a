package blocks

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/phuslu/log"
)

func testLogger() *log.Logger {
	return &log.Logger{Writer: &log.IOWriter{Writer: io.Discard}}
}

// stubFetcher implements Fetcher with canned responses.
type stubFetcher struct {
	data []byte
	mime string
	err  error
	src  string
}

func (f *stubFetcher) Fetch(ctx context.Context, src string) ([]byte, string, error) {
	f.src = src
	return f.data, f.mime, f.err
}

func extract(t *testing.T, content string) []Page {
	t.Helper()
	return NewExtractor(nil, testLogger()).Extract(context.Background(), content)
}

func TestExtract_PageSplitting(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantPages int
	}{
		{
			name:      "no marker yields one page",
			content:   "<p>one</p>",
			wantPages: 1,
		},
		{
			name:      "one marker yields two pages",
			content:   `<p>one</p><div class="page-break"></div><p>two</p>`,
			wantPages: 2,
		},
		{
			name:      "two markers yield three pages",
			content:   `<p>a</p><div class="page-break"></div><p>b</p><div class="page-break"></div><p>c</p>`,
			wantPages: 3,
		},
		{
			name:      "trailing marker yields empty last page",
			content:   `<p>a</p><div class="page-break"></div>`,
			wantPages: 2,
		},
		{
			name:      "self-closing marker",
			content:   `<p>a</p><div class="page-break"/><p>b</p>`,
			wantPages: 2,
		},
		{
			name:      "marker among other classes",
			content:   `<p>a</p><div class="x page-break y"></div><p>b</p>`,
			wantPages: 2,
		},
		{
			name:      "plain div is not a marker",
			content:   `<div><p>a</p></div>`,
			wantPages: 1,
		},
		{
			name:      "empty content yields one empty page",
			content:   "",
			wantPages: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := extract(t, tt.content)
			if len(pages) != tt.wantPages {
				t.Errorf("Extract() pages = %d, want %d", len(pages), tt.wantPages)
			}
		})
	}
}

func TestExtract_PageOrder(t *testing.T) {
	pages := extract(t, `<p>first</p><div class="page-break"></div><p>second</p>`)

	if len(pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(pages))
	}
	if pages[0][0].Text != "first" || pages[1][0].Text != "second" {
		t.Errorf("pages out of order: %q, %q", pages[0][0].Text, pages[1][0].Text)
	}
}

func TestExtract_Paragraphs(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Block
	}{
		{
			name:    "simple paragraph",
			content: "<p>Hello world</p>",
			want:    []Block{Paragraph("Hello world")},
		},
		{
			name:    "inline markup stripped",
			content: "<p>Hello <strong>bold</strong> and <em>italic</em></p>",
			want:    []Block{Paragraph("Hello bold and italic")},
		},
		{
			name:    "entities decoded and nbsp normalized",
			content: "<p>a&amp;b&nbsp;c</p>",
			want:    []Block{Paragraph("a&b c")},
		},
		{
			name:    "br becomes space",
			content: "<p>line one<br>line two</p>",
			want:    []Block{Paragraph("line one line two")},
		},
		{
			name:    "whitespace collapsed",
			content: "<p>  spaced \n\t out  </p>",
			want:    []Block{Paragraph("spaced out")},
		},
		{
			name:    "loose text becomes a paragraph",
			content: "just text, no markup",
			want:    []Block{Paragraph("just text, no markup")},
		},
		{
			name:    "unclosed paragraph ends at next block",
			content: "<p>first<p>second</p>",
			want:    []Block{Paragraph("first"), Paragraph("second")},
		},
		{
			name:    "empty paragraph dropped",
			content: "<p>  </p><p>kept</p>",
			want:    []Block{Paragraph("kept")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := extract(t, tt.content)
			if len(pages) != 1 {
				t.Fatalf("pages = %d, want 1", len(pages))
			}
			if !reflect.DeepEqual([]Block(pages[0]), tt.want) {
				t.Errorf("blocks = %+v, want %+v", pages[0], tt.want)
			}
		})
	}
}

func TestExtract_Headings(t *testing.T) {
	pages := extract(t, "<h1>Title</h1><h3>Sub</h3><p>body</p>")

	want := []Block{
		Heading(1, "Title"),
		Heading(3, "Sub"),
		Paragraph("body"),
	}
	if !reflect.DeepEqual([]Block(pages[0]), want) {
		t.Errorf("blocks = %+v, want %+v", pages[0], want)
	}
}

func TestExtract_Lists(t *testing.T) {
	t.Run("unordered list", func(t *testing.T) {
		pages := extract(t, "<ul><li>one</li><li>two</li></ul>")

		blk := pages[0][0]
		if blk.Kind != KindList {
			t.Fatalf("Kind = %v, want KindList", blk.Kind)
		}
		if !reflect.DeepEqual(blk.Items, []string{"one", "two"}) {
			t.Errorf("Items = %v", blk.Items)
		}
	})

	t.Run("ordered list", func(t *testing.T) {
		pages := extract(t, "<ol><li>first</li><li>second</li></ol>")

		blk := pages[0][0]
		if blk.Kind != KindList || len(blk.Items) != 2 {
			t.Errorf("block = %+v", blk)
		}
	})

	t.Run("list without items degrades to paragraph", func(t *testing.T) {
		pages := extract(t, "<ul>loose text, no items</ul>")

		blk := pages[0][0]
		if blk.Kind != KindParagraph {
			t.Fatalf("Kind = %v, want KindParagraph", blk.Kind)
		}
		if blk.Text != "loose text, no items" {
			t.Errorf("Text = %q", blk.Text)
		}
	})

	t.Run("empty list dropped", func(t *testing.T) {
		pages := extract(t, "<ul></ul><p>after</p>")
		if len(pages[0]) != 1 || pages[0][0].Text != "after" {
			t.Errorf("blocks = %+v", pages[0])
		}
	})

	t.Run("nested list of the same kind flattens", func(t *testing.T) {
		pages := extract(t, "<ul><li>a</li><ul><li>b</li></ul><li>c</li></ul>")

		if len(pages[0]) != 1 {
			t.Fatalf("blocks = %+v, want a single list", pages[0])
		}
		blk := pages[0][0]
		if blk.Kind != KindList {
			t.Fatalf("Kind = %v, want KindList", blk.Kind)
		}
		// The inner end tag must not terminate the outer list: items
		// after the nested list stay items, not a trailing paragraph.
		if !reflect.DeepEqual(blk.Items, []string{"a", "b", "c"}) {
			t.Errorf("Items = %v, want [a b c]", blk.Items)
		}
	})

	t.Run("nested list inside an item flattens", func(t *testing.T) {
		pages := extract(t, "<ul><li>a<ul><li>b</li></ul></li><li>c</li></ul>")

		if len(pages[0]) != 1 {
			t.Fatalf("blocks = %+v, want a single list", pages[0])
		}
		blk := pages[0][0]
		if !reflect.DeepEqual(blk.Items, []string{"a", "b", "c"}) {
			t.Errorf("Items = %v, want [a b c]", blk.Items)
		}
	})
}

func TestExtract_Tables(t *testing.T) {
	t.Run("rows and cells", func(t *testing.T) {
		pages := extract(t, `<table>
			<tr><th>Item</th><th>Price</th></tr>
			<tr><td>Widget</td><td>9.99</td></tr>
		</table>`)

		blk := pages[0][0]
		if blk.Kind != KindTable {
			t.Fatalf("Kind = %v, want KindTable", blk.Kind)
		}
		want := [][]string{{"Item", "Price"}, {"Widget", "9.99"}}
		if !reflect.DeepEqual(blk.Rows, want) {
			t.Errorf("Rows = %v, want %v", blk.Rows, want)
		}
	})

	t.Run("ragged rows preserved", func(t *testing.T) {
		pages := extract(t, "<table><tr><td>a</td><td>b</td></tr><tr><td>c</td></tr></table>")

		blk := pages[0][0]
		if len(blk.Rows) != 2 || len(blk.Rows[0]) != 2 || len(blk.Rows[1]) != 1 {
			t.Errorf("Rows = %v", blk.Rows)
		}
	})

	t.Run("cells without row markers get an implicit row", func(t *testing.T) {
		pages := extract(t, "<table><td>orphan</td></table>")

		blk := pages[0][0]
		if blk.Kind != KindTable {
			t.Fatalf("Kind = %v, want KindTable", blk.Kind)
		}
		if len(blk.Rows) != 1 || blk.Rows[0][0] != "orphan" {
			t.Errorf("Rows = %v", blk.Rows)
		}
	})

	t.Run("table without cells degrades to paragraph", func(t *testing.T) {
		pages := extract(t, "<table>just loose text</table>")

		blk := pages[0][0]
		if blk.Kind != KindParagraph || blk.Text != "just loose text" {
			t.Errorf("block = %+v", blk)
		}
	})

	t.Run("unclosed table consumes to EOF", func(t *testing.T) {
		pages := extract(t, "<table><tr><td>only</td></tr>")

		blk := pages[0][0]
		if blk.Kind != KindTable || blk.Rows[0][0] != "only" {
			t.Errorf("block = %+v", blk)
		}
	})
}

func TestExtract_Images(t *testing.T) {
	pngBytes := []byte("\x89PNG\r\n\x1a\nfake")
	pngURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)

	t.Run("data URI decoded inline", func(t *testing.T) {
		pages := extract(t, `<img src="`+pngURI+`" width="120" height="80">`)

		if len(pages[0]) != 1 {
			t.Fatalf("blocks = %+v", pages[0])
		}
		blk := pages[0][0]
		if blk.Kind != KindImage {
			t.Fatalf("Kind = %v, want KindImage", blk.Kind)
		}
		if string(blk.Image.Data) != string(pngBytes) {
			t.Error("image data differs from payload")
		}
		if blk.Image.MIME != "image/png" {
			t.Errorf("MIME = %q", blk.Image.MIME)
		}
		if blk.Image.Width != 120 || blk.Image.Height != 80 {
			t.Errorf("extent = %dx%d, want 120x80", blk.Image.Width, blk.Image.Height)
		}
	})

	t.Run("remote source goes through fetcher", func(t *testing.T) {
		fetcher := &stubFetcher{data: pngBytes, mime: "image/png"}
		ex := NewExtractor(fetcher, testLogger())

		pages := ex.Extract(context.Background(), `<img src="https://example.com/logo.png">`)

		if fetcher.src != "https://example.com/logo.png" {
			t.Errorf("fetcher called with %q", fetcher.src)
		}
		if len(pages[0]) != 1 || pages[0][0].Kind != KindImage {
			t.Errorf("blocks = %+v", pages[0])
		}
	})

	t.Run("fetch failure skips the block", func(t *testing.T) {
		fetcher := &stubFetcher{err: errors.New("connection refused")}
		ex := NewExtractor(fetcher, testLogger())

		pages := ex.Extract(context.Background(), `<p>before</p><img src="https://example.com/x.png"><p>after</p>`)

		want := []Block{Paragraph("before"), Paragraph("after")}
		if !reflect.DeepEqual([]Block(pages[0]), want) {
			t.Errorf("blocks = %+v, want %+v", pages[0], want)
		}
	})

	t.Run("missing src skips the block", func(t *testing.T) {
		pages := extract(t, `<img alt="no source"><p>after</p>`)
		if len(pages[0]) != 1 || pages[0][0].Text != "after" {
			t.Errorf("blocks = %+v", pages[0])
		}
	})

	t.Run("no fetcher skips remote images", func(t *testing.T) {
		pages := extract(t, `<img src="https://example.com/x.png"><p>after</p>`)
		if len(pages[0]) != 1 || pages[0][0].Text != "after" {
			t.Errorf("blocks = %+v", pages[0])
		}
	})
}

func TestExtract_MixedDocument(t *testing.T) {
	pages := extract(t, `
		<h1>Invoice</h1>
		<p>Dear ACME Corp,</p>
		<table><tr><td>Widget</td><td>9.99</td></tr></table>
		<div class="page-break"></div>
		<h2>Terms</h2>
		<ul><li>net 30</li></ul>`)

	if len(pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(pages))
	}

	kinds := func(p Page) []Kind {
		ks := make([]Kind, len(p))
		for i, b := range p {
			ks[i] = b.Kind
		}
		return ks
	}

	if !reflect.DeepEqual(kinds(pages[0]), []Kind{KindHeading, KindParagraph, KindTable}) {
		t.Errorf("first page kinds = %v", kinds(pages[0]))
	}
	if !reflect.DeepEqual(kinds(pages[1]), []Kind{KindHeading, KindList}) {
		t.Errorf("second page kinds = %v", kinds(pages[1]))
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{"<span>ACME Corp</span>", "ACME Corp"},
		{"plain", "plain"},
		{"a<br>b", "a b"},
		{"<div> spaced&nbsp;out </div>", "spaced out"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Text(tt.content); got != tt.want {
			t.Errorf("Text(%q) = %q, want %q", tt.content, got, tt.want)
		}
	}
}

func TestAtoiOrZero(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"120", 120},
		{"120px", 120},
		{" 80 ", 80},
		{"", 0},
		{"-5", 0},
		{"abc", 0},
	}
	for _, tt := range tests {
		if got := atoiOrZero(tt.in); got != tt.want {
			t.Errorf("atoiOrZero(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
