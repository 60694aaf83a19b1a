package html2doc

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-html2doc/internal/fileutil"
)

// mockRenderer implements pdfRenderer for testing.
type mockRenderer struct {
	Result     []byte
	Err        error
	CalledWith string
	CalledOpts *pdfOptions
}

func (m *mockRenderer) RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error) {
	m.CalledWith = filePath
	m.CalledOpts = opts
	return m.Result, m.Err
}

// testableRodConverter wraps rodConverter for testing with mock renderer.
type testableRodConverter struct {
	mock *mockRenderer
}

func (c *testableRodConverter) ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return c.mock.RenderFromFile(ctx, tmpPath, opts)
}

func TestRodConverter_ToPDF(t *testing.T) {
	tests := []struct {
		name       string
		html       string
		mock       *mockRenderer
		wantAnyErr bool
	}{
		{
			name: "successful render returns PDF bytes",
			html: "<html><body>Test</body></html>",
			mock: &mockRenderer{
				Result: []byte("%PDF-1.4 fake pdf content"),
			},
		},
		{
			name: "renderer error propagates",
			html: "<html></html>",
			mock: &mockRenderer{
				Err: errors.New("browser crashed"),
			},
			wantAnyErr: true,
		},
		{
			name: "empty HTML is valid",
			html: "",
			mock: &mockRenderer{
				Result: []byte("%PDF-1.4"),
			},
		},
		{
			name: "unicode content succeeds",
			html: "<html><body>Bonjour le monde</body></html>",
			mock: &mockRenderer{
				Result: []byte("%PDF-1.4 unicode"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			converter := &testableRodConverter{mock: tt.mock}
			ctx := context.Background()

			result, err := converter.ToPDF(ctx, tt.html, nil)

			if tt.wantAnyErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if string(result) != string(tt.mock.Result) {
				t.Errorf("expected result %q, got %q", tt.mock.Result, result)
			}

			// Verify renderer was called with temp file
			if !strings.Contains(tt.mock.CalledWith, "html2doc-") {
				t.Errorf("expected temp file path with 'html2doc-', got %q", tt.mock.CalledWith)
			}
		})
	}
}

func TestBuildPDFOptions(t *testing.T) {
	r := newRodRenderer(DefaultRenderTimeout)

	t.Run("no templates means no running header/footer", func(t *testing.T) {
		got := r.buildPDFOptions(nil)

		if got.DisplayHeaderFooter {
			t.Error("DisplayHeaderFooter = true, want false")
		}
		if *got.MarginTop != marginInches || *got.MarginBottom != marginInches {
			t.Errorf("margins = %v/%v, want %v", *got.MarginTop, *got.MarginBottom, marginInches)
		}
	})

	t.Run("header template widens top margin", func(t *testing.T) {
		got := r.buildPDFOptions(&pdfOptions{HeaderTemplate: "<div>h</div>"})

		if !got.DisplayHeaderFooter {
			t.Error("DisplayHeaderFooter = false, want true")
		}
		if *got.MarginTop != marginWithRunningHeader {
			t.Errorf("MarginTop = %v, want %v", *got.MarginTop, marginWithRunningHeader)
		}
		if *got.MarginBottom != marginInches {
			t.Errorf("MarginBottom = %v, want %v", *got.MarginBottom, marginInches)
		}
		if got.FooterTemplate != "<span></span>" {
			t.Errorf("FooterTemplate = %q, want empty placeholder", got.FooterTemplate)
		}
	})

	t.Run("footer template widens bottom margin", func(t *testing.T) {
		got := r.buildPDFOptions(&pdfOptions{FooterTemplate: "<div>f</div>"})

		if *got.MarginBottom != marginWithRunningHeader {
			t.Errorf("MarginBottom = %v, want %v", *got.MarginBottom, marginWithRunningHeader)
		}
		if got.FooterTemplate != "<div>f</div>" {
			t.Errorf("FooterTemplate = %q", got.FooterTemplate)
		}
	})

	t.Run("letter paper size", func(t *testing.T) {
		got := r.buildPDFOptions(nil)
		if *got.PaperWidth != paperWidthInches || *got.PaperHeight != paperHeightInches {
			t.Errorf("paper = %vx%v, want %vx%v", *got.PaperWidth, *got.PaperHeight, paperWidthInches, paperHeightInches)
		}
	})
}

func TestNewRodConverter(t *testing.T) {
	converter := newRodConverter(DefaultRenderTimeout)

	if converter.renderer == nil {
		t.Fatal("expected non-nil renderer")
	}

	if converter.renderer.timeout != DefaultRenderTimeout {
		t.Errorf("expected timeout %v, got %v", DefaultRenderTimeout, converter.renderer.timeout)
	}
}

func TestRodRenderer_CloseWithoutBrowser(t *testing.T) {
	r := newRodRenderer(DefaultRenderTimeout)
	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
