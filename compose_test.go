package html2doc

import (
	"strings"
	"testing"
)

func TestComposeHTML(t *testing.T) {
	t.Run("wraps content into full document", func(t *testing.T) {
		got := composeHTML("<p>Hello</p>", nil)

		for _, want := range []string{
			"<!DOCTYPE html>",
			`<meta charset="utf-8">`,
			"<p>Hello</p>",
			"page-break-after: always",
			"</body>",
			"</html>",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("composeHTML() missing %q", want)
			}
		}
	})

	t.Run("text watermark adds body::before rule", func(t *testing.T) {
		wm := &Watermark{Kind: WatermarkText, Text: "DRAFT"}
		got := composeHTML("<p>x</p>", wm)

		if !strings.Contains(got, "body::before") {
			t.Error("composeHTML() missing watermark CSS")
		}
		if !strings.Contains(got, "DRAFT") {
			t.Error("composeHTML() missing watermark text")
		}
	})

	t.Run("nil watermark adds no overlay", func(t *testing.T) {
		got := composeHTML("<p>x</p>", nil)

		if strings.Contains(got, "body::before") {
			t.Error("composeHTML() has watermark CSS without a watermark")
		}
	})
}

func TestSanitizeCSS(t *testing.T) {
	got := sanitizeCSS(`a { content: "</style><script>"; }`)
	if strings.Contains(got, "</style>") {
		t.Errorf("sanitizeCSS() left closing tag intact: %q", got)
	}
}

func TestBuildHeaderTemplate(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty returns placeholder span", "", "<span></span>"},
		{"whitespace returns placeholder span", "  \n ", "<span></span>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildHeaderTemplate(tt.header); got != tt.want {
				t.Errorf("buildHeaderTemplate(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}

	t.Run("content gets styled wrapper", func(t *testing.T) {
		got := buildHeaderTemplate("<span>ACME Corp</span>")
		if !strings.Contains(got, "ACME Corp") {
			t.Error("buildHeaderTemplate() dropped content")
		}
		if !strings.Contains(got, "font-size: 9px") {
			t.Error("buildHeaderTemplate() missing explicit font size (Chrome defaults to 0)")
		}
	})
}

func TestBuildFooterTemplate(t *testing.T) {
	t.Run("empty returns placeholder span", func(t *testing.T) {
		if got := buildFooterTemplate(""); got != "<span></span>" {
			t.Errorf("buildFooterTemplate(\"\") = %q", got)
		}
	})

	t.Run("page tokens map to Chrome classes", func(t *testing.T) {
		got := buildFooterTemplate("Page {{page}} of {{total}}")

		if !strings.Contains(got, `<span class="pageNumber"></span>`) {
			t.Error("buildFooterTemplate() missing pageNumber span")
		}
		if !strings.Contains(got, `<span class="totalPages"></span>`) {
			t.Error("buildFooterTemplate() missing totalPages span")
		}
		if strings.Contains(got, "{{page}}") || strings.Contains(got, "{{total}}") {
			t.Error("buildFooterTemplate() left raw page tokens")
		}
	})

	t.Run("footer without tokens survives unchanged", func(t *testing.T) {
		got := buildFooterTemplate("Confidential")
		if !strings.Contains(got, "Confidential") {
			t.Error("buildFooterTemplate() dropped content")
		}
	})
}
