package html2doc

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestFormat_Valid(t *testing.T) {
	tests := []struct {
		format Format
		want   bool
	}{
		{FormatPDF, true},
		{FormatDocx, true},
		{Format(""), false},
		{Format("html"), false},
		{Format("PDF"), false},
	}

	for _, tt := range tests {
		if got := tt.format.Valid(); got != tt.want {
			t.Errorf("Format(%q).Valid() = %v, want %v", tt.format, got, tt.want)
		}
	}
}

func TestFormat_MIMEType(t *testing.T) {
	if got := FormatPDF.MIMEType(); got != MIMETypePDF {
		t.Errorf("FormatPDF.MIMEType() = %q, want %q", got, MIMETypePDF)
	}
	if got := FormatDocx.MIMEType(); got != MIMETypeDocx {
		t.Errorf("FormatDocx.MIMEType() = %q, want %q", got, MIMETypeDocx)
	}
}

func TestWatermark_Validate(t *testing.T) {
	validImage := base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\nfake"))

	tests := []struct {
		name    string
		wm      *Watermark
		wantErr error
	}{
		{
			name: "nil watermark is valid",
			wm:   nil,
		},
		{
			name: "text within limit",
			wm:   &Watermark{Kind: WatermarkText, Text: "DRAFT"},
		},
		{
			name:    "text over limit",
			wm:      &Watermark{Kind: WatermarkText, Text: strings.Repeat("x", DefaultMaxWatermarkTextLength+1)},
			wantErr: ErrWatermarkTooLong,
		},
		{
			name: "text at exact limit",
			wm:   &Watermark{Kind: WatermarkText, Text: strings.Repeat("x", DefaultMaxWatermarkTextLength)},
		},
		{
			name: "valid base64 image",
			wm:   &Watermark{Kind: WatermarkImage, ImageData: validImage},
		},
		{
			name:    "invalid base64 image",
			wm:      &Watermark{Kind: WatermarkImage, ImageData: "not!!base64??"},
			wantErr: ErrWatermarkImage,
		},
		{
			name:    "unknown kind",
			wm:      &Watermark{Kind: WatermarkKind("gradient")},
			wantErr: ErrWatermarkKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.wm.Validate(DefaultMaxWatermarkTextLength)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_WithDefaults(t *testing.T) {
	t.Run("zero value gets all defaults", func(t *testing.T) {
		cfg := Config{}.withDefaults()

		if cfg.MaxArtifactSizeMB != DefaultMaxArtifactSizeMB {
			t.Errorf("MaxArtifactSizeMB = %d, want %d", cfg.MaxArtifactSizeMB, DefaultMaxArtifactSizeMB)
		}
		if cfg.RenderTimeout != DefaultRenderTimeout {
			t.Errorf("RenderTimeout = %v, want %v", cfg.RenderTimeout, DefaultRenderTimeout)
		}
		if cfg.MaxWatermarkTextLength != DefaultMaxWatermarkTextLength {
			t.Errorf("MaxWatermarkTextLength = %d, want %d", cfg.MaxWatermarkTextLength, DefaultMaxWatermarkTextLength)
		}
		if cfg.FetchTimeout != DefaultFetchTimeout {
			t.Errorf("FetchTimeout = %v, want %v", cfg.FetchTimeout, DefaultFetchTimeout)
		}
	})

	t.Run("explicit values survive", func(t *testing.T) {
		cfg := Config{
			MaxArtifactSizeMB: 25,
			RenderTimeout:     5 * time.Second,
		}.withDefaults()

		if cfg.MaxArtifactSizeMB != 25 {
			t.Errorf("MaxArtifactSizeMB = %d, want 25", cfg.MaxArtifactSizeMB)
		}
		if cfg.RenderTimeout != 5*time.Second {
			t.Errorf("RenderTimeout = %v, want 5s", cfg.RenderTimeout)
		}
		if cfg.MaxWatermarkTextLength != DefaultMaxWatermarkTextLength {
			t.Errorf("MaxWatermarkTextLength = %d, want default", cfg.MaxWatermarkTextLength)
		}
	})
}

func TestWithTimeout_PanicsOnNonPositive(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("WithTimeout(0) did not panic")
		}
	}()
	WithTimeout(0)
}
