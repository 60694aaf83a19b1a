package html2doc

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/phuslu/log"
)

// Format selects the output backend.
type Format string

// Supported output formats.
const (
	FormatPDF  Format = "pdf"
	FormatDocx Format = "docx"
)

// MIME types for rendered artifacts.
const (
	MIMETypePDF  = "application/pdf"
	MIMETypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	return f == FormatPDF || f == FormatDocx
}

// Extension returns the filename extension for the format, without dot.
func (f Format) Extension() string {
	return string(f)
}

// MIMEType returns the MIME type of artifacts produced for the format.
func (f Format) MIMEType() string {
	if f == FormatDocx {
		return MIMETypeDocx
	}
	return MIMETypePDF
}

// WatermarkKind selects between a text and an image watermark.
type WatermarkKind string

// Watermark kinds.
const (
	WatermarkText  WatermarkKind = "text"
	WatermarkImage WatermarkKind = "image"
)

// Watermark describes the overlay stamped on every page. Position,
// rotation, opacity, and color are fixed policy constants (see
// watermark.go); callers choose only the kind and payload.
type Watermark struct {
	Kind WatermarkKind
	// Text is the overlay text for WatermarkText (e.g. "DRAFT").
	Text string
	// ImageData is the base64-encoded image payload for WatermarkImage.
	ImageData string
}

// Validate checks the watermark against the given text-length bound.
// Returns nil if w is nil (nil means no watermark).
func (w *Watermark) Validate(maxTextLen int) error {
	if w == nil {
		return nil
	}
	switch w.Kind {
	case WatermarkText:
		if len(w.Text) > maxTextLen {
			return fmt.Errorf("%w: %d characters (max %d)", ErrWatermarkTooLong, len(w.Text), maxTextLen)
		}
	case WatermarkImage:
		if _, err := base64.StdEncoding.DecodeString(w.ImageData); err != nil {
			return fmt.Errorf("%w: %v", ErrWatermarkImage, err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrWatermarkKind, w.Kind)
	}
	return nil
}

// decodeImage returns the decoded image payload for an image watermark.
func (w *Watermark) decodeImage() ([]byte, error) {
	return base64.StdEncoding.DecodeString(w.ImageData)
}

// Request describes one document to render. Immutable once accepted;
// one request produces exactly one artifact.
type Request struct {
	Header  string // HTML fragment repeated on every page (optional)
	Content string // HTML body (required)
	Footer  string // HTML fragment repeated on every page (optional)
	Format  Format // "pdf" or "docx"

	// Watermark is an optional overlay applied to every page.
	Watermark *Watermark

	// Placeholders maps {{name}} tokens to scalar values substituted
	// into header, content, and footer before rendering. Names absent
	// from the mapping are left untouched.
	Placeholders map[string]any

	// RequestID names the artifact file (<id>.<ext>). Empty means a
	// generated UUID.
	RequestID string
}

// Artifact is the finished output. The caller owns the bytes once
// Render returns; the service holds no reference.
type Artifact struct {
	Bytes    []byte
	MIMEType string
	Filename string

	// ContentEncoding is "gzip" when the size governor compressed the
	// payload, otherwise empty. The MIME type is left unchanged so the
	// caller can decide how to declare the encoding on delivery.
	ContentEncoding string
}

// Configuration bounds.
const (
	// DefaultMaxArtifactSizeMB triggers lossless compression above this size.
	DefaultMaxArtifactSizeMB = 10

	// DefaultRenderTimeout bounds backend calls (page load, print).
	DefaultRenderTimeout = 30 * time.Second

	// DefaultMaxWatermarkTextLength bounds watermark text validation.
	DefaultMaxWatermarkTextLength = 100

	// DefaultFetchTimeout bounds remote image fetches during block
	// extraction; on timeout the image block degrades.
	DefaultFetchTimeout = 10 * time.Second
)

// Config holds explicit runtime bounds for the service. The zero value
// of any field means "use the default".
type Config struct {
	MaxArtifactSizeMB      int
	RenderTimeout          time.Duration
	MaxWatermarkTextLength int
	FetchTimeout           time.Duration
}

// withDefaults fills zero fields with package defaults.
func (c Config) withDefaults() Config {
	if c.MaxArtifactSizeMB <= 0 {
		c.MaxArtifactSizeMB = DefaultMaxArtifactSizeMB
	}
	if c.RenderTimeout <= 0 {
		c.RenderTimeout = DefaultRenderTimeout
	}
	if c.MaxWatermarkTextLength <= 0 {
		c.MaxWatermarkTextLength = DefaultMaxWatermarkTextLength
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = DefaultFetchTimeout
	}
	return c
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout sets the render timeout for backend calls.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("html2doc: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.RenderTimeout = d
	}
}

// WithConfig replaces the whole runtime configuration. Zero fields
// keep their defaults.
func WithConfig(cfg Config) Option {
	return func(s *Service) {
		s.cfg = cfg
	}
}

// WithLogger sets the structured logger used for degraded-block and
// watermark warnings. The default logger writes warnings to stderr.
func WithLogger(logger log.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithSanitizer replaces the default HTML sanitizer.
func WithSanitizer(sz Sanitizer) Option {
	return func(s *Service) {
		s.sanitizer = sz
	}
}

// WithImageFetcher replaces the collaborator that resolves remote
// image sources during block extraction.
func WithImageFetcher(f ImageFetcher) Option {
	return func(s *Service) {
		s.fetcher = f
	}
}
