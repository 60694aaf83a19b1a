package html2doc

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/phuslu/log"

	"github.com/alnah/go-html2doc/internal/blocks"
	"github.com/alnah/go-html2doc/internal/docx"
	"github.com/alnah/go-html2doc/internal/fetch"
	"github.com/alnah/go-html2doc/internal/sanitize"
)

// Sanitizer is the collaborator that validates and cleans HTML input
// before it reaches a render backend. Sanitize fails with a validation
// error when disallowed elements are present.
type Sanitizer interface {
	Sanitize(fragment string) (string, error)
}

// ImageFetcher is the collaborator that resolves remote image sources
// during block extraction.
type ImageFetcher interface {
	Fetch(ctx context.Context, src string) (data []byte, mime string, err error)
}

// wordAssembler abstracts the docx backend to allow injection in tests.
type wordAssembler interface {
	Assemble(pages []blocks.Page, headerHTML, footerHTML string, wm *docx.WatermarkSpec) ([]byte, error)
}

// Compile-time interface checks
var (
	_ Sanitizer     = (*sanitize.Strict)(nil)
	_ ImageFetcher  = (*fetch.HTTPFetcher)(nil)
	_ wordAssembler = (*docx.Assembler)(nil)
)

// Service renders document requests. One Service holds at most one
// browser instance; use ServicePool to bound concurrent instances.
type Service struct {
	cfg       Config
	logger    log.Logger
	sanitizer Sanitizer
	fetcher   ImageFetcher

	pdfConverter pdfConverter
	assembler    wordAssembler
	governor     *governor
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithConfig).
func New(opts ...Option) (*Service, error) {
	s := &Service{
		cfg: Config{}.withDefaults(),
		logger: log.Logger{
			Level: log.WarnLevel,
		},
		sanitizer: sanitize.NewStrict(),
	}

	for _, opt := range opts {
		opt(s)
	}
	s.cfg = s.cfg.withDefaults()

	if s.fetcher == nil {
		s.fetcher = fetch.NewHTTPFetcher(s.cfg.FetchTimeout)
	}

	// Create backends if not injected (e.g., by tests)
	if s.pdfConverter == nil {
		s.pdfConverter = newRodConverter(s.cfg.RenderTimeout)
	}
	if s.assembler == nil {
		s.assembler = docx.NewAssembler(&s.logger)
	}
	s.governor = newGovernor(s.cfg.MaxArtifactSizeMB, &s.logger)

	return s, nil
}

// Render runs the full pipeline and returns the finished artifact.
// The context is used for cancellation and timeout; on any exit path
// the service retains no reference to the returned bytes.
func (s *Service) Render(ctx context.Context, req Request) (*Artifact, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	header, content, footer, err := s.sanitizeAll(req)
	if err != nil {
		return nil, err
	}

	// Caller-level placeholder substitution, applied independently to
	// header, body, and footer before rendering.
	header = Substitute(header, req.Placeholders)
	content = Substitute(content, req.Placeholders)
	footer = Substitute(footer, req.Placeholders)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	switch req.Format {
	case FormatPDF:
		data, err = s.renderPDF(ctx, header, content, footer, req.Watermark)
	case FormatDocx:
		data, err = s.renderDocx(ctx, header, content, footer, req.Watermark)
	}
	if err != nil {
		return nil, err
	}

	artifact := &Artifact{
		Bytes:    data,
		MIMEType: req.Format.MIMEType(),
		Filename: requestID + "." + req.Format.Extension(),
	}
	if err := s.governor.Apply(artifact); err != nil {
		return nil, renderErr(req.Format, err)
	}
	return artifact, nil
}

// renderPDF composes a full HTML document and prints it through the
// headless-browser pipeline. The browser substitutes {{page}}/{{total}}
// in the running footer itself.
func (s *Service) renderPDF(ctx context.Context, header, content, footer string, wm *Watermark) ([]byte, error) {
	htmlContent := composeHTML(content, wm)
	opts := &pdfOptions{
		HeaderTemplate: buildHeaderTemplate(header),
		FooterTemplate: buildFooterTemplate(footer),
	}

	data, err := s.pdfConverter.ToPDF(ctx, htmlContent, opts)
	if err != nil {
		return nil, renderErr(FormatPDF, err)
	}
	return data, nil
}

// renderDocx extracts typed blocks and assembles the OOXML package.
func (s *Service) renderDocx(ctx context.Context, header, content, footer string, wm *Watermark) ([]byte, error) {
	extractor := blocks.NewExtractor(s.fetcher, &s.logger)
	pages := extractor.Extract(ctx, content)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := s.assembler.Assemble(pages, header, footer, s.toWatermarkSpec(wm))
	if err != nil {
		return nil, renderErr(FormatDocx, fmt.Errorf("%w: %v", ErrDocxGeneration, err))
	}
	return data, nil
}

// Close releases resources (headless Chrome browser).
func (s *Service) Close() error {
	if s.pdfConverter != nil {
		return s.pdfConverter.Close()
	}
	return nil
}

// validateRequest checks that required fields are present and valid.
// Failures here are the caller's responsibility and not retryable.
func (s *Service) validateRequest(req Request) error {
	if req.Content == "" {
		return ErrEmptyContent
	}
	if !req.Format.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, req.Format)
	}
	return req.Watermark.Validate(s.cfg.MaxWatermarkTextLength)
}

// sanitizeAll runs the sanitizer collaborator over the three fragments.
func (s *Service) sanitizeAll(req Request) (header, content, footer string, err error) {
	if header, err = s.sanitizer.Sanitize(req.Header); err != nil {
		return "", "", "", err
	}
	if content, err = s.sanitizer.Sanitize(req.Content); err != nil {
		return "", "", "", err
	}
	if footer, err = s.sanitizer.Sanitize(req.Footer); err != nil {
		return "", "", "", err
	}
	return header, content, footer, nil
}

// toWatermarkSpec maps the public watermark plus the fixed placement
// policy into the docx backend's data form. Returns nil for no
// watermark; an undecodable image payload was already rejected by
// validation.
func (s *Service) toWatermarkSpec(wm *Watermark) *docx.WatermarkSpec {
	if wm == nil {
		return nil
	}
	spec := &docx.WatermarkSpec{
		Kind:     docx.WatermarkKind(wm.Kind),
		Text:     wm.Text,
		AngleDeg: WatermarkAngleDeg,
		Opacity:  WatermarkOpacity,
		Color:    WatermarkColor,
	}
	if wm.Kind == WatermarkImage {
		data, err := wm.decodeImage()
		if err != nil {
			// Degrade: validation normally catches this; a watermark
			// must never fail the whole render.
			s.logger.Warn().Err(err).Msg("dropping undecodable image watermark")
			return nil
		}
		spec.ImageData = data
		spec.ImageMIME = http.DetectContentType(data)
	}
	return spec
}
