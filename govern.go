package html2doc

import (
	"bytes"
	"compress/gzip"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/phuslu/log"
)

// governor enforces the artifact size ceiling after rendering.
type governor struct {
	maxBytes int
	logger   *log.Logger
}

// newGovernor creates a governor with the ceiling in megabytes.
func newGovernor(maxSizeMB int, logger *log.Logger) *governor {
	return &governor{maxBytes: maxSizeMB << 20, logger: logger}
}

// Apply compresses the artifact in place when it exceeds the ceiling.
// PDF artifacts are first rewritten losslessly (object streams, dead
// object removal); if still oversized, and always for other types, the
// bytes are gzipped and ContentEncoding is set to "gzip" so the caller
// can declare the encoding on delivery (the MIME type stays unchanged).
func (g *governor) Apply(a *Artifact) error {
	if len(a.Bytes) <= g.maxBytes {
		return nil
	}

	original := len(a.Bytes)
	if a.MIMEType == MIMETypePDF {
		var out bytes.Buffer
		if err := api.Optimize(bytes.NewReader(a.Bytes), &out, nil); err != nil {
			// Optimization is best effort: fall through to gzip.
			if g.logger != nil {
				g.logger.Warn().Err(err).Msg("pdf optimization failed, falling back to gzip")
			}
		} else if out.Len() < len(a.Bytes) {
			a.Bytes = out.Bytes()
		}
		if len(a.Bytes) <= g.maxBytes {
			if g.logger != nil {
				g.logger.Info().Int("before", original).Int("after", len(a.Bytes)).Msg("oversized pdf optimized under ceiling")
			}
			return nil
		}
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(a.Bytes); err != nil {
		return fmt.Errorf("compressing artifact: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("compressing artifact: %w", err)
	}

	a.Bytes = buf.Bytes()
	a.ContentEncoding = "gzip"
	if g.logger != nil {
		g.logger.Info().Int("before", original).Int("after", len(a.Bytes)).Msg("oversized artifact gzipped")
	}
	return nil
}
