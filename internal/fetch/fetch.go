// Package fetch resolves image sources referenced by content blocks:
// inline data URIs decoded in-process, remote URLs through a bounded
// HTTP client.
package fetch

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Sentinel errors for image resolution.
var (
	ErrNotDataURI      = errors.New("not a data URI")
	ErrUnsupportedData = errors.New("unsupported data URI encoding")
	ErrNotImage        = errors.New("resource is not an image")
	ErrTooLarge        = errors.New("image exceeds maximum size")
	ErrBadStatus       = errors.New("unexpected HTTP status")
	ErrSchemeNotHTTP   = errors.New("image source scheme must be http or https")
)

// MaxImageBytes caps fetched and inline image payloads (8 MB).
const MaxImageBytes = 8 << 20

// ParseDataURI decodes an inline data: URI of the form
// data:<mime>;base64,<payload>. Only base64 payloads are supported.
func ParseDataURI(src string) (data []byte, mime string, err error) {
	rest, ok := strings.CutPrefix(src, "data:")
	if !ok {
		return nil, "", ErrNotDataURI
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("%w: missing payload", ErrNotDataURI)
	}

	mime, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" {
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedData, encoding)
	}
	if mime == "" {
		mime = "text/plain"
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decoding data URI: %w", err)
	}
	if len(data) > MaxImageBytes {
		return nil, "", fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}
	return data, mime, nil
}

// HTTPFetcher fetches remote image sources with a bounded timeout and
// response size cap. The zero value is not usable; call NewHTTPFetcher.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher whose requests are bounded by the
// given timeout in addition to the caller's context.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch downloads src and returns its bytes and MIME type. Responses
// without an image content type are rejected; oversized bodies fail
// rather than truncate.
func (f *HTTPFetcher) Fetch(ctx context.Context, src string) ([]byte, string, error) {
	u, err := url.Parse(src)
	if err != nil {
		return nil, "", fmt.Errorf("parsing image source: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, "", fmt.Errorf("%w: %q", ErrSchemeNotHTTP, u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, "", fmt.Errorf("building image request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: %s", ErrBadStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("reading image body: %w", err)
	}
	if len(body) > MaxImageBytes {
		return nil, "", fmt.Errorf("%w: over %d bytes", ErrTooLarge, MaxImageBytes)
	}

	mime := resp.Header.Get("Content-Type")
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(body)
	}
	if !strings.HasPrefix(mime, "image/") {
		return nil, "", fmt.Errorf("%w: %s", ErrNotImage, mime)
	}

	return body, mime, nil
}
