// Package sanitize validates and cleans HTML fragments before they are
// handed to a render backend: disallowed elements fail validation,
// known-dangerous attributes are stripped.
package sanitize

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// ErrDisallowedElement indicates the input contains an element that is
// never safe to render (script and friends). This is a validation
// failure: the caller's responsibility, not retryable.
var ErrDisallowedElement = errors.New("disallowed element in HTML input")

// disallowed elements abort sanitization outright.
var disallowed = map[string]bool{
	"script": true,
	"iframe": true,
	"object": true,
	"embed":  true,
	"base":   true,
}

// Strict is the default sanitizer: a tokenizer pass that rejects
// disallowed elements and strips event-handler attributes and
// javascript: URLs.
type Strict struct{}

// NewStrict returns the default sanitizer.
func NewStrict() *Strict {
	return &Strict{}
}

// Sanitize re-emits the fragment with dangerous attributes removed.
// Returns ErrDisallowedElement if a forbidden element is present.
func (s *Strict) Sanitize(fragment string) (string, error) {
	if fragment == "" {
		return "", nil
	}

	z := html.NewTokenizer(strings.NewReader(fragment))
	var out strings.Builder
	out.Grow(len(fragment))

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// String input only errors at EOF.
			return out.String(), nil
		}

		tok := z.Token()
		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			if disallowed[tok.Data] {
				return "", fmt.Errorf("%w: <%s>", ErrDisallowedElement, tok.Data)
			}
			tok.Attr = filterAttrs(tok.Attr)
			out.WriteString(tok.String())
		case html.EndTagToken:
			if disallowed[tok.Data] {
				return "", fmt.Errorf("%w: </%s>", ErrDisallowedElement, tok.Data)
			}
			out.WriteString(tok.String())
		case html.CommentToken:
			// Comments dropped: they carry no renderable content.
		default:
			out.WriteString(tok.String())
		}
	}
}

// filterAttrs drops event handlers and javascript: URLs.
func filterAttrs(attrs []html.Attribute) []html.Attribute {
	kept := attrs[:0]
	for _, a := range attrs {
		key := strings.ToLower(a.Key)
		if strings.HasPrefix(key, "on") {
			continue
		}
		if key == "href" || key == "src" {
			val := strings.ToLower(strings.TrimSpace(a.Val))
			if strings.HasPrefix(val, "javascript:") || strings.HasPrefix(val, "vbscript:") {
				continue
			}
		}
		kept = append(kept, a)
	}
	return kept
}
