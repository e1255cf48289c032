// Package render fetches a page and produces the representations the
// extractors work from: raw HTML, derived markdown and plain text, and the
// image and link lists found in the markup.
package render

import (
	"context"
	"errors"
)

// ErrPageNotRendered is returned by helpers that require a successful page
var ErrPageNotRendered = errors.New("page did not render")

// Image is one <img> found on the page
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// Page is the rendered representation of one URL
type Page struct {
	URL        string
	Success    bool
	StatusCode int
	HTML       string
	// Markdown is the derived text: the body converted to markdown
	Markdown string
	// Text is the readable main text, used for word counting
	Text          string
	WordCount     int
	Images        []Image
	InternalLinks []string
	ExternalLinks []string
	ErrorMessage  string
}

// Options control a single render
type Options struct {
	// BypassCache asks every cache on the way to revalidate
	BypassCache bool
	// WordCountThreshold marks pages with fewer words as unsuccessful. 0 disables the check.
	WordCountThreshold int
}

// DefaultOptions never serves cached content and rejects near-empty pages
func DefaultOptions() Options {
	return Options{BypassCache: true, WordCountThreshold: 50}
}

// Renderer turns a URL into a Page. A page that could not be rendered is
// reported either as an error or as Success=false; callers treat both alike.
type Renderer interface {
	Render(ctx context.Context, url string, opts Options) (*Page, error)
}

// OK reports whether p is a successfully rendered page
func OK(p *Page, err error) bool {
	return err == nil && p != nil && p.Success
}

// Reason describes why p is not a successful page
func Reason(p *Page) string {
	if p == nil {
		return "no page returned"
	}
	if p.ErrorMessage == "" && !p.Success {
		return "render unsuccessful"
	}
	return p.ErrorMessage
}
