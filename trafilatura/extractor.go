// Package trafilatura finds the main copy of a page with go-trafilatura
// when no content container can be recognized.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/siteport"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements siteport.Extractor at compile time.
var _ siteport.Extractor = (*Extractor)(nil)

// Option configures an Extractor.
type Option func(*trafilatura.Options)

// WithTargetLanguage discards content not written in lang, an ISO 639-1
// code.
func WithTargetLanguage(lang string) Option {
	return func(o *trafilatura.Options) {
		o.TargetLanguage = lang
	}
}

// WithoutTables drops tables from the extracted content.
func WithoutTables() Option {
	return func(o *trafilatura.Options) {
		o.ExcludeTables = true
	}
}

// Extractor strips navigation, footers, and other boilerplate, keeping the
// links and images inside the main content.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	o := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		IncludeLinks:    true,
		IncludeImages:   true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Extractor{opts: o}
}

// Extract returns the main content of rawHTML. A page without
// recognizable content yields an empty ContentHTML, not an error.
func (e *Extractor) Extract(rawHTML string) (*siteport.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, siteport.Errorf(siteport.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return &siteport.ExtractResult{}, nil
	}

	out := &siteport.ExtractResult{Title: result.Metadata.Title}
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
		out.ContentHTML = buf.String()
	}
	return out, nil
}
