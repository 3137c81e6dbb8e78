// Package readability is a second boilerplate remover, backed by
// go-readability, for pages trafilatura leaves empty.
package readability

import (
	"strings"

	"github.com/fwojciec/siteport"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements siteport.Extractor at compile time.
var _ siteport.Extractor = (*Extractor)(nil)

// DefaultMinTextLength is the shortest article text accepted as content.
const DefaultMinTextLength = 50

// Extractor keeps the article-like part of a page. Content shorter than
// the minimum text length is discarded so that thin promo blocks fall
// through to the next extractor.
type Extractor struct {
	minTextLength int
}

// NewExtractor creates a new Extractor. A minTextLength of zero or less
// uses DefaultMinTextLength.
func NewExtractor(minTextLength int) *Extractor {
	if minTextLength <= 0 {
		minTextLength = DefaultMinTextLength
	}
	return &Extractor{minTextLength: minTextLength}
}

// Extract returns the readable content of rawHTML.
func (e *Extractor) Extract(rawHTML string) (*siteport.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, siteport.Errorf(siteport.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	result := &siteport.ExtractResult{Title: strings.TrimSpace(article.Title)}
	if len([]rune(strings.TrimSpace(article.TextContent))) >= e.minTextLength {
		result.ContentHTML = article.Content
	}
	return result, nil
}
