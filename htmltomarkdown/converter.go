// Package htmltomarkdown renders page content as Markdown with
// html-to-markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/siteport"
)

// Ensure Converter implements siteport.Converter at compile time.
var _ siteport.Converter = (*Converter)(nil)

// chromeTags never carry page copy on a marketing site.
var chromeTags = []string{"nav", "header", "footer", "form", "noscript", "iframe", "svg", "button"}

// Option configures a Converter.
type Option func(*options)

type options struct {
	keepImages bool
	baseURL    string
}

// WithImages keeps image references in the output. By default images are
// dropped, since harvested assets are tracked separately.
func WithImages() Option {
	return func(o *options) {
		o.keepImages = true
	}
}

// WithBaseURL resolves relative links and images against baseURL.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

// Converter turns the main content of a page into Markdown. Site chrome
// such as navigation, forms, and inline SVG is removed.
type Converter struct {
	conv    *converter.Converter
	baseURL string
}

// NewConverter creates a new Converter.
func NewConverter(opts ...Option) *Converter {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	for _, tag := range chromeTags {
		conv.Register.TagType(tag, converter.TagTypeRemove, converter.PriorityStandard)
	}
	if !o.keepImages {
		conv.Register.TagType("img", converter.TagTypeRemove, converter.PriorityStandard)
		conv.Register.TagType("picture", converter.TagTypeRemove, converter.PriorityStandard)
	}
	return &Converter{conv: conv, baseURL: o.baseURL}
}

// Convert renders html as Markdown with surrounding blank lines trimmed.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", siteport.Errorf(siteport.EINVALID, "empty HTML input")
	}

	var (
		md  string
		err error
	)
	if c.baseURL != "" {
		md, err = c.conv.ConvertString(html, converter.WithDomain(c.baseURL))
	} else {
		md, err = c.conv.ConvertString(html)
	}
	if err != nil {
		return "", siteport.Errorf(siteport.EINTERNAL, "convert HTML: %v", err)
	}
	return strings.TrimSpace(md), nil
}
