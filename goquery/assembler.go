package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/siteport"
)

// Ensure Assembler implements the page interfaces at compile time.
var (
	_ siteport.PageAssembler  = (*Assembler)(nil)
	_ siteport.ImageInventory = (*Assembler)(nil)
)

const (
	untitled          = "Untitled"
	maxDescription    = 300
	minParagraphLen   = 20
	fallbackParagraph = 5
)

var contentCascade = Selectors(
	"main",
	"article",
	".content",
	".main-content",
	"#content",
	`[role="main"]`,
)

const (
	heroParagraphSelector = `.hero p, [class*="hero"] p, .banner p, [class*="banner"] p`
	heroLinkSelector      = `.hero a, [class*="hero"] a, .banner a, [class*="banner"] a`
)

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithBodyTextLimit caps the body excerpt at n characters.
func WithBodyTextLimit(n int) AssemblerOption {
	return func(a *Assembler) {
		if n > 0 {
			a.bodyTextLimit = n
		}
	}
}

// WithExtractors sets the content extractors consulted, in order, when a
// page has no recognizable content container and no long paragraphs.
func WithExtractors(extractors ...siteport.Extractor) AssemblerOption {
	return func(a *Assembler) {
		a.extractors = extractors
	}
}

// WithConverter enables Page.BodyMarkdown.
func WithConverter(c siteport.Converter) AssemblerOption {
	return func(a *Assembler) {
		a.converter = c
	}
}

// WithLanguageDetector sets the detector used when a page does not declare
// its language.
func WithLanguageDetector(d siteport.LanguageDetector) AssemblerOption {
	return func(a *Assembler) {
		a.languages = d
	}
}

// Assembler builds a Page by running every field extractor over one
// document. It holds no per-page state and is safe for concurrent use.
type Assembler struct {
	bodyTextLimit int
	extractors    []siteport.Extractor
	converter     siteport.Converter
	languages     siteport.LanguageDetector
}

// NewAssembler creates a new Assembler.
func NewAssembler(opts ...AssemblerOption) *Assembler {
	a := &Assembler{bodyTextLimit: siteport.DefaultBodyTextLimit}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble extracts a Page from html. Missing fields are left empty; the
// only error is a page URL without a scheme and host.
func (a *Assembler) Assemble(html, pageURL string) (*siteport.Page, error) {
	origin, ok := siteport.Origin(pageURL)
	if !ok {
		return nil, siteport.Errorf(siteport.EINVALID, "invalid page URL: %q", pageURL)
	}
	doc := document(html)

	h1 := text(doc.Find("h1").First())
	title := text(doc.Find("title").First())
	if title == "" {
		title = h1
	}
	if title == "" {
		title = untitled
	}

	metaDescription := metaContent(doc, `meta[name="description"]`)
	ogDescription := orDefault(metaContent(doc, `meta[property="og:description"]`), metaDescription)
	body, content := a.bodyText(doc, html)

	description := orDefault(metaDescription, ogDescription)
	if description == "" {
		description = truncate(body, maxDescription)
	}

	p := &siteport.Page{
		URL:             pageURL,
		Slug:            siteport.Slug(pageURL),
		Title:           orDefault(h1, strings.TrimSpace(strings.Split(title, "|")[0])),
		H1:              h1,
		Description:     description,
		BodyText:        body,
		MetaTitle:       orDefault(metaContent(doc, `meta[name="title"]`), title),
		MetaDescription: metaDescription,
		OGTitle:         orDefault(metaContent(doc, `meta[property="og:title"]`), title),
		OGDescription:   ogDescription,
		OGImage:         siteport.MakeAbsolute(metaContent(doc, `meta[property="og:image"]`), origin),
		Images:          ExtractImages(doc, origin),
		HeroSubtitle:    text(doc.Find(heroParagraphSelector).First()),
		Sections:        ExtractSections(doc),
		Branding:        ExtractBranding(doc, origin),
	}

	cta := doc.Find(heroLinkSelector).First()
	p.HeroCTAText = text(cta)
	p.HeroCTALink = siteport.MakeAbsolute(strings.TrimSpace(cta.AttrOr("href", "")), origin)

	taxonomy := ExtractTaxonomy(doc, pageURL)
	p.Taxonomy = &taxonomy

	p.Language = a.language(doc, body)
	if a.converter != nil && content != "" {
		if md, err := a.converter.Convert(content); err == nil {
			p.BodyMarkdown = strings.TrimSpace(md)
		}
	}
	return p, nil
}

// Inventory lists the images of a page with the attributes used to
// categorize them as assets.
func (a *Assembler) Inventory(html, pageURL string) []siteport.ImageRef {
	origin, ok := siteport.Origin(pageURL)
	if !ok {
		return nil
	}
	return inventory(document(html), origin)
}

// bodyText returns the whitespace-collapsed body excerpt and the HTML it
// was taken from. The first matching content container wins even when it
// is empty; then the first few long paragraphs are tried, then the
// configured extractors.
func (a *Assembler) bodyText(doc *goquery.Document, html string) (string, string) {
	var content string
	body, _ := contentCascade.First(doc.Selection, func(el *goquery.Selection) (string, bool) {
		content, _ = goquery.OuterHtml(el)
		return collapse(el.Text()), true
	})
	if body != "" {
		return truncate(body, a.bodyTextLimit), content
	}

	paragraphs := doc.Find("p")
	if paragraphs.Length() > fallbackParagraph {
		paragraphs = paragraphs.Slice(0, fallbackParagraph)
	}
	var parts []string
	paragraphs.Each(func(_ int, p *goquery.Selection) {
		if t := text(p); len([]rune(t)) > minParagraphLen {
			parts = append(parts, t)
		}
	})
	if len(parts) > 0 {
		return truncate(strings.Join(parts, " "), a.bodyTextLimit), ""
	}

	for _, e := range a.extractors {
		res, err := e.Extract(html)
		if err != nil || res == nil || res.ContentHTML == "" {
			continue
		}
		if t := collapse(document(res.ContentHTML).Text()); t != "" {
			return truncate(t, a.bodyTextLimit), res.ContentHTML
		}
	}
	return "", ""
}

// language returns the primary subtag of the declared page language, or a
// detected language code for the body text.
func (a *Assembler) language(doc *goquery.Document, body string) string {
	if lang := strings.TrimSpace(doc.Find("html").First().AttrOr("lang", "")); lang != "" {
		primary, _, _ := strings.Cut(lang, "-")
		return strings.ToLower(primary)
	}
	if a.languages == nil || body == "" {
		return ""
	}
	return a.languages.DetectLanguage(body)
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
