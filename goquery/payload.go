package goquery

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/siteport"
	"github.com/tidwall/gjson"
)

// Ensure PayloadExtractor implements siteport.PayloadExtractor at compile time.
var _ siteport.PayloadExtractor = (*PayloadExtractor)(nil)

const (
	defaultCurrency     = "AUD"
	defaultURLSuffix    = ".html"
	maxShortDescription = 300
	brandTitlePrefix    = "View information for "
)

// PayloadExtractor recovers catalog and navigation data from the JSON blob
// a Next.js page embeds in its #__NEXT_DATA__ script. Every lookup is
// absent-safe: a missing branch yields an empty list, never an error.
type PayloadExtractor struct{}

// NewPayloadExtractor creates a new PayloadExtractor.
func NewPayloadExtractor() *PayloadExtractor {
	return &PayloadExtractor{}
}

// Extract returns nil when the page has no embedded data, the data is not
// valid JSON, or it has no page props.
func (e *PayloadExtractor) Extract(html, baseURL string) *siteport.StructuredPayload {
	raw := strings.TrimSpace(document(html).Find("#__NEXT_DATA__").First().Text())
	if raw == "" || !gjson.Valid(raw) {
		return nil
	}
	pp := pageProps(gjson.Parse(raw))
	if !pp.Exists() {
		return nil
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, []byte(raw)); err != nil {
		return nil
	}

	return &siteport.StructuredPayload{
		Source:      siteport.PayloadSourceNext,
		Products:    extractProducts(pp, strings.TrimRight(baseURL, "/")),
		Navigation:  extractNavigation(pp),
		HeroBanners: extractHeroBanners(pp),
		FooterLinks: extractFooterLinks(pp),
		BrandLogos:  extractBrandLogos(pp),
		Raw:         json.RawMessage(compact.Bytes()),
	}
}

// pageProps returns props.pageProps, or the pageProps nested inside it
// that some sites use. The result does not exist when neither is set.
func pageProps(root gjson.Result) gjson.Result {
	outer := root.Get("props.pageProps")
	if inner := outer.Get("pageProps"); truthy(inner) {
		return inner
	}
	if truthy(outer) {
		return outer
	}
	return gjson.Result{}
}

// truthy reports whether a JSON value is present and not null, false, zero
// or the empty string.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	default:
		return r.Exists()
	}
}

// firstString returns the first truthy value among paths, as a string.
func firstString(r gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := r.Get(p); truthy(v) {
			return v.String()
		}
	}
	return ""
}

func extractProducts(pp gjson.Result, baseURL string) []siteport.Product {
	items := pp.Get("catalogData.homeProducts.items")
	if !items.IsArray() {
		return nil
	}
	var products []siteport.Product
	for _, item := range items.Array() {
		final := item.Get("price_range.minimum_price.final_price")
		price := final.Get("value").Float()
		if price < 0 {
			price = 0
		}

		p := siteport.Product{
			Name:             item.Get("name").String(),
			SKU:              strings.TrimSpace(strings.Split(item.Get("sku").String(), ",")[0]),
			Slug:             item.Get("url_key").String(),
			Price:            price,
			Currency:         firstString(final, "currency"),
			ImageURL:         item.Get("small_image.url").String(),
			ImageAlt:         firstString(item, "small_image.label", "name"),
			OfferFlag:        firstString(item, "offers.bonus.type", "promotion_data.name"),
			OfferText:        item.Get("offers.bonus.title").String(),
			ShortDescription: stripHTML(item.Get("short_description.html").String()),
		}
		if p.Currency == "" {
			p.Currency = defaultCurrency
		}
		if off := item.Get("price_range.minimum_price.discount.amount_off"); truthy(off) {
			original := price + off.Float()
			p.OriginalPrice = &original
		}
		if avg := item.Get("ratings.average"); avg.Type == gjson.Number {
			rating := avg.Float()
			p.Rating = &rating
		}
		if count := item.Get("ratings.count"); count.Type == gjson.Number {
			n := int(count.Int())
			p.ReviewCount = &n
		}
		if p.Slug != "" {
			suffix := firstString(item, "url_suffix")
			if suffix == "" {
				suffix = defaultURLSuffix
			}
			p.URL = baseURL + "/" + p.Slug + suffix
		}
		products = append(products, p)
	}
	return products
}

// stripHTML returns the text of an HTML fragment, capped for use as a
// short description.
func stripHTML(fragment string) string {
	if fragment == "" {
		return ""
	}
	return truncate(text(document(fragment).Selection), maxShortDescription)
}

func extractNavigation(pp gjson.Result) []siteport.NavItem {
	content := pp.Get("pageData.atlasNav.content")
	if !truthy(content) || !gjson.Valid(content.String()) {
		return nil
	}
	menu := gjson.Parse(content.String()).Get("0.children.0.children")
	if !menu.IsArray() {
		return nil
	}
	var nav []siteport.NavItem
	for _, item := range menu.Array() {
		if !navGroup(item) {
			continue
		}
		n := parseNavItem(item, 1)
		if n.Label == "" || n.URL == "" {
			continue
		}
		nav = append(nav, n)
	}
	return nav
}

// navGroup reports whether a navigation node belongs to the main menu
// group, whose group_type is 0 in either numeric or string form.
func navGroup(item gjson.Result) bool {
	gt := item.Get("group_type")
	switch gt.Type {
	case gjson.Number:
		return gt.Num == 0
	case gjson.String:
		return strings.TrimSpace(gt.Str) == "0"
	}
	return false
}

// parseNavItem builds a node at the given level. Children are only read
// while level is below siteport.MaxNavDepth, so the tree never grows
// deeper than that.
func parseNavItem(item gjson.Result, level int) siteport.NavItem {
	n := siteport.NavItem{
		ID:    firstString(item, "id"),
		Label: item.Get("title").String(),
		URL:   item.Get("url").String(),
		Level: level,
	}
	if level >= siteport.MaxNavDepth {
		return n
	}
	for _, child := range item.Get("children").Array() {
		if !navGroup(child) || !truthy(child.Get("title")) || !truthy(child.Get("url")) {
			continue
		}
		n.Children = append(n.Children, parseNavItem(child, level+1))
	}
	return n
}

// blocks parses the HTML content of each CMS block under path.
func blocks(pp gjson.Result, path string) []*goquery.Document {
	items := pp.Get(path)
	if !items.IsArray() {
		return nil
	}
	var docs []*goquery.Document
	for _, b := range items.Array() {
		if content := b.Get("content").String(); content != "" {
			docs = append(docs, document(content))
		}
	}
	return docs
}

func extractHeroBanners(pp gjson.Result) []siteport.HeroBanner {
	var banners []siteport.HeroBanner
	for _, doc := range blocks(pp, "categoryData.homeCmsSlider.items") {
		doc.Find("div.hn-slide, .hn-slide").Each(func(_ int, slide *goquery.Selection) {
			desktop := slide.Find("img.hn-is-desktop, img").First()
			src := desktop.AttrOr("src", "")
			if src == "" {
				return
			}
			alt := desktop.AttrOr("alt", "")
			banners = append(banners, siteport.HeroBanner{
				Headline:     alt,
				ImageDesktop: src,
				ImageMobile:  slide.Find("img.hn-is-mobile").First().AttrOr("src", ""),
				LinkURL:      slide.Find("a").First().AttrOr("href", ""),
				AltText:      alt,
			})
		})
	}
	return banners
}

func extractFooterLinks(pp gjson.Result) []siteport.NavItem {
	var links []siteport.NavItem
	seen := make(map[string]bool)
	for _, doc := range blocks(pp, "categoryData.pageFooterNavigation.items") {
		doc.Find("footer a, .mega-footer a").Each(func(_ int, a *goquery.Selection) {
			label := text(a)
			href := a.AttrOr("href", "")
			n := len([]rune(label))
			if n < 2 || n >= 60 || href == "" || seen[label] {
				return
			}
			seen[label] = true
			links = append(links, siteport.NavItem{
				ID:    "footer-" + strconv.Itoa(len(links)+1),
				Label: label,
				URL:   href,
				Level: 1,
			})
		})
	}
	return links
}

func extractBrandLogos(pp gjson.Result) []siteport.BrandLogo {
	var logos []siteport.BrandLogo
	seen := make(map[string]bool)
	for _, doc := range blocks(pp, "categoryData.homeBrands.items") {
		doc.Find(`a[data-gtm-tracking="brand logo"], .brand-logo`).Each(func(_ int, el *goquery.Selection) {
			anchor, img := el, el.Find("img").First()
			if el.Is("img") {
				anchor, img = el.ParentFiltered("a"), el
			}
			name := anchor.AttrOr("title", "")
			if name == "" {
				name = img.AttrOr("alt", "")
			}
			name = strings.Replace(name, brandTitlePrefix, "", 1)
			logo := img.AttrOr("src", "")
			if name == "" || logo == "" || seen[name] {
				return
			}
			seen[name] = true
			logos = append(logos, siteport.BrandLogo{
				Name:    name,
				LogoURL: logo,
				LinkURL: anchor.AttrOr("href", ""),
			})
		})
	}
	return logos
}
