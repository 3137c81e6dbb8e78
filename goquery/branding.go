package goquery

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/siteport"
)

// maxProductImages caps Branding.ProductImages.
const maxProductImages = 10

// logoCascade finds the site logo. Header and nav images are preferred over
// any image that merely mentions "logo".
var logoCascade = Cascade{
	{Selector: "header img", Where: attrContainsFold("alt", "logo")},
	{Selector: "header img", Where: attrContainsFold("class", "logo")},
	{Selector: "nav img", Where: attrContainsFold("alt", "logo")},
	{Selector: ".logo img"},
	{Selector: "#logo img"},
	{Selector: `a[href="/"] img`},
	{Selector: "header a img:first-child"},
	{Selector: "img", Where: attrContainsFold("alt", "logo")},
	{Selector: "img", Where: attrContainsFold("class", "logo")},
	{Selector: "img", Where: attrContainsFold("src", "logo")},
}

var faviconCascade = Selectors(
	`link[rel="icon"]`,
	`link[rel="shortcut icon"]`,
	`link[rel="apple-touch-icon"]`,
)

var heroCascade = Selectors(
	".hero img",
	".banner img",
	`[class*="hero"] img`,
	`[class*="banner"] img`,
	"section:first-of-type img",
	".jumbotron img",
	`[style*="background-image"]`,
)

var (
	backgroundImageRe = regexp.MustCompile(`(?i)background-image:\s*url\(['"]?([^'")\s]+)['"]?\)`)
	colorRe           = regexp.MustCompile(`#[0-9A-Fa-f]{6}|#[0-9A-Fa-f]{3}|rgb\([^)]+\)`)
	fontFamilyRe      = regexp.MustCompile(`(?i)font-family:\s*['"]?([^;'"}]+)`)
	googleFamilyRe    = regexp.MustCompile(`family=([^&:]+)`)
)

// ignoredColors are page defaults that say nothing about a brand.
var ignoredColors = map[string]bool{
	"#fff": true, "#ffffff": true,
	"#000": true, "#000000": true,
	"#333": true, "#333333": true,
}

var genericFonts = map[string]bool{
	"inherit":       true,
	"sans-serif":    true,
	"serif":         true,
	"monospace":     true,
	"system-ui":     true,
	"-apple-system": true,
}

// ExtractBranding infers a site's visual identity from one page. Every
// field is best-effort and left empty when nothing matches.
func ExtractBranding(doc *goquery.Document, baseURL string) *siteport.Branding {
	b := &siteport.Branding{
		LogoURL:       extractLogo(doc, baseURL),
		FaviconURL:    extractFavicon(doc, baseURL),
		HeroImageURL:  extractHero(doc, baseURL),
		ProductImages: extractProductImages(doc, baseURL),
	}
	if b.HeroImageURL == "" {
		if og := metaContent(doc, `meta[property="og:image"]`); og != "" {
			b.HeroImageURL = siteport.MakeAbsolute(og, baseURL)
		}
	}

	styles := doc.Find("style").Text()
	b.PrimaryColor, b.SecondaryColor, b.AccentColor = extractColors(doc, styles)
	b.HeadingFont, b.BodyFont = extractFonts(doc, styles)
	return b
}

func extractLogo(doc *goquery.Document, baseURL string) string {
	v, _ := logoCascade.First(doc.Selection, func(el *goquery.Selection) (string, bool) {
		src := firstAttr(el, "src", "data-src")
		if src == "" || strings.Contains(src, "tracking") || strings.Contains(src, "pixel") {
			return "", false
		}
		return siteport.MakeAbsolute(src, baseURL), true
	})
	return v
}

func extractFavicon(doc *goquery.Document, baseURL string) string {
	v, _ := faviconCascade.First(doc.Selection, func(el *goquery.Selection) (string, bool) {
		href := el.AttrOr("href", "")
		return siteport.MakeAbsolute(href, baseURL), href != ""
	})
	return v
}

func extractHero(doc *goquery.Document, baseURL string) string {
	v, _ := heroCascade.First(doc.Selection, func(el *goquery.Selection) (string, bool) {
		if src := firstAttr(el, "src", "data-src"); src != "" {
			return siteport.MakeAbsolute(src, baseURL), true
		}
		if m := backgroundImageRe.FindStringSubmatch(el.AttrOr("style", "")); m != nil {
			return siteport.MakeAbsolute(m[1], baseURL), true
		}
		return "", false
	})
	return v
}

// extractColors returns primary, secondary and accent colors. A theme-color
// meta tag wins primary; the rest come from the most frequent colors in
// inline style sheets. Colors are compared lower-cased, and no color fills
// two slots.
func extractColors(doc *goquery.Document, styles string) (primary, secondary, accent string) {
	if theme := normalizeColor(metaContent(doc, `meta[name="theme-color"]`)); !ignoredColors[theme] {
		primary = theme
	}

	counts := make(map[string]int)
	var order []string
	for _, token := range colorRe.FindAllString(styles, -1) {
		c := normalizeColor(token)
		if counts[c] == 0 {
			order = append(order, c)
		}
		counts[c]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	var ranked []string
	for _, c := range order {
		if !ignoredColors[c] && c != primary {
			ranked = append(ranked, c)
		}
	}
	if primary == "" && len(ranked) > 0 {
		primary, ranked = ranked[0], ranked[1:]
	}
	if len(ranked) > 0 {
		secondary = ranked[0]
	}
	if len(ranked) > 1 {
		accent = ranked[1]
	}
	return primary, secondary, accent
}

// normalizeColor lower-cases a color token and drops the spaces inside
// rgb() so equal colors compare equal.
func normalizeColor(c string) string {
	return strings.ToLower(strings.Join(strings.Fields(c), ""))
}

// extractFonts returns the heading and body fonts. The body font falls back
// to the heading font when only one family is found. Families differing
// only in case count once; the first spelling wins.
func extractFonts(doc *goquery.Document, styles string) (heading, body string) {
	var families []string
	seen := make(map[string]bool)
	add := func(name string) {
		key := strings.ToLower(name)
		if name == "" || seen[key] || genericFonts[key] {
			return
		}
		seen[key] = true
		families = append(families, name)
	}

	for _, m := range fontFamilyRe.FindAllStringSubmatch(styles, -1) {
		add(strings.TrimSpace(strings.Split(m[1], ",")[0]))
	}

	doc.Find(`link[href*="fonts.googleapis.com"]`).Each(func(_ int, link *goquery.Selection) {
		for _, m := range googleFamilyRe.FindAllStringSubmatch(link.AttrOr("href", ""), -1) {
			name := strings.ReplaceAll(m[1], "+", " ")
			if decoded, err := url.QueryUnescape(name); err == nil {
				name = decoded
			}
			add(strings.TrimSpace(name))
		}
	})

	switch len(families) {
	case 0:
		return "", ""
	case 1:
		return families[0], families[0]
	}
	return families[0], families[1]
}

func extractProductImages(doc *goquery.Document, baseURL string) []string {
	var images []string
	for _, img := range inventory(doc, baseURL) {
		if len(images) == maxProductImages {
			break
		}
		if siteport.IsProductImage(img) {
			images = append(images, img.URL)
		}
	}
	return images
}

// metaContent returns the trimmed content attribute of the first element
// matching selector.
func metaContent(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().AttrOr("content", ""))
}
