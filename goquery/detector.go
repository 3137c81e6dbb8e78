package goquery

import (
	"strings"

	"github.com/fwojciec/siteport"
	"github.com/tidwall/gjson"
)

// Ensure Detector implements siteport.StrategyDetector at compile time.
var _ siteport.StrategyDetector = (*Detector)(nil)

// minRenderedSize is the page size below which a response is treated as a
// bot wall or an empty shell rather than content.
const minRenderedSize = 5000

// Detector infers how a site renders its content and which extraction
// path fits it. Checks run in precedence order: embedded Next.js data,
// Nuxt markers, Gatsby markers, blocked pages, client-rendered React, and
// finally plain static markup.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect classifies html. It never fails; unparseable markup is treated as
// an empty document.
func (d *Detector) Detect(html, pageURL string) *siteport.DetectionResult {
	size := len(html)
	doc := document(html)

	if raw := strings.TrimSpace(doc.Find("#__NEXT_DATA__").First().Text()); raw != "" {
		return detectNext(raw, size)
	}

	if strings.Contains(html, "__NUXT__") || strings.Contains(html, "__NUXT_DATA__") || strings.Contains(html, "_nuxt") {
		return &siteport.DetectionResult{
			Strategy:          siteport.StrategyNuxtJS,
			Framework:         "Nuxt.js",
			HasStructuredData: true,
			PageSize:          size,
			Confidence:        siteport.ConfidenceMedium,
			Recommendation:    "Parse __NUXT__ or __NUXT_DATA__ payload",
		}
	}

	if strings.Contains(html, "___gatsby") || strings.Contains(html, "gatsby-") {
		return &siteport.DetectionResult{
			Strategy:       siteport.StrategyGatsby,
			Framework:      "Gatsby",
			PageSize:       size,
			Confidence:     siteport.ConfidenceMedium,
			Recommendation: "Use static HTML extraction",
		}
	}

	hasH1 := doc.Find("h1").Length() > 0
	hasMain := doc.Find("main").Length() > 0
	hasArticle := doc.Find("article").Length() > 0
	if size < minRenderedSize || (!hasH1 && !hasMain && !hasArticle) {
		return &siteport.DetectionResult{
			Strategy:       siteport.StrategyBlocked,
			PageSize:       size,
			Confidence:     siteport.ConfidenceHigh,
			Recommendation: "Site blocked scraping. Try: 1) Save HTML from a browser and set htmlFile, 2) Wayback Machine snapshot, 3) the browser adapter",
		}
	}

	if strings.Contains(html, "data-reactroot") || strings.Contains(html, "_reactRoot") || strings.Contains(html, "__REACT_DEVTOOLS") {
		return &siteport.DetectionResult{
			Strategy:       siteport.StrategyReactStatic,
			Framework:      "React",
			PageSize:       size,
			Confidence:     siteport.ConfidenceLow,
			Recommendation: "JS-rendered React app. Use the browser adapter",
		}
	}

	hasNav := doc.Find("nav").Length() > 0
	confidence := siteport.ConfidenceLow
	if hasH1 || doc.Find("h2").Length() > 2 || hasNav {
		confidence = siteport.ConfidenceMedium
	}
	return &siteport.DetectionResult{
		Strategy:       siteport.StrategyStatic,
		HasProducts:    doc.Find(`[class*="product"], [data-product]`).Length() > 0,
		HasNavigation:  hasNav,
		PageSize:       size,
		Confidence:     confidence,
		Recommendation: "Use CSS selector extraction",
	}
}

// detectNext inspects the embedded Next.js payload. Malformed JSON still
// counts as Next.js; only the content flags stay false.
func detectNext(raw string, size int) *siteport.DetectionResult {
	r := &siteport.DetectionResult{
		Strategy:          siteport.StrategyNextJS,
		Framework:         "Next.js",
		HasStructuredData: true,
		PageSize:          size,
		Confidence:        siteport.ConfidenceHigh,
		Recommendation:    "Use __NEXT_DATA__ structured JSON extraction",
	}
	if !gjson.Valid(raw) {
		return r
	}
	root := gjson.Parse(raw)
	if id := root.Get("buildId"); truthy(id) {
		r.FrameworkVersion = id.String()
	}
	pp := pageProps(root)
	if !pp.Exists() {
		return r
	}
	r.HasProducts = pp.Get("catalogData.homeProducts.items").IsArray()
	r.HasNavigation = truthy(pp.Get("pageData.atlasNav.content"))
	return r
}
