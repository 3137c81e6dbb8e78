package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/siteport"
	"github.com/tidwall/gjson"
)

const (
	maxBreadcrumbLen  = 100
	maxCategoryLen    = 50
	maxMetaCategories = 10
)

var breadcrumbCascade = Selectors(
	`nav[aria-label="breadcrumb"] a`,
	`nav[aria-label="breadcrumb"] span`,
	".breadcrumb a",
	".breadcrumb span",
	".breadcrumbs a",
	".breadcrumbs span",
	`[itemtype*="BreadcrumbList"] [itemprop="name"]`,
	"ol.breadcrumb li",
	"ul.breadcrumb li",
)

var categoryMetaSelectors = []string{
	`meta[property="article:section"]`,
	`meta[property="product:category"]`,
	`meta[name="category"]`,
	`meta[name="keywords"]`,
}

// conceptMapping maps a keyword found in a page hint to CMS taxonomy
// concept IDs.
type conceptMapping struct {
	keyword  string
	concepts []string
}

// conceptTable is matched in order, so suggested concepts come out in a
// stable order.
var conceptTable = []conceptMapping{
	{"airlink", []string{"airlink-routers"}},
	{"router", []string{"airlink-routers"}},
	{"xr", []string{"xr-series", "airlink-routers"}},
	{"rv", []string{"rv-series", "airlink-routers"}},
	{"module", []string{"iot-modules"}},
	{"hl", []string{"hl-series", "iot-modules"}},
	{"wp", []string{"wp-series", "iot-modules"}},
	{"gateway", []string{"iot-gateways"}},
	{"connectivity", []string{"smart-connectivity"}},
	{"esim", []string{"smart-connectivity"}},
	{"fleet", []string{"transportation"}},
	{"vehicle", []string{"transportation"}},
	{"transit", []string{"transportation"}},
	{"industrial", []string{"industrial-iot"}},
	{"manufacturing", []string{"industrial-iot"}},
	{"enterprise", []string{"enterprise"}},
	{"business", []string{"enterprise"}},
	{"safety", []string{"public-safety"}},
	{"first responder", []string{"public-safety"}},
	{"emergency", []string{"public-safety"}},
	{"energy", []string{"energy-utilities"}},
	{"utility", []string{"energy-utilities"}},
	{"grid", []string{"energy-utilities"}},
}

// ExtractTaxonomy gathers classification hints for a page from its
// breadcrumbs, URL path, category meta tags and JSON-LD, and maps them to
// suggested taxonomy concepts.
func ExtractTaxonomy(doc *goquery.Document, pageURL string) siteport.TaxonomyHints {
	breadcrumbs := extractBreadcrumbs(doc)
	categories := extractMetaCategories(doc)

	schemaCategories, schemaCrumbs := extractJSONLD(doc)
	categories = append(categories, schemaCategories...)
	for _, c := range schemaCrumbs {
		breadcrumbs = appendUnique(breadcrumbs, c)
	}

	urlPath := siteport.PathSegments(pageURL)
	hints := make([]string, 0, len(breadcrumbs)+len(urlPath)+len(categories)+2)
	hints = append(hints, breadcrumbs...)
	hints = append(hints, urlPath...)
	hints = append(hints, categories...)
	hints = append(hints, text(doc.Find("h1").First()), text(doc.Find("title").First()))

	return siteport.TaxonomyHints{
		Breadcrumbs:       breadcrumbs,
		URLPath:           urlPath,
		MetaCategories:    capUnique(categories, maxMetaCategories),
		SuggestedConcepts: suggestConcepts(hints),
	}
}

func extractBreadcrumbs(doc *goquery.Document) []string {
	return breadcrumbCascade.Collect(doc.Selection, func(els *goquery.Selection) []string {
		var crumbs []string
		els.Each(func(_ int, el *goquery.Selection) {
			t := text(el)
			if t != "" && utf8.RuneCountInString(t) < maxBreadcrumbLen {
				crumbs = appendUnique(crumbs, t)
			}
		})
		return crumbs
	})
}

func extractMetaCategories(doc *goquery.Document) []string {
	var categories []string
	for _, sel := range categoryMetaSelectors {
		for _, part := range strings.Split(metaContent(doc, sel), ",") {
			part = strings.TrimSpace(part)
			if part != "" && utf8.RuneCountInString(part) < maxCategoryLen {
				categories = append(categories, part)
			}
		}
	}
	return capUnique(categories, maxMetaCategories)
}

// extractJSONLD reads Product categories and BreadcrumbList names from
// JSON-LD scripts. Invalid scripts are skipped.
func extractJSONLD(doc *goquery.Document) (categories, breadcrumbs []string) {
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := s.Text()
		if !gjson.Valid(raw) {
			return
		}
		for _, node := range jsonLDNodes(gjson.Parse(raw)) {
			switch {
			case hasType(node, "Product"):
				for _, c := range node.Get("category").Array() {
					if c.Type == gjson.String {
						categories = append(categories, c.Str)
					}
				}
			case hasType(node, "BreadcrumbList"):
				for _, item := range node.Get("itemListElement").Array() {
					if name := firstString(item, "name", "item.name"); name != "" {
						breadcrumbs = append(breadcrumbs, name)
					}
				}
			}
		}
	})
	return categories, breadcrumbs
}

// jsonLDNodes flattens a JSON-LD document into its top-level objects,
// looking inside arrays and @graph containers.
func jsonLDNodes(r gjson.Result) []gjson.Result {
	if r.IsArray() {
		var nodes []gjson.Result
		for _, el := range r.Array() {
			nodes = append(nodes, jsonLDNodes(el)...)
		}
		return nodes
	}
	if !r.IsObject() {
		return nil
	}
	if graph := member(r, "@graph"); graph.IsArray() {
		return append([]gjson.Result{r}, jsonLDNodes(graph)...)
	}
	return []gjson.Result{r}
}

func hasType(node gjson.Result, typ string) bool {
	for _, t := range member(node, "@type").Array() {
		if t.String() == typ {
			return true
		}
	}
	return false
}

// member looks up a key literally. JSON-LD keys start with "@", which gjson
// paths reserve for modifiers.
func member(obj gjson.Result, key string) gjson.Result {
	var v gjson.Result
	obj.ForEach(func(k, val gjson.Result) bool {
		if k.Str == key {
			v = val
			return false
		}
		return true
	})
	return v
}

func suggestConcepts(hints []string) []string {
	var concepts []string
	for _, h := range hints {
		h = strings.ToLower(h)
		if h == "" {
			continue
		}
		for _, m := range conceptTable {
			if !strings.Contains(h, m.keyword) {
				continue
			}
			for _, c := range m.concepts {
				concepts = appendUnique(concepts, c)
			}
		}
	}
	return concepts
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

// capUnique removes duplicates, keeping first occurrences, and returns at
// most n values.
func capUnique(list []string, n int) []string {
	var out []string
	for _, v := range list {
		if len(out) == n {
			break
		}
		out = appendUnique(out, v)
	}
	return out
}
