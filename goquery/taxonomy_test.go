package goquery_test

import (
	"testing"

	"github.com/fwojciec/siteport/goquery"
	"github.com/stretchr/testify/assert"
)

func TestExtractTaxonomy(t *testing.T) {
	t.Parallel()

	t.Run("uses the first breadcrumb family that yields text", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<nav aria-label="breadcrumb"><a href="/">Home</a><a href="/routers">Routers</a><a href="/routers">Routers</a></nav>
<ol class="breadcrumb"><li>Ignored</li></ol>`)

		h := goquery.ExtractTaxonomy(doc, "https://acme.com/routers/xr80")

		assert.Equal(t, []string{"Home", "Routers"}, h.Breadcrumbs)
		assert.Equal(t, []string{"routers", "xr80"}, h.URLPath)
	})

	t.Run("splits category meta tags and caps them at ten", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<head>
<meta property="article:section" content="News">
<meta name="keywords" content="a, b, c, d, e, f, g, h, i, j, k, News">
</head>`)

		h := goquery.ExtractTaxonomy(doc, "https://acme.com/")

		assert.Equal(t, []string{"News", "a", "b", "c", "d", "e", "f", "g", "h", "i"}, h.MetaCategories)
	})

	t.Run("merges JSON-LD product categories and breadcrumb names", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<head>
<script type="application/ld+json">{"@type":"Product","category":["Gateways", 7]}</script>
<script type="application/ld+json">{"@context":"https://schema.org","@graph":[{"@type":"BreadcrumbList","itemListElement":[{"name":"Home"},{"item":{"name":"Fleet"}}]}]}</script>
<script type="application/ld+json">{broken</script>
</head><body><ul class="breadcrumbs"><span>Home</span></ul></body>`)

		h := goquery.ExtractTaxonomy(doc, "https://acme.com/")

		assert.Equal(t, []string{"Gateways"}, h.MetaCategories)
		assert.Equal(t, []string{"Home", "Fleet"}, h.Breadcrumbs)
	})

	t.Run("suggests concepts from the ordered keyword table", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<head><title>Fleet Routers | ACME</title></head><body><h1>Rugged router for vehicles</h1></body>`)

		h := goquery.ExtractTaxonomy(doc, "https://acme.com/products/gateway")

		assert.Equal(t, []string{"iot-gateways", "airlink-routers", "transportation"}, h.SuggestedConcepts)
	})

	t.Run("returns no concepts when nothing matches", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<title>About us</title>`)

		h := goquery.ExtractTaxonomy(doc, "https://acme.com/about")

		assert.Empty(t, h.SuggestedConcepts)
	})
}
