package goquery_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/siteport"
	"github.com/fwojciec/siteport/goquery"
	"github.com/stretchr/testify/assert"
)

// Ensure Detector implements siteport.StrategyDetector at compile time.
var _ siteport.StrategyDetector = (*goquery.Detector)(nil)

// padded wraps body in a document large enough to pass the blocked-page
// size check.
func padded(body string) string {
	return `<!DOCTYPE html><html><head><title>T</title></head><body>` +
		body +
		`<!-- ` + strings.Repeat("x", 6000) + ` -->` +
		`</body></html>`
}

func TestDetector_Detect(t *testing.T) {
	t.Parallel()

	t.Run("classifies embedded Next.js data as nextjs with high confidence", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div id="__next"></div>
<script id="__NEXT_DATA__" type="application/json">{"buildId":"abc123","props":{"pageProps":{"catalogData":{"homeProducts":{"items":[]}},"pageData":{"atlasNav":{"content":"[]"}}}}}</script>
</body></html>`

		r := goquery.NewDetector().Detect(html, "https://shop.example.com/")

		assert.Equal(t, siteport.StrategyNextJS, r.Strategy)
		assert.Equal(t, "Next.js", r.Framework)
		assert.Equal(t, "abc123", r.FrameworkVersion)
		assert.Equal(t, siteport.ConfidenceHigh, r.Confidence)
		assert.True(t, r.HasStructuredData)
		assert.True(t, r.HasProducts)
		assert.True(t, r.HasNavigation)
		assert.Equal(t, len(html), r.PageSize)
	})

	t.Run("reads nested pageProps", func(t *testing.T) {
		t.Parallel()

		html := `<script id="__NEXT_DATA__">{"props":{"pageProps":{"pageProps":{"catalogData":{"homeProducts":{"items":[{}]}}}}}}</script>`

		r := goquery.NewDetector().Detect(html, "https://a.com/")

		assert.True(t, r.HasProducts)
		assert.False(t, r.HasNavigation)
	})

	t.Run("keeps nextjs with false flags when embedded JSON is malformed", func(t *testing.T) {
		t.Parallel()

		html := `<script id="__NEXT_DATA__">{not json</script>`

		r := goquery.NewDetector().Detect(html, "https://a.com/")

		assert.Equal(t, siteport.StrategyNextJS, r.Strategy)
		assert.False(t, r.HasProducts)
		assert.False(t, r.HasNavigation)
		assert.Empty(t, r.FrameworkVersion)
	})

	t.Run("prefers embedded data over React markers", func(t *testing.T) {
		t.Parallel()

		html := padded(`<div data-reactroot=""><h1>Hi</h1></div>
<script id="__NEXT_DATA__">{"props":{"pageProps":{}}}</script>`)

		r := goquery.NewDetector().Detect(html, "https://a.com/")

		assert.Equal(t, siteport.StrategyNextJS, r.Strategy)
	})

	t.Run("classifies Nuxt markers as nuxtjs", func(t *testing.T) {
		t.Parallel()

		html := padded(`<h1>Shop</h1><script src="/_nuxt/app.js"></script>`)

		r := goquery.NewDetector().Detect(html, "https://a.com/")

		assert.Equal(t, siteport.StrategyNuxtJS, r.Strategy)
		assert.Equal(t, siteport.ConfidenceMedium, r.Confidence)
	})

	t.Run("classifies Gatsby markers as gatsby", func(t *testing.T) {
		t.Parallel()

		html := padded(`<div id="___gatsby"><h1>Blog</h1></div>`)

		r := goquery.NewDetector().Detect(html, "https://a.com/")

		assert.Equal(t, siteport.StrategyGatsby, r.Strategy)
		assert.Contains(t, r.Recommendation, "static HTML extraction")
	})

	t.Run("classifies a small page as blocked even with React markers", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><div data-reactroot="">` + strings.Repeat("a", 3900) + `</div></body></html>`

		r := goquery.NewDetector().Detect(html, "https://a.com/")

		assert.Less(t, len(html), 5000)
		assert.Equal(t, siteport.StrategyBlocked, r.Strategy)
		assert.Equal(t, siteport.ConfidenceHigh, r.Confidence)
	})

	t.Run("classifies a large page without headings or main content as blocked", func(t *testing.T) {
		t.Parallel()

		r := goquery.NewDetector().Detect(padded(`<div>Checking your browser</div>`), "https://a.com/")

		assert.Equal(t, siteport.StrategyBlocked, r.Strategy)
	})

	t.Run("classifies React markers with content as react-static", func(t *testing.T) {
		t.Parallel()

		r := goquery.NewDetector().Detect(padded(`<div data-reactroot=""><main>Content</main></div>`), "https://a.com/")

		assert.Equal(t, siteport.StrategyReactStatic, r.Strategy)
		assert.Equal(t, siteport.ConfidenceLow, r.Confidence)
	})

	t.Run("classifies plain markup as static with structure signals", func(t *testing.T) {
		t.Parallel()

		html := padded(`<nav><a href="/">Home</a></nav><h1>Welcome</h1><div class="product-card">X</div>`)

		r := goquery.NewDetector().Detect(html, "https://a.com/")

		assert.Equal(t, siteport.StrategyStatic, r.Strategy)
		assert.Equal(t, siteport.ConfidenceMedium, r.Confidence)
		assert.True(t, r.HasProducts)
		assert.True(t, r.HasNavigation)
		assert.False(t, r.HasStructuredData)
	})

	t.Run("gives low confidence to static pages without structure", func(t *testing.T) {
		t.Parallel()

		r := goquery.NewDetector().Detect(padded(`<article>Text</article>`), "https://a.com/")

		assert.Equal(t, siteport.StrategyStatic, r.Strategy)
		assert.Equal(t, siteport.ConfidenceLow, r.Confidence)
	})
}
