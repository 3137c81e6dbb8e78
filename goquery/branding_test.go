package goquery_test

import (
	"strings"
	"testing"

	pq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/siteport/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, html string) *pq.Document {
	t.Helper()
	doc, err := pq.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractBranding(t *testing.T) {
	t.Parallel()

	t.Run("prefers a header logo over other logo images", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<html><body>
<img src="/footer-logo.png" alt="logo">
<header><img src="/img/brand.svg" alt="ACME Logo"></header>
</body></html>`)

		b := goquery.ExtractBranding(doc, "https://acme.com")

		assert.Equal(t, "https://acme.com/img/brand.svg", b.LogoURL)
	})

	t.Run("matches logo attributes case-insensitively", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<div><img src="//cdn.acme.com/a.png" class="SiteLOGO"></div>`)

		b := goquery.ExtractBranding(doc, "https://acme.com")

		assert.Equal(t, "https://cdn.acme.com/a.png", b.LogoURL)
	})

	t.Run("skips logo candidates that look like trackers", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<header><img src="/tracking/logo.gif" alt="logo"></header>
<div class="logo"><img data-src="/real.png"></div>`)

		b := goquery.ExtractBranding(doc, "https://acme.com")

		assert.Equal(t, "https://acme.com/real.png", b.LogoURL)
	})

	t.Run("prefers icon over shortcut icon and apple-touch-icon", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<head>
<link rel="apple-touch-icon" href="/apple.png">
<link rel="shortcut icon" href="/short.ico">
<link rel="icon" href="/icon.png">
</head>`)

		b := goquery.ExtractBranding(doc, "https://acme.com")

		assert.Equal(t, "https://acme.com/icon.png", b.FaviconURL)
	})

	t.Run("reads hero images from background-image styles", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<div style="background-image: url('/bg/hero.jpg')"></div>`)

		b := goquery.ExtractBranding(doc, "https://acme.com")

		assert.Equal(t, "https://acme.com/bg/hero.jpg", b.HeroImageURL)
	})

	t.Run("falls back to og:image for the hero", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<head><meta property="og:image" content="/og.png"></head><body></body>`)

		b := goquery.ExtractBranding(doc, "https://acme.com")

		assert.Equal(t, "https://acme.com/og.png", b.HeroImageURL)
	})

	t.Run("ranks colors by frequency and keeps first-seen order on ties", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<style>
a { color: #112233; }
b { color: #445566; }
c { color: #fff; background: #FFFFFF; }
d { color: #778899; border-color: #778899; }
</style>`)

		b := goquery.ExtractBranding(doc, "https://acme.com")

		assert.Equal(t, "#778899", b.PrimaryColor)
		assert.Equal(t, "#112233", b.SecondaryColor)
		assert.Equal(t, "#445566", b.AccentColor)
	})

	t.Run("lets theme-color win primary", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<meta name="theme-color" content="#ff6600"><style>a{color:#123456}</style>`)

		b := goquery.ExtractBranding(doc, "https://acme.com")

		assert.Equal(t, "#ff6600", b.PrimaryColor)
		assert.Equal(t, "", b.SecondaryColor)
	})

	t.Run("never reports ignored colors", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<style>a{color:#333}b{color:#000000}c{color:#FFF}</style>`)

		b := goquery.ExtractBranding(doc, "https://acme.com")

		assert.Empty(t, b.PrimaryColor)
		assert.Empty(t, b.SecondaryColor)
		assert.Empty(t, b.AccentColor)
	})

	t.Run("ignores a theme-color on the ignore list", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<meta name="theme-color" content="#FFFFFF"><style>a{color:#123456}</style>`)

		b := goquery.ExtractBranding(doc, "https://acme.com")

		assert.Equal(t, "#123456", b.PrimaryColor)
		assert.Empty(t, b.SecondaryColor)
	})

	t.Run("does not repeat the theme-color as secondary or accent", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<meta name="theme-color" content="#aa0000">
<style>a{color:#112233}b{color:#112233}c{color:#AA0000}d{color:#445566}</style>`)

		b := goquery.ExtractBranding(doc, "https://acme.com")

		assert.Equal(t, "#aa0000", b.PrimaryColor)
		assert.Equal(t, "#112233", b.SecondaryColor)
		assert.Equal(t, "#445566", b.AccentColor)
	})

	t.Run("counts colors case-insensitively", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<style>a{color:#ABCDEF}b{color:#abcdef}c{color:#ABCDEF}d{color:rgb(1, 2, 3)}e{color:rgb(1,2,3)}</style>`)

		b := goquery.ExtractBranding(doc, "https://acme.com")

		assert.Equal(t, "#abcdef", b.PrimaryColor)
		assert.Equal(t, "rgb(1,2,3)", b.SecondaryColor)
		assert.Empty(t, b.AccentColor)
	})

	t.Run("deduplicates fonts case-insensitively", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<style>h1{font-family: Inter}p{font-family: inter}small{font-family: Lora}</style>`)

		b := goquery.ExtractBranding(doc, "https://acme.com")

		assert.Equal(t, "Inter", b.HeadingFont)
		assert.Equal(t, "Lora", b.BodyFont)
	})

	t.Run("collects fonts from styles and Google Fonts without generics", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<head>
<style>body { font-family: sans-serif; } h1 { font-family: 'Playfair Display', serif; }</style>
<link href="https://fonts.googleapis.com/css2?family=Open+Sans:wght@400&family=Playfair+Display" rel="stylesheet">
</head>`)

		b := goquery.ExtractBranding(doc, "https://acme.com")

		assert.Equal(t, "Playfair Display", b.HeadingFont)
		assert.Equal(t, "Open Sans", b.BodyFont)
	})

	t.Run("uses the heading font as body font when only one is found", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<style>@font-face { font-family: "Inter"; src: url(/inter.woff2); }</style>`)

		b := goquery.ExtractBranding(doc, "https://acme.com")

		assert.Equal(t, "Inter", b.HeadingFont)
		assert.Equal(t, "Inter", b.BodyFont)
	})

	t.Run("caps product images at ten", func(t *testing.T) {
		t.Parallel()

		var sb strings.Builder
		for i := 0; i < 15; i++ {
			sb.WriteString(`<img src="/products/p` + string(rune('a'+i)) + `.jpg">`)
		}
		doc := mustDoc(t, sb.String())

		b := goquery.ExtractBranding(doc, "https://acme.com")

		assert.Len(t, b.ProductImages, 10)
		assert.Equal(t, "https://acme.com/products/pa.jpg", b.ProductImages[0])
	})

	t.Run("treats large images as product images", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<img src="/a.jpg" width="300" height="300"><img src="/b.jpg" width="100" height="300">`)

		b := goquery.ExtractBranding(doc, "https://acme.com")

		assert.Equal(t, []string{"https://acme.com/a.jpg"}, b.ProductImages)
	})
}
