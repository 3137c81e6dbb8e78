package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/siteport"
)

// ExtractImages returns the absolute URLs of the content images on a page
// in document order, without duplicates. Inline data URIs, tracking pixels
// and spacers are skipped.
func ExtractImages(doc *goquery.Document, baseURL string) []string {
	refs := inventory(doc, baseURL)
	images := make([]string, 0, len(refs))
	for _, r := range refs {
		images = append(images, r.URL)
	}
	return images
}

// inventory lists each kept image once, with the attributes of its first
// occurrence.
func inventory(doc *goquery.Document, baseURL string) []siteport.ImageRef {
	var refs []siteport.ImageRef
	seen := make(map[string]bool)
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src := firstAttr(img, "src", "data-src", "data-lazy-src")
		if src == "" || strings.HasPrefix(src, "data:") {
			return
		}
		abs := siteport.MakeAbsolute(src, baseURL)
		if abs == "" || strings.HasPrefix(abs, "data:") || seen[abs] {
			return
		}
		width := atoiPrefix(img.AttrOr("width", ""))
		height := atoiPrefix(img.AttrOr("height", ""))
		if siteport.IsTrackingPixel(abs, width, height) {
			return
		}
		seen[abs] = true
		refs = append(refs, siteport.ImageRef{
			URL:         abs,
			Alt:         img.AttrOr("alt", ""),
			Class:       img.AttrOr("class", ""),
			ParentClass: img.Parent().AttrOr("class", ""),
			Width:       width,
			Height:      height,
		})
	})
	return refs
}
