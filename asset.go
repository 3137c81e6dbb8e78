package siteport

import (
	"context"
	"path"
	"strings"
)

// ImageCategory classifies an image for the asset manifest.
type ImageCategory string

const (
	ImageCategoryLogo    ImageCategory = "logo"
	ImageCategoryFavicon ImageCategory = "favicon"
	ImageCategoryHero    ImageCategory = "hero"
	ImageCategoryProduct ImageCategory = "product"
	ImageCategorySection ImageCategory = "section"
	ImageCategoryIcon    ImageCategory = "icon"
	ImageCategoryOther   ImageCategory = "other"
)

// AssetEntry describes one asset referenced by a harvest run.
type AssetEntry struct {
	OriginalURL string        `json:"originalUrl"`
	LocalPath   string        `json:"localPath"`
	FileName    string        `json:"fileName"`
	ContentType string        `json:"contentType"`
	Category    ImageCategory `json:"category"`
	Size        int           `json:"size,omitempty"`
}

// ImageRef is an image element with the attributes used to categorize it.
type ImageRef struct {
	URL         string
	Alt         string
	Class       string
	ParentClass string
	Width       int
	Height      int
}

// ImageInventory lists the images of a page with their attributes.
type ImageInventory interface {
	Inventory(html, pageURL string) []ImageRef
}

// Download is the body of a fetched asset.
type Download struct {
	Data        []byte
	ContentType string
}

// AssetDownloader fetches binary assets, following redirects.
type AssetDownloader interface {
	Download(ctx context.Context, url string) (*Download, error)
}

// CategorizeImage maps an image to a category. Rules are checked in order
// logo, hero, product, section, icon; anything else is "other".
func CategorizeImage(img ImageRef) ImageCategory {
	u := strings.ToLower(img.URL)
	alt := strings.ToLower(img.Alt)
	class := strings.ToLower(img.Class)
	parent := strings.ToLower(img.ParentClass)

	switch {
	case strings.Contains(alt, "logo") || strings.Contains(class, "logo") || strings.Contains(u, "logo"):
		return ImageCategoryLogo
	case containsAny(class, "hero", "banner") || containsAny(parent, "hero", "banner"):
		return ImageCategoryHero
	case IsProductImage(img):
		return ImageCategoryProduct
	case strings.Contains(class, "section") || containsAny(parent, "section", "feature"):
		return ImageCategorySection
	case strings.Contains(u, "icon") || strings.Contains(alt, "icon") || strings.Contains(class, "icon"),
		img.Width > 0 && img.Width <= 64 && img.Height > 0 && img.Height <= 64:
		return ImageCategoryIcon
	}
	return ImageCategoryOther
}

// IsProductImage reports whether an image looks like a product shot.
func IsProductImage(img ImageRef) bool {
	for _, s := range []string{img.Alt, img.Class, img.ParentClass, img.URL} {
		if strings.Contains(strings.ToLower(s), "product") {
			return true
		}
	}
	if strings.Contains(img.URL, "/wp-content/uploads/") {
		return true
	}
	return img.Width > 200 && img.Height > 200
}

// IsTrackingPixel reports whether an image URL looks like a tracker,
// spacer, or tiny GIF.
func IsTrackingPixel(url string, width, height int) bool {
	if containsAny(url, "tracking", "pixel", "1x1", "spacer", "data:image") {
		return true
	}
	return strings.Contains(url, ".gif") && (width < 10 || height < 10)
}

// AssetFileName returns the last path segment of an asset URL without its
// query string, or fallback if there is none.
func AssetFileName(assetURL, fallback string) string {
	name := assetURL
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	name = name[strings.LastIndex(name, "/")+1:]
	if name == "" {
		return fallback
	}
	return name
}

var contentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"svg":  "image/svg+xml",
	"webp": "image/webp",
	"mp4":  "video/mp4",
	"webm": "video/webm",
	"ico":  "image/x-icon",
}

// GuessContentType maps a file name's extension to a MIME type, or returns
// fallback for unknown extensions.
func GuessContentType(fileName, fallback string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(AssetFileName(fileName, ""))), ".")
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return fallback
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
