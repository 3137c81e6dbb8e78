package crawl

import (
	"path"

	"github.com/fwojciec/siteport"
)

const (
	assetDir         = "harvest/assets"
	defaultAssetName = "image.jpg"
	defaultAssetType = "application/octet-stream"
	assetHashLen     = 8
)

// assetSet collects the assets of a run, once per URL. Two URLs that end
// in the same file name get distinct local names.
type assetSet struct {
	entries []siteport.AssetEntry
	byURL   map[string]bool
	byName  map[string]bool
}

func newAssetSet() *assetSet {
	return &assetSet{
		byURL:  make(map[string]bool),
		byName: make(map[string]bool),
	}
}

func (s *assetSet) addAll(refs []siteport.ImageRef) {
	for _, ref := range refs {
		s.add(ref.URL, siteport.CategorizeImage(ref))
	}
}

func (s *assetSet) addBranding(b *siteport.Branding) {
	s.add(b.LogoURL, siteport.ImageCategoryLogo)
	s.add(b.FaviconURL, siteport.ImageCategoryFavicon)
	s.add(b.HeroImageURL, siteport.ImageCategoryHero)
}

func (s *assetSet) add(assetURL string, category siteport.ImageCategory) {
	if assetURL == "" || s.byURL[assetURL] {
		return
	}
	s.byURL[assetURL] = true

	name := siteport.AssetFileName(assetURL, defaultAssetName)
	if s.byName[name] {
		hash := ContentHash(assetURL)
		name = hash[:min(assetHashLen, len(hash))] + "-" + name
	}
	s.byName[name] = true

	s.entries = append(s.entries, siteport.AssetEntry{
		OriginalURL: assetURL,
		LocalPath:   path.Join(assetDir, name),
		FileName:    name,
		ContentType: siteport.GuessContentType(name, defaultAssetType),
		Category:    category,
	})
}
