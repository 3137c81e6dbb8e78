package load

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/fwojciec/siteport"
)

// Structured loading limits.
const (
	MaxEntriesWarning  = 300
	productsPerSection = 4
	maxNavChildren     = 8
)

// StructuredResult counts what a structured load created.
type StructuredResult struct {
	HeroEntries           int    `json:"heroEntries"`
	ProductEntries        int    `json:"productEntries"`
	ProductSectionEntries int    `json:"productSectionEntries"`
	NavEntries            int    `json:"navEntries"`
	FooterEntries         int    `json:"footerEntries"`
	BrandEntries          int    `json:"brandEntries"`
	AssetCount            int    `json:"assetCount"`
	TotalEntries          int    `json:"totalEntries"`
	PageID                string `json:"pageId,omitempty"`
}

// EstimateEntries returns the number of entries loading p would create.
func EstimateEntries(p *siteport.StructuredPayload) int {
	n := len(p.Products) + (len(p.Products)+productsPerSection-1)/productsPerSection
	for _, nav := range p.Navigation {
		n += 1 + len(nav.Children)
	}
	return n + len(p.HeroBanners) + len(p.FooterLinks) + len(p.BrandLogos) + 3
}

// StructuredLoader turns a framework payload into heroes, product
// sections, navigation, footer links, a brand section, and a page.
type StructuredLoader struct {
	Entries siteport.EntryService
	Assets  siteport.AssetService
	Logger  *slog.Logger
}

// Load creates the entries for payload. Individual failures are logged
// and skipped; only cancellation is returned as an error.
func (l *StructuredLoader) Load(ctx context.Context, payload *siteport.StructuredPayload, pageName, sourceURL string) (*StructuredResult, error) {
	logger := loggerOrDiscard(l.Logger)
	pub := publisher{entries: l.Entries, logger: logger}
	result := &StructuredResult{}

	if n := EstimateEntries(payload); n > MaxEntriesWarning {
		logger.Warn("structured payload is large", "estimated", n, "threshold", MaxEntriesWarning)
	}

	heroIDs := l.loadHeroes(ctx, pub, payload.HeroBanners, pageName, result)
	sectionIDs := l.loadProducts(ctx, pub, payload.Products, result)
	l.loadNavigation(ctx, pub, payload.Navigation, result)
	l.loadFooter(ctx, pub, payload.FooterLinks, result)
	if id := l.loadBrands(ctx, pub, payload.BrandLogos, result); id != "" {
		sectionIDs = append(sectionIDs, id)
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	fields := siteport.Fields{
		"title":     siteport.Localize(pageName),
		"slug":      siteport.Localize(siteport.Slug(sourceURL)),
		"sourceUrl": siteport.Localize(sourceURL),
	}
	if len(heroIDs) > 0 {
		fields["heroSection"] = siteport.Localize(siteport.NewLink(heroIDs[0], siteport.LinkTypeEntry))
	}
	if len(sectionIDs) > 0 {
		fields["sections"] = links(sectionIDs)
	}
	pageID, err := pub.create(ctx, ContentTypePage, fields)
	if err != nil {
		logger.Warn("structured page failed", "page", pageName, "err", err)
	} else {
		result.PageID = pageID
	}

	result.TotalEntries = result.HeroEntries + result.ProductEntries + result.ProductSectionEntries +
		result.NavEntries + result.FooterEntries + result.BrandEntries
	if result.PageID != "" {
		result.TotalEntries++
	}
	return result, ctx.Err()
}

func (l *StructuredLoader) loadHeroes(ctx context.Context, pub publisher, banners []siteport.HeroBanner, pageName string, result *StructuredResult) []string {
	var ids []string
	for _, banner := range banners {
		if ctx.Err() != nil {
			return ids
		}
		headline := truncate(banner.Headline, 100)
		if headline == "" {
			headline = pageName
		}
		fields := siteport.Fields{
			"internalName": siteport.Localize("Hero — " + truncate(banner.Headline, 80)),
			"headline":     siteport.Localize(headline),
			"textAlign":    siteport.Localize("center"),
			"heroSize":     siteport.Localize("tall"),
			"colorPalette": siteport.Localize("brand-primary"),
		}
		if banner.LinkURL != "" {
			fields["ctaText"] = siteport.Localize("Learn More")
			fields["ctaLink"] = siteport.Localize(banner.LinkURL)
		}
		if banner.ImageDesktop != "" {
			name := siteport.AssetFileName(banner.ImageDesktop, "hero.jpg")
			assetID, err := l.Assets.CreateAsset(ctx, &siteport.AssetUpload{
				Title:       "Hero — " + truncate(banner.AltText, 60),
				FileName:    name,
				ContentType: siteport.GuessContentType(name, "image/jpeg"),
				URL:         banner.ImageDesktop,
			})
			if err != nil {
				pub.logger.Warn("hero image failed", "url", banner.ImageDesktop, "err", err)
			} else {
				result.AssetCount++
				fields["image"] = siteport.Localize(siteport.NewLink(assetID, siteport.LinkTypeAsset))
			}
		}

		id, err := pub.create(ctx, ContentTypeHeroSection, fields)
		if err != nil {
			pub.logger.Warn("hero failed", "headline", banner.Headline, "err", err)
			continue
		}
		ids = append(ids, id)
		result.HeroEntries++
	}
	return ids
}

// loadProducts creates product items in sections of four.
func (l *StructuredLoader) loadProducts(ctx context.Context, pub publisher, products []siteport.Product, result *StructuredResult) []string {
	var sectionIDs []string
	for start, row := 0, 1; start < len(products); start, row = start+productsPerSection, row+1 {
		end := min(start+productsPerSection, len(products))

		var itemIDs []string
		for _, p := range products[start:end] {
			if ctx.Err() != nil {
				return sectionIDs
			}
			id, err := l.loadProduct(ctx, pub, p, result)
			if err != nil {
				pub.logger.Warn("product failed", "name", p.Name, "err", err)
				continue
			}
			itemIDs = append(itemIDs, id)
			result.ProductEntries++
		}
		if len(itemIDs) == 0 {
			continue
		}

		title := "Featured Products"
		if row > 1 {
			title = fmt.Sprintf("Products — Row %d", row)
		}
		id, err := pub.create(ctx, ContentTypeSection, siteport.Fields{
			"internalName": siteport.Localize(title),
			"title":        siteport.Localize(title),
			"items":        links(itemIDs),
		})
		if err != nil {
			pub.logger.Warn("product section failed", "title", title, "err", err)
			continue
		}
		sectionIDs = append(sectionIDs, id)
		result.ProductSectionEntries++
	}
	return sectionIDs
}

func (l *StructuredLoader) loadProduct(ctx context.Context, pub publisher, p siteport.Product, result *StructuredResult) (string, error) {
	if p.ImageURL != "" {
		name := p.Slug
		if name == "" {
			name = p.SKU
		}
		_, err := l.Assets.CreateAsset(ctx, &siteport.AssetUpload{
			Title:       truncate(p.Name, 80),
			FileName:    name + ".jpg",
			ContentType: "image/jpeg",
			URL:         p.ImageURL,
		})
		if err != nil {
			pub.logger.Warn("product image failed", "url", p.ImageURL, "err", err)
		} else {
			result.AssetCount++
		}
	}

	return pub.create(ctx, ContentTypeSectionItem, siteport.Fields{
		"title":       siteport.Localize(p.Name),
		"description": siteport.Localize(ProductDescription(p)),
		"link":        siteport.Localize(p.URL),
	})
}

// ProductDescription joins the price, offer flag, and short description
// of a product.
func ProductDescription(p siteport.Product) string {
	var parts []string
	if p.Price > 0 {
		parts = append(parts, "$"+strconv.FormatFloat(p.Price, 'f', -1, 64))
	}
	if p.OfferFlag != "" {
		parts = append(parts, p.OfferFlag)
	}
	if d := truncate(p.ShortDescription, 150); d != "" {
		parts = append(parts, d)
	}
	return strings.Join(parts, " — ")
}

func (l *StructuredLoader) loadNavigation(ctx context.Context, pub publisher, items []siteport.NavItem, result *StructuredResult) {
	for _, item := range items {
		if ctx.Err() != nil {
			return
		}
		if _, err := pub.create(ctx, ContentTypeNavigationItem, navFields(item.Label, item.URL, false)); err != nil {
			pub.logger.Warn("navigation item failed", "label", item.Label, "err", err)
			continue
		}
		result.NavEntries++

		for _, child := range item.Children[:min(maxNavChildren, len(item.Children))] {
			if _, err := pub.create(ctx, ContentTypeNavigationItem, navFields(child.Label, child.URL, false)); err != nil {
				pub.logger.Debug("navigation child failed", "label", child.Label, "err", err)
				continue
			}
			result.NavEntries++
		}
	}
}

func (l *StructuredLoader) loadFooter(ctx context.Context, pub publisher, footer []siteport.NavItem, result *StructuredResult) {
	for _, link := range footer {
		if ctx.Err() != nil {
			return
		}
		external := strings.HasPrefix(link.URL, "http")
		if _, err := pub.create(ctx, ContentTypeNavigationItem, navFields(link.Label, link.URL, external)); err != nil {
			pub.logger.Debug("footer link failed", "label", link.Label, "err", err)
			continue
		}
		result.FooterEntries++
	}
}

func navFields(label, url string, external bool) siteport.Fields {
	return siteport.Fields{
		"label":      siteport.Localize(label),
		"slug":       siteport.Localize(url),
		"isExternal": siteport.Localize(external),
	}
}

// loadBrands creates one item per brand and the brand section, returning
// the section ID.
func (l *StructuredLoader) loadBrands(ctx context.Context, pub publisher, brands []siteport.BrandLogo, result *StructuredResult) string {
	var itemIDs []string
	for _, b := range brands {
		if ctx.Err() != nil {
			return ""
		}
		id, err := pub.create(ctx, ContentTypeSectionItem, siteport.Fields{
			"title":       siteport.Localize(b.Name),
			"link":        siteport.Localize(b.LinkURL),
			"description": siteport.Localize("Brand partner: " + b.Name),
		})
		if err != nil {
			pub.logger.Debug("brand failed", "name", b.Name, "err", err)
			continue
		}
		itemIDs = append(itemIDs, id)
		result.BrandEntries++
	}
	if len(itemIDs) == 0 {
		return ""
	}

	id, err := pub.create(ctx, ContentTypeSection, siteport.Fields{
		"internalName": siteport.Localize("Trusted Brands"),
		"title":        siteport.Localize("Our Trusted Brands"),
		"items":        links(itemIDs),
	})
	if err != nil {
		pub.logger.Warn("brand section failed", "err", err)
		return ""
	}
	return id
}
