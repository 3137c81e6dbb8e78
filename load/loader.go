package load

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/siteport"
)

// Page loading limits and brand defaults.
const (
	maxSections        = 10
	maxSectionItems    = 10
	heroBodyTextLength = 200

	DefaultPrimaryColor   = "#0066CC"
	DefaultSecondaryColor = "#1A1A2E"
	DefaultFont           = "Inter"
	DefaultBorderRadius   = "small"
)

// LoadOptions selects AI enrichment during a load.
type LoadOptions struct {
	SEO bool
	GEO bool
}

// PageLoadResult records the entries created for one page. Error is set
// when the page entry could not be created.
type PageLoadResult struct {
	URL        string            `json:"url"`
	PageID     string            `json:"pageId"`
	HeroID     string            `json:"heroId,omitempty"`
	SEOID      string            `json:"seoId,omitempty"`
	GEOID      string            `json:"geoId,omitempty"`
	SectionIDs []string          `json:"sectionIds"`
	AssetIDs   []string          `json:"assetIds"`
	Structured *StructuredResult `json:"structured,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// LoadResult summarizes a Load.
type LoadResult struct {
	BrandSettingsID string           `json:"brandSettingsId,omitempty"`
	Pages           []PageLoadResult `json:"pages"`
	Succeeded       int              `json:"succeeded"`
	Failed          int              `json:"failed"`
}

// Loader loads a harvest manifest into the CMS. AI and Structured are
// optional.
type Loader struct {
	Entries siteport.EntryService
	Assets  siteport.AssetService
	AI      siteport.AIActionService

	// Structured loads pages that carry a framework payload. Without it
	// those pages load from their markup like any other.
	Structured *StructuredLoader

	Now    func() time.Time
	Logger *slog.Logger
}

// Load creates brand settings and one page tree per manifest page. A page
// that fails is recorded in its result and the load continues; only
// cancellation is returned as an error.
func (l *Loader) Load(ctx context.Context, manifest *siteport.Manifest, opts LoadOptions) (*LoadResult, error) {
	logger := loggerOrDiscard(l.Logger)
	pub := publisher{entries: l.Entries, logger: logger}

	actions := &siteport.AIActions{}
	if (opts.SEO || opts.GEO) && l.AI != nil {
		found, err := l.AI.FindActions(ctx)
		if err != nil {
			logger.Warn("could not list AI actions", "err", err)
		} else {
			actions = found
		}
		if actions.SEO == "" && actions.GEO == "" {
			logger.Warn("no AI actions found; pages load without SEO or GEO")
		}
	}

	result := &LoadResult{Pages: make([]PageLoadResult, 0, len(manifest.Pages))}
	if manifest.Branding != nil {
		id, err := pub.create(ctx, ContentTypeBrandSettings, brandFields(manifest))
		if err != nil {
			logger.Warn("brand settings failed", "err", err)
		} else {
			result.BrandSettingsID = id
		}
	}

	for _, page := range manifest.Pages {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		var r PageLoadResult
		if page.StructuredData != nil && l.Structured != nil {
			r = l.loadStructured(ctx, page)
		} else {
			r = l.loadPage(ctx, pub, page, actions, opts)
		}
		if r.Error != "" {
			result.Failed++
			logger.Warn("page load failed", "url", page.URL, "err", r.Error)
		} else {
			result.Succeeded++
			logger.Info("page loaded", "url", page.URL, "page", r.PageID, "sections", len(r.SectionIDs))
		}
		result.Pages = append(result.Pages, r)
	}
	return result, ctx.Err()
}

func brandFields(m *siteport.Manifest) siteport.Fields {
	b := m.Branding
	name := "Site"
	if m.Config != nil && m.Config.Name != "" {
		name = m.Config.Name
	}
	return siteport.Fields{
		"internalName":   siteport.Localize(name + " Brand"),
		"primaryColor":   siteport.Localize(or(b.PrimaryColor, DefaultPrimaryColor)),
		"secondaryColor": siteport.Localize(or(b.SecondaryColor, DefaultSecondaryColor)),
		"headingFont":    siteport.Localize(or(b.HeadingFont, DefaultFont)),
		"bodyFont":       siteport.Localize(or(b.BodyFont, DefaultFont)),
		"borderRadius":   siteport.Localize(or(b.BorderRadius, DefaultBorderRadius)),
	}
}

func (l *Loader) loadStructured(ctx context.Context, page *siteport.Page) PageLoadResult {
	r := PageLoadResult{URL: page.URL, SectionIDs: []string{}, AssetIDs: []string{}}
	sr, err := l.Structured.Load(ctx, page.StructuredData, page.Title, page.URL)
	r.Structured = sr
	switch {
	case err != nil:
		r.Error = err.Error()
	case sr.PageID == "":
		r.Error = "page entry not created"
	default:
		r.PageID = sr.PageID
	}
	return r
}

// loadPage creates the hero, sections, optional seo and geo entries, and
// the page entry that links them.
func (l *Loader) loadPage(ctx context.Context, pub publisher, page *siteport.Page, actions *siteport.AIActions, opts LoadOptions) PageLoadResult {
	r := PageLoadResult{URL: page.URL, SectionIDs: []string{}, AssetIDs: []string{}}

	heroFields := siteport.Fields{
		"internalName": siteport.Localize("Hero — " + page.Title),
		"headline":     siteport.Localize(or(page.H1, page.Title)),
		"bodyText":     siteport.Localize(or(page.HeroSubtitle, truncate(page.Description, heroBodyTextLength))),
		"textAlign":    siteport.Localize("left"),
		"heroSize":     siteport.Localize("standard"),
		"colorPalette": siteport.Localize("brand-primary"),
	}
	if page.HeroCTAText != "" {
		heroFields["ctaText"] = siteport.Localize(page.HeroCTAText)
		heroFields["ctaLink"] = siteport.Localize(or(page.HeroCTALink, "#"))
	}
	if assetID := l.uploadHero(ctx, pub.logger, page); assetID != "" {
		r.AssetIDs = append(r.AssetIDs, assetID)
		heroFields["image"] = siteport.Localize(siteport.NewLink(assetID, siteport.LinkTypeAsset))
	}
	heroID, err := pub.create(ctx, ContentTypeHeroSection, heroFields)
	if err != nil {
		r.Error = "hero section: " + err.Error()
		return r
	}
	r.HeroID = heroID

	for _, section := range page.Sections[:min(maxSections, len(page.Sections))] {
		if id := l.loadSection(ctx, pub, section); id != "" {
			r.SectionIDs = append(r.SectionIDs, id)
		}
	}

	enricher := &Enricher{Entries: l.Entries, AI: l.AI, Now: l.Now, Logger: pub.logger}
	if opts.SEO && actions.SEO != "" {
		seo, err := enricher.GenerateSEO(ctx, actions.SEO, page.Title, page.Description)
		if err == nil {
			r.SEOID, err = enricher.CreateSEOEntry(ctx, seo)
		}
		if err != nil {
			pub.logger.Warn("SEO generation failed", "page", page.Title, "err", err)
		}
	}
	if opts.GEO && actions.GEO != "" {
		geo, err := enricher.GenerateGEO(ctx, actions.GEO, page.Title, page.Description, DefaultGEOCategory)
		if err == nil {
			r.GEOID, err = enricher.CreateGEOEntry(ctx, geo)
		}
		if err != nil {
			pub.logger.Warn("GEO generation failed", "page", page.Title, "err", err)
		}
	}

	fields := siteport.Fields{
		"title":       siteport.Localize(page.Title),
		"slug":        siteport.Localize(page.Slug),
		"sourceUrl":   siteport.Localize(page.URL),
		"heroSection": siteport.Localize(siteport.NewLink(heroID, siteport.LinkTypeEntry)),
	}
	if len(r.SectionIDs) > 0 {
		fields["sections"] = links(r.SectionIDs)
	}
	if r.SEOID != "" {
		fields["seo"] = siteport.Localize(siteport.NewLink(r.SEOID, siteport.LinkTypeEntry))
	}
	if r.GEOID != "" {
		fields["geo"] = siteport.Localize(siteport.NewLink(r.GEOID, siteport.LinkTypeEntry))
	}
	pageID, err := pub.create(ctx, ContentTypePage, fields)
	if err != nil {
		r.Error = "page: " + err.Error()
		return r
	}
	r.PageID = pageID
	return r
}

// uploadHero imports the page's hero image: the branding hero, else the
// Open Graph image, else the first image. It returns "" when there is no
// image or the import fails.
func (l *Loader) uploadHero(ctx context.Context, logger *slog.Logger, page *siteport.Page) string {
	var heroURL string
	if page.Branding != nil {
		heroURL = page.Branding.HeroImageURL
	}
	heroURL = or(heroURL, page.OGImage)
	if heroURL == "" && len(page.Images) > 0 {
		heroURL = page.Images[0]
	}
	if heroURL == "" {
		return ""
	}

	name := siteport.AssetFileName(heroURL, "hero.jpg")
	id, err := l.Assets.CreateAsset(ctx, &siteport.AssetUpload{
		Title:       page.Title + " — Hero Image",
		FileName:    name,
		ContentType: siteport.GuessContentType(name, "image/jpeg"),
		URL:         heroURL,
	})
	if err != nil {
		logger.Warn("hero image failed", "url", heroURL, "err", err)
		return ""
	}
	return id
}

// loadSection creates a section and its items. A failed item is skipped;
// a failed section returns "".
func (l *Loader) loadSection(ctx context.Context, pub publisher, section siteport.Section) string {
	var itemIDs []string
	for _, item := range section.Items[:min(maxSectionItems, len(section.Items))] {
		id, err := pub.create(ctx, ContentTypeSectionItem, siteport.Fields{
			"title":       siteport.Localize(item.Name),
			"description": siteport.Localize(item.Description),
			"link":        siteport.Localize(item.Link),
		})
		if err != nil {
			pub.logger.Warn("section item failed", "section", section.Title, "item", item.Name, "err", err)
			continue
		}
		itemIDs = append(itemIDs, id)
	}

	id, err := pub.create(ctx, ContentTypeSection, siteport.Fields{
		"internalName": siteport.Localize("Section — " + section.Title),
		"title":        siteport.Localize(section.Title),
		"items":        links(itemIDs),
	})
	if err != nil {
		pub.logger.Warn("section failed", "section", section.Title, "err", err)
		return ""
	}
	return id
}

func or(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
