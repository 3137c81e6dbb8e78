package load

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/siteport"
)

// Enrichment defaults.
const (
	DefaultGEOCategory = "General"
	enrichPageLimit    = 100
)

// EnrichOptions selects which metadata EnrichPages generates.
type EnrichOptions struct {
	SEO bool
	GEO bool
}

// EnrichResult summarizes an EnrichPages run.
type EnrichResult struct {
	Pages      int
	SEOCreated int
	GEOCreated int
	Errors     []string
}

// Enricher generates SEO and AI discovery entries with an AIActionService.
type Enricher struct {
	Entries siteport.EntryService
	AI      siteport.AIActionService
	Now     func() time.Time
	Logger  *slog.Logger
}

// GenerateSEO runs the SEO action for a page.
func (e *Enricher) GenerateSEO(ctx context.Context, actionID, title, description string) (siteport.SEOFields, error) {
	out, err := e.AI.InvokeAction(ctx, actionID, map[string]string{
		"title":       title,
		"description": description,
	})
	if err != nil {
		return siteport.SEOFields{}, err
	}
	return siteport.ParseSEOOutput(out), nil
}

// GenerateGEO runs the AI discovery action for a product or page.
func (e *Enricher) GenerateGEO(ctx context.Context, actionID, name, description, category string) (siteport.GEOFields, error) {
	out, err := e.AI.InvokeAction(ctx, actionID, map[string]string{
		"productName":        name,
		"productDescription": description,
		"productCategory":    category,
	})
	if err != nil {
		return siteport.GEOFields{}, err
	}
	return siteport.ParseGEOOutput(out), nil
}

// CreateSEOEntry creates and publishes a seo entry.
func (e *Enricher) CreateSEOEntry(ctx context.Context, seo siteport.SEOFields) (string, error) {
	return e.publisher().create(ctx, ContentTypeSEO, siteport.Fields{
		"metaTitle":       siteport.Localize(seo.MetaTitle),
		"metaDescription": siteport.Localize(seo.MetaDescription),
		"keywords":        siteport.Localize(nonNil(seo.Keywords)),
		"ogTitle":         siteport.Localize(seo.OGTitle),
		"ogDescription":   siteport.Localize(seo.OGDescription),
	})
}

// CreateGEOEntry creates and publishes a geo entry stamped with the
// verification time.
func (e *Enricher) CreateGEOEntry(ctx context.Context, geo siteport.GEOFields) (string, error) {
	faq := geo.AIFAQ
	if faq == nil {
		faq = []siteport.FAQ{}
	}
	return e.publisher().create(ctx, ContentTypeGEO, siteport.Fields{
		"aiSummary":         siteport.Localize(geo.AISummary),
		"aiBestFor":         siteport.Localize(nonNil(geo.AIBestFor)),
		"aiIntents":         siteport.Localize(nonNil(geo.AIIntents)),
		"aiKeyPoints":       siteport.Localize(nonNil(geo.AIKeyPoints)),
		"aiDifferentiators": siteport.Localize(nonNil(geo.AIDifferentiators)),
		"aiCompetitors":     siteport.Localize(nonNil(geo.AICompetitors)),
		"aiFaq":             siteport.Localize(map[string]any{"items": faq}),
		"aiLastVerified":    siteport.Localize(e.now().UTC().Format(time.RFC3339)),
	})
}

// EnrichPages adds seo and geo entries to CMS pages that lack them. A
// page that fails is recorded and skipped. It fails only when the
// available actions cannot be listed or the pages cannot be found.
func (e *Enricher) EnrichPages(ctx context.Context, opts EnrichOptions) (*EnrichResult, error) {
	actions, err := e.AI.FindActions(ctx)
	if err != nil {
		return nil, fmt.Errorf("find AI actions: %w", err)
	}
	if opts.SEO && actions.SEO == "" {
		e.logger().Warn("no SEO action available")
	}
	if opts.GEO && actions.GEO == "" {
		e.logger().Warn("no AI discovery action available")
	}

	pages, err := e.Entries.FindEntries(ctx, siteport.EntryFilter{ContentType: ContentTypePage, Limit: enrichPageLimit})
	if err != nil {
		return nil, fmt.Errorf("find pages: %w", err)
	}

	result := &EnrichResult{Pages: len(pages), Errors: []string{}}
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		title, _ := page.Value("title").(string)
		if title == "" {
			title = "Untitled"
		}
		description, _ := page.Value("sourceUrl").(string)
		if description == "" {
			description = title
		}

		if opts.SEO && actions.SEO != "" && page.Value("seo") == nil {
			err := e.enrich(ctx, page.ID, "seo", func() (string, error) {
				seo, err := e.GenerateSEO(ctx, actions.SEO, title, description)
				if err != nil {
					return "", err
				}
				return e.CreateSEOEntry(ctx, seo)
			})
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("SEO %s: %v", title, err))
			} else {
				result.SEOCreated++
			}
		}

		if opts.GEO && actions.GEO != "" && page.Value("geo") == nil {
			err := e.enrich(ctx, page.ID, "geo", func() (string, error) {
				geo, err := e.GenerateGEO(ctx, actions.GEO, title, description, DefaultGEOCategory)
				if err != nil {
					return "", err
				}
				return e.CreateGEOEntry(ctx, geo)
			})
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("GEO %s: %v", title, err))
			} else {
				result.GEOCreated++
			}
		}
	}
	return result, nil
}

// enrich creates a metadata entry with generate, links it from the page's
// field, and republishes the page.
func (e *Enricher) enrich(ctx context.Context, pageID, field string, generate func() (string, error)) error {
	id, err := generate()
	if err != nil {
		e.logger().Warn("enrichment failed", "page", pageID, "field", field, "err", err)
		return err
	}

	page, err := e.Entries.GetEntry(ctx, pageID)
	if err != nil {
		return err
	}
	if page.Fields == nil {
		page.Fields = siteport.Fields{}
	}
	page.Fields[field] = siteport.Localize(siteport.NewLink(id, siteport.LinkTypeEntry))
	if err := e.Entries.UpdateEntry(ctx, page); err != nil {
		return err
	}
	if err := e.Entries.PublishEntry(ctx, pageID); err != nil {
		e.logger().Warn("page updated but not published", "page", pageID, "err", err)
	}
	e.logger().Info("page enriched", "page", pageID, "field", field, "entry", id)
	return nil
}

func (e *Enricher) publisher() publisher {
	return publisher{entries: e.Entries, logger: e.logger()}
}

func (e *Enricher) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Enricher) logger() *slog.Logger {
	return loggerOrDiscard(e.Logger)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
