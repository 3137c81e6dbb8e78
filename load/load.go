// Package load writes harvested pages into the CMS as linked entries and
// enriches them with AI-generated SEO and discovery metadata.
package load

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/fwojciec/siteport"
)

// Content type IDs of the target content model.
const (
	ContentTypePage           = "page"
	ContentTypeHeroSection    = "heroSection"
	ContentTypeSection        = "section"
	ContentTypeSectionItem    = "sectionItem"
	ContentTypeNavigationItem = "navigationItem"
	ContentTypeBrandSettings  = "brandSettings"
	ContentTypeSEO            = "seo"
	ContentTypeGEO            = "geo"
)

// publisher creates entries and publishes them. A failed publish leaves a
// draft behind and is only logged.
type publisher struct {
	entries siteport.EntryService
	logger  *slog.Logger
}

func (p publisher) create(ctx context.Context, contentType string, fields siteport.Fields) (string, error) {
	return p.createWithMetadata(ctx, contentType, fields, nil)
}

func (p publisher) createWithMetadata(ctx context.Context, contentType string, fields siteport.Fields, metadata *siteport.EntryMetadata) (string, error) {
	id, err := p.entries.CreateEntry(ctx, contentType, fields, metadata)
	if err != nil {
		return "", err
	}
	if err := p.entries.PublishEntry(ctx, id); err != nil {
		p.logger.Warn("entry created but not published", "id", id, "type", contentType, "err", err)
	}
	return id, nil
}

// links returns a localized array of entry links.
func links(ids []string) map[string]any {
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, siteport.NewLink(id, siteport.LinkTypeEntry))
	}
	return siteport.Localize(out)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.New(slog.DiscardHandler)
}
