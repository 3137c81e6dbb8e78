package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/siteport"
)

var _ siteport.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService logs each sitemap expansion of a harvest run: the
// site, how many include and exclude patterns applied, and how many page
// URLs survived them.
type LoggingSitemapService struct {
	next   siteport.SitemapService
	logger *slog.Logger
}

func NewLoggingSitemapService(next siteport.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *siteport.URLFilter) (urls []string, err error) {
	var include, exclude int
	if filter != nil {
		include, exclude = len(filter.Include), len(filter.Exclude)
	}
	defer func(begin time.Time) {
		s.logger.Info("sitemap expansion",
			"site", baseURL,
			"include", include,
			"exclude", exclude,
			"pages", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}
