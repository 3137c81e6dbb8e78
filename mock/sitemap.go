package mock

import (
	"context"

	"github.com/fwojciec/siteport"
)

var _ siteport.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of siteport.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *siteport.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *siteport.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
