package siteport

import (
	"context"
	"regexp"
)

// SitemapService lists the pages a site advertises in its sitemaps.
type SitemapService interface {
	// DiscoverURLs returns the page URLs of baseURL's sitemaps, in the
	// order they appear. Sitemap locations come from robots.txt, falling
	// back to /sitemap.xml; sitemap indexes are followed. A nil filter
	// keeps every URL.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// URLFilter keeps URLs that match any Include pattern (or all URLs when
// Include is empty) and none of the Exclude patterns.
type URLFilter struct {
	Include []*regexp.Regexp
	Exclude []*regexp.Regexp
}

// NewURLFilter compiles include and exclude patterns. It returns a nil
// filter, which keeps everything, when both lists are empty.
func NewURLFilter(include, exclude []string) (*URLFilter, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return nil, nil
	}
	var f URLFilter
	var err error
	if f.Include, err = compilePatterns(include); err != nil {
		return nil, err
	}
	if f.Exclude, err = compilePatterns(exclude); err != nil {
		return nil, err
	}
	return &f, nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	var res []*regexp.Regexp
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid URL pattern %q: %v", p, err)
		}
		res = append(res, re)
	}
	return res, nil
}

// Match reports whether url passes the filter. A nil filter matches
// everything.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}
	if len(f.Include) > 0 && !matchAny(f.Include, url) {
		return false
	}
	return !matchAny(f.Exclude, url)
}

func matchAny(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
