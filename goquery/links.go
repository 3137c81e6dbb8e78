package goquery

import (
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/siteport"
)

// Ensure LinkExtractor implements siteport.LinkExtractor at compile time.
var _ siteport.LinkExtractor = (*LinkExtractor)(nil)

// assetExtensions are link targets that are files rather than pages.
var assetExtensions = map[string]bool{
	".pdf": true, ".zip": true, ".jpg": true, ".jpeg": true, ".png": true,
	".gif": true, ".svg": true, ".webp": true, ".mp4": true, ".webm": true,
	".xml": true, ".ico": true,
}

// LinkExtractor finds same-host page links. A link inside nav or header
// is a navigation link, inside footer a footer link, and anything else a
// content link; when a URL appears more than once the highest priority
// wins.
type LinkExtractor struct{}

// NewLinkExtractor creates a new LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks returns the followable links of html.
func (e *LinkExtractor) ExtractLinks(html, pageURL string) ([]siteport.DiscoveredLink, error) {
	base, err := url.Parse(pageURL)
	if err != nil || base.Host == "" {
		return nil, siteport.Errorf(siteport.EINVALID, "invalid page URL: %q", pageURL)
	}

	seen := make(map[string]int)
	var links []siteport.DiscoveredLink
	document(html).Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" || isNonHTTPLink(href) {
			return
		}
		resolved := resolveLink(base, href)
		if resolved == "" {
			return
		}
		link := siteport.DiscoveredLink{
			URL:      resolved,
			Text:     text(a),
			Priority: linkPriority(a),
		}
		if i, ok := seen[resolved]; ok {
			if link.Priority > links[i].Priority {
				links[i] = link
			}
			return
		}
		seen[resolved] = len(links)
		links = append(links, link)
	})
	return links, nil
}

func linkPriority(a *goquery.Selection) siteport.LinkPriority {
	switch {
	case a.Closest("nav, header").Length() > 0:
		return siteport.PriorityNavigation
	case a.Closest("footer").Length() > 0:
		return siteport.PriorityFooter
	}
	return siteport.PriorityContent
}

// resolveLink resolves href against base and returns it without its
// fragment. It returns "" for links to other hosts, to files, or back to
// the page itself.
func resolveLink(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	u := base.ResolveReference(ref)
	u.Fragment = ""
	if u.Host != base.Host || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	if assetExtensions[strings.ToLower(path.Ext(u.Path))] {
		return ""
	}
	self := *base
	self.Fragment = ""
	if u.String() == self.String() {
		return ""
	}
	return u.String()
}

// isNonHTTPLink reports whether href uses a scheme that is never a page.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(href)
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(href, prefix) {
			return true
		}
	}
	return false
}
