package http

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/siteport"
)

// Ensure SitemapService implements siteport.SitemapService at compile time.
var _ siteport.SitemapService = (*SitemapService)(nil)

// maxSitemaps bounds how many sitemap documents one discovery reads.
const maxSitemaps = 50

// SitemapService expands a site into page URLs from its XML sitemaps.
type SitemapService struct {
	client    *http.Client
	userAgent string
}

// NewSitemapService creates a SitemapService using client, or a client
// with DefaultFetchTimeout when client is nil.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	return &SitemapService{client: client, userAgent: DefaultUserAgent}
}

// DiscoverURLs returns the deduplicated page URLs of baseURL's sitemaps
// that pass filter. A site without sitemaps yields an empty slice.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *siteport.URLFilter) ([]string, error) {
	origin, ok := siteport.Origin(baseURL)
	if !ok {
		return nil, siteport.Errorf(siteport.EINVALID, "invalid base URL: %q", baseURL)
	}

	roots, err := s.locate(ctx, origin)
	if err != nil {
		return nil, err
	}

	w := &sitemapWalk{
		svc:     s,
		visited: make(map[string]bool),
		seen:    make(map[string]bool),
		filter:  filter,
		urls:    []string{},
	}
	for _, loc := range roots {
		if err := w.visit(ctx, loc); err != nil {
			return nil, err
		}
	}
	return w.urls, nil
}

// locate returns the sitemaps declared in robots.txt, or /sitemap.xml if
// robots.txt declares none and that document exists.
func (s *SitemapService) locate(ctx context.Context, origin string) ([]string, error) {
	if locs, err := s.robotsSitemaps(ctx, origin+"/robots.txt"); err == nil && len(locs) > 0 {
		return locs, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fallback := origin + "/sitemap.xml"
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, fallback, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}
	return []string{fallback}, nil
}

// robotsSitemaps reads the Sitemap: directives of a robots.txt.
func (s *SitemapService) robotsSitemaps(ctx context.Context, robotsURL string) ([]string, error) {
	resp, err := get(ctx, s.client, s.userAgent, robotsURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var locs []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "sitemap") {
			continue
		}
		if loc := strings.TrimSpace(value); loc != "" {
			locs = append(locs, loc)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading robots.txt: %w", err)
	}
	return locs, nil
}

// sitemapWalk follows sitemap indexes depth first, collecting page URLs
// in document order.
type sitemapWalk struct {
	svc     *SitemapService
	visited map[string]bool
	seen    map[string]bool
	filter  *siteport.URLFilter
	urls    []string
}

func (w *sitemapWalk) visit(ctx context.Context, loc string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.visited[loc] || len(w.visited) >= maxSitemaps {
		return nil
	}
	w.visited[loc] = true

	root, err := w.svc.document(ctx, loc)
	if err != nil {
		return err
	}

	switch root.Tag {
	case "sitemapindex":
		for _, child := range root.SelectElements("sitemap") {
			if next := locOf(child); next != "" {
				if err := w.visit(ctx, resolveLoc(loc, next)); err != nil {
					return err
				}
			}
		}
	case "urlset":
		for _, entry := range root.SelectElements("url") {
			u := locOf(entry)
			if u == "" || w.seen[u] || !w.filter.Match(u) {
				continue
			}
			w.seen[u] = true
			w.urls = append(w.urls, u)
		}
	default:
		return siteport.Errorf(siteport.EINVALID, "unexpected sitemap root <%s> in %s", root.Tag, loc)
	}
	return nil
}

// document fetches and parses one sitemap, transparently gunzipping
// .xml.gz files.
func (s *SitemapService) document(ctx context.Context, loc string) (*etree.Element, error) {
	resp, err := get(ctx, s.client, s.userAgent, loc)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if strings.HasSuffix(strings.ToLower(loc), ".gz") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("opening gzipped sitemap: %w", err)
		}
		defer gz.Close()
		body = gz
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, fmt.Errorf("parsing sitemap XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, siteport.Errorf(siteport.EINVALID, "empty sitemap: %s", loc)
	}
	return root, nil
}

func locOf(el *etree.Element) string {
	loc := el.SelectElement("loc")
	if loc == nil {
		return ""
	}
	return strings.TrimSpace(loc.Text())
}

// resolveLoc resolves a relative child sitemap location against its
// index.
func resolveLoc(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
