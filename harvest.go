package siteport

import (
	"context"
	"time"
)

// URLType describes the role of a configured URL.
type URLType string

const (
	URLTypeHomepage URLType = "homepage"
	URLTypeProduct  URLType = "product"
	URLTypePage     URLType = "page"
	URLTypeCategory URLType = "category"
	URLTypeBlog     URLType = "blog"
)

// Fetch adapters.
const (
	AdapterHTTP    = "http"
	AdapterBrowser = "browser"
)

// DefaultBodyTextLimit caps the page body excerpt.
const DefaultBodyTextLimit = 1000

// HarvestConfig describes one harvest run.
type HarvestConfig struct {
	Name    string         `json:"name" yaml:"name" validate:"required"`
	URLs    []URLEntry     `json:"urls" yaml:"urls" validate:"required,min=1,dive"`
	Options HarvestOptions `json:"options" yaml:"options"`
}

// URLEntry is one URL to harvest.
type URLEntry struct {
	URL   string            `json:"url" yaml:"url" validate:"required,url"`
	Type  URLType           `json:"type,omitempty" yaml:"type,omitempty" validate:"omitempty,oneof=homepage product page category blog"`
	Hints map[string]string `json:"hints,omitempty" yaml:"hints,omitempty"`

	// HTMLFile loads previously saved HTML instead of fetching URL.
	HTMLFile string `json:"htmlFile,omitempty" yaml:"htmlFile,omitempty"`

	// Fetch overrides the run's fetch options for this URL.
	Fetch *FetchOptions `json:"fetch,omitempty" yaml:"fetch,omitempty"`
}

// HarvestOptions tune a harvest run.
type HarvestOptions struct {
	Adapter         string `json:"adapter,omitempty" yaml:"adapter,omitempty" validate:"omitempty,oneof=http browser"`
	DownloadAssets  *bool  `json:"downloadAssets,omitempty" yaml:"downloadAssets,omitempty"`
	ExtractBranding *bool  `json:"extractBranding,omitempty" yaml:"extractBranding,omitempty"`
	MaxDepth        int    `json:"maxDepth,omitempty" yaml:"maxDepth,omitempty" validate:"gte=0"`
	OutputDir       string `json:"outputDir,omitempty" yaml:"outputDir,omitempty"`
	BodyTextLimit   int    `json:"bodyTextLimit,omitempty" yaml:"bodyTextLimit,omitempty" validate:"gte=0"`

	// RequestsPerSecond throttles fetches per host. Zero disables throttling.
	RequestsPerSecond float64 `json:"requestsPerSecond,omitempty" yaml:"requestsPerSecond,omitempty" validate:"gte=0"`

	// Sitemap expands the first URL's sitemap into extra page entries.
	Sitemap        bool     `json:"sitemap,omitempty" yaml:"sitemap,omitempty"`
	SitemapInclude []string `json:"sitemapInclude,omitempty" yaml:"sitemapInclude,omitempty"`
	SitemapExclude []string `json:"sitemapExclude,omitempty" yaml:"sitemapExclude,omitempty"`
	MaxPages       int      `json:"maxPages,omitempty" yaml:"maxPages,omitempty" validate:"gte=0"`

	Fetch FetchOptions `json:"fetch,omitempty" yaml:"fetch,omitempty"`
}

// ShouldDownloadAssets reports whether assets are downloaded (default true).
func (o HarvestOptions) ShouldDownloadAssets() bool {
	return o.DownloadAssets == nil || *o.DownloadAssets
}

// ShouldExtractBranding reports whether site branding is kept (default true).
func (o HarvestOptions) ShouldExtractBranding() bool {
	return o.ExtractBranding == nil || *o.ExtractBranding
}

// Validate returns an error if the config cannot drive a run.
func (c *HarvestConfig) Validate() error {
	if c.Name == "" {
		return Errorf(EINVALID, "harvest name required")
	}
	if len(c.URLs) == 0 {
		return Errorf(EINVALID, "at least one URL required")
	}
	for i, u := range c.URLs {
		if u.URL == "" {
			return Errorf(EINVALID, "url %d: URL required", i)
		}
	}
	return nil
}

// Manifest is the aggregate record of one harvest run.
type Manifest struct {
	RunID     string         `json:"runId,omitempty"`
	Config    *HarvestConfig `json:"config"`
	Pages     []*Page        `json:"pages"`
	Branding  *Branding      `json:"branding"`
	Assets    []AssetEntry   `json:"assets"`
	Summary   HarvestSummary `json:"summary"`
	Timestamp time.Time      `json:"timestamp"`
}

// HarvestSummary counts per-URL outcomes of a run.
type HarvestSummary struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// ManifestStore persists a harvest run with atomic semantics.
// Writes go to a pending location; Commit makes them permanent;
// Abort discards them.
type ManifestStore interface {
	SavePage(ctx context.Context, page *Page) error
	SaveBranding(ctx context.Context, branding *Branding) error
	SaveAsset(ctx context.Context, fileName string, data []byte) error
	SaveManifest(ctx context.Context, manifest *Manifest) error
	Commit() error
	Abort() error
}

// ManifestReader reads back the last committed harvest run.
type ManifestReader interface {
	// LoadManifest returns ENOTFOUND if no run has been committed.
	LoadManifest(ctx context.Context) (*Manifest, error)
}
