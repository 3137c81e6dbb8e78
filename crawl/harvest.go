// Package crawl orchestrates harvest runs. It walks the configured URLs
// and whatever the run discovers, assembles each page, and hands pages,
// branding, assets, and the manifest to a ManifestStore.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/fwojciec/siteport"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Harvest defaults.
const (
	DefaultMaxPages            = 50
	DefaultDownloadConcurrency = 4
)

// Harvester runs harvest configs. Fetcher, Detector, Assembler, and Store
// are required; the other collaborators switch optional behavior on.
type Harvester struct {
	Fetcher   siteport.Fetcher
	Detector  siteport.StrategyDetector
	Assembler siteport.PageAssembler
	Store     siteport.ManifestStore

	Payloads    siteport.PayloadExtractor
	Images      siteport.ImageInventory
	Links       siteport.LinkExtractor
	Sitemaps    siteport.SitemapService
	Downloader  siteport.AssetDownloader
	RateLimiter siteport.DomainLimiter

	// DownloadConcurrency bounds parallel asset downloads.
	DownloadConcurrency int

	ReadFile func(name string) ([]byte, error)
	Now      func() time.Time
	Logger   *slog.Logger
}

// ProgressEvent reports progress during a harvest run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Page      *siteport.Page
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting harvest progress.
type ProgressFunc func(event ProgressEvent)

// Harvest runs cfg to completion. A URL that cannot be fetched or
// assembled is reported and skipped. The returned error is reserved for
// invalid configs, store failures, and cancellation; in those cases the
// store is aborted.
func (h *Harvester) Harvest(ctx context.Context, cfg *siteport.HarvestConfig, progress ProgressFunc) (*siteport.Manifest, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := cfg.Options
	emit := func(e ProgressEvent) {
		if progress != nil {
			progress(e)
		}
	}

	frontier := NewFrontier(frontierCapacity, frontierFPRate)
	for _, entry := range cfg.URLs {
		frontier.Push(Target{Entry: entry})
	}
	budget := opts.MaxPages
	if budget <= 0 {
		budget = DefaultMaxPages
	}
	if opts.Sitemap && h.Sitemaps != nil {
		n, err := h.expandSitemap(ctx, cfg, frontier, budget)
		if err != nil {
			return nil, h.abort(err)
		}
		budget -= n
	}

	manifest := &siteport.Manifest{
		RunID:     uuid.NewString(),
		Config:    cfg,
		Timestamp: h.now(),
	}
	var (
		homepage  *siteport.Branding
		firstSeen *siteport.Branding
		assets    = newAssetSet()
		total     = frontier.Len()
		completed int
	)
	emit(ProgressEvent{Type: ProgressStarted, Total: total})

	for {
		if err := ctx.Err(); err != nil {
			return nil, h.abort(err)
		}
		target, ok := frontier.Pop()
		if !ok {
			break
		}

		page, html, err := h.harvestURL(ctx, target, opts)
		completed++
		if err != nil {
			if ctx.Err() != nil {
				return nil, h.abort(ctx.Err())
			}
			manifest.Summary.Failed++
			h.logger().Warn("harvest failed", "url", target.Entry.URL, "err", err)
			emit(ProgressEvent{Type: ProgressFailed, Completed: completed, Total: total, URL: target.Entry.URL, Error: err})
			continue
		}

		if !opts.ShouldExtractBranding() {
			page.Branding = nil
		}
		if err := h.Store.SavePage(ctx, page); err != nil {
			return nil, h.abort(fmt.Errorf("save page %s: %w", page.URL, err))
		}
		manifest.Pages = append(manifest.Pages, page)
		manifest.Summary.Succeeded++

		if page.Branding != nil {
			if homepage == nil && target.Entry.Type == siteport.URLTypeHomepage {
				homepage = page.Branding
			}
			if firstSeen == nil {
				firstSeen = page.Branding
			}
		}
		if opts.ShouldDownloadAssets() {
			assets.addAll(h.imageRefs(page, html))
		}
		if target.Depth < opts.MaxDepth && h.Links != nil {
			n := h.followLinks(html, target, frontier, budget)
			budget -= n
			total += n
		}

		emit(ProgressEvent{Type: ProgressCompleted, Completed: completed, Total: total, URL: page.URL, Page: page})
	}

	manifest.Branding = homepage
	if manifest.Branding == nil {
		manifest.Branding = firstSeen
	}
	if manifest.Branding != nil {
		assets.addBranding(manifest.Branding)
		if err := h.Store.SaveBranding(ctx, manifest.Branding); err != nil {
			return nil, h.abort(fmt.Errorf("save branding: %w", err))
		}
	}

	manifest.Assets = assets.entries
	if opts.ShouldDownloadAssets() && h.Downloader != nil {
		if err := h.downloadAssets(ctx, manifest.Assets); err != nil {
			return nil, h.abort(err)
		}
	}

	if err := h.Store.SaveManifest(ctx, manifest); err != nil {
		return nil, h.abort(fmt.Errorf("save manifest: %w", err))
	}
	if err := h.Store.Commit(); err != nil {
		return nil, h.abort(fmt.Errorf("commit harvest: %w", err))
	}

	emit(ProgressEvent{Type: ProgressFinished, Completed: completed, Total: total})
	return manifest, nil
}

// harvestURL turns one target into a page. It also returns the page HTML
// for link and image discovery. A panicking extractor fails only this URL.
func (h *Harvester) harvestURL(ctx context.Context, t Target, opts siteport.HarvestOptions) (page *siteport.Page, html string, err error) {
	defer func() {
		if r := recover(); r != nil {
			page, html = nil, ""
			err = siteport.Errorf(siteport.EINTERNAL, "extracting %s: %v", t.Entry.URL, r)
		}
	}()

	html, err = h.load(ctx, t.Entry, opts)
	if err != nil {
		return nil, "", err
	}

	detection := h.Detector.Detect(html, t.Entry.URL)
	page, err = h.Assembler.Assemble(html, t.Entry.URL)
	if err != nil {
		return nil, "", err
	}
	page.Type = t.Entry.Type
	page.Strategy = detection.Strategy
	page.ContentHash = ContentHash(html)

	if detection.Strategy == siteport.StrategyNextJS && h.Payloads != nil {
		base, _ := siteport.Origin(t.Entry.URL)
		page.StructuredData = h.Payloads.Extract(html, base)
	}
	return page, html, nil
}

// load returns the HTML of entry, from its saved file if it has one.
func (h *Harvester) load(ctx context.Context, entry siteport.URLEntry, opts siteport.HarvestOptions) (string, error) {
	if entry.HTMLFile != "" {
		readFile := h.ReadFile
		if readFile == nil {
			readFile = os.ReadFile
		}
		data, err := readFile(entry.HTMLFile)
		if err != nil {
			return "", fmt.Errorf("read html file: %w", err)
		}
		return string(data), nil
	}

	u, err := url.Parse(entry.URL)
	if err != nil {
		return "", siteport.Errorf(siteport.EINVALID, "invalid URL: %q", entry.URL)
	}
	if h.RateLimiter != nil {
		if err := h.RateLimiter.Wait(ctx, u.Host); err != nil {
			return "", err
		}
	}

	fetchOpts := opts.Fetch
	if entry.Fetch != nil {
		fetchOpts = entry.Fetch.Merge(opts.Fetch)
	}
	return h.Fetcher.Fetch(ctx, entry.URL, fetchOpts)
}

// expandSitemap queues up to budget sitemap URLs of the first configured
// URL's site and returns how many were queued.
func (h *Harvester) expandSitemap(ctx context.Context, cfg *siteport.HarvestConfig, frontier *Frontier, budget int) (int, error) {
	filter, err := siteport.NewURLFilter(cfg.Options.SitemapInclude, cfg.Options.SitemapExclude)
	if err != nil {
		return 0, err
	}
	base, ok := siteport.Origin(cfg.URLs[0].URL)
	if !ok {
		return 0, nil
	}

	urls, err := h.Sitemaps.DiscoverURLs(ctx, base, filter)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		h.logger().Warn("sitemap discovery failed", "url", base, "err", err)
		return 0, nil
	}

	queued := 0
	for _, u := range urls {
		if queued >= budget {
			break
		}
		if frontier.Push(Target{
			Entry:      siteport.URLEntry{URL: u, Type: siteport.URLTypePage},
			Depth:      1,
			Priority:   siteport.PriorityContent,
			Discovered: true,
		}) {
			queued++
		}
	}
	return queued, nil
}

// followLinks queues up to budget links of a page one level below it and
// returns how many were queued.
func (h *Harvester) followLinks(html string, from Target, frontier *Frontier, budget int) int {
	links, err := h.Links.ExtractLinks(html, from.Entry.URL)
	if err != nil {
		h.logger().Debug("link extraction failed", "url", from.Entry.URL, "err", err)
		return 0
	}

	queued := 0
	for _, link := range links {
		if queued >= budget {
			break
		}
		if frontier.Push(Target{
			Entry:      siteport.URLEntry{URL: link.URL, Type: siteport.URLTypePage},
			Depth:      from.Depth + 1,
			Priority:   link.Priority,
			Discovered: true,
		}) {
			queued++
		}
	}
	return queued
}

// imageRefs returns the page images with the attributes used to
// categorize them.
func (h *Harvester) imageRefs(page *siteport.Page, html string) []siteport.ImageRef {
	if h.Images != nil {
		return h.Images.Inventory(html, page.URL)
	}
	refs := make([]siteport.ImageRef, 0, len(page.Images))
	for _, img := range page.Images {
		refs = append(refs, siteport.ImageRef{URL: img})
	}
	return refs
}

// downloadAssets fetches assets with bounded concurrency and writes them
// through the store. A failed download is logged and its entry loses its
// local path; a failed write is returned.
func (h *Harvester) downloadAssets(ctx context.Context, assets []siteport.AssetEntry) error {
	limit := h.DownloadConcurrency
	if limit <= 0 {
		limit = DefaultDownloadConcurrency
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i := range assets {
		a := &assets[i]
		g.Go(func() error {
			d, err := h.Downloader.Download(ctx, a.OriginalURL)
			if err != nil {
				h.logger().Warn("asset download failed", "url", a.OriginalURL, "err", err)
				a.LocalPath = ""
				return nil
			}
			a.ContentType = sniffContentType(d, a.FileName)
			a.Size = len(d.Data)
			if err := h.Store.SaveAsset(ctx, a.FileName, d.Data); err != nil {
				return fmt.Errorf("save asset %s: %w", a.FileName, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// sniffContentType prefers the type detected from the bytes, then the
// file extension, then the type the server declared.
func sniffContentType(d *siteport.Download, fileName string) string {
	if m := mimetype.Detect(d.Data); !m.Is("application/octet-stream") && !m.Is("text/plain") {
		ct, _, _ := strings.Cut(m.String(), ";")
		return ct
	}
	fallback := "application/octet-stream"
	if d.ContentType != "" {
		fallback, _, _ = strings.Cut(d.ContentType, ";")
	}
	return siteport.GuessContentType(fileName, strings.TrimSpace(fallback))
}

func (h *Harvester) abort(err error) error {
	if abortErr := h.Store.Abort(); abortErr != nil {
		h.logger().Error("abort harvest", "err", abortErr)
	}
	return err
}

func (h *Harvester) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Harvester) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.New(slog.DiscardHandler)
}
