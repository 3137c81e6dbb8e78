// Package rod fetches JavaScript-rendered pages with a headless Chrome
// driven by go-rod.
package rod

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/siteport"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Fetcher implements siteport.Fetcher at compile time.
var _ siteport.Fetcher = (*Fetcher)(nil)

// Fetch defaults.
const (
	DefaultNavigationTimeout = 30 * time.Second
	DefaultSelectorTimeout   = 10 * time.Second
	DefaultSettleWait        = 5 * time.Second
	DefaultViewportWidth     = 1440
	DefaultViewportHeight    = 900

	scrollStep     = 500
	scrollInterval = 200 * time.Millisecond
	scrollMaxSteps = 20
	scrollSettle   = 2 * time.Second
)

// DefaultUserAgent is sent with every navigation.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Fetcher renders pages in a recycled headless browser. Each fetch gets
// its own tab, so Fetcher is safe for concurrent use.
type Fetcher struct {
	manager    *BrowserManager
	navTimeout time.Duration
	userAgent  string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithNavigationTimeout bounds navigation and load. Defaults to
// DefaultNavigationTimeout.
func WithNavigationTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.navTimeout = d
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithBrowserManager supplies the browser to render in. By default the
// Fetcher launches its own.
func WithBrowserManager(m *BrowserManager) Option {
	return func(f *Fetcher) {
		f.manager = m
	}
}

// NewFetcher creates a Fetcher. Close must be called when it is no longer
// needed. It fails if Chrome cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		navTimeout: DefaultNavigationTimeout,
		userAgent:  DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.manager == nil {
		m, err := NewBrowserManager()
		if err != nil {
			return nil, err
		}
		f.manager = m
	}
	return f, nil
}

// Fetch renders url and returns the resulting DOM as HTML. A document
// status of 400 or above is an error. Waiting for the selector is
// best-effort: on timeout the page is captured as it is.
func (f *Fetcher) Fetch(ctx context.Context, url string, opts siteport.FetchOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p := newPlan(opts)

	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("opening tab: %w", err)
	}
	defer f.manager.IncrementPageCount()
	defer page.Close()

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             p.width,
		Height:            p.height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return "", fmt.Errorf("setting viewport: %w", err)
	}
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
		return "", fmt.Errorf("setting user agent: %w", err)
	}

	page = page.Context(ctx)
	if err := f.navigate(page, url); err != nil {
		return "", err
	}

	if p.selector != "" {
		_, _ = page.Timeout(DefaultSelectorTimeout).Element(p.selector)
	}
	if p.scroll {
		if err := autoScroll(ctx, page); err != nil {
			return "", err
		}
	}
	if err := sleep(ctx, p.settle); err != nil {
		return "", err
	}

	return page.HTML()
}

// navigate loads url within the navigation timeout and checks the
// document status.
func (f *Fetcher) navigate(page *rod.Page, url string) error {
	nav := page.Timeout(f.navTimeout)

	var status int
	waitDocument := nav.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		status = e.Response.Status
		return true
	})

	if err := nav.Navigate(url); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	waitDocument()
	if err := nav.WaitLoad(); err != nil {
		return fmt.Errorf("loading %s: %w", url, err)
	}
	if status >= 400 {
		return fmt.Errorf("HTTP %d for %s", status, url)
	}
	return nil
}

// Close releases browser resources.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}

// LauncherPID returns the browser launcher's process ID.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// plan is FetchOptions with defaults applied.
type plan struct {
	selector string
	settle   time.Duration
	scroll   bool
	width    int
	height   int
}

func newPlan(opts siteport.FetchOptions) plan {
	p := plan{
		selector: opts.WaitForSelector,
		settle:   DefaultSettleWait,
		scroll:   opts.ScrollToBottom != nil && *opts.ScrollToBottom,
		width:    DefaultViewportWidth,
		height:   DefaultViewportHeight,
	}
	switch {
	case opts.WaitMS < 0:
		p.settle = 0
	case opts.WaitMS > 0:
		p.settle = opts.Wait()
	}
	if opts.Viewport != nil && opts.Viewport.Width > 0 && opts.Viewport.Height > 0 {
		p.width, p.height = opts.Viewport.Width, opts.Viewport.Height
	}
	return p
}

// autoScroll scrolls down in fixed steps until the bottom is reached or
// the step budget runs out, then lets lazy content settle.
func autoScroll(ctx context.Context, page *rod.Page) error {
	for range scrollMaxSteps {
		res, err := page.Eval(`(step) => {
			window.scrollBy(0, step);
			return window.scrollY + window.innerHeight >= document.body.scrollHeight;
		}`, scrollStep)
		if err != nil {
			return fmt.Errorf("scrolling: %w", err)
		}
		if res.Value.Bool() {
			break
		}
		if err := sleep(ctx, scrollInterval); err != nil {
			return err
		}
	}
	return sleep(ctx, scrollSettle)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
