package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/siteport"
)

// Ensure Fetcher implements siteport.Fetcher at compile time.
var _ siteport.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves server-rendered HTML. It runs no JavaScript and
// ignores FetchOptions, which only matter to a browser.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-request timeout. Defaults to
// DefaultFetchTimeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.client = &http.Client{Timeout: f.timeout}
	return f
}

// Fetch returns the body of url. Redirects are followed; a final non-2xx
// status is a *StatusError.
func (f *Fetcher) Fetch(ctx context.Context, url string, _ siteport.FetchOptions) (string, error) {
	resp, err := get(ctx, f.client, f.userAgent, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Close is a no-op; the underlying client holds nothing that needs
// releasing.
func (f *Fetcher) Close() error {
	return nil
}
