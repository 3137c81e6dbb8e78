package mock

import (
	"context"

	"github.com/fwojciec/siteport"
)

var (
	_ siteport.Fetcher         = (*Fetcher)(nil)
	_ siteport.DomainLimiter   = (*DomainLimiter)(nil)
	_ siteport.AssetDownloader = (*AssetDownloader)(nil)
)

// Fetcher is a mock implementation of siteport.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string, opts siteport.FetchOptions) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string, opts siteport.FetchOptions) (string, error) {
	return f.FetchFn(ctx, url, opts)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

// DomainLimiter is a mock implementation of siteport.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

// AssetDownloader is a mock implementation of siteport.AssetDownloader.
type AssetDownloader struct {
	DownloadFn func(ctx context.Context, url string) (*siteport.Download, error)
}

func (d *AssetDownloader) Download(ctx context.Context, url string) (*siteport.Download, error) {
	return d.DownloadFn(ctx, url)
}
