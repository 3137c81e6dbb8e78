package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/siteport"
)

// Ensure Downloader implements siteport.AssetDownloader at compile time.
var _ siteport.AssetDownloader = (*Downloader)(nil)

// DefaultMaxAssetSize caps a single asset download.
const DefaultMaxAssetSize = 25 << 20

// Downloader fetches binary assets such as images and videos.
type Downloader struct {
	client    *http.Client
	userAgent string
	maxSize   int64
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithMaxAssetSize sets the largest accepted body in bytes.
func WithMaxAssetSize(n int64) DownloaderOption {
	return func(d *Downloader) {
		d.maxSize = n
	}
}

// NewDownloader creates a Downloader using client, or a client with a
// 30 second timeout when client is nil.
func NewDownloader(client *http.Client, opts ...DownloaderOption) *Downloader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	d := &Downloader{
		client:    client,
		userAgent: DefaultUserAgent,
		maxSize:   DefaultMaxAssetSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Download returns the body of url and the content type the server
// declared. Bodies over the size cap are an EINVALID error.
func (d *Downloader) Download(ctx context.Context, url string) (*siteport.Download, error) {
	resp, err := get(ctx, d.client, d.userAgent, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, d.maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > d.maxSize {
		return nil, siteport.Errorf(siteport.EINVALID, "asset larger than %d bytes: %s", d.maxSize, url)
	}
	return &siteport.Download{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
