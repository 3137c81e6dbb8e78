package siteport

import (
	"context"
	"time"
)

// Fetcher retrieves HTML from URLs.
// Implementations may use browser automation to handle JavaScript-rendered content.
type Fetcher interface {
	// Fetch retrieves the page at url and returns its HTML. A non-2xx
	// response or unreachable host is an error. The context controls
	// timeout and cancellation.
	Fetch(ctx context.Context, url string, opts FetchOptions) (html string, err error)

	// Close releases any held resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// FetchOptions tune how long a dynamic fetch waits for content to settle.
// Zero values mean "use the fetcher's default". Static fetchers ignore them.
type FetchOptions struct {
	// WaitForSelector waits (bounded) for an element to appear.
	WaitForSelector string `json:"waitForSelector,omitempty" yaml:"waitForSelector,omitempty"`

	// WaitMS is a fixed settle delay in milliseconds. Negative disables it.
	WaitMS int `json:"waitMs,omitempty" yaml:"waitMs,omitempty"`

	// ScrollToBottom scrolls the page to trigger lazy loading.
	ScrollToBottom *bool `json:"scrollToBottom,omitempty" yaml:"scrollToBottom,omitempty"`

	Viewport *Viewport `json:"viewport,omitempty" yaml:"viewport,omitempty"`
}

// Wait returns the settle delay as a duration.
func (o FetchOptions) Wait() time.Duration {
	if o.WaitMS <= 0 {
		return 0
	}
	return time.Duration(o.WaitMS) * time.Millisecond
}

// Merge returns o with zero fields filled from defaults.
func (o FetchOptions) Merge(defaults FetchOptions) FetchOptions {
	if o.WaitForSelector == "" {
		o.WaitForSelector = defaults.WaitForSelector
	}
	if o.WaitMS == 0 {
		o.WaitMS = defaults.WaitMS
	}
	if o.ScrollToBottom == nil {
		o.ScrollToBottom = defaults.ScrollToBottom
	}
	if o.Viewport == nil {
		o.Viewport = defaults.Viewport
	}
	return o
}

// Viewport is a browser window size in CSS pixels.
type Viewport struct {
	Width  int `json:"width" yaml:"width" validate:"gt=0"`
	Height int `json:"height" yaml:"height" validate:"gt=0"`
}

// DomainLimiter throttles requests per host.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
