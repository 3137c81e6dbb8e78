// Package contentful implements the siteport CMS services against the
// Contentful Content Management API.
package contentful

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/siteport"
	"golang.org/x/time/rate"
)

// Client defaults.
const (
	DefaultBaseURL           = "https://api.contentful.com"
	DefaultEnvironment       = "master"
	DefaultRequestsPerSecond = 7
	DefaultPollInterval      = 2 * time.Second
	DefaultAssetPolls        = 15
	DefaultActionPolls       = 30

	mediaType = "application/vnd.contentful.management.v1+json"
)

// Client is a Content Management API client for one space environment.
// Requests are throttled client-wide. Client is safe for concurrent use.
type Client struct {
	baseURL     string
	token       string
	spaceID     string
	envID       string
	http        *http.Client
	limiter     *rate.Limiter
	interval    time.Duration
	assetPolls  int
	actionPolls int
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API host.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithRequestsPerSecond sets the request rate. Zero or less disables
// throttling.
func WithRequestsPerSecond(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithPollInterval sets the wait between asset-processing and AI
// invocation status checks.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		c.interval = d
	}
}

// WithAssetPolls sets how many times asset processing is checked.
func WithAssetPolls(n int) Option {
	return func(c *Client) {
		c.assetPolls = n
	}
}

// WithActionPolls sets how many times an AI invocation is checked.
func WithActionPolls(n int) Option {
	return func(c *Client) {
		c.actionPolls = n
	}
}

// NewClient creates a Client. An empty environment means
// DefaultEnvironment.
func NewClient(token, spaceID, environmentID string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, siteport.Errorf(siteport.EINVALID, "management token required")
	}
	if spaceID == "" {
		return nil, siteport.Errorf(siteport.EINVALID, "space ID required")
	}
	if environmentID == "" {
		environmentID = DefaultEnvironment
	}

	c := &Client{
		baseURL:     DefaultBaseURL,
		token:       token,
		spaceID:     spaceID,
		envID:       environmentID,
		http:        &http.Client{Timeout: 30 * time.Second},
		limiter:     rate.NewLimiter(DefaultRequestsPerSecond, 1),
		interval:    DefaultPollInterval,
		assetPolls:  DefaultAssetPolls,
		actionPolls: DefaultActionPolls,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SpaceID returns the space the client writes to.
func (c *Client) SpaceID() string { return c.spaceID }

// EnvironmentID returns the environment the client writes to.
func (c *Client) EnvironmentID() string { return c.envID }

// spacePath returns a path below the space.
func (c *Client) spacePath(format string, args ...any) string {
	return "/spaces/" + url.PathEscape(c.spaceID) + fmt.Sprintf(format, args...)
}

// envPath returns a path below the environment.
func (c *Client) envPath(format string, args ...any) string {
	return c.spacePath("/environments/%s", url.PathEscape(c.envID)) + fmt.Sprintf(format, args...)
}

// request is one API call. Body is JSON-encoded when set; the response is
// decoded into Out when set.
type request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   any
	Out    any
}

func (c *Client) do(ctx context.Context, r request) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var body io.Reader
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	target := c.baseURL + r.Path
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, target, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	for k, vs := range r.Header {
		req.Header[k] = vs
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if r.Body != nil {
		req.Header.Set("Content-Type", mediaType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", r.Method, r.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp.StatusCode, data)
	}
	if r.Out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, r.Out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// apiError maps a failed response to a siteport error.
func apiError(status int, body []byte) error {
	var e struct {
		Message string `json:"message"`
		Sys     struct {
			ID string `json:"id"`
		} `json:"sys"`
	}
	_ = json.Unmarshal(body, &e)
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(status)
	}
	if e.Sys.ID != "" {
		msg = e.Sys.ID + ": " + msg
	}

	code := siteport.EINTERNAL
	switch status {
	case http.StatusNotFound:
		code = siteport.ENOTFOUND
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		code = siteport.EINVALID
	case http.StatusTooManyRequests:
		code = siteport.ERATELIMIT
	}
	return siteport.Errorf(code, "contentful %d: %s", status, msg)
}

// versionHeader returns the optimistic-locking header for version.
func versionHeader(version int) http.Header {
	return http.Header{"X-Contentful-Version": []string{fmt.Sprint(version)}}
}

// sys is the metadata block of every resource.
type sys struct {
	ID          string `json:"id"`
	Version     int    `json:"version"`
	Status      string `json:"status,omitempty"`
	ContentType *struct {
		Sys struct {
			ID string `json:"id"`
		} `json:"sys"`
	} `json:"contentType,omitempty"`
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
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
