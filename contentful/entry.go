package contentful

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fwojciec/siteport"
)

// Ensure Client implements siteport.EntryService at compile time.
var _ siteport.EntryService = (*Client)(nil)

type entryResource struct {
	Sys      sys                     `json:"sys"`
	Fields   siteport.Fields         `json:"fields"`
	Metadata *siteport.EntryMetadata `json:"metadata,omitempty"`
}

// entryBody is the writable part of an entry.
type entryBody struct {
	Fields   siteport.Fields         `json:"fields"`
	Metadata *siteport.EntryMetadata `json:"metadata,omitempty"`
}

func (r *entryResource) entry() *siteport.Entry {
	e := &siteport.Entry{
		ID:      r.Sys.ID,
		Version: r.Sys.Version,
		Fields:  r.Fields,
	}
	if r.Sys.ContentType != nil {
		e.ContentTypeID = r.Sys.ContentType.Sys.ID
	}
	return e
}

// CreateEntry creates a draft entry of contentTypeID.
func (c *Client) CreateEntry(ctx context.Context, contentTypeID string, fields siteport.Fields, metadata *siteport.EntryMetadata) (string, error) {
	if contentTypeID == "" {
		return "", siteport.Errorf(siteport.EINVALID, "content type required")
	}
	var out entryResource
	err := c.do(ctx, request{
		Method: http.MethodPost,
		Path:   c.envPath("/entries"),
		Header: http.Header{"X-Contentful-Content-Type": []string{contentTypeID}},
		Body:   entryBody{Fields: fields, Metadata: metadata},
		Out:    &out,
	})
	if err != nil {
		return "", err
	}
	return out.Sys.ID, nil
}

// PublishEntry publishes the current version of an entry.
func (c *Client) PublishEntry(ctx context.Context, id string) error {
	e, err := c.GetEntry(ctx, id)
	if err != nil {
		return err
	}
	return c.do(ctx, request{
		Method: http.MethodPut,
		Path:   c.envPath("/entries/%s/published", url.PathEscape(id)),
		Header: versionHeader(e.Version),
	})
}

func (c *Client) GetEntry(ctx context.Context, id string) (*siteport.Entry, error) {
	if id == "" {
		return nil, siteport.Errorf(siteport.EINVALID, "entry ID required")
	}
	var out entryResource
	if err := c.do(ctx, request{
		Method: http.MethodGet,
		Path:   c.envPath("/entries/%s", url.PathEscape(id)),
		Out:    &out,
	}); err != nil {
		return nil, err
	}
	return out.entry(), nil
}

// UpdateEntry replaces the entry's fields. On success entry.Version is
// the new version.
func (c *Client) UpdateEntry(ctx context.Context, entry *siteport.Entry) error {
	var out entryResource
	if err := c.do(ctx, request{
		Method: http.MethodPut,
		Path:   c.envPath("/entries/%s", url.PathEscape(entry.ID)),
		Header: versionHeader(entry.Version),
		Body:   entryBody{Fields: entry.Fields},
		Out:    &out,
	}); err != nil {
		return err
	}
	entry.Version = out.Sys.Version
	return nil
}

func (c *Client) FindEntries(ctx context.Context, filter siteport.EntryFilter) ([]*siteport.Entry, error) {
	q := url.Values{}
	if filter.ContentType != "" {
		q.Set("content_type", filter.ContentType)
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}

	var out struct {
		Items []entryResource `json:"items"`
	}
	if err := c.do(ctx, request{
		Method: http.MethodGet,
		Path:   c.envPath("/entries"),
		Query:  q,
		Out:    &out,
	}); err != nil {
		return nil, err
	}

	entries := make([]*siteport.Entry, 0, len(out.Items))
	for i := range out.Items {
		entries = append(entries, out.Items[i].entry())
	}
	return entries, nil
}
