package contentful

import (
	"context"
	"net/http"
	"net/url"

	"github.com/fwojciec/siteport"
)

// Ensure Client implements siteport.AssetService at compile time.
var _ siteport.AssetService = (*Client)(nil)

type assetFile struct {
	URL         string `json:"url,omitempty"`
	Upload      string `json:"upload,omitempty"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

type assetFields struct {
	Title       map[string]string    `json:"title"`
	Description map[string]string    `json:"description,omitempty"`
	File        map[string]assetFile `json:"file"`
}

type assetBody struct {
	Fields assetFields `json:"fields"`
}

type assetResource struct {
	Sys    sys         `json:"sys"`
	Fields assetFields `json:"fields"`
}

func (a *assetResource) processed() bool {
	return a.Fields.File[siteport.DefaultLocale].URL != ""
}

// CreateAsset imports upload.URL as an asset and publishes it once the
// CMS has processed the file. An asset with the same title that already
// has a file is returned as is. If processing does not finish within the
// poll budget the unpublished asset's ID is returned.
func (c *Client) CreateAsset(ctx context.Context, upload *siteport.AssetUpload) (string, error) {
	if upload.URL == "" {
		return "", siteport.Errorf(siteport.EINVALID, "asset upload URL required")
	}
	if upload.Title != "" {
		existing, err := c.findAssetByTitle(ctx, upload.Title)
		if err != nil {
			return "", err
		}
		if existing != nil && existing.processed() {
			return existing.Sys.ID, nil
		}
	}

	var created assetResource
	if err := c.do(ctx, request{
		Method: http.MethodPost,
		Path:   c.envPath("/assets"),
		Body: assetBody{Fields: assetFields{
			Title:       map[string]string{siteport.DefaultLocale: upload.Title},
			Description: map[string]string{siteport.DefaultLocale: upload.Description},
			File: map[string]assetFile{siteport.DefaultLocale: {
				Upload:      upload.URL,
				FileName:    upload.FileName,
				ContentType: upload.ContentType,
			}},
		}},
		Out: &created,
	}); err != nil {
		return "", err
	}
	id := created.Sys.ID

	if err := c.do(ctx, request{
		Method: http.MethodPut,
		Path:   c.envPath("/assets/%s/files/%s/process", url.PathEscape(id), siteport.DefaultLocale),
		Header: versionHeader(created.Sys.Version),
	}); err != nil {
		return "", err
	}

	for range c.assetPolls {
		if err := sleep(ctx, c.interval); err != nil {
			return "", err
		}
		var check assetResource
		if err := c.do(ctx, request{
			Method: http.MethodGet,
			Path:   c.envPath("/assets/%s", url.PathEscape(id)),
			Out:    &check,
		}); err != nil {
			return "", err
		}
		if !check.processed() {
			continue
		}
		// Publishing fails harmlessly for assets that are already published.
		_ = c.do(ctx, request{
			Method: http.MethodPut,
			Path:   c.envPath("/assets/%s/published", url.PathEscape(id)),
			Header: versionHeader(check.Sys.Version),
		})
		break
	}
	return id, nil
}

func (c *Client) findAssetByTitle(ctx context.Context, title string) (*assetResource, error) {
	var out struct {
		Items []assetResource `json:"items"`
	}
	if err := c.do(ctx, request{
		Method: http.MethodGet,
		Path:   c.envPath("/assets"),
		Query:  url.Values{"fields.title": []string{title}, "limit": []string{"1"}},
		Out:    &out,
	}); err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, nil
	}
	return &out.Items[0], nil
}
