package load_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/fwojciec/siteport"
	"github.com/fwojciec/siteport/mock"
)

// created is one entry recorded by fakeCMS.
type created struct {
	ID          string
	ContentType string
	Fields      siteport.Fields
	Metadata    *siteport.EntryMetadata
}

// fakeCMS records created entries and assets in memory. Content types in
// failTypes fail to create.
type fakeCMS struct {
	mu        sync.Mutex
	entries   []created
	published []string
	assets    []*siteport.AssetUpload
	failTypes map[string]bool
	failAsset bool
}

func newFakeCMS(failTypes ...string) *fakeCMS {
	f := &fakeCMS{failTypes: make(map[string]bool)}
	for _, ct := range failTypes {
		f.failTypes[ct] = true
	}
	return f
}

func (f *fakeCMS) entryService() *mock.EntryService {
	return &mock.EntryService{
		CreateEntryFn: func(_ context.Context, ct string, fields siteport.Fields, md *siteport.EntryMetadata) (string, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			if f.failTypes[ct] {
				return "", siteport.Errorf(siteport.EINVALID, "%s rejected", ct)
			}
			id := fmt.Sprintf("%s-%d", ct, len(f.entries)+1)
			f.entries = append(f.entries, created{ID: id, ContentType: ct, Fields: fields, Metadata: md})
			return id, nil
		},
		PublishEntryFn: func(_ context.Context, id string) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.published = append(f.published, id)
			return nil
		},
	}
}

func (f *fakeCMS) assetService() *mock.AssetService {
	return &mock.AssetService{
		CreateAssetFn: func(_ context.Context, u *siteport.AssetUpload) (string, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			if f.failAsset {
				return "", siteport.Errorf(siteport.EINTERNAL, "upload failed")
			}
			f.assets = append(f.assets, u)
			return fmt.Sprintf("asset-%d", len(f.assets)), nil
		},
	}
}

// ofType returns the created entries of a content type in creation order.
func (f *fakeCMS) ofType(ct string) []created {
	var out []created
	for _, e := range f.entries {
		if e.ContentType == ct {
			out = append(out, e)
		}
	}
	return out
}

func value(e created, field string) any {
	return e.Fields[field][siteport.DefaultLocale]
}

func linkIDs(v any) []string {
	var ids []string
	for _, item := range v.([]any) {
		ids = append(ids, item.(siteport.Link).Sys.ID)
	}
	return ids
}
