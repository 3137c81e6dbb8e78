package mock

import (
	"context"

	"github.com/fwojciec/siteport"
)

var (
	_ siteport.ManifestStore  = (*ManifestStore)(nil)
	_ siteport.ManifestReader = (*ManifestReader)(nil)
)

// ManifestStore is a mock implementation of siteport.ManifestStore.
type ManifestStore struct {
	SavePageFn     func(ctx context.Context, page *siteport.Page) error
	SaveBrandingFn func(ctx context.Context, branding *siteport.Branding) error
	SaveAssetFn    func(ctx context.Context, fileName string, data []byte) error
	SaveManifestFn func(ctx context.Context, manifest *siteport.Manifest) error
	CommitFn       func() error
	AbortFn        func() error
}

func (s *ManifestStore) SavePage(ctx context.Context, page *siteport.Page) error {
	return s.SavePageFn(ctx, page)
}

func (s *ManifestStore) SaveBranding(ctx context.Context, branding *siteport.Branding) error {
	return s.SaveBrandingFn(ctx, branding)
}

func (s *ManifestStore) SaveAsset(ctx context.Context, fileName string, data []byte) error {
	return s.SaveAssetFn(ctx, fileName, data)
}

func (s *ManifestStore) SaveManifest(ctx context.Context, manifest *siteport.Manifest) error {
	return s.SaveManifestFn(ctx, manifest)
}

func (s *ManifestStore) Commit() error {
	return s.CommitFn()
}

func (s *ManifestStore) Abort() error {
	return s.AbortFn()
}

// ManifestReader is a mock implementation of siteport.ManifestReader.
type ManifestReader struct {
	LoadManifestFn func(ctx context.Context) (*siteport.Manifest, error)
}

func (r *ManifestReader) LoadManifest(ctx context.Context) (*siteport.Manifest, error) {
	return r.LoadManifestFn(ctx)
}
