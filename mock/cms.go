package mock

import (
	"context"

	"github.com/fwojciec/siteport"
)

var (
	_ siteport.EntryService    = (*EntryService)(nil)
	_ siteport.AssetService    = (*AssetService)(nil)
	_ siteport.AIActionService = (*AIActionService)(nil)
)

// EntryService is a mock implementation of siteport.EntryService.
type EntryService struct {
	CreateEntryFn  func(ctx context.Context, contentTypeID string, fields siteport.Fields, metadata *siteport.EntryMetadata) (string, error)
	PublishEntryFn func(ctx context.Context, id string) error
	GetEntryFn     func(ctx context.Context, id string) (*siteport.Entry, error)
	UpdateEntryFn  func(ctx context.Context, entry *siteport.Entry) error
	FindEntriesFn  func(ctx context.Context, filter siteport.EntryFilter) ([]*siteport.Entry, error)
}

func (s *EntryService) CreateEntry(ctx context.Context, contentTypeID string, fields siteport.Fields, metadata *siteport.EntryMetadata) (string, error) {
	return s.CreateEntryFn(ctx, contentTypeID, fields, metadata)
}

func (s *EntryService) PublishEntry(ctx context.Context, id string) error {
	return s.PublishEntryFn(ctx, id)
}

func (s *EntryService) GetEntry(ctx context.Context, id string) (*siteport.Entry, error) {
	return s.GetEntryFn(ctx, id)
}

func (s *EntryService) UpdateEntry(ctx context.Context, entry *siteport.Entry) error {
	return s.UpdateEntryFn(ctx, entry)
}

func (s *EntryService) FindEntries(ctx context.Context, filter siteport.EntryFilter) ([]*siteport.Entry, error) {
	return s.FindEntriesFn(ctx, filter)
}

// AssetService is a mock implementation of siteport.AssetService.
type AssetService struct {
	CreateAssetFn func(ctx context.Context, upload *siteport.AssetUpload) (string, error)
}

func (s *AssetService) CreateAsset(ctx context.Context, upload *siteport.AssetUpload) (string, error) {
	return s.CreateAssetFn(ctx, upload)
}

// AIActionService is a mock implementation of siteport.AIActionService.
type AIActionService struct {
	FindActionsFn  func(ctx context.Context) (*siteport.AIActions, error)
	InvokeActionFn func(ctx context.Context, actionID string, variables map[string]string) (string, error)
}

func (s *AIActionService) FindActions(ctx context.Context) (*siteport.AIActions, error) {
	return s.FindActionsFn(ctx)
}

func (s *AIActionService) InvokeAction(ctx context.Context, actionID string, variables map[string]string) (string, error) {
	return s.InvokeActionFn(ctx, actionID, variables)
}
