package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/siteport"
)

var (
	_ siteport.EntryService = (*LoggingEntryService)(nil)
	_ siteport.AssetService = (*LoggingAssetService)(nil)
)

// LoggingEntryService wraps an EntryService with logging.
type LoggingEntryService struct {
	next   siteport.EntryService
	logger *slog.Logger
}

// NewLoggingEntryService creates a new LoggingEntryService.
func NewLoggingEntryService(next siteport.EntryService, logger *slog.Logger) *LoggingEntryService {
	return &LoggingEntryService{next: next, logger: logger}
}

func (s *LoggingEntryService) CreateEntry(ctx context.Context, contentTypeID string, fields siteport.Fields, metadata *siteport.EntryMetadata) (id string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("create entry",
			"contentType", contentTypeID,
			"fields", len(fields),
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateEntry(ctx, contentTypeID, fields, metadata)
}

func (s *LoggingEntryService) PublishEntry(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("publish entry",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.PublishEntry(ctx, id)
}

func (s *LoggingEntryService) GetEntry(ctx context.Context, id string) (entry *siteport.Entry, err error) {
	defer func(begin time.Time) {
		s.logger.Info("get entry",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.GetEntry(ctx, id)
}

func (s *LoggingEntryService) UpdateEntry(ctx context.Context, entry *siteport.Entry) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("update entry",
			"id", entry.ID,
			"version", entry.Version,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.UpdateEntry(ctx, entry)
}

func (s *LoggingEntryService) FindEntries(ctx context.Context, filter siteport.EntryFilter) (entries []*siteport.Entry, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find entries",
			"contentType", filter.ContentType,
			"count", len(entries),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindEntries(ctx, filter)
}

// LoggingAssetService wraps an AssetService with logging.
type LoggingAssetService struct {
	next   siteport.AssetService
	logger *slog.Logger
}

// NewLoggingAssetService creates a new LoggingAssetService.
func NewLoggingAssetService(next siteport.AssetService, logger *slog.Logger) *LoggingAssetService {
	return &LoggingAssetService{next: next, logger: logger}
}

func (s *LoggingAssetService) CreateAsset(ctx context.Context, upload *siteport.AssetUpload) (id string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("create asset",
			"title", upload.Title,
			"url", upload.URL,
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateAsset(ctx, upload)
}
