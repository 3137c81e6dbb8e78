package siteport

import (
	"context"
	"time"
)

// DefaultLocale is the locale every localized CMS field is written in.
const DefaultLocale = "en-US"

// Link types understood by the CMS.
const (
	LinkTypeEntry   = "Entry"
	LinkTypeAsset   = "Asset"
	LinkTypeTag     = "Tag"
	LinkTypeConcept = "TaxonomyConcept"
)

// Fields maps a field ID to its per-locale values.
type Fields map[string]map[string]any

// Localize wraps v as a value in the default locale.
func Localize(v any) map[string]any {
	return map[string]any{DefaultLocale: v}
}

// Link is a CMS reference to another entry or asset.
type Link struct {
	Sys LinkSys `json:"sys"`
}

// LinkSys is the sys block of a Link.
type LinkSys struct {
	Type     string `json:"type"`
	LinkType string `json:"linkType"`
	ID       string `json:"id"`
}

// NewLink returns a Link to id. An empty linkType means LinkTypeEntry.
func NewLink(id, linkType string) Link {
	if linkType == "" {
		linkType = LinkTypeEntry
	}
	return Link{Sys: LinkSys{Type: "Link", LinkType: linkType, ID: id}}
}

// LocalRef is a placeholder for an entry that has not been created yet.
// It is replaced by a Link once the referenced entry has a CMS ID.
type LocalRef struct {
	LocalID  string `json:"_localRef"`
	LinkType string `json:"_linkType,omitempty"`
}

// Ref returns a LocalRef to the entry with the given local ID.
func Ref(localID string) LocalRef {
	return LocalRef{LocalID: localID, LinkType: LinkTypeEntry}
}

// EntryMetadata holds tag and taxonomy-concept links of an entry.
type EntryMetadata struct {
	Tags     []Link `json:"tags,omitempty"`
	Concepts []Link `json:"concepts,omitempty"`
}

// EntryPayload is an entry waiting to be created. DependsOn lists the local
// IDs of entries that must exist first.
type EntryPayload struct {
	LocalID       string         `json:"localId"`
	ContentTypeID string         `json:"contentTypeId"`
	Fields        Fields         `json:"fields"`
	Metadata      *EntryMetadata `json:"metadata,omitempty"`
	DependsOn     []string       `json:"dependsOn,omitempty"`
}

// Entry is an entry as stored in the CMS.
type Entry struct {
	ID            string `json:"id"`
	ContentTypeID string `json:"contentTypeId"`
	Version       int    `json:"version"`
	Fields        Fields `json:"fields"`
}

// Value returns the default-locale value of a field, or nil.
func (e *Entry) Value(field string) any {
	if e.Fields == nil {
		return nil
	}
	return e.Fields[field][DefaultLocale]
}

// EntryFilter represents a filter for FindEntries.
type EntryFilter struct {
	ContentType string
	Limit       int
}

// EntryService writes entries to the CMS.
type EntryService interface {
	// CreateEntry creates a draft entry and returns its ID.
	CreateEntry(ctx context.Context, contentTypeID string, fields Fields, metadata *EntryMetadata) (string, error)

	// PublishEntry publishes the latest version of an entry.
	PublishEntry(ctx context.Context, id string) error

	// GetEntry returns ENOTFOUND if the entry does not exist.
	GetEntry(ctx context.Context, id string) (*Entry, error)

	// UpdateEntry writes entry.Fields using entry.Version for locking.
	UpdateEntry(ctx context.Context, entry *Entry) error

	FindEntries(ctx context.Context, filter EntryFilter) ([]*Entry, error)
}

// AssetUpload describes a remote file to import as a CMS asset.
type AssetUpload struct {
	Title       string
	Description string
	FileName    string
	ContentType string
	URL         string
}

// AssetService imports assets into the CMS.
type AssetService interface {
	// CreateAsset imports the file and returns the asset ID. An existing
	// processed asset with the same title is reused.
	CreateAsset(ctx context.Context, upload *AssetUpload) (string, error)
}

// LoadReport summarizes a batch of CMS writes.
type LoadReport struct {
	SpaceID        string            `json:"spaceId"`
	EnvironmentID  string            `json:"environmentId"`
	AssetsCreated  int               `json:"assetsCreated"`
	EntriesCreated int               `json:"entriesCreated"`
	Errors         []string          `json:"errors"`
	IDMap          map[string]string `json:"idMap"`
	Timestamp      time.Time         `json:"timestamp"`
}
