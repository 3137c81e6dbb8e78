package load

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/siteport"
)

// Executor creates a batch of interdependent entries in dependency order.
type Executor struct {
	Entries       siteport.EntryService
	SpaceID       string
	EnvironmentID string
	Now           func() time.Time
	Logger        *slog.Logger
}

// Apply creates and publishes entries, resolving each entry's local
// references to the IDs of entries created before it. A failed entry is
// recorded in the report and the batch continues; entries that reference
// it lose that reference. Only a dependency cycle or cancellation fails
// the batch.
func (x *Executor) Apply(ctx context.Context, entries []siteport.EntryPayload) (*siteport.LoadReport, error) {
	sorted, err := SortByDependencies(entries)
	if err != nil {
		return nil, err
	}

	logger := loggerOrDiscard(x.Logger)
	pub := publisher{entries: x.Entries, logger: logger}
	report := &siteport.LoadReport{
		SpaceID:       x.SpaceID,
		EnvironmentID: x.EnvironmentID,
		Errors:        []string{},
		IDMap:         make(map[string]string, len(sorted)),
	}

	for _, e := range sorted {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		fields := ResolveReferences(e.Fields, report.IDMap)
		id, err := pub.createWithMetadata(ctx, e.ContentTypeID, fields, e.Metadata)
		if err != nil {
			logger.Warn("entry failed", "localId", e.LocalID, "type", e.ContentTypeID, "err", err)
			report.Errors = append(report.Errors, fmt.Sprintf("%s (%s): %v", e.LocalID, e.ContentTypeID, err))
			continue
		}
		report.IDMap[e.LocalID] = id
		report.EntriesCreated++
	}

	report.Timestamp = time.Now()
	if x.Now != nil {
		report.Timestamp = x.Now()
	}
	return report, nil
}
