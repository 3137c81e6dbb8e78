package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fwojciec/siteport"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var (
	_ siteport.ManifestStore  = (*Store)(nil)
	_ siteport.ManifestReader = (*Store)(nil)
)

const (
	statusPending   = "pending"
	statusCommitted = "committed"
)

// timeFormat sorts lexically in time order.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Store writes one harvest run at a time into the database. The run stays
// pending, and invisible to LoadManifest, until Commit.
type Store struct {
	db  *DB
	now func() time.Time

	mu      sync.Mutex
	runID   string
	started bool
}

// NewStore creates a Store for a new pending run.
func NewStore(db *DB) *Store {
	return &Store{
		db:    db,
		now:   time.Now,
		runID: uuid.NewString(),
	}
}

// RunID returns the ID of the run this store writes.
func (s *Store) RunID() string {
	return s.runID
}

// begin inserts the pending run row on first write. Callers hold s.mu.
func (s *Store) begin(ctx context.Context) error {
	if s.started {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, status, created_at) VALUES (?, ?, ?)
	`, s.runID, statusPending, s.now().UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("failed to start run: %w", err)
	}
	s.started = true
	return nil
}

// SavePage stores a page, replacing any page of the run with the same slug.
func (s *Store) SavePage(ctx context.Context, page *siteport.Page) error {
	if err := page.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(page)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(ctx); err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO pages (run_id, slug, url, content_hash, data)
		VALUES (?, ?, ?, ?, ?)
	`, s.runID, page.Slug, page.URL, page.ContentHash, string(data))
	return err
}

func (s *Store) SaveBranding(ctx context.Context, branding *siteport.Branding) error {
	data, err := json.Marshal(branding)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(ctx); err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `UPDATE runs SET branding = ? WHERE id = ?`, string(data), s.runID)
	return err
}

// SaveAsset stores an asset body. It is safe for concurrent use.
func (s *Store) SaveAsset(ctx context.Context, fileName string, data []byte) error {
	if fileName == "" {
		return siteport.Errorf(siteport.EINVALID, "asset file name required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(ctx); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO assets (run_id, file_name, data) VALUES (?, ?, ?)
	`, s.runID, fileName, data)
	return err
}

// SaveManifest stores the manifest. Its pages are kept in the pages table
// and restored from there on load.
func (s *Store) SaveManifest(ctx context.Context, manifest *siteport.Manifest) error {
	m := *manifest
	m.Pages = nil
	data, err := json.Marshal(&m)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(ctx); err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `UPDATE runs SET manifest = ? WHERE id = ?`, string(data), s.runID)
	return err
}

// Commit marks the run committed, making it the latest run.
func (s *Store) Commit() error {
	ctx := context.Background()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(ctx); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE runs SET status = ?, committed_at = ? WHERE id = ?
	`, statusCommitted, s.now().UTC().Format(timeFormat), s.runID)
	return err
}

// Abort deletes the pending run with its pages and assets.
func (s *Store) Abort() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil
	}
	_, err := s.db.ExecContext(context.Background(), `
		DELETE FROM runs WHERE id = ? AND status = ?
	`, s.runID, statusPending)
	return err
}

// LoadManifest returns the most recently committed run.
func (s *Store) LoadManifest(ctx context.Context) (*siteport.Manifest, error) {
	var runID, data string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, manifest FROM runs
		WHERE status = ?
		ORDER BY committed_at DESC, rowid DESC
		LIMIT 1
	`, statusCommitted).Scan(&runID, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, siteport.Errorf(siteport.ENOTFOUND, "no committed harvest run; run harvest first")
	}
	if err != nil {
		return nil, err
	}

	var m siteport.Manifest
	if data != "" {
		if err := json.Unmarshal([]byte(data), &m); err != nil {
			return nil, fmt.Errorf("failed to decode manifest of run %s: %w", runID, err)
		}
	}
	if m.RunID == "" {
		m.RunID = runID
	}

	pages, err := s.findPages(ctx, runID)
	if err != nil {
		return nil, err
	}
	m.Pages = pages
	return &m, nil
}

// findPages returns the pages of a run in the order they were saved.
func (s *Store) findPages(ctx context.Context, runID string) ([]*siteport.Page, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT data FROM pages WHERE run_id = ? ORDER BY rowid
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*siteport.Page
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var p siteport.Page
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, fmt.Errorf("failed to decode page: %w", err)
		}
		pages = append(pages, &p)
	}
	return pages, rows.Err()
}
