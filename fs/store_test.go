package fs_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/siteport"
	"github.com/fwojciec/siteport/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		slug string
		want string
	}{
		{name: "flat slug", slug: "pricing", want: "pricing.json"},
		{name: "nested slug", slug: "products/widget", want: "products_widget.json"},
		{name: "homepage slug", slug: "home", want: "home.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, fs.PageFileName(tt.slug))
		})
	}
}

func TestStore_Commit(t *testing.T) {
	t.Parallel()

	t.Run("moves the pending run into place", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		dir := t.TempDir()
		store := fs.NewStore(dir)

		// Given: a page, an asset, and a manifest written to the store
		page := &siteport.Page{URL: "https://example.com/products/widget", Slug: "products/widget", Title: "Widget"}
		require.NoError(t, store.SavePage(ctx, page))
		require.NoError(t, store.SaveAsset(ctx, "logo.png", []byte("png")))
		require.NoError(t, store.SaveManifest(ctx, &siteport.Manifest{RunID: "run-1"}))

		// When: the run is committed
		require.NoError(t, store.Commit())

		// Then: files live in the final directory and the temp dir is gone
		data, err := os.ReadFile(filepath.Join(dir, "harvest", "pages", "products_widget.json"))
		require.NoError(t, err)
		var got siteport.Page
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "Widget", got.Title)

		asset, err := os.ReadFile(filepath.Join(dir, "harvest", "assets", "logo.png"))
		require.NoError(t, err)
		assert.Equal(t, "png", string(asset))

		_, err = os.Stat(filepath.Join(dir, "harvest.tmp"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("replaces the previous run", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		dir := t.TempDir()

		// Given: a committed run with an old page
		first := fs.NewStore(dir)
		require.NoError(t, first.SavePage(ctx, &siteport.Page{URL: "https://example.com/old", Slug: "old"}))
		require.NoError(t, first.Commit())

		// When: a second run with a different page is committed
		second := fs.NewStore(dir)
		require.NoError(t, second.SavePage(ctx, &siteport.Page{URL: "https://example.com/new", Slug: "new"}))
		require.NoError(t, second.Commit())

		// Then: only the new page remains
		_, err := os.Stat(filepath.Join(dir, "harvest", "pages", "old.json"))
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(filepath.Join(dir, "harvest", "pages", "new.json"))
		assert.NoError(t, err)
	})

	t.Run("commits an empty run", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		require.NoError(t, fs.NewStore(dir).Commit())

		info, err := os.Stat(filepath.Join(dir, "harvest"))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})
}

func TestStore_Abort(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()

	// Given: a committed run and a pending one
	committed := fs.NewStore(dir)
	require.NoError(t, committed.SaveManifest(ctx, &siteport.Manifest{RunID: "kept"}))
	require.NoError(t, committed.Commit())

	pending := fs.NewStore(dir)
	require.NoError(t, pending.SaveManifest(ctx, &siteport.Manifest{RunID: "discarded"}))

	// When: the pending run is aborted
	require.NoError(t, pending.Abort())

	// Then: the committed run is untouched
	_, err := os.Stat(filepath.Join(dir, "harvest.tmp"))
	assert.True(t, os.IsNotExist(err))
	m, err := pending.LoadManifest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "kept", m.RunID)
}

func TestStore_SavePage(t *testing.T) {
	t.Parallel()

	t.Run("writes markdown export when the page has a markdown body", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		dir := t.TempDir()
		store := fs.NewStore(dir)

		page := &siteport.Page{
			URL:          "https://example.com/about",
			Slug:         "about",
			Title:        "About Us",
			BodyMarkdown: "# About Us\n\nWe make widgets.",
		}
		require.NoError(t, store.SavePage(ctx, page))
		require.NoError(t, store.Commit())

		data, err := os.ReadFile(filepath.Join(dir, "harvest", "pages", "about.md"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "source: https://example.com/about")
		assert.Contains(t, string(data), "We make widgets.")
	})

	t.Run("skips markdown export without a markdown body", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		dir := t.TempDir()
		store := fs.NewStore(dir)

		require.NoError(t, store.SavePage(ctx, &siteport.Page{URL: "https://example.com/about", Slug: "about"}))
		require.NoError(t, store.Commit())

		_, err := os.Stat(filepath.Join(dir, "harvest", "pages", "about.md"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("rejects a page without a slug", func(t *testing.T) {
		t.Parallel()
		store := fs.NewStore(t.TempDir())

		err := store.SavePage(context.Background(), &siteport.Page{URL: "https://example.com/"})

		assert.Equal(t, siteport.EINVALID, siteport.ErrorCode(err))
	})
}

func TestStore_SaveAsset(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "../escape.png", "nested/logo.png", ".."} {
		t.Run("rejects "+name, func(t *testing.T) {
			t.Parallel()
			store := fs.NewStore(t.TempDir())

			err := store.SaveAsset(context.Background(), name, []byte("x"))

			assert.Equal(t, siteport.EINVALID, siteport.ErrorCode(err))
		})
	}
}

func TestStore_LoadManifest(t *testing.T) {
	t.Parallel()

	t.Run("round trips the committed manifest", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		store := fs.NewStore(t.TempDir())
		ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

		rating := 4.5
		page := &siteport.Page{
			URL:      "https://acme.com/",
			Type:     siteport.URLTypeHomepage,
			Slug:     "home",
			Title:    "Acme",
			H1:       "Built for the job site",
			Images:   []string{"https://acme.com/hero.jpg"},
			Strategy: siteport.StrategyNextJS,
			Sections: []siteport.Section{{
				Title: "Drills",
				Items: []siteport.SectionItem{{Name: "Hammer drill", Link: "https://acme.com/drills/hammer"}},
			}},
			Branding: &siteport.Branding{PrimaryColor: "#ff0000", HeadingFont: "Poppins"},
			Taxonomy: &siteport.TaxonomyHints{
				Breadcrumbs:    []string{"Home"},
				URLPath:        []string{},
				MetaCategories: []string{"Tools"},
			},
			StructuredData: &siteport.StructuredPayload{
				Source:   siteport.PayloadSourceNext,
				Products: []siteport.Product{{Name: "Drill", SKU: "D1", Price: 99.5, Rating: &rating}},
				Raw:      json.RawMessage(`{"props":{"pageProps":{"x":1}}}`),
			},
		}
		manifest := &siteport.Manifest{
			RunID:     "run-1",
			Config:    &siteport.HarvestConfig{Name: "acme", URLs: []siteport.URLEntry{{URL: "https://acme.com/"}}},
			Pages:     []*siteport.Page{page},
			Branding:  &siteport.Branding{PrimaryColor: "#ff0000"},
			Assets:    []siteport.AssetEntry{{OriginalURL: "https://acme.com/logo.png", FileName: "logo.png"}},
			Summary:   siteport.HarvestSummary{Succeeded: 1},
			Timestamp: ts,
		}
		require.NoError(t, store.SaveManifest(ctx, manifest))
		require.NoError(t, store.Commit())

		got, err := store.LoadManifest(ctx)

		require.NoError(t, err)
		assert.Equal(t, manifest, got)
	})

	t.Run("returns not found before any commit", func(t *testing.T) {
		t.Parallel()

		_, err := fs.NewStore(t.TempDir()).LoadManifest(context.Background())

		assert.Equal(t, siteport.ENOTFOUND, siteport.ErrorCode(err))
	})
}
