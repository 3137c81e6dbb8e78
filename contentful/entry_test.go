package contentful_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/fwojciec/siteport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreateEntry(t *testing.T) {
	t.Parallel()

	t.Run("posts fields and metadata with the content type header", func(t *testing.T) {
		t.Parallel()

		var got map[string]any
		mux := http.NewServeMux()
		mux.HandleFunc("POST "+envPrefix+"/entries", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			assert.Equal(t, "application/vnd.contentful.management.v1+json", r.Header.Get("Content-Type"))
			assert.Equal(t, "page", r.Header.Get("X-Contentful-Content-Type"))
			got = decodeBody(t, r)
			writeJSON(w, http.StatusCreated, map[string]any{"sys": map[string]any{"id": "entry-1", "version": 1}})
		})

		id, err := newClient(t, mux).CreateEntry(context.Background(), "page",
			siteport.Fields{"title": siteport.Localize("Home")},
			&siteport.EntryMetadata{Tags: []siteport.Link{siteport.NewLink("featured", siteport.LinkTypeTag)}},
		)

		require.NoError(t, err)
		assert.Equal(t, "entry-1", id)
		assert.Equal(t, map[string]any{"en-US": "Home"}, got["fields"].(map[string]any)["title"])
		tags := got["metadata"].(map[string]any)["tags"].([]any)
		require.Len(t, tags, 1)
		assert.NotContains(t, got, "sys")
	})

	t.Run("requires a content type", func(t *testing.T) {
		t.Parallel()
		_, err := newClient(t, http.NewServeMux()).CreateEntry(context.Background(), "", nil, nil)
		assert.Equal(t, siteport.EINVALID, siteport.ErrorCode(err))
	})
}

func TestClient_PublishEntry(t *testing.T) {
	t.Parallel()

	var published string
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+envPrefix+"/entries/e1", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"sys": map[string]any{"id": "e1", "version": 7}})
	})
	mux.HandleFunc("PUT "+envPrefix+"/entries/e1/published", func(w http.ResponseWriter, r *http.Request) {
		published = r.Header.Get("X-Contentful-Version")
		writeJSON(w, http.StatusOK, map[string]any{"sys": map[string]any{"id": "e1", "version": 8}})
	})

	err := newClient(t, mux).PublishEntry(context.Background(), "e1")

	require.NoError(t, err)
	assert.Equal(t, "7", published)
}

func TestClient_GetEntry(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+envPrefix+"/entries/e1", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"sys": map[string]any{
				"id":          "e1",
				"version":     4,
				"contentType": map[string]any{"sys": map[string]any{"id": "page"}},
			},
			"fields": map[string]any{"title": map[string]any{"en-US": "About"}},
		})
	})

	e, err := newClient(t, mux).GetEntry(context.Background(), "e1")

	require.NoError(t, err)
	assert.Equal(t, "e1", e.ID)
	assert.Equal(t, "page", e.ContentTypeID)
	assert.Equal(t, 4, e.Version)
	assert.Equal(t, "About", e.Value("title"))
}

func TestClient_UpdateEntry(t *testing.T) {
	t.Parallel()

	var version string
	var body map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("PUT "+envPrefix+"/entries/e1", func(w http.ResponseWriter, r *http.Request) {
		version = r.Header.Get("X-Contentful-Version")
		body = decodeBody(t, r)
		writeJSON(w, http.StatusOK, map[string]any{"sys": map[string]any{"id": "e1", "version": 5}})
	})

	entry := &siteport.Entry{ID: "e1", Version: 4, Fields: siteport.Fields{"seo": siteport.Localize(siteport.NewLink("seo-1", ""))}}
	err := newClient(t, mux).UpdateEntry(context.Background(), entry)

	require.NoError(t, err)
	assert.Equal(t, "4", version)
	assert.Equal(t, 5, entry.Version)
	assert.Contains(t, body["fields"], "seo")
}

func TestClient_FindEntries(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+envPrefix+"/entries", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "page", r.URL.Query().Get("content_type"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, map[string]any{"items": []any{
			map[string]any{"sys": map[string]any{"id": "p1", "version": 1}},
			map[string]any{"sys": map[string]any{"id": "p2", "version": 2}},
		}})
	})

	entries, err := newClient(t, mux).FindEntries(context.Background(), siteport.EntryFilter{ContentType: "page", Limit: 100})

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "p2", entries[1].ID)
	assert.Equal(t, 2, entries[1].Version)
}
