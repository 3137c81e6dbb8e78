package contentful_test

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/siteport"
	"github.com/fwojciec/siteport/contentful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upload() *siteport.AssetUpload {
	return &siteport.AssetUpload{
		Title:       "Hero - Home",
		FileName:    "hero.jpg",
		ContentType: "image/jpeg",
		URL:         "https://cdn.example.com/hero.jpg",
	}
}

func assetJSON(id string, version int, fileURL string) map[string]any {
	file := map[string]any{"fileName": "hero.jpg", "contentType": "image/jpeg"}
	if fileURL != "" {
		file["url"] = fileURL
	}
	return map[string]any{
		"sys":    map[string]any{"id": id, "version": version},
		"fields": map[string]any{"file": map[string]any{"en-US": file}},
	}
}

func TestClient_CreateAsset(t *testing.T) {
	t.Parallel()

	t.Run("reuses a processed asset with the same title", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("GET "+envPrefix+"/assets", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Hero - Home", r.URL.Query().Get("fields.title"))
			writeJSON(w, http.StatusOK, map[string]any{"items": []any{assetJSON("existing", 3, "//images.ctfassets.net/hero.jpg")}})
		})
		mux.HandleFunc("POST "+envPrefix+"/assets", func(w http.ResponseWriter, _ *http.Request) {
			t.Error("unexpected asset creation")
			w.WriteHeader(http.StatusInternalServerError)
		})

		id, err := newClient(t, mux).CreateAsset(context.Background(), upload())

		require.NoError(t, err)
		assert.Equal(t, "existing", id)
	})

	t.Run("creates, processes, and publishes a new asset", func(t *testing.T) {
		t.Parallel()

		var (
			created   map[string]any
			polls     atomic.Int32
			processed string
			published string
		)
		mux := http.NewServeMux()
		mux.HandleFunc("GET "+envPrefix+"/assets", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"items": []any{}})
		})
		mux.HandleFunc("POST "+envPrefix+"/assets", func(w http.ResponseWriter, r *http.Request) {
			created = decodeBody(t, r)
			writeJSON(w, http.StatusCreated, assetJSON("a1", 1, ""))
		})
		mux.HandleFunc("PUT "+envPrefix+"/assets/a1/files/en-US/process", func(w http.ResponseWriter, r *http.Request) {
			processed = r.Header.Get("X-Contentful-Version")
			w.WriteHeader(http.StatusNoContent)
		})
		mux.HandleFunc("GET "+envPrefix+"/assets/a1", func(w http.ResponseWriter, _ *http.Request) {
			if polls.Add(1) < 2 {
				writeJSON(w, http.StatusOK, assetJSON("a1", 2, ""))
				return
			}
			writeJSON(w, http.StatusOK, assetJSON("a1", 3, "//images.ctfassets.net/hero.jpg"))
		})
		mux.HandleFunc("PUT "+envPrefix+"/assets/a1/published", func(w http.ResponseWriter, r *http.Request) {
			published = r.Header.Get("X-Contentful-Version")
			writeJSON(w, http.StatusOK, assetJSON("a1", 4, "//images.ctfassets.net/hero.jpg"))
		})

		id, err := newClient(t, mux).CreateAsset(context.Background(), upload())

		require.NoError(t, err)
		assert.Equal(t, "a1", id)
		assert.Equal(t, "1", processed)
		assert.Equal(t, int32(2), polls.Load())
		assert.Equal(t, "3", published)
		file := created["fields"].(map[string]any)["file"].(map[string]any)["en-US"].(map[string]any)
		assert.Equal(t, "https://cdn.example.com/hero.jpg", file["upload"])
		assert.Equal(t, "hero.jpg", file["fileName"])
		assert.Equal(t, "image/jpeg", file["contentType"])
	})

	t.Run("returns the unpublished asset when processing does not finish", func(t *testing.T) {
		t.Parallel()

		var polls, publishes atomic.Int32
		mux := http.NewServeMux()
		mux.HandleFunc("GET "+envPrefix+"/assets", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"items": []any{}})
		})
		mux.HandleFunc("POST "+envPrefix+"/assets", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusCreated, assetJSON("a1", 1, ""))
		})
		mux.HandleFunc("PUT "+envPrefix+"/assets/a1/files/en-US/process", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		mux.HandleFunc("GET "+envPrefix+"/assets/a1", func(w http.ResponseWriter, _ *http.Request) {
			polls.Add(1)
			writeJSON(w, http.StatusOK, assetJSON("a1", 2, ""))
		})
		mux.HandleFunc("PUT "+envPrefix+"/assets/a1/published", func(w http.ResponseWriter, _ *http.Request) {
			publishes.Add(1)
		})

		id, err := newClient(t, mux, contentful.WithAssetPolls(3)).CreateAsset(context.Background(), upload())

		require.NoError(t, err)
		assert.Equal(t, "a1", id)
		assert.Equal(t, int32(3), polls.Load())
		assert.Zero(t, publishes.Load())
	})

	t.Run("ignores a failed publish", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("GET "+envPrefix+"/assets", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"items": []any{}})
		})
		mux.HandleFunc("POST "+envPrefix+"/assets", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusCreated, assetJSON("a1", 1, ""))
		})
		mux.HandleFunc("PUT "+envPrefix+"/assets/a1/files/en-US/process", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		mux.HandleFunc("GET "+envPrefix+"/assets/a1", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, assetJSON("a1", 2, "//images.ctfassets.net/hero.jpg"))
		})
		mux.HandleFunc("PUT "+envPrefix+"/assets/a1/published", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusConflict, map[string]any{"message": "already published"})
		})

		id, err := newClient(t, mux).CreateAsset(context.Background(), upload())

		require.NoError(t, err)
		assert.Equal(t, "a1", id)
	})

	t.Run("requires an upload URL", func(t *testing.T) {
		t.Parallel()
		_, err := newClient(t, http.NewServeMux()).CreateAsset(context.Background(), &siteport.AssetUpload{Title: "x"})
		assert.Equal(t, siteport.EINVALID, siteport.ErrorCode(err))
	})
}
