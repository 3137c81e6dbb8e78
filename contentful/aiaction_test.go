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

func TestClient_FindActions(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /spaces/sp1/ai/actions", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, map[string]any{"items": []any{
			map[string]any{"sys": map[string]any{"id": "act-seo"}, "name": "Generate SEO Metadata"},
			map[string]any{"sys": map[string]any{"id": "act-geo"}, "name": "Generate AI Discovery Content"},
			map[string]any{"sys": map[string]any{"id": "act-tr"}, "name": "Translate"},
			map[string]any{"sys": map[string]any{"id": "act-other"}, "name": "Summarize"},
		}})
	})

	actions, err := newClient(t, mux).FindActions(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &siteport.AIActions{SEO: "act-seo", GEO: "act-geo", Translate: "act-tr"}, actions)
}

func TestClient_InvokeAction(t *testing.T) {
	t.Parallel()

	const actionPath = envPrefix + "/ai/actions/act-seo"

	t.Run("polls until the invocation completes", func(t *testing.T) {
		t.Parallel()

		var body map[string]any
		var polls atomic.Int32
		mux := http.NewServeMux()
		mux.HandleFunc("POST "+actionPath+"/invoke", func(w http.ResponseWriter, r *http.Request) {
			body = decodeBody(t, r)
			writeJSON(w, http.StatusAccepted, map[string]any{"sys": map[string]any{"id": "inv-1", "status": "SCHEDULED"}})
		})
		mux.HandleFunc("GET "+actionPath+"/invocations/inv-1", func(w http.ResponseWriter, _ *http.Request) {
			if polls.Add(1) < 3 {
				writeJSON(w, http.StatusOK, map[string]any{"sys": map[string]any{"id": "inv-1", "status": "IN_PROGRESS"}})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"sys":    map[string]any{"id": "inv-1", "status": "COMPLETED"},
				"result": map[string]any{"content": "META_TITLE: Home"},
			})
		})

		out, err := newClient(t, mux).InvokeAction(context.Background(), "act-seo", map[string]string{
			"title":       "Home",
			"description": "Welcome",
		})

		require.NoError(t, err)
		assert.Equal(t, "META_TITLE: Home", out)
		assert.Equal(t, int32(3), polls.Load())
		assert.Equal(t, []any{
			map[string]any{"id": "description", "value": "Welcome"},
			map[string]any{"id": "title", "value": "Home"},
		}, body["variables"])
	})

	t.Run("reports a failed invocation", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("POST "+actionPath+"/invoke", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusAccepted, map[string]any{"sys": map[string]any{"id": "inv-1"}})
		})
		mux.HandleFunc("GET "+actionPath+"/invocations/inv-1", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"sys":   map[string]any{"id": "inv-1", "status": "FAILED"},
				"error": "model unavailable",
			})
		})

		_, err := newClient(t, mux).InvokeAction(context.Background(), "act-seo", nil)

		assert.Equal(t, siteport.EINTERNAL, siteport.ErrorCode(err))
		assert.Contains(t, siteport.ErrorMessage(err), "model unavailable")
	})

	t.Run("times out after the poll budget", func(t *testing.T) {
		t.Parallel()

		var polls atomic.Int32
		mux := http.NewServeMux()
		mux.HandleFunc("POST "+actionPath+"/invoke", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusAccepted, map[string]any{"sys": map[string]any{"id": "inv-1"}})
		})
		mux.HandleFunc("GET "+actionPath+"/invocations/inv-1", func(w http.ResponseWriter, _ *http.Request) {
			polls.Add(1)
			writeJSON(w, http.StatusOK, map[string]any{"sys": map[string]any{"id": "inv-1", "status": "IN_PROGRESS"}})
		})

		_, err := newClient(t, mux, contentful.WithActionPolls(4)).InvokeAction(context.Background(), "act-seo", nil)

		assert.Equal(t, siteport.EINTERNAL, siteport.ErrorCode(err))
		assert.Contains(t, siteport.ErrorMessage(err), "timed out")
		assert.Equal(t, int32(4), polls.Load())
	})

	t.Run("requires an invocation ID", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("POST "+actionPath+"/invoke", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusAccepted, map[string]any{})
		})

		_, err := newClient(t, mux).InvokeAction(context.Background(), "act-seo", nil)

		assert.Equal(t, siteport.EINTERNAL, siteport.ErrorCode(err))
	})
}
