package load_test

import (
	"testing"

	"github.com/fwojciec/siteport"
	"github.com/fwojciec/siteport/load"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveReferences(t *testing.T) {
	t.Parallel()

	idMap := map[string]string{"hero": "cms-hero", "s1": "cms-s1", "logo": "cms-logo"}

	t.Run("replaces a single marker with a link", func(t *testing.T) {
		t.Parallel()

		got := load.ResolveReferences(siteport.Fields{
			"heroSection": siteport.Localize(siteport.Ref("hero")),
			"image":       siteport.Localize(siteport.LocalRef{LocalID: "logo", LinkType: siteport.LinkTypeAsset}),
		}, idMap)

		assert.Equal(t, siteport.NewLink("cms-hero", siteport.LinkTypeEntry), got["heroSection"][siteport.DefaultLocale])
		assert.Equal(t, siteport.NewLink("cms-logo", siteport.LinkTypeAsset), got["image"][siteport.DefaultLocale])
	})

	t.Run("resolves markers inside arrays and drops unresolved ones", func(t *testing.T) {
		t.Parallel()

		got := load.ResolveReferences(siteport.Fields{
			"sections": siteport.Localize([]any{siteport.Ref("s1"), siteport.Ref("missing"), "plain"}),
		}, idMap)

		assert.Equal(t, []any{siteport.NewLink("cms-s1", ""), "plain"}, got["sections"][siteport.DefaultLocale])
	})

	t.Run("deletes a field whose single marker is unresolved", func(t *testing.T) {
		t.Parallel()

		got := load.ResolveReferences(siteport.Fields{
			"seo":   siteport.Localize(siteport.Ref("missing")),
			"title": siteport.Localize("Home"),
		}, idMap)

		assert.NotContains(t, got, "seo")
		assert.Equal(t, "Home", got["title"][siteport.DefaultLocale])
	})

	t.Run("understands markers decoded from JSON", func(t *testing.T) {
		t.Parallel()

		got := load.ResolveReferences(siteport.Fields{
			"heroSection": siteport.Localize(map[string]any{"_localRef": "hero"}),
			"items":       siteport.Localize([]any{map[string]any{"_localRef": "logo", "_linkType": "Asset"}}),
		}, idMap)

		assert.Equal(t, siteport.NewLink("cms-hero", ""), got["heroSection"][siteport.DefaultLocale])
		assert.Equal(t, []any{siteport.NewLink("cms-logo", siteport.LinkTypeAsset)}, got["items"][siteport.DefaultLocale])
	})

	t.Run("does not modify its input", func(t *testing.T) {
		t.Parallel()

		items := []any{siteport.Ref("s1")}
		in := siteport.Fields{"sections": siteport.Localize(items)}

		_ = load.ResolveReferences(in, idMap)

		assert.Equal(t, siteport.Ref("s1"), items[0])
		assert.Equal(t, []any{siteport.Ref("s1")}, in["sections"][siteport.DefaultLocale])
	})
}

func payload(id string, deps ...string) siteport.EntryPayload {
	return siteport.EntryPayload{LocalID: id, ContentTypeID: "section", DependsOn: deps}
}

func localIDs(entries []siteport.EntryPayload) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.LocalID)
	}
	return ids
}

func TestSortByDependencies(t *testing.T) {
	t.Parallel()

	t.Run("places dependencies first", func(t *testing.T) {
		t.Parallel()

		got, err := load.SortByDependencies([]siteport.EntryPayload{
			payload("page", "hero", "section"),
			payload("section", "item1", "item2"),
			payload("hero"),
			payload("item1"),
			payload("item2"),
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"hero", "item1", "item2", "section", "page"}, localIDs(got))
	})

	t.Run("keeps input order for independent entries", func(t *testing.T) {
		t.Parallel()

		got, err := load.SortByDependencies([]siteport.EntryPayload{payload("c"), payload("a"), payload("b")})

		require.NoError(t, err)
		assert.Equal(t, []string{"c", "a", "b"}, localIDs(got))
	})

	t.Run("ignores unknown dependencies", func(t *testing.T) {
		t.Parallel()

		got, err := load.SortByDependencies([]siteport.EntryPayload{payload("page", "elsewhere")})

		require.NoError(t, err)
		assert.Equal(t, []string{"page"}, localIDs(got))
	})

	t.Run("reports a cycle", func(t *testing.T) {
		t.Parallel()

		_, err := load.SortByDependencies([]siteport.EntryPayload{
			payload("a", "b"),
			payload("b", "c"),
			payload("c", "a"),
		})

		require.Error(t, err)
		assert.Equal(t, siteport.EINVALID, siteport.ErrorCode(err))
		assert.Contains(t, siteport.ErrorMessage(err), "a -> b -> c -> a")
	})

	t.Run("reports a self dependency", func(t *testing.T) {
		t.Parallel()

		_, err := load.SortByDependencies([]siteport.EntryPayload{payload("a", "a")})

		assert.Equal(t, siteport.EINVALID, siteport.ErrorCode(err))
	})
}
