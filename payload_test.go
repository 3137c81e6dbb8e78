package siteport_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/siteport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredPayload_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("compacts an indented raw payload", func(t *testing.T) {
		t.Parallel()

		data := []byte(`{
  "source": "next",
  "raw": {
    "props": {
      "pageProps": {"x": 1}
    }
  }
}`)
		var p siteport.StructuredPayload

		require.NoError(t, json.Unmarshal(data, &p))

		assert.Equal(t, siteport.PayloadSourceNext, p.Source)
		assert.Equal(t, `{"props":{"pageProps":{"x":1}}}`, string(p.Raw))
	})

	t.Run("reads back what MarshalIndent wrote", func(t *testing.T) {
		t.Parallel()

		want := siteport.StructuredPayload{
			Source:   siteport.PayloadSourceNext,
			Products: []siteport.Product{{Name: "Drill", Price: 99}},
			Raw:      json.RawMessage(`{"buildId":"b1","props":{"pageProps":{"x":1}}}`),
		}
		data, err := json.MarshalIndent(want, "", "  ")
		require.NoError(t, err)

		var got siteport.StructuredPayload
		require.NoError(t, json.Unmarshal(data, &got))

		assert.Equal(t, want, got)
	})

	t.Run("leaves an absent raw payload empty", func(t *testing.T) {
		t.Parallel()

		var p siteport.StructuredPayload

		require.NoError(t, json.Unmarshal([]byte(`{"source":"nuxt"}`), &p))

		assert.Nil(t, p.Raw)
	})
}
