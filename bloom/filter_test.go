package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/siteport/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	t.Parallel()

	t.Run("reports added URLs as present", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(100, 0.01)
		f.Add("https://acme.com/products")

		assert.True(t, f.Test("https://acme.com/products"))
		assert.False(t, f.Test("https://acme.com/about"))
	})

	t.Run("adds and tests in one step", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(100, 0.01)

		assert.False(t, f.TestAndAdd("https://acme.com/"))
		assert.True(t, f.TestAndAdd("https://acme.com/"))
	})

	t.Run("estimates the number of distinct URLs", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(1000, 0.01)
		for i := range 3 {
			f.Add(fmt.Sprintf("https://acme.com/p/%d", i))
			f.Add(fmt.Sprintf("https://acme.com/p/%d", i))
		}

		count := f.Count()
		assert.True(t, count >= 2 && count <= 4, "expected a count near 3, got %d", count)
	})

	t.Run("keeps false positives near the configured rate", func(t *testing.T) {
		t.Parallel()

		const n = 5000
		f := bloom.NewFilter(n, 0.01)
		for i := range n {
			f.Add(fmt.Sprintf("https://acme.com/added/%d", i))
		}

		falsePositives := 0
		for i := range n {
			if f.Test(fmt.Sprintf("https://acme.com/absent/%d", i)) {
				falsePositives++
			}
		}

		assert.Less(t, float64(falsePositives)/n, 0.02)
	})
}
