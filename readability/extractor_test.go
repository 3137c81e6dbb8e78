package readability_test

import (
	"testing"

	"github.com/fwojciec/siteport"
	"github.com/fwojciec/siteport/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := readability.NewExtractor(0).Extract("")

	require.Error(t, err)
	assert.Equal(t, siteport.EINVALID, siteport.ErrorCode(err))
}

func TestExtractor_ExtractsTitle(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head><title>About Acme</title></head>
<body><article><p>Acme has built tools for three generations of tradespeople.</p></article></body>
</html>`

	result, err := readability.NewExtractor(0).Extract(html)

	require.NoError(t, err)
	assert.Equal(t, "About Acme", result.Title)
}

func TestExtractor_KeepsStoryAndDropsChrome(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head><title>Our Story</title></head>
<body>
<nav><a href="/">Home Nav Link</a><a href="/shop">Shop Nav Link</a></nav>
<aside class="sidebar"><p>Sign up for deals</p></aside>
<article>
<h2>Founded in a garage</h2>
<p>Acme started in 1952 when our founder rebuilt a broken drill and decided he could make a better one.</p>
<p>Seventy years later every tool is still designed and tested in the same town.</p>
</article>
<footer><p>Footer copyright text 2026</p></footer>
</body>
</html>`

	result, err := readability.NewExtractor(0).Extract(html)

	require.NoError(t, err)
	assert.Contains(t, result.ContentHTML, "rebuilt a broken drill")
	assert.Contains(t, result.ContentHTML, "Founded in a garage")
	assert.NotContains(t, result.ContentHTML, "Home Nav Link")
	assert.NotContains(t, result.ContentHTML, "Footer copyright text")
}

func TestExtractor_DiscardsThinContent(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head><title>Sale</title></head>
<body><article><p>50% off today.</p></article></body>
</html>`

	result, err := readability.NewExtractor(100).Extract(html)

	require.NoError(t, err)
	assert.Empty(t, result.ContentHTML)
	assert.Equal(t, "Sale", result.Title)
}
