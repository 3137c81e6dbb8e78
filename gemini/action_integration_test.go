//go:build integration

package gemini_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fwojciec/siteport"
	"github.com/fwojciec/siteport/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestActionService_Integration_GeneratesSEO(t *testing.T) {
	t.Parallel()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	require.NoError(t, err)

	out, err := gemini.NewActionService(client).InvokeAction(ctx, gemini.ActionSEO, map[string]string{
		"title":       "Cordless Drill 18V",
		"description": "Compact drill with two batteries and a carry case.",
	})
	require.NoError(t, err)

	seo := siteport.ParseSEOOutput(out)
	assert.NotEmpty(t, seo.MetaTitle)
	assert.NotEmpty(t, seo.Keywords)
}
