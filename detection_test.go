package siteport_test

import (
	"testing"

	"github.com/fwojciec/siteport"
	"github.com/stretchr/testify/assert"
)

func TestFormatDetectionReport(t *testing.T) {
	t.Parallel()

	t.Run("lists detected features", func(t *testing.T) {
		t.Parallel()

		got := siteport.FormatDetectionReport("https://shop.example.com", &siteport.DetectionResult{
			Strategy:          siteport.StrategyNextJS,
			Framework:         "Next.js",
			HasStructuredData: true,
			HasProducts:       true,
			HasNavigation:     true,
			PageSize:          200 * 1024,
			Confidence:        siteport.ConfidenceHigh,
			Recommendation:    "Extract from __NEXT_DATA__",
		})

		assert.Equal(t, `  https://shop.example.com
    Framework: Next.js
    Strategy: Extract from __NEXT_DATA__
    Confidence: high
    Page size: 200 KB
    Products: detected
    Navigation: detected
    Structured data: available`, got)
	})

	t.Run("names an unknown framework", func(t *testing.T) {
		t.Parallel()

		got := siteport.FormatDetectionReport("https://acme.com", &siteport.DetectionResult{
			Strategy:       siteport.StrategyStatic,
			PageSize:       1500,
			Confidence:     siteport.ConfidenceLow,
			Recommendation: "Parse the HTML",
		})

		assert.Contains(t, got, "Framework: Unknown")
		assert.Contains(t, got, "Page size: 1 KB")
		assert.NotContains(t, got, "Products")
	})
}
