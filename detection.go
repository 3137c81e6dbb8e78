package siteport

import (
	"fmt"
	"strings"
)

// Strategy is the inferred rendering approach of a site. It decides which
// extraction path runs for a page.
type Strategy string

// Strategies in detection precedence order.
const (
	StrategyNextJS      Strategy = "nextjs"
	StrategyNuxtJS      Strategy = "nuxtjs"
	StrategyGatsby      Strategy = "gatsby"
	StrategyBlocked     Strategy = "blocked"
	StrategyReactStatic Strategy = "react-static"
	StrategyStatic      Strategy = "static"
)

// Confidence ranks how sure the detector is. It has no numeric meaning
// beyond ordering.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// DetectionResult describes the strategy detected for one page fetch.
type DetectionResult struct {
	Strategy          Strategy   `json:"strategy"`
	Framework         string     `json:"framework,omitempty"`
	FrameworkVersion  string     `json:"frameworkVersion,omitempty"`
	HasStructuredData bool       `json:"hasStructuredData"`
	HasProducts       bool       `json:"hasProducts"`
	HasNavigation     bool       `json:"hasNavigation"`
	PageSize          int        `json:"pageSize"`
	Confidence        Confidence `json:"confidence"`
	Recommendation    string     `json:"recommendation"`
}

// StrategyDetector classifies fetched HTML into a Strategy.
type StrategyDetector interface {
	// Detect is a pure function of the HTML text. It never fetches.
	Detect(html, pageURL string) *DetectionResult
}

// FormatDetectionReport renders a DetectionResult for humans.
func FormatDetectionReport(pageURL string, r *DetectionResult) string {
	framework := r.Framework
	if framework == "" {
		framework = "Unknown"
	}
	lines := []string{
		"  " + pageURL,
		"    Framework: " + framework,
		"    Strategy: " + r.Recommendation,
		"    Confidence: " + string(r.Confidence),
		fmt.Sprintf("    Page size: %d KB", (r.PageSize+512)/1024),
	}
	if r.HasProducts {
		lines = append(lines, "    Products: detected")
	}
	if r.HasNavigation {
		lines = append(lines, "    Navigation: detected")
	}
	if r.HasStructuredData {
		lines = append(lines, "    Structured data: available")
	}
	return strings.Join(lines, "\n")
}
