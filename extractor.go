package siteport

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
// The Page Assembler falls back to it when no content container matches.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	Convert(html string) (string, error)
}

// LanguageDetector guesses the natural language of a text.
type LanguageDetector interface {
	// DetectLanguage returns an ISO 639-1 code, or "" when unsure.
	DetectLanguage(text string) string
}
