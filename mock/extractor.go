package mock

import "github.com/fwojciec/siteport"

var (
	_ siteport.Extractor        = (*Extractor)(nil)
	_ siteport.LanguageDetector = (*LanguageDetector)(nil)
)

// Extractor is a mock implementation of siteport.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*siteport.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*siteport.ExtractResult, error) {
	return e.ExtractFn(html)
}

// LanguageDetector is a mock implementation of siteport.LanguageDetector.
type LanguageDetector struct {
	DetectLanguageFn func(text string) string
}

func (d *LanguageDetector) DetectLanguage(text string) string {
	return d.DetectLanguageFn(text)
}
