// Package lingua guesses the language of page copy with lingua-go.
package lingua

import (
	"strings"

	"github.com/fwojciec/siteport"
	"github.com/pemistahl/lingua-go"
)

// Ensure Detector implements siteport.LanguageDetector at compile time.
var _ siteport.LanguageDetector = (*Detector)(nil)

// DefaultLanguages are the languages a Detector chooses between unless
// told otherwise.
var DefaultLanguages = []lingua.Language{
	lingua.English,
	lingua.German,
	lingua.French,
	lingua.Spanish,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Dutch,
	lingua.Polish,
	lingua.Swedish,
	lingua.Japanese,
	lingua.Chinese,
}

const (
	minTextLength       = 20
	minRelativeDistance = 0.1
)

// Detector guesses the ISO 639-1 code of a text. It is safe for
// concurrent use.
type Detector struct {
	detector lingua.LanguageDetector
}

// NewDetector creates a Detector that chooses between languages, or
// DefaultLanguages when fewer than two are given. Language models load on
// first use, so a Detector should be created once and shared.
func NewDetector(languages ...lingua.Language) *Detector {
	if len(languages) < 2 {
		languages = DefaultLanguages
	}
	d := lingua.NewLanguageDetectorBuilder().
		FromLanguages(languages...).
		WithMinimumRelativeDistance(minRelativeDistance).
		Build()
	return &Detector{detector: d}
}

// DetectLanguage returns the lowercase ISO 639-1 code of text, or "" when
// the text is too short or too ambiguous to tell.
func (d *Detector) DetectLanguage(text string) string {
	text = strings.TrimSpace(text)
	if len([]rune(text)) < minTextLength {
		return ""
	}
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
