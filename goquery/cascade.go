package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Rule is one step of a Cascade: a CSS selector and an optional predicate
// that matched elements must also satisfy.
type Rule struct {
	Selector string
	Where    func(*goquery.Selection) bool
}

// Cascade is an ordered list of rules. Lookups try each rule in turn and
// stop at the first one that produces a value, so earlier rules win.
type Cascade []Rule

// Selectors builds a Cascade of plain selectors with no predicates.
func Selectors(selectors ...string) Cascade {
	c := make(Cascade, len(selectors))
	for i, s := range selectors {
		c[i] = Rule{Selector: s}
	}
	return c
}

func (r Rule) find(root *goquery.Selection) *goquery.Selection {
	sel := root.Find(r.Selector)
	if r.Where == nil {
		return sel
	}
	return sel.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return r.Where(s)
	})
}

// First applies pick to the first element matched by each rule and returns
// the first value pick accepts. Rules with no matches are skipped.
func (c Cascade) First(root *goquery.Selection, pick func(*goquery.Selection) (string, bool)) (string, bool) {
	for _, r := range c {
		el := r.find(root).First()
		if el.Length() == 0 {
			continue
		}
		if v, ok := pick(el); ok {
			return v, true
		}
	}
	return "", false
}

// Collect applies collect to all elements matched by each rule and returns
// the first non-empty result.
func (c Cascade) Collect(root *goquery.Selection, collect func(*goquery.Selection) []string) []string {
	for _, r := range c {
		matches := r.find(root)
		if matches.Length() == 0 {
			continue
		}
		if vals := collect(matches); len(vals) > 0 {
			return vals
		}
	}
	return nil
}

// attrContainsFold reports whether attribute name contains sub, ignoring
// case.
func attrContainsFold(name, sub string) func(*goquery.Selection) bool {
	sub = strings.ToLower(sub)
	return func(s *goquery.Selection) bool {
		return strings.Contains(strings.ToLower(s.AttrOr(name, "")), sub)
	}
}

// firstAttr returns the first non-empty value among the named attributes.
func firstAttr(s *goquery.Selection, names ...string) string {
	for _, n := range names {
		if v := strings.TrimSpace(s.AttrOr(n, "")); v != "" {
			return v
		}
	}
	return ""
}

// text returns the trimmed text of a selection.
func text(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}

// collapse folds runs of whitespace into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate caps s at n characters.
func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// atoiPrefix parses the leading digits of s, returning 0 when there are
// none. "120px" yields 120.
func atoiPrefix(s string) int {
	s = strings.TrimSpace(s)
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
		if n > 1<<20 {
			break
		}
	}
	return n
}

// document parses raw HTML. The parser recovers from any malformed markup,
// so the only failure is a reader error, which yields an empty document.
func document(raw string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})
	}
	return doc
}
