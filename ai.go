package siteport

import (
	"context"
	"regexp"
	"strings"
)

// Built-in AI action names.
const (
	SEOActionName       = "Generate SEO Metadata"
	GEOActionName       = "Generate AI Discovery Content"
	TranslateActionName = "Translate"
)

// AIActions holds the IDs of the actions found in a CMS space.
// Empty IDs mean the action is not available.
type AIActions struct {
	SEO       string
	GEO       string
	Translate string
}

// Match records id under every action kind that name refers to.
func (a *AIActions) Match(name, id string) {
	name = strings.ToLower(name)
	if strings.Contains(name, "seo") {
		a.SEO = id
	}
	if strings.Contains(name, "discovery") || strings.Contains(name, "geo") {
		a.GEO = id
	}
	if strings.Contains(name, "translate") {
		a.Translate = id
	}
}

// AIActionService invokes text-generating actions.
type AIActionService interface {
	// FindActions lists the actions available to InvokeAction.
	FindActions(ctx context.Context) (*AIActions, error)

	// InvokeAction runs an action with the given variables and waits for
	// its raw text output. It fails on a failed or timed-out invocation.
	InvokeAction(ctx context.Context, actionID string, variables map[string]string) (string, error)
}

// SEOFields is the parsed output of the SEO action.
type SEOFields struct {
	MetaTitle       string   `json:"metaTitle"`
	MetaDescription string   `json:"metaDescription"`
	Keywords        []string `json:"keywords"`
	OGTitle         string   `json:"ogTitle"`
	OGDescription   string   `json:"ogDescription"`
}

// GEOFields is the parsed output of the AI discovery action.
type GEOFields struct {
	AISummary         string   `json:"aiSummary"`
	AIBestFor         []string `json:"aiBestFor"`
	AIIntents         []string `json:"aiIntents"`
	AIKeyPoints       []string `json:"aiKeyPoints"`
	AIDifferentiators []string `json:"aiDifferentiators"`
	AICompetitors     []string `json:"aiCompetitors"`
	AIFAQ             []FAQ    `json:"aiFaq"`
}

// FAQ is one question and answer pair.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ParseSEOOutput parses "LABEL: value" lines produced by the SEO action.
func ParseSEOOutput(output string) SEOFields {
	var keywords []string
	for _, k := range strings.Split(labelValue(output, "KEYWORDS"), ",") {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	return SEOFields{
		MetaTitle:       labelValue(output, "META_TITLE"),
		MetaDescription: labelValue(output, "META_DESCRIPTION"),
		Keywords:        keywords,
		OGTitle:         labelValue(output, "OG_TITLE"),
		OGDescription:   labelValue(output, "OG_DESCRIPTION"),
	}
}

// ParseGEOOutput parses the AI discovery action output: "LABEL: value"
// lines, "LABEL:" followed by "- item" lines, and a FAQ block of
// "Q:"/"A:" lines.
func ParseGEOOutput(output string) GEOFields {
	return GEOFields{
		AISummary:         labelValue(output, "AI_SUMMARY"),
		AIBestFor:         labelList(output, "BEST_FOR"),
		AIIntents:         labelList(output, "SEARCH_INTENTS"),
		AIKeyPoints:       labelList(output, "KEY_POINTS"),
		AIDifferentiators: labelList(output, "DIFFERENTIATORS"),
		AICompetitors:     labelList(output, "COMPETITORS"),
		AIFAQ:             parseFAQ(output),
	}
}

// Label patterns, compiled once. Horizontal whitespace only follows the
// colon, so an empty label never reads the next line as its value.
var (
	valueLabels = compileLabels(`:[ \t]*(.*)`,
		"META_TITLE", "META_DESCRIPTION", "KEYWORDS", "OG_TITLE", "OG_DESCRIPTION", "AI_SUMMARY")
	listLabels = compileLabels(`:[ \t]*\r?\n((?:- .+\n?)*)`,
		"BEST_FOR", "SEARCH_INTENTS", "KEY_POINTS", "DIFFERENTIATORS", "COMPETITORS")
)

func compileLabels(suffix string, labels ...string) map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp, len(labels))
	for _, label := range labels {
		res[label] = regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(label) + suffix)
	}
	return res
}

func labelValue(output, label string) string {
	m := valueLabels[label].FindStringSubmatch(output)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func labelList(output, label string) []string {
	m := listLabels[label].FindStringSubmatch(output)
	if m == nil {
		return nil
	}
	var items []string
	for _, line := range strings.Split(m[1], "\n") {
		item := strings.TrimSpace(strings.TrimPrefix(line, "- "))
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

var (
	faqStart    = regexp.MustCompile(`^FAQ:\s*$`)
	faqEnd      = regexp.MustCompile(`^[A-Z_]{2,}:`)
	faqQuestion = regexp.MustCompile(`^Q:\s*(.+)`)
	faqAnswer   = regexp.MustCompile(`^A:\s*(.+)`)
)

// parseFAQ reads the block after a "FAQ:" line up to a blank line followed
// by another label, or the end of the output. An answer pairs with the
// question before it; unpaired lines are skipped.
func parseFAQ(output string) []FAQ {
	lines := strings.Split(output, "\n")
	start := -1
	for i, line := range lines {
		if faqStart.MatchString(line) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil
	}

	var pairs []FAQ
	var question string
	for i := start; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" && i+1 < len(lines) && faqEnd.MatchString(lines[i+1]) {
			break
		}
		if m := faqQuestion.FindStringSubmatch(line); m != nil {
			question = strings.TrimSpace(m[1])
		} else if m := faqAnswer.FindStringSubmatch(line); m != nil && question != "" {
			pairs = append(pairs, FAQ{Question: question, Answer: strings.TrimSpace(m[1])})
			question = ""
		}
	}
	return pairs
}
