// Package gemini generates SEO and AI discovery copy with Google Gemini.
package gemini

import (
	"context"
	"regexp"
	"strings"

	"github.com/fwojciec/siteport"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// Ensure ActionService implements siteport.AIActionService at compile time.
var _ siteport.AIActionService = (*ActionService)(nil)

// Built-in action IDs.
const (
	ActionSEO       = "seo"
	ActionGEO       = "geo"
	ActionTranslate = "translate"
)

// instructions holds the prompt template of each action. Templates use
// {{name}} placeholders and ask for the same labeled line format the CMS
// actions produce, so the same parsers read either.
var instructions = map[string]string{
	ActionSEO: `Write SEO metadata for a web page.

Title: {{title}}
Description: {{description}}

Reply with exactly these lines and nothing else:
META_TITLE: <at most 60 characters>
META_DESCRIPTION: <at most 155 characters>
KEYWORDS: <5 to 8 comma-separated keywords>
OG_TITLE: <social sharing title>
OG_DESCRIPTION: <social sharing description>`,

	ActionGEO: `Write content that helps AI assistants recommend this product.

Product: {{productName}}
Description: {{productDescription}}
Category: {{productCategory}}

Reply in exactly this format and nothing else:
AI_SUMMARY: <two sentences>

BEST_FOR:
- <audience or use case>

SEARCH_INTENTS:
- <question a shopper would ask>

KEY_POINTS:
- <key fact>

DIFFERENTIATORS:
- <what sets it apart>

COMPETITORS:
- <competing product or brand>

FAQ:
Q: <question>
A: <answer>`,

	ActionTranslate: `Translate the following text to {{targetLocale}}. Reply with the translation only.

{{text}}`,
}

var placeholder = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)

// ActionService implements siteport.AIActionService with built-in prompt
// templates rendered for a Gemini model.
type ActionService struct {
	client *genai.Client
}

// NewActionService creates a new ActionService.
func NewActionService(client *genai.Client) *ActionService {
	return &ActionService{client: client}
}

// FindActions returns the built-in actions.
func (s *ActionService) FindActions(_ context.Context) (*siteport.AIActions, error) {
	return &siteport.AIActions{
		SEO:       ActionSEO,
		GEO:       ActionGEO,
		Translate: ActionTranslate,
	}, nil
}

// InvokeAction renders the action's template with variables and returns
// the model's text.
func (s *ActionService) InvokeAction(ctx context.Context, actionID string, variables map[string]string) (string, error) {
	prompt, err := BuildPrompt(actionID, variables)
	if err != nil {
		return "", err
	}

	result, err := s.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", siteport.Errorf(siteport.EINTERNAL, "gemini returned nil result")
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", siteport.Errorf(siteport.EINTERNAL, "gemini returned no text for action %q", actionID)
	}
	return text, nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.3)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a copywriter for an e-commerce marketing site. Follow the requested output format exactly.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildPrompt renders the template of actionID. Placeholders without a
// variable render empty.
func BuildPrompt(actionID string, variables map[string]string) (string, error) {
	tmpl, ok := instructions[actionID]
	if !ok {
		return "", siteport.Errorf(siteport.ENOTFOUND, "unknown action: %q", actionID)
	}
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := placeholder.FindStringSubmatch(m)[1]
		return strings.TrimSpace(variables[name])
	}), nil
}
