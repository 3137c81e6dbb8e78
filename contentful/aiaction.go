package contentful

import (
	"context"
	"net/http"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/fwojciec/siteport"
)

// Ensure Client implements siteport.AIActionService at compile time.
var _ siteport.AIActionService = (*Client)(nil)

// Invocation states.
const (
	invocationCompleted = "COMPLETED"
	invocationFailed    = "FAILED"
)

// FindActions lists the space's AI actions and picks the SEO, discovery
// and translation actions by name.
func (c *Client) FindActions(ctx context.Context) (*siteport.AIActions, error) {
	var out struct {
		Items []struct {
			Sys  sys    `json:"sys"`
			Name string `json:"name"`
		} `json:"items"`
	}
	if err := c.do(ctx, request{
		Method: http.MethodGet,
		Path:   c.spacePath("/ai/actions"),
		Query:  url.Values{"limit": []string{"10"}},
		Out:    &out,
	}); err != nil {
		return nil, err
	}

	actions := &siteport.AIActions{}
	for _, item := range out.Items {
		actions.Match(item.Name, item.Sys.ID)
	}
	return actions, nil
}

type invocationVariable struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

type invocation struct {
	Sys    sys    `json:"sys"`
	Status string `json:"status"`
	Output string `json:"output"`
	Error  string `json:"error"`
	Result *struct {
		Content string `json:"content"`
	} `json:"result"`
}

func (i *invocation) status() string {
	if i.Sys.Status != "" {
		return strings.ToUpper(i.Sys.Status)
	}
	return strings.ToUpper(i.Status)
}

func (i *invocation) content() string {
	if i.Result != nil && i.Result.Content != "" {
		return i.Result.Content
	}
	return i.Output
}

// InvokeAction starts an invocation and polls until it completes, fails,
// or the poll budget runs out.
func (c *Client) InvokeAction(ctx context.Context, actionID string, variables map[string]string) (string, error) {
	if actionID == "" {
		return "", siteport.Errorf(siteport.EINVALID, "AI action ID required")
	}

	vars := make([]invocationVariable, 0, len(variables))
	for _, name := range slices.Sorted(maps.Keys(variables)) {
		vars = append(vars, invocationVariable{ID: name, Value: variables[name]})
	}

	actionPath := c.envPath("/ai/actions/%s", url.PathEscape(actionID))
	var started invocation
	if err := c.do(ctx, request{
		Method: http.MethodPost,
		Path:   actionPath + "/invoke",
		Body: map[string]any{
			"outputFormat": "PlainText",
			"variables":    vars,
		},
		Out: &started,
	}); err != nil {
		return "", err
	}
	if started.Sys.ID == "" {
		return "", siteport.Errorf(siteport.EINTERNAL, "no invocation ID returned for action %s", actionID)
	}

	for range c.actionPolls {
		if err := sleep(ctx, c.interval); err != nil {
			return "", err
		}
		var inv invocation
		if err := c.do(ctx, request{
			Method: http.MethodGet,
			Path:   actionPath + "/invocations/" + url.PathEscape(started.Sys.ID),
			Out:    &inv,
		}); err != nil {
			return "", err
		}
		switch inv.status() {
		case invocationCompleted:
			if out := inv.content(); out != "" {
				return out, nil
			}
		case invocationFailed:
			msg := inv.Error
			if msg == "" {
				msg = "unknown error"
			}
			return "", siteport.Errorf(siteport.EINTERNAL, "AI action failed: %s", msg)
		}
	}
	return "", siteport.Errorf(siteport.EINTERNAL, "AI action %s timed out", actionID)
}
