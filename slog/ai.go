package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/siteport"
)

// Ensure LoggingAIActionService implements siteport.AIActionService.
var _ siteport.AIActionService = (*LoggingAIActionService)(nil)

// LoggingAIActionService wraps an AIActionService with logging. Variables
// and outputs are summarized by size; their text is never logged.
type LoggingAIActionService struct {
	next   siteport.AIActionService
	logger *slog.Logger
}

// NewLoggingAIActionService creates a new LoggingAIActionService.
func NewLoggingAIActionService(next siteport.AIActionService, logger *slog.Logger) *LoggingAIActionService {
	return &LoggingAIActionService{next: next, logger: logger}
}

func (s *LoggingAIActionService) FindActions(ctx context.Context) (actions *siteport.AIActions, err error) {
	defer func(begin time.Time) {
		attrs := []any{"duration", time.Since(begin), "err", err}
		if actions != nil {
			attrs = append(attrs, "seo", actions.SEO != "", "geo", actions.GEO != "", "translate", actions.Translate != "")
		}
		s.logger.Info("find ai actions", attrs...)
	}(time.Now())
	return s.next.FindActions(ctx)
}

func (s *LoggingAIActionService) InvokeAction(ctx context.Context, actionID string, variables map[string]string) (output string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("invoke ai action",
			"action", actionID,
			"variables", len(variables),
			"bytes", len(output),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.InvokeAction(ctx, actionID, variables)
}
