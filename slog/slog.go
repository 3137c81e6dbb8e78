// Package slog decorates siteport services with structured logging. Each
// decorator logs one line per call with its key attributes, duration,
// and error.
package slog
