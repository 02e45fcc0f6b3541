// Package observe implements the error-reporting side of the page
// runtime's observability surface (§7): a pluggable ErrorReporter a
// BotUser/ScriptPage can route unhandled errors and panics to, with a
// ConsoleReporter for development and a SentryReporter for production —
// grounded on the teacher's observability package, which offers the same
// two implementations behind the same interface.
package observe

import (
	"log/slog"
	"time"
)

// Breadcrumb is one entry of the trail leading up to a reported error —
// the teacher's observability.Breadcrumb shape, trimmed to what the page
// runtime actually populates (navigation, callback dispatch, script
// errors).
type Breadcrumb struct {
	Category  string
	Message   string
	Data      map[string]any
	Timestamp time.Time
}

// ErrorContext carries the page/chat/element context an ErrorReporter
// needs to make a report actionable, beyond the bare error value.
type ErrorContext struct {
	ChatID      int64
	PageID      string
	ElementID   string
	Tags        map[string]string
	Breadcrumbs []Breadcrumb
}

// ErrorReporter is the pluggable sink §7's error propagation chain falls
// back to once VModel.handleErrorAsync and the bot user's own handler have
// both declined to handle an error.
type ErrorReporter interface {
	ReportError(err error, ctx *ErrorContext)
	AddBreadcrumb(b Breadcrumb)
	Flush(timeout time.Duration) bool
}

// ConsoleReporter logs to slog — the development-time reporter, and the
// default when no DSN is configured.
type ConsoleReporter struct {
	logger      *slog.Logger
	verbose     bool
	breadcrumbs []Breadcrumb
}

// NewConsoleReporter builds a ConsoleReporter. When verbose, breadcrumbs
// leading up to a report are logged alongside it.
func NewConsoleReporter(logger *slog.Logger, verbose bool) *ConsoleReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsoleReporter{logger: logger, verbose: verbose}
}

func (c *ConsoleReporter) ReportError(err error, ctx *ErrorContext) {
	args := []any{"error", err}
	if ctx != nil {
		args = append(args, "chatId", ctx.ChatID, "pageId", ctx.PageID, "elementId", ctx.ElementID)
	}
	c.logger.Error("unhandled page runtime error", args...)
	if c.verbose {
		for _, b := range c.breadcrumbs {
			c.logger.Debug("breadcrumb", "category", b.Category, "message", b.Message)
		}
	}
	if c.verbose && ctx != nil {
		for _, b := range ctx.Breadcrumbs {
			c.logger.Debug("breadcrumb", "category", b.Category, "message", b.Message)
		}
	}
}

func (c *ConsoleReporter) AddBreadcrumb(b Breadcrumb) {
	if !c.verbose {
		return
	}
	c.breadcrumbs = append(c.breadcrumbs, b)
	if len(c.breadcrumbs) > MaxBreadcrumbs {
		c.breadcrumbs = c.breadcrumbs[len(c.breadcrumbs)-MaxBreadcrumbs:]
	}
}

func (c *ConsoleReporter) Flush(time.Duration) bool { return true }

// MaxBreadcrumbs bounds how many breadcrumbs any reporter retains.
const MaxBreadcrumbs = 100
