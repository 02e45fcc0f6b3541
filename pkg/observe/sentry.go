package observe

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// SentryOption configures the sentry.ClientOptions a SentryReporter
// initialises with, mirroring the teacher's functional-option shape for
// its own SentryReporter.
type SentryOption func(*sentry.ClientOptions)

func WithEnvironment(env string) SentryOption {
	return func(o *sentry.ClientOptions) { o.Environment = env }
}

func WithRelease(release string) SentryOption {
	return func(o *sentry.ClientOptions) { o.Release = release }
}

func WithDebug(debug bool) SentryOption {
	return func(o *sentry.ClientOptions) { o.Debug = debug }
}

// SentryReporter sends errors to Sentry, tagged with the page/chat/element
// context the page runtime's error chain (§7) carries. An empty DSN
// disables sending, which lets tests and local runs construct one without
// a live project.
type SentryReporter struct {
	hub *sentry.Hub
}

// NewSentryReporter initialises the Sentry SDK with dsn and opts, and
// returns a reporter bound to the resulting hub.
func NewSentryReporter(dsn string, opts ...SentryOption) (*SentryReporter, error) {
	clientOpts := sentry.ClientOptions{Dsn: dsn}
	for _, opt := range opts {
		opt(&clientOpts)
	}
	if err := sentry.Init(clientOpts); err != nil {
		return nil, fmt.Errorf("observe: sentry init: %w", err)
	}
	return &SentryReporter{hub: sentry.CurrentHub()}, nil
}

func (r *SentryReporter) ReportError(err error, ctx *ErrorContext) {
	r.hub.WithScope(func(scope *sentry.Scope) {
		if ctx != nil {
			scope.SetTag("page_id", ctx.PageID)
			scope.SetTag("element_id", ctx.ElementID)
			scope.SetExtra("chat_id", ctx.ChatID)
			for k, v := range ctx.Tags {
				scope.SetTag(k, v)
			}
			for _, b := range ctx.Breadcrumbs {
				scope.AddBreadcrumb(&sentry.Breadcrumb{
					Category:  b.Category,
					Message:   b.Message,
					Data:      b.Data,
					Timestamp: b.Timestamp,
				}, MaxBreadcrumbs)
			}
		}
		r.hub.CaptureException(err)
	})
}

func (r *SentryReporter) AddBreadcrumb(b Breadcrumb) {
	r.hub.AddBreadcrumb(&sentry.Breadcrumb{
		Category:  b.Category,
		Message:   b.Message,
		Data:      b.Data,
		Timestamp: b.Timestamp,
	}, nil)
}

func (r *SentryReporter) Flush(timeout time.Duration) bool {
	return r.hub.Flush(timeout)
}
