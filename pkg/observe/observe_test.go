package observe

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleReporter_BreadcrumbsCapRespected(t *testing.T) {
	c := NewConsoleReporter(slog.Default(), true)
	for i := 0; i < MaxBreadcrumbs+10; i++ {
		c.AddBreadcrumb(Breadcrumb{Category: "nav", Message: "step"})
	}
	assert.Len(t, c.breadcrumbs, MaxBreadcrumbs)
}

func TestConsoleReporter_QuietModeDropsBreadcrumbs(t *testing.T) {
	c := NewConsoleReporter(slog.Default(), false)
	c.AddBreadcrumb(Breadcrumb{Category: "nav", Message: "step"})
	assert.Empty(t, c.breadcrumbs)
}

func TestConsoleReporter_ReportErrorDoesNotPanicWithNilContext(t *testing.T) {
	c := NewConsoleReporter(slog.Default(), true)
	assert.NotPanics(t, func() { c.ReportError(errors.New("boom"), nil) })
}

func TestSentryReporter_EmptyDSNStillInitialises(t *testing.T) {
	r, err := NewSentryReporter("", WithEnvironment("test"))
	assert.NoError(t, err)
	assert.NotNil(t, r)
	assert.True(t, r.Flush(0))
}
