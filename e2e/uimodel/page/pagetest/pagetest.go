// Package pagetest builds pages over an in-memory browser session for
// page object tests.
package pagetest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/gravitational/hrmtest/driver/drivertest"
	"github.com/gravitational/hrmtest/e2e/uimodel/page"
	"github.com/gravitational/hrmtest/lib/config"
	"github.com/gravitational/hrmtest/lib/xlog"

	"github.com/stretchr/testify/require"
)

// Timeout is the primitive timeout of test pages
const Timeout = 200 * time.Millisecond

// New returns a page over d with a short timeout and no environment
func New(t *testing.T, d *drivertest.Driver) *page.Page {
	noEnv := func(string) (string, bool) { return "", false }
	settings := config.New()
	settings.LookupEnv = noEnv
	p, err := page.New(page.Config{
		Driver:        d,
		Settings:      settings,
		FieldLogger:   xlog.NewTestLogger(t),
		Timeout:       Timeout,
		ScreenshotDir: filepath.Join(t.TempDir(), "screenshots"),
		LookupEnv:     noEnv,
	})
	require.NoError(t, err)
	return p
}
