package runner

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/gravitational/hrmtest/driver"
	"github.com/gravitational/hrmtest/driver/drivertest"
	"github.com/gravitational/hrmtest/e2e/framework"
	"github.com/gravitational/hrmtest/e2e/specs"
	"github.com/gravitational/hrmtest/lib/config"
	"github.com/gravitational/hrmtest/lib/report"
	"github.com/gravitational/hrmtest/lib/xlog"

	"github.com/gravitational/trace"
	"github.com/stretchr/testify/require"
)

func TestRunIsolatesFailures(t *testing.T) {
	var sessions []*drivertest.Driver
	r := newRunner(t, func(driver.Options) (driver.Driver, error) {
		d := drivertest.New()
		sessions = append(sessions, d)
		return d, nil
	})

	rep := r.Run([]specs.Scenario{
		{Name: "Fails", Run: func(s *framework.Session) error {
			return s.Page().Fail("expected %q", "Dashboard")
		}},
		{Name: "Panics", Run: func(*framework.Session) error {
			panic("unexpected state")
		}},
		{Name: "Passes", Run: func(*framework.Session) error {
			return nil
		}},
	})

	require.Len(t, rep.Entries, 3)
	require.Equal(t, report.Failed, rep.Entries[0].Status)
	require.Contains(t, rep.Entries[0].Message, `expected "Dashboard"`)
	require.Regexp(t, `failure_Fails_20240301_093015_[0-9a-f]{6}\.png$`, rep.Entries[0].Screenshot)

	require.Equal(t, report.Failed, rep.Entries[1].Status)
	require.Contains(t, rep.Entries[1].Message, "unexpected state")
	require.NotEmpty(t, rep.Entries[1].Screenshot)

	require.Equal(t, report.Passed, rep.Entries[2].Status)
	require.Empty(t, rep.Entries[2].Screenshot)

	require.Len(t, sessions, 3)
	for _, d := range sessions {
		require.True(t, d.Closed)
	}
	require.Equal(t, "chrome", rep.Labels["browser"])
	require.Equal(t, "cdp", rep.Labels["engine"])
}

func TestRunRecordsSessionFailure(t *testing.T) {
	r := newRunner(t, func(driver.Options) (driver.Driver, error) {
		return nil, trace.ConnectionProblem(errors.New("connection refused"), "failed to start chrome")
	})
	r.StartAttempts = 2
	r.StartDelay = time.Millisecond
	var ran bool
	rep := r.Run([]specs.Scenario{{Name: "Unreachable", Run: func(*framework.Session) error {
		ran = true
		return nil
	}}})

	require.False(t, ran)
	require.Len(t, rep.Entries, 1)
	require.Equal(t, report.Failed, rep.Entries[0].Status)
	require.Contains(t, rep.Entries[0].Message, "failed to start browser session")
}

func TestNewRequiresOpener(t *testing.T) {
	_, err := New(Config{})
	require.True(t, trace.IsBadParameter(err))
}

func newRunner(t *testing.T, open framework.Opener) *Runner {
	provider := config.New()
	provider.LookupEnv = func(string) (string, bool) { return "", false }
	r, err := New(Config{
		Options:  driver.Options{Browser: driver.Chrome},
		Open:     open,
		Provider: provider,
		Settings: &config.Settings{Harness: config.Harness{
			DefaultTimeout: 200 * time.Millisecond,
			ScreenshotDir:  filepath.Join(t.TempDir(), "screenshots"),
		}},
		FieldLogger: xlog.NewTestLogger(t),
		Labels:      map[string]string{"engine": "cdp"},
		Now: func() time.Time {
			return time.Date(2024, 3, 1, 9, 30, 15, 0, time.UTC)
		},
	})
	require.NoError(t, err)
	return r
}
