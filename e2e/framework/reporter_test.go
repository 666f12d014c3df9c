package framework

import (
	"testing"
	"time"

	"github.com/gravitational/hrmtest/lib/report"

	"github.com/onsi/ginkgo"
	"github.com/stretchr/testify/require"
)

// suiteReporter receives the outcome of the specs below
var suiteReporter *Reporter

var _ = RoboDescribe("Reporter", func() {
	ginkgo.AfterEach(func() {
		if ginkgo.CurrentGinkgoTestDescription().Failed {
			suiteReporter.AttachToCurrentSpec("screenshots/failure_dashboard.png")
		}
	})

	ginkgo.It("should fail", func() {
		ginkgo.Fail("Expected Dashboard")
	})

	ginkgo.It("should pass", func() {})
})

// failRecorder records the suite outcome instead of failing the test
type failRecorder struct {
	failed bool
}

func (r *failRecorder) Fail() {
	r.failed = true
}

func TestReporterAttachesScreenshotToFailedSpec(t *testing.T) {
	suiteReporter = NewReporter(report.New("run", time.Now()))
	var outcome failRecorder
	passed := ginkgo.RunSpecsWithCustomReporters(&outcome, "reporter suite", []ginkgo.Reporter{suiteReporter})
	require.False(t, passed)
	require.True(t, outcome.failed)

	entries := map[string]report.Entry{}
	for _, e := range suiteReporter.Report().Entries {
		entries[e.Name] = e
	}
	require.Len(t, entries, 2)

	failed, ok := entries["[hrmtest] Reporter should fail"]
	require.True(t, ok, "%v", entries)
	require.Equal(t, report.Failed, failed.Status)
	require.Equal(t, "screenshots/failure_dashboard.png", failed.Screenshot)
	require.Contains(t, failed.Message, "Expected Dashboard")

	passing := entries["[hrmtest] Reporter should pass"]
	require.Equal(t, report.Passed, passing.Status)
	require.Empty(t, passing.Screenshot)
}
