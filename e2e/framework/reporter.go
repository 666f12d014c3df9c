package framework

import (
	"strings"
	"sync"

	"github.com/gravitational/hrmtest/lib/report"

	"github.com/onsi/ginkgo"
	"github.com/onsi/ginkgo/config"
	"github.com/onsi/ginkgo/types"
)

// Reporter collects ginkgo spec outcomes into a run report
type Reporter struct {
	mu          sync.Mutex
	report      *report.Report
	screenshots map[string]string
}

// NewReporter returns a ginkgo reporter adding entries to r
func NewReporter(r *report.Report) *Reporter {
	return &Reporter{report: r, screenshots: make(map[string]string)}
}

// Attach associates a failure screenshot with the named spec
func (r *Reporter) Attach(name, path string) {
	if path == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.screenshots[name] = path
}

// Report returns the collected report
func (r *Reporter) Report() *report.Report {
	return r.report
}

// AttachToCurrentSpec associates a failure screenshot with the running spec.
// Must be called from within a spec or its setup nodes
func (r *Reporter) AttachToCurrentSpec(path string) {
	r.Attach(ginkgo.CurrentGinkgoTestDescription().FullTestText, path)
}

// SpecName returns the full text of a spec from the component texts of its
// summary, the same text CurrentGinkgoTestDescription reports as FullTestText
func SpecName(texts []string) string {
	// the first component is the implicit top level container
	if len(texts) > 1 {
		texts = texts[1:]
	}
	return strings.Join(texts, " ")
}

func (r *Reporter) SpecSuiteWillBegin(config config.GinkgoConfigType, summary *types.SuiteSummary) {
	r.report.Labels["suite"] = summary.SuiteDescription
}

func (r *Reporter) BeforeSuiteDidRun(summary *types.SetupSummary) {
	r.addSetup("BeforeSuite", summary)
}

func (r *Reporter) SpecWillRun(summary *types.SpecSummary) {}

func (r *Reporter) SpecDidComplete(summary *types.SpecSummary) {
	name := SpecName(summary.ComponentTexts)
	entry := report.Entry{
		Name:     name,
		Duration: summary.RunTime,
	}
	switch summary.State {
	case types.SpecStatePassed:
		entry.Status = report.Passed
	case types.SpecStateSkipped, types.SpecStatePending:
		entry.Status = report.Skipped
		entry.Message = summary.Failure.Message
	default:
		entry.Status = report.Failed
		entry.Message = summary.Failure.Message
		r.mu.Lock()
		entry.Screenshot = r.screenshots[name]
		r.mu.Unlock()
	}
	r.report.Add(entry)
}

func (r *Reporter) AfterSuiteDidRun(summary *types.SetupSummary) {
	r.addSetup("AfterSuite", summary)
}

func (r *Reporter) SpecSuiteDidEnd(summary *types.SuiteSummary) {}

// addSetup records failed suite level nodes only
func (r *Reporter) addSetup(name string, summary *types.SetupSummary) {
	if summary.State == types.SpecStatePassed || summary.State == types.SpecStateSkipped {
		return
	}
	r.report.Add(report.Entry{
		Name:     name,
		Status:   report.Failed,
		Duration: summary.RunTime,
		Message:  summary.Failure.Message,
	})
}
