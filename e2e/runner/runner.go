// Package runner executes scenarios one after another outside of the
// go test harness and records their outcome in a run report.
package runner

import (
	"fmt"
	"time"

	"github.com/gravitational/hrmtest/driver"
	"github.com/gravitational/hrmtest/e2e/framework"
	"github.com/gravitational/hrmtest/e2e/specs"
	"github.com/gravitational/hrmtest/lib/config"
	"github.com/gravitational/hrmtest/lib/constants"
	"github.com/gravitational/hrmtest/lib/report"
	"github.com/gravitational/hrmtest/lib/xlog"

	"github.com/dustin/go-humanize"
	"github.com/gravitational/trace"
	"github.com/sirupsen/logrus"
)

// Config describes a run
type Config struct {
	// Options selects the browser
	Options driver.Options
	// Open starts a browser session per scenario
	Open framework.Opener
	// Provider serves the raw settings
	Provider *config.Provider
	// Settings is the validated settings snapshot
	Settings *config.Settings
	// FieldLogger is the log sink
	logrus.FieldLogger
	// Labels describe the run in the report
	Labels map[string]string
	// StartAttempts bounds the attempts to start each browser session
	StartAttempts int
	// StartDelay is the initial delay between start attempts
	StartDelay time.Duration
	// Now returns the current time
	Now func() time.Time
}

// CheckAndSetDefaults validates the config and fills in defaults
func (r *Config) CheckAndSetDefaults() error {
	if r.Open == nil {
		return trace.BadParameter("missing session opener")
	}
	if r.Provider == nil {
		r.Provider = config.New()
	}
	if r.Settings == nil {
		settings, err := r.Provider.Settings()
		if err != nil {
			return trace.Wrap(err)
		}
		r.Settings = settings
	}
	if r.FieldLogger == nil {
		r.FieldLogger = logrus.StandardLogger()
	}
	if r.Now == nil {
		r.Now = time.Now
	}
	return nil
}

// Runner executes scenarios sequentially, each in its own browser session
type Runner struct {
	Config
}

// New returns a new runner
func New(config Config) (*Runner, error) {
	if err := config.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}
	return &Runner{Config: config}, nil
}

// Run executes scenarios in order and returns the report.
// A failing or panicking scenario does not stop the run
func (r *Runner) Run(scenarios []specs.Scenario) *report.Report {
	rep := report.New("OrangeHRM UI test run", r.Now())
	rep.Labels["browser"] = string(r.Options.Browser)
	rep.Labels["headless"] = fmt.Sprint(r.Options.Headless)
	for k, v := range r.Labels {
		rep.Labels[k] = v
	}
	for _, scenario := range scenarios {
		entry := r.run(scenario)
		r.WithFields(logrus.Fields{
			constants.FieldScenario: scenario.Name,
			"status":                entry.Status,
		}).Infof("Scenario finished in %v.", entry.Duration)
		rep.Add(entry)
	}
	r.Infof("Ran %v scenario(s): %v passed, %v failed, started %v.",
		len(rep.Entries), rep.Count(report.Passed), rep.Count(report.Failed), humanize.Time(rep.Started))
	return rep
}

func (r *Runner) run(scenario specs.Scenario) (entry report.Entry) {
	started := r.Now()
	entry = report.Entry{Name: scenario.Name, Status: report.Passed}
	defer func() {
		entry.Duration = r.Now().Sub(started)
	}()

	session, err := framework.StartSession(framework.SessionConfig{
		Name:          scenario.Name,
		Options:       r.Options,
		Open:          r.Open,
		Provider:      r.Provider,
		Settings:      r.Settings,
		FieldLogger:   xlog.Routine(r.FieldLogger, "runner", scenario.Name),
		Seed:          int64(r.Settings.Harness.TestSeed),
		StartAttempts: r.StartAttempts,
		StartDelay:    r.StartDelay,
		Now:           r.Now,
	})
	if err != nil {
		r.WithError(err).WithField(constants.FieldScenario, scenario.Name).Error("Failed to start browser session.")
		entry.Status = report.Failed
		entry.Message = fmt.Sprintf("failed to start browser session: %v", trace.UserMessage(err))
		return entry
	}
	defer session.Close()

	if err := execute(scenario, session); err != nil {
		session.Log.Error(trace.DebugReport(err))
		entry.Status = report.Failed
		entry.Message = trace.UserMessage(err)
		entry.Screenshot = session.CaptureFailure(scenario.Name)
	}
	return entry
}

// execute runs the scenario converting a panic into an error
func execute(scenario specs.Scenario, session *framework.Session) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = trace.Wrap(fmt.Errorf("scenario %v panicked: %v", scenario.Name, r))
		}
	}()
	return scenario.Execute(session)
}
