package e2e

import (
	"testing"
	"time"

	"github.com/gravitational/hrmtest/e2e/framework"
	"github.com/gravitational/hrmtest/lib/config"
	"github.com/gravitational/hrmtest/lib/report"
	"github.com/gravitational/hrmtest/lib/system"
	"github.com/gravitational/hrmtest/lib/xlog"

	"github.com/gravitational/trace"
	"github.com/onsi/ginkgo"
	"github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
)

// suite is the shared state of a suite run
type suite struct {
	provider *config.Provider
	settings *config.Settings
	open     framework.Opener
	reporter *framework.Reporter
	log      *xlog.Logger
}

var current suite

// RunE2ETests runs the browser scenarios using the ginkgo runner.
// The run report is written into the configured report directory
func RunE2ETests(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	if err := current.setup(); err != nil {
		t.Fatal(trace.DebugReport(err))
	}
	defer current.close()

	ginkgo.RunSpecsWithDefaultAndCustomReporters(t, "hrmtest e2e suite", []ginkgo.Reporter{current.reporter})

	path, err := current.reporter.Report().Write(current.settings.Harness.ReportDir, report.UniqueSuffix(time.Now()))
	if err != nil {
		current.log.WithError(err).Warn("Failed to write report.")
		return
	}
	current.log.Infof("Report: %v.", path)
}

func (r *suite) setup() error {
	ctx := framework.TestContext
	if err := ctx.CheckAndSetDefaults(); err != nil {
		return trace.Wrap(err)
	}
	engine, err := framework.ParseEngine(ctx.Engine)
	if err != nil {
		return trace.Wrap(err)
	}
	r.open, err = framework.NewOpener(engine)
	if err != nil {
		return trace.Wrap(err)
	}
	r.provider, err = config.LoadOrEnv(ctx.ConfigFile)
	if err != nil {
		return trace.Wrap(err)
	}
	r.settings, err = r.provider.Settings()
	if err != nil {
		return trace.Wrap(err)
	}
	r.log, err = xlog.New(xlog.Config{
		Dir:     r.settings.Harness.LogDir,
		Level:   r.settings.Harness.LogLevel,
		Console: ginkgo.GinkgoWriter,
	})
	if err != nil {
		return trace.Wrap(err)
	}
	if err := system.EnsureDir(r.settings.Harness.ReportDir); err != nil {
		return trace.Wrap(err)
	}
	rep := report.New("OrangeHRM e2e suite", time.Now())
	rep.Labels["browser"] = ctx.Browser
	rep.Labels["engine"] = string(engine)
	r.reporter = framework.NewReporter(rep)
	r.log.WithFields(logrus.Fields{
		"browser": ctx.Browser,
		"engine":  engine,
		"config":  r.provider.Path(),
	}).Info("Starting suite.")
	return nil
}

func (r *suite) close() {
	if r.log != nil {
		r.log.Close()
	}
}

// startSession starts a browser session for the running spec.
// The spec is skipped if no application is configured
func startSession() *framework.Session {
	if current.settings.Common.LoginURL == "" {
		ginkgo.Skip("login URL is not configured, set " + config.LoginURL.String())
	}
	desc := ginkgo.CurrentGinkgoTestDescription()
	session, err := framework.StartSession(framework.SessionConfig{
		Name:        desc.TestText,
		Options:     framework.TestContext.Options(),
		Open:        current.open,
		Provider:    current.provider,
		Settings:    current.settings,
		FieldLogger: current.log.Component("e2e"),
		Seed:        int64(current.settings.Harness.TestSeed),
	})
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	return session
}

// stopSession captures a screenshot of a failed spec and closes the session
func stopSession(session *framework.Session) {
	if session == nil {
		return
	}
	desc := ginkgo.CurrentGinkgoTestDescription()
	if desc.Failed {
		current.reporter.AttachToCurrentSpec(session.CaptureFailure(desc.TestText))
	}
	session.Close()
}
