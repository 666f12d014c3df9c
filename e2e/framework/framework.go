package framework

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gravitational/hrmtest/driver"
	"github.com/gravitational/hrmtest/driver/cdp"
	"github.com/gravitational/hrmtest/driver/selenium"
	"github.com/gravitational/hrmtest/driver/webdriver"
	"github.com/gravitational/hrmtest/e2e/uimodel"
	"github.com/gravitational/hrmtest/e2e/uimodel/page"
	"github.com/gravitational/hrmtest/lib/config"
	"github.com/gravitational/hrmtest/lib/constants"
	"github.com/gravitational/hrmtest/lib/defaults"
	"github.com/gravitational/hrmtest/lib/generate"
	"github.com/gravitational/hrmtest/lib/report"
	"github.com/gravitational/hrmtest/lib/wait"

	"github.com/gravitational/trace"
	"github.com/onsi/ginkgo"
	"github.com/sirupsen/logrus"
)

// Engine names a browser automation backend
type Engine string

const (
	// EngineWebDriver starts a local WebDriver server
	EngineWebDriver Engine = "webdriver"
	// EngineRemote connects to a running WebDriver endpoint
	EngineRemote Engine = "remote"
	// EngineCDP drives Chrome over the DevTools protocol
	EngineCDP Engine = "cdp"
)

// Engines lists the supported engine names
var Engines = []string{string(EngineWebDriver), string(EngineRemote), string(EngineCDP)}

// ParseEngine validates the engine name
func ParseEngine(name string) (Engine, error) {
	switch Engine(strings.ToLower(strings.TrimSpace(name))) {
	case EngineWebDriver, "":
		return EngineWebDriver, nil
	case EngineRemote:
		return EngineRemote, nil
	case EngineCDP:
		return EngineCDP, nil
	}
	return "", trace.BadParameter("unsupported engine %q, expected one of %v", name, Engines)
}

// Opener starts a browser session
type Opener func(opts driver.Options) (driver.Driver, error)

// NewOpener returns the session opener of engine
func NewOpener(engine Engine) (Opener, error) {
	switch engine {
	case EngineWebDriver:
		return func(opts driver.Options) (driver.Driver, error) {
			d, err := webdriver.New(opts)
			if err != nil {
				return nil, trace.Wrap(err)
			}
			return d, nil
		}, nil
	case EngineRemote:
		return func(opts driver.Options) (driver.Driver, error) {
			d, err := selenium.New(opts)
			if err != nil {
				return nil, trace.Wrap(err)
			}
			return d, nil
		}, nil
	case EngineCDP:
		return func(opts driver.Options) (driver.Driver, error) {
			d, err := cdp.New(opts)
			if err != nil {
				return nil, trace.Wrap(err)
			}
			return d, nil
		}, nil
	}
	return nil, trace.BadParameter("unsupported engine %q", engine)
}

// SessionConfig describes a test session
type SessionConfig struct {
	// Name is the name of the test the session belongs to
	Name string
	// Options selects the browser
	Options driver.Options
	// Open starts the browser session
	Open Opener
	// Provider serves the raw settings
	Provider *config.Provider
	// Settings is the validated settings snapshot
	Settings *config.Settings
	// FieldLogger is the log sink
	logrus.FieldLogger
	// Seed seeds the test data generator
	Seed int64
	// StartAttempts bounds the attempts to start the browser
	StartAttempts int
	// StartDelay is the initial delay between start attempts
	StartDelay time.Duration
	// Now returns the current time
	Now func() time.Time
}

// CheckAndSetDefaults validates the config and fills in defaults
func (r *SessionConfig) CheckAndSetDefaults() error {
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
	if r.StartAttempts <= 0 {
		r.StartAttempts = defaults.SessionStartAttempts
	}
	if r.StartDelay <= 0 {
		r.StartDelay = defaults.SessionStartDelay
	}
	if r.Now == nil {
		r.Now = time.Now
	}
	return nil
}

// Session is a single test's browser session with its page model
type Session struct {
	config SessionConfig
	// Driver is the live browser session
	Driver driver.Driver
	// UI is the page model over the session
	UI uimodel.UI
	// Data generates test records
	Data *generate.Generator
	// Suffix makes file names of this session unique
	Suffix string
	// Log is the session logger
	Log logrus.FieldLogger
}

// StartSession starts the browser and builds the page model over it
func StartSession(config SessionConfig) (*Session, error) {
	if err := config.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}
	log := config.WithField(constants.FieldRoutine, config.Name)
	log.WithField("browser", config.Options.Browser).Info("Starting browser session.")
	d, err := open(config, log)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	p, err := page.New(page.Config{
		Driver:        d,
		Settings:      config.Provider,
		FieldLogger:   log,
		Timeout:       config.Settings.Harness.DefaultTimeout,
		ScreenshotDir: config.Settings.Harness.ScreenshotDir,
		Now:           config.Now,
	})
	if err != nil {
		closeDriver(d, log)
		return nil, trace.Wrap(err)
	}
	return &Session{
		config: config,
		Driver: d,
		UI:     uimodel.New(p),
		Data:   generate.New(config.Seed),
		Suffix: report.UniqueSuffix(config.Now()),
		Log:    log,
	}, nil
}

// open starts the browser, retrying connection problems
func open(config SessionConfig, log logrus.FieldLogger) (d driver.Driver, err error) {
	err = wait.Retryer{
		Delay:       config.StartDelay,
		Attempts:    config.StartAttempts,
		FieldLogger: log,
	}.Do(context.TODO(), func() error {
		d, err = config.Open(config.Options)
		if err != nil && !trace.IsConnectionProblem(err) {
			return wait.Abort(err)
		}
		return trace.Wrap(err)
	})
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return d, nil
}

// Settings returns the settings snapshot of the session
func (s *Session) Settings() config.Settings {
	return *s.config.Settings
}

// Page returns the element interaction layer of the session
func (s *Session) Page() *page.Page {
	return s.UI.Page()
}

// CaptureFailure saves a screenshot named after the failed test.
// Returns the empty path if the screenshot could not be taken
func (s *Session) CaptureFailure(name string) string {
	path, err := s.Page().Screenshot(fmt.Sprintf("failure_%v_%v", FileName(name), s.Suffix))
	if err != nil {
		s.Log.WithError(err).Warn("Failed to capture failure screenshot.")
		return ""
	}
	s.Log.WithField(constants.FieldScreenshot, path).Info("Captured failure screenshot.")
	return path
}

// Close terminates the browser session.
// Errors are logged, teardown never fails a test
func (s *Session) Close() {
	closeDriver(s.Driver, s.Log)
}

func closeDriver(d driver.Driver, log logrus.FieldLogger) {
	if err := d.Close(); err != nil {
		log.WithError(err).Warn("Failed to close browser session.")
	}
}

// FileName replaces characters unsafe in file names with underscores
func FileName(name string) string {
	name = unsafeFileChars.ReplaceAllString(strings.TrimSpace(name), "_")
	return strings.Trim(name, "_")
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// RoboDescribe is local wrapper function for ginkgo.Describe.
// It adds test namespacing.
func RoboDescribe(text string, body func()) bool {
	return ginkgo.Describe("[hrmtest] "+text, body)
}
