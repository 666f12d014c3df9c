package framework

import (
	"flag"
	"strconv"
	"strings"

	"github.com/gravitational/hrmtest/driver"
	"github.com/gravitational/hrmtest/lib/defaults"

	"github.com/gravitational/configure"
	"github.com/gravitational/trace"
)

// TestContext holds the run options of the browser suite
var TestContext = &TestContextType{}

// TestContextType describes how browser sessions are started.
// Values come from command line flags, environment variables take precedence
type TestContextType struct {
	// ConfigFile is the settings file
	ConfigFile string `env:"HRM_CONFIG_FILE"`
	// Browser is one of chrome, firefox or edge
	Browser string `env:"HRM_BROWSER"`
	// Headless runs the browser without a window
	Headless boolean `env:"HRM_HEADLESS"`
	// Engine selects the automation backend
	Engine string `env:"HRM_ENGINE"`
	// RemoteURL is the WebDriver endpoint of the remote engine
	RemoteURL string `env:"HRM_REMOTE_URL"`
}

// RegisterFlags binds the context to the test binary flags
func (r *TestContextType) RegisterFlags(flags *flag.FlagSet) {
	flags.StringVar(&r.ConfigFile, "config", defaults.ConfigFile, "settings file")
	flags.StringVar(&r.Browser, "browser", string(driver.Chrome), "browser to run: "+strings.Join(driver.Browsers, ", "))
	flags.Var(&r.Headless, "headless", "run the browser without a window")
	flags.StringVar(&r.Engine, "engine", string(EngineWebDriver), "automation backend: "+strings.Join(Engines, ", "))
	flags.StringVar(&r.RemoteURL, "remote-url", "", "WebDriver endpoint of the remote engine")
}

// CheckAndSetDefaults applies environment overrides and validates the context
func (r *TestContextType) CheckAndSetDefaults() error {
	if err := configure.ParseEnv(r); err != nil {
		return trace.Wrap(err)
	}
	if r.ConfigFile == "" {
		r.ConfigFile = defaults.ConfigFile
	}
	var errors []error
	if _, err := driver.ParseBrowser(r.Browser); err != nil {
		errors = append(errors, err)
	}
	engine, err := ParseEngine(r.Engine)
	if err != nil {
		errors = append(errors, err)
	}
	if engine == EngineRemote && r.RemoteURL == "" {
		errors = append(errors, trace.BadParameter("remote engine requires a WebDriver endpoint"))
	}
	return trace.NewAggregate(errors...)
}

// Options returns the session options described by the context
func (r TestContextType) Options() driver.Options {
	browser, _ := driver.ParseBrowser(r.Browser)
	return driver.Options{
		Browser:   browser,
		Headless:  bool(r.Headless),
		RemoteURL: r.RemoteURL,
	}
}

// boolean aliases bool to support flag and environment parsing
type boolean bool

// SetEnv interprets data as bool.
// SetEnv implements configure.EnvSetter
func (r *boolean) SetEnv(data string) error {
	return r.Set(data)
}

// Set implements flag.Value
func (r *boolean) Set(data string) error {
	v, err := strconv.ParseBool(data)
	if err != nil {
		return trace.BadParameter("expected a boolean, got %q", data)
	}
	*r = boolean(v)
	return nil
}

func (r *boolean) String() string {
	if r == nil {
		return "false"
	}
	return strconv.FormatBool(bool(*r))
}

// IsBoolFlag allows the flag to be given without a value
func (r *boolean) IsBoolFlag() bool {
	return true
}
