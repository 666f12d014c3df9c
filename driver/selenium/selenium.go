// Package selenium implements browser sessions on a remote WebDriver
// endpoint such as a Selenium server or grid.
package selenium

import (
	"github.com/gravitational/hrmtest/driver"

	"github.com/gravitational/trace"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"
)

// New starts a browser session on the WebDriver endpoint opts.RemoteURL.
// An empty URL selects the default local Selenium server
func New(opts driver.Options) (*Driver, error) {
	if err := opts.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}
	remote, err := selenium.NewRemote(Capabilities(opts), opts.RemoteURL)
	if err != nil {
		return nil, trace.ConnectionProblem(err, "failed to start %v session at %q", opts.Browser, opts.RemoteURL)
	}
	session := &Driver{WebDriver: remote}
	if err := remote.SetPageLoadTimeout(opts.PageLoadTimeout); err != nil {
		session.Close()
		return nil, trace.Wrap(err)
	}
	if !opts.Headless {
		// headless windows are sized with a switch
		if err := remote.MaximizeWindow(""); err != nil {
			session.Close()
			return nil, trace.Wrap(err)
		}
	}
	return session, nil
}

// Capabilities returns the capabilities requested for a new session
func Capabilities(opts driver.Options) selenium.Capabilities {
	switch opts.Browser {
	case driver.Firefox:
		caps := selenium.Capabilities{"browserName": "firefox"}
		caps.AddFirefox(firefox.Capabilities{Args: opts.FirefoxArgs()})
		return caps
	case driver.Edge:
		return selenium.Capabilities{
			"browserName": "MicrosoftEdge",
			"ms:edgeOptions": map[string]interface{}{
				"args":  opts.ChromeArgs(),
				"prefs": opts.ChromePrefs(),
			},
		}
	default:
		caps := selenium.Capabilities{"browserName": "chrome"}
		caps.AddChrome(chrome.Capabilities{
			Args:  opts.ChromeArgs(),
			Prefs: opts.ChromePrefs(),
		})
		return caps
	}
}

// Driver is a remote WebDriver session
type Driver struct {
	selenium.WebDriver
}

// Navigate loads url
func (r *Driver) Navigate(url string) error {
	return trace.Wrap(r.Get(url))
}

// URL returns the URL of the current document
func (r *Driver) URL() (string, error) {
	url, err := r.CurrentURL()
	return url, trace.Wrap(err)
}

// Find returns the elements matching locator
func (r *Driver) Find(locator driver.Locator) ([]driver.Element, error) {
	found, err := r.FindElements(by(locator.Strategy), locator.Expr)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	elements := make([]driver.Element, 0, len(found))
	for _, el := range found {
		elements = append(elements, &element{WebElement: el, wd: r.WebDriver})
	}
	return elements, nil
}

// RunScript executes script in the current document
func (r *Driver) RunScript(script string, result interface{}, args ...interface{}) error {
	return runScript(r.WebDriver, script, result, args)
}

// Close ends the session and quits the browser
func (r *Driver) Close() error {
	return trace.Wrap(r.Quit())
}

type element struct {
	selenium.WebElement
	wd selenium.WebDriver
}

func (r *element) Click() error {
	return trace.Wrap(r.WebElement.Click())
}

func (r *element) Clear() error {
	return trace.Wrap(r.WebElement.Clear())
}

func (r *element) SendKeys(keys string) error {
	return trace.Wrap(r.WebElement.SendKeys(keys))
}

func (r *element) Text() (string, error) {
	text, err := r.WebElement.Text()
	return text, trace.Wrap(err)
}

func (r *element) Attribute(name string) (string, error) {
	value, err := r.GetAttribute(name)
	return value, trace.Wrap(err)
}

func (r *element) Displayed() (bool, error) {
	displayed, err := r.IsDisplayed()
	return displayed, trace.Wrap(err)
}

func (r *element) Enabled() (bool, error) {
	enabled, err := r.IsEnabled()
	return enabled, trace.Wrap(err)
}

// Run executes script with the element as the first argument
func (r *element) Run(script string, result interface{}, args ...interface{}) error {
	return runScript(r.wd, script, result, append([]interface{}{r.WebElement}, args...))
}

func runScript(wd selenium.WebDriver, script string, result interface{}, args []interface{}) error {
	if args == nil {
		args = []interface{}{}
	}
	value, err := wd.ExecuteScript(script, args)
	if err != nil {
		return trace.Wrap(err)
	}
	return driver.ConvertResult(value, result)
}

func by(strategy driver.Strategy) string {
	switch strategy {
	case driver.StrategyCSS:
		return selenium.ByCSSSelector
	case driver.StrategyID:
		return selenium.ByID
	case driver.StrategyName:
		return selenium.ByName
	default:
		return selenium.ByXPATH
	}
}
