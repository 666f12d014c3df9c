// Package webdriver implements browser sessions on a locally started
// WebDriver server: chromedriver, geckodriver or msedgedriver.
package webdriver

import (
	"github.com/gravitational/hrmtest/driver"

	"github.com/gravitational/trace"
	"github.com/sclevine/agouti"
	"github.com/sclevine/agouti/api"
)

// New starts the WebDriver server for opts.Browser and opens a new window
func New(opts driver.Options) (*Driver, error) {
	if err := opts.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}
	wd := newWebDriver(opts)
	if err := wd.Start(); err != nil {
		return nil, trace.ConnectionProblem(err, "failed to start %v driver", opts.Browser)
	}
	page, err := wd.NewPage()
	if err != nil {
		wd.Stop()
		return nil, trace.Wrap(err)
	}
	session := &Driver{wd: wd, page: page}
	if err := page.SetPageLoad(int(opts.PageLoadTimeout.Milliseconds())); err != nil {
		session.Close()
		return nil, trace.Wrap(err)
	}
	return session, nil
}

func newWebDriver(opts driver.Options) *agouti.WebDriver {
	switch opts.Browser {
	case driver.Firefox:
		return agouti.GeckoDriver(agouti.Desired(desired(opts)))
	case driver.Edge:
		return agouti.EdgeDriver(agouti.Desired(desired(opts)))
	default:
		return agouti.ChromeDriver(
			agouti.ChromeOptions("args", opts.ChromeArgs()),
			agouti.ChromeOptions("prefs", opts.ChromePrefs()),
		)
	}
}

// desired returns the capabilities of browsers without a dedicated agouti option
func desired(opts driver.Options) agouti.Capabilities {
	switch opts.Browser {
	case driver.Firefox:
		caps := agouti.Capabilities{"browserName": "firefox"}
		if args := opts.FirefoxArgs(); len(args) != 0 {
			caps["moz:firefoxOptions"] = map[string]interface{}{"args": args}
		}
		return caps
	case driver.Edge:
		return agouti.Capabilities{
			"browserName": "MicrosoftEdge",
			"ms:edgeOptions": map[string]interface{}{
				"args":  opts.ChromeArgs(),
				"prefs": opts.ChromePrefs(),
			},
		}
	}
	return agouti.Capabilities{}
}

// Driver is a browser window driven by a local WebDriver server
type Driver struct {
	wd   *agouti.WebDriver
	page *agouti.Page
}

// Navigate loads url
func (r *Driver) Navigate(url string) error {
	return trace.Wrap(r.page.Navigate(url))
}

// URL returns the URL of the current document
func (r *Driver) URL() (string, error) {
	url, err := r.page.URL()
	return url, trace.Wrap(err)
}

// Find returns the elements matching locator
func (r *Driver) Find(locator driver.Locator) ([]driver.Element, error) {
	found, err := r.page.Session().GetElements(api.Selector{
		Using: string(locator.Strategy),
		Value: locator.Expr,
	})
	if err != nil {
		return nil, trace.Wrap(err)
	}
	elements := make([]driver.Element, 0, len(found))
	for _, el := range found {
		elements = append(elements, &element{Element: el, session: r.page.Session()})
	}
	return elements, nil
}

// RunScript executes script in the current document
func (r *Driver) RunScript(script string, result interface{}, args ...interface{}) error {
	return execute(r.page.Session(), script, result, args)
}

// Screenshot captures the viewport
func (r *Driver) Screenshot() ([]byte, error) {
	data, err := r.page.Session().GetScreenshot()
	return data, trace.Wrap(err)
}

// Close closes the window and stops the WebDriver server
func (r *Driver) Close() error {
	var errors []error
	if err := r.page.Destroy(); err != nil {
		errors = append(errors, err)
	}
	if err := r.wd.Stop(); err != nil {
		errors = append(errors, err)
	}
	return trace.NewAggregate(errors...)
}

type element struct {
	*api.Element
	session *api.Session
}

func (r *element) Click() error {
	return trace.Wrap(r.Element.Click())
}

func (r *element) Clear() error {
	return trace.Wrap(r.Element.Clear())
}

func (r *element) SendKeys(keys string) error {
	return trace.Wrap(r.Value(keys))
}

func (r *element) Text() (string, error) {
	text, err := r.GetText()
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
	return execute(r.session, script, result, append([]interface{}{driver.ElementReference(r.ID)}, args...))
}

func execute(session *api.Session, script string, result interface{}, args []interface{}) error {
	if args == nil {
		args = []interface{}{}
	}
	var value interface{}
	if err := session.Execute(script, args, &value); err != nil {
		return trace.Wrap(err)
	}
	return driver.ConvertResult(value, result)
}
