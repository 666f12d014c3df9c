/*
Copyright 2020 Gravitational, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package driver defines the browser session abstraction the page layer
// is written against. Concrete sessions live in the webdriver, selenium
// and cdp subpackages.
package driver

import (
	"fmt"
	"strings"
	"time"

	"github.com/gravitational/hrmtest/lib/defaults"

	"github.com/gravitational/trace"
)

// Driver is a single live browser session
type Driver interface {
	// Navigate directs the browser to the given URL
	Navigate(url string) error
	// URL returns the URL of the current document
	URL() (string, error)
	// Find resolves locator against the current document.
	// An empty result is not an error
	Find(locator Locator) ([]Element, error)
	// RunScript executes script in the context of the current document
	// and decodes its return value into result unless result is nil.
	// Script arguments are available as arguments[i]
	RunScript(script string, result interface{}, args ...interface{}) error
	// Screenshot captures the current viewport as PNG
	Screenshot() ([]byte, error)
	// Close terminates the session and the browser process
	Close() error
}

// Element is a transient reference to a located DOM node.
// Any method may fail once the node goes stale
type Element interface {
	Click() error
	Clear() error
	// SendKeys types keys into the element. Keys may contain the
	// special key codes defined in this package
	SendKeys(keys string) error
	Text() (string, error)
	// Attribute returns the named attribute or property of the element
	Attribute(name string) (string, error)
	Displayed() (bool, error)
	Enabled() (bool, error)
	// Run executes script with the element bound to arguments[0]
	// and the remaining args following it
	Run(script string, result interface{}, args ...interface{}) error
}

// Strategy names a locator strategy as defined by the W3C WebDriver protocol
type Strategy string

const (
	// StrategyXPath matches elements with an XPath expression
	StrategyXPath Strategy = "xpath"
	// StrategyCSS matches elements with a CSS selector
	StrategyCSS Strategy = "css selector"
	// StrategyID matches elements by id attribute
	StrategyID Strategy = "id"
	// StrategyName matches elements by name attribute
	StrategyName Strategy = "name"
)

// Locator identifies zero or more elements in the current document
type Locator struct {
	Strategy Strategy
	Expr     string
}

// XPath returns an XPath locator
func XPath(expr string) Locator {
	return Locator{Strategy: StrategyXPath, Expr: expr}
}

// CSS returns a CSS selector locator
func CSS(expr string) Locator {
	return Locator{Strategy: StrategyCSS, Expr: expr}
}

// ID returns a locator matching the element with the given id
func ID(id string) Locator {
	return Locator{Strategy: StrategyID, Expr: id}
}

// Name returns a locator matching elements with the given name attribute
func Name(name string) Locator {
	return Locator{Strategy: StrategyName, Expr: name}
}

// XPathString quotes s as an XPath string literal
func XPathString(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	for i, part := range parts {
		parts[i] = "'" + part + "'"
	}
	return "concat(" + strings.Join(parts, `, "'", `) + ")"
}

func (r Locator) String() string {
	return fmt.Sprintf("%v=%v", r.Strategy, r.Expr)
}

// Selector translates the locator into a CSS selector or XPath expression
// suitable for engines that only support those two.
// Returns the expression and whether it is an XPath
func (r Locator) Selector() (expr string, xpath bool) {
	switch r.Strategy {
	case StrategyXPath:
		return r.Expr, true
	case StrategyID:
		return fmt.Sprintf(`[id=%q]`, r.Expr), false
	case StrategyName:
		return fmt.Sprintf(`[name=%q]`, r.Expr), false
	default:
		return r.Expr, false
	}
}

// Special key codes from the WebDriver key table
const (
	KeyTab     = "\ue004"
	KeyEnter   = "\ue007"
	KeyControl = "\ue009"
	KeyDelete  = "\ue017"
)

// Browser names a supported browser
type Browser string

const (
	Chrome  Browser = "chrome"
	Firefox Browser = "firefox"
	Edge    Browser = "edge"
)

// Browsers lists the supported browser names
var Browsers = []string{string(Chrome), string(Firefox), string(Edge)}

// ParseBrowser validates the browser name
func ParseBrowser(name string) (Browser, error) {
	switch Browser(strings.ToLower(strings.TrimSpace(name))) {
	case Chrome:
		return Chrome, nil
	case Firefox:
		return Firefox, nil
	case Edge:
		return Edge, nil
	}
	return "", trace.BadParameter("unsupported browser %q, expected one of %v", name, Browsers)
}

// Options describes how to start a browser session
type Options struct {
	Browser  Browser
	Headless bool
	// RemoteURL is the WebDriver endpoint for remote sessions
	RemoteURL string
	// PageLoadTimeout bounds a single navigation
	PageLoadTimeout time.Duration
}

// CheckAndSetDefaults validates options and fills in defaults
func (r *Options) CheckAndSetDefaults() error {
	if r.Browser == "" {
		r.Browser = Chrome
	}
	browser, err := ParseBrowser(string(r.Browser))
	if err != nil {
		return trace.Wrap(err)
	}
	r.Browser = browser
	if r.PageLoadTimeout <= 0 {
		r.PageLoadTimeout = defaults.PageLoadTimeout
	}
	return nil
}

// ChromeArgs returns the command line switches passed to chromium based browsers
func (r Options) ChromeArgs() []string {
	args := []string{
		"--disable-notifications",
		"--disable-save-password-bubble",
		"--start-maximized",
	}
	if r.Headless {
		args = append(args, "--headless=new", "--window-size=1920,1080")
	}
	return args
}

// ChromePrefs returns the profile preferences that keep the password
// manager from covering form fields
func (r Options) ChromePrefs() map[string]interface{} {
	return map[string]interface{}{
		"credentials_enable_service":       false,
		"profile.password_manager_enabled": false,
	}
}

// FirefoxArgs returns the command line switches passed to firefox
func (r Options) FirefoxArgs() []string {
	if r.Headless {
		return []string{"-headless"}
	}
	return nil
}

// ElementReference returns the wire representation of an element id
// understood by both legacy and W3C WebDriver endpoints
func ElementReference(id string) map[string]string {
	return map[string]string{
		"ELEMENT":                             id,
		"element-6066-11e4-a52e-4f735466cecf": id,
	}
}
