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

// Package page implements the element interaction layer page objects are
// built on.
//
// Every primitive resolves its locator anew and polls the browser until the
// element reaches the required state or the timeout elapses. Element handles
// are never kept across primitive calls. Interactions that commonly fail on
// non-standard widgets (click, clear, typing) fall back to keyboard or
// scripted alternatives, see Policies.
package page

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gravitational/hrmtest/driver"
	"github.com/gravitational/hrmtest/e2e/uimodel/defaults"
	"github.com/gravitational/hrmtest/lib/config"
	"github.com/gravitational/hrmtest/lib/constants"
	libdefaults "github.com/gravitational/hrmtest/lib/defaults"
	"github.com/gravitational/hrmtest/lib/system"
	"github.com/gravitational/hrmtest/lib/wait"

	"github.com/dustin/go-humanize"
	"github.com/gravitational/trace"
	"github.com/sirupsen/logrus"
)

// Config describes a page
type Config struct {
	// Driver is the browser session. The page does not own it
	Driver driver.Driver
	// Settings resolves the base URL of relative paths
	Settings *config.Provider
	// FieldLogger is the log sink
	logrus.FieldLogger
	// Timeout is the default timeout of every primitive
	Timeout time.Duration
	// ScreenshotDir is where screenshots are saved
	ScreenshotDir string
	// Policies sets the fallback failure handling
	Policies *Policies
	// LookupEnv resolves environment variables
	LookupEnv func(string) (string, bool)
	// Now returns the current time, used to name screenshots
	Now func() time.Time
}

// CheckAndSetDefaults validates the config and fills in defaults
func (r *Config) CheckAndSetDefaults() error {
	if r.Driver == nil {
		return trace.BadParameter("missing browser session")
	}
	if r.Settings == nil {
		r.Settings = config.New()
	}
	if r.FieldLogger == nil {
		r.FieldLogger = logrus.StandardLogger()
	}
	if r.Timeout <= 0 {
		r.Timeout = libdefaults.FindTimeout
	}
	if r.ScreenshotDir == "" {
		r.ScreenshotDir = libdefaults.ScreenshotDir
	}
	if r.Policies == nil {
		policies := DefaultPolicies()
		r.Policies = &policies
	}
	if r.LookupEnv == nil {
		r.LookupEnv = os.LookupEnv
	}
	if r.Now == nil {
		r.Now = time.Now
	}
	return nil
}

// Page is the base of every page object
type Page struct {
	Config
}

// New returns a new page and creates the screenshot directory
func New(config Config) (*Page, error) {
	if err := config.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}
	if err := system.EnsureDir(config.ScreenshotDir); err != nil {
		return nil, trace.Wrap(err)
	}
	return &Page{Config: config}, nil
}

// WithTimeout returns a copy of the page using timeout by default
func (p *Page) WithTimeout(timeout time.Duration) *Page {
	config := p.Config
	config.Timeout = timeout
	return &Page{Config: config}
}

// WithLogger returns a copy of the page logging to log
func (p *Page) WithLogger(log logrus.FieldLogger) *Page {
	config := p.Config
	config.FieldLogger = log
	return &Page{Config: config}
}

// Navigate directs the browser to the absolute url and waits for the
// document to load. A load that does not complete in time is logged
// along with a screenshot but is not an error
func (p *Page) Navigate(url string) error {
	return p.navigate(url, nil)
}

// NavigateAndWait navigates to url and waits for the element identified by
// locator to become visible. Returns NavigationTimeoutError if it does not
func (p *Page) NavigateAndWait(url string, locator driver.Locator) error {
	return p.navigate(url, &locator)
}

// Open navigates to pathOrURL. Paths are resolved against the base URL
func (p *Page) Open(pathOrURL string) error {
	url, err := p.ResolveURL(pathOrURL)
	if err != nil {
		return trace.Wrap(err)
	}
	return p.navigate(url, nil)
}

// OpenAndWait opens pathOrURL and waits for locator to become visible
func (p *Page) OpenAndWait(pathOrURL string, locator driver.Locator) error {
	url, err := p.ResolveURL(pathOrURL)
	if err != nil {
		return trace.Wrap(err)
	}
	return p.navigate(url, &locator)
}

// ResolveURL returns pathOrURL unchanged if it is absolute and joins it
// with the base URL otherwise. The base URL is the configured login URL
// or the BASE_URL environment variable
func (p *Page) ResolveURL(pathOrURL string) (string, error) {
	if isAbsoluteURL(pathOrURL) {
		return pathOrURL, nil
	}
	base := strings.TrimSpace(p.Settings.String(config.LoginURL, ""))
	if base == "" {
		value, _ := p.LookupEnv(config.BaseURLEnv)
		base = strings.TrimSpace(value)
	}
	if base == "" {
		return "", trace.NotFound("base URL is not configured, set %v or %v", config.LoginURL, config.BaseURLEnv)
	}
	return JoinURL(base, pathOrURL), nil
}

// JoinURL joins base and path with exactly one slash
func JoinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

func (p *Page) navigate(url string, locator *driver.Locator) error {
	if url == "" {
		return trace.BadParameter("url must be a non-empty string")
	}
	if !isAbsoluteURL(url) {
		return trace.BadParameter("expected an absolute URL starting with http:// or https://, got %q", url)
	}
	log := p.WithField(constants.FieldURL, url)
	log.Info("Opening page.")
	if err := p.Driver.Navigate(url); err != nil {
		p.snap("open_url_error")
		return trace.Wrap(err)
	}

	err := wait.Poller{Timeout: p.Timeout, Interval: defaults.PollInterval, FieldLogger: log}.Do(func() error {
		var state string
		if err := p.Driver.RunScript("return document.readyState", &state); err != nil {
			return trace.Wrap(err)
		}
		if state != "complete" {
			return wait.Continue("document is %q", state)
		}
		return nil
	})
	if err != nil {
		path := p.snap("open_url_readystate_timeout")
		log.WithField(constants.FieldScreenshot, path).Warnf("Document did not finish loading: %v.", trace.UserMessage(err))
	}

	if locator == nil {
		return nil
	}
	if _, err := p.waitFor(*locator, Visible, p.Timeout); err != nil {
		path := p.snap("open_url_wait_for_locator_timeout")
		return trace.Wrap(&NavigationTimeoutError{
			URL:        url,
			Locator:    *locator,
			Timeout:    p.Timeout,
			Screenshot: path,
		})
	}
	return nil
}

// Screenshot saves the current viewport under the screenshot directory
// and returns the file path. An empty name is replaced with a timestamp,
// a name without an extension gets .png
func (p *Page) Screenshot(name string) (string, error) {
	if name == "" {
		name = fmt.Sprintf("snap_%v", p.Now().Format(constants.TimestampFormat))
	}
	if filepath.Ext(name) == "" {
		name += ".png"
	}
	path := name
	if !filepath.IsAbs(path) && filepath.Dir(path) == "." {
		path = filepath.Join(p.ScreenshotDir, name)
	}
	data, err := p.Driver.Screenshot()
	if err != nil {
		return "", trace.Wrap(err)
	}
	if err := system.WriteFile(path, data); err != nil {
		return "", trace.Wrap(err)
	}
	p.WithField(constants.FieldScreenshot, path).Debugf("Saved screenshot (%v).", humanize.Bytes(uint64(len(data))))
	return path, nil
}

// Fail saves a screenshot, logs the failure and returns an AssertionError
func (p *Page) Fail(format string, args ...interface{}) error {
	message := fmt.Sprintf(format, args...)
	path := p.snap("")
	p.WithField(constants.FieldScreenshot, path).Error(message)
	return trace.Wrap(&AssertionError{Message: message, Screenshot: path})
}

// snap takes a diagnostic screenshot named after prefix and the current
// time in milliseconds. Names already taken get a sequence number.
// Failures are logged and result in an empty path
func (p *Page) snap(prefix string) string {
	if prefix == "" {
		prefix = "snap"
	}
	now := p.Now()
	base := fmt.Sprintf("%v_%v_%03d", prefix, now.Format(constants.TimestampFormat), now.Nanosecond()/int(time.Millisecond))
	name := base
	for seq := 2; exists(filepath.Join(p.ScreenshotDir, name+".png")); seq++ {
		name = fmt.Sprintf("%v_%v", base, seq)
	}
	path, err := p.Screenshot(name)
	if err != nil {
		p.WithError(err).Warn("Failed to capture screenshot.")
		return ""
	}
	return path
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isAbsoluteURL(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}
