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

// Package drivertest implements an in-memory browser session for tests
// of code written against the driver package.
package drivertest

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gravitational/hrmtest/driver"

	"github.com/gravitational/trace"
)

// ErrStale is returned by elements configured to go stale
var ErrStale = trace.CompareFailed("stale element reference")

// PNG is the payload returned by Screenshot unless overridden
var PNG = []byte("\x89PNG\r\n\x1a\nfake")

// Driver is a fake browser session
type Driver struct {
	mu       sync.Mutex
	elements map[driver.Locator][]*Element
	matching []match
	current  string

	// ReadyState is reported for document.readyState
	ReadyState string
	// NavigateErr fails every navigation
	NavigateErr error
	// ScreenshotErr fails every screenshot
	ScreenshotErr error
	// CloseErr is returned from Close
	CloseErr error
	// OnNavigate is invoked after each successful navigation
	OnNavigate func(url string)

	// Navigations records every navigated URL
	Navigations []string
	// Scripts records every document level script
	Scripts []string
	// Screenshots counts captured screenshots
	Screenshots int
	// Closed is set once Close has been called
	Closed bool
}

// New returns a new fake session with a complete document
func New() *Driver {
	return &Driver{
		elements:   make(map[driver.Locator][]*Element),
		ReadyState: "complete",
	}
}

// Add makes el resolvable by locator. The element becomes present
// once its AppearAfter delay has elapsed
func (d *Driver) Add(locator driver.Locator, el *Element) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	el.mu.Lock()
	el.appearAt = time.Now().Add(el.AppearAfter)
	el.visibleAt = el.appearAt.Add(el.VisibleAfter)
	el.mu.Unlock()
	d.elements[locator] = append(d.elements[locator], el)
	return el
}

// AddMatching makes el resolvable by every locator whose expression
// contains fragment. Exact registrations made with Add come first
func (d *Driver) AddMatching(fragment string, el *Element) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	el.mu.Lock()
	el.appearAt = time.Now().Add(el.AppearAfter)
	el.visibleAt = el.appearAt.Add(el.VisibleAfter)
	el.mu.Unlock()
	d.matching = append(d.matching, match{fragment: fragment, el: el})
	return el
}

type match struct {
	fragment string
	el       *Element
}

// Remove detaches all elements matching locator
func (d *Driver) Remove(locator driver.Locator) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.elements, locator)
}

// Navigate records the URL
func (d *Driver) Navigate(url string) error {
	d.mu.Lock()
	if d.NavigateErr != nil {
		d.mu.Unlock()
		return d.NavigateErr
	}
	d.Navigations = append(d.Navigations, url)
	d.current = url
	hook := d.OnNavigate
	d.mu.Unlock()
	if hook != nil {
		hook(url)
	}
	return nil
}

// URL returns the last navigated URL
func (d *Driver) URL() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current, nil
}

// Find returns the present elements registered for locator
func (d *Driver) Find(locator driver.Locator) ([]driver.Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var found []driver.Element
	now := time.Now()
	for _, el := range d.elements[locator] {
		if el.present(now) {
			found = append(found, el)
		}
	}
	for _, m := range d.matching {
		if strings.Contains(locator.Expr, m.fragment) && m.el.present(now) {
			found = append(found, m.el)
		}
	}
	return found, nil
}

// RunScript answers document.readyState queries and records the script
func (d *Driver) RunScript(script string, result interface{}, args ...interface{}) error {
	d.mu.Lock()
	d.Scripts = append(d.Scripts, script)
	state := d.ReadyState
	d.mu.Unlock()
	if strings.Contains(script, "document.readyState") {
		return assign(result, state)
	}
	return nil
}

// Screenshot returns PNG
func (d *Driver) Screenshot() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ScreenshotErr != nil {
		return nil, d.ScreenshotErr
	}
	d.Screenshots++
	return PNG, nil
}

// Close marks the session closed
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Closed = true
	return d.CloseErr
}

// Element is a fake DOM node.
// Its value models an input field, its text the rendered content
type Element struct {
	mu        sync.Mutex
	appearAt  time.Time
	visibleAt time.Time
	value     string
	selectAll bool

	// Label identifies the element in error messages
	Label string
	// InnerText is returned from Text
	InnerText string
	// Hidden keeps the element from ever becoming displayed
	Hidden bool
	// Disabled keeps the element from ever becoming enabled
	Disabled bool
	// AppearAfter delays presence relative to Driver.Add
	AppearAfter time.Duration
	// VisibleAfter delays visibility relative to presence
	VisibleAfter time.Duration
	// StaleReads is the number of state reads that fail with ErrStale
	StaleReads int

	// ClickErr fails native clicks
	ClickErr error
	// ClearErr fails native clears
	ClearErr error
	// SendKeysErr fails every key input
	SendKeysErr error
	// FocusKeysErr fails the select-all-and-delete sequence only
	FocusKeysErr error
	// ScriptErr fails every element script
	ScriptErr error
	// RejectKeys makes typed characters not land in the value
	RejectKeys bool
	// Transform rewrites the value after each key input
	Transform func(value string) string
	// OnClick is invoked after each successful native or scripted click
	OnClick func()

	// Clicks counts successful native clicks
	Clicks int
	// ScriptClicks counts scripted clicks
	ScriptClicks int
	// ScriptValues counts scripted value assignments
	ScriptValues int
	// Keys records every key input
	Keys []string
}

// NewElement returns a displayed and enabled element
func NewElement(label string) *Element {
	return &Element{Label: label}
}

// SetValue sets the current value
func (e *Element) SetValue(value string) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.value = value
	return e
}

// Value returns the current value
func (e *Element) Value() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value
}

func (e *Element) present(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !now.Before(e.appearAt)
}

func (e *Element) stale() error {
	if e.StaleReads > 0 {
		e.StaleReads--
		return ErrStale
	}
	return nil
}

// Click performs a native click
func (e *Element) Click() error {
	e.mu.Lock()
	if e.ClickErr != nil {
		e.mu.Unlock()
		return e.ClickErr
	}
	e.Clicks++
	hook := e.OnClick
	e.mu.Unlock()
	if hook != nil {
		hook()
	}
	return nil
}

// Clear empties the value
func (e *Element) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ClearErr != nil {
		return e.ClearErr
	}
	e.value = ""
	return nil
}

// SendKeys interprets keys the way a text input would
func (e *Element) SendKeys(keys string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.SendKeysErr != nil {
		return e.SendKeysErr
	}
	if e.FocusKeysErr != nil && strings.HasPrefix(keys, driver.KeyControl) {
		return e.FocusKeysErr
	}
	e.Keys = append(e.Keys, keys)
	var control bool
	for _, r := range keys {
		switch string(r) {
		case driver.KeyControl:
			control = true
		case driver.KeyDelete:
			if e.selectAll {
				e.value = ""
				e.selectAll = false
			}
		case driver.KeyTab, driver.KeyEnter:
		default:
			if control && r == 'a' {
				e.selectAll = true
				control = false
				continue
			}
			if !e.RejectKeys {
				e.value += string(r)
			}
		}
	}
	if e.Transform != nil {
		e.value = e.Transform(e.value)
	}
	return nil
}

// Text returns InnerText
func (e *Element) Text() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.stale(); err != nil {
		return "", err
	}
	return e.InnerText, nil
}

// Attribute returns the value for "value" and an empty string otherwise
func (e *Element) Attribute(name string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.stale(); err != nil {
		return "", err
	}
	if name == "value" {
		return e.value, nil
	}
	return "", nil
}

// Displayed reports visibility
func (e *Element) Displayed() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.stale(); err != nil {
		return false, err
	}
	return !e.Hidden && !time.Now().Before(e.visibleAt), nil
}

// Enabled reports whether the element accepts input
func (e *Element) Enabled() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.Disabled, nil
}

// Run recognizes scripted clicks and scripted value assignments
func (e *Element) Run(script string, result interface{}, args ...interface{}) error {
	e.mu.Lock()
	if e.ScriptErr != nil {
		e.mu.Unlock()
		return e.ScriptErr
	}
	switch {
	case strings.Contains(script, "dispatchEvent"):
		if len(args) > 0 {
			e.value = fmt.Sprint(args[0])
		}
		e.ScriptValues++
		e.mu.Unlock()
		return nil
	case strings.Contains(script, ".click()"):
		e.ScriptClicks++
		hook := e.OnClick
		e.mu.Unlock()
		if hook != nil {
			hook()
		}
		return nil
	}
	e.mu.Unlock()
	return nil
}

func (e *Element) String() string {
	return fmt.Sprintf("element(%v)", e.Label)
}

func assign(result interface{}, value interface{}) error {
	if result == nil {
		return nil
	}
	rv := reflect.ValueOf(result)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return trace.BadParameter("expected a non-nil pointer, got %T", result)
	}
	v := reflect.ValueOf(value)
	if !v.Type().AssignableTo(rv.Elem().Type()) {
		return trace.BadParameter("cannot assign %T to %T", value, result)
	}
	rv.Elem().Set(v)
	return nil
}
