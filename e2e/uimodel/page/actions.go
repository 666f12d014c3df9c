package page

import (
	"strings"
	"time"

	"github.com/gravitational/hrmtest/driver"
	"github.com/gravitational/hrmtest/e2e/uimodel/defaults"
	"github.com/gravitational/hrmtest/lib/constants"
	"github.com/gravitational/hrmtest/lib/wait"

	"github.com/gravitational/trace"
	"github.com/sirupsen/logrus"
)

const (
	clickScript = `arguments[0].click();`
	// setValueScript assigns arguments[1] and notifies the input and change listeners
	setValueScript = `arguments[0].value = arguments[1];` +
		`arguments[0].dispatchEvent(new Event('input', {bubbles: true}));` +
		`arguments[0].dispatchEvent(new Event('change', {bubbles: true}));`
)

// Option modifies typing
type Option func(*typeOptions)

type typeOptions struct {
	keepExisting bool
	sendEnter    bool
	allowPartial bool
}

// KeepExisting types without clearing the field first
func KeepExisting() Option {
	return func(o *typeOptions) { o.keepExisting = true }
}

// SendEnter presses Enter after typing
func SendEnter() Option {
	return func(o *typeOptions) { o.sendEnter = true }
}

// AllowPartial accepts a field value that merely contains the typed text
func AllowPartial() Option {
	return func(o *typeOptions) { o.allowPartial = true }
}

// Click waits for the element to become clickable and clicks it. If the
// native click fails, the element is clicked with a script
func (p *Page) Click(locator driver.Locator) error {
	el, err := p.FindClickable(locator)
	if err != nil {
		return trace.Wrap(err)
	}
	log := p.WithField(constants.FieldLocator, locator.String())
	if err := el.Click(); err != nil {
		log.WithError(err).Debug("Native click failed, clicking with script.")
		if err := el.Run(clickScript, nil); err != nil {
			return p.fallback(log, p.Policies.Click, "click", trace.Wrap(err))
		}
	}
	return nil
}

// Clear waits for the element to become visible and empties it. If the
// native clear fails, the text is selected and deleted with the keyboard.
// Callers should not assume the field is empty afterwards unless the
// clear policy is Propagate
func (p *Page) Clear(locator driver.Locator) error {
	el, err := p.FindVisible(locator)
	if err != nil {
		return trace.Wrap(err)
	}
	return p.clear(el, p.WithField(constants.FieldLocator, locator.String()))
}

// Type waits for the element to become visible, focuses it, clears it
// unless KeepExisting is given and types text. Nothing verifies that the
// text landed, see TypeAndVerify
func (p *Page) Type(locator driver.Locator, text string, opts ...Option) error {
	el, err := p.FindVisible(locator)
	if err != nil {
		return trace.Wrap(err)
	}
	return p.typeInto(el, text, options(opts), p.WithField(constants.FieldLocator, locator.String()))
}

// TypeAndVerify types text like Type, then presses Tab to fire change
// handlers and polls the field until its value equals text, or contains
// it with AllowPartial. If the value does not converge, it is assigned
// with a script and checked once more.
//
// Returns the last observed value. A value that never matched is logged
// but is not an error: the caller decides whether it is acceptable
func (p *Page) TypeAndVerify(locator driver.Locator, text string, opts ...Option) (string, error) {
	el, err := p.FindVisible(locator)
	if err != nil {
		return "", trace.Wrap(err)
	}
	o := options(opts)
	log := p.WithField(constants.FieldLocator, locator.String())
	if err := p.typeInto(el, text, o, log); err != nil {
		return "", trace.Wrap(err)
	}
	if err := el.SendKeys(driver.KeyTab); err != nil {
		log.WithError(err).Debug("Failed to move focus.")
	}

	matches := func(value string) bool {
		if o.allowPartial {
			return strings.Contains(value, text)
		}
		return value == text
	}

	var observed string
	err = wait.Poller{Timeout: p.Timeout, Interval: defaults.VerifyPollInterval, FieldLogger: log}.Do(func() error {
		observed = p.observe(locator, el)
		if !matches(observed) {
			return wait.Continue("field has %q, want %q", observed, text)
		}
		return nil
	})
	if err == nil {
		return observed, nil
	}

	log.Debugf("Typed text did not land (%q), assigning it with script.", observed)
	target := el
	if elements, err := p.Driver.Find(locator); err == nil && len(elements) > 0 {
		target = elements[0]
	}
	if err := target.Run(setValueScript, nil, text); err != nil {
		log.WithError(err).Warn("Failed to assign field value with script.")
		return observed, nil
	}
	time.Sleep(defaults.SettleDelay)
	observed = p.observe(locator, target)
	if !matches(observed) {
		log.Warnf("Field value %q does not match %q.", observed, text)
	}
	return observed, nil
}

// ReadText waits for the element to become visible and returns its trimmed text
func (p *Page) ReadText(locator driver.Locator) (string, error) {
	el, err := p.FindVisible(locator)
	if err != nil {
		return "", trace.Wrap(err)
	}
	text, err := el.Text()
	if err != nil {
		return "", trace.Wrap(err)
	}
	return strings.TrimSpace(text), nil
}

// ReadValue waits for the element to become visible and returns its trimmed value
func (p *Page) ReadValue(locator driver.Locator) (string, error) {
	el, err := p.FindVisible(locator)
	if err != nil {
		return "", trace.Wrap(err)
	}
	value, err := el.Attribute("value")
	if err != nil {
		return "", trace.Wrap(err)
	}
	return strings.TrimSpace(value), nil
}

func (p *Page) typeInto(el driver.Element, text string, o typeOptions, log logrus.FieldLogger) error {
	if err := el.Click(); err != nil {
		if err := p.fallback(log, p.Policies.Focus, "focus", trace.Wrap(err)); err != nil {
			return trace.Wrap(err)
		}
	}
	if !o.keepExisting {
		if err := p.clear(el, log); err != nil {
			return trace.Wrap(err)
		}
	}
	if err := el.SendKeys(text); err != nil {
		return trace.Wrap(err)
	}
	if o.sendEnter {
		if err := el.SendKeys(driver.KeyEnter); err != nil {
			return trace.Wrap(err)
		}
	}
	return nil
}

func (p *Page) clear(el driver.Element, log logrus.FieldLogger) error {
	err := el.Clear()
	if err == nil {
		return nil
	}
	log.WithError(err).Debug("Native clear failed, clearing with keyboard.")
	if err := el.SendKeys(driver.KeyControl + "a"); err != nil {
		return p.fallback(log, p.Policies.Clear, "clear", trace.Wrap(err))
	}
	if err := el.SendKeys(driver.KeyDelete); err != nil {
		return p.fallback(log, p.Policies.Clear, "clear", trace.Wrap(err))
	}
	return nil
}

// observe reads the field value, falling back to its text. The locator is
// resolved anew so a re-rendered field is read rather than a stale one
func (p *Page) observe(locator driver.Locator, el driver.Element) string {
	if elements, err := p.Driver.Find(locator); err == nil && len(elements) > 0 {
		el = elements[0]
	}
	value, err := el.Attribute("value")
	if err != nil {
		return ""
	}
	if value == "" {
		if value, err = el.Text(); err != nil {
			return ""
		}
	}
	return strings.TrimSpace(value)
}

func (p *Page) fallback(log logrus.FieldLogger, policy FallbackPolicy, action string, err error) error {
	if policy == Propagate {
		return trace.Wrap(err)
	}
	log.WithError(err).Debugf("Fallback %v failed, ignoring.", action)
	return nil
}

func options(opts []Option) typeOptions {
	var o typeOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
