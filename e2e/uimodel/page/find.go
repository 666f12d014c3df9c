package page

import (
	"time"

	"github.com/gravitational/hrmtest/driver"
	"github.com/gravitational/hrmtest/e2e/uimodel/defaults"
	"github.com/gravitational/hrmtest/lib/constants"
	"github.com/gravitational/hrmtest/lib/wait"

	"github.com/gravitational/trace"
	"github.com/sirupsen/logrus"
)

// Find waits for an element matching locator to be present
func (p *Page) Find(locator driver.Locator) (driver.Element, error) {
	return p.locate(locator, Present)
}

// FindVisible waits for an element matching locator to be visible
func (p *Page) FindVisible(locator driver.Locator) (driver.Element, error) {
	return p.locate(locator, Visible)
}

// FindClickable waits for an element matching locator to be visible and enabled
func (p *Page) FindClickable(locator driver.Locator) (driver.Element, error) {
	return p.locate(locator, Clickable)
}

// WaitVisible waits for an element matching locator to be visible
func (p *Page) WaitVisible(locator driver.Locator) error {
	_, err := p.locate(locator, Visible)
	return trace.Wrap(err)
}

// IsVisible reports whether an element matching locator becomes visible
// within the timeout. It takes no screenshot when it does not
func (p *Page) IsVisible(locator driver.Locator) bool {
	_, err := p.waitFor(locator, Visible, p.Timeout)
	return err == nil
}

// FindAll returns the elements matching locator once there is at least one.
// Returns an empty list if nothing matches within the timeout
func (p *Page) FindAll(locator driver.Locator) []driver.Element {
	var found []driver.Element
	err := wait.Poller{Timeout: p.Timeout, Interval: defaults.ListPollInterval, FieldLogger: p.FieldLogger}.Do(func() error {
		elements, err := p.Driver.Find(locator)
		if err != nil {
			return trace.Wrap(err)
		}
		if len(elements) == 0 {
			return wait.Continue("no elements match %v", locator)
		}
		found = elements
		return nil
	})
	if err != nil {
		p.WithField(constants.FieldLocator, locator.String()).Debug("No elements found.")
		return []driver.Element{}
	}
	return found
}

// locate waits for locator to reach state. On timeout a screenshot is
// attached to the returned LocatorTimeoutError
func (p *Page) locate(locator driver.Locator, state State) (driver.Element, error) {
	el, err := p.waitFor(locator, state, p.Timeout)
	if err == nil {
		return el, nil
	}
	if timeout, ok := trace.Unwrap(err).(*LocatorTimeoutError); ok {
		timeout.Screenshot = p.snap("locator_timeout")
		p.WithFields(logrus.Fields{
			constants.FieldLocator:    locator.String(),
			constants.FieldScreenshot: timeout.Screenshot,
		}).Warnf("Element is not %v.", state)
	}
	return nil, trace.Wrap(err)
}

func (p *Page) waitFor(locator driver.Locator, state State, timeout time.Duration) (driver.Element, error) {
	var found driver.Element
	log := p.WithField(constants.FieldLocator, locator.String())
	err := wait.Poller{Timeout: timeout, Interval: defaults.PollInterval, FieldLogger: log}.Do(func() error {
		elements, err := p.Driver.Find(locator)
		if err != nil {
			return trace.Wrap(err)
		}
		if len(elements) == 0 {
			return wait.Continue("%v is not present", locator)
		}
		for _, el := range elements {
			ok, err := reached(el, state)
			if err != nil {
				continue
			}
			if ok {
				found = el
				return nil
			}
		}
		return wait.Continue("%v is not %v", locator, state)
	})
	if err != nil {
		return nil, trace.Wrap(&LocatorTimeoutError{
			Locator: locator,
			State:   state,
			Timeout: timeout,
			Cause:   err,
		})
	}
	return found, nil
}

func reached(el driver.Element, state State) (bool, error) {
	if state == Present {
		return true, nil
	}
	displayed, err := el.Displayed()
	if err != nil || !displayed {
		return false, err
	}
	if state == Visible {
		return true, nil
	}
	return el.Enabled()
}
