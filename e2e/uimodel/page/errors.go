package page

import (
	"errors"
	"fmt"
	"time"

	"github.com/gravitational/hrmtest/driver"

	"github.com/gravitational/trace"
)

// State is the element state a lookup waits for
type State string

const (
	// Present means the element exists in the document
	Present State = "present"
	// Visible means the element is present and rendered
	Visible State = "visible"
	// Clickable means the element is visible and enabled
	Clickable State = "clickable"
)

// LocatorTimeoutError is returned when an element never reached
// the requested state
type LocatorTimeoutError struct {
	Locator    driver.Locator
	State      State
	Timeout    time.Duration
	Screenshot string
	// Cause is the last condition observed while polling
	Cause error
}

func (r *LocatorTimeoutError) Error() string {
	msg := fmt.Sprintf("timed out after %v waiting for %v to be %v", r.Timeout, r.Locator, r.State)
	if r.Screenshot != "" {
		msg = fmt.Sprintf("%v. Screenshot: %v", msg, r.Screenshot)
	}
	return msg
}

// NavigationTimeoutError is returned when the page never stabilized after navigation
type NavigationTimeoutError struct {
	URL        string
	Locator    driver.Locator
	Timeout    time.Duration
	Screenshot string
}

func (r *NavigationTimeoutError) Error() string {
	return fmt.Sprintf("timed out after %v waiting for %v on %v. Screenshot: %v",
		r.Timeout, r.Locator, r.URL, r.Screenshot)
}

// AssertionError is an explicit expectation violated by the application
type AssertionError struct {
	Message    string
	Screenshot string
}

func (r *AssertionError) Error() string {
	if r.Screenshot == "" {
		return r.Message
	}
	return fmt.Sprintf("%v. Screenshot: %v", r.Message, r.Screenshot)
}

// IsLocatorTimeout returns true if err is a LocatorTimeoutError
func IsLocatorTimeout(err error) bool {
	var target *LocatorTimeoutError
	return errors.As(trace.Unwrap(err), &target)
}

// IsNavigationTimeout returns true if err is a NavigationTimeoutError
func IsNavigationTimeout(err error) bool {
	var target *NavigationTimeoutError
	return errors.As(trace.Unwrap(err), &target)
}

// IsAssertion returns true if err is an AssertionError
func IsAssertion(err error) bool {
	var target *AssertionError
	return errors.As(trace.Unwrap(err), &target)
}

// ScreenshotOf returns the screenshot attached to err, if any
func ScreenshotOf(err error) string {
	err = trace.Unwrap(err)
	var locator *LocatorTimeoutError
	if errors.As(err, &locator) {
		return locator.Screenshot
	}
	var navigation *NavigationTimeoutError
	if errors.As(err, &navigation) {
		return navigation.Screenshot
	}
	var assertion *AssertionError
	if errors.As(err, &assertion) {
		return assertion.Screenshot
	}
	return ""
}

// FallbackPolicy decides what happens when a fallback interaction fails too
type FallbackPolicy int

const (
	// Propagate returns the fallback's error to the caller
	Propagate FallbackPolicy = iota
	// BestEffort logs the fallback's error and carries on
	BestEffort
)

func (r FallbackPolicy) String() string {
	switch r {
	case Propagate:
		return "propagate"
	case BestEffort:
		return "best-effort"
	}
	return fmt.Sprintf("FallbackPolicy(%d)", int(r))
}

// Policies lists the failure handling of every fallback interaction
type Policies struct {
	// Click applies when the scripted click after a failed native click fails
	Click FallbackPolicy
	// Clear applies when the keyboard clear after a failed native clear fails
	Clear FallbackPolicy
	// Focus applies when the focusing click before typing fails
	Focus FallbackPolicy
}

// DefaultPolicies returns the default fallback handling
func DefaultPolicies() Policies {
	return Policies{
		Click: Propagate,
		Clear: BestEffort,
		Focus: BestEffort,
	}
}
