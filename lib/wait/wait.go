// Package wait implements polling and retry loops on top of exponential backoff.
package wait

import (
	"context"
	"fmt"
	"time"

	"github.com/gravitational/hrmtest/lib/defaults"

	"github.com/cenkalti/backoff"
	"github.com/gravitational/trace"
	log "github.com/sirupsen/logrus"
)

// Abort causes the loop to stop with err
func Abort(err error) AbortRetry {
	return AbortRetry{Err: err}
}

// Continue causes the loop to continue trying and logging message
func Continue(format string, args ...interface{}) ContinueRetry {
	message := fmt.Sprintf(format, args...)
	return ContinueRetry{Message: message}
}

// AbortRetry if returned from fn, will lead to retries to be stopped,
// but the loop will return the internal Error
type AbortRetry struct {
	Err error
}

func (r AbortRetry) Error() string {
	return fmt.Sprintf("Abort(%v)", r.Err)
}

// ContinueRetry if returned from fn, will lead to retry next time
type ContinueRetry struct {
	Message string
}

func (r ContinueRetry) Error() string {
	return fmt.Sprintf("ContinueRetry(%v)", r.Message)
}

// Poller checks a condition at a fixed interval until it holds
// or the timeout elapses
type Poller struct {
	// Timeout bounds the total polling time.
	// A non-positive timeout checks the condition exactly once
	Timeout time.Duration
	// Interval specifies the pause between checks
	Interval time.Duration
	// FieldLogger specifies the log sink
	log.FieldLogger
}

// Poll checks fn every interval until it returns nil or timeout elapses
func Poll(timeout, interval time.Duration, fn func() error) error {
	return Poller{Timeout: timeout, Interval: interval}.Do(fn)
}

// Do runs fn until it succeeds, aborts or the timeout elapses.
// Exhausting the timeout results in a trace.LimitExceeded error
func (r Poller) Do(fn func() error) error {
	if r.FieldLogger == nil {
		r.FieldLogger = log.NewEntry(log.StandardLogger())
	}
	if r.Timeout <= 0 {
		err := fn()
		switch origErr := err.(type) {
		case nil:
			return nil
		case AbortRetry:
			return origErr.Err
		}
		return trace.LimitExceeded("condition not met: %v", trace.UserMessage(err))
	}

	b := &backoff.ExponentialBackOff{
		InitialInterval:     r.Interval,
		RandomizationFactor: 0,
		Multiplier:          1,
		MaxInterval:         r.Interval,
		MaxElapsedTime:      r.Timeout,
		Clock:               backoff.SystemClock,
	}
	b.Reset()

	var aborted bool
	err := backoff.RetryNotify(func() error {
		err := unwrapAbort(fn())
		if _, ok := err.(*backoff.PermanentError); ok {
			aborted = true
		}
		return err
	}, b, notify(r.FieldLogger))
	if err == nil || aborted {
		return err
	}
	return trace.LimitExceeded("timed out after %v: %v", r.Timeout, trace.UserMessage(err))
}

// Retryer is a process that can retry a function
type Retryer struct {
	// Delay specifies the initial interval between retry attempts.
	// The interval doubles after each attempt
	Delay time.Duration
	// Attempts specifies the number of attempts to execute before failing.
	// Should be >= 1, zero value is not useful
	Attempts int
	// FieldLogger specifies the log sink
	log.FieldLogger
}

// Do retries the given function fn for the configured number of attempts until it succeeds
// or all attempts have been exhausted
func (r Retryer) Do(ctx context.Context, fn func() error) error {
	if r.FieldLogger == nil {
		r.FieldLogger = log.NewEntry(log.StandardLogger())
	}
	if ctx.Err() != nil {
		return trace.Wrap(ctx.Err())
	}
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.Delay
	b.RandomizationFactor = 0
	b.Multiplier = 2
	b.MaxInterval = defaults.RetryMaxDelay
	b.MaxElapsedTime = 0

	err := backoff.RetryNotify(func() error {
		return unwrapAbort(fn())
	}, backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx), notify(r.FieldLogger))
	if err != nil {
		r.Errorf("all attempts failed:\n%v", trace.DebugReport(err))
		return err
	}
	r.Debug("succeeded")
	return nil
}

func unwrapAbort(err error) error {
	if abort, ok := err.(AbortRetry); ok {
		return backoff.Permanent(abort.Err)
	}
	return err
}

func notify(logger log.FieldLogger) backoff.Notify {
	return func(err error, next time.Duration) {
		switch origErr := err.(type) {
		case ContinueRetry:
			logger.Debugf("%v, retry in %v", origErr.Message, next)
		default:
			logger.Debugf("unsuccessful attempt: %v, retry in %v", trace.UserMessage(err), next)
		}
	}
}
