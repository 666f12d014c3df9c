package xlog

import (
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

// TestingHook routes log entries into the test log
type TestingHook struct {
	t         testing.TB
	formatter LineFormatter
}

// Fire logs the formatted entry with t.Log
func (hook *TestingHook) Fire(e *logrus.Entry) error {
	line, err := hook.formatter.Format(e)
	if err != nil {
		return err
	}
	hook.t.Log(strings.TrimSuffix(string(line), "\n"))
	return nil
}

// Levels returns logging levels supported by logrus
func (hook *TestingHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// NewTestLogger returns a debug level logger that writes into the test log
func NewTestLogger(t testing.TB) logrus.FieldLogger {
	log := logrus.New()
	log.Level = logrus.DebugLevel
	log.Out = io.Discard
	log.Hooks.Add(&TestingHook{t: t})
	return log.WithField("test", t.Name())
}
