package xlog

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/gravitational/hrmtest/lib/constants"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestLineFormat(t *testing.T) {
	e := &logrus.Entry{
		Time:    time.Date(2024, 3, 1, 9, 30, 15, 250*int(time.Millisecond), time.UTC),
		Level:   logrus.InfoLevel,
		Message: "Clicking logout button",
		Data: logrus.Fields{
			constants.FieldLogger:  "dashboard",
			constants.FieldRoutine: "UserLogout",
			"locator":              "xpath=//a",
			logrus.ErrorKey:        errors.New("element not interactable"),
		},
	}
	line, err := (&LineFormatter{}).Format(e)
	require.NoError(t, err)
	require.Equal(t,
		"2024-03-01 09:30:15,250 INFO dashboard [UserLogout] Clicking logout button "+
			"error=\"element not interactable\" locator=\"xpath=//a\"\n",
		string(line))

	line, err = (&LineFormatter{OmitRoutine: true}).Format(&logrus.Entry{
		Time:    e.Time,
		Level:   logrus.WarnLevel,
		Message: "no toast",
		Data:    logrus.Fields{},
	})
	require.NoError(t, err)
	require.Equal(t, "2024-03-01 09:30:15,250 WARNING hrmtest no toast\n", string(line))
}

func TestFileLogger(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreAnyFunction("gopkg.in/natefinch/lumberjack%2ev2.(*Logger).millRun"))

	dir := filepath.Join(t.TempDir(), "Logs")
	var console bytes.Buffer
	now := time.Date(2024, 3, 1, 9, 30, 15, 0, time.Local)
	log, err := New(Config{
		Dir:     dir,
		Level:   "debug",
		Console: &console,
		Now:     func() time.Time { return now },
	})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "automation_2024-03-01_09-30-15.log"), log.Path)

	Routine(log, "pim", "AddEmployee").Debug("Typing first name.")
	log.Component("report").Info("Report written.")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(log.Path)
	require.NoError(t, err)
	pattern := regexp.MustCompile(`(?m)^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2},\d{3} DEBUG pim \[AddEmployee\] Typing first name\.$`)
	require.Regexp(t, pattern, string(data))
	require.Contains(t, string(data), "INFO report [main] Report written.")
	require.Contains(t, console.String(), "INFO report Report written.")
}

func TestFileLoggerLevel(t *testing.T) {
	log, err := New(Config{Dir: t.TempDir(), Level: "warning"})
	require.NoError(t, err)
	defer log.Close()

	log.Info("dropped")
	log.Warn("kept")
	data, err := os.ReadFile(log.Path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "dropped")
	require.Contains(t, string(data), "kept")
}

func TestRotate(t *testing.T) {
	dir := t.TempDir()
	log, err := New(Config{Dir: dir})
	require.NoError(t, err)
	defer log.Close()

	log.Info("before rotation")
	require.NoError(t, log.Rotate())
	log.Info("after rotation")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestInvalidConfig(t *testing.T) {
	_, err := New(Config{Dir: t.TempDir(), Level: "chatty"})
	require.Error(t, err)

	_, err = New(Config{Dir: t.TempDir(), RotateSchedule: "every other day"})
	require.Error(t, err)
}
