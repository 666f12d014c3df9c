// Package xlog configures the process logger: a per-run log file rotated
// daily with a bounded number of backups, mirrored to the console.
package xlog

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/gravitational/hrmtest/lib/constants"
	"github.com/gravitational/hrmtest/lib/defaults"
	"github.com/gravitational/hrmtest/lib/system"

	"github.com/gravitational/trace"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config describes the process logger
type Config struct {
	// Dir is the directory of the log file
	Dir string
	// Level is the logrus level name
	Level string
	// Console receives a copy of every entry unless nil
	Console io.Writer
	// Backups is the number of rotated files to keep
	Backups int
	// RotateSchedule is the cron schedule of file rotation
	RotateSchedule string
	// Now returns the current time, used to name the log file
	Now func() time.Time
}

// CheckAndSetDefaults validates the config and fills in defaults
func (r *Config) CheckAndSetDefaults() error {
	if r.Dir == "" {
		r.Dir = defaults.LogDir
	}
	if r.Level == "" {
		r.Level = defaults.LogLevel
	}
	if r.Backups <= 0 {
		r.Backups = defaults.LogBackups
	}
	if r.RotateSchedule == "" {
		r.RotateSchedule = defaults.LogRotateSchedule
	}
	if r.Now == nil {
		r.Now = time.Now
	}
	return nil
}

// Logger is the process logger
type Logger struct {
	*logrus.Logger
	// Path is the log file path
	Path string
	file *lumberjack.Logger
	cron *cron.Cron
}

// New creates the log directory and returns a logger writing to a new
// file named after the current time
func New(config Config) (*Logger, error) {
	if err := config.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}
	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		return nil, trace.BadParameter("invalid log level %q", config.Level)
	}
	if err := system.EnsureDir(config.Dir); err != nil {
		return nil, trace.Wrap(err)
	}

	path := filepath.Join(config.Dir, fmt.Sprintf("automation_%v.log", config.Now().Format("2006-01-02_15-04-05")))
	file := &lumberjack.Logger{
		Filename:   path,
		MaxBackups: config.Backups,
		LocalTime:  true,
	}

	log := logrus.New()
	log.Level = level
	log.Out = io.Discard
	log.Hooks.Add(newWriterHook(file, level, &LineFormatter{}))
	if config.Console != nil {
		log.Hooks.Add(newWriterHook(config.Console, level, &LineFormatter{OmitRoutine: true}))
	}

	scheduler := cron.New()
	_, err = scheduler.AddFunc(config.RotateSchedule, func() {
		if err := file.Rotate(); err != nil {
			log.WithError(err).Warn("Failed to rotate log file.")
		}
	})
	if err != nil {
		file.Close()
		return nil, trace.BadParameter("invalid rotation schedule %q: %v", config.RotateSchedule, err)
	}
	scheduler.Start()

	return &Logger{
		Logger: log,
		Path:   path,
		file:   file,
		cron:   scheduler,
	}, nil
}

// Component returns a logger tagged with the component name
func (l *Logger) Component(name string) logrus.FieldLogger {
	return l.WithField(constants.FieldLogger, name)
}

// Rotate starts a new log file, keeping the configured number of backups
func (l *Logger) Rotate() error {
	return trace.Wrap(l.file.Rotate())
}

// Close stops the rotation schedule and closes the log file
func (l *Logger) Close() error {
	ctx := l.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
	}
	return trace.Wrap(l.file.Close())
}

// Routine returns a logger tagged with the component and routine names
func Routine(log logrus.FieldLogger, component, routine string) logrus.FieldLogger {
	return log.WithFields(logrus.Fields{
		constants.FieldLogger:  component,
		constants.FieldRoutine: routine,
	})
}
