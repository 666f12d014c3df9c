package xlog

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// ConsoleLogger returns logger which writes everything at or above level to out
func ConsoleLogger(out io.Writer, level logrus.Level) *logrus.Logger {
	log := logrus.New()
	log.Level = level
	log.Out = io.Discard
	log.Hooks.Add(newWriterHook(out, level, &LineFormatter{OmitRoutine: true}))
	return log
}

// writerHook formats entries at or above its level onto a writer.
// Loggers route both console and file output through hooks
// so each sink can carry its own format
type writerHook struct {
	mu        sync.Mutex
	out       io.Writer
	level     logrus.Level
	formatter logrus.Formatter
}

func newWriterHook(out io.Writer, level logrus.Level, formatter logrus.Formatter) *writerHook {
	return &writerHook{out: out, level: level, formatter: formatter}
}

// Fire writes the formatted entry
func (hook *writerHook) Fire(e *logrus.Entry) error {
	if e.Level > hook.level {
		return nil
	}
	line, err := hook.formatter.Format(e)
	if err != nil {
		return err
	}
	hook.mu.Lock()
	defer hook.mu.Unlock()
	_, err = hook.out.Write(line)
	return err
}

// Levels returns logging levels supported by logrus
func (hook *writerHook) Levels() []logrus.Level {
	return logrus.AllLevels
}
