package xlog

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/gravitational/hrmtest/lib/constants"

	"github.com/sirupsen/logrus"
)

const (
	// TimestampFormat is the timestamp layout of log lines
	TimestampFormat = "2006-01-02 15:04:05,000"
	// DefaultName is the logger name used for entries without a logger field
	DefaultName = "hrmtest"
	// DefaultRoutine is the routine name used for entries without a routine field
	DefaultRoutine = "main"
)

// LineFormatter renders entries as
//
//	2006-01-02 15:04:05,000 INFO logger [routine] message key=value
type LineFormatter struct {
	// OmitRoutine drops the [routine] column
	OmitRoutine bool
}

// Format renders a single log line
func (f *LineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var buf bytes.Buffer
	name := DefaultName
	routine := DefaultRoutine
	var keys []string
	for k, v := range e.Data {
		switch k {
		case constants.FieldLogger:
			name = fmt.Sprint(v)
		case constants.FieldRoutine:
			routine = fmt.Sprint(v)
		default:
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	buf.WriteString(e.Time.Format(TimestampFormat))
	buf.WriteByte(' ')
	buf.WriteString(strings.ToUpper(e.Level.String()))
	buf.WriteByte(' ')
	buf.WriteString(name)
	if !f.OmitRoutine {
		fmt.Fprintf(&buf, " [%v]", routine)
	}
	buf.WriteByte(' ')
	buf.WriteString(e.Message)
	for _, k := range keys {
		fmt.Fprintf(&buf, " %v=%v", k, quote(e.Data[k]))
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func quote(v interface{}) string {
	var s string
	switch value := v.(type) {
	case error:
		s = value.Error()
	default:
		s = fmt.Sprint(value)
	}
	if strings.ContainsAny(s, " \t\n\"=") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
