// Package log is the logging surface shared by the emulator core. Components
// take a Logger by injection so that hosts decide where diagnostics go.
package log

import (
	"io"
	stdlog "log"
	"os"
)

type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type logger struct {
	out   *stdlog.Logger
	debug bool
}

// New returns a Logger writing to w. Debug output is dropped unless debug is set.
func New(w io.Writer, debug bool) Logger {
	return &logger{out: stdlog.New(w, "", stdlog.LstdFlags), debug: debug}
}

// Default logs to stderr without debug output.
func Default() Logger {
	return New(os.Stderr, false)
}

func (l *logger) Infof(format string, args ...interface{}) {
	l.out.Printf("[INFO]\t"+format, args...)
}

func (l *logger) Errorf(format string, args ...interface{}) {
	l.out.Printf("[ERROR]\t"+format, args...)
}

func (l *logger) Debugf(format string, args ...interface{}) {
	if !l.debug {
		return
	}
	l.out.Printf("[DEBUG]\t"+format, args...)
}
