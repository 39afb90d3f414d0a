package kitelog

import (
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
)

var flags = log.LstdFlags | log.Lshortfile | log.Lmicroseconds

// Basic logs diagnostics to stderr with timestamps and call sites
var Basic = New(os.Stderr, "", flags)

// Discard drops every line; handy in tests.
var Discard = New(ioutil.Discard, "", 0)

// NewStdout returns a logger for user-facing progress lines: stdout, no prefix, no flags.
func NewStdout() *Logger {
	return New(os.Stdout, "", 0)
}

// New creates a Logger writing to w.
func New(w io.Writer, prefix string, flag int) *Logger {
	return &Logger{
		Default: log.New(w, prefix, flag),
	}
}

// Logger encapsulates multiple logging handlers
type Logger struct {
	Default   *log.Logger
	Durations Durations
}

// Interface encapsulates the relevant methods of log.Logger
type Interface interface {
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}

// Printf implements Interface
func (l *Logger) Printf(format string, v ...interface{}) {
	l.Default.Output(2, fmt.Sprintf(format, v...))
}

// Println implements Interface
func (l *Logger) Println(v ...interface{}) {
	l.Default.Output(2, fmt.Sprintln(v...))
}
