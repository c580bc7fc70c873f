// Package log provides named, leveled module loggers that share a single
// colored output sink.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/op/go-logging"
)

type Level int

// Verbosity levels, from the most to the least verbose.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var (
	backendLevels = [...]logging.Level{
		Debug:   logging.DEBUG,
		Info:    logging.INFO,
		Notice:  logging.NOTICE,
		Warning: logging.WARNING,
		Error:   logging.ERROR,
	}

	levelNames = map[string]Level{
		"debug":   Debug,
		"info":    Info,
		"notice":  Notice,
		"warning": Warning,
		"error":   Error,
	}

	format = logging.MustStringFormatter(
		`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
	)

	// Shared by all module loggers; replaced by SetSink.
	backend logging.LeveledBackend
)

// The subset of go-logging methods used by the module loggers.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New returns the logger for a module; the name shows up in every line.
func New(module string) Logger {
	return logging.MustGetLogger(module)
}

// SetSink redirects all loggers to sink, keeping the current level.
func SetSink(sink io.Writer) {
	level := logging.NOTICE
	if backend != nil {
		level = backend.GetLevel("")
	}

	backend = logging.AddModuleLevel(
		logging.NewBackendFormatter(logging.NewLogBackend(sink, "", 0), format),
	)
	backend.SetLevel(level, "")
	logging.SetBackend(backend)
}

// SetLevel changes the verbosity of all loggers. Unknown levels are ignored.
func SetLevel(level Level) {
	if level < Debug || level > Error {
		return
	}
	backend.SetLevel(backendLevels[level], "")
}

// ParseLevel maps a case-insensitive level name (debug, info, notice,
// warning, error) to a Level.
func ParseLevel(name string) (Level, error) {
	level, exists := levelNames[strings.ToLower(name)]
	if !exists {
		return Notice, fmt.Errorf("log: unknown level %q", name)
	}
	return level, nil
}

func init() {
	SetSink(os.Stdout)
}
