// SPDX-License-Identifier: EPL-2.0

// Package logging hands out pion leveled loggers that share one
// process-wide level and writer.
package logging

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pion/logging"
)

var ErrUnknownLevel = errors.New("unknown log level")

var (
	mu            sync.Mutex
	loggerFactory = logging.NewDefaultLoggerFactory()
	loggers       = map[string]*logging.DefaultLeveledLogger{}
)

// NewLogger returns the logger for scope. Loggers are usually created at
// package init, so Configure updates every logger handed out so far.
// The PION_LOG_<LEVEL> environment variables still select per-scope levels.
func NewLogger(scope string) logging.LeveledLogger {
	mu.Lock()
	defer mu.Unlock()

	if l, ok := loggers[scope]; ok {
		return l
	}

	l := logging.NewDefaultLeveledLoggerForScope(scope, levelFor(scope), loggerFactory.Writer)
	loggers[scope] = l

	return l
}

func levelFor(scope string) logging.LogLevel {
	if level, ok := loggerFactory.ScopeLevels[strings.ToLower(scope)]; ok {
		return level
	}

	return loggerFactory.DefaultLogLevel
}

// Configure sets the default level and output writer. A nil writer keeps
// the current one.
func Configure(w io.Writer, level logging.LogLevel) {
	mu.Lock()
	defer mu.Unlock()

	loggerFactory.DefaultLogLevel = level
	if w != nil {
		loggerFactory.Writer = w
	}

	for scope, l := range loggers {
		l.SetLevel(levelFor(scope))
		if w != nil {
			l.WithOutput(w)
		}
	}
}

// ParseLevel maps a level name (error, warn, info, debug, trace, disable)
// to a pion log level.
func ParseLevel(name string) (logging.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "disable", "disabled", "off", "none":
		return logging.LogLevelDisabled, nil
	case "error":
		return logging.LogLevelError, nil
	case "warn", "warning":
		return logging.LogLevelWarn, nil
	case "info", "":
		return logging.LogLevelInfo, nil
	case "debug":
		return logging.LogLevelDebug, nil
	case "trace":
		return logging.LogLevelTrace, nil
	}

	return logging.LogLevelDisabled, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
}
