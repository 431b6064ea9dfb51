// Package hlog is windout's pluggable logging facade, carried over from
// wind's common/hlog unchanged in shape: a package-level default logger
// plus a prefixed system logger for library-internal diagnostics.
package hlog

import (
	"io"
	"log"
	"os"
)

var (
	logger FullLogger = &defaultLogger{
		std:   log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile|log.Lmicroseconds),
		depth: 4,
	}

	sysLogger FullLogger = &systemLogger{
		logger: &defaultLogger{
			std:   log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile|log.Lmicroseconds),
			depth: 4,
		},
		prefix: systemLogPrefix,
	}
)

// SetOutput sets the writer used by both the default and system loggers.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
	sysLogger.SetOutput(w)
}

// SetLevel sets the default logger's minimum level.
func SetLevel(lv Level) {
	logger.SetLevel(lv)
}

// DefaultLogger returns windout's default logger.
func DefaultLogger() FullLogger {
	return logger
}

// SystemLogger returns the logger used for library-internal diagnostics
// (pipeline init failures, watchdog warnings). Not intended for
// application-level logging.
func SystemLogger() FullLogger {
	return sysLogger
}

// SetSystemLogger overrides the system logger, e.g. to route it through an
// application's structured logging pipeline.
func SetSystemLogger(v FullLogger) {
	sysLogger = &systemLogger{logger: v, prefix: systemLogPrefix}
}

// SetLogger overrides both the default and system loggers.
func SetLogger(v FullLogger) {
	logger = v
	SetSystemLogger(v)
}
