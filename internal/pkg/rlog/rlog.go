// Package rlog is the runner's leveled logging facade. It mirrors the
// teacher's sylog call surface (Debugf/Verbosef/Infof/Warningf/Errorf/
// Fatalf) over a single package-level logrus logger, since this repo has
// exactly one process and no per-component logger configuration to speak
// of.
package rlog

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	return l
}

// SetDebug raises the log level to show Debugf/Verbosef output.
func SetDebug(enabled bool) {
	if enabled {
		logger.SetLevel(logrus.DebugLevel)
	}
}

// SetQuiet suppresses everything but Warningf/Errorf/Fatalf.
func SetQuiet(enabled bool) {
	if enabled {
		logger.SetLevel(logrus.WarnLevel)
	}
}

func Debugf(format string, args ...interface{})   { logger.Debugf(format, args...) }
func Verbosef(format string, args ...interface{}) { logger.Debugf(format, args...) }
func Infof(format string, args ...interface{})    { logger.Infof(format, args...) }
func Warningf(format string, args ...interface{}) { logger.Warnf(format, args...) }
func Errorf(format string, args ...interface{})   { logger.Errorf(format, args...) }

// Fatalf logs at fatal level and terminates the process with exit code 1.
// It is reserved for conditions that make it impossible to produce any
// RunResults at all (spec.md §6's "non-zero only if it cannot read input
// or produce output"); everything else must be reported structurally as
// RUN_FAIL instead of calling this.
func Fatalf(format string, args ...interface{}) {
	logger.Fatalf(format, args...)
}
