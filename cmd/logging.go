package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

var logLevels = map[string]logrus.Level{
	"debug":    logrus.DebugLevel,
	"info":     logrus.InfoLevel,
	"warning":  logrus.WarnLevel,
	"error":    logrus.ErrorLevel,
	"critical": logrus.FatalLevel,
}

func parseLogLevel(value string) (logrus.Level, error) {
	level, ok := logLevels[strings.ToLower(value)]
	if !ok {
		return logrus.InfoLevel, fmt.Errorf("%q is not a valid logging level. Possible values are debug, info, warning, error, and critical", value)
	}
	return level, nil
}

func newLogger(output io.Writer, level logrus.Level, structuredLogs bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(output)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{})
	if structuredLogs {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

// logCritical writes at fatal level without exiting, leaving the exit code to
// the caller.
func logCritical(logger *logrus.Logger, args ...any) {
	logger.Log(logrus.FatalLevel, args...)
}
