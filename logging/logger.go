package logging

import (
	"io"

	"github.com/sirupsen/logrus"

	"opportunity-radar/config"
)

// Logger represents a logger instance
type Logger = *logrus.Logger

// Fields represents structured logging fields
type Fields = logrus.Fields

// NewLogger creates a JSON logger at the given level ("" reads LOG_LEVEL).
func NewLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level == "" {
		logger.SetLevel(config.GetLogLevel())
	} else {
		logger.SetLevel(config.ParseLogLevel(level))
	}
	return logger
}

// NewDiscard returns a logger that drops everything. Used by tests.
func NewDiscard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
