package config

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger from the log settings.
func (c Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	if strings.EqualFold(c.Log.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		logger.Warnf("unknown log level %q, using info", c.Log.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
