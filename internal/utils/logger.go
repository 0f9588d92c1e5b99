package utils

import (
	"os"

	"github.com/sirupsen/logrus"

	"trackarr/internal/config"
)

// NewLogger builds the process-wide logger from configuration. An
// unrecognized level falls back to info with a warning rather than failing
// startup.
func NewLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
		logger.WithField("log_level", cfg.LogLevel).Warn("Unknown log level, using info")
	}
	logger.SetLevel(level)

	return logger
}
