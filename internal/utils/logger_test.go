package utils

import (
	"testing"

	"github.com/sirupsen/logrus"

	"trackarr/internal/config"
)

func TestNewLoggerLevels(t *testing.T) {
	cases := []struct {
		configured string
		want       logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"nonsense", logrus.InfoLevel},
		{"", logrus.InfoLevel},
	}
	for _, tc := range cases {
		logger := NewLogger(&config.Config{LogLevel: tc.configured})
		if logger.GetLevel() != tc.want {
			t.Errorf("LogLevel %q: level = %v, want %v", tc.configured, logger.GetLevel(), tc.want)
		}
	}
}
