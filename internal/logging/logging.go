// Package logging builds the logrus logger shared by the launcher's
// services. Debug output is toggled at runtime so the settings dialog and the
// CLI flag take effect without rebuilding the logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// EnvDebug enables debug logging when set to a true-ish value
const EnvDebug = "LAUNCHER_DEBUG"

// New creates a text logger writing to out. Debug level is enabled when
// debug is true or LAUNCHER_DEBUG is set.
func New(out io.Writer, debug bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors:    true,
		FullTimestamp:    true,
		TimestampFormat:  "15:04:05.000",
		QuoteEmptyFields: true,
	})
	SetDebug(logger, debug || DebugFromEnv())
	return logger
}

// SetDebug switches logger between debug and info level
func SetDebug(logger *logrus.Logger, enabled bool) {
	if enabled {
		logger.SetLevel(logrus.DebugLevel)
		return
	}
	logger.SetLevel(logrus.InfoLevel)
}

// DebugFromEnv reports whether LAUNCHER_DEBUG asks for debug output
func DebugFromEnv() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvDebug))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// Discard returns a logger that drops everything, for tests and defaults
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
