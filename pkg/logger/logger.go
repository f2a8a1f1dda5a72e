package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is usable from package init; InitLogger re-reads the environment for
// callers that load configuration first.
var Log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()

	// Output to stdout instead of the default stderr
	l.Out = os.Stdout

	// Set JSON formatter for structured logging
	l.SetFormatter(&logrus.JSONFormatter{})

	l.SetLevel(logrus.InfoLevel)
	if os.Getenv("LOG_LEVEL") == "debug" {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

func InitLogger() {
	Log = newLogger()
}
