// file: logger/logger.go

package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the shared logger instance used across all layers of the application.
var Log *logrus.Logger

// Init configures the global logger. It must be called once at startup,
// before any other package logs anything.
func Init() {
	Log = logrus.New()

	Log.SetOutput(os.Stdout)
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	// Allow the log level to be overridden from the environment (e.g. LOG_LEVEL=debug).
	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)
}
