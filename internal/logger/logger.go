// Package logger configures the process-wide logrus logger.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger. Unknown levels fall back to
// info, unknown formats to text.
func Setup(level, format string) {
	SetupOutput(os.Stdout, level, format)
}

// SetupOutput is Setup with an explicit destination.
func SetupOutput(out io.Writer, level, format string) {
	logrus.SetOutput(out)
	logrus.SetLevel(parseLevel(level))

	switch format {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// WithComponent returns an entry tagged with the component name.
func WithComponent(component string) *logrus.Entry {
	return logrus.WithField("component", component)
}

func parseLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}
