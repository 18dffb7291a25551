// Package logs configures the process-wide logrus logger and bridges gorm's
// SQL logger onto it.
package logs

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm/logger"
)

// Options selects the log level and output format.
type Options struct {
	Level  string
	Format string // text | json
	Output io.Writer
}

// Init configures the standard logrus logger. Unknown levels fall back to info.
func Init(opts Options) {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	logrus.SetOutput(out)

	switch strings.ToLower(opts.Format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		})
	}

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		logrus.Warnf("unknown log level %q; using info", opts.Level)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// GormLogger returns a gorm logger writing through logrus.
func GormLogger(level string, slowThreshold time.Duration) logger.Interface {
	return logger.New(logrus.StandardLogger(), logger.Config{
		SlowThreshold:             slowThreshold,
		LogLevel:                  gormLevel(level),
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func gormLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
