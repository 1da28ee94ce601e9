// Package util holds the logger, error types and string helpers shared by
// every netman package.
package util

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide logger. Packages log through the helpers below
// and only the CLI reconfigures it.
var Logger = logrus.New()

// Structured field names carried by log entries.
const (
	FieldRunner    = "runner"
	FieldDevice    = "device"
	FieldOperation = "operation"
	FieldSource    = "source"
)

func init() {
	Logger.SetOutput(os.Stderr)
	Logger.SetLevel(logrus.InfoLevel)
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
}

// LogOptions reconfigures Logger. Zero values keep the current setting.
type LogOptions struct {
	Level  string // debug, info, warn or error
	JSON   bool
	Output io.Writer
}

// ConfigureLogging applies opts. An unknown level is reported before anything
// changes.
func ConfigureLogging(opts LogOptions) error {
	level := Logger.GetLevel()
	if opts.Level != "" {
		lvl, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return fmt.Errorf("log level %q: %w", opts.Level, err)
		}
		level = lvl
	}

	Logger.SetLevel(level)
	if opts.Output != nil {
		Logger.SetOutput(opts.Output)
	}
	if opts.JSON {
		Logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	}
	return nil
}

// WithDevice returns an entry for one device.
func WithDevice(device string) *logrus.Entry {
	return Logger.WithField(FieldDevice, device)
}

// WithSource returns an entry for one catalog or inventory source.
func WithSource(source string) *logrus.Entry {
	return Logger.WithField(FieldSource, source)
}

// WithInvocation returns an entry carrying the runner, target host and
// operation of a single broker call.
func WithInvocation(runner, host, operation string) *logrus.Entry {
	return Logger.WithFields(logrus.Fields{
		FieldRunner:    runner,
		FieldDevice:    host,
		FieldOperation: operation,
	})
}

func Debugf(format string, args ...any) { Logger.Debugf(format, args...) }
func Infof(format string, args ...any)  { Logger.Infof(format, args...) }
func Warnf(format string, args ...any)  { Logger.Warnf(format, args...) }
func Errorf(format string, args ...any) { Logger.Errorf(format, args...) }
