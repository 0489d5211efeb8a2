// Package logging provides structured logging functionality.
//
// The console owns the terminal, so log records go to a file unless the
// configuration says otherwise.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/nexus-edge/hvac-console/internal/adapter/config"
	"github.com/nexus-edge/hvac-console/internal/domain"
	"github.com/rs/zerolog"
)

// DefaultOutput is the log file used before the configuration is loaded.
const DefaultOutput = "hvac-console.log"

// New creates the bootstrap logger from LOG_LEVEL, LOG_FORMAT and
// LOG_OUTPUT. The output defaults to DefaultOutput.
func New(serviceName, version string) (zerolog.Logger, io.Closer) {
	output := os.Getenv("LOG_OUTPUT")
	if output == "" {
		output = DefaultOutput
	}
	return NewWithConfig(serviceName, version, config.LoggingConfig{
		Level:      os.Getenv("LOG_LEVEL"),
		Format:     os.Getenv("LOG_FORMAT"),
		Output:     output,
		TimeFormat: time.RFC3339Nano,
	})
}

// NewWithConfig creates a logger with the given configuration. The returned
// closer releases the log file and is a no-op for stdout and stderr.
func NewWithConfig(serviceName, version string, cfg config.LoggingConfig) (zerolog.Logger, io.Closer) {
	if cfg.TimeFormat != "" {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	}
	zerolog.DurationFieldUnit = time.Millisecond

	output, closer := openOutput(cfg.Output)

	if cfg.Format == "console" || cfg.Format == "text" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		}
	}

	return zerolog.New(output).
		Level(parseLogLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", version).
		Logger(), closer
}

func openOutput(dest string) (io.Writer, io.Closer) {
	switch dest {
	case "stderr":
		return os.Stderr, nopCloser{}
	case "stdout":
		return os.Stdout, nopCloser{}
	case "":
		dest = DefaultOutput
	}

	file, err := os.OpenFile(dest, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		// Never fall back to stdout, it would garble the console.
		return io.Discard, nopCloser{}
	}
	return file, file
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// parseLogLevel converts a string log level to zerolog.Level.
func parseLogLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// WithDevice adds the controller's transport context to the logger.
func WithDevice(logger zerolog.Logger, dev domain.Device) zerolog.Logger {
	return logger.With().
		Str("protocol", string(dev.Protocol)).
		Str("address", dev.Address()).
		Uint8("slave_id", dev.SlaveID).
		Logger()
}
