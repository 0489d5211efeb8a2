// Package config provides configuration management for the heat pump console.
// It supports environment variables, an optional YAML config file and defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/nexus-edge/hvac-console/internal/domain"
	"github.com/spf13/viper"
)

// Console front-ends.
const (
	ModeTUI  = "tui"
	ModeLine = "line"
)

// Config holds all configuration for the console.
type Config struct {
	// Transport holds the link parameters. Command-line flags select the
	// device and override the TCP port.
	Transport TransportConfig `mapstructure:"transport"`

	// Monitor configuration
	Monitor MonitorConfig `mapstructure:"monitor"`

	// Console front-end configuration
	Console ConsoleConfig `mapstructure:"console"`

	// Metrics endpoint configuration
	Metrics MetricsConfig `mapstructure:"metrics"`

	// Write journal configuration
	Journal JournalConfig `mapstructure:"journal"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// TransportConfig holds Modbus link configuration.
type TransportConfig struct {
	SlaveID  int           `mapstructure:"slave_id"`
	Timeout  time.Duration `mapstructure:"timeout"`
	TCPPort  int           `mapstructure:"tcp_port"`
	BaudRate int           `mapstructure:"baud_rate"`
	DataBits int           `mapstructure:"data_bits"`
	Parity   string        `mapstructure:"parity"`
	StopBits int           `mapstructure:"stop_bits"`
}

// MonitorConfig holds monitor configuration.
type MonitorConfig struct {
	Interval        time.Duration `mapstructure:"interval"`
	BreakerFailures uint32        `mapstructure:"breaker_failures"`
	BreakerTimeout  time.Duration `mapstructure:"breaker_timeout"`
}

// ConsoleConfig selects the console front-end.
type ConsoleConfig struct {
	Mode string `mapstructure:"mode"` // tui or line
}

// MetricsConfig holds the HTTP endpoint configuration.
type MetricsConfig struct {
	// ListenAddr is host:port of the /metrics and /health endpoint.
	// Empty disables the endpoint.
	ListenAddr string `mapstructure:"listen_addr"`
}

// JournalConfig holds write journal configuration.
type JournalConfig struct {
	// Path of the SQLite database. Empty disables the journal.
	Path      string `mapstructure:"path"`
	QueueSize int    `mapstructure:"queue_size"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // json or console
	Output     string `mapstructure:"output"` // stdout, stderr, or file path
	TimeFormat string `mapstructure:"time_format"`
}

// Load loads configuration from files and environment variables.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/hvac-console")

	return load(v)
}

// LoadFile loads configuration from an explicit file path.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file, defaults and env vars apply
	}

	v.SetEnvPrefix("HVAC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	// Transport
	v.SetDefault("transport.slave_id", domain.DefaultSlaveID)
	v.SetDefault("transport.timeout", domain.DefaultTimeout)
	v.SetDefault("transport.tcp_port", domain.DefaultTCPPort)
	v.SetDefault("transport.baud_rate", domain.DefaultBaudRate)
	v.SetDefault("transport.data_bits", domain.DefaultDataBits)
	v.SetDefault("transport.parity", domain.DefaultParity)
	v.SetDefault("transport.stop_bits", domain.DefaultStopBits)

	// Monitor
	v.SetDefault("monitor.interval", 100*time.Millisecond)
	v.SetDefault("monitor.breaker_failures", 5)
	v.SetDefault("monitor.breaker_timeout", 5*time.Second)

	v.SetDefault("console.mode", ModeTUI)
	v.SetDefault("metrics.listen_addr", "")
	v.SetDefault("journal.path", "")
	v.SetDefault("journal.queue_size", 256)

	// Logging goes to a file so the console screen stays clean.
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "hvac-console.log")
	v.SetDefault("logging.time_format", time.RFC3339)
}

func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("logging.format", "LOG_FORMAT")
	_ = v.BindEnv("logging.output", "LOG_OUTPUT")
	_ = v.BindEnv("metrics.listen_addr", "HVAC_METRICS_ADDR")
	_ = v.BindEnv("journal.path", "HVAC_JOURNAL")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	t := c.Transport
	if t.SlaveID < 1 || t.SlaveID > 247 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidSlaveID, t.SlaveID)
	}
	if t.Timeout <= 0 {
		return fmt.Errorf("%w: transport timeout must be positive", domain.ErrInvalidConfig)
	}
	if t.TCPPort <= 0 || t.TCPPort > 65535 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidPort, t.TCPPort)
	}
	if c.Monitor.Interval <= 0 {
		return fmt.Errorf("%w: monitor interval must be positive", domain.ErrInvalidConfig)
	}
	switch c.Console.Mode {
	case ModeTUI, ModeLine:
	default:
		return fmt.Errorf("%w: console mode %q", domain.ErrInvalidConfig, c.Console.Mode)
	}
	return nil
}
