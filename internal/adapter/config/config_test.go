package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nexus-edge/hvac-console/internal/adapter/config"
	"github.com/nexus-edge/hvac-console/internal/domain"
)

// =============================================================================
// Loading
// =============================================================================

func TestDefault(t *testing.T) {
	cfg := config.Default()

	if cfg.Transport.SlaveID != 53 {
		t.Errorf("expected slave id 53, got %d", cfg.Transport.SlaveID)
	}
	if cfg.Transport.Timeout != 2*time.Second {
		t.Errorf("expected timeout 2s, got %v", cfg.Transport.Timeout)
	}
	if cfg.Transport.TCPPort != 502 {
		t.Errorf("expected tcp port 502, got %d", cfg.Transport.TCPPort)
	}
	if cfg.Monitor.Interval != 100*time.Millisecond {
		t.Errorf("expected monitor interval 100ms, got %v", cfg.Monitor.Interval)
	}
	if cfg.Console.Mode != config.ModeTUI {
		t.Errorf("expected console mode tui, got %q", cfg.Console.Mode)
	}
	if cfg.Metrics.ListenAddr != "" {
		t.Errorf("expected metrics disabled, got %q", cfg.Metrics.ListenAddr)
	}
	if cfg.Logging.Output != "hvac-console.log" {
		t.Errorf("expected log file hvac-console.log, got %q", cfg.Logging.Output)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
transport:
  slave_id: 7
  tcp_port: 1502
monitor:
  interval: 250ms
console:
  mode: line
journal:
  path: /tmp/writes.db
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Transport.SlaveID != 7 {
		t.Errorf("expected slave id 7, got %d", cfg.Transport.SlaveID)
	}
	if cfg.Transport.TCPPort != 1502 {
		t.Errorf("expected tcp port 1502, got %d", cfg.Transport.TCPPort)
	}
	if cfg.Transport.BaudRate != 9600 {
		t.Errorf("expected default baud rate 9600, got %d", cfg.Transport.BaudRate)
	}
	if cfg.Monitor.Interval != 250*time.Millisecond {
		t.Errorf("expected interval 250ms, got %v", cfg.Monitor.Interval)
	}
	if cfg.Console.Mode != config.ModeLine {
		t.Errorf("expected line mode, got %q", cfg.Console.Mode)
	}
	if cfg.Journal.Path != "/tmp/writes.db" {
		t.Errorf("expected journal path, got %q", cfg.Journal.Path)
	}
}

func TestLoadFile_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("transport:\n  slave_id: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HVAC_TRANSPORT_SLAVE_ID", "9")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_OUTPUT", "stderr")

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Transport.SlaveID != 9 {
		t.Errorf("expected slave id 9 from env, got %d", cfg.Transport.SlaveID)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Output != "stderr" {
		t.Errorf("expected log output stderr, got %q", cfg.Logging.Output)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("console:\n  mode: gui\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := config.LoadFile(path)
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

// =============================================================================
// Validation
// =============================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr error
	}{
		{"slave id zero", func(c *config.Config) { c.Transport.SlaveID = 0 }, domain.ErrInvalidSlaveID},
		{"slave id too big", func(c *config.Config) { c.Transport.SlaveID = 248 }, domain.ErrInvalidSlaveID},
		{"zero timeout", func(c *config.Config) { c.Transport.Timeout = 0 }, domain.ErrInvalidConfig},
		{"bad port", func(c *config.Config) { c.Transport.TCPPort = 70000 }, domain.ErrInvalidPort},
		{"zero interval", func(c *config.Config) { c.Monitor.Interval = 0 }, domain.ErrInvalidConfig},
		{"unknown mode", func(c *config.Config) { c.Console.Mode = "web" }, domain.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// =============================================================================
// Device from flags
// =============================================================================

func TestDevice(t *testing.T) {
	cfg := config.Default()

	t.Run("tcp", func(t *testing.T) {
		dev, err := cfg.Device(config.Flags{IP: "192.168.1.20"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dev.Protocol != domain.ProtocolModbusTCP {
			t.Errorf("expected tcp, got %s", dev.Protocol)
		}
		if dev.Address() != "192.168.1.20:502" {
			t.Errorf("expected 192.168.1.20:502, got %s", dev.Address())
		}
		if dev.SlaveID != 53 {
			t.Errorf("expected slave id 53, got %d", dev.SlaveID)
		}
	})

	t.Run("tcp port flag", func(t *testing.T) {
		dev, err := cfg.Device(config.Flags{IP: "10.0.0.1", Port: 5020})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dev.Port != 5020 {
			t.Errorf("expected port 5020, got %d", dev.Port)
		}
	})

	t.Run("rtu", func(t *testing.T) {
		dev, err := cfg.Device(config.Flags{SerialDevice: "/dev/ttyUSB0"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dev.Protocol != domain.ProtocolModbusRTU {
			t.Errorf("expected rtu, got %s", dev.Protocol)
		}
		if dev.Framing() != "9600 8N1" {
			t.Errorf("expected 9600 8N1, got %s", dev.Framing())
		}
	})

	t.Run("both", func(t *testing.T) {
		_, err := cfg.Device(config.Flags{IP: "10.0.0.1", SerialDevice: "/dev/ttyUSB0"})
		if !errors.Is(err, config.ErrTransportChoice) {
			t.Errorf("expected ErrTransportChoice, got %v", err)
		}
	})

	t.Run("neither", func(t *testing.T) {
		_, err := cfg.Device(config.Flags{})
		if !errors.Is(err, config.ErrTransportChoice) {
			t.Errorf("expected ErrTransportChoice, got %v", err)
		}
	})
}
