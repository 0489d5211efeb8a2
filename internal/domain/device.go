package domain

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Protocol represents the Modbus transport variant.
type Protocol string

const (
	ProtocolModbusTCP Protocol = "modbus-tcp"
	ProtocolModbusRTU Protocol = "modbus-rtu"
)

// Default link parameters of the heat pump controller.
const (
	DefaultTCPPort  = 502
	DefaultSlaveID  = 53
	DefaultTimeout  = 2 * time.Second
	DefaultBaudRate = 9600
	DefaultDataBits = 8
	DefaultParity   = "N"
	DefaultStopBits = 1
)

// Device describes how to reach the controller.
type Device struct {
	// Protocol selects TCP or RTU framing.
	Protocol Protocol `yaml:"protocol"`

	// Host is the IP address or hostname (TCP only).
	Host string `yaml:"host,omitempty"`

	// Port is the TCP port (TCP only).
	Port int `yaml:"port,omitempty"`

	// SerialPort is the character device, e.g. /dev/ttyUSB0 (RTU only).
	SerialPort string `yaml:"serial_port,omitempty"`

	BaudRate int    `yaml:"baud_rate,omitempty"`
	DataBits int    `yaml:"data_bits,omitempty"`
	Parity   string `yaml:"parity,omitempty"`
	StopBits int    `yaml:"stop_bits,omitempty"`

	// SlaveID is the Modbus unit identifier (1-247).
	SlaveID byte `yaml:"slave_id"`

	// Timeout bounds connect and every response.
	Timeout time.Duration `yaml:"timeout"`
}

// Address returns host:port for TCP devices and the serial device for RTU.
func (d *Device) Address() string {
	if d.Protocol == ProtocolModbusRTU {
		return d.SerialPort
	}
	return net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
}

// Validate checks the device description.
func (d *Device) Validate() error {
	if d.SlaveID == 0 || d.SlaveID > 247 {
		return fmt.Errorf("%w: %d", ErrInvalidSlaveID, d.SlaveID)
	}

	switch d.Protocol {
	case ProtocolModbusTCP:
		if d.Host == "" {
			return ErrAddressRequired
		}
		if d.Port <= 0 || d.Port > 65535 {
			return fmt.Errorf("%w: %d", ErrInvalidPort, d.Port)
		}
	case ProtocolModbusRTU:
		if d.SerialPort == "" {
			return ErrSerialPortRequired
		}
		if d.BaudRate <= 0 {
			return fmt.Errorf("%w: baud rate %d", ErrInvalidSerialConfig, d.BaudRate)
		}
		if d.DataBits < 5 || d.DataBits > 8 {
			return fmt.Errorf("%w: data bits %d", ErrInvalidSerialConfig, d.DataBits)
		}
		switch d.Parity {
		case "N", "E", "O":
		default:
			return fmt.Errorf("%w: parity %q", ErrInvalidSerialConfig, d.Parity)
		}
		if d.StopBits != 1 && d.StopBits != 2 {
			return fmt.Errorf("%w: stop bits %d", ErrInvalidSerialConfig, d.StopBits)
		}
	case "":
		return ErrProtocolRequired
	default:
		return fmt.Errorf("%w: unsupported protocol %q", ErrInvalidConfig, d.Protocol)
	}

	return nil
}

// Framing returns the serial framing in the usual 9600 8N1 notation.
func (d *Device) Framing() string {
	return fmt.Sprintf("%d %d%s%d", d.BaudRate, d.DataBits, d.Parity, d.StopBits)
}
