package config

import (
	"errors"
	"fmt"

	"github.com/nexus-edge/hvac-console/internal/domain"
)

// ErrTransportChoice is returned when the flags name both or neither of the
// TCP address and the serial device.
var ErrTransportChoice = errors.New("pick only one of variants, RTU (-d), or TCP (-i)")

// Flags are the transport selections taken from the command line.
type Flags struct {
	// IP is the -i address.
	IP string

	// SerialDevice is the -d character device.
	SerialDevice string

	// Port is the -p TCP port; zero keeps the configured port.
	Port int
}

// Device builds the device description from the transport section with the
// flags applied on top.
func (c *Config) Device(f Flags) (domain.Device, error) {
	if (f.IP == "") == (f.SerialDevice == "") {
		return domain.Device{}, ErrTransportChoice
	}

	t := c.Transport
	dev := domain.Device{
		SlaveID: byte(t.SlaveID),
		Timeout: t.Timeout,
	}

	if f.IP != "" {
		dev.Protocol = domain.ProtocolModbusTCP
		dev.Host = f.IP
		dev.Port = t.TCPPort
		if f.Port != 0 {
			dev.Port = f.Port
		}
	} else {
		dev.Protocol = domain.ProtocolModbusRTU
		dev.SerialPort = f.SerialDevice
		dev.BaudRate = t.BaudRate
		dev.DataBits = t.DataBits
		dev.Parity = t.Parity
		dev.StopBits = t.StopBits
	}

	if err := dev.Validate(); err != nil {
		return domain.Device{}, fmt.Errorf("invalid device: %w", err)
	}
	return dev, nil
}
