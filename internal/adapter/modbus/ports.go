package modbus

import (
	"fmt"
	"sort"

	"go.bug.st/serial"
)

// ListSerialPorts returns the serial devices present on the host.
func ListSerialPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("enumerating serial ports: %w", err)
	}
	sort.Strings(ports)
	return ports, nil
}

// SerialPortPresent reports whether name is among the enumerated ports.
// When enumeration itself fails the port is assumed present and the error is
// returned for logging.
func SerialPortPresent(name string) (bool, error) {
	ports, err := ListSerialPorts()
	if err != nil {
		return true, err
	}
	for _, p := range ports {
		if p == name {
			return true, nil
		}
	}
	return false, nil
}
