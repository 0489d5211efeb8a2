package modbus

import (
	"context"
	"fmt"
	"io"

	"github.com/goburrow/modbus"
	"github.com/nexus-edge/hvac-console/internal/domain"
)

// Session is one open connection to the device. It is closed after every
// transaction.
type Session interface {
	ReadInputRegisters(address, quantity uint16) ([]byte, error)
	ReadHoldingRegisters(address, quantity uint16) ([]byte, error)
	WriteSingleRegister(address, value uint16) ([]byte, error)
	WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error)
	Close() error
}

// Dialer opens sessions to the device.
type Dialer interface {
	Dial(ctx context.Context) (Session, error)
	// Describe returns a short human readable form of the endpoint.
	Describe() string
}

type handler interface {
	modbus.ClientHandler
	Connect() error
	Close() error
}

type session struct {
	modbus.Client
	closer io.Closer
}

func (s *session) Close() error {
	return s.closer.Close()
}

// NewDialer returns a TCP or RTU dialer for the device.
func NewDialer(device domain.Device) (Dialer, error) {
	if err := device.Validate(); err != nil {
		return nil, err
	}
	switch device.Protocol {
	case domain.ProtocolModbusRTU:
		return &RTUDialer{device: device}, nil
	default:
		return &TCPDialer{device: device}, nil
	}
}

// TCPDialer opens Modbus TCP sessions.
type TCPDialer struct {
	device domain.Device
}

// Dial connects to the device over TCP.
func (d *TCPDialer) Dial(ctx context.Context) (Session, error) {
	h := modbus.NewTCPClientHandler(d.device.Address())
	h.Timeout = d.device.Timeout
	h.SlaveId = d.device.SlaveID
	// The session is closed explicitly after each transaction.
	h.IdleTimeout = 0
	return connect(ctx, h)
}

// Describe returns host:port.
func (d *TCPDialer) Describe() string {
	return "tcp://" + d.device.Address()
}

// RTUDialer opens Modbus RTU sessions over a serial device.
type RTUDialer struct {
	device domain.Device
}

// Dial opens the serial device.
func (d *RTUDialer) Dial(ctx context.Context) (Session, error) {
	h := modbus.NewRTUClientHandler(d.device.SerialPort)
	h.BaudRate = d.device.BaudRate
	h.DataBits = d.device.DataBits
	h.Parity = d.device.Parity
	h.StopBits = d.device.StopBits
	h.SlaveId = d.device.SlaveID
	h.Timeout = d.device.Timeout
	h.IdleTimeout = 0
	return connect(ctx, h)
}

// Describe returns the device path and framing.
func (d *RTUDialer) Describe() string {
	return fmt.Sprintf("rtu://%s (%s)", d.device.SerialPort, d.device.Framing())
}

func connect(ctx context.Context, h handler) (Session, error) {
	// Use context for connection timeout
	connectDone := make(chan error, 1)
	go func() {
		connectDone <- h.Connect()
	}()

	select {
	case err := <-connectDone:
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrConnectionFailed, err)
		}
	case <-ctx.Done():
		// A late successful connect must not leak the socket.
		go func() {
			if err := <-connectDone; err == nil {
				_ = h.Close()
			}
		}()
		return nil, fmt.Errorf("%w: %v", domain.ErrConnectionTimeout, ctx.Err())
	}

	return &session{Client: modbus.NewClient(h), closer: h}, nil
}
