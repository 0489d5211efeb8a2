// Package domain contains the core entities of the heat pump console.
package domain

import (
	"errors"

	"github.com/goburrow/modbus"
)

// Device configuration errors.
var (
	ErrProtocolRequired    = errors.New("protocol is required")
	ErrAddressRequired     = errors.New("device address is required")
	ErrSerialPortRequired  = errors.New("serial device is required")
	ErrInvalidSlaveID      = errors.New("invalid slave ID")
	ErrInvalidPort         = errors.New("invalid TCP port")
	ErrInvalidSerialConfig = errors.New("invalid serial line configuration")
)

// Connection errors.
var (
	ErrConnectionFailed   = errors.New("connection failed")
	ErrConnectionTimeout  = errors.New("connection timeout")
	ErrConnectionClosed   = errors.New("connection closed")
	ErrCircuitBreakerOpen = errors.New("circuit breaker is open")
)

// Read/Write errors.
var (
	ErrReadFailed          = errors.New("read failed")
	ErrWriteFailed         = errors.New("write failed")
	ErrInvalidAddress      = errors.New("register number is out of range")
	ErrInvalidDataLength   = errors.New("invalid data length")
	ErrInvalidRegisterBank = errors.New("invalid register bank")
)

// Operator input errors.
var (
	ErrSyntax          = errors.New("incorrect syntax")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrEntryNotFound   = errors.New("no such monitor entry")
	ErrDuplicateEntry  = errors.New("duplicate monitor entry")
)

// Settings file errors.
var (
	ErrFileIO        = errors.New("settings file i/o failed")
	ErrValueOverflow = errors.New("value does not fit in 16 bits")
)

// Modbus-specific errors.
var (
	ErrModbusIllegalFunction        = errors.New("modbus: illegal function")
	ErrModbusIllegalAddress         = errors.New("modbus: illegal data address")
	ErrModbusIllegalValue           = errors.New("modbus: illegal data value")
	ErrModbusDeviceFailure          = errors.New("modbus: slave device failure")
	ErrModbusAcknowledge            = errors.New("modbus: acknowledge - long operation in progress")
	ErrModbusBusy                   = errors.New("modbus: slave device busy")
	ErrModbusNegativeAck            = errors.New("modbus: negative acknowledge")
	ErrModbusMemoryParityError      = errors.New("modbus: memory parity error")
	ErrModbusGatewayPathUnavailable = errors.New("modbus: gateway path unavailable")
	ErrModbusGatewayTargetFailed    = errors.New("modbus: gateway target device failed to respond")
)

// Service errors.
var (
	ErrServiceNotStarted = errors.New("service not started")
	ErrServiceStopped    = errors.New("service has been stopped")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrJournalDisabled   = errors.New("write journal is disabled")
)

// ModbusExceptionToError converts a Modbus exception code to a domain error.
// Unknown codes map to ErrReadFailed.
func ModbusExceptionToError(code byte) error {
	switch code {
	case modbus.ExceptionCodeIllegalFunction:
		return ErrModbusIllegalFunction
	case modbus.ExceptionCodeIllegalDataAddress:
		return ErrModbusIllegalAddress
	case modbus.ExceptionCodeIllegalDataValue:
		return ErrModbusIllegalValue
	case modbus.ExceptionCodeServerDeviceFailure:
		return ErrModbusDeviceFailure
	case modbus.ExceptionCodeAcknowledge:
		return ErrModbusAcknowledge
	case modbus.ExceptionCodeServerDeviceBusy:
		return ErrModbusBusy
	case 0x07:
		return ErrModbusNegativeAck
	case modbus.ExceptionCodeMemoryParityError:
		return ErrModbusMemoryParityError
	case modbus.ExceptionCodeGatewayPathUnavailable:
		return ErrModbusGatewayPathUnavailable
	case modbus.ExceptionCodeGatewayTargetDeviceFailedToRespond:
		return ErrModbusGatewayTargetFailed
	default:
		return ErrReadFailed
	}
}

// ExceptionFromError extracts the device exception carried by a goburrow
// error, if any.
func ExceptionFromError(err error) (error, bool) {
	var mbErr *modbus.ModbusError
	if errors.As(err, &mbErr) {
		return ModbusExceptionToError(mbErr.ExceptionCode), true
	}
	return nil, false
}

// IsConnectFailure reports whether err is a transport connect failure.
func IsConnectFailure(err error) bool {
	return errors.Is(err, ErrConnectionFailed) ||
		errors.Is(err, ErrConnectionTimeout) ||
		errors.Is(err, ErrCircuitBreakerOpen)
}

// IsIOFailure reports whether err is a failure of an established transaction.
func IsIOFailure(err error) bool {
	return errors.Is(err, ErrReadFailed) || errors.Is(err, ErrWriteFailed)
}
