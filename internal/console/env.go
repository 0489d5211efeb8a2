package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nexus-edge/hvac-console/internal/adapter/journal"
	"github.com/nexus-edge/hvac-console/internal/adapter/modbus"
	"github.com/nexus-edge/hvac-console/internal/catalog"
	"github.com/nexus-edge/hvac-console/internal/domain"
	"github.com/nexus-edge/hvac-console/internal/service"
	"github.com/nexus-edge/hvac-console/internal/store"
	"github.com/rs/zerolog"
)

// Transactor is the wire access the handlers need.
type Transactor interface {
	ReadInput(ctx context.Context, from, count uint16) error
	ReadHolding(ctx context.Context, from, count uint16) error
	WriteHolding(ctx context.Context, addr, value uint16) error
	WriteHoldingRange(ctx context.Context, addr uint16, values []uint16) error
}

// Journal receives every successful holding register write.
type Journal interface {
	Record(e journal.Entry)
	Recent(ctx context.Context, n int) ([]journal.Entry, error)
}

// Info describes the running console.
type Info struct {
	Device   domain.Device
	Endpoint string
	Version  string
}

// Env is everything a command handler may touch.
type Env struct {
	Store   *store.Store
	Modbus  Transactor
	Monitor *service.Monitor

	// Journal is nil when the write journal is disabled.
	Journal Journal

	Info Info

	// Ports lists the serial devices of the host.
	Ports func() ([]string, error)

	// Stats reports the transaction counters; nil hides them.
	Stats func() modbus.TransportStats

	Logger zerolog.Logger
	Out    io.Writer

	// Set by the registry around each dispatch.
	command string
	failed  bool
}

// Printf writes formatted text to the operator.
func (e *Env) Printf(format string, args ...any) {
	fmt.Fprintf(e.Out, format, args...)
}

// field prints one row of a settings table.
func (e *Env) field(label, format string, args ...any) {
	e.Printf("%-43s%s\n", label, fmt.Sprintf(format, args...))
}

// fail reports err as one diagnostic line.
func (e *Env) fail(err error) {
	e.failed = true
	e.Logger.Debug().Err(err).Str("command", e.command).Msg("Command failed")
	e.Printf("%s\n", Diagnostic(err))
}

// failf reports a handler-level problem.
func (e *Env) failf(format string, args ...any) {
	e.failed = true
	e.Printf(format+"\n", args...)
}

// Diagnostic renders err the way the operator sees it.
func Diagnostic(err error) string {
	var oor *OutOfRangeError
	switch {
	case errors.As(err, &oor):
		return oor.Error()
	case errors.Is(err, domain.ErrConnectionFailed):
		return "Connection failed: " + detail(err, domain.ErrConnectionFailed)
	case errors.Is(err, domain.ErrConnectionTimeout), errors.Is(err, domain.ErrCircuitBreakerOpen):
		return "Connection failed: " + err.Error()
	case errors.Is(err, domain.ErrReadFailed):
		return "Read failed: " + detail(err, domain.ErrReadFailed)
	case errors.Is(err, domain.ErrWriteFailed):
		return "Write failed: " + detail(err, domain.ErrWriteFailed)
	case errors.Is(err, domain.ErrSyntax):
		if d := detail(err, domain.ErrSyntax); d != err.Error() {
			return "Incorrect syntax: " + d
		}
		return "Incorrect syntax."
	default:
		return capitalize(err.Error())
	}
}

func detail(err, sentinel error) string {
	return strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (e *Env) read(ctx context.Context, bank domain.Bank, from, count uint16) bool {
	var err error
	if bank == domain.BankHolding {
		err = e.Modbus.ReadHolding(ctx, from, count)
	} else {
		err = e.Modbus.ReadInput(ctx, from, count)
	}
	if err != nil {
		e.fail(err)
		return false
	}
	return true
}

// refresh reads both banks in full.
func (e *Env) refresh(ctx context.Context) bool {
	return e.read(ctx, domain.BankHolding, 0, domain.HoldingCount) &&
		e.read(ctx, domain.BankInput, 0, domain.InputCount)
}

func (e *Env) holding(id uint16) uint16 {
	v, _ := e.Store.Get(domain.BankHolding, id)
	return v
}

func (e *Env) input(id uint16) uint16 {
	v, _ := e.Store.Get(domain.BankInput, id)
	return v
}

// holdingValue returns the physical value of a holding register.
func (e *Env) holdingValue(id uint16) float64 {
	d := catalog.Describe(domain.BankHolding, id)
	return catalog.Scaled(d.Value(e.holding(id)), d.Scale)
}

// inputValue returns the physical value of an input register.
func (e *Env) inputValue(id uint16) float64 {
	d := catalog.Describe(domain.BankInput, id)
	return catalog.Scaled(d.Value(e.input(id)), d.Scale)
}

// writeRegister range checks value against the catalog, writes it and
// journals the change. Nothing reaches the wire when the check fails.
func (e *Env) writeRegister(ctx context.Context, id uint16, value int32) bool {
	if !e.validate(id, value) {
		return false
	}

	raw := catalog.Encode(value)
	previous := e.holding(id)
	if err := e.Modbus.WriteHolding(ctx, id, raw); err != nil {
		e.fail(err)
		return false
	}
	e.record(id, previous, raw)
	return true
}

// writeBank pushes the whole holding bank with one ranged write.
func (e *Env) writeBank(ctx context.Context, values []uint16) bool {
	previous := e.Store.Snapshot(domain.BankHolding)
	if err := e.Modbus.WriteHoldingRange(ctx, 0, values); err != nil {
		e.fail(err)
		return false
	}
	for i, v := range values {
		if i < len(previous) && previous[i] != v {
			e.record(uint16(i), previous[i], v)
		}
	}
	return true
}

// writeRange validates every value before sending them in one FC16
// transaction starting at from. Nothing is written if any value is rejected.
func (e *Env) writeRange(ctx context.Context, from uint16, values []int32) bool {
	raw := make([]uint16, len(values))
	for i, v := range values {
		if !e.validate(from+uint16(i), v) {
			return false
		}
		raw[i] = catalog.Encode(v)
	}

	previous := make([]uint16, len(values))
	for i := range values {
		previous[i] = e.holding(from + uint16(i))
	}
	if err := e.Modbus.WriteHoldingRange(ctx, from, raw); err != nil {
		e.fail(err)
		return false
	}
	for i, v := range raw {
		e.record(from+uint16(i), previous[i], v)
	}
	return true
}

func (e *Env) validate(id uint16, value int32) bool {
	err := catalog.Validate(id, value)
	if err == nil {
		return true
	}
	if errors.Is(err, domain.ErrValueOutOfRange) {
		d := catalog.Describe(domain.BankHolding, id)
		lo, hi := allowed(d)
		e.failf("Value %s is out of range for %s, allowed %s..%s",
			formatRaw(d, value), d.Name, formatRaw(d, lo), formatRaw(d, hi))
		return false
	}
	e.fail(err)
	return false
}

func (e *Env) record(id, previous, value uint16) {
	if e.Journal == nil {
		return
	}
	e.Journal.Record(journal.Entry{
		Time:     time.Now(),
		Register: id,
		Name:     catalog.Describe(domain.BankHolding, id).Name,
		Previous: previous,
		Value:    value,
		Source:   e.command,
	})
}

func allowed(d catalog.Descriptor) (int32, int32) {
	if d.Bounds != nil {
		return d.Bounds.Min, d.Bounds.Max
	}
	if d.Signed {
		return -32768, 32767
	}
	return 0, 65535
}

// formatRaw renders a stored integer with the decimals of its scale.
func formatRaw(d catalog.Descriptor, v int32) string {
	if d.Scale >= 0 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(catalog.Scaled(v, d.Scale), 'f', -int(d.Scale), 64)
}
