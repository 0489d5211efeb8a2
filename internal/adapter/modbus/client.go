// Package modbus provides the transactional Modbus access layer of the console.
// Every call opens a session, performs one function code and closes the
// session again; a single mutex keeps the wire to one transaction at a time.
package modbus

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nexus-edge/hvac-console/internal/domain"
	"github.com/nexus-edge/hvac-console/internal/metrics"
	"github.com/nexus-edge/hvac-console/internal/store"
	"github.com/rs/zerolog"
)

// Client is the transaction layer over one device.
type Client struct {
	dialer  Dialer
	store   *store.Store
	logger  zerolog.Logger
	metrics *metrics.Registry

	// mu is held around dial, operate and close.
	mu sync.Mutex

	stats     *ClientStats
	lastError atomic.Value // errorHolder
	lastOK    atomic.Int64 // unix nanoseconds
}

// ClientStats tracks transaction counters.
type ClientStats struct {
	ReadCount      atomic.Uint64
	WriteCount     atomic.Uint64
	ConnectErrors  atomic.Uint64
	IOErrors       atomic.Uint64
	TotalReadTime  atomic.Int64 // nanoseconds
	TotalWriteTime atomic.Int64 // nanoseconds
}

type errorHolder struct{ err error }

// NewClient creates the transaction layer. Successful reads and writes are
// mirrored into st.
func NewClient(dialer Dialer, st *store.Store, logger zerolog.Logger, m *metrics.Registry) *Client {
	return &Client{
		dialer:  dialer,
		store:   st,
		logger:  logger.With().Str("component", "modbus").Str("endpoint", dialer.Describe()).Logger(),
		metrics: m,
		stats:   &ClientStats{},
	}
}

// Endpoint describes the device the client talks to.
func (c *Client) Endpoint() string {
	return c.dialer.Describe()
}

// Stats returns the live counters.
func (c *Client) Stats() *ClientStats {
	return c.stats
}

// ReadInput reads count input registers starting at from into the store.
func (c *Client) ReadInput(ctx context.Context, from, count uint16) error {
	return c.read(ctx, domain.BankInput, from, count)
}

// ReadHolding reads count holding registers starting at from into the store.
func (c *Client) ReadHolding(ctx context.Context, from, count uint16) error {
	return c.read(ctx, domain.BankHolding, from, count)
}

// ReadAll refreshes both banks.
func (c *Client) ReadAll(ctx context.Context) error {
	if err := c.ReadHolding(ctx, 0, domain.HoldingCount); err != nil {
		return err
	}
	return c.ReadInput(ctx, 0, domain.InputCount)
}

// WriteHolding writes a single holding register with FC6.
func (c *Client) WriteHolding(ctx context.Context, addr, value uint16) error {
	if err := checkRange(domain.BankHolding, addr, 1); err != nil {
		return err
	}

	start := time.Now()
	err := c.transact(ctx, "write", func(s Session) error {
		if _, err := s.WriteSingleRegister(addr, value); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrWriteFailed, translate(err))
		}
		return c.store.Set(domain.BankHolding, addr, value)
	})
	c.stats.TotalWriteTime.Add(time.Since(start).Nanoseconds())
	c.metrics.RecordTransaction("write", err == nil, time.Since(start).Seconds(), 1)
	if err != nil {
		return err
	}

	c.stats.WriteCount.Add(1)
	return nil
}

// WriteHoldingRange writes consecutive holding registers with FC16.
func (c *Client) WriteHoldingRange(ctx context.Context, addr uint16, values []uint16) error {
	if len(values) == 0 {
		return nil
	}
	if len(values) > domain.HoldingCount {
		return fmt.Errorf("%w: %d registers", domain.ErrInvalidAddress, len(values))
	}
	if err := checkRange(domain.BankHolding, addr, uint16(len(values))); err != nil {
		return err
	}

	payload := make([]byte, len(values)*2)
	for i, v := range values {
		binary.BigEndian.PutUint16(payload[i*2:], v)
	}

	start := time.Now()
	err := c.transact(ctx, "write", func(s Session) error {
		if _, err := s.WriteMultipleRegisters(addr, uint16(len(values)), payload); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrWriteFailed, translate(err))
		}
		return c.store.Apply(domain.BankHolding, addr, values)
	})
	c.stats.TotalWriteTime.Add(time.Since(start).Nanoseconds())
	c.metrics.RecordTransaction("write", err == nil, time.Since(start).Seconds(), len(values))
	if err != nil {
		return err
	}

	c.stats.WriteCount.Add(1)
	return nil
}

func (c *Client) read(ctx context.Context, bank domain.Bank, from, count uint16) error {
	if count == 0 {
		return nil
	}
	if err := checkRange(bank, from, count); err != nil {
		return err
	}

	start := time.Now()
	err := c.transact(ctx, "read_"+bank.String(), func(s Session) error {
		var raw []byte
		var err error
		if bank == domain.BankHolding {
			raw, err = s.ReadHoldingRegisters(from, count)
		} else {
			raw, err = s.ReadInputRegisters(from, count)
		}
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrReadFailed, translate(err))
		}
		if len(raw) != int(count)*2 {
			return fmt.Errorf("%w: %w: expected %d bytes, got %d", domain.ErrReadFailed, domain.ErrInvalidDataLength, int(count)*2, len(raw))
		}
		return c.store.Apply(bank, from, decode(raw))
	})
	c.stats.TotalReadTime.Add(time.Since(start).Nanoseconds())
	c.metrics.RecordTransaction("read_"+bank.String(), err == nil, time.Since(start).Seconds(), int(count))
	if err != nil {
		return err
	}

	c.stats.ReadCount.Add(1)
	return nil
}

// transact runs op inside one connect, operate, close cycle. Store updates
// happen inside op so that concurrent callers see them in wire order.
func (c *Client) transact(ctx context.Context, operation string, op func(Session) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	dialStart := time.Now()
	sess, err := c.dialer.Dial(ctx)
	c.metrics.RecordConnection(err == nil, time.Since(dialStart).Seconds())
	if err != nil {
		c.stats.ConnectErrors.Add(1)
		c.recordOutcome(err)
		c.logger.Debug().Err(err).Str("operation", operation).Msg("Connection failed")
		return err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			c.logger.Warn().Err(cerr).Msg("Error closing Modbus session")
		}
	}()

	if err := op(sess); err != nil {
		c.stats.IOErrors.Add(1)
		c.recordOutcome(err)
		c.logger.Debug().Err(err).Str("operation", operation).Msg("Transaction failed")
		return err
	}

	c.recordOutcome(nil)
	return nil
}

func (c *Client) recordOutcome(err error) {
	c.lastError.Store(errorHolder{err: err})
	if err == nil {
		c.lastOK.Store(time.Now().UnixNano())
	}
}

func checkRange(bank domain.Bank, from, count uint16) error {
	if int(from)+int(count) > bank.Size() {
		return fmt.Errorf("%w: %s[%d..%d]", domain.ErrInvalidAddress, bank, from, int(from)+int(count)-1)
	}
	return nil
}

func decode(raw []byte) []uint16 {
	values := make([]uint16, len(raw)/2)
	for i := range values {
		values[i] = binary.BigEndian.Uint16(raw[i*2:])
	}
	return values
}

// translate maps Modbus exception responses to their sentinel; other errors
// pass through unchanged.
func translate(err error) error {
	if mapped, ok := domain.ExceptionFromError(err); ok {
		return fmt.Errorf("%w (%v)", mapped, err)
	}
	return err
}
