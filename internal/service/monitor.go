// Package service provides the background monitor that polls a configurable
// set of input registers and renders them as one continuously refreshed line.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nexus-edge/hvac-console/internal/catalog"
	"github.com/nexus-edge/hvac-console/internal/domain"
	"github.com/nexus-edge/hvac-console/internal/metrics"
	"github.com/nexus-edge/hvac-console/internal/store"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// InputReader refreshes a span of input registers into the store.
type InputReader interface {
	ReadInput(ctx context.Context, from, count uint16) error
}

// Display receives one monitor line per successful poll. Each line replaces
// the previous one.
type Display interface {
	Show(line string)
}

// DisplayFunc adapts a function to Display.
type DisplayFunc func(line string)

// Show calls f(line).
func (f DisplayFunc) Show(line string) { f(line) }

// WriterDisplay overwrites the current terminal line of w.
type WriterDisplay struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterDisplay creates a display writing to w.
func NewWriterDisplay(w io.Writer) *WriterDisplay {
	return &WriterDisplay{w: w}
}

// Show writes "\r" followed by the line.
func (d *WriterDisplay) Show(line string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.w, "\r%s\n", line)
}

// Entry is one monitored register.
type Entry struct {
	Name string
	ID   uint16
}

// DefaultEntries is the monitored set on startup and after restore_default.
func DefaultEntries() []Entry {
	return []Entry{
		{Name: "COMP", ID: domain.InputCompressor},
		{Name: "FAN", ID: domain.InputFan},
		{Name: "LEVEL", ID: domain.InputPowerLevel},
		{Name: "T3", ID: domain.InputCondenserTemp},
		{Name: "T4", ID: domain.InputAmbientTemp},
		{Name: "T5", ID: domain.InputDischargeTemp},
		{Name: "EXV", ID: domain.InputEEV},
		{Name: "EXV_A", ID: domain.InputEEV},
		{Name: "EXV_B", ID: domain.InputEEV1},
	}
}

// ParseEntry parses NAME=reg where reg is an input register number or name.
func ParseEntry(token string) (Entry, error) {
	eq := strings.IndexByte(token, '=')
	if eq <= 0 || eq == len(token)-1 {
		return Entry{}, fmt.Errorf("%w: %q", domain.ErrSyntax, token)
	}
	name, ref := token[:eq], token[eq+1:]

	if id, err := strconv.ParseUint(ref, 10, 16); err == nil {
		if id >= domain.InputCount {
			return Entry{}, fmt.Errorf("%w: %d is too big (max = %d)", domain.ErrInvalidAddress, id, domain.InputCount)
		}
		return Entry{Name: name, ID: uint16(id)}, nil
	}
	if d, ok := catalog.Lookup(domain.BankInput, ref); ok {
		return Entry{Name: name, ID: d.ID}, nil
	}
	return Entry{}, fmt.Errorf("%w: unknown input register %q", domain.ErrSyntax, ref)
}

// MonitorConfig holds configuration for the monitor.
type MonitorConfig struct {
	Interval        time.Duration
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// MonitorStats tracks monitor statistics.
type MonitorStats struct {
	TotalPolls   atomic.Uint64
	SuccessPolls atomic.Uint64
	FailedPolls  atomic.Uint64
	SkippedPolls atomic.Uint64
}

type displayHolder struct{ d Display }

// Monitor polls the monitored set on a ticker while enabled.
type Monitor struct {
	config  MonitorConfig
	reader  InputReader
	store   *store.Store
	logger  zerolog.Logger
	metrics *metrics.Registry
	breaker *gobreaker.CircuitBreaker
	display atomic.Value // displayHolder

	enabled atomic.Bool

	// mu guards entries only; it is never held across a transaction.
	mu      sync.Mutex
	entries []Entry

	started atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	stats   *MonitorStats
}

// NewMonitor creates a disabled monitor with the default set.
func NewMonitor(
	config MonitorConfig,
	reader InputReader,
	st *store.Store,
	display Display,
	logger zerolog.Logger,
	metricsReg *metrics.Registry,
) *Monitor {
	if config.Interval <= 0 {
		config.Interval = 100 * time.Millisecond
	}
	if config.BreakerFailures == 0 {
		config.BreakerFailures = 5
	}
	if config.BreakerTimeout <= 0 {
		config.BreakerTimeout = 5 * time.Second
	}

	m := &Monitor{
		config:  config,
		reader:  reader,
		store:   st,
		logger:  logger.With().Str("component", "monitor").Logger(),
		metrics: metricsReg,
		entries: DefaultEntries(),
		stats:   &MonitorStats{},
	}
	m.SetDisplay(display)
	m.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "monitor",
		MaxRequests: 1,
		Timeout:     config.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.BreakerFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			m.logger.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Monitor circuit breaker state changed")
			m.metrics.UpdateBreakerState(int(to))
		},
	})
	m.metrics.UpdateMonitor(false, len(m.entries))
	return m
}

// SetDisplay replaces the output of the monitor. A nil display discards lines.
func (m *Monitor) SetDisplay(d Display) {
	if d == nil {
		d = DisplayFunc(func(string) {})
	}
	m.display.Store(displayHolder{d: d})
}

// Start begins the polling loop.
func (m *Monitor) Start(ctx context.Context) error {
	if m.started.Swap(true) {
		return nil
	}

	ctx, m.cancel = context.WithCancel(ctx)
	m.logger.Info().Dur("interval", m.config.Interval).Msg("Starting monitor")

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ticker := time.NewTicker(m.config.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !m.enabled.Load() {
					continue
				}
				pollCtx, cancel := context.WithTimeout(ctx, m.config.Interval*20)
				_ = m.Poll(pollCtx)
				cancel()
			}
		}
	}()
	return nil
}

// Stop ends the polling loop and waits for it.
func (m *Monitor) Stop(ctx context.Context) error {
	if !m.started.Load() {
		return nil
	}

	m.logger.Info().Msg("Stopping monitor")
	m.cancel()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		m.logger.Warn().Msg("Timeout waiting for monitor to stop")
	}

	m.started.Store(false)
	return nil
}

// Poll performs one monitor cycle. It is a no-op while disabled or when the
// set is empty.
func (m *Monitor) Poll(ctx context.Context) error {
	if !m.enabled.Load() {
		return nil
	}
	entries := m.Entries()
	if len(entries) == 0 {
		return nil
	}

	m.stats.TotalPolls.Add(1)
	lo, hi := span(entries)
	count := hi - lo + 1

	_, err := m.breaker.Execute(func() (interface{}, error) {
		return nil, m.reader.ReadInput(ctx, lo, count)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			m.stats.SkippedPolls.Add(1)
			m.metrics.RecordPollSkipped()
			return fmt.Errorf("%w: %v", domain.ErrCircuitBreakerOpen, err)
		}
		m.stats.FailedPolls.Add(1)
		m.metrics.RecordPoll(false)
		m.logger.Warn().Err(err).Msg("Monitor read failed")
		if m.enabled.Load() {
			m.show(fmt.Sprintf("Read failed: %v", err))
		}
		return err
	}

	// Disable may have happened while the read was in flight.
	if !m.enabled.Load() {
		m.stats.SkippedPolls.Add(1)
		m.metrics.RecordPollSkipped()
		return nil
	}

	values, err := m.store.Slice(domain.BankInput, lo, count)
	if err != nil {
		return err
	}

	m.stats.SuccessPolls.Add(1)
	m.metrics.RecordPoll(true)
	m.show(FormatLine(entries, lo, values))
	return nil
}

func (m *Monitor) show(line string) {
	if h, ok := m.display.Load().(displayHolder); ok {
		h.d.Show(line)
	}
}

// FormatLine renders name=value pairs. values holds the input registers
// starting at id base. Values are shown as the device encodes them: signed,
// with the decimals of the catalog scale.
func FormatLine(entries []Entry, base uint16, values []uint16) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte(' ')
		}
		idx := int(e.ID) - int(base)
		var raw uint16
		if idx >= 0 && idx < len(values) {
			raw = values[idx]
		}
		d := catalog.Describe(domain.BankInput, e.ID)
		d.Signed = true
		b.WriteString(e.Name)
		b.WriteByte('=')
		b.WriteString(catalog.FormatValue(d, raw))
	}
	return b.String()
}

func span(entries []Entry) (lo, hi uint16) {
	lo, hi = entries[0].ID, entries[0].ID
	for _, e := range entries[1:] {
		if e.ID < lo {
			lo = e.ID
		}
		if e.ID > hi {
			hi = e.ID
		}
	}
	return lo, hi
}

// Enabled reports whether the monitor is producing output.
func (m *Monitor) Enabled() bool {
	return m.enabled.Load()
}

// SetEnabled enables or disables output.
func (m *Monitor) SetEnabled(on bool) {
	m.enabled.Store(on)
	m.metrics.UpdateMonitor(on, m.Len())
	m.logger.Debug().Bool("enabled", on).Msg("Monitor state changed")
}

// Toggle flips the enabled state and returns the new state.
func (m *Monitor) Toggle() bool {
	for {
		old := m.enabled.Load()
		if m.enabled.CompareAndSwap(old, !old) {
			m.metrics.UpdateMonitor(!old, m.Len())
			return !old
		}
	}
}

// Entries returns a copy of the monitored set.
func (m *Monitor) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Len returns the size of the monitored set.
func (m *Monitor) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Set replaces the monitored set. Nothing changes if any entry is invalid.
func (m *Monitor) Set(entries []Entry) error {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if err := validateEntry(e); err != nil {
			return err
		}
		key := strings.ToLower(e.Name)
		if seen[key] {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateEntry, e.Name)
		}
		seen[key] = true
	}

	next := make([]Entry, len(entries))
	copy(next, entries)

	m.mu.Lock()
	m.entries = next
	m.mu.Unlock()

	m.metrics.UpdateMonitor(m.enabled.Load(), len(next))
	return nil
}

// Add appends an entry, or replaces the register of an entry with the same
// name.
func (m *Monitor) Add(e Entry) error {
	if err := validateEntry(e); err != nil {
		return err
	}

	m.mu.Lock()
	replaced := false
	for i := range m.entries {
		if strings.EqualFold(m.entries[i].Name, e.Name) {
			m.entries[i].ID = e.ID
			replaced = true
			break
		}
	}
	if !replaced {
		m.entries = append(m.entries, e)
	}
	n := len(m.entries)
	m.mu.Unlock()

	m.metrics.UpdateMonitor(m.enabled.Load(), n)
	return nil
}

// Remove deletes the entry with the given name.
func (m *Monitor) Remove(name string) error {
	m.mu.Lock()
	idx := -1
	for i := range m.entries {
		if strings.EqualFold(m.entries[i].Name, name) {
			idx = i
			break
		}
	}
	if idx < 0 {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrEntryNotFound, name)
	}
	m.entries = append(m.entries[:idx:idx], m.entries[idx+1:]...)
	n := len(m.entries)
	m.mu.Unlock()

	m.metrics.UpdateMonitor(m.enabled.Load(), n)
	return nil
}

// Clear empties the monitored set.
func (m *Monitor) Clear() {
	_ = m.Set(nil)
}

// RestoreDefaults reinstates the default set.
func (m *Monitor) RestoreDefaults() {
	_ = m.Set(DefaultEntries())
}

func validateEntry(e Entry) error {
	if e.Name == "" || strings.ContainsAny(e.Name, "= \t") {
		return fmt.Errorf("%w: invalid monitor name %q", domain.ErrSyntax, e.Name)
	}
	if e.ID >= domain.InputCount {
		return fmt.Errorf("%w: %d is too big (max = %d)", domain.ErrInvalidAddress, e.ID, domain.InputCount)
	}
	return nil
}

// MonitorStatsSnapshot holds a point-in-time snapshot of monitor statistics.
type MonitorStatsSnapshot struct {
	TotalPolls   uint64
	SuccessPolls uint64
	FailedPolls  uint64
	SkippedPolls uint64
	Breaker      string
}

// Stats returns a snapshot of the monitor statistics.
func (m *Monitor) Stats() MonitorStatsSnapshot {
	return MonitorStatsSnapshot{
		TotalPolls:   m.stats.TotalPolls.Load(),
		SuccessPolls: m.stats.SuccessPolls.Load(),
		FailedPolls:  m.stats.FailedPolls.Load(),
		SkippedPolls: m.stats.SkippedPolls.Load(),
		Breaker:      m.breaker.State().String(),
	}
}
