package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nexus-edge/hvac-console/internal/domain"
	"github.com/nexus-edge/hvac-console/internal/service"
	"github.com/nexus-edge/hvac-console/internal/store"
	"github.com/rs/zerolog"
)

// mockReader implements service.InputReader.
type mockReader struct {
	mu       sync.Mutex
	store    *store.Store
	device   []uint16
	calls    [][2]uint16
	readFunc func(from, count uint16) error
}

func (r *mockReader) ReadInput(ctx context.Context, from, count uint16) error {
	r.mu.Lock()
	r.calls = append(r.calls, [2]uint16{from, count})
	fn := r.readFunc
	r.mu.Unlock()

	if fn != nil {
		if err := fn(from, count); err != nil {
			return err
		}
	}
	return r.store.Apply(domain.BankInput, from, r.device[from:from+count])
}

func (r *mockReader) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// recordingDisplay implements service.Display.
type recordingDisplay struct {
	mu    sync.Mutex
	lines []string
}

func (d *recordingDisplay) Show(line string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lines = append(d.lines, line)
}

func (d *recordingDisplay) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.lines)
}

func (d *recordingDisplay) last() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.lines) == 0 {
		return ""
	}
	return d.lines[len(d.lines)-1]
}

func newMonitor(t *testing.T, cfg service.MonitorConfig) (*service.Monitor, *mockReader, *recordingDisplay) {
	t.Helper()
	st := store.New()
	reader := &mockReader{store: st, device: make([]uint16, domain.InputCount)}
	display := &recordingDisplay{}
	m := service.NewMonitor(cfg, reader, st, display, zerolog.Nop(), nil)
	return m, reader, display
}

func TestMonitor_DisabledByDefault(t *testing.T) {
	m, reader, display := newMonitor(t, service.MonitorConfig{})

	if m.Enabled() {
		t.Error("expected monitor disabled by default")
	}
	if err := m.Poll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reader.callCount() != 0 || display.count() != 0 {
		t.Errorf("expected no read and no output while disabled")
	}
	if got := len(m.Entries()); got != len(service.DefaultEntries()) {
		t.Errorf("expected %d default entries, got %d", len(service.DefaultEntries()), got)
	}
}

func TestMonitor_PollReadsInclusiveSpan(t *testing.T) {
	m, reader, display := newMonitor(t, service.MonitorConfig{})
	reader.device[domain.InputFan] = 12
	reader.device[domain.InputCompressor] = 48
	reader.device[domain.InputAmbientTemp] = 0xFFF1 // -1.5 'C

	err := m.Set([]service.Entry{
		{Name: "T4", ID: domain.InputAmbientTemp},
		{Name: "FAN", ID: domain.InputFan},
		{Name: "COMP", ID: domain.InputCompressor},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.SetEnabled(true)

	if err := m.Poll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reader.callCount() != 1 {
		t.Fatalf("expected one ranged read, got %d", reader.callCount())
	}
	call := reader.calls[0]
	expectedCount := domain.InputAmbientTemp - domain.InputFan + 1
	if call[0] != domain.InputFan || call[1] != expectedCount {
		t.Errorf("expected read [%d, +%d], got [%d, +%d]", domain.InputFan, expectedCount, call[0], call[1])
	}

	expected := "T4=-1.5 FAN=12 COMP=48"
	if got := display.last(); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestMonitor_EmptySetIsNoop(t *testing.T) {
	m, reader, display := newMonitor(t, service.MonitorConfig{})
	m.Clear()
	m.SetEnabled(true)

	if err := m.Poll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reader.callCount() != 0 || display.count() != 0 {
		t.Error("expected empty set to skip the read")
	}
}

func TestMonitor_DisableDuringReadSuppressesLine(t *testing.T) {
	m, reader, display := newMonitor(t, service.MonitorConfig{})
	m.SetEnabled(true)
	reader.readFunc = func(from, count uint16) error {
		m.SetEnabled(false)
		return nil
	}

	if err := m.Poll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if display.count() != 0 {
		t.Errorf("expected no output after disable, got %q", display.last())
	}
	if m.Stats().SkippedPolls != 1 {
		t.Errorf("expected 1 skipped poll, got %d", m.Stats().SkippedPolls)
	}
}

func TestMonitor_DisableDuringFailedReadSuppressesLine(t *testing.T) {
	m, reader, display := newMonitor(t, service.MonitorConfig{})
	m.SetEnabled(true)
	reader.readFunc = func(from, count uint16) error {
		m.SetEnabled(false)
		return domain.ErrReadFailed
	}

	if err := m.Poll(context.Background()); !errors.Is(err, domain.ErrReadFailed) {
		t.Fatalf("expected ErrReadFailed, got %v", err)
	}
	if display.count() != 0 {
		t.Errorf("expected no output after disable, got %q", display.last())
	}
	if m.Stats().FailedPolls != 1 {
		t.Errorf("expected 1 failed poll, got %d", m.Stats().FailedPolls)
	}
}

func TestMonitor_SetIsAtomic(t *testing.T) {
	m, _, _ := newMonitor(t, service.MonitorConfig{})
	before := m.Entries()

	tests := []struct {
		name     string
		entries  []service.Entry
		expected error
	}{
		{"id too big", []service.Entry{{Name: "A", ID: 1}, {Name: "B", ID: domain.InputCount}}, domain.ErrInvalidAddress},
		{"duplicate name", []service.Entry{{Name: "A", ID: 1}, {Name: "a", ID: 2}}, domain.ErrDuplicateEntry},
		{"empty name", []service.Entry{{Name: "", ID: 1}}, domain.ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := m.Set(tt.entries); !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
			if got := m.Entries(); len(got) != len(before) {
				t.Errorf("expected set unchanged (%d entries), got %d", len(before), len(got))
			}
		})
	}
}

func TestMonitor_AddRemoveRestore(t *testing.T) {
	m, _, _ := newMonitor(t, service.MonitorConfig{})
	m.Clear()

	if err := m.Add(service.Entry{Name: "COP", ID: domain.InputCOP}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Add(service.Entry{Name: "cop", ID: domain.InputHeatPower}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries := m.Entries()
	if len(entries) != 1 || entries[0].ID != domain.InputHeatPower {
		t.Errorf("expected add to replace same-name entry, got %+v", entries)
	}

	if err := m.Remove("missing"); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}
	if err := m.Remove("COP"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("expected empty set, got %d", m.Len())
	}

	m.RestoreDefaults()
	if m.Len() != len(service.DefaultEntries()) {
		t.Errorf("expected defaults restored, got %d entries", m.Len())
	}
}

func TestMonitor_Toggle(t *testing.T) {
	m, _, _ := newMonitor(t, service.MonitorConfig{})
	if !m.Toggle() {
		t.Error("expected first toggle to enable")
	}
	if m.Toggle() {
		t.Error("expected second toggle to disable")
	}
}

func TestMonitor_BreakerOpensAfterFailures(t *testing.T) {
	m, reader, display := newMonitor(t, service.MonitorConfig{BreakerFailures: 2, BreakerTimeout: time.Hour})
	reader.readFunc = func(from, count uint16) error {
		return fmt.Errorf("%w: refused", domain.ErrConnectionFailed)
	}
	m.SetEnabled(true)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := m.Poll(ctx); !errors.Is(err, domain.ErrConnectionFailed) {
			t.Fatalf("poll %d: expected connection failure, got %v", i, err)
		}
	}
	if display.count() != 2 {
		t.Errorf("expected failure lines to be shown, got %d", display.count())
	}

	if err := m.Poll(ctx); !errors.Is(err, domain.ErrCircuitBreakerOpen) {
		t.Fatalf("expected breaker open, got %v", err)
	}
	if reader.callCount() != 2 {
		t.Errorf("expected no read while breaker open, got %d reads", reader.callCount())
	}
	if got := m.Stats().Breaker; got != "open" {
		t.Errorf("expected breaker state open, got %q", got)
	}
}

func TestMonitor_ConcurrentMutationDuringPolling(t *testing.T) {
	m, _, _ := newMonitor(t, service.MonitorConfig{Interval: time.Millisecond})
	m.SetEnabled(true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			name := fmt.Sprintf("R%d", n)
			for j := 0; j < 100; j++ {
				_ = m.Add(service.Entry{Name: name, ID: uint16(j % domain.InputCount)})
				_ = m.Remove(name)
			}
		}(i)
	}
	wg.Wait()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	if err := m.Stop(stopCtx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, e := range m.Entries() {
		if len(e.Name) == 2 && e.Name[0] == 'R' {
			t.Errorf("expected temporary entry %s to be removed", e.Name)
		}
	}
}

func TestMonitor_StopsOutputWhenDisabled(t *testing.T) {
	m, _, display := newMonitor(t, service.MonitorConfig{Interval: 2 * time.Millisecond})
	m.SetEnabled(true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_ = m.Start(ctx)
	defer func() { _ = m.Stop(context.Background()) }()

	deadline := time.Now().Add(time.Second)
	for display.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if display.count() == 0 {
		t.Fatal("expected monitor output while enabled")
	}

	m.SetEnabled(false)
	time.Sleep(10 * time.Millisecond)
	settled := display.count()
	time.Sleep(20 * time.Millisecond)
	if got := display.count(); got != settled {
		t.Errorf("expected no output after disable, got %d new lines", got-settled)
	}
}

func TestParseEntry(t *testing.T) {
	tests := []struct {
		token    string
		expected service.Entry
		err      error
	}{
		{"COMP=10", service.Entry{Name: "COMP", ID: 10}, nil},
		{"T4=ambient_temp", service.Entry{Name: "T4", ID: domain.InputAmbientTemp}, nil},
		{"X=52", service.Entry{}, domain.ErrInvalidAddress},
		{"=5", service.Entry{}, domain.ErrSyntax},
		{"NAME=", service.Entry{}, domain.ErrSyntax},
		{"NAME", service.Entry{}, domain.ErrSyntax},
		{"N=bogus", service.Entry{}, domain.ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := service.ParseEntry(tt.token)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Errorf("expected %v, got %v", tt.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, got)
			}
		})
	}
}

func TestFormatLine(t *testing.T) {
	entries := []service.Entry{
		{Name: "COMP", ID: domain.InputCompressor},
		{Name: "T3", ID: domain.InputCondenserTemp},
	}
	values := make([]uint16, domain.InputCondenserTemp-domain.InputCompressor+1)
	values[0] = 0xFFFF
	values[len(values)-1] = 253

	expected := "COMP=-1 T3=25.3"
	if got := service.FormatLine(entries, domain.InputCompressor, values); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}
