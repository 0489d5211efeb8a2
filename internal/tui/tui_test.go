package tui_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nexus-edge/hvac-console/internal/console"
	"github.com/nexus-edge/hvac-console/internal/service"
	"github.com/nexus-edge/hvac-console/internal/store"
	"github.com/nexus-edge/hvac-console/internal/tui"
	"github.com/rs/zerolog"
)

type nopReader struct{}

func (nopReader) ReadInput(context.Context, uint16, uint16) error { return nil }

func newRegistry(t *testing.T) *console.Registry {
	t.Helper()
	r := console.NewRegistry(zerolog.Nop(), nil)
	r.MustRegister("echo", func(_ context.Context, env *console.Env, arg string) {
		env.Printf("%s\n", arg)
	})
	return r
}

func newEnv() *console.Env {
	st := store.New()
	return &console.Env{
		Store:   st,
		Monitor: service.NewMonitor(service.MonitorConfig{}, nopReader{}, st, nil, zerolog.Nop(), nil),
		Info:    console.Info{Endpoint: "10.0.0.5:502"},
		Logger:  zerolog.Nop(),
		Out:     &bytes.Buffer{},
	}
}

func update(t *testing.T, m tui.Model, msg tea.Msg) (tui.Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(tui.Model)
	if !ok {
		t.Fatalf("expected tui.Model, got %T", next)
	}
	return model, cmd
}

func sized(t *testing.T, m tui.Model) tui.Model {
	t.Helper()
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

// enter types line and presses Enter.
func enter(t *testing.T, m tui.Model, line string) (tui.Model, tea.Cmd) {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(line)})
	return update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

func contains(lines []string, s string) bool {
	for _, l := range lines {
		if strings.Contains(l, s) {
			return true
		}
	}
	return false
}

// =============================================================================
// Interactive model
// =============================================================================

func TestModel_RunsCommand(t *testing.T) {
	m := sized(t, tui.NewModel(context.Background(), newRegistry(t), newEnv()))

	m, cmd := enter(t, m, "echo hello there")
	if cmd == nil {
		t.Fatal("expected a command to run")
	}
	if !m.Busy() {
		t.Error("expected model to be busy while the command runs")
	}

	m, _ = update(t, m, cmd())
	if m.Busy() {
		t.Error("expected model to be idle after the command finished")
	}
	lines := m.Lines()
	if !contains(lines, "> echo hello there") {
		t.Errorf("expected echoed input in scrollback, got %v", lines)
	}
	if !contains(lines, "hello there") {
		t.Errorf("expected command output in scrollback, got %v", lines)
	}
}

func TestModel_UnknownCommand(t *testing.T) {
	m := sized(t, tui.NewModel(context.Background(), newRegistry(t), newEnv()))

	m, cmd := enter(t, m, "frobnicate")
	m, _ = update(t, m, cmd())

	if !contains(m.Lines(), "Unknown command: frobnicate") {
		t.Errorf("expected unknown command diagnostic, got %v", m.Lines())
	}
}

func TestModel_HoldsInputWhileBusy(t *testing.T) {
	m := sized(t, tui.NewModel(context.Background(), newRegistry(t), newEnv()))

	m, first := enter(t, m, "echo one")
	m, second := enter(t, m, "echo two")
	if second != nil {
		t.Error("expected second line to be held while busy")
	}

	m, next := update(t, m, first())
	if next == nil {
		t.Fatal("expected held line to be dispatched")
	}
	if !m.Busy() {
		t.Error("expected model to be busy with the held line")
	}
	m, _ = update(t, m, next())

	lines := m.Lines()
	if !contains(lines, "one") || !contains(lines, "two") {
		t.Errorf("expected both outputs, got %v", lines)
	}
}

func TestModel_BlankLineIgnored(t *testing.T) {
	m := sized(t, tui.NewModel(context.Background(), newRegistry(t), newEnv()))

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no command for a blank line")
	}
	if len(m.Lines()) != 0 {
		t.Errorf("expected empty scrollback, got %v", m.Lines())
	}
}

func TestModel_F4TogglesMonitor(t *testing.T) {
	env := newEnv()
	m := sized(t, tui.NewModel(context.Background(), newRegistry(t), env))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF4})
	if !env.Monitor.Enabled() {
		t.Error("expected monitor enabled after F4")
	}
	if !contains(m.Lines(), "Monitor is ENABLED") {
		t.Errorf("expected enabled notice, got %v", m.Lines())
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF4})
	if env.Monitor.Enabled() {
		t.Error("expected monitor disabled after second F4")
	}
	if !contains(m.Lines(), "Monitor is DISABLED") {
		t.Errorf("expected disabled notice, got %v", m.Lines())
	}
}

func TestModel_MonitorLineShownWhenEnabled(t *testing.T) {
	env := newEnv()
	env.Monitor.SetEnabled(true)
	m := sized(t, tui.NewModel(context.Background(), newRegistry(t), env))

	m, _ = update(t, m, tui.MonitorMsg("COMP=42 FAN=7"))
	if view := m.View(); !strings.Contains(view, "COMP=42 FAN=7") {
		t.Errorf("expected monitor line in view, got %q", view)
	}
}

func TestModel_CtrlCQuits(t *testing.T) {
	m := sized(t, tui.NewModel(context.Background(), newRegistry(t), newEnv()))

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

// =============================================================================
// Line mode
// =============================================================================

func TestRunLine(t *testing.T) {
	env := newEnv()
	out := env.Out.(*bytes.Buffer)
	in := strings.NewReader("echo first\n\nnope\necho second\n")

	if err := tui.RunLine(context.Background(), in, newRegistry(t), env); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "first\nUnknown command: nope\nsecond\n"
	if out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}
}

func TestRunLine_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pr, pw := io.Pipe()
	defer pw.Close()

	if err := tui.RunLine(ctx, pr, newRegistry(t), newEnv()); err != nil {
		t.Errorf("expected nil on cancellation, got %v", err)
	}
}
