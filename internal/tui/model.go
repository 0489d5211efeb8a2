// Package tui implements the interactive and the line-oriented console
// front-ends.
package tui

import (
	"bytes"
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nexus-edge/hvac-console/internal/console"
)

// maxScrollback bounds the number of lines kept in the viewport.
const maxScrollback = 2000

// chrome is the number of rows taken by everything except the scrollback:
// title, monitor line, input, help and the scrollback border.
const chrome = 6

// MonitorMsg carries one monitor line into the program.
type MonitorMsg string

type commandDoneMsg struct {
	output string
	err    error
}

// Model is the bubbletea model of the interactive console.
type Model struct {
	ctx      context.Context
	registry *console.Registry
	env      *console.Env

	input    textinput.Model
	viewport viewport.Model
	ready    bool
	width    int

	lines   []string
	monitor string

	busy    bool
	pending []string
}

// NewModel creates the console model. Commands run against a copy of env
// whose output is captured per command.
func NewModel(ctx context.Context, registry *console.Registry, env *console.Env) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "help"
	ti.ShowSuggestions = true
	ti.SetSuggestions(registry.Paths())
	ti.Focus()

	return Model{
		ctx:      ctx,
		registry: registry,
		env:      env,
		input:    ti,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyF4:
			if m.env.Monitor != nil {
				m.appendOutput(console.MonitorState(m.env.Monitor.Toggle()) + "\n")
			}
			return m, nil
		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line == "" {
				return m, nil
			}
			m.appendLine(echoStyle.Render("> " + line))
			if m.busy {
				m.pending = append(m.pending, line)
				return m, nil
			}
			return m, m.run(line)
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		height := msg.Height - chrome
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 2
			m.viewport.Height = height
		}
		m.input.Width = msg.Width - len(m.input.Prompt) - 1
		m.refreshViewport()

	case MonitorMsg:
		m.monitor = string(msg)
		return m, nil

	case commandDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.env.Logger.Debug().Err(msg.err).Msg("Command did not run")
		}
		m.appendOutput(msg.output)
		if len(m.pending) > 0 {
			next := m.pending[0]
			m.pending = m.pending[1:]
			return m, m.run(next)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// run dispatches line on a background command.
func (m *Model) run(line string) tea.Cmd {
	m.busy = true
	ctx, registry := m.ctx, m.registry
	env := *m.env
	return func() tea.Msg {
		var out bytes.Buffer
		env.Out = &out
		err := registry.Execute(ctx, &env, line)
		return commandDoneMsg{output: out.String(), err: err}
	}
}

func (m *Model) appendOutput(out string) {
	out = strings.TrimRight(out, "\n")
	if out == "" {
		return
	}
	for _, l := range strings.Split(out, "\n") {
		m.appendLine(l)
	}
}

func (m *Model) appendLine(line string) {
	m.lines = append(m.lines, line)
	if n := len(m.lines); n > maxScrollback {
		m.lines = m.lines[n-maxScrollback:]
	}
	m.refreshViewport()
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}

// Lines returns the scrollback content.
func (m Model) Lines() []string {
	return append([]string(nil), m.lines...)
}

// Busy reports whether a command is running.
func (m Model) Busy() bool { return m.busy }

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := lipgloss.JoinHorizontal(lipgloss.Left,
		titleStyle.Render("HVAC console"),
		endpointStyle.Render(m.env.Info.Endpoint),
	)

	status := monitorOffStyle.Render(console.MonitorState(false))
	if m.env.Monitor != nil && m.env.Monitor.Enabled() {
		status = monitorOnStyle.Render(m.monitor)
	}

	prompt := m.input.View()
	if m.busy {
		prompt = lipgloss.JoinHorizontal(lipgloss.Left, prompt, busyStyle.Render("  running..."))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		scrollbackStyle.Width(m.viewport.Width).Render(m.viewport.View()),
		status,
		prompt,
		helpStyle.Render("tab: complete  F4: monitor  pgup/pgdn: scroll  ctrl+c: quit"),
	)
}
