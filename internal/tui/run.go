package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nexus-edge/hvac-console/internal/console"
	"github.com/nexus-edge/hvac-console/internal/service"
)

// Run starts the interactive console and blocks until the user quits or ctx
// is cancelled. The monitor writes to the status line while it runs.
func Run(ctx context.Context, registry *console.Registry, env *console.Env) error {
	p := tea.NewProgram(NewModel(ctx, registry, env), tea.WithAltScreen(), tea.WithContext(ctx))

	if env.Monitor != nil {
		env.Monitor.SetDisplay(service.DisplayFunc(func(line string) {
			p.Send(MonitorMsg(line))
		}))
		defer env.Monitor.SetDisplay(nil)
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("console: %w", err)
	}
	return nil
}

// RunLine reads commands from in one per line until EOF or ctx is cancelled.
// Command output and monitor lines go to env.Out.
func RunLine(ctx context.Context, in io.Reader, registry *console.Registry, env *console.Env) error {
	if env.Monitor != nil {
		env.Monitor.SetDisplay(service.NewWriterDisplay(env.Out))
		defer env.Monitor.SetDisplay(nil)
	}

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("console: reading input: %w", err)
					}
				default:
				}
				return nil
			}
			_ = registry.Execute(ctx, env, line)
		}
	}
}
