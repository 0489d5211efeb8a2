package console

import (
	"context"
	"strings"

	"github.com/nexus-edge/hvac-console/internal/catalog"
	"github.com/nexus-edge/hvac-console/internal/domain"
	"github.com/nexus-edge/hvac-console/internal/service"
)

func registerMonitor(r *Registry) {
	r.MustRegister("misc monitor set", monitorSet)
	r.MustRegister("misc monitor add", monitorAdd)
	r.MustRegister("misc monitor remove", monitorRemove)
	r.MustRegister("misc monitor clear", func(_ context.Context, env *Env, _ string) {
		env.Monitor.Clear()
		env.Printf("Monitor list cleared.\n")
	})
	r.MustRegister("misc monitor show", monitorShow)
	r.MustRegister("misc monitor restore_default", func(_ context.Context, env *Env, _ string) {
		env.Monitor.RestoreDefaults()
		env.Printf("Monitor list restored to %d default entries.\n", env.Monitor.Len())
	})
	r.MustRegister("misc monitor enable", func(_ context.Context, env *Env, _ string) {
		env.Monitor.SetEnabled(true)
		printMonitorState(env)
	})
	r.MustRegister("misc monitor disable", func(_ context.Context, env *Env, _ string) {
		env.Monitor.SetEnabled(false)
		printMonitorState(env)
	})
	r.MustRegister("misc monitor toggle", func(_ context.Context, env *Env, _ string) {
		env.Monitor.Toggle()
		printMonitorState(env)
	})
}

// MonitorState is the line shown when the monitor is switched.
func MonitorState(enabled bool) string {
	if enabled {
		return "Monitor is ENABLED"
	}
	return "Monitor is DISABLED"
}

func printMonitorState(env *Env) {
	env.Printf("%s\n", MonitorState(env.Monitor.Enabled()))
}

func monitorSet(_ context.Context, env *Env, arg string) {
	tokens := strings.Fields(arg)
	if len(tokens) == 0 {
		env.failf("Example usage : misc monitor set COMP=compressor T4=16 LEVEL=power_level")
		return
	}

	entries := make([]service.Entry, 0, len(tokens))
	for _, tok := range tokens {
		e, err := service.ParseEntry(tok)
		if err != nil {
			env.fail(err)
			return
		}
		entries = append(entries, e)
	}
	if err := env.Monitor.Set(entries); err != nil {
		env.fail(err)
		return
	}
	env.Printf("Monitoring %d registers.\n", len(entries))
}

func monitorAdd(_ context.Context, env *Env, arg string) {
	tok, ok := env.single(arg)
	if !ok {
		return
	}
	e, err := service.ParseEntry(tok)
	if err != nil {
		env.fail(err)
		return
	}
	if err := env.Monitor.Add(e); err != nil {
		env.fail(err)
		return
	}
	env.Printf("Added %s=%d (%s)\n", e.Name, e.ID, catalog.Describe(domain.BankInput, e.ID).Name)
}

func monitorRemove(_ context.Context, env *Env, arg string) {
	name, ok := env.single(arg)
	if !ok {
		return
	}
	if err := env.Monitor.Remove(name); err != nil {
		env.fail(err)
		return
	}
	env.Printf("Removed %s\n", name)
}

func monitorShow(_ context.Context, env *Env, _ string) {
	entries := env.Monitor.Entries()
	stats := env.Monitor.Stats()

	env.Printf("%s, %d entries:\n", MonitorState(env.Monitor.Enabled()), len(entries))
	for _, e := range entries {
		d := catalog.Describe(domain.BankInput, e.ID)
		env.Printf("  %-8s input[%d]\t%s\n", e.Name, e.ID, d.Name)
	}
	env.Printf("Polls: %d ok, %d failed, %d skipped (link %s)\n",
		stats.SuccessPolls, stats.FailedPolls, stats.SkippedPolls, stats.Breaker)
}
