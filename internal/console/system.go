package console

import (
	"context"
	"strconv"
	"strings"

	"github.com/nexus-edge/hvac-console/internal/domain"
)

// defaultHistory is the number of journal entries history show lists.
const defaultHistory = 20

func registerSystem(r *Registry) {
	r.MustRegister("system bootsel", systemCommand(domain.CommandBootsel, "Rebooting into bootloader."))
	r.MustRegister("system reset", systemCommand(domain.CommandReset, "Reset requested."))
	r.MustRegister("system restore_factory", systemCommand(domain.CommandDefaultSettings, "Factory settings requested."))
	r.MustRegister("system show info", systemInfo)
	r.MustRegister("system ports", listPorts)
}

func systemInfo(ctx context.Context, env *Env, _ string) {
	env.field("Console version", "%s", env.Info.Version)
	env.field("Transport", "%s", env.Info.Endpoint)
	if !env.read(ctx, domain.BankInput, domain.InputCompressorMinFrequency, 2) {
		return
	}
	env.Printf("Compressor operation range %d-%d [Hz]\n",
		env.input(domain.InputCompressorMinFrequency), env.input(domain.InputCompressorMaxFrequency))
}

func listPorts(_ context.Context, env *Env, _ string) {
	if env.Ports == nil {
		env.failf("Serial port listing is not available.")
		return
	}
	ports, err := env.Ports()
	if err != nil {
		env.fail(err)
		return
	}
	if len(ports) == 0 {
		env.Printf("No serial ports found.\n")
		return
	}
	for _, p := range ports {
		env.Printf("%s\n", p)
	}
}

func registerHistory(r *Registry) {
	r.MustRegister("history show", func(ctx context.Context, env *Env, arg string) {
		if env.Journal == nil {
			env.failf("Write journal is disabled.")
			return
		}

		n := defaultHistory
		if tok := strings.TrimSpace(arg); tok != "" {
			v, err := strconv.Atoi(tok)
			if err != nil || v <= 0 {
				env.failf("Not a positive number: %q", tok)
				return
			}
			n = v
		}

		entries, err := env.Journal.Recent(ctx, n)
		if err != nil {
			env.fail(err)
			return
		}
		if len(entries) == 0 {
			env.Printf("No writes recorded.\n")
			return
		}
		for _, e := range entries {
			env.Printf("%s  reg[%d] %-24s %5d -> %-5d (%s)\n",
				e.Time.Local().Format("2006-01-02 15:04:05"), e.Register, e.Name, e.Previous, e.Value, e.Source)
		}
	})
}

func registerHelp(r *Registry) {
	r.MustRegister("help", func(_ context.Context, env *Env, _ string) {
		env.Printf("Available commands:\n")
		for _, p := range r.Paths() {
			env.Printf("  %s\n", p)
		}
	})
}
