package console

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nexus-edge/hvac-console/internal/catalog"
	"github.com/nexus-edge/hvac-console/internal/domain"
	"github.com/nexus-edge/hvac-console/internal/settings"
)

func registerSettings(r *Registry) {
	r.MustRegister("settings show", func(ctx context.Context, env *Env, _ string) {
		if env.refresh(ctx) {
			showSettings(env)
		}
	})
	r.MustRegister("settings save", systemCommand(domain.CommandSave, "Settings saved."))
	r.MustRegister("settings write_config", writeConfig)
	r.MustRegister("settings read_config", readConfig)
	r.MustRegister("settings restore_default", func(ctx context.Context, env *Env, _ string) {
		if env.writeBank(ctx, catalog.Defaults()) {
			env.Printf("Default settings restored.\n")
		}
	})
}

func writeConfig(ctx context.Context, env *Env, arg string) {
	path := strings.TrimSpace(arg)
	if path == "" {
		env.failf("Usage : settings write_config <file>")
		return
	}
	if !env.read(ctx, domain.BankHolding, 0, domain.HoldingCount) {
		return
	}

	if err := settings.SaveFile(path, env.Store.Snapshot(domain.BankHolding), env.Info.Device); err != nil {
		env.Logger.Error().Err(err).Str("path", path).Msg("Failed to write settings file")
		env.failf("Failed to open file: %s :(", path)
		return
	}
	env.Printf("Successfully written settings to the config file \"%s\" :-)\n", path)
}

func readConfig(ctx context.Context, env *Env, arg string) {
	path := strings.TrimSpace(arg)
	if path == "" {
		env.failf("Usage : settings read_config <file>")
		return
	}

	assignments, err := settings.LoadFile(path)
	if err != nil {
		if errors.Is(err, domain.ErrFileIO) {
			env.Logger.Error().Err(err).Str("path", path).Msg("Failed to read settings file")
			env.failf("Failed to open file: %s :(", path)
			return
		}
		env.fail(err)
		return
	}
	env.Printf("Successfully read config file \"%s\" :-)\n", path)

	// The store is not touched here. The transaction layer updates it once
	// the device has accepted the bank.
	values := settings.Apply(env.Store.Snapshot(domain.BankHolding), assignments)
	if env.writeBank(ctx, values) {
		env.Printf("Written %d registers to the device.\n", len(values))
	}
}

func showSettings(env *Env) {
	control := domain.ControlMode(env.holding(domain.HoldingControlMode))
	controlStr := control.String()
	if controlStr == "Unknown?" {
		controlStr = fmt.Sprintf("Unknown [%d]", uint16(control))
	}
	tempControl := "Static"
	if env.holding(domain.HoldingCurveActive) != 0 {
		tempControl = "Dynamic"
	}

	env.Printf("Current settings:\n")
	env.field("Type of power control", "%s", controlStr)
	env.field("Type of temperature control", "%s", tempControl)
	showPID(env)
	showTemperature(env)
	env.field("T2_low temperature alarm value", "%2.1f ['C]", env.holdingValue(domain.HoldingT2LowAlarm))
	env.field("Flow_low alarm value", "%d [Hz]", env.holding(domain.HoldingMinimalFlow))
	showOil(env)
	env.field("DHW heating level", "%2d [%%]", env.holding(domain.HoldingHotWaterLevel))
	showRelayFunctions(env)
	showInputFunctions(env)
}
