package console

import (
	"context"

	"github.com/nexus-edge/hvac-console/internal/domain"
	"github.com/nexus-edge/hvac-console/internal/lookup"
)

func registerFlow(r *Registry) {
	r.MustRegister("flow test", testFlow)
}

// flowTable builds the pulse frequency to flow table from the calibration
// registers. The origin is always part of the table.
func flowTable(env *Env) (*lookup.Table, error) {
	point := func(x, y uint16) lookup.Point {
		return lookup.Point{X: int32(env.holding(x)), Y: int32(env.holding(y))}
	}
	return lookup.New(
		lookup.Point{X: 0, Y: 0},
		point(domain.HoldingFlowX1, domain.HoldingFlowY1),
		point(domain.HoldingFlowX2, domain.HoldingFlowY2),
		point(domain.HoldingFlowX3, domain.HoldingFlowY3),
	)
}

func testFlow(ctx context.Context, env *Env, arg string) {
	tok, ok := env.single(arg)
	if !ok {
		return
	}
	hz, ok := env.parseInt(tok)
	if !ok {
		return
	}
	if hz < 0 {
		env.failf("Flow cannot be negative.")
		return
	}
	if !env.read(ctx, domain.BankHolding, domain.HoldingFlowX1, domain.HoldingFlowY3-domain.HoldingFlowX1+1) {
		return
	}

	table, err := flowTable(env)
	if err != nil {
		env.fail(err)
		return
	}
	env.Printf("Flow from %d Hz is equivalent to %d [ltr/hour].\n", hz, table.Get(hz))
}

func registerOil(r *Registry) {
	r.MustRegister("oil low_freq set", setValue(domain.HoldingOilRecoveryLowFreq))
	r.MustRegister("oil interval set", setValue(domain.HoldingOilRecoveryLowTime))
	r.MustRegister("oil target_frequency set", setValue(domain.HoldingOilRecoveryRestoreFreq))
	r.MustRegister("oil show", func(ctx context.Context, env *Env, _ string) {
		if env.refresh(ctx) {
			showOil(env)
		}
	})
}

func registerFunctions(r *Registry) {
	r.MustRegister("misc relay_function alarm set", setValue(domain.HoldingAlarmRelayFunction))
	r.MustRegister("misc relay_function defrost set", setValue(domain.HoldingDefrostRelayFunction))
	r.MustRegister("misc relay_function show", func(ctx context.Context, env *Env, _ string) {
		if env.read(ctx, domain.BankHolding, domain.HoldingAlarmRelayFunction, 2) {
			showRelayFunctions(env)
		}
	})
	r.MustRegister("misc input_function heat set", setValue(domain.HoldingHeatInputFunction))
	r.MustRegister("misc input_function cool set", setValue(domain.HoldingCoolInputFunction))
	r.MustRegister("misc input_function show", func(ctx context.Context, env *Env, _ string) {
		if env.read(ctx, domain.BankHolding, domain.HoldingHeatInputFunction, 2) {
			showInputFunctions(env)
		}
	})
}

func registerHotWater(r *Registry) {
	r.MustRegister("hot_water show", func(ctx context.Context, env *Env, _ string) {
		if env.read(ctx, domain.BankHolding, 0, domain.HoldingCount) {
			showDHW(env)
		}
	})
	r.MustRegister("hot_water level", setValue(domain.HoldingHotWaterLevel))
	r.MustRegister("hot_water temperature", setValue(domain.HoldingHotWaterTargetTemp))
	r.MustRegister("hot_water mode legacy",
		setConst(domain.HoldingHotWaterMode, int32(domain.HotWaterLegacy), "DHW mode set to Legacy"))
	r.MustRegister("hot_water mode const_level",
		setConst(domain.HoldingHotWaterMode, int32(domain.HotWaterFixedLevel), "DHW mode set to Level"))
	r.MustRegister("hot_water mode const_temp",
		setConst(domain.HoldingHotWaterMode, int32(domain.HotWaterFixedTemp), "DHW mode set to Temperature"))
}

func registerDeveloper(r *Registry) {
	r.MustRegister("developer odu compressor", setValue(domain.HoldingOverrideCompressor))
	r.MustRegister("developer odu fan", setValue(domain.HoldingODUFanOverride))
}
