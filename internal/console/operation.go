package console

import (
	"context"

	"github.com/nexus-edge/hvac-console/internal/domain"
)

var operationModes = []struct {
	name string
	mode domain.OperationMode
}{
	{"idle", domain.OperationIdle},
	{"cool_manual", domain.OperationCoolManual},
	{"heat_manual", domain.OperationHeatManual},
	{"cool_auto", domain.OperationCoolAuto},
	{"heat_auto", domain.OperationHeatAuto},
}

var controlModes = []struct {
	name string
	mode domain.ControlMode
}{
	{"local_0-10V", domain.ControlLocal},
	{"remote_0-100", domain.ControlRemoteLevel},
	{"remote_temperature", domain.ControlRemoteTemperature},
}

func registerOperation(r *Registry) {
	r.MustRegister("operation show", func(ctx context.Context, env *Env, _ string) {
		if !env.read(ctx, domain.BankHolding, domain.HoldingMode, 1) ||
			!env.read(ctx, domain.BankInput, domain.InputOperationMode, 1) {
			return
		}
		env.Printf("Set operation mode : %s\nActual operation mode: %s\n",
			domain.OperationMode(env.holding(domain.HoldingMode)),
			domain.OperationMode(env.input(domain.InputOperationMode)))
	})
	for _, m := range operationModes {
		r.MustRegister("operation set "+m.name,
			setConst(domain.HoldingMode, int32(m.mode), "Operation mode set to "+m.name))
	}

	r.MustRegister("control show", func(ctx context.Context, env *Env, _ string) {
		if env.read(ctx, domain.BankHolding, domain.HoldingControlMode, 1) {
			env.Printf("Control set to %s\n", domain.ControlMode(env.holding(domain.HoldingControlMode)))
		}
	})
	for _, m := range controlModes {
		r.MustRegister("control set "+m.name,
			setConst(domain.HoldingControlMode, int32(m.mode), "Control set to "+m.mode.String()))
	}

	r.MustRegister("level set", setValue(domain.HoldingLevel))
	r.MustRegister("level show", func(ctx context.Context, env *Env, _ string) {
		if !env.read(ctx, domain.BankHolding, domain.HoldingLevel, 1) ||
			!env.read(ctx, domain.BankInput, domain.InputPowerLevel, 1) {
			return
		}
		env.Printf("Power level set: %d \nPower level actual: %d \n",
			env.holding(domain.HoldingLevel), env.input(domain.InputPowerLevel))
	})
	r.MustRegister("level increment", setValue(domain.HoldingIncrement))
	r.MustRegister("level decrement", setValue(domain.HoldingDecrement))
}
