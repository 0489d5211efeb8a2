package console

import (
	"context"
	"strings"

	"github.com/nexus-edge/hvac-console/internal/catalog"
	"github.com/nexus-edge/hvac-console/internal/domain"
)

// Operator setpoints are clamped to this range in tenths of a degree.
const (
	minSetpoint = 0
	maxSetpoint = 500
)

func registerTemperature(r *Registry) {
	r.MustRegister("temperature show", func(ctx context.Context, env *Env, _ string) {
		if env.refresh(ctx) {
			showTemperature(env)
		}
	})
	r.MustRegister("temperature target show", func(ctx context.Context, env *Env, _ string) {
		if !env.read(ctx, domain.BankHolding, domain.HoldingTempSetpoint, 1) ||
			!env.read(ctx, domain.BankInput, domain.InputTempSetpoint, 1) {
			return
		}
		env.Printf("Temperature static setpoint: %2.1f'C\nTemperature actual setpoint: %2.1f'C\n",
			env.holdingValue(domain.HoldingTempSetpoint), env.inputValue(domain.InputTempSetpoint))
	})
	r.MustRegister("temperature static set_target", setValue(domain.HoldingTempSetpoint))
	r.MustRegister("temperature set_target", setTargetClamped)
	r.MustRegister("temperature set_mode static",
		setConst(domain.HoldingCurveActive, 0, "Temperature control set to static"))
	r.MustRegister("temperature set_mode dynamic",
		setConst(domain.HoldingCurveActive, 1, "Temperature control set to dynamic"))
	r.MustRegister("temperature delta_low set", setValue(domain.HoldingLowDelta))
	r.MustRegister("temperature delta_high set", setValue(domain.HoldingHighDelta))
	r.MustRegister("temperature idle_time set", setValue(domain.HoldingOnOffInterval))

	r.MustRegister("temperature dynamic test", testCurve)
	r.MustRegister("temperature dynamic set_gain", setValue(domain.HoldingCurveGain))
	r.MustRegister("temperature dynamic set_offset", setValue(domain.HoldingCurveOffset))
	r.MustRegister("temperature dynamic calculate", calculateCurve)

	r.MustRegister("temperature pid k_p set", setValue(domain.HoldingKp))
	r.MustRegister("temperature pid k_i set", setValue(domain.HoldingKi))
	r.MustRegister("temperature pid k_d set", setValue(domain.HoldingKd))
	r.MustRegister("temperature pid sampling_time set", setValue(domain.HoldingPIDSamplingTime))
	r.MustRegister("temperature pid hysteresis set", setValue(domain.HoldingPIDHysteresis))
	r.MustRegister("temperature pid show", func(ctx context.Context, env *Env, _ string) {
		if env.refresh(ctx) {
			showPID(env)
		}
	})
}

func setTargetClamped(ctx context.Context, env *Env, arg string) {
	tok, ok := env.single(arg)
	if !ok {
		return
	}
	f, ok := env.parseFloat(tok)
	if !ok {
		return
	}

	value := catalog.Unscale(f, -1)
	if value < minSetpoint {
		value = minSetpoint
	}
	if value > maxSetpoint {
		value = maxSetpoint
	}
	if env.writeRegister(ctx, domain.HoldingTempSetpoint, value) {
		env.Printf("Temperature target set to %2.1f'C\n", catalog.Scaled(value, -1))
	}
}

// curve evaluates the equithermal curve for ambient temperature t4.
func curve(t4, gain, offset float64) float64 {
	return gain*(20-t4) + 20 + offset
}

func testCurve(ctx context.Context, env *Env, arg string) {
	tok, ok := env.single(arg)
	if !ok {
		return
	}
	t4, ok := env.parseInt(tok)
	if !ok {
		return
	}
	if !env.read(ctx, domain.BankHolding, domain.HoldingCurveGain, 2) {
		return
	}

	gain := env.holdingValue(domain.HoldingCurveGain)
	offset := env.holdingValue(domain.HoldingCurveOffset)
	env.Printf("T_supply(Gain = %1.2f, Offset = %2.1f, T_ambient = %d) = %2.1f ['C]\n",
		gain, offset, t4, curve(float64(t4), gain, offset))
}

// calculateCurve fits gain and offset through two (T_ambient, T_supply)
// points and writes them to the device.
func calculateCurve(ctx context.Context, env *Env, arg string) {
	tokens := strings.Fields(arg)
	if len(tokens) != 4 {
		env.failf("Usage : give 4 parameters, T_ambient1, T_supply1, T_ambient2, T_supply2")
		return
	}
	if tokens[0] == tokens[2] || tokens[1] == tokens[3] {
		env.failf("Temperatures must not be the same.")
		return
	}

	var p [4]float64
	for i, tok := range tokens {
		v, ok := env.parseFloat(tok)
		if !ok {
			return
		}
		p[i] = v
	}
	x1, y1, x2, y2 := p[0], p[1], p[2], p[3]
	if x1 == x2 || y1 == y2 {
		env.failf("Temperatures must not be the same.")
		return
	}

	a := (y2 - y1) / (x1 - x2)
	b := y1 - a*(20-x1) - 20
	env.Printf("A = %2.2f, B = %2.1f\n", a, b)

	// Gain and offset are adjacent and go out together.
	env.writeRange(ctx, domain.HoldingCurveGain, []int32{catalog.Unscale(a, -2), catalog.Unscale(b, -1)})
}
