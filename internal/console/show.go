package console

import (
	"strings"

	"github.com/nexus-edge/hvac-console/internal/domain"
)

func showPID(env *Env) {
	env.field("PID K_p", "%4.1f", env.holdingValue(domain.HoldingKp))
	env.field("PID K_i", "%4.2f", env.holdingValue(domain.HoldingKi))
	env.field("PID K_d", "%4.1f", env.holdingValue(domain.HoldingKd))
	env.field("PID sampling time", "%4d [s]", env.holding(domain.HoldingPIDSamplingTime))
	env.field("PID hysteresis", "%4.1f ['K]", env.holdingValue(domain.HoldingPIDHysteresis))
	env.field("PID C_p", "%4.1f", env.inputValue(domain.InputPIDP))
	env.field("PID C_i", "%4.1f", env.inputValue(domain.InputPIDI))
	env.field("PID C_d", "%4.1f", env.inputValue(domain.InputPIDD))
}

func showTemperature(env *Env) {
	env.field("Actual temperature target", "%4.1f ['C]", env.inputValue(domain.InputTempSetpoint))
	env.field("Set temperature target", "%4.1f ['C]", env.holdingValue(domain.HoldingTempSetpoint))
	env.field("Upper delta threshold", "+%4.1f ['K]", env.holdingValue(domain.HoldingHighDelta))
	env.field("Lower delta threshold", "-%4.1f ['K]", env.holdingValue(domain.HoldingLowDelta))
	env.field("Dynamic temperature gain factor", "%4.2f", env.holdingValue(domain.HoldingCurveGain))
	env.field("Dynamic temperature offset value", "%4.1f ['K]", env.holdingValue(domain.HoldingCurveOffset))
	env.field("Auto-OFF delay time", "%4d [min]", env.holding(domain.HoldingOffDelay))
	env.field("Minimum OFF -> ON interval", "%4d [min]", env.holding(domain.HoldingOnOffInterval))
	env.field("Remaining time until next start", "%4d [s]", env.input(domain.InputOnOffIntervalRemaining))
	env.field("Ambient temperature range scope", "%4d [h]", env.holding(domain.HoldingAmbientTempScope))
	showDHW(env)
}

func showDHW(env *Env) {
	env.field("DHW Mode", "%s", domain.HotWaterMode(env.holding(domain.HoldingHotWaterMode)))
	env.field("DHW Target temperature", "%4.1f ['C]", env.holdingValue(domain.HoldingHotWaterTargetTemp))
	env.field("DHW Target level", "%4d [%%]", env.holding(domain.HoldingHotWaterLevel))
}

func showOil(env *Env) {
	env.field("Oil recovery lower comp limit", "%4d [Hz]", env.holding(domain.HoldingOilRecoveryLowFreq))
	env.field("Oil recovery time below limit", "%4d [min]", env.holding(domain.HoldingOilRecoveryLowTime))
	env.field("Oil recovery LVL restore.", "%4d [Hz]", env.holding(domain.HoldingOilRecoveryRestoreFreq))
	env.field("Next oil recovery in", "%4d [s]", env.input(domain.InputTimeToOilRecovery))
}

func relayString(mask uint16) string {
	names := domain.RelayFunctionNames(mask)
	if len(names) == 0 {
		return "NONE"
	}
	return strings.Join(names, " | ")
}

func showRelayFunctions(env *Env) {
	env.field("ALARM relay function", "%s", relayString(env.holding(domain.HoldingAlarmRelayFunction)))
	env.field("DEFROST relay function", "%s", relayString(env.holding(domain.HoldingDefrostRelayFunction)))
}

func showInputFunctions(env *Env) {
	env.field("HEAT input function", "%s", domain.InputFunction(env.holding(domain.HoldingHeatInputFunction)))
	env.field("COOL input function", "%s", domain.InputFunction(env.holding(domain.HoldingCoolInputFunction)))
}
