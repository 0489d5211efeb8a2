package catalog

import "github.com/nexus-edge/hvac-console/internal/domain"

type option func(*Descriptor)

func scaled(s int8) option { return func(d *Descriptor) { d.Scale = s } }

func signed() option { return func(d *Descriptor) { d.Signed = true } }

func within(min, max int32) option {
	return func(d *Descriptor) { d.Bounds = &Bounds{Min: min, Max: max} }
}

func factory(v uint16) option { return func(d *Descriptor) { d.Default = v } }

func reg(name, description string, opts ...option) Descriptor {
	d := Descriptor{Name: name, Description: description}
	for _, o := range opts {
		o(&d)
	}
	return d
}

var holdingRegisters = [domain.HoldingCount]Descriptor{
	domain.HoldingControlMode: reg("control_mode",
		"control mode - 0 local, 1 remote 0-100, 2 temperature", within(0, 2)),
	domain.HoldingMode: reg("mode",
		"operation mode - 0 idle, 1 cool manual, 2 heat manual, 3 cool auto, 4 heat auto", within(0, 4)),
	domain.HoldingLevel: reg("level", "power level 0-100", within(0, 100), factory(50)),
	domain.HoldingDeltaOffset: reg("delta_offset",
		"Supply temperature delta offset ['C x 10]", scaled(-1)),
	domain.HoldingTempSetpoint: reg("temp_setpoint", "Temperature setpoint ['C x 10]",
		scaled(-1), within(0, 500), factory(350)),
	domain.HoldingIncrement:      reg("increment", "increment level value by %", within(0, 100)),
	domain.HoldingDecrement:      reg("decrement", "decrement level value by %", within(0, 100)),
	domain.HoldingODUFanOverride: reg("odu_fan_override", "Force ODU fan speed [Hz], 0 disables"),
	domain.HoldingPipeOverride:   reg("pipe_override", "exchanger temperature override - byte coded"),
	domain.HoldingPIDSamplingTime: reg("pid_sampling_time", "PID controller cycle time [s]",
		within(1, 600), factory(30)),
	domain.HoldingPIDHysteresis: reg("pid_hysteresis", "PID hysteresis ['C x 10] - not used",
		scaled(-1), within(0, 100), factory(10)),
	domain.HoldingOffDelay: reg("off_delay", "Delay before going to OFF/STBY [min]",
		within(0, 240), factory(10)),
	domain.HoldingOverrideCompressor: reg("override_compressor",
		"Force compressor speed - not recommended to use"),
	domain.HoldingKp: reg("kp", "P.I.D. controller K_p coefficient [x 10]",
		scaled(-1), within(0, 1000), factory(50)),
	domain.HoldingAmbientTempScope: reg("ambient_temp_scope",
		"Ambient temperature averaging window [h]", within(0, 72), factory(24)),
	domain.HoldingHotWaterLevel: reg("hot_water_level", "Hot water heating level",
		within(0, 100), factory(80)),
	domain.HoldingCurveGain: reg("curve_gain", "gain/slope of equithermal curve [x 100]",
		scaled(-2), within(0, 500), factory(80)),
	domain.HoldingCurveOffset: reg("curve_offset", "equithermal curve offset value (from 20'C) [x 10]",
		scaled(-1), signed(), within(-200, 200), factory(50)),
	domain.HoldingCurveActive: reg("curve_active",
		"Constant temperature mode - 0, equithermal mode active - 1", within(0, 1)),
	domain.HoldingLowDelta: reg("low_delta", "Lower hysteresis around setpoint ['C x 10]",
		scaled(-1), within(0, 100), factory(20)),
	domain.HoldingHighDelta: reg("high_delta", "Upper hysteresis around setpoint ['C x 10]",
		scaled(-1), within(0, 100), factory(20)),
	domain.HoldingOnOffInterval: reg("on_off_interval", "Interval between Off and On [min]",
		within(0, 240), factory(10)),
	domain.HoldingFlowX1: reg("flow_x1", "x1 flow [Hz]", factory(30)),
	domain.HoldingFlowY1: reg("flow_y1", "y1 flow [ltr/hr]", factory(378)),
	domain.HoldingFlowX2: reg("flow_x2", "x2 flow [Hz]", factory(75)),
	domain.HoldingFlowY2: reg("flow_y2", "y2 flow [ltr/hr]", factory(653)),
	domain.HoldingFlowX3: reg("flow_x3", "x3 flow [Hz]", factory(240)),
	domain.HoldingFlowY3: reg("flow_y3", "y3 flow [ltr/hr]", factory(1479)),
	domain.HoldingSpare4: reg("spare4", "spare"),
	domain.HoldingSpare5: reg("spare5", "spare"),
	domain.HoldingSpare6: reg("spare6", "spare"),
	domain.HoldingKi: reg("ki", "P.I.D. controller K_i coefficient [x 100]",
		scaled(-2), within(0, 1000), factory(10)),
	domain.HoldingKd: reg("kd", "P.I.D. controller K_d coefficient [x 10]",
		scaled(-1), within(0, 1000)),
	domain.HoldingSaveButton: reg("save_button",
		"System command - 1 save, 2 reset, 3 bootsel, 4 default settings", within(0, 4)),
	domain.HoldingMinimalFlow: reg("minimal_flow", "Minimal water flow value before alarm [Hz]",
		factory(10)),
	domain.HoldingT2LowAlarm: reg("t2_low_alarm", "Exchanger low temperature alarm level ['C x 10]",
		scaled(-1), signed(), within(-300, 300), factory(20)),
	domain.HoldingAlarmRelayFunction: reg("alarm_relay_function", "ALARM relay function (bitmask)",
		within(0, domain.RelayMaskMax), factory(1)),
	domain.HoldingDefrostRelayFunction: reg("defrost_relay_function", "DEFROST relay function (bitmask)",
		within(0, domain.RelayMaskMax), factory(2)),
	domain.HoldingHeatInputFunction: reg("heat_input_function", "HEAT input function",
		within(0, 3), factory(2)),
	domain.HoldingCoolInputFunction: reg("cool_input_function", "COOL input function",
		within(0, 3), factory(1)),
	domain.HoldingMultisplitPower: reg("multisplit_power", "Multisplit power selector position"),
	domain.HoldingOilRecoveryLowFreq: reg("oil_recovery_low_freq",
		"Compressor speed [Hz] below which oil recovery timer runs", within(0, 150), factory(35)),
	domain.HoldingOilRecoveryLowTime: reg("oil_recovery_low_time",
		"Time until oil recovery mode starts [min]", within(0, 1440), factory(120)),
	domain.HoldingOilRecoveryRestoreFreq: reg("oil_recovery_restore_freq",
		"Compressor speed [Hz] till which oil recovery mode ends", within(0, 150), factory(60)),
	domain.HoldingHotWaterMode: reg("hotwater_mode",
		"Hot water mode - 0 fixed level, 1 fixed temperature, 2 legacy", within(0, 2), factory(2)),
	domain.HoldingHotWaterTargetTemp: reg("hotwater_target_temp", "Hot water target temperature ['C x 10]",
		scaled(-1), within(0, 700), factory(500)),
}
