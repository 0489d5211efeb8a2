package catalog

import "github.com/nexus-edge/hvac-console/internal/domain"

var inputRegisters = [domain.InputCount]Descriptor{
	domain.InputTxCount:        reg("tx_count", "Counter value of sent LNS frames"),
	domain.InputRxErrCount:     reg("rx_err_count", "Number of incorrectly received LNS frames"),
	domain.InputXferOKRatio:    reg("xfer_ok_ratio", "Ratio of correctly sent frames to received errors"),
	domain.InputIndex:          reg("index", "Frame index"),
	domain.InputEEV1:           reg("eev1", "Expansion valve position (read only copy)"),
	domain.InputOperationMode:  reg("operation_mode", "Actual operation mode"),
	domain.InputSelectorSwitch: reg("selector_switch", "Power selector switch value"),
	domain.InputControlMode:    reg("control_mode", "IDU operation mode"),
	domain.InputEEV:            reg("eev", "Expansion valve position"),
	domain.InputFan:            reg("fan", "ODU Fan speed [Hz]"),
	domain.InputCompressor:     reg("compressor", "ODU Compressor speed [Hz]"),
	domain.InputPower:          reg("power", "ODU Active power [W]"),
	domain.InputOutdoorMode:    reg("outdoor_mode", "ODU operation mode"),
	domain.InputAmbientTempAvg: reg("ambient_temp_avg", "Averaged ambient temperature ['C x 10]",
		scaled(-1), signed()),
	domain.InputDischargeTemp: reg("discharge_temp", "ODU Discharge temperature (T5) ['C x 10]",
		scaled(-1), signed()),
	domain.InputCondenserTemp: reg("condenser_temp", "ODU exchanger temperature (T3) ['C x 10]",
		scaled(-1), signed()),
	domain.InputAmbientTemp: reg("ambient_temp", "ODU ambient temperature (T4) ['C x 10]",
		scaled(-1), signed()),
	domain.InputIndoorTemp: reg("indoor_temp", "IDU supply temperature (T1) ['C x 10]",
		scaled(-1), signed()),
	domain.InputEvaporatorTemp: reg("evaporator_temp", "IDU exchanger temperature (T2) ['C x 10]",
		scaled(-1), signed()),
	domain.InputIndoor:                 reg("indoor", "IDU raw status"),
	domain.InputWaterFlow:              reg("water_flow", "IDU water flow pulse frequency [Hz]"),
	domain.InputFaults:                 reg("faults", "IDU Fault status register"),
	domain.InputFaultByte11:            reg("fault_byte11", "ODU Fault status register 1"),
	domain.InputFaultByte12:            reg("fault_byte12", "ODU Fault status register 2"),
	domain.InputTargetFrequency:        reg("target_frequency", "IDU compressor target frequency [Hz]"),
	domain.InputPowerLevel:             reg("power_level", "Target power level (0-100) %"),
	domain.InputCompressorMinFrequency: reg("compressor_min_frequency", "Minimum compressor frequency [Hz]"),
	domain.InputCompressorMaxFrequency: reg("compressor_max_frequency", "Maximum compressor frequency [Hz]"),
	domain.InputWaterFlowLtrPerHour:    reg("water_flow_ltr_per_hour", "Water flow [ltr/hr]"),
	domain.InputTempSetpoint: reg("temp_setpoint", "Supply temperature setpoint ['C x 10]",
		scaled(-1), signed()),
	domain.InputCurveGain: reg("curve_gain", "Equithermal curve gain coefficient [x 100]", scaled(-2)),
	domain.InputCurveOffset: reg("curve_offset", "Equithermal curve offset value ['C x 10]",
		scaled(-1), signed()),
	domain.InputIPMTemperature:     reg("ipm_temperature", "IPM module temperature", signed()),
	domain.InputSuctionTemperature: reg("suction_temperature", "Compressor suction temperature", signed()),
	domain.InputWaterIn: reg("water_in", "Return water temperature ['C x 10]",
		scaled(-1), signed()),
	domain.InputRefrigerantIn: reg("refrigerant_in", "Vapor refrigerant temperature ['C x 10]",
		scaled(-1), signed()),
	domain.InputRefrigerantOut: reg("refrigerant_out", "Condensed refrigerant temperature ['C x 10]",
		scaled(-1), signed()),
	domain.InputCOP:           reg("cop", "COP - coefficient of performance [x 10]", scaled(-1), signed()),
	domain.InputHeatPower:     reg("heat_power", "Heating power [W]"),
	domain.InputACVoltage:     reg("ac_voltage", "AC Voltage [V]"),
	domain.InputACCurrent:     reg("ac_current", "AC Current [mA]"),
	domain.InputDCBusVoltage:  reg("dc_bus_voltage", "DC bus voltage [V]"),
	domain.InputSettingsSaved: reg("settings_saved", "HMI save settings counter"),
	domain.InputWaterDelta: reg("water_delta", "Supply minus return water temperature ['C x 10]",
		scaled(-1), signed()),
	domain.InputPIDP:                   reg("pid_p", "PID proportional component [x 10]", scaled(-1), signed()),
	domain.InputPIDI:                   reg("pid_i", "PID integral component [x 10]", scaled(-1), signed()),
	domain.InputPIDD:                   reg("pid_d", "PID derivative component [x 10]", scaled(-1), signed()),
	domain.InputPIDOutput:              reg("pid_output", "PID controller output value", signed()),
	domain.InputTimeToOilRecovery:      reg("time_to_oil_recovery", "Time till oil recovery mode starts"),
	domain.InputOnOffIntervalRemaining: reg("on_off_interval_remaining", "Remaining interval before next start"),
	domain.InputAutoOffRemaining:       reg("auto_off_remaining", "Remaining interval till stop"),
	domain.InputTillDefrost:            reg("till_defrost", "Remaining time [s] to defrost"),
}
