package domain

import "fmt"

// Bank identifies one of the two register address spaces.
type Bank uint8

const (
	// BankHolding holds read-write configuration.
	BankHolding Bank = iota
	// BankInput holds read-only telemetry.
	BankInput
)

// String returns the bank name.
func (b Bank) String() string {
	switch b {
	case BankHolding:
		return "holding"
	case BankInput:
		return "input"
	default:
		return fmt.Sprintf("bank(%d)", uint8(b))
	}
}

// Size returns the number of registers in the bank.
func (b Bank) Size() int {
	switch b {
	case BankHolding:
		return HoldingCount
	case BankInput:
		return InputCount
	default:
		return 0
	}
}

// Input register map.
const (
	InputTxCount uint16 = iota
	InputRxErrCount
	InputXferOKRatio
	InputIndex
	InputEEV1
	InputOperationMode
	InputSelectorSwitch
	InputControlMode
	InputEEV
	InputFan
	InputCompressor
	InputPower
	InputOutdoorMode
	InputAmbientTempAvg
	InputDischargeTemp
	InputCondenserTemp
	InputAmbientTemp
	InputIndoorTemp
	InputEvaporatorTemp
	InputIndoor
	InputWaterFlow
	InputFaults
	InputFaultByte11
	InputFaultByte12
	InputTargetFrequency
	InputPowerLevel
	InputCompressorMinFrequency
	InputCompressorMaxFrequency
	InputWaterFlowLtrPerHour
	InputTempSetpoint
	InputCurveGain
	InputCurveOffset
	InputIPMTemperature
	InputSuctionTemperature
	InputWaterIn
	InputRefrigerantIn
	InputRefrigerantOut
	InputCOP
	InputHeatPower
	InputACVoltage
	InputACCurrent
	InputDCBusVoltage
	InputSettingsSaved
	InputWaterDelta
	InputPIDP
	InputPIDI
	InputPIDD
	InputPIDOutput
	InputTimeToOilRecovery
	InputOnOffIntervalRemaining
	InputAutoOffRemaining
	InputTillDefrost

	// InputCount is the number of input registers.
	InputCount = iota
)

// Holding register map.
const (
	HoldingControlMode uint16 = iota
	HoldingMode
	HoldingLevel
	HoldingDeltaOffset
	HoldingTempSetpoint
	HoldingIncrement
	HoldingDecrement
	HoldingODUFanOverride
	HoldingPipeOverride
	HoldingPIDSamplingTime
	HoldingPIDHysteresis
	HoldingOffDelay
	HoldingOverrideCompressor
	HoldingKp
	HoldingAmbientTempScope
	HoldingHotWaterLevel
	HoldingCurveGain
	HoldingCurveOffset
	HoldingCurveActive
	HoldingLowDelta
	HoldingHighDelta
	HoldingOnOffInterval
	HoldingFlowX1
	HoldingFlowY1
	HoldingFlowX2
	HoldingFlowY2
	HoldingFlowX3
	HoldingFlowY3
	HoldingSpare4
	HoldingSpare5
	HoldingSpare6
	HoldingKi
	HoldingKd
	HoldingSaveButton
	HoldingMinimalFlow
	HoldingT2LowAlarm
	HoldingAlarmRelayFunction
	HoldingDefrostRelayFunction
	HoldingHeatInputFunction
	HoldingCoolInputFunction
	HoldingMultisplitPower
	HoldingOilRecoveryLowFreq
	HoldingOilRecoveryLowTime
	HoldingOilRecoveryRestoreFreq
	HoldingHotWaterMode
	HoldingHotWaterTargetTemp

	// HoldingCount is the number of holding registers.
	HoldingCount = iota
)

// ControlMode selects where the power demand comes from.
type ControlMode uint16

const (
	ControlLocal ControlMode = iota
	ControlRemoteLevel
	ControlRemoteTemperature
)

// String returns the operator-facing name of the control mode.
func (c ControlMode) String() string {
	switch c {
	case ControlLocal:
		return "Local 0-10V"
	case ControlRemoteLevel:
		return "Remote 0-100"
	case ControlRemoteTemperature:
		return "Remote temperature"
	default:
		return "Unknown?"
	}
}

// OperationMode is the requested operating mode.
type OperationMode uint16

const (
	OperationIdle OperationMode = iota
	OperationCoolManual
	OperationHeatManual
	OperationCoolAuto
	OperationHeatAuto
)

// String collapses manual and automatic variants into the running direction.
func (o OperationMode) String() string {
	switch o {
	case OperationIdle:
		return "Idle"
	case OperationCoolManual, OperationCoolAuto:
		return "Cooling"
	case OperationHeatManual, OperationHeatAuto:
		return "Heating"
	default:
		return "?"
	}
}

// HotWaterMode selects the domestic hot water strategy.
type HotWaterMode uint16

const (
	HotWaterFixedLevel HotWaterMode = iota
	HotWaterFixedTemp
	HotWaterLegacy
)

// String returns the operator-facing name of the DHW mode.
func (m HotWaterMode) String() string {
	switch m {
	case HotWaterFixedLevel:
		return "Level"
	case HotWaterFixedTemp:
		return "Temperature"
	case HotWaterLegacy:
		return "Legacy"
	default:
		return "Unknown?"
	}
}

// InputFunction is the function bound to a digital input.
type InputFunction uint16

const (
	InputFunctionNone InputFunction = iota
	InputFunctionCooling
	InputFunctionHeating
	InputFunctionDHW
)

// String returns the operator-facing name of the input function.
func (f InputFunction) String() string {
	switch f {
	case InputFunctionNone:
		return "NoFunction"
	case InputFunctionCooling:
		return "Cooling"
	case InputFunctionHeating:
		return "Heating"
	case InputFunctionDHW:
		return "DHW"
	default:
		return "??"
	}
}

// Relay function bits.
const (
	RelayAlarm uint = iota
	RelayDefrost
	RelayHeat
	RelayCool
	RelayIdle
	RelayOil
	RelayOperation
	RelayCompressor
	RelayHotWater
	RelayBivalent
	RelayBoot

	relayBitCount
)

// RelayMaskMax is the largest meaningful relay function bitmask.
const RelayMaskMax = 1<<relayBitCount - 1

var relayNames = [relayBitCount]string{
	"ALARM", "DEFROST", "HEAT", "COOL", "IDLE", "OIL",
	"OPERATION", "COMPRESSOR", "HOT_WATER", "BIVALENT", "BOOT",
}

// RelayFunctionNames lists the names of the bits set in mask, lowest bit first.
// Bits without a name are reported by number.
func RelayFunctionNames(mask uint16) []string {
	var names []string
	for bit := uint(0); bit < 16; bit++ {
		if mask&(1<<bit) == 0 {
			continue
		}
		if bit < relayBitCount {
			names = append(names, relayNames[bit])
		} else {
			names = append(names, fmt.Sprintf("%d", bit))
		}
	}
	return names
}

// SystemCommand values are written to HoldingSaveButton.
type SystemCommand uint16

const (
	CommandSave            SystemCommand = 1
	CommandReset           SystemCommand = 2
	CommandBootsel         SystemCommand = 3
	CommandDefaultSettings SystemCommand = 4
)
