// internal/status/bits.go
package status

import "github.com/tamzrod/anesthesia-monitor/internal/evaluator"

// Bit positions are part of the protocol. Append only.

// alarmBits maps alarm rules to SlotAlarmBits positions.
// All input-validity codes share bit 0.
var alarmBits = map[evaluator.Code]uint{
	evaluator.CodeInvalidWeight:       0,
	evaluator.CodeInvalidFiO2:         0,
	evaluator.CodeInvalidFreshGasFlow: 0,
	evaluator.CodeInvalidAgentPercent: 0,
	evaluator.CodeInvalidRespRate:     0,
	evaluator.CodeInvalidTidalVolume:  0,
	evaluator.CodeInvalidNonFinite:    0,

	evaluator.CodeFiO2NonPhysiologic: 1,
	evaluator.CodeFiO2HypoxicRisk:    2,
	evaluator.CodeHypoxicGuard:       3,
	evaluator.CodeFGFNoCarrier:       4,
	evaluator.CodeFGFTooLow:          5,
	evaluator.CodeAgentTooHigh:       6,
	evaluator.CodeVTTooLow:           7,
	evaluator.CodeVTTooHigh:          8,
	evaluator.CodeApnea:              9,
	evaluator.CodeMVLow:              10,
	evaluator.CodeBarotrauma:         11,
	evaluator.CodeDisconnection:      12,
}

// warningBits maps warning rules to SlotWarningBits positions.
var warningBits = map[evaluator.Code]uint{
	evaluator.CodeFiO2Low:          0,
	evaluator.CodeFGFSlowWashIn:    1,
	evaluator.CodeFGFHigh:          2,
	evaluator.CodeAgentHigh:        3,
	evaluator.CodeVTBelowTarget:    4,
	evaluator.CodeVTAboveTarget:    5,
	evaluator.CodeRRLow:            6,
	evaluator.CodeRRHigh:           7,
	evaluator.CodeMVBorderline:     8,
	evaluator.CodePressureElevated: 9,
}

// AlarmBit returns the SlotAlarmBits position for an alarm code.
func AlarmBit(c evaluator.Code) (uint, bool) {
	b, ok := alarmBits[c]
	return b, ok
}

// WarningBit returns the SlotWarningBits position for a warning code.
func WarningBit(c evaluator.Code) (uint, bool) {
	b, ok := warningBits[c]
	return b, ok
}
