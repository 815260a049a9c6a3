// internal/params/decode.go
package params

import (
	"errors"
	"fmt"
	"math"

	"github.com/tamzrod/anesthesia-monitor/internal/evaluator"
)

var (
	// ErrShortBlock means fewer than BlockRegisters registers were supplied.
	ErrShortBlock = errors.New("params: short parameter block")
	// ErrUnknownCode means an enum register holds an unassigned value.
	ErrUnknownCode = errors.New("params: unknown enum code")
)

// Decode converts a raw parameter block into a snapshot.
// Numeric values are scaled but never judged; that is the evaluator's job.
func Decode(regs []uint16) (evaluator.ParameterSnapshot, error) {
	var p evaluator.ParameterSnapshot

	if len(regs) < BlockRegisters {
		return p, fmt.Errorf("%w: got=%d want=%d", ErrShortBlock, len(regs), BlockRegisters)
	}

	switch regs[OffsetPatientType] {
	case PatientAdult:
		p.PatientType = evaluator.Adult
	case PatientPediatric:
		p.PatientType = evaluator.Pediatric
	default:
		return p, fmt.Errorf("%w: patient type %d", ErrUnknownCode, regs[OffsetPatientType])
	}

	switch regs[OffsetAgent] {
	case AgentSevoflurane:
		p.Agent = evaluator.Sevoflurane
	case AgentIsoflurane:
		p.Agent = evaluator.Isoflurane
	case AgentDesflurane:
		p.Agent = evaluator.Desflurane
	default:
		return p, fmt.Errorf("%w: agent %d", ErrUnknownCode, regs[OffsetAgent])
	}

	p.WeightKg = scaled(regs[OffsetWeight], ScaleWeight)
	p.FiO2Percent = scaled(regs[OffsetFiO2], ScaleFiO2)
	p.FreshGasFlowLpm = scaled(regs[OffsetFreshGasFlow], ScaleFreshGasFlow)
	p.AgentPercent = scaled(regs[OffsetAgentPercent], ScaleAgentPercent)
	p.AirwayPressureCmH2O = scaled(regs[OffsetAirwayPressure], ScaleAirwayPressure)
	p.TidalVolumeMl = scaled(regs[OffsetTidalVolume], ScaleTidalVolume)
	p.RespRateBpm = scaled(regs[OffsetRespRate], ScaleRespRate)
	p.HypoxicGuardEnabled = regs[OffsetHypoxicGuard] != 0

	return p, nil
}

// Encode is the inverse of Decode. Values are rounded to the register
// resolution and clamped to the signed 16-bit range.
func Encode(p evaluator.ParameterSnapshot) []uint16 {
	regs := make([]uint16, BlockRegisters)

	if p.PatientType == evaluator.Adult {
		regs[OffsetPatientType] = PatientAdult
	} else {
		regs[OffsetPatientType] = PatientPediatric
	}

	switch p.Agent {
	case evaluator.Isoflurane:
		regs[OffsetAgent] = AgentIsoflurane
	case evaluator.Desflurane:
		regs[OffsetAgent] = AgentDesflurane
	default:
		regs[OffsetAgent] = AgentSevoflurane
	}

	regs[OffsetWeight] = raw(p.WeightKg, ScaleWeight)
	regs[OffsetFiO2] = raw(p.FiO2Percent, ScaleFiO2)
	regs[OffsetFreshGasFlow] = raw(p.FreshGasFlowLpm, ScaleFreshGasFlow)
	regs[OffsetAgentPercent] = raw(p.AgentPercent, ScaleAgentPercent)
	regs[OffsetAirwayPressure] = raw(p.AirwayPressureCmH2O, ScaleAirwayPressure)
	regs[OffsetTidalVolume] = raw(p.TidalVolumeMl, ScaleTidalVolume)
	regs[OffsetRespRate] = raw(p.RespRateBpm, ScaleRespRate)
	if p.HypoxicGuardEnabled {
		regs[OffsetHypoxicGuard] = 1
	}

	return regs
}

// ---- helpers ----

// scaled interprets a register as two's complement int16.
func scaled(r uint16, scale float64) float64 {
	return float64(int16(r)) / scale
}

func raw(v, scale float64) uint16 {
	x := math.Round(v * scale)
	if math.IsNaN(x) {
		return 0
	}
	if x > math.MaxInt16 {
		x = math.MaxInt16
	}
	if x < math.MinInt16 {
		x = math.MinInt16
	}
	return uint16(int16(x))
}
