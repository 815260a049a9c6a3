// internal/status/snapshot.go
package status

import (
	"math"

	"github.com/tamzrod/anesthesia-monitor/internal/evaluator"
)

// Snapshot represents exactly what the writer is allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	StatusCode        uint16
	LastErrorCode     uint16
	SecondsNotRunning uint16
	AlarmCount        uint16
	WarningCount      uint16
	MinuteVentilation uint16 // L/min x100
	TidalVolumePerKg  uint16 // mL/kg x100
	AlarmBits         uint16
	WarningBits       uint16
}

// ApplyResult copies an evaluation result into the live slots.
// Source error code and seconds counter are left to the caller.
func (s *Snapshot) ApplyResult(r evaluator.Result) {
	s.StatusCode = StatusCode(r.Status)
	s.AlarmCount = saturate(len(r.Alarms))
	s.WarningCount = saturate(len(r.Warnings))

	s.AlarmBits = 0
	for _, f := range r.Alarms {
		if b, ok := AlarmBit(f.Code); ok {
			s.AlarmBits |= 1 << b
		}
	}
	s.WarningBits = 0
	for _, f := range r.Warnings {
		if b, ok := WarningBit(f.Code); ok {
			s.WarningBits |= 1 << b
		}
	}

	s.MinuteVentilation = 0
	s.TidalVolumePerKg = 0
	if r.Computed != nil {
		s.MinuteVentilation = hundredths(r.Computed.MinuteVentilationLmin)
		s.TidalVolumePerKg = hundredths(r.Computed.TidalVolumeMlPerKg)
	}
}

// ApplySourceError marks the unit as unable to produce parameters.
// Evaluation slots are cleared; the previous result no longer describes the device.
func (s *Snapshot) ApplySourceError(code uint16) {
	if code == 0 {
		code = 1
	}
	s.StatusCode = CodeSourceError
	s.LastErrorCode = code
	s.AlarmCount = 0
	s.WarningCount = 0
	s.MinuteVentilation = 0
	s.TidalVolumePerKg = 0
	s.AlarmBits = 0
	s.WarningBits = 0
}

// StatusCode maps an evaluator status to its register value.
func StatusCode(st evaluator.Status) uint16 {
	switch st {
	case evaluator.StatusRunning:
		return CodeRunning
	case evaluator.StatusWarning:
		return CodeWarning
	case evaluator.StatusAlarm:
		return CodeAlarm
	default:
		return CodeUnknown
	}
}

func saturate(n int) uint16 {
	if n > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(n)
}

func hundredths(v float64) uint16 {
	x := math.Round(v * 100)
	if x <= 0 || math.IsNaN(x) {
		return 0
	}
	if x > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(x)
}

// CodeName is the display name of a status code.
func CodeName(code uint16) string {
	switch code {
	case CodeRunning:
		return string(evaluator.StatusRunning)
	case CodeWarning:
		return string(evaluator.StatusWarning)
	case CodeAlarm:
		return string(evaluator.StatusAlarm)
	case CodeSourceError:
		return "SOURCE_ERROR"
	default:
		return "UNKNOWN"
	}
}
