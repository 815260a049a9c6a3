// internal/shell/input.go
package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tamzrod/anesthesia-monitor/internal/evaluator"
)

var (
	// ErrInvalidNumericInput means a numeric field could not be converted.
	// The evaluator is never called in that case.
	ErrInvalidNumericInput = errors.New("shell: invalid numeric input")
	// ErrInvalidChoice means patient type or agent is not one of the offered values.
	ErrInvalidChoice = errors.New("shell: invalid selection")
)

// RawInput is the operator's entry exactly as typed.
type RawInput struct {
	PatientType    string
	WeightKg       string
	FiO2Percent    string
	FreshGasFlow   string
	Agent          string
	AgentPercent   string
	AirwayPressure string
	TidalVolume    string
	RespRate       string

	HypoxicGuardEnabled bool
}

// Defaults returns the workstation's preset parameters.
func Defaults() RawInput {
	return RawInput{
		PatientType:         "adult",
		WeightKg:            "70",
		FiO2Percent:         "50",
		FreshGasFlow:        "4",
		Agent:               "Sevoflurane",
		AgentPercent:        "2",
		AirwayPressure:      "18",
		TidalVolume:         "500",
		RespRate:            "12",
		HypoxicGuardEnabled: true,
	}
}

// Parse converts raw text into a parameter snapshot.
// Values are converted, never judged.
func Parse(in RawInput) (evaluator.ParameterSnapshot, error) {
	var p evaluator.ParameterSnapshot

	pt, err := evaluator.ParsePatientType(in.PatientType)
	if err != nil {
		return p, fmt.Errorf("%w: %v", ErrInvalidChoice, err)
	}
	agent, err := evaluator.ParseAgent(in.Agent)
	if err != nil {
		return p, fmt.Errorf("%w: %v", ErrInvalidChoice, err)
	}

	p.PatientType = pt
	p.Agent = agent
	p.HypoxicGuardEnabled = in.HypoxicGuardEnabled

	fields := []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"weight", in.WeightKg, &p.WeightKg},
		{"fio2", in.FiO2Percent, &p.FiO2Percent},
		{"fresh gas flow", in.FreshGasFlow, &p.FreshGasFlowLpm},
		{"agent concentration", in.AgentPercent, &p.AgentPercent},
		{"airway pressure", in.AirwayPressure, &p.AirwayPressureCmH2O},
		{"tidal volume", in.TidalVolume, &p.TidalVolumeMl},
		{"respiratory rate", in.RespRate, &p.RespRateBpm},
	}

	var bad []string
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f.raw), 64)
		if err != nil {
			bad = append(bad, f.name)
			continue
		}
		*f.dst = v
	}

	if len(bad) > 0 {
		return evaluator.ParameterSnapshot{}, fmt.Errorf("%w: %s", ErrInvalidNumericInput, strings.Join(bad, ", "))
	}

	return p, nil
}
