// internal/evaluator/types.go
package evaluator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ---- PATIENT TYPE ----

// PatientType selects the ventilation target table.
type PatientType uint8

const (
	Adult PatientType = iota
	Pediatric
)

func (p PatientType) String() string {
	switch p {
	case Adult:
		return "adult"
	case Pediatric:
		return "pediatric"
	default:
		return fmt.Sprintf("PatientType(%d)", uint8(p))
	}
}

// ParsePatientType accepts "adult" or "pediatric" (case-insensitive).
func ParsePatientType(s string) (PatientType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "adult":
		return Adult, nil
	case "pediatric":
		return Pediatric, nil
	}
	return 0, fmt.Errorf("evaluator: unknown patient type %q", s)
}

func (p PatientType) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PatientType) UnmarshalText(b []byte) error {
	v, err := ParsePatientType(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ---- AGENT ----

// Agent is the volatile anesthetic in use. Closed set.
type Agent uint8

const (
	Sevoflurane Agent = iota
	Isoflurane
	Desflurane
)

func (a Agent) String() string {
	switch a {
	case Sevoflurane:
		return "Sevoflurane"
	case Isoflurane:
		return "Isoflurane"
	case Desflurane:
		return "Desflurane"
	default:
		return "Unknown agent"
	}
}

// ParseAgent accepts the agent name (case-insensitive).
func ParseAgent(s string) (Agent, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sevoflurane":
		return Sevoflurane, nil
	case "isoflurane":
		return Isoflurane, nil
	case "desflurane":
		return Desflurane, nil
	}
	return 0, fmt.Errorf("evaluator: unknown agent %q", s)
}

func (a Agent) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Agent) UnmarshalText(b []byte) error {
	v, err := ParseAgent(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ---- INPUT ----

// ParameterSnapshot is one set of operator settings.
type ParameterSnapshot struct {
	PatientType         PatientType `json:"patientType"`
	WeightKg            float64     `json:"weightKg"`
	FiO2Percent         float64     `json:"fio2Percent"`
	FreshGasFlowLpm     float64     `json:"freshGasFlowLpm"`
	Agent               Agent       `json:"agent"`
	AgentPercent        float64     `json:"agentPercent"`
	AirwayPressureCmH2O float64     `json:"airwayPressureCmH2O"`
	TidalVolumeMl       float64     `json:"tidalVolumeMl"`
	RespRateBpm         float64     `json:"respRateBpm"`
	HypoxicGuardEnabled bool        `json:"hypoxicGuardEnabled"`
}

// ---- OUTPUT ----

// Status is the aggregated machine state. Exactly one per result.
type Status string

const (
	StatusAlarm   Status = "ALARM"
	StatusWarning Status = "WARNING"
	StatusRunning Status = "RUNNING"
)

// Code identifies which rule outcome produced a finding.
type Code string

const (
	// input validity
	CodeInvalidWeight       Code = "invalid_weight"
	CodeInvalidFiO2         Code = "invalid_fio2"
	CodeInvalidFreshGasFlow Code = "invalid_fresh_gas_flow"
	CodeInvalidAgentPercent Code = "invalid_agent_percent"
	CodeInvalidRespRate     Code = "invalid_resp_rate"
	CodeInvalidTidalVolume  Code = "invalid_tidal_volume"
	CodeInvalidNonFinite    Code = "invalid_non_finite"

	// oxygen
	CodeFiO2NonPhysiologic Code = "fio2_non_physiologic"
	CodeFiO2HypoxicRisk    Code = "fio2_hypoxic_risk"
	CodeFiO2Low            Code = "fio2_low"
	CodeHypoxicGuard       Code = "hypoxic_guard"

	// fresh gas flow
	CodeFGFNoCarrier  Code = "fgf_no_carrier"
	CodeFGFTooLow     Code = "fgf_too_low"
	CodeFGFSlowWashIn Code = "fgf_slow_wash_in"
	CodeFGFHigh       Code = "fgf_high"

	// agent
	CodeAgentTooHigh Code = "agent_too_high"
	CodeAgentHigh    Code = "agent_high"

	// ventilation
	CodeVTTooLow      Code = "vt_too_low"
	CodeVTBelowTarget Code = "vt_below_target"
	CodeVTTooHigh     Code = "vt_too_high"
	CodeVTAboveTarget Code = "vt_above_target"
	CodeApnea         Code = "rr_apnea"
	CodeRRLow         Code = "rr_low"
	CodeRRHigh        Code = "rr_high"
	CodeMVLow         Code = "mv_low"
	CodeMVBorderline  Code = "mv_borderline"

	// airway pressure
	CodeBarotrauma       Code = "pressure_barotrauma"
	CodePressureElevated Code = "pressure_elevated"
	CodeDisconnection    Code = "disconnection"
)

// IsInputInvalid reports whether the code comes from the validity gate.
func (c Code) IsInputInvalid() bool {
	return strings.HasPrefix(string(c), "invalid_")
}

// Finding is one alarm or warning line.
type Finding struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (f Finding) String() string { return f.Message }

// Computed holds the derived ventilation metrics.
type Computed struct {
	MinuteVentilationLmin float64 `json:"MV_Lmin"`
	TidalVolumeMlPerKg    float64 `json:"VT_mLkg"`
	TidalVolumeTarget     string  `json:"VT_target_mLkg"`
}

// Result is the outcome of one evaluation.
// Computed is nil when the input failed the validity gate.
type Result struct {
	Status   Status    `json:"status"`
	Alarms   []Finding `json:"alarms"`
	Warnings []Finding `json:"warnings"`
	Computed *Computed `json:"computed"`
}

// MarshalJSON encodes a nil Computed as the empty mapping {}.
func (r Result) MarshalJSON() ([]byte, error) {
	w := struct {
		Status   Status    `json:"status"`
		Alarms   []Finding `json:"alarms"`
		Warnings []Finding `json:"warnings"`
		Computed any       `json:"computed"`
	}{
		Status:   r.Status,
		Alarms:   r.Alarms,
		Warnings: r.Warnings,
		Computed: r.Computed,
	}
	if r.Computed == nil {
		w.Computed = struct{}{}
	}
	return json.Marshal(w)
}

// UnmarshalJSON maps an empty or null computed block back to nil.
func (r *Result) UnmarshalJSON(b []byte) error {
	type plain Result
	var w struct {
		plain
		Computed json.RawMessage `json:"computed"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	*r = Result(w.plain)
	r.Computed = nil

	raw := bytes.TrimSpace(w.Computed)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}

	var c Computed
	if err := json.Unmarshal(raw, &c); err != nil {
		return err
	}
	r.Computed = &c
	return nil
}

// AlarmMessages returns the alarm texts in evaluation order.
func (r Result) AlarmMessages() []string { return messages(r.Alarms) }

// WarningMessages returns the warning texts in evaluation order.
func (r Result) WarningMessages() []string { return messages(r.Warnings) }

// HasAlarm reports whether a finding with the given code was alarmed.
func (r Result) HasAlarm(c Code) bool { return hasCode(r.Alarms, c) }

// HasWarning reports whether a finding with the given code was warned.
func (r Result) HasWarning(c Code) bool { return hasCode(r.Warnings, c) }

func messages(fs []Finding) []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Message)
	}
	return out
}

func hasCode(fs []Finding, c Code) bool {
	for _, f := range fs {
		if f.Code == c {
			return true
		}
	}
	return false
}
