// internal/api/decode.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tamzrod/anesthesia-monitor/internal/shell"
)

// decodeRawInput maps a JSON parameter set onto operator text fields.
// Numbers keep their literal text so conversion follows the same path as
// typed input. Numeric fields may also be sent as strings. A missing
// numeric field stays empty and fails conversion.
func decodeRawInput(r io.Reader) (shell.RawInput, error) {
	var in shell.RawInput

	dec := json.NewDecoder(r)
	dec.UseNumber()

	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return in, fmt.Errorf("malformed JSON: %w", err)
	}
	if body == nil {
		return in, errors.New("body must be a JSON object")
	}

	var err error
	if in.PatientType, err = text(body, "patientType"); err != nil {
		return in, err
	}
	if in.Agent, err = text(body, "agent"); err != nil {
		return in, err
	}

	in.WeightKg = number(body, "weightKg")
	in.FiO2Percent = number(body, "fio2Percent")
	in.FreshGasFlow = number(body, "freshGasFlowLpm")
	in.AgentPercent = number(body, "agentPercent")
	in.AirwayPressure = number(body, "airwayPressureCmH2O")
	in.TidalVolume = number(body, "tidalVolumeMl")
	in.RespRate = number(body, "respRateBpm")

	guard, ok := body["hypoxicGuardEnabled"].(bool)
	if !ok {
		return in, errors.New("hypoxicGuardEnabled must be a boolean")
	}
	in.HypoxicGuardEnabled = guard

	return in, nil
}

func text(body map[string]any, key string) (string, error) {
	s, ok := body[key].(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return s, nil
}

// number returns the literal text of a numeric field, or "" when it is
// missing or of another JSON type.
func number(body map[string]any, key string) string {
	switch v := body[key].(type) {
	case json.Number:
		return v.String()
	case string:
		return v
	default:
		return ""
	}
}
