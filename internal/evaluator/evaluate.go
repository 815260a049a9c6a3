// internal/evaluator/evaluate.go
package evaluator

import (
	"fmt"
	"math"
	"strconv"
)

// Evaluate classifies one parameter snapshot.
//
// Pure and deterministic: no IO, no state, safe for concurrent use.
// Input validity is checked first; if anything is invalid the result is
// ALARM with only the validity findings and no Computed block.
// Otherwise rules run in fixed order (oxygen, fresh gas flow, agent,
// ventilation, airway pressure) and the status is derived from the findings.
func Evaluate(p ParameterSnapshot) Result {
	// ------------------------------------------------------------
	// INPUT VALIDITY (collect all, then gate)
	// ------------------------------------------------------------

	if invalid := validate(p); len(invalid) > 0 {
		return Result{
			Status:   StatusAlarm,
			Alarms:   invalid,
			Warnings: []Finding{},
		}
	}

	// ------------------------------------------------------------
	// CLINICAL RULES (order is output order)
	// ------------------------------------------------------------

	c := collector{alarms: []Finding{}, warnings: []Finding{}}
	targets := TargetsFor(p.PatientType)
	mv := p.TidalVolumeMl * p.RespRateBpm / 1000.0
	vtPerKg := p.TidalVolumeMl / p.WeightKg

	checkOxygen(p, &c)
	checkFreshGasFlow(p, &c)
	checkAgent(p, &c)
	checkVentilation(p, mv, vtPerKg, targets, &c)
	checkAirway(p, mv, targets, &c)

	return Result{
		Status:   c.status(),
		Alarms:   c.alarms,
		Warnings: c.warnings,
		Computed: &Computed{
			MinuteVentilationLmin: round2(mv),
			TidalVolumeMlPerKg:    round2(vtPerKg),
			TidalVolumeTarget:     targetRange(targets),
		},
	}
}

// collector accumulates findings in insertion order.
type collector struct {
	alarms   []Finding
	warnings []Finding
}

func (c *collector) alarm(code Code, format string, args ...any) {
	c.alarms = append(c.alarms, Finding{Code: code, Message: fmt.Sprintf(format, args...)})
}

func (c *collector) warn(code Code, format string, args ...any) {
	c.warnings = append(c.warnings, Finding{Code: code, Message: fmt.Sprintf(format, args...)})
}

// status applies the fixed precedence: any alarm, else any warning, else running.
func (c *collector) status() Status {
	if len(c.alarms) > 0 {
		return StatusAlarm
	}
	if len(c.warnings) > 0 {
		return StatusWarning
	}
	return StatusRunning
}

// ---- validity ----

type predicate struct {
	failed  bool
	code    Code
	message string
}

// validate evaluates every validity predicate and returns all failures.
func validate(p ParameterSnapshot) []Finding {
	preds := []predicate{
		{p.WeightKg <= 0, CodeInvalidWeight, "Invalid weight (must be > 0 kg)."},
		{p.FiO2Percent < 0 || p.FiO2Percent > 100, CodeInvalidFiO2, "Invalid FiO₂ (must be between 0 and 100%)."},
		{p.FreshGasFlowLpm < 0, CodeInvalidFreshGasFlow, "Invalid fresh gas flow (cannot be negative)."},
		{p.AgentPercent < 0, CodeInvalidAgentPercent, "Invalid agent concentration (cannot be negative)."},
		{p.RespRateBpm < 0, CodeInvalidRespRate, "Invalid respiratory rate (cannot be negative)."},
		{p.TidalVolumeMl < 0, CodeInvalidTidalVolume, "Invalid tidal volume (cannot be negative)."},
	}

	fields := []struct {
		name  string
		value float64
	}{
		{"weight", p.WeightKg},
		{"FiO₂", p.FiO2Percent},
		{"fresh gas flow", p.FreshGasFlowLpm},
		{"agent concentration", p.AgentPercent},
		{"airway pressure", p.AirwayPressureCmH2O},
		{"tidal volume", p.TidalVolumeMl},
		{"respiratory rate", p.RespRateBpm},
	}
	for _, f := range fields {
		preds = append(preds, predicate{
			failed:  math.IsNaN(f.value) || math.IsInf(f.value, 0),
			code:    CodeInvalidNonFinite,
			message: fmt.Sprintf("Invalid %s (not a finite number).", f.name),
		})
	}

	var out []Finding
	for _, pr := range preds {
		if pr.failed {
			out = append(out, Finding{Code: pr.code, Message: pr.message})
		}
	}
	return out
}

// ---- rules ----

func checkOxygen(p ParameterSnapshot, c *collector) {
	switch {
	case p.FiO2Percent < fio2MinPhysiologic:
		c.alarm(CodeFiO2NonPhysiologic, "FiO₂ < 21%% is not physiologically valid for delivered oxygen mixture.")
	case p.FiO2Percent < fio2HypoxicRisk:
		c.alarm(CodeFiO2HypoxicRisk, "HYPOXIC MIXTURE RISK: FiO₂ < 30%% (high priority).")
	case p.FiO2Percent < fio2Monitor:
		c.warn(CodeFiO2Low, "Low FiO₂ (30–39%%): monitor oxygenation & clinical context.")
	}

	// Additive: may fire together with either alarm above.
	if p.HypoxicGuardEnabled && p.FiO2Percent < fio2GuardMin {
		c.alarm(CodeHypoxicGuard, "Hypoxic Guard: FiO₂ below 25%% → delivery should be inhibited.")
	}
}

func checkFreshGasFlow(p ParameterSnapshot, c *collector) {
	switch {
	case p.FreshGasFlowLpm == 0 && p.AgentPercent > 0:
		c.alarm(CodeFGFNoCarrier, "Agent set > 0%% but FGF = 0 → inconsistent delivery (check settings).")
	case p.FreshGasFlowLpm <= fgfAgentMin && p.AgentPercent > 0:
		c.alarm(CodeFGFTooLow, "FGF very low with volatile agent → inadequate wash-in / unstable concentration.")
	}

	// Overlaps the alarm band on purpose; both lines are reported.
	if p.FreshGasFlowLpm < fgfWashInMin {
		c.warn(CodeFGFSlowWashIn, "Very low FGF (<0.5 L/min): risk of slow wash-in & CO₂ absorber dependence.")
	}
	if p.FreshGasFlowLpm > fgfWasteful {
		c.warn(CodeFGFHigh, "High FGF (>10 L/min): wasteful, drying, heat loss risk.")
	}
}

func checkAgent(p ParameterSnapshot, c *collector) {
	l := LimitsFor(p.Agent)

	switch {
	case p.AgentPercent > l.AlarmMax:
		c.alarm(CodeAgentTooHigh, "%s concentration too high (>%.1f%%).", p.Agent, l.AlarmMax)
	case p.AgentPercent > l.WarnHigh:
		c.warn(CodeAgentHigh, "%s concentration high (>%.1f%%): consider reducing.", p.Agent, l.WarnHigh)
	}
}

func checkVentilation(p ParameterSnapshot, mv, vtPerKg float64, t VentilationTargets, c *collector) {
	target := targetRange(t)

	switch {
	case vtPerKg < vtAbsoluteLowMlKg:
		c.alarm(CodeVTTooLow, "VT too low: %.1f mL/kg (<4).", vtPerKg)
	case vtPerKg < t.VTLowMlKg:
		c.warn(CodeVTBelowTarget, "VT below recommended: %.1f mL/kg (target %s).", vtPerKg, target)
	}

	switch {
	case vtPerKg > vtAbsoluteHighMlKg:
		c.alarm(CodeVTTooHigh, "VT too high: %.1f mL/kg (>10).", vtPerKg)
	case vtPerKg > t.VTHighMlKg:
		c.warn(CodeVTAboveTarget, "VT above recommended: %.1f mL/kg (target %s).", vtPerKg, target)
	}

	switch {
	case p.RespRateBpm < rrApneaBpm:
		c.alarm(CodeApnea, "APNEA / severe bradypnea: RR < 6 bpm.")
	case p.RespRateBpm < rrLowBpm:
		c.warn(CodeRRLow, "Low RR (6–7 bpm): monitor ventilation adequacy.")
	case p.RespRateBpm > rrHighBpm:
		c.warn(CodeRRHigh, "High RR (>35 bpm): possible distress or overventilation.")
	}

	switch {
	case mv < t.MVAlarmLow:
		c.alarm(CodeMVLow, "Low minute ventilation: MV %.1f L/min (too low).", mv)
	case mv < t.MVWarnLow:
		c.warn(CodeMVBorderline, "Borderline MV: %.1f L/min (consider increasing VT/RR).", mv)
	}
}

func checkAirway(p ParameterSnapshot, mv float64, t VentilationTargets, c *collector) {
	switch {
	case p.AirwayPressureCmH2O > pressureBarotrauma:
		c.alarm(CodeBarotrauma, "HIGH AIRWAY PRESSURE > 40 cmH₂O (barotrauma risk).")
	case p.AirwayPressureCmH2O > pressureElevated:
		c.warn(CodePressureElevated, "Elevated airway pressure (30–40 cmH₂O).")
	}

	if p.AirwayPressureCmH2O < pressureDisconnect && mv < t.MVWarnLow {
		c.alarm(CodeDisconnection, "Possible DISCONNECTION/LEAK: low pressure AND low ventilation.")
	}
}

// ---- helpers ----

// round2 rounds to two decimals on the exact binary value, ties to even
// (6.125 -> 6.12). Scaling by 100 first would round such ties away from zero.
func round2(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return r
}

func targetRange(t VentilationTargets) string {
	return fmt.Sprintf("%.1f-%.1f", t.VTLowMlKg, t.VTHighMlKg)
}
