// internal/evaluator/limits.go
package evaluator

// Clinical thresholds. These values define device behavior and are not configurable.

// ---- OXYGEN ----

const (
	fio2MinPhysiologic = 21.0 // below room air
	fio2HypoxicRisk    = 30.0
	fio2Monitor        = 40.0
	fio2GuardMin       = 25.0
)

// ---- FRESH GAS FLOW ----

const (
	fgfAgentMin  = 0.3 // at or below: agent delivery unstable
	fgfWashInMin = 0.5
	fgfWasteful  = 10.0
)

// ---- VENTILATION ----

const (
	vtAbsoluteLowMlKg  = 4.0
	vtAbsoluteHighMlKg = 10.0

	rrApneaBpm = 6.0
	rrLowBpm   = 8.0
	rrHighBpm  = 35.0
)

// ---- AIRWAY PRESSURE ----

const (
	pressureBarotrauma = 40.0
	pressureElevated   = 30.0
	pressureDisconnect = 5.0
)

// AgentLimits is the per-agent concentration table row.
type AgentLimits struct {
	AlarmMax float64 // above: alarm
	WarnHigh float64 // above: warning
}

var agentLimits = map[Agent]AgentLimits{
	Sevoflurane: {AlarmMax: 4.0, WarnHigh: 3.0},
	Isoflurane:  {AlarmMax: 3.0, WarnHigh: 2.5},
	Desflurane:  {AlarmMax: 10.0, WarnHigh: 8.0},
}

// defaultAgentLimits applies to any value outside the closed Agent set.
var defaultAgentLimits = AgentLimits{AlarmMax: 5.0, WarnHigh: 3.0}

// LimitsFor returns the concentration limits for an agent.
func LimitsFor(a Agent) AgentLimits {
	if l, ok := agentLimits[a]; ok {
		return l
	}
	return defaultAgentLimits
}

// VentilationTargets is the per-patient-type ventilation table row.
type VentilationTargets struct {
	VTLowMlKg  float64
	VTHighMlKg float64
	MVAlarmLow float64 // L/min
	MVWarnLow  float64 // L/min
}

var (
	adultTargets     = VentilationTargets{VTLowMlKg: 6.0, VTHighMlKg: 8.0, MVAlarmLow: 3.0, MVWarnLow: 4.0}
	pediatricTargets = VentilationTargets{VTLowMlKg: 5.0, VTHighMlKg: 8.0, MVAlarmLow: 0.8, MVWarnLow: 1.2}
)

// TargetsFor returns the ventilation targets. Anything but Adult uses the pediatric row.
func TargetsFor(pt PatientType) VentilationTargets {
	if pt == Adult {
		return adultTargets
	}
	return pediatricTargets
}
