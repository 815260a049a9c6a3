// internal/params/constants.go
package params

// Parameter block layout constants.
// Holding registers (FC 3), signed 16-bit, starting at the unit's source address.
// These values define the protocol and MUST NOT be configurable.

// BlockRegisters is the fixed size of the parameter block.
const BlockRegisters = 10

// ---- REGISTER OFFSETS ----

const (
	OffsetPatientType    = 0
	OffsetWeight         = 1
	OffsetFiO2           = 2
	OffsetFreshGasFlow   = 3
	OffsetAgent          = 4
	OffsetAgentPercent   = 5
	OffsetAirwayPressure = 6
	OffsetTidalVolume    = 7
	OffsetRespRate       = 8
	OffsetHypoxicGuard   = 9
)

// ---- SCALES (raw / scale = engineering value) ----

const (
	ScaleWeight         = 10.0
	ScaleFiO2           = 10.0
	ScaleFreshGasFlow   = 100.0
	ScaleAgentPercent   = 100.0
	ScaleAirwayPressure = 10.0
	ScaleTidalVolume    = 1.0
	ScaleRespRate       = 10.0
)

// ---- ENUM CODES ----

const (
	PatientAdult     uint16 = 0
	PatientPediatric uint16 = 1

	AgentSevoflurane uint16 = 0
	AgentIsoflurane  uint16 = 1
	AgentDesflurane  uint16 = 2
)
