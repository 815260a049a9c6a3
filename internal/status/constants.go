// internal/status/constants.go
package status

// Evaluation Status Block layout constants.
// These values define the protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerDevice is the fixed number of logical slots per workstation.
const SlotsPerDevice = 20

// ---- SLOT INDICES ----

// SlotStatusCode holds the aggregated evaluation status.
const SlotStatusCode = 0

// SlotLastErrorCode holds the last source (poll/decode) error code.
const SlotLastErrorCode = 1

// SlotSecondsNotRunning holds the duration (in seconds) the unit has not been RUNNING.
const SlotSecondsNotRunning = 2

// SlotAlarmCount holds the number of alarm findings.
const SlotAlarmCount = 3

// SlotWarningCount holds the number of warning findings.
const SlotWarningCount = 4

// SlotMinuteVentilation holds MV in L/min x100.
const SlotMinuteVentilation = 5

// SlotTidalVolumePerKg holds VT in mL/kg x100.
const SlotTidalVolumePerKg = 6

// SlotAlarmBits holds one bit per alarm rule (see AlarmBit).
const SlotAlarmBits = 7

// SlotWarningBits holds one bit per warning rule (see WarningBit).
const SlotWarningBits = 8

// ---- RESERVED RANGE ----

// Slots 9–10 are reserved for future use.
const SlotReservedStart = 9
const SlotReservedEnd = 10

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
const SlotDeviceNameStart = 11

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// SlotDeviceNameEnd is the last slot used for the device name (inclusive).
const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// ---- LIMITS ----

// DeviceNameMaxChars is the maximum number of ASCII characters stored for device name.
const DeviceNameMaxChars = 16

// SecondsMax is the saturation value of SlotSecondsNotRunning.
const SecondsMax uint16 = 65535

// ---- STATUS CODES ----

// CodeUnknown represents an unknown or boot state.
const CodeUnknown uint16 = 0

// CodeRunning mirrors evaluator RUNNING.
const CodeRunning uint16 = 1

// CodeWarning mirrors evaluator WARNING.
const CodeWarning uint16 = 2

// CodeAlarm mirrors evaluator ALARM.
const CodeAlarm uint16 = 3

// CodeSourceError means parameters could not be read or decoded.
const CodeSourceError uint16 = 4

// ---- LAST ERROR CODES ----
// 1..255 are Modbus exception codes passed through from the source device.

// ErrGeneric is any source failure that exposes no code.
const ErrGeneric uint16 = 1

// ErrTimeout means the source did not answer in time.
const ErrTimeout uint16 = 256

// ErrShortBlock means the source returned fewer registers than the parameter block.
const ErrShortBlock uint16 = 257

// ErrUnknownCode means an enum register held an unassigned value.
const ErrUnknownCode uint16 = 258
