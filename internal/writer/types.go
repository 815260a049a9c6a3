// internal/writer/types.go
package writer

// StatusPlan is where one unit's evaluation status block lives.
type StatusPlan struct {
	Endpoint   string
	UnitID     uint8
	BaseSlot   uint16
	DeviceName string
}

// Plan is the fully-built write plan for one unit.
// Status is nil when the unit did not opt in.
type Plan struct {
	UnitID string
	Status *StatusPlan
}

// EndpointClient is the exact contract the writer uses.
// IMPORTANT: There must be NO other version of this interface anywhere.
type EndpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}
