// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/anesthesia-monitor/internal/status"
)

// StatusWriter is the delivery-only contract for evaluation status.
// It receives a snapshot and writes it verbatim.
// No logic, no interpretation.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// deviceStatusWriter is the concrete implementation used by the monitor.
type deviceStatusWriter struct {
	plan *StatusPlan
	cli  EndpointClient

	needFull bool
	last     []uint16 // live slots as last delivered
	nameRegs []uint16
}

// liveSlots is the number of leading slots carrying live status.
const liveSlots = status.SlotWarningBits + 1

// NewDeviceStatusWriter builds a status writer if status is enabled for the unit.
// If plan.Status is nil, status is disabled.
func NewDeviceStatusWriter(plan Plan, clients map[string]EndpointClient) (StatusWriter, bool) {
	if plan.Status == nil {
		return nil, false
	}

	sp := plan.Status

	return &deviceStatusWriter{
		plan:     sp,
		cli:      clients[sp.Endpoint],
		needFull: true, // full re-assert on first successful write
		nameRegs: status.EncodeDeviceName(sp.DeviceName),
	}, true
}

// WriteStatus delivers a status snapshot into status memory.
// On any write failure, the next successful call will re-assert the full block.
func (sw *deviceStatusWriter) WriteStatus(s status.Snapshot) error {
	if sw == nil || sw.plan == nil {
		return errors.New("status writer: disabled")
	}
	if sw.cli == nil {
		return fmt.Errorf("status writer: missing client for endpoint %s", sw.plan.Endpoint)
	}

	baseAddr := sw.baseAddr()
	unitID := sw.plan.UnitID
	regs := status.Encode(s)

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		if err := sw.cli.WriteRegisters(unitID, baseAddr, sw.fullBlockRegs(regs)); err != nil {
			sw.needFull = true
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}

		sw.needFull = false
		sw.last = append(sw.last[:0], regs[:liveSlots]...)
		return nil
	}

	// ------------------------------------------------------------
	// Incremental: each run of changed live slots is one write
	// ------------------------------------------------------------
	var errs []string

	for _, run := range changedRuns(sw.last, regs[:liveSlots]) {
		if err := sw.cli.WriteRegisters(
			unitID,
			baseAddr+uint16(run.start),
			regs[run.start:run.end],
		); err != nil {
			errs = append(errs, fmt.Sprintf("slots %d-%d write failed: %v", run.start, run.end-1, err))
			continue
		}
		copy(sw.last[run.start:run.end], regs[run.start:run.end])
	}

	if len(errs) > 0 {
		// Any partial failure introduces doubt; re-assert on next success.
		sw.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}

	return nil
}

// slotRun is a half-open range of slot indices.
type slotRun struct{ start, end int }

// changedRuns returns the maximal runs where next differs from prev.
func changedRuns(prev, next []uint16) []slotRun {
	var runs []slotRun
	for i := 0; i < len(next); i++ {
		if prev[i] == next[i] {
			continue
		}
		j := i + 1
		for j < len(next) && prev[j] != next[j] {
			j++
		}
		runs = append(runs, slotRun{start: i, end: j})
		i = j
	}
	return runs
}

func (sw *deviceStatusWriter) baseAddr() uint16 {
	// Each unit owns a fixed SlotsPerDevice block.
	return sw.plan.BaseSlot * status.SlotsPerDevice
}

func (sw *deviceStatusWriter) fullBlockRegs(live []uint16) []uint16 {
	regs := make([]uint16, status.SlotsPerDevice)
	copy(regs, live[:liveSlots])

	// Reserved slots are left as zero.

	// Device name always lives at the end of the block
	for i := 0; i < status.SlotDeviceNameSlots && i < len(sw.nameRegs); i++ {
		regs[status.SlotDeviceNameStart+i] = sw.nameRegs[i]
	}

	return regs
}
