// internal/writer/device_status_writer_test.go
package writer

import (
	"errors"
	"testing"

	cfg "github.com/tamzrod/anesthesia-monitor/internal/config"
	"github.com/tamzrod/anesthesia-monitor/internal/status"
)

// ---- fake endpoint client ----

type writeCall struct {
	unitID uint8
	addr   uint16
	regs   []uint16
}

type fakeEndpointClient struct {
	writes []writeCall
	fail   bool
}

func (f *fakeEndpointClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	if f.fail {
		return errors.New("write refused")
	}
	cp := append([]uint16(nil), regs...)
	f.writes = append(f.writes, writeCall{unitID: unitID, addr: addr, regs: cp})
	return nil
}

func (f *fakeEndpointClient) last() writeCall {
	return f.writes[len(f.writes)-1]
}

func newTestWriter(t *testing.T, cli *fakeEndpointClient, baseSlot uint16) StatusWriter {
	t.Helper()

	plan := Plan{
		UnitID: "or-1",
		Status: &StatusPlan{
			Endpoint:   "status-endpoint",
			UnitID:     1,
			BaseSlot:   baseSlot,
			DeviceName: "OR-1 DRAEGER",
		},
	}

	sw, enabled := NewDeviceStatusWriter(plan, map[string]EndpointClient{
		"status-endpoint": cli,
	})
	if !enabled {
		t.Fatalf("status writer should be enabled")
	}
	return sw
}

// ---- tests ----

func TestDeviceNameWrittenOnFullAssertOnly(t *testing.T) {
	cli := &fakeEndpointClient{}
	sw := newTestWriter(t, cli, 0)

	// ---- first write: FULL ASSERT ----
	first := status.Snapshot{StatusCode: status.CodeRunning, MinuteVentilation: 560}

	if err := sw.WriteStatus(first); err != nil {
		t.Fatalf("initial full assert failed: %v", err)
	}

	full := cli.last()
	if len(full.regs) != status.SlotsPerDevice {
		t.Fatalf("expected full block write (%d regs), got %d", status.SlotsPerDevice, len(full.regs))
	}
	if full.regs[status.SlotStatusCode] != status.CodeRunning {
		t.Fatalf("status code slot: got=%d", full.regs[status.SlotStatusCode])
	}
	if full.regs[status.SlotMinuteVentilation] != 560 {
		t.Fatalf("mv slot: got=%d", full.regs[status.SlotMinuteVentilation])
	}

	expectedNameRegs := status.EncodeDeviceName("OR-1 DRAEGER")
	for i := 0; i < status.SlotDeviceNameSlots; i++ {
		slot := status.SlotDeviceNameStart + i
		if full.regs[slot] != expectedNameRegs[i] {
			t.Fatalf("device name slot %d mismatch: got=%d want=%d", slot, full.regs[slot], expectedNameRegs[i])
		}
	}

	// ---- second write: INCREMENTAL ONLY ----
	second := first
	second.StatusCode = status.CodeWarning
	second.WarningCount = 1

	if err := sw.WriteStatus(second); err != nil {
		t.Fatalf("incremental write failed: %v", err)
	}

	incr := cli.writes[1:]
	if len(incr) != 2 {
		t.Fatalf("expected 2 single-slot writes, got %d", len(incr))
	}
	for _, w := range incr {
		if len(w.regs) != 1 {
			t.Fatalf("device name should not be rewritten on incremental update")
		}
	}
	if incr[0].addr != status.SlotStatusCode || incr[0].regs[0] != status.CodeWarning {
		t.Fatalf("unexpected first incremental write: %+v", incr[0])
	}
	if incr[1].addr != status.SlotWarningCount || incr[1].regs[0] != 1 {
		t.Fatalf("unexpected second incremental write: %+v", incr[1])
	}
}

func TestUnchangedSnapshotWritesNothing(t *testing.T) {
	cli := &fakeEndpointClient{}
	sw := newTestWriter(t, cli, 0)

	s := status.Snapshot{StatusCode: status.CodeAlarm, AlarmCount: 2, AlarmBits: 0x0006}

	if err := sw.WriteStatus(s); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := sw.WriteStatus(s); err != nil {
		t.Fatalf("second write: %v", err)
	}

	if len(cli.writes) != 1 {
		t.Fatalf("expected only the full assert, got %d writes", len(cli.writes))
	}
}

func TestSecondsNotRunningResetOnRecovery(t *testing.T) {
	cli := &fakeEndpointClient{}
	sw := newTestWriter(t, cli, 3)

	alarm := status.Snapshot{StatusCode: status.CodeAlarm, SecondsNotRunning: 3}
	if err := sw.WriteStatus(alarm); err != nil {
		t.Fatalf("alarm snapshot write failed: %v", err)
	}

	running := status.Snapshot{StatusCode: status.CodeRunning}
	if err := sw.WriteStatus(running); err != nil {
		t.Fatalf("recovery snapshot write failed: %v", err)
	}

	w := cli.last()
	expectedAddr := uint16(3*status.SlotsPerDevice + status.SlotSecondsNotRunning)

	if w.addr != expectedAddr {
		t.Fatalf("unexpected write addr: got=%d want=%d", w.addr, expectedAddr)
	}
	if len(w.regs) != 1 || w.regs[0] != 0 {
		t.Fatalf("seconds_not_running not reset: got=%v", w.regs)
	}
}

func TestFailureForcesFullReassert(t *testing.T) {
	cli := &fakeEndpointClient{}
	sw := newTestWriter(t, cli, 1)

	if err := sw.WriteStatus(status.Snapshot{StatusCode: status.CodeRunning}); err != nil {
		t.Fatalf("first write: %v", err)
	}

	cli.fail = true
	if err := sw.WriteStatus(status.Snapshot{StatusCode: status.CodeAlarm}); err == nil {
		t.Fatalf("expected error while endpoint refuses writes")
	}

	cli.fail = false
	if err := sw.WriteStatus(status.Snapshot{StatusCode: status.CodeAlarm}); err != nil {
		t.Fatalf("write after recovery: %v", err)
	}

	w := cli.last()
	if len(w.regs) != status.SlotsPerDevice {
		t.Fatalf("expected full re-assert after failure, got %d regs", len(w.regs))
	}
	if w.addr != status.SlotsPerDevice {
		t.Fatalf("full block addr: got=%d want=%d", w.addr, status.SlotsPerDevice)
	}
	if w.unitID != 1 {
		t.Fatalf("unit id: got=%d", w.unitID)
	}
}

func TestMissingClientIsError(t *testing.T) {
	plan := Plan{Status: &StatusPlan{Endpoint: "nowhere"}}

	sw, enabled := NewDeviceStatusWriter(plan, map[string]EndpointClient{})
	if !enabled {
		t.Fatalf("status writer should be enabled")
	}
	if err := sw.WriteStatus(status.Snapshot{}); err == nil {
		t.Fatalf("expected error for missing endpoint client")
	}
}

func TestStatusDisabledWithoutPlan(t *testing.T) {
	if _, enabled := NewDeviceStatusWriter(Plan{UnitID: "or-1"}, nil); enabled {
		t.Fatalf("status writer should be disabled")
	}
}

func TestBuildPlan(t *testing.T) {
	slot := uint16(2)
	sid := uint8(9)

	u := cfg.UnitConfig{
		ID: "or-2",
		Source: cfg.SourceConfig{
			Endpoint:     "10.0.0.2:502",
			StatusSlot:   &slot,
			StatusUnitID: &sid,
			DeviceName:   "OR-2",
		},
	}
	sm := cfg.StatusMemoryConfig{Endpoint: "10.0.0.100:502"}

	p, err := BuildPlan(u, sm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status == nil {
		t.Fatalf("expected status plan")
	}
	if p.Status.Endpoint != "10.0.0.100:502" || p.Status.UnitID != 9 || p.Status.BaseSlot != 2 || p.Status.DeviceName != "OR-2" {
		t.Fatalf("unexpected status plan: %+v", *p.Status)
	}

	u.Source.StatusSlot = nil
	p, err = BuildPlan(u, sm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != nil {
		t.Fatalf("expected no status plan without status_slot")
	}

	if _, err := BuildPlan(cfg.UnitConfig{}, sm); err == nil {
		t.Fatalf("expected error for missing unit id")
	}
}

func TestContiguousChangesCoalesce(t *testing.T) {
	cli := &fakeEndpointClient{}
	sw := newTestWriter(t, cli, 0)

	if err := sw.WriteStatus(status.Snapshot{StatusCode: status.CodeRunning, MinuteVentilation: 600, TidalVolumePerKg: 714}); err != nil {
		t.Fatalf("first write: %v", err)
	}

	// slots 3..8 change together, slot 0 changes alone
	next := status.Snapshot{
		StatusCode:        status.CodeAlarm,
		AlarmCount:        2,
		WarningCount:      1,
		MinuteVentilation: 200,
		TidalVolumePerKg:  357,
		AlarmBits:         0x0600,
		WarningBits:       0x0001,
	}
	if err := sw.WriteStatus(next); err != nil {
		t.Fatalf("incremental write: %v", err)
	}

	incr := cli.writes[1:]
	if len(incr) != 2 {
		t.Fatalf("expected 2 coalesced writes, got %d: %+v", len(incr), incr)
	}
	if incr[0].addr != status.SlotStatusCode || len(incr[0].regs) != 1 {
		t.Fatalf("unexpected first run: %+v", incr[0])
	}
	if incr[1].addr != status.SlotAlarmCount || len(incr[1].regs) != 6 {
		t.Fatalf("unexpected second run: %+v", incr[1])
	}
	if incr[1].regs[0] != 2 || incr[1].regs[5] != 0x0001 {
		t.Fatalf("unexpected run payload: %v", incr[1].regs)
	}
}

func TestChangedRuns(t *testing.T) {
	cases := []struct {
		name       string
		prev, next []uint16
		want       []slotRun
	}{
		{"none", []uint16{1, 2, 3}, []uint16{1, 2, 3}, nil},
		{"all", []uint16{1, 2, 3}, []uint16{4, 5, 6}, []slotRun{{0, 3}}},
		{"split", []uint16{1, 2, 3, 4}, []uint16{9, 2, 9, 9}, []slotRun{{0, 1}, {2, 4}}},
		{"middle", []uint16{1, 2, 3}, []uint16{1, 9, 3}, []slotRun{{1, 2}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := changedRuns(tc.prev, tc.next)
			if len(got) != len(tc.want) {
				t.Fatalf("got=%v want=%v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got=%v want=%v", got, tc.want)
				}
			}
		})
	}
}
