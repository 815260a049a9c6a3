// internal/monitor/unit.go
package monitor

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/tamzrod/anesthesia-monitor/internal/evaluator"
	"github.com/tamzrod/anesthesia-monitor/internal/events"
	"github.com/tamzrod/anesthesia-monitor/internal/metrics"
	"github.com/tamzrod/anesthesia-monitor/internal/poller"
	"github.com/tamzrod/anesthesia-monitor/internal/status"
	"github.com/tamzrod/anesthesia-monitor/internal/writer"
)

// Publisher receives status transitions. *events.Publisher satisfies it.
type Publisher interface {
	Publish(ctx context.Context, t events.Transition) error
}

// View is the latest known state of one unit, safe to hand out.
type View struct {
	UnitID            string                       `json:"unit"`
	DeviceName        string                       `json:"deviceName,omitempty"`
	Status            string                       `json:"status"`
	StatusCode        uint16                       `json:"statusCode"`
	LastErrorCode     uint16                       `json:"lastErrorCode"`
	SourceError       string                       `json:"sourceError,omitempty"`
	SecondsNotRunning uint16                       `json:"secondsNotRunning"`
	PolledAt          time.Time                    `json:"polledAt,omitempty"`
	Parameters        *evaluator.ParameterSnapshot `json:"parameters,omitempty"`
	Result            *evaluator.Result            `json:"result,omitempty"`
}

// Unit owns the runtime state of one workstation.
// Handle and Tick must be called from a single goroutine (Run does this).
// View may be called from anywhere.
type Unit struct {
	id         string
	deviceName string

	sw  writer.StatusWriter // nil => status block disabled
	pub Publisher           // nil => no transition events

	mu   sync.RWMutex
	snap status.Snapshot
	view View

	writePending bool // last delivery failed or never happened
}

// NewUnit creates the runtime state for one unit in UNKNOWN state.
func NewUnit(id, deviceName string, sw writer.StatusWriter, pub Publisher) (*Unit, error) {
	if id == "" {
		return nil, errors.New("monitor: unit id required")
	}
	u := &Unit{
		id:           id,
		deviceName:   deviceName,
		sw:           sw,
		pub:          pub,
		writePending: true,
	}
	u.view = View{
		UnitID:     id,
		DeviceName: deviceName,
		Status:     status.CodeName(status.CodeUnknown),
	}
	return u, nil
}

// ID returns the unit id.
func (u *Unit) ID() string { return u.id }

// View returns a copy of the latest state.
func (u *Unit) View() View {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.view
}

// Start asserts the initial (UNKNOWN) block so status memory carries identity early.
func (u *Unit) Start() {
	u.deliver(u.current())
}

// Handle folds one poll result into the unit state.
func (u *Unit) Handle(ctx context.Context, res poller.PollResult) {
	u.mu.Lock()
	prev := u.snap
	next := u.snap

	view := u.view
	view.PolledAt = res.At

	var result *evaluator.Result

	if res.Err != nil {
		next.ApplySourceError(errorCode(res.Err))
		view.SourceError = res.Err.Error()
		view.Parameters = nil
		view.Result = nil
	} else {
		r := evaluator.Evaluate(res.Snapshot)
		result = &r

		next.ApplyResult(r)
		next.LastErrorCode = 0

		ps := res.Snapshot
		view.SourceError = ""
		view.Parameters = &ps
		view.Result = result
	}

	// seconds_not_running only counts up on the 1 Hz tick.
	if next.StatusCode == status.CodeRunning {
		next.SecondsNotRunning = 0
	}

	u.snap = next
	u.view = applySnapshot(view, next)
	u.mu.Unlock()

	// ---- side effects (outside the lock) ----

	if res.Err != nil {
		metrics.RecordSourceError(u.id)
		// log on entry and when the code changes, not on every failed cycle
		if prev.StatusCode != status.CodeSourceError || prev.LastErrorCode != next.LastErrorCode {
			log.Printf("poll failed (unit=%s code=%d): %v", u.id, next.LastErrorCode, res.Err)
		}
	} else {
		metrics.RecordEvaluation("poll", string(result.Status), codes(result.Alarms), codes(result.Warnings))
	}
	metrics.RecordUnitStatus(u.id, next.StatusCode)

	if next != prev || u.writePending {
		u.deliver(next)
	}

	if next.StatusCode != prev.StatusCode {
		u.publish(ctx, prev.StatusCode, next.StatusCode, result)
	}
}

// Tick advances seconds_not_running while the unit is not RUNNING. Called at 1 Hz.
// A pending (failed) delivery is retried here as well.
func (u *Unit) Tick() {
	u.mu.Lock()
	counting := u.snap.StatusCode != status.CodeRunning && u.snap.SecondsNotRunning < status.SecondsMax
	if counting {
		u.snap.SecondsNotRunning++
		u.view.SecondsNotRunning = u.snap.SecondsNotRunning
	}
	snap := u.snap
	u.mu.Unlock()

	if counting || u.writePending {
		u.deliver(snap)
	}
}

// Run consumes poll results and ticks once per second until ctx is done.
func (u *Unit) Run(ctx context.Context, in <-chan poller.PollResult) {
	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	u.Start()

	for {
		select {
		case <-ctx.Done():
			return
		case res := <-in:
			u.Handle(ctx, res)
		case <-secTicker.C:
			u.Tick()
		}
	}
}

func (u *Unit) current() status.Snapshot {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.snap
}

func (u *Unit) deliver(s status.Snapshot) {
	if u.sw == nil {
		return
	}
	if err := u.sw.WriteStatus(s); err != nil {
		u.writePending = true
		metrics.RecordStatusWriteError(u.id)
		log.Printf("status write failed (unit=%s): %v", u.id, err)
		return
	}
	u.writePending = false
}

func (u *Unit) publish(ctx context.Context, from, to uint16, r *evaluator.Result) {
	if u.pub == nil {
		return
	}

	t := events.Transition{
		UnitID:   u.id,
		At:       time.Now().UTC(),
		From:     status.CodeName(from),
		To:       status.CodeName(to),
		Alarms:   []string{},
		Warnings: []string{},
	}
	if r != nil {
		t.Alarms = r.AlarmMessages()
		t.Warnings = r.WarningMessages()
	}

	if err := u.pub.Publish(ctx, t); err != nil {
		metrics.RecordEventPublishError(u.id)
		log.Printf("event publish failed (unit=%s): %v", u.id, err)
	}
}

func applySnapshot(v View, s status.Snapshot) View {
	v.Status = status.CodeName(s.StatusCode)
	v.StatusCode = s.StatusCode
	v.LastErrorCode = s.LastErrorCode
	v.SecondsNotRunning = s.SecondsNotRunning
	return v
}

func codes(fs []evaluator.Finding) []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, string(f.Code))
	}
	return out
}
