// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/anesthesia-monitor/internal/evaluator"
)

// PollResult is one decoded parameter snapshot from a workstation.
type PollResult struct {
	UnitID string
	At     time.Time

	// Snapshot is valid only when Err is nil.
	Snapshot evaluator.ParameterSnapshot
	Err      error // non-nil means the poll cycle failed (transport or decode)
}
