// internal/config/validate.go
package config

import (
	"errors"
	"fmt"

	"github.com/tamzrod/anesthesia-monitor/internal/params"
	"github.com/tamzrod/anesthesia-monitor/internal/status"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil")
	}

	m := cfg.Monitor

	if len(m.Units) == 0 {
		return errors.New("monitor.units: at least one unit required")
	}

	// ------------------------------------------------------------
	// HTTP / EVENTS
	// ------------------------------------------------------------

	if m.HTTP.RatePerSec < 0 {
		return errors.New("monitor.http.rate_per_sec must be >= 0")
	}
	if m.HTTP.Burst < 0 {
		return errors.New("monitor.http.burst must be >= 0")
	}
	if len(m.Events.Brokers) > 0 && m.Events.Topic == "" {
		return errors.New("monitor.events: topic required when brokers are set")
	}

	// ------------------------------------------------------------
	// UNIT IDENTITY + SOURCE
	// ------------------------------------------------------------

	seen := make(map[string]struct{})

	for _, u := range m.Units {
		if u.ID == "" {
			return errors.New("unit: id required")
		}
		if _, dup := seen[u.ID]; dup {
			return fmt.Errorf("unit %q: duplicate id", u.ID)
		}
		seen[u.ID] = struct{}{}

		if u.Source.Endpoint == "" {
			return fmt.Errorf("unit %q: source.endpoint required", u.ID)
		}
		if u.Poll.IntervalMs <= 0 {
			return fmt.Errorf("unit %q: poll.interval_ms must be > 0", u.ID)
		}
		if u.Source.TimeoutMs < 0 {
			return fmt.Errorf("unit %q: source.timeout_ms must be >= 0", u.ID)
		}

		// parameter block must fit in the 16-bit register space
		if int(u.Source.Address)+params.BlockRegisters-1 > 0xFFFF {
			return fmt.Errorf(
				"unit %q: parameter block at address %d overflows register space",
				u.ID,
				u.Source.Address,
			)
		}

		// device_name sanity (ASCII only)
		for i := 0; i < len(u.Source.DeviceName); i++ {
			if u.Source.DeviceName[i] > 0x7F {
				return fmt.Errorf(
					"unit %q: device_name must contain ASCII characters only",
					u.ID,
				)
			}
		}
	}

	// ------------------------------------------------------------
	// EVALUATION STATUS BLOCK VALIDATION (OPT-IN)
	// ------------------------------------------------------------

	// key = endpoint | status_unit_id | status_slot
	statusOwner := make(map[string]string)

	for _, u := range m.Units {
		// status is opt-in
		if u.Source.StatusSlot == nil {
			continue
		}

		if m.StatusMemory.Endpoint == "" {
			return fmt.Errorf(
				"unit %q: status_slot is set but monitor.status_memory.endpoint is empty",
				u.ID,
			)
		}
		if u.Source.StatusUnitID == nil {
			return fmt.Errorf(
				"unit %q: status_slot is set but status_unit_id is missing",
				u.ID,
			)
		}

		slot := *u.Source.StatusSlot

		// the whole block must stay addressable
		if (int(slot)+1)*status.SlotsPerDevice-1 > 0xFFFF {
			return fmt.Errorf("unit %q: status_slot %d out of range", u.ID, slot)
		}

		key := fmt.Sprintf(
			"%s|%d|%d",
			m.StatusMemory.Endpoint,
			*u.Source.StatusUnitID,
			slot,
		)

		if prev, exists := statusOwner[key]; exists {
			return fmt.Errorf(
				"status_slot collision: endpoint=%s status_unit_id=%d slot=%d used by units %q and %q",
				m.StatusMemory.Endpoint,
				*u.Source.StatusUnitID,
				slot,
				prev,
				u.ID,
			)
		}

		statusOwner[key] = u.ID
	}

	return nil
}
