// internal/poller/builder.go
package poller

import (
	"time"

	cfg "github.com/tamzrod/anesthesia-monitor/internal/config"
	pmodbus "github.com/tamzrod/anesthesia-monitor/internal/poller/modbus"
)

// Build constructs a Poller and wires Modbus client lifecycle.
// Connection is reused while healthy.
// On transport death, Poller discards the client and uses factory on a future tick.
// No retries, no loops, no semantics.
func Build(u cfg.UnitConfig) (*Poller, func() error, error) {
	// client factory: ONE attempt per call
	factory := func() (Client, error) {
		return pmodbus.New(pmodbus.Config{
			Endpoint: u.Source.Endpoint,
			UnitID:   u.Source.UnitID,
			Timeout:  time.Duration(u.Source.TimeoutMs) * time.Millisecond,
		})
	}

	// initial client (fail fast at startup)
	client, err := factory()
	if err != nil {
		return nil, nil, err
	}

	p, err := New(
		Config{
			UnitID:   u.ID,
			Interval: time.Duration(u.Poll.IntervalMs) * time.Millisecond,
			Address:  u.Source.Address,
		},
		client,
		factory,
	)
	if err != nil {
		return nil, nil, err
	}

	return p, p.Close, nil
}
