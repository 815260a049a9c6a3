// internal/writer/builder.go
package writer

import (
	"errors"
	"time"

	cfg "github.com/tamzrod/anesthesia-monitor/internal/config"
	wmodbus "github.com/tamzrod/anesthesia-monitor/internal/writer/modbus"
)

// BuildPlan converts one unit config into a Writer Plan.
// Assumes config has already passed Validate.
func BuildPlan(u cfg.UnitConfig, sm cfg.StatusMemoryConfig) (Plan, error) {
	if u.ID == "" {
		return Plan{}, errors.New("writer: unit.id required")
	}

	plan := Plan{UnitID: u.ID}

	if u.Source.StatusSlot == nil {
		return plan, nil
	}
	if u.Source.StatusUnitID == nil {
		return Plan{}, errors.New("writer: status_unit_id required with status_slot")
	}

	plan.Status = &StatusPlan{
		Endpoint:   sm.Endpoint,
		UnitID:     *u.Source.StatusUnitID,
		BaseSlot:   *u.Source.StatusSlot,
		DeviceName: u.Source.DeviceName,
	}

	return plan, nil
}

// BuildEndpointClients creates one TCP client per unique status endpoint.
func BuildEndpointClients(plans []Plan, timeout time.Duration) (map[string]EndpointClient, func() error, error) {
	unique := map[string]struct{}{}
	for _, p := range plans {
		if p.Status != nil {
			unique[p.Status.Endpoint] = struct{}{}
		}
	}

	clients := make(map[string]EndpointClient)
	var closers []func() error

	for endpoint := range unique {
		c, err := wmodbus.NewEndpointClient(wmodbus.Config{
			Endpoint: endpoint,
			Timeout:  timeout,
		})
		if err != nil {
			for _, fn := range closers {
				_ = fn()
			}
			return nil, nil, err
		}
		clients[endpoint] = c
		closers = append(closers, c.Close)
	}

	closeAll := func() error {
		var last error
		for _, fn := range closers {
			if err := fn(); err != nil {
				last = err
			}
		}
		return last
	}

	return clients, closeAll, nil
}
