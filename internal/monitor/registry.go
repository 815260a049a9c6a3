// internal/monitor/registry.go
package monitor

import (
	"fmt"
	"sync"
)

// Registry indexes units by id, preserving config order.
type Registry struct {
	mu    sync.RWMutex
	order []*Unit
	byID  map[string]*Unit
}

func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Unit)}
}

// Add registers a unit. Duplicate ids are rejected.
func (r *Registry) Add(u *Unit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.byID[u.ID()]; dup {
		return fmt.Errorf("monitor: duplicate unit %q", u.ID())
	}
	r.byID[u.ID()] = u
	r.order = append(r.order, u)
	return nil
}

// Get returns the latest view of one unit.
func (r *Registry) Get(id string) (View, bool) {
	r.mu.RLock()
	u, ok := r.byID[id]
	r.mu.RUnlock()

	if !ok {
		return View{}, false
	}
	return u.View(), true
}

// List returns the latest view of every unit in registration order.
func (r *Registry) List() []View {
	r.mu.RLock()
	units := append([]*Unit(nil), r.order...)
	r.mu.RUnlock()

	out := make([]View, 0, len(units))
	for _, u := range units {
		out = append(out, u.View())
	}
	return out
}
