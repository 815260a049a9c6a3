// internal/poller/poller.go
package poller

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/anesthesia-monitor/internal/params"
)

// Client abstracts the one Modbus operation the poller needs.
type Client interface {
	ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) // FC 3
}

// Factory creates a fresh client. ONE attempt per call.
type Factory func() (Client, error)

// Config is the minimal runtime config the poller needs.
type Config struct {
	UnitID   string
	Interval time.Duration
	Address  uint16 // first register of the parameter block
}

// Poller is a dumb, clock-driven reader.
// It owns the client: a client whose transport fails a read is discarded
// and the factory is asked for a new one on a future cycle. A Modbus
// exception reply proves the link is alive, so the client is kept.
type Poller struct {
	cfg     Config
	client  Client
	factory Factory
}

// New creates a poller with immutable config.
// factory may be nil, in which case a dead client is never replaced.
func New(cfg Config, client Client, factory Factory) (*Poller, error) {
	if cfg.UnitID == "" {
		return nil, errors.New("poller: unit id required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if client == nil && factory == nil {
		return nil, errors.New("poller: client or factory required")
	}
	return &Poller{cfg: cfg, client: client, factory: factory}, nil
}

// PollOnce performs exactly one poll cycle.
// All-or-nothing: any failure aborts the cycle.
func (p *Poller) PollOnce() PollResult {
	res := PollResult{
		UnitID: p.cfg.UnitID,
		At:     time.Now(),
	}

	if p.client == nil {
		if p.factory == nil {
			res.Err = errors.New("poller: no client")
			return res
		}
		c, err := p.factory()
		if err != nil {
			res.Err = fmt.Errorf("poller: connect: %w", err)
			return res
		}
		p.client = c
	}

	regs, err := p.client.ReadHoldingRegisters(p.cfg.Address, params.BlockRegisters)
	if err != nil {
		var me *modbus.ModbusError
		if !errors.As(err, &me) {
			p.discard()
		}
		res.Err = err
		return res
	}

	snap, err := params.Decode(regs)
	if err != nil {
		res.Err = err
		return res
	}

	res.Snapshot = snap
	return res
}

// Close releases the current client, if any.
func (p *Poller) Close() error {
	c := p.client
	p.client = nil
	if cl, ok := c.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}

func (p *Poller) discard() {
	if p.factory == nil {
		return
	}
	_ = p.Close()
}
