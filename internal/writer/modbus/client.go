// internal/writer/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// MaxWriteRegisters is the FC 16 quantity limit.
const MaxWriteRegisters = 123

// registerWriter is the one goburrow call the status path needs.
type registerWriter interface {
	WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error)
}

// EndpointClient is a single TCP connection to one status memory endpoint.
// Requests are serialized because the slave id lives on the shared handler.
// goburrow reconnects on the next request after a transport failure.
type EndpointClient struct {
	mu       sync.Mutex
	endpoint string
	handler  *modbus.TCPClientHandler
	regs     registerWriter
	setUnit  func(uint8)
}

type Config struct {
	Endpoint    string
	Timeout     time.Duration
	IdleTimeout time.Duration // 0 keeps goburrow's default
}

// NewEndpointClient dials the endpoint once. Failure is returned, not retried.
func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("writer modbus: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	if cfg.IdleTimeout > 0 {
		h.IdleTimeout = cfg.IdleTimeout
	}

	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("writer modbus: connect %s: %w", cfg.Endpoint, err)
	}

	return &EndpointClient{
		endpoint: cfg.Endpoint,
		handler:  h,
		regs:     modbus.NewClient(h),
		setUnit:  func(id uint8) { h.SlaveId = id },
	}, nil
}

func (c *EndpointClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handler == nil {
		return nil
	}
	return c.handler.Close()
}

// WriteRegisters writes holding registers (FC 16) on the given unit.
func (c *EndpointClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	if len(regs) == 0 {
		return errors.New("writer modbus: empty write")
	}
	if len(regs) > MaxWriteRegisters {
		return fmt.Errorf("writer modbus: %d registers exceeds FC16 limit %d", len(regs), MaxWriteRegisters)
	}
	if int(addr)+len(regs)-1 > 0xFFFF {
		return fmt.Errorf("writer modbus: write at %d of %d registers overflows address space", addr, len(regs))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.setUnit(unitID)

	if _, err := c.regs.WriteMultipleRegisters(addr, uint16(len(regs)), packRegisters(regs)); err != nil {
		return fmt.Errorf("writer modbus: %s unit=%d addr=%d qty=%d: %w", c.endpoint, unitID, addr, len(regs), err)
	}
	return nil
}

// Modbus register memory order (BIG-ENDIAN)
func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}
