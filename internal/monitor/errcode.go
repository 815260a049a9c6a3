// internal/monitor/errcode.go
package monitor

import (
	"errors"
	"net"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/anesthesia-monitor/internal/params"
	"github.com/tamzrod/anesthesia-monitor/internal/status"
)

// errorCode extracts a best-effort uint16 code from a source error.
// If the error does not expose a code, returns status.ErrGeneric.
func errorCode(err error) uint16 {
	if err == nil {
		return 0
	}

	var me *modbus.ModbusError
	if errors.As(err, &me) {
		return uint16(me.ExceptionCode)
	}

	switch {
	case errors.Is(err, params.ErrShortBlock):
		return status.ErrShortBlock
	case errors.Is(err, params.ErrUnknownCode):
		return status.ErrUnknownCode
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return status.ErrTimeout
	}

	type coder interface{ Code() uint16 }

	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}

	return status.ErrGeneric
}
