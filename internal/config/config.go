// internal/config/config.go
package config

type Config struct {
	Monitor MonitorConfig `yaml:"monitor"`
}

type MonitorConfig struct {
	HTTP         HTTPConfig         `yaml:"http"`
	StatusMemory StatusMemoryConfig `yaml:"status_memory"`
	Events       EventsConfig       `yaml:"events"`
	Units        []UnitConfig       `yaml:"units"`
}

// ---- HTTP ----

type HTTPConfig struct {
	Listen     string  `yaml:"listen"`
	RatePerSec float64 `yaml:"rate_per_sec"`
	Burst      int     `yaml:"burst"`
}

// ---- STATUS MEMORY ----

// StatusMemoryConfig is the Modbus endpoint that receives evaluation status blocks.
type StatusMemoryConfig struct {
	Endpoint  string `yaml:"endpoint"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- EVENTS ----

// EventsConfig enables status transition publishing. Empty brokers => disabled.
type EventsConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// ---- UNIT ----

// UnitConfig is one anesthesia workstation.
type UnitConfig struct {
	ID     string       `yaml:"id"`
	Source SourceConfig `yaml:"source"`
	Poll   PollConfig   `yaml:"poll"`
}

// ---- SOURCE ----

type SourceConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`

	// Address is the first holding register of the parameter block.
	Address uint16 `yaml:"address"`

	// Evaluation status block (optional, opt-in)
	StatusSlot   *uint16 `yaml:"status_slot"`
	StatusUnitID *uint8  `yaml:"status_unit_id"`
	DeviceName   string  `yaml:"device_name"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}
