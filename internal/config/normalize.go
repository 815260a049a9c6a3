// internal/config/normalize.go
package config

import "github.com/tamzrod/anesthesia-monitor/internal/status"

const (
	defaultListen     = ":8080"
	defaultRatePerSec = 20
	defaultBurst      = 40
	defaultTimeoutMs  = 1000
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	m := &cfg.Monitor

	if m.HTTP.Listen == "" {
		m.HTTP.Listen = defaultListen
	}
	if m.HTTP.RatePerSec == 0 {
		m.HTTP.RatePerSec = defaultRatePerSec
	}
	if m.HTTP.Burst == 0 {
		m.HTTP.Burst = defaultBurst
	}
	if m.StatusMemory.TimeoutMs == 0 {
		m.StatusMemory.TimeoutMs = defaultTimeoutMs
	}

	for ui := range m.Units {
		u := &m.Units[ui]

		if u.Source.TimeoutMs == 0 {
			u.Source.TimeoutMs = defaultTimeoutMs
		}

		// Device name only travels inside the status block:
		// - ASCII already validated
		// - Truncate to the block's character budget
		if len(u.Source.DeviceName) > status.DeviceNameMaxChars {
			u.Source.DeviceName = u.Source.DeviceName[:status.DeviceNameMaxChars]
		}
	}
}
