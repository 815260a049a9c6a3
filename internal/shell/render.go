// internal/shell/render.go
package shell

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tamzrod/anesthesia-monitor/internal/evaluator"
)

// Banner texts shown above the result.
const (
	BannerIdle         = "IDLE – Enter parameters and press START"
	BannerRunning      = "RUNNING – Parameters accepted"
	BannerWarning      = "WARNING – Review recommended"
	BannerAlarm        = "⛔ HIGH PRIORITY ALARM – Correct now"
	BannerInvalidInput = "ALARM – Invalid numeric input"
)

// Banner returns the banner line for a status.
func Banner(s evaluator.Status) string {
	switch s {
	case evaluator.StatusRunning:
		return BannerRunning
	case evaluator.StatusWarning:
		return BannerWarning
	default:
		return BannerAlarm
	}
}

// Render writes the operator view of one result.
func Render(w io.Writer, r evaluator.Result) error {
	var b strings.Builder

	b.WriteString(Banner(r.Status))
	b.WriteString("\n\n")

	if c := r.Computed; c != nil {
		b.WriteString("CALCULATED\n")
		fmt.Fprintf(&b, "- Minute Ventilation (MV): %s L/min\n", formatValue(c.MinuteVentilationLmin))
		fmt.Fprintf(&b, "- VT per kg: %s mL/kg (target %s)\n", formatValue(c.TidalVolumeMlPerKg), c.TidalVolumeTarget)
		b.WriteString("\n")
	}

	if len(r.Alarms) > 0 {
		b.WriteString("⛔ ALARMS\n")
		for _, a := range r.Alarms {
			fmt.Fprintf(&b, "- %s\n", a.Message)
		}
		b.WriteString("\n")
	}

	if len(r.Warnings) > 0 {
		b.WriteString("⚠ WARNINGS\n")
		for _, wn := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", wn.Message)
		}
		b.WriteString("\n")
	}

	if len(r.Alarms) == 0 && len(r.Warnings) == 0 {
		b.WriteString("✅ No issues detected. Minimum and clinical checks passed.\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderInvalidInput writes the view shown when conversion failed.
func RenderInvalidInput(w io.Writer) error {
	_, err := io.WriteString(w, BannerInvalidInput+"\n\n⛔ Please enter valid numbers in all fields.\n")
	return err
}

// formatValue prints the shortest exact form, always with a decimal point (6 -> "6.0").
func formatValue(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
