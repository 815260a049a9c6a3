// cmd/evaluate/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tamzrod/anesthesia-monitor/internal/evaluator"
	"github.com/tamzrod/anesthesia-monitor/internal/shell"
)

// One-shot evaluation of operator-typed parameters.
// Exit status: 0 RUNNING, 1 WARNING, 2 ALARM (including invalid input), 3 usage.
func main() {
	d := shell.Defaults()
	in := d

	fs := flag.NewFlagSet("evaluate", flag.ContinueOnError)
	fs.StringVar(&in.PatientType, "patient", d.PatientType, "patient type (adult|pediatric)")
	fs.StringVar(&in.WeightKg, "weight", d.WeightKg, "weight (kg)")
	fs.StringVar(&in.FiO2Percent, "fio2", d.FiO2Percent, "FiO2 (%)")
	fs.StringVar(&in.FreshGasFlow, "fgf", d.FreshGasFlow, "fresh gas flow (L/min)")
	fs.StringVar(&in.Agent, "agent", d.Agent, "volatile agent (Sevoflurane|Isoflurane|Desflurane)")
	fs.StringVar(&in.AgentPercent, "agent-pct", d.AgentPercent, "agent concentration (%)")
	fs.StringVar(&in.AirwayPressure, "pressure", d.AirwayPressure, "airway pressure (cmH2O)")
	fs.StringVar(&in.TidalVolume, "vt", d.TidalVolume, "tidal volume (mL)")
	fs.StringVar(&in.RespRate, "rr", d.RespRate, "respiratory rate (bpm)")
	fs.BoolVar(&in.HypoxicGuardEnabled, "hypoxic-guard", d.HypoxicGuardEnabled, "enable hypoxic guard (FiO2 must be >= 25%)")

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(3)
	}

	p, err := shell.Parse(in)
	if err != nil {
		if errors.Is(err, shell.ErrInvalidChoice) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(3)
		}
		if err := shell.RenderInvalidInput(os.Stdout); err != nil {
			log.Fatalf("render: %v", err)
		}
		os.Exit(2)
	}

	res := evaluator.Evaluate(p)
	if err := shell.Render(os.Stdout, res); err != nil {
		log.Fatalf("render: %v", err)
	}

	switch res.Status {
	case evaluator.StatusRunning:
		os.Exit(0)
	case evaluator.StatusWarning:
		os.Exit(1)
	default:
		os.Exit(2)
	}
}
