// cmd/monitor/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/tamzrod/anesthesia-monitor/internal/api"
	"github.com/tamzrod/anesthesia-monitor/internal/config"
	"github.com/tamzrod/anesthesia-monitor/internal/events"
	"github.com/tamzrod/anesthesia-monitor/internal/monitor"
	"github.com/tamzrod/anesthesia-monitor/internal/poller"
	"github.com/tamzrod/anesthesia-monitor/internal/writer"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: monitor <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	config.Normalize(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mc := cfg.Monitor

	// --------------------
	// Shared sinks
	// --------------------

	var pub monitor.Publisher
	ep, err := events.New(mc.Events)
	if err != nil {
		log.Fatalf("events publisher failed: %v", err)
	}
	if ep != nil {
		pub = ep
		defer ep.Close()
	}

	plans := make([]writer.Plan, 0, len(mc.Units))
	for _, unit := range mc.Units {
		plan, err := writer.BuildPlan(unit, mc.StatusMemory)
		if err != nil {
			log.Fatalf("writer plan failed (unit=%s): %v", unit.ID, err)
		}
		plans = append(plans, plan)
	}

	clients, closeWriters, err := writer.BuildEndpointClients(
		plans,
		time.Duration(mc.StatusMemory.TimeoutMs)*time.Millisecond,
	)
	if err != nil {
		log.Fatalf("status memory clients failed: %v", err)
	}
	defer closeWriters()

	registry := monitor.NewRegistry()

	// Unit loops must be gone before the deferred closes release their clients.
	var wg sync.WaitGroup

	// --------------------
	// Build per-unit pipelines
	// --------------------

	for i, unit := range mc.Units {

		// ---- poller ----
		p, closePoller, err := poller.Build(unit)
		if err != nil {
			log.Fatalf("poller build failed (unit=%s): %v", unit.ID, err)
		}
		defer closePoller()

		// Status writer (optional per unit)
		var sw writer.StatusWriter
		if w, enabled := writer.NewDeviceStatusWriter(plans[i], clients); enabled {
			sw = w
		}

		u, err := monitor.NewUnit(unit.ID, unit.Source.DeviceName, sw, pub)
		if err != nil {
			log.Fatalf("monitor unit failed (unit=%s): %v", unit.ID, err)
		}
		if err := registry.Add(u); err != nil {
			log.Fatalf("monitor unit failed (unit=%s): %v", unit.ID, err)
		}

		monitor.Launch(ctx, &wg, u, p)

		log.Printf("unit started (unit=%s endpoint=%s interval=%dms)", unit.ID, unit.Source.Endpoint, unit.Poll.IntervalMs)
	}

	// --------------------
	// HTTP API
	// --------------------

	srv := &http.Server{
		Addr: mc.HTTP.Listen,
		Handler: api.NewRouter(api.NewHandler(registry), api.Options{
			RatePerSec: mc.HTTP.RatePerSec,
			Burst:      mc.HTTP.Burst,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("http listening on %s", mc.HTTP.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}

	wg.Wait()
	log.Printf("stopped")
}
