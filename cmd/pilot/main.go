package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stardrift/config"
	"stardrift/pilot"
	"stardrift/sim"
)

func main() {
	cfgPath := flag.String("config", "stardrift.toml", "Path to config file")
	serverURL := flag.String("server", "", "Relay WebSocket URL (overrides config)")
	name := flag.String("name", "", "Pilot name (overrides config)")
	seed := flag.Int64("seed", 0, "Autopilot seed, 0 = time-based")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *serverURL != "" {
		cfg.Pilot.ServerURL = *serverURL
	}
	if *name != "" {
		cfg.Pilot.Name = *name
	}
	if *seed != 0 {
		cfg.Pilot.Seed = *seed
	}
	if cfg.Pilot.Seed == 0 {
		cfg.Pilot.Seed = time.Now().UnixNano()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		log.Println("Shutting down...")
		cancel()
	}()

	auto := pilot.NewAutopilot(cfg.Pilot.Seed)
	sess := pilot.NewSession(
		cfg.Pilot.ServerURL,
		cfg.Pilot.Name,
		cfg.Pilot.Token,
		sim.DefaultWorld(),
		cfg.Tuning(),
		auto,
	)

	log.Printf("Connecting to %s", cfg.Pilot.ServerURL)
	if err := sess.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("session: %v", err)
	}
}
