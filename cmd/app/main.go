package main

import (
	"flag"
	"log"
	"os"

	"StockScan/internal/di"
	"StockScan/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s notifier=%s instruments=%d strategies=%d",
		cfg.Environment, cfg.Sink.Notifier, len(cfg.Scan.Instruments), len(cfg.Scan.Strategies))

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
