package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"FXPulse/internal/di"
	"FXPulse/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	checkOnly := flag.Bool("check-config", false, "validate the config and exit")
	flag.Parse()

	if err := run(*configPath, *checkOnly); err != nil {
		log.Printf("fxpulse: %v", err)
		os.Exit(1)
	}
}

func run(configPath string, checkOnly bool) error {
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if checkOnly {
		fmt.Printf("config ok: env=%s cache=%s pairs=%v\n", cfg.Environment, cfg.Cache.Backend, cfg.Refresher.Pairs)
		return nil
	}

	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer cleanup()
	return app.Run()
}
