package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/zappabad/cdamarket/internal/config"
	"github.com/zappabad/cdamarket/internal/logging"
	"github.com/zappabad/cdamarket/internal/results"
	"github.com/zappabad/cdamarket/internal/sim"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "cdasim: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := flag.String("config", "", "path to a YAML config file")
	envPath := flag.String("env", "", "path to a .env file (default ./.env)")
	outDir := flag.String("out", "", "directory for CSV results (overrides config)")
	archive := flag.String("archive", "", "Pebble archive directory (overrides config)")
	flag.Parse()

	if err := config.LoadEnvFile(*envPath); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}
	if *archive != "" {
		cfg.Output.Archive = *archive
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := sim.New(cfg.Sim(), log)
	if err != nil {
		return err
	}
	log.Info("simulation starting",
		zap.Int64("seed", cfg.Seed),
		zap.Int("runs", cfg.Runs),
		zap.Int("periods", cfg.Periods),
		zap.Int64("timesteps", cfg.Timesteps),
		zap.Int("traders", cfg.Sim().TraderCount()))

	start := time.Now()
	if err := s.Run(ctx); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	set := s.Results()

	paths, err := results.WriteAll(cfg.Output.Dir, set, time.Now())
	if err != nil {
		return fmt.Errorf("export results: %w", err)
	}
	for _, p := range paths {
		log.Info("results written", zap.String("path", p))
	}

	if cfg.Output.Archive != "" {
		a, err := results.OpenArchive(cfg.Output.Archive)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.Save(set); err != nil {
			return err
		}
		log.Info("results archived",
			zap.String("path", cfg.Output.Archive),
			zap.String("experiment", set.Experiment.String()))
	}

	log.Info("simulation finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("trades", len(set.Trades)),
		zap.Int("arbitrages", len(set.Arbitrage)),
		zap.Int("rejected", len(set.Rejected)))
	return nil
}
