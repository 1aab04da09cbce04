// Command planetgen builds planetData.json: the base planet descriptors
// enriched with physical statistics from the planets API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/planetdata"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	envPath := flag.String("env", ".env", "Env file with API keys")
	out := flag.String("out", planetdata.DefaultPath, "Output file (use - for stdout)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	offline := flag.Bool("offline", false, "Skip the stats API and write base data only")
	flag.Parse()

	logger := logging.New(logging.ParseLevel(*logLevel)).With("planetgen")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
	if err := config.LoadEnv(*envPath); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
	cfg.ApplyEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := run(ctx, cfg.Stats, *out, *offline, logger); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.StatsConfig, out string, offline bool, logger *logging.Logger) error {
	planets := planetdata.BasePlanets()

	switch {
	case offline:
		logger.Info("Offline: writing base data for %d planets", len(planets))
	case cfg.APIKey == "":
		logger.Warn("%s not set, writing base data only", config.EnvStatsKey)
	default:
		fetcher := planetdata.NewStatsFetcher(
			planetdata.WithURL(cfg.URL),
			planetdata.WithAPIKey(cfg.APIKey),
			planetdata.WithTimeout(cfg.Timeout),
		)

		var limiter *rate.Limiter
		if cfg.RatePerSec > 0 {
			limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), max(cfg.Burst, 1))
		}

		start := time.Now()
		logger.Info("Fetching stats for %d planets from %s", len(planets), fetcher.URL())
		enriched, err := planetdata.Enrich(ctx, fetcher, planets, planetdata.EnrichOptions{
			Concurrency: cfg.Concurrency,
			Limiter:     limiter,
			Logger:      logger,
		})
		if err != nil {
			return fmt.Errorf("enrich planets: %w", err)
		}
		planets = enriched

		withStats := 0
		for _, p := range planets {
			if p.HasStats() {
				withStats++
			}
		}
		logger.Info("Enriched %d/%d planets in %v", withStats, len(planets), time.Since(start).Round(time.Millisecond))
	}

	ds := planetdata.NewDataset(planets, time.Now().UTC())
	if err := ds.Validate(); err != nil {
		return err
	}

	if out == "-" {
		return ds.WriteJSON(os.Stdout)
	}
	if err := ds.WriteFile(out); err != nil {
		return err
	}
	logger.Info("Wrote %s", out)
	return nil
}
