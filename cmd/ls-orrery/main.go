// Command ls-orrery is a terminal orrery: the Sun, eight planets and an
// asteroid belt on circular orbits under a shared speed control.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/litescript/ls-orrery/internal/assistant"
	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/metrics"
	"github.com/litescript/ls-orrery/internal/planetdata"
	"github.com/litescript/ls-orrery/internal/sim"
	"github.com/litescript/ls-orrery/internal/state"
	"github.com/litescript/ls-orrery/internal/stream"
	"github.com/litescript/ls-orrery/internal/transport"
	"github.com/litescript/ls-orrery/internal/ui"
)

// CLI flags for headless mode
var (
	ticks        int
	summaryMode  bool
	snapshotPath string
	startSpeed   float64
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	envPath := flag.String("env", ".env", "Env file with API keys")
	dataPath := flag.String("data", planetdata.DefaultPath, "Planet data JSON file")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "Log file for TUI mode (default: no logging)")
	frame := flag.Duration("frame", config.DefaultFrameInterval, "Frame interval (e.g., 16ms)")
	seed := flag.Uint64("seed", 1, "Asteroid belt and starfield seed")
	asteroids := flag.Int("asteroids", 0, "Asteroid count (default from config)")
	noFlyIn := flag.Bool("no-fly-in", false, "Skip the camera fly-in")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g., :9090)")
	streamAddr := flag.String("stream-addr", "", "Serve the websocket frame feed on this address (e.g., :8080)")
	flag.IntVar(&ticks, "ticks", 0, "Run N ticks without the TUI")
	flag.BoolVar(&summaryMode, "summary", false, "Print planet table instead of TUI")
	flag.StringVar(&snapshotPath, "snapshot-path", "", "Export JSON frame to file (use - for stdout)")
	flag.Float64Var(&startSpeed, "speed", transport.DefaultSpeed, "Starting speed multiplier for headless runs")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := config.LoadEnv(*envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyEnv()

	// Flags given on the command line win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data":
			cfg.DataPath = *dataPath
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-file":
			cfg.LogFile = *logFile
		case "frame":
			cfg.FrameInterval = *frame
		case "seed":
			cfg.Seed = *seed
		case "asteroids":
			cfg.Belt.Count = *asteroids
		case "no-fly-in":
			cfg.FlyIn = !*noFlyIn
		case "metrics-addr":
			cfg.Metrics.Addr = *metricsAddr
		case "stream-addr":
			cfg.Stream.Addr = *streamAddr
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid config: %v\n", err)
		os.Exit(1)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// Headless mode: no TUI
	headless := ticks > 0 || summaryMode || snapshotPath != ""
	if headless {
		logger := logging.New(logging.ParseLevel(cfg.LogLevel))
		if err := runHeadless(ctx, cfg, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runTUI(ctx, cancel, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(ctx context.Context, cancel context.CancelFunc, cfg config.Config) error {
	// The alt screen owns the terminal, so logs go to a file or nowhere
	logger := logging.Discard()
	if cfg.LogFile != "" {
		l, closer, err := logging.NewFile(logging.ParseLevel(cfg.LogLevel), cfg.LogFile)
		if err != nil {
			return err
		}
		defer closer.Close()
		logger = l
	}

	stateCfg := state.DefaultConfig()
	stateCfg.FrameInterval = cfg.FrameInterval
	stateMgr := state.NewManager(stateCfg)

	collector := metrics.NewCollector()

	opts := ui.DefaultOptions()
	opts.Belt = cfg.Belt
	opts.Seed = cfg.Seed
	opts.FlyIn = cfg.FlyIn
	opts.Metrics = collector
	opts.Logger = logger
	opts.PublishEvery = cfg.Stream.EveryTicks
	opts.PublishAsteroids = cfg.Stream.Asteroids

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Metrics.Addr != "" {
		logger.Info("Serving metrics on %s%s", cfg.Metrics.Addr, cfg.Metrics.Path)
		g.Go(func() error {
			return collector.Serve(gctx, cfg.Metrics.Addr, cfg.Metrics.Path)
		})
	}

	if cfg.Stream.Addr != "" {
		hub := stream.NewHub(logger.With("stream"), collector)
		opts.Publisher = hub
		logger.Info("Serving frames on ws://%s%s", cfg.Stream.Addr, cfg.Stream.Path)
		g.Go(func() error {
			return hub.Serve(gctx, cfg.Stream.Addr, cfg.Stream.Path)
		})
	}

	if cfg.AssistantEnabled() {
		client, err := assistant.New(
			assistant.WithURL(cfg.Assistant.URL),
			assistant.WithAPIKey(cfg.Assistant.APIKey),
			assistant.WithModel(cfg.Assistant.Model),
			assistant.WithMaxTokens(cfg.Assistant.MaxTokens),
			assistant.WithTimeout(cfg.Assistant.Timeout),
			assistant.WithCacheSize(cfg.Assistant.CacheSize),
		)
		if err != nil {
			return err
		}
		opts.Assistant = client
		opts.AssistantTimeout = cfg.Assistant.Timeout
	} else {
		logger.Info("Assistant disabled: %s not set", config.EnvAssistantKey)
	}

	p := tea.NewProgram(ui.New(stateMgr, opts), tea.WithAltScreen())

	// Load planet data in background; the intro screen shows progress
	go loadData(cfg.DataPath, stateMgr, collector, p, logger)

	// Quit the program when a signal or a failed server cancels the group
	go func() {
		<-gctx.Done()
		p.Quit()
	}()

	_, runErr := p.Run()

	cancel()
	if err := g.Wait(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func loadData(path string, stateMgr *state.Manager, collector *metrics.Collector, p *tea.Program, logger *logging.Logger) {
	logger.Debug("Loading planet data from %s", path)

	start := time.Now()
	ds, err := planetdata.Load(path)
	dur := time.Since(start)

	stateMgr.SetDataset(ds, dur, err)
	collector.RecordDataLoad(err)

	if err != nil {
		logger.Error("Load failed: %v", err)
		p.Send(ui.ErrorMsg{Error: err})
		return
	}

	logger.Info("Loaded %d planets (epoch %s) in %v", len(ds.Planets), ds.EpochLabel(), dur)
	p.Send(ui.DataLoadedMsg{Snapshot: stateMgr.Snapshot()})
}

// runHeadless steps the simulation without the TUI and writes the result.
func runHeadless(ctx context.Context, cfg config.Config, logger *logging.Logger) error {
	ds, err := planetdata.Load(cfg.DataPath)
	if err != nil {
		return err
	}

	s, err := sim.New(ds, cfg.Belt, cfg.Seed)
	if err != nil {
		return err
	}
	transport.DefaultSlider().Input(s.Transport(), startSpeed)

	start := time.Now()
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Step()
	}
	logger.Debug("Ran %d ticks at %s in %v", ticks,
		transport.FormatSpeed(s.Transport().Speed()), time.Since(start))

	// With no output flags, a terminal gets the table and a pipe gets JSON
	if !summaryMode && snapshotPath == "" {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			summaryMode = true
		} else {
			snapshotPath = "-"
		}
	}

	if snapshotPath != "" {
		if err := writeSnapshot(s, snapshotPath); err != nil {
			return err
		}
	}

	if summaryMode {
		sim.WriteSummaryTable(os.Stdout, s)
	}
	return nil
}

func writeSnapshot(s *sim.Simulation, path string) error {
	export := sim.ExportFrame(s, time.Now().UTC())

	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create snapshot file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := export.WriteJSON(w); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}
